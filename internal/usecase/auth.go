// Package usecase implements the account lifecycle: signup, email
// verification, login, forget-password and reset-password transitions over
// the credential store.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/auth-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/auth-service/internal/repository"
	"github.com/Abdurahmanit/GroupProject/auth-service/internal/token"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken           = errors.New("user already exists")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired verification code")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserNotVerified      = errors.New("user is not verified, please verify your email")
	ErrInvalidCredentials   = errors.New("invalid password")
	ErrInvalidResetToken    = errors.New("invalid reset token")
	ErrResetTokenExpired    = errors.New("token expired, please request a new password reset")

	// ErrEmailDelivery reports that the state transition was persisted but
	// the follow-up email could not be sent. The transition is never rolled
	// back for it; callers report it alongside the successful outcome.
	ErrEmailDelivery = errors.New("email delivery failed")
)

// UserRepository is the credential store contract consumed by the engine.
type UserRepository interface {
	CreateUser(ctx context.Context, user *entity.User) (primitive.ObjectID, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, userID primitive.ObjectID) (*entity.User, error)
	GetUserByVerificationCode(ctx context.Context, code string) (*entity.User, error)
	GetUserByResetToken(ctx context.Context, resetToken string) (*entity.User, error)
	MarkUserAsVerified(ctx context.Context, userID primitive.ObjectID) error
	SaveResetToken(ctx context.Context, userID primitive.ObjectID, resetToken string, expiresAt time.Time) error
	UpdatePassword(ctx context.Context, userID primitive.ObjectID, newPassword string) error
}

// EmailSender delivers the lifecycle's transactional emails.
type EmailSender interface {
	SendVerificationEmail(ctx context.Context, email, verificationCode string) error
	SendWelcomeEmail(ctx context.Context, email, name string) error
	SendResetPasswordEmail(ctx context.Context, email, name, resetURL string) error
	SendPasswordResetSuccessEmail(ctx context.Context, email string) error
}

type AuthUsecase struct {
	repo      UserRepository
	emails    EmailSender
	jwt       *token.JWT
	clientURL string
	logger    *zap.Logger
}

func NewAuthUsecase(repo UserRepository, emails EmailSender, jwt *token.JWT, clientURL string, logger *zap.Logger) *AuthUsecase {
	return &AuthUsecase{
		repo:      repo,
		emails:    emails,
		jwt:       jwt,
		clientURL: clientURL,
		logger:    logger.Named("AuthUsecase"),
	}
}

// Signup creates an unverified account with a fresh verification code,
// issues a session token and sends the verification email. When the email
// fails after the account is persisted, the account and session stand and
// ErrEmailDelivery is returned alongside them.
func (u *AuthUsecase) Signup(ctx context.Context, name, email, password, role string) (*entity.User, string, error) {
	if role == "" {
		role = entity.RoleUser
	}

	if _, err := u.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", err
	}

	code, codeExpiresAt, err := token.NewVerificationCode()
	if err != nil {
		return nil, "", err
	}

	user := &entity.User{
		Name:                  name,
		Email:                 email,
		Password:              password, // hashed in the repository
		Role:                  role,
		VerificationCode:      code,
		VerificationExpiresAt: &codeExpiresAt,
	}

	userID, err := u.repo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// Lost a race with a concurrent signup for the same email.
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}
	user.ID = userID
	user.Password = ""

	sessionToken, err := u.jwt.NewSessionToken(userID.Hex())
	if err != nil {
		u.logger.Error("Failed to issue session token after signup", zap.String("userID", userID.Hex()), zap.Error(err))
		return nil, "", err
	}

	if err := u.emails.SendVerificationEmail(ctx, email, code); err != nil {
		u.logger.Warn("User created but verification email failed", zap.String("userID", userID.Hex()), zap.Error(err))
		return user, sessionToken, ErrEmailDelivery
	}

	u.logger.Info("User signed up successfully", zap.String("userID", userID.Hex()), zap.String("email", email))
	return user, sessionToken, nil
}

// VerifyEmail consumes an unexpired verification code: the account becomes
// verified and the verification slot is cleared, so the same code cannot be
// used twice.
func (u *AuthUsecase) VerifyEmail(ctx context.Context, code string) (*entity.User, error) {
	user, err := u.repo.GetUserByVerificationCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidOrExpiredCode
		}
		return nil, err
	}

	if err := u.repo.MarkUserAsVerified(ctx, user.ID); err != nil {
		return nil, err
	}
	user.IsUserVerified = true
	user.VerificationCode = ""
	user.VerificationExpiresAt = nil
	user.Password = ""

	if err := u.emails.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
		u.logger.Warn("User verified but welcome email failed", zap.String("userID", user.ID.Hex()), zap.Error(err))
		return user, ErrEmailDelivery
	}

	u.logger.Info("Email verified successfully", zap.String("userID", user.ID.Hex()))
	return user, nil
}

// Login authenticates a verified account and issues a session token. No
// credential field is mutated on login.
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := u.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	if !user.IsUserVerified {
		return nil, "", ErrUserNotVerified
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	sessionToken, err := u.jwt.NewSessionToken(user.ID.Hex())
	if err != nil {
		u.logger.Error("Failed to issue session token on login", zap.String("userID", user.ID.Hex()), zap.Error(err))
		return nil, "", err
	}

	user.Password = ""
	u.logger.Info("User logged in successfully", zap.String("userID", user.ID.Hex()))
	return user, sessionToken, nil
}

// ForgetPassword issues a fresh reset token, overwriting any pending one,
// and emails the reset link. The previous token becomes unusable the moment
// the slot is overwritten.
func (u *AuthUsecase) ForgetPassword(ctx context.Context, email string) error {
	user, err := u.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	resetToken, expiresAt, err := token.NewResetToken()
	if err != nil {
		return err
	}

	if err := u.repo.SaveResetToken(ctx, user.ID, resetToken, expiresAt); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", u.clientURL, resetToken)
	if err := u.emails.SendResetPasswordEmail(ctx, user.Email, user.Name, resetURL); err != nil {
		u.logger.Warn("Reset token saved but reset email failed", zap.String("userID", user.ID.Hex()), zap.Error(err))
		return ErrEmailDelivery
	}

	u.logger.Info("Reset password email sent", zap.String("userID", user.ID.Hex()))
	return nil
}

// ResetPassword consumes an unexpired reset token: the password hash is
// replaced and the reset slot cleared in the same update. The expiry is
// compared against a single clock reading taken right after the lookup.
func (u *AuthUsecase) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	user, err := u.repo.GetUserByResetToken(ctx, resetToken)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	if user.ResetPasswordExpiresAt == nil || user.ResetPasswordExpiresAt.Before(time.Now()) {
		return ErrResetTokenExpired
	}

	if err := u.repo.UpdatePassword(ctx, user.ID, newPassword); err != nil {
		return err
	}

	if err := u.emails.SendPasswordResetSuccessEmail(ctx, user.Email); err != nil {
		u.logger.Warn("Password reset but confirmation email failed", zap.String("userID", user.ID.Hex()), zap.Error(err))
		return ErrEmailDelivery
	}

	u.logger.Info("Password reset successfully", zap.String("userID", user.ID.Hex()))
	return nil
}

// CheckAuth resolves a session-guard user id back to the stored account.
func (u *AuthUsecase) CheckAuth(ctx context.Context, userIDHex string) (*entity.User, error) {
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user, err := u.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Password = ""
	return user, nil
}
