package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/auth-service/internal/entity"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateEmail = errors.New("email already exists")
	ErrUserNotFound   = errors.New("user not found")
)

type mongoUser struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty"`
	Name                   string             `bson:"name"`
	Email                  string             `bson:"email"`
	Password               string             `bson:"password"`
	Role                   string             `bson:"role"`
	IsUserVerified         bool               `bson:"is_user_verified"`
	VerificationCode       string             `bson:"verification_code,omitempty"`
	VerificationExpiresAt  *time.Time         `bson:"verification_expires_at,omitempty"`
	ResetPasswordToken     string             `bson:"reset_password_token,omitempty"`
	ResetPasswordExpiresAt *time.Time         `bson:"reset_password_expires_at,omitempty"`
	CreatedAt              time.Time          `bson:"created_at"`
	UpdatedAt              time.Time          `bson:"updated_at"`
}

func (m *mongoUser) toEntity() *entity.User {
	return &entity.User{
		ID:                     m.ID,
		Name:                   m.Name,
		Email:                  m.Email,
		Password:               m.Password,
		Role:                   m.Role,
		IsUserVerified:         m.IsUserVerified,
		VerificationCode:       m.VerificationCode,
		VerificationExpiresAt:  m.VerificationExpiresAt,
		ResetPasswordToken:     m.ResetPasswordToken,
		ResetPasswordExpiresAt: m.ResetPasswordExpiresAt,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

func fromEntity(e *entity.User) *mongoUser {
	return &mongoUser{
		ID:                     e.ID,
		Name:                   e.Name,
		Email:                  e.Email,
		Password:               e.Password,
		Role:                   e.Role,
		IsUserVerified:         e.IsUserVerified,
		VerificationCode:       e.VerificationCode,
		VerificationExpiresAt:  e.VerificationExpiresAt,
		ResetPasswordToken:     e.ResetPasswordToken,
		ResetPasswordExpiresAt: e.ResetPasswordExpiresAt,
		CreatedAt:              e.CreatedAt,
		UpdatedAt:              e.UpdatedAt,
	}
}

type UserRepository struct {
	db     *mongo.Database
	logger *zap.Logger
}

func NewUserRepository(db *mongo.Database, logger *zap.Logger) *UserRepository {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ensure indexes (idempotent operation). Concurrent signups with the
	// same email are resolved by the unique constraint, not by locking.
	userCollection := db.Collection("users")
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	_, err := userCollection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Warn("Failed to create indexes for users collection (may already exist)", zap.Error(err))
	} else {
		logger.Info("Successfully ensured indexes for users collection")
	}

	return &UserRepository{
		db:     db,
		logger: logger.Named("UserRepository"),
	}
}

// CreateUser hashes the plaintext password and inserts the account with its
// freshly minted verification slot. The plaintext never reaches the store.
func (r *UserRepository) CreateUser(ctx context.Context, user *entity.User) (primitive.ObjectID, error) {
	r.logger.Info("Attempting to create user in repository", zap.String("email", user.Email))
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		r.logger.Error("Failed to hash password during user creation", zap.String("email", user.Email), zap.Error(err))
		return primitive.NilObjectID, err
	}

	dbUser := fromEntity(user)
	dbUser.Password = string(hashedPassword)
	if dbUser.ID.IsZero() {
		dbUser.ID = primitive.NewObjectID()
	}
	now := time.Now()
	dbUser.CreatedAt = now
	dbUser.UpdatedAt = now
	dbUser.IsUserVerified = false

	_, err = r.db.Collection("users").InsertOne(ctx, dbUser)
	if err != nil {
		if isDuplicateEmailErr(err) {
			r.logger.Warn("Duplicate email during user creation", zap.String("email", user.Email), zap.Error(err))
			return primitive.NilObjectID, ErrDuplicateEmail
		}
		r.logger.Error("Database error during user creation", zap.String("email", user.Email), zap.Error(err))
		return primitive.NilObjectID, err
	}
	r.logger.Info("User created successfully in repository", zap.String("userID", dbUser.ID.Hex()))
	return dbUser.ID, nil
}

func isDuplicateEmailErr(err error) bool {
	var writeException mongo.WriteException
	if errors.As(err, &writeException) {
		for _, writeError := range writeException.WriteErrors {
			if writeError.Code == 11000 && strings.Contains(writeError.Message, "email_1") {
				return true
			}
		}
	}
	return false
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.logger.Debug("Attempting to get user by email from repository", zap.String("email", email))
	var dbUser mongoUser
	err := r.db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&dbUser)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Debug("User not found by email in repository", zap.String("email", email))
			return nil, ErrUserNotFound
		}
		r.logger.Error("Database error fetching user by email", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return dbUser.toEntity(), nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, userID primitive.ObjectID) (*entity.User, error) {
	r.logger.Debug("Attempting to get user by ID from repository", zap.String("userID", userID.Hex()))
	var dbUser mongoUser
	err := r.db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&dbUser)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Debug("User not found by ID in repository", zap.String("userID", userID.Hex()))
			return nil, ErrUserNotFound
		}
		r.logger.Error("Database error fetching user by ID", zap.String("userID", userID.Hex()), zap.Error(err))
		return nil, err
	}
	return dbUser.toEntity(), nil
}

// GetUserByVerificationCode matches the code and filters out expired slots at
// the query layer, so an expired code is indistinguishable from a wrong one.
func (r *UserRepository) GetUserByVerificationCode(ctx context.Context, code string) (*entity.User, error) {
	r.logger.Debug("Attempting to get user by verification code from repository")
	filter := bson.M{
		"verification_code":       code,
		"verification_expires_at": bson.M{"$gt": time.Now()},
	}
	var dbUser mongoUser
	err := r.db.Collection("users").FindOne(ctx, filter).Decode(&dbUser)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		r.logger.Error("Database error fetching user by verification code", zap.Error(err))
		return nil, err
	}
	return dbUser.toEntity(), nil
}

// GetUserByResetToken matches the token value only. The caller compares the
// expiry immediately after, to tell an expired token from an unknown one.
func (r *UserRepository) GetUserByResetToken(ctx context.Context, resetToken string) (*entity.User, error) {
	r.logger.Debug("Attempting to get user by reset token from repository")
	var dbUser mongoUser
	err := r.db.Collection("users").FindOne(ctx, bson.M{"reset_password_token": resetToken}).Decode(&dbUser)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		r.logger.Error("Database error fetching user by reset token", zap.Error(err))
		return nil, err
	}
	return dbUser.toEntity(), nil
}

// MarkUserAsVerified flips the verified flag and clears the verification
// slot in one update, so the code and its expiry never survive separately.
func (r *UserRepository) MarkUserAsVerified(ctx context.Context, userID primitive.ObjectID) error {
	r.logger.Info("Marking user as verified", zap.String("userID", userID.Hex()))
	update := bson.M{
		"$set": bson.M{
			"is_user_verified": true,
			"updated_at":       time.Now(),
		},
		"$unset": bson.M{
			"verification_code":       "",
			"verification_expires_at": "",
		},
	}
	result, err := r.db.Collection("users").UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		r.logger.Error("DB error marking user as verified", zap.String("userID", userID.Hex()), zap.Error(err))
		return err
	}
	if result.MatchedCount == 0 {
		r.logger.Warn("User not found for marking as verified", zap.String("userID", userID.Hex()))
		return ErrUserNotFound
	}
	r.logger.Info("User marked as verified", zap.String("userID", userID.Hex()))
	return nil
}

// SaveResetToken overwrites the reset slot. A previously issued token
// becomes unusable the moment the field is replaced.
func (r *UserRepository) SaveResetToken(ctx context.Context, userID primitive.ObjectID, resetToken string, expiresAt time.Time) error {
	r.logger.Info("Saving reset password token", zap.String("userID", userID.Hex()))
	update := bson.M{
		"$set": bson.M{
			"reset_password_token":      resetToken,
			"reset_password_expires_at": expiresAt,
			"updated_at":                time.Now(),
		},
	}
	result, err := r.db.Collection("users").UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		r.logger.Error("DB error saving reset token", zap.String("userID", userID.Hex()), zap.Error(err))
		return err
	}
	if result.MatchedCount == 0 {
		r.logger.Warn("User not found for saving reset token", zap.String("userID", userID.Hex()))
		return ErrUserNotFound
	}
	return nil
}

// UpdatePassword hashes the new password, replaces the stored hash and
// clears the reset slot in one update.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID primitive.ObjectID, newPassword string) error {
	r.logger.Info("Updating password", zap.String("userID", userID.Hex()))
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		r.logger.Error("Failed to hash new password", zap.String("userID", userID.Hex()), zap.Error(err))
		return err
	}
	update := bson.M{
		"$set": bson.M{
			"password":   string(hashedPassword),
			"updated_at": time.Now(),
		},
		"$unset": bson.M{
			"reset_password_token":      "",
			"reset_password_expires_at": "",
		},
	}
	result, err := r.db.Collection("users").UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		r.logger.Error("DB error updating password", zap.String("userID", userID.Hex()), zap.Error(err))
		return err
	}
	if result.MatchedCount == 0 {
		r.logger.Warn("User not found for password update", zap.String("userID", userID.Hex()))
		return ErrUserNotFound
	}
	r.logger.Info("Password updated successfully", zap.String("userID", userID.Hex()))
	return nil
}
