package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Abdurahmanit/GroupProject/auth-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/auth-service/internal/middleware"
	"github.com/Abdurahmanit/GroupProject/auth-service/internal/token"
	"github.com/Abdurahmanit/GroupProject/auth-service/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const sessionCookieName = "token"

// AuthService is the lifecycle engine surface consumed by the HTTP handlers.
type AuthService interface {
	Signup(ctx context.Context, name, email, password, role string) (*entity.User, string, error)
	VerifyEmail(ctx context.Context, code string) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	ForgetPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
	CheckAuth(ctx context.Context, userID string) (*entity.User, error)
}

type AuthHandler struct {
	auth          AuthService
	validate      *validator.Validate
	secureCookies bool
	logger        *zap.Logger
}

func NewAuthHandler(auth AuthService, secureCookies bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		secureCookies: secureCookies,
		logger:        logger.Named("AuthHandler"),
	}
}

// Signup handles POST /signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !h.decodeValidate(w, r, &req) {
		return
	}

	user, sessionToken, err := h.auth.Signup(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil && !errors.Is(err, usecase.ErrEmailDelivery) {
		h.writeError(w, err)
		return
	}

	h.setSessionCookie(w, sessionToken)

	message := "User created successfully"
	if errors.Is(err, usecase.ErrEmailDelivery) {
		message = "User created successfully, but the verification email could not be sent"
	}
	writeJSON(w, http.StatusCreated, userMessageResponse{Message: message, User: toUserResponse(user)})
}

// VerifyEmail handles POST /verify.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if !h.decodeValidate(w, r, &req) {
		return
	}

	_, err := h.auth.VerifyEmail(r.Context(), req.Code)
	if err != nil && !errors.Is(err, usecase.ErrEmailDelivery) {
		h.writeError(w, err)
		return
	}

	message := "Email verified successfully!"
	if errors.Is(err, usecase.ErrEmailDelivery) {
		message = "Email verified successfully, but the welcome email could not be sent"
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: message})
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeValidate(w, r, &req) {
		return
	}

	user, sessionToken, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.setSessionCookie(w, sessionToken)
	writeJSON(w, http.StatusOK, userMessageResponse{Message: "Login successful", User: toUserResponse(user)})
}

// Logout handles POST /logout. Sessions are stateless, so logout is an
// instruction to the client to discard its cookie; it always succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logout successful"})
}

// ForgetPassword handles POST /forget-password.
func (h *AuthHandler) ForgetPassword(w http.ResponseWriter, r *http.Request) {
	var req forgetPasswordRequest
	if !h.decodeValidate(w, r, &req) {
		return
	}

	err := h.auth.ForgetPassword(r.Context(), req.Email)
	if err != nil && !errors.Is(err, usecase.ErrEmailDelivery) {
		h.writeError(w, err)
		return
	}

	message := "Reset password email sent successfully"
	if errors.Is(err, usecase.ErrEmailDelivery) {
		message = "Reset token issued, but the reset email could not be sent"
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: message})
}

// ResetPassword handles POST /reset-password/{token}.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	resetToken := chi.URLParam(r, "token")
	if resetToken == "" {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Reset token is required"})
		return
	}

	var req resetPasswordRequest
	if !h.decodeValidate(w, r, &req) {
		return
	}

	err := h.auth.ResetPassword(r.Context(), resetToken, req.Password)
	if err != nil && !errors.Is(err, usecase.ErrEmailDelivery) {
		h.writeError(w, err)
		return
	}

	message := "Password reset successful."
	if errors.Is(err, usecase.ErrEmailDelivery) {
		message = "Password reset successful, but the confirmation email could not be sent"
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: message})
}

// CheckAuth handles GET /check-auth behind the session guard.
func (h *AuthHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "Unauthorized"})
		return
	}

	user, err := h.auth.CheckAuth(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userMessageResponse{Message: "Authenticated", User: toUserResponse(user)})
}

// decodeValidate decodes the JSON body into req and validates it, writing
// the 400 response itself when the request is unusable.
func (h *AuthHandler) decodeValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.logger.Debug("Failed to decode request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: validationMessage(err)})
		return false
	}
	return true
}

func validationMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fieldErr := range validationErrs {
			switch fieldErr.Tag() {
			case "eqfield":
				return "Passwords do not match"
			case "email":
				return "Invalid email address"
			case "oneof":
				return "Invalid role"
			}
		}
	}
	return "All fields are required"
}

// writeError maps lifecycle errors to HTTP statuses. Messages stay safe for
// client display; internals are logged, never returned.
func (h *AuthHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrEmailTaken):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "User already exists"})
	case errors.Is(err, usecase.ErrInvalidOrExpiredCode):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid or expired verification code."})
	case errors.Is(err, usecase.ErrUserNotFound):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "User not found"})
	case errors.Is(err, usecase.ErrUserNotVerified):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "User is not verified. Please verify your email"})
	case errors.Is(err, usecase.ErrInvalidCredentials):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid password"})
	case errors.Is(err, usecase.ErrInvalidResetToken):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid or expired reset token."})
	case errors.Is(err, usecase.ErrResetTokenExpired):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Token expired. Please request a new password reset."})
	default:
		h.logger.Error("Internal error handling request", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Server error"})
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, sessionToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionToken,
		Path:     "/",
		Expires:  time.Now().Add(token.SessionTTL),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteNoneMode,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
