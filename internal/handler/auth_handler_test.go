package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Abdurahmanit/GroupProject/auth-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/auth-service/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Signup(ctx context.Context, name, email, password, role string) (*entity.User, string, error) {
	args := m.Called(ctx, name, email, password, role)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}
func (m *MockAuthService) VerifyEmail(ctx context.Context, code string) (*entity.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}
func (m *MockAuthService) ForgetPassword(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}
func (m *MockAuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	args := m.Called(ctx, resetToken, newPassword)
	return args.Error(0)
}
func (m *MockAuthService) CheckAuth(ctx context.Context, userID string) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func newTestHandler(svc *MockAuthService) *AuthHandler {
	return NewAuthHandler(svc, false, zap.NewNop())
}

func postJSON(t *testing.T, h http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "token" {
			return cookie
		}
	}
	return nil
}

func TestSignup_Success(t *testing.T) {
	svc := new(MockAuthService)
	user := &entity.User{ID: primitive.NewObjectID(), Name: "A", Email: "a@x.com", Role: entity.RoleUser}
	svc.On("Signup", mock.Anything, "A", "a@x.com", "p1", "").Return(user, "signed-token", nil)

	rec := postJSON(t, newTestHandler(svc).Signup, "/signup",
		`{"name":"A","email":"a@x.com","password":"p1","confirmPassword":"p1"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp userMessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "User created successfully", resp.Message)
	assert.Equal(t, "a@x.com", resp.User.Email)
	assert.False(t, resp.User.IsUserVerified)

	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "signed-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestSignup_PasswordMismatch(t *testing.T) {
	svc := new(MockAuthService)

	rec := postJSON(t, newTestHandler(svc).Signup, "/signup",
		`{"name":"A","email":"a@x.com","password":"p1","confirmPassword":"p2"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Passwords do not match")
	svc.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSignup_MissingFields(t *testing.T) {
	svc := new(MockAuthService)

	rec := postJSON(t, newTestHandler(svc).Signup, "/signup", `{"email":"a@x.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "All fields are required")
}

func TestSignup_InvalidRole(t *testing.T) {
	svc := new(MockAuthService)

	rec := postJSON(t, newTestHandler(svc).Signup, "/signup",
		`{"name":"A","email":"a@x.com","password":"p1","confirmPassword":"p1","role":"superuser"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid role")
	svc.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSignup_EmailTaken(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Signup", mock.Anything, "A", "a@x.com", "p1", "").Return(nil, "", usecase.ErrEmailTaken)

	rec := postJSON(t, newTestHandler(svc).Signup, "/signup",
		`{"name":"A","email":"a@x.com","password":"p1","confirmPassword":"p1"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User already exists")
}

func TestSignup_EmailDeliveryFailureStillCreated(t *testing.T) {
	svc := new(MockAuthService)
	user := &entity.User{ID: primitive.NewObjectID(), Name: "A", Email: "a@x.com", Role: entity.RoleUser}
	svc.On("Signup", mock.Anything, "A", "a@x.com", "p1", "").Return(user, "signed-token", usecase.ErrEmailDelivery)

	rec := postJSON(t, newTestHandler(svc).Signup, "/signup",
		`{"name":"A","email":"a@x.com","password":"p1","confirmPassword":"p1"}`)

	// The account state change is authoritative; email failure is reported,
	// not treated as a full failure.
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "verification email could not be sent")
	require.NotNil(t, sessionCookie(t, rec))
}

func TestVerifyEmail(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("VerifyEmail", mock.Anything, "123456").Return(&entity.User{}, nil)

	rec := postJSON(t, newTestHandler(svc).VerifyEmail, "/verify", `{"code":"123456"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email verified successfully")
}

func TestVerifyEmail_InvalidCode(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("VerifyEmail", mock.Anything, "000000").Return(nil, usecase.ErrInvalidOrExpiredCode)

	rec := postJSON(t, newTestHandler(svc).VerifyEmail, "/verify", `{"code":"000000"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired verification code")
}

func TestLogin_SetsCookie(t *testing.T) {
	svc := new(MockAuthService)
	user := &entity.User{ID: primitive.NewObjectID(), Email: "a@x.com", IsUserVerified: true}
	svc.On("Login", mock.Anything, "a@x.com", "p1").Return(user, "signed-token", nil)

	rec := postJSON(t, newTestHandler(svc).Login, "/login", `{"email":"a@x.com","password":"p1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "signed-token", cookie.Value)
}

func TestLogin_NotVerified(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Login", mock.Anything, "a@x.com", "p1").Return(nil, "", usecase.ErrUserNotVerified)

	rec := postJSON(t, newTestHandler(svc).Login, "/login", `{"email":"a@x.com","password":"p1"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not verified")
	assert.Nil(t, sessionCookie(t, rec))
}

func TestLogin_StoreUnavailable(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Login", mock.Anything, "a@x.com", "p1").Return(nil, "", assert.AnError)

	rec := postJSON(t, newTestHandler(svc).Login, "/login", `{"email":"a@x.com","password":"p1"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Server error")
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestLogout_ClearsCookie(t *testing.T) {
	rec := postJSON(t, newTestHandler(new(MockAuthService)).Logout, "/logout", ``)

	assert.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestResetPassword_RoutesTokenParam(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("ResetPassword", mock.Anything, "abc123", "newpass").Return(nil)

	r := chi.NewRouter()
	r.Post("/reset-password/{token}", newTestHandler(svc).ResetPassword)

	req := httptest.NewRequest(http.MethodPost, "/reset-password/abc123",
		strings.NewReader(`{"password":"newpass","confirmPassword":"newpass"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password reset successful")
	svc.AssertExpectations(t)
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("ResetPassword", mock.Anything, "old", "newpass").Return(usecase.ErrResetTokenExpired)

	r := chi.NewRouter()
	r.Post("/reset-password/{token}", newTestHandler(svc).ResetPassword)

	req := httptest.NewRequest(http.MethodPost, "/reset-password/old",
		strings.NewReader(`{"password":"newpass","confirmPassword":"newpass"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token expired")
}

func TestForgetPassword(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("ForgetPassword", mock.Anything, "a@x.com").Return(nil)

	rec := postJSON(t, newTestHandler(svc).ForgetPassword, "/forget-password", `{"email":"a@x.com"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Reset password email sent successfully")
}

func TestCheckAuth_NoGuardContext(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/check-auth", nil)
	newTestHandler(new(MockAuthService)).CheckAuth(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
