package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ezzshop/ezzshop-backend/api/middleware"
	authsvc "github.com/ezzshop/ezzshop-backend/internal/auth"
	"github.com/ezzshop/ezzshop-backend/internal/users"
	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
)

type stubAuthService struct {
	registerResp *authsvc.RegisterResponse
	registerErr  error
	loginResp    *authsvc.LoginResponse
	loginErr     error

	loggedOutJTI     string
	loggedOutSession string
}

func (s *stubAuthService) Register(ctx context.Context, input authsvc.RegisterInput) (*authsvc.RegisterResponse, error) {
	return s.registerResp, s.registerErr
}

func (s *stubAuthService) Login(ctx context.Context, input authsvc.LoginInput) (*authsvc.LoginResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubAuthService) Logout(ctx context.Context, jti, sessionID string) error {
	s.loggedOutJTI = jti
	s.loggedOutSession = sessionID
	return nil
}

func (s *stubAuthService) ConfirmEmail(ctx context.Context, token string) (*users.UserDTO, error) {
	if token != "good-token" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token is invalid or expired")
	}
	return &users.UserDTO{ID: uuid.New(), EmailVerified: true}, nil
}

func (s *stubAuthService) ResendVerification(ctx context.Context, email string) (string, error) {
	return "verify-123", nil
}

func (s *stubAuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	return "reset-123", nil
}

func (s *stubAuthService) ResetPassword(ctx context.Context, input authsvc.ResetPasswordInput) error {
	return nil
}

func TestRegisterReturnsCreated(t *testing.T) {
	svc := &stubAuthService{registerResp: &authsvc.RegisterResponse{
		User:              users.UserDTO{ID: uuid.New(), Name: "Lina Haddad", Email: "lina@example.com", Role: enums.UserRoleCustomer},
		VerificationToken: "verify-123",
	}}

	body := `{"name":"Lina Haddad","email":"lina@example.com","password":"s3cret-pass"}`
	w := httptest.NewRecorder()
	Register(svc, testLogger())(w, httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(body)))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var envelope struct {
		Data authsvc.RegisterResponse `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if envelope.Data.VerificationToken != "verify-123" {
		t.Errorf("verification token not surfaced: %+v", envelope.Data)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	body := `{"name":"Lina","email":"lina@example.com","password":"short"}`
	w := httptest.NewRecorder()
	Register(&stubAuthService{}, testLogger())(w, httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(body)))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var envelope struct {
		Error struct {
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if _, ok := envelope.Error.Details["password"]; !ok {
		t.Errorf("expected password detail, got %+v", envelope.Error.Details)
	}
}

func TestLoginInvalidCredentialsStay401(t *testing.T) {
	svc := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}

	body := `{"email":"lina@example.com","password":"wrong-pass"}`
	w := httptest.NewRecorder()
	Login(svc, testLogger())(w, httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body)))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "invalid credentials") {
		t.Errorf("expected typed message in body: %s", w.Body.String())
	}
}

func TestLogoutUsesJTIAndSession(t *testing.T) {
	svc := &stubAuthService{}

	r := httptest.NewRequest("POST", "/api/auth/logout", nil)
	ctx := middleware.WithJTI(r.Context(), "jti-1")
	ctx = middleware.WithSessionID(ctx, "sess-1")
	w := httptest.NewRecorder()
	Logout(svc, testLogger())(w, r.WithContext(ctx))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if svc.loggedOutJTI != "jti-1" || svc.loggedOutSession != "sess-1" {
		t.Errorf("logout called with %q/%q", svc.loggedOutJTI, svc.loggedOutSession)
	}
}

func TestLogoutWithoutTokenIs401(t *testing.T) {
	w := httptest.NewRecorder()
	Logout(&stubAuthService{}, testLogger())(w, httptest.NewRequest("POST", "/api/auth/logout", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestConfirmEmailRequiresToken(t *testing.T) {
	w := httptest.NewRecorder()
	ConfirmEmail(&stubAuthService{}, testLogger())(w, httptest.NewRequest("GET", "/api/auth/confirm", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestConfirmEmailRedeemsToken(t *testing.T) {
	w := httptest.NewRecorder()
	ConfirmEmail(&stubAuthService{}, testLogger())(w, httptest.NewRequest("GET", "/api/auth/confirm?token=good-token", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"emailVerified":true`) {
		t.Errorf("expected verified user in body: %s", w.Body.String())
	}
}

func TestSendResetTokenShapeIsUniform(t *testing.T) {
	body := `{"email":"whoever@example.com"}`
	w := httptest.NewRecorder()
	SendResetToken(&stubAuthService{}, testLogger())(w, httptest.NewRequest("POST", "/api/auth/password/forgot", strings.NewReader(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if envelope.Data["resetToken"] == "" {
		t.Errorf("expected resetToken field, got %+v", envelope.Data)
	}
}
