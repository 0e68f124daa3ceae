package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ezzshop/ezzshop-backend/internal/users"
	pkgauth "github.com/ezzshop/ezzshop-backend/pkg/auth"
	"github.com/ezzshop/ezzshop-backend/pkg/config"
	"github.com/ezzshop/ezzshop-backend/pkg/db"
	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
	"github.com/ezzshop/ezzshop-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	invalidTokenMessage       = "token is invalid or expired"

	tokenByteLen   = 32
	verifyTokenTTL = 24 * time.Hour
	resetTokenTTL  = time.Hour
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterResponse, error)
	Login(ctx context.Context, input LoginInput) (*LoginResponse, error)
	Logout(ctx context.Context, jti, sessionID string) error
	ConfirmEmail(ctx context.Context, token string) (*users.UserDTO, error)
	ResendVerification(ctx context.Context, email string) (string, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
}

type userRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type tokenRepository interface {
	Create(ctx context.Context, token *models.UserToken) error
	FindByToken(ctx context.Context, purpose enums.TokenPurpose, token string) (*models.UserToken, error)
	MarkUsed(ctx context.Context, id uuid.UUID, at time.Time) error
	InvalidateForUser(ctx context.Context, userID uuid.UUID, purpose enums.TokenPurpose, at time.Time) error
}

type sessionStore interface {
	StoreSession(ctx context.Context, jti, userID string, ttl time.Duration) error
	RevokeSession(ctx context.Context, jti string) error
}

type cartDestroyer interface {
	Destroy(ctx context.Context, sessionID string) error
}

type service struct {
	users       userRepository
	tokens      tokenRepository
	sessions    sessionStore
	carts       cartDestroyer
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig

	now func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	TokenRepo      tokenRepository
	SessionStore   sessionStore
	CartDestroyer  cartDestroyer
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.TokenRepo == nil {
		return nil, fmt.Errorf("token repository is required")
	}
	if params.SessionStore == nil {
		return nil, fmt.Errorf("session store is required")
	}
	return &service{
		users:       params.UserRepo,
		tokens:      params.TokenRepo,
		sessions:    params.SessionStore,
		carts:       params.CartDestroyer,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		now:         time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*RegisterResponse, error) {
	if err := validateRegister(input); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user, err := s.users.Create(ctx, &models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Role:         enums.UserRoleCustomer,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating user")
	}

	token, err := s.issueToken(ctx, user.ID, enums.TokenPurposeVerifyEmail, verifyTokenTTL)
	if err != nil {
		return nil, err
	}

	return &RegisterResponse{User: users.FromModel(user), VerificationToken: token}, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording login")
	}

	jti := uuid.NewString()
	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		UserID:        user.ID,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
		JTI:           jti,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting jwt")
	}
	if err := s.sessions.StoreSession(ctx, jti, user.ID.String(), s.jwtCfg.SessionTTL()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing session")
	}

	return &LoginResponse{AccessToken: accessToken, User: users.FromModel(user)}, nil
}

// Logout revokes the session behind the token and destroys the session's
// cart. Both steps run even if the first fails.
func (s *service) Logout(ctx context.Context, jti, sessionID string) error {
	var revokeErr error
	if jti != "" {
		revokeErr = s.sessions.RevokeSession(ctx, jti)
	}
	if s.carts != nil && sessionID != "" {
		if err := s.carts.Destroy(ctx, sessionID); err != nil && revokeErr == nil {
			revokeErr = err
		}
	}
	if revokeErr != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, revokeErr, "logging out")
	}
	return nil
}

func (s *service) ConfirmEmail(ctx context.Context, token string) (*users.UserDTO, error) {
	row, err := s.redeemToken(ctx, enums.TokenPurposeVerifyEmail, token)
	if err != nil {
		return nil, err
	}

	user := row.User
	user.EmailVerified = true
	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "confirming email")
	}

	dto := users.FromModel(updated)
	return &dto, nil
}

func (s *service) ResendVerification(ctx context.Context, email string) (string, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user.EmailVerified {
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, "email is already verified")
	}
	if err := s.tokens.InvalidateForUser(ctx, user.ID, enums.TokenPurposeVerifyEmail, s.now().UTC()); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalidating tokens")
	}
	return s.issueToken(ctx, user.ID, enums.TokenPurposeVerifyEmail, verifyTokenTTL)
}

// RequestPasswordReset issues a reset token. An unknown email yields an
// empty token and no error, so the endpoint cannot be used to probe which
// addresses have accounts.
func (s *service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		var appErr *pkgerrors.Error
		if errors.As(err, &appErr) && appErr.Code() == pkgerrors.CodeNotFound {
			return "", nil
		}
		return "", err
	}
	if err := s.tokens.InvalidateForUser(ctx, user.ID, enums.TokenPurposeResetPassword, s.now().UTC()); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalidating tokens")
	}
	return s.issueToken(ctx, user.ID, enums.TokenPurposeResetPassword, resetTokenTTL)
}

func (s *service) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	if input.NewPassword == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "new password is required")
	}

	row, err := s.redeemToken(ctx, enums.TokenPurposeResetPassword, input.Token)
	if err != nil {
		return err
	}

	hash, err := security.HashPassword(input.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := row.User
	user.PasswordHash = hash
	if _, err := s.users.Update(ctx, user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating password")
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := strings.TrimSpace(email)
	if input == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) findByEmail(ctx context.Context, email string) (*models.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	user, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up user")
	}
	return user, nil
}

func (s *service) issueToken(ctx context.Context, userID uuid.UUID, purpose enums.TokenPurpose, ttl time.Duration) (string, error) {
	value, err := security.GenerateToken(tokenByteLen)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating token")
	}
	row := &models.UserToken{
		UserID:    userID,
		Purpose:   purpose,
		Token:     value,
		ExpiresAt: s.now().UTC().Add(ttl),
	}
	if err := s.tokens.Create(ctx, row); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing token")
	}
	return value, nil
}

func (s *service) redeemToken(ctx context.Context, purpose enums.TokenPurpose, token string) (*models.UserToken, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidTokenMessage)
	}
	row, err := s.tokens.FindByToken(ctx, purpose, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidTokenMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up token")
	}
	now := s.now().UTC()
	if !row.IsUsable(now) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidTokenMessage)
	}
	if row.User == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "token has no user attached")
	}
	if err := s.tokens.MarkUsed(ctx, row.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "consuming token")
	}
	return row, nil
}

func validateRegister(input RegisterInput) error {
	var missing []string
	if strings.TrimSpace(input.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(input.Email) == "" {
		missing = append(missing, "email")
	}
	if input.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required registration fields").
			WithDetails(map[string]any{"missing": missing})
	}
	return nil
}
