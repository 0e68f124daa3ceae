package auth

import (
	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID        uuid.UUID
	Role          enums.UserRole
	EmailVerified bool
	JTI           string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID        uuid.UUID      `json:"user_id"`
	Role          enums.UserRole `json:"role"`
	EmailVerified bool           `json:"email_verified"`
	jwt.RegisteredClaims
}
