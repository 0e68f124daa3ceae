package enums

import "fmt"

// TokenPurpose describes what a single-use user token is redeemable for.
type TokenPurpose string

const (
	TokenPurposeVerifyEmail   TokenPurpose = "verify_email"
	TokenPurposeResetPassword TokenPurpose = "reset_password"
)

var validTokenPurposes = []TokenPurpose{
	TokenPurposeVerifyEmail,
	TokenPurposeResetPassword,
}

// IsValid reports whether the value is a known TokenPurpose.
func (p TokenPurpose) IsValid() bool {
	for _, candidate := range validTokenPurposes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseTokenPurpose converts raw input into a TokenPurpose.
func ParseTokenPurpose(value string) (TokenPurpose, error) {
	for _, candidate := range validTokenPurposes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid token purpose %q", value)
}
