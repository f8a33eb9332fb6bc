// internal/pkg/auth/password.go
package auth

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password the identity provider accepts
const MinPasswordLength = 6

// ValidatePassword applies the identity provider's password policy locally so
// obviously weak passwords are rejected without a round trip
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password is required")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("password should be at least %d characters", MinPasswordLength)
	}
	return nil
}
