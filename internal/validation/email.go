package validation

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrEmailRequired = errors.New("email address is required")
	ErrEmailTooLong  = errors.New("email address is too long (max 254 characters)")
	ErrEmailFormat   = errors.New("invalid email address format")
)

// ValidateEmail validates a bare address such as "ada@example.com".
// Display-name forms ("Ada <ada@example.com>") are rejected.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}

	// RFC 5321: total max 254 with @
	if len(email) > 254 {
		return ErrEmailTooLong
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrEmailFormat
	}

	return nil
}

// NormalizeEmail lower-cases and trims an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
