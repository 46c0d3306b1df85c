package validation

import (
	"errors"
	"net/mail"
)

// ValidateEmail validates email format and length using Go's RFC 5322
// compliant parser.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email address is required")
	}

	// RFC 5321: local part max 64, domain max 255, total max 254 with @
	if len(email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}

	_, err := mail.ParseAddress(email)
	if err != nil {
		return errors.New("invalid email address format")
	}

	return nil
}
