package validation

import (
	"errors"
)

// ValidatePassword checks the constraints bcrypt places on a password.
func ValidatePassword(password string) error {
	if password == "" {
		return errors.New("password is required")
	}

	// bcrypt rejects passwords longer than 72 bytes
	if len(password) > 72 {
		return errors.New("password must not exceed 72 bytes")
	}

	return nil
}
