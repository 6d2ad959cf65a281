package validation

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	maxEmailLength    = 254
	maxNameLength     = 100
	minPasswordLength = 12
	// bcrypt ignores everything past 72 bytes
	maxPasswordBytes  = 72
)

var (
	ErrEmailRequired    = errors.New("email address is required")
	ErrEmailTooLong     = errors.New("email address is too long (max 254 characters)")
	ErrEmailFormat      = errors.New("invalid email address format")
	ErrNameRequired     = errors.New("name is required")
	ErrNameTooLong      = errors.New("name is too long (max 100 characters)")
	ErrPasswordShort    = errors.New("password must be at least 12 characters")
	ErrPasswordLong     = errors.New("password must not exceed 72 bytes")
	ErrPasswordCommon   = errors.New("password is too common, please choose a stronger one")
	ErrThemeUnsupported = errors.New("theme must be dark or light")
)

var commonPasswordFragments = []string{
	"password", "123456", "qwerty", "letmein", "welcome",
	"20hard", "twentyhard", "challenge", "workout", "fitness",
}

// ValidateEmail accepts a bare RFC 5322 address. Display names are rejected
// so "Riley <r@example.com>" cannot be stored as an email.
func ValidateEmail(email string) error {
	switch {
	case email == "":
		return ErrEmailRequired
	case len(email) > maxEmailLength:
		return ErrEmailTooLong
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrEmailFormat
	}
	return nil
}

func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(trimmed) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// ValidatePassword enforces a length floor and rejects passwords built
// around well-known fragments.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return ErrPasswordShort
	}
	if len(password) > maxPasswordBytes {
		return ErrPasswordLong
	}

	lower := strings.ToLower(password)
	for _, fragment := range commonPasswordFragments {
		if strings.Contains(lower, fragment) {
			return ErrPasswordCommon
		}
	}
	return nil
}

func ValidateTheme(theme string) error {
	if theme != "dark" && theme != "light" {
		return ErrThemeUnsupported
	}
	return nil
}
