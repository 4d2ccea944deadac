// Package validate holds the input checks shared by every form: sign-in,
// registration, password reset and profile editing. The functions are pure
// and return errors wrapping the package sentinels.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/bikebed/internal/common"
)

const MinPasswordLength = 6

var (
	ErrRequired         = errors.New("required")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrInvalidPhone     = errors.New("invalid phone number")
	ErrInvalidRole      = errors.New("invalid role")
)

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9 ()-]{6,20}$`)
)

// Required fails when value is blank after trimming.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s: %w", field, ErrRequired)
	}
	return nil
}

func Email(email string) error {
	if err := Required("email", email); err != nil {
		return err
	}
	if !emailRe.MatchString(strings.TrimSpace(email)) {
		return ErrInvalidEmail
	}
	return nil
}

// Password checks a new password. Existing passwords are only required to
// be non-empty, see Credentials.
func Password(password string) error {
	if err := Required("password", password); err != nil {
		return err
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// Credentials validates a sign-in form.
func Credentials(email, password string) error {
	if err := Required("email", email); err != nil {
		return err
	}
	return Required("password", password)
}

// Registration validates a sign-up form.
func Registration(email, password, confirm string) error {
	if err := Email(email); err != nil {
		return err
	}
	if err := Password(password); err != nil {
		return err
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

// Phone accepts an empty value; phone is optional on the profile.
func Phone(phone string) error {
	if phone == "" {
		return nil
	}
	if !phoneRe.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

func Role(role string) error {
	switch role {
	case common.RoleGuestUser, common.RoleHost:
		return nil
	default:
		return fmt.Errorf("%q: %w", role, ErrInvalidRole)
	}
}
