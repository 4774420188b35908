package services

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const passwordSpecials = "@#$%^&+="

// checkPasswordStrength enforces the account password policy: at least 8
// characters with an upper-case letter, a lower-case letter, a digit and one
// of @#$%^&+=, and no whitespace.
func checkPasswordStrength(value interface{}) error {
	password, _ := value.(string)
	if utf8.RuneCountInString(password) < 8 {
		return errors.New("must be at least 8 characters")
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			return errors.New("must not contain whitespace")
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return errors.New("must contain upper and lower case letters, a digit and one of " + passwordSpecials)
	}
	return nil
}

func validateEmail(email string) error {
	return validation.Validate(email, validation.Required, is.Email)
}

func validatePassword(password string) error {
	return validation.Validate(password, validation.Required, validation.By(checkPasswordStrength))
}
