package services

import (
	"errors"
	"net/mail"
	"strings"
	"unicode"
)

const (
	minPasswordLength    = 8
	maxDisplayNameLength = 80
)

var (
	ErrAuthCredentialsInvalid = errors.New("auth credentials invalid")
	ErrWeakPassword           = errors.New("weak password")
)

func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

func NormalizeCredentialsInput(emailRaw string, passwordRaw string) (string, string, error) {
	email := NormalizeAuthEmail(emailRaw)
	password := strings.TrimSpace(passwordRaw)
	if email == "" || password == "" {
		return "", "", ErrAuthCredentialsInvalid
	}
	return email, password, nil
}

// ValidatePasswordStrength requires 8+ runes with an upper case letter, a
// lower case letter and a digit.
func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < minPasswordLength {
		return ErrWeakPassword
	}

	var hasUpper, hasLower, hasDigit bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	if hasUpper && hasLower && hasDigit {
		return nil
	}
	return ErrWeakPassword
}

type RegistrationInput struct {
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	DisplayName     string `json:"display_name" form:"display_name"`
}

// ValidateRegistrationInput returns the normalized email and display name or
// a *ValidationError naming every bad field.
func ValidateRegistrationInput(input RegistrationInput) (string, string, error) {
	problems := &ValidationError{}

	email := NormalizeAuthEmail(input.Email)
	if email == "" {
		problems.Add("email", RulePattern, "enter a valid email address")
	}

	if err := ValidatePasswordStrength(input.Password); err != nil {
		problems.Add("password", RulePattern, "password needs 8+ characters with upper case, lower case and a digit")
	}
	if input.ConfirmPassword != "" && input.ConfirmPassword != input.Password {
		problems.Add("confirm_password", RulePattern, "passwords do not match")
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = displayNameFromEmail(email)
	}
	if len([]rune(displayName)) > maxDisplayNameLength {
		problems.Add("display_name", RuleMax, "display name is too long")
	}

	if err := problems.Err(); err != nil {
		return "", "", err
	}
	return email, displayName, nil
}

func displayNameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found {
		return email
	}
	return local
}
