package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/terraincognita07/mealmate/internal/services"
	"gorm.io/gorm"
)

// RunCreateAdminCommand promotes an existing account to admin or creates a new
// admin after prompting for a password twice.
func RunCreateAdminCommand(database *gorm.DB, email string, out io.Writer) error {
	normalizedEmail, err := normalizeCommandEmail(email)
	if err != nil {
		return err
	}

	authService := newAuthService(database)
	password := ""
	if _, err := authService.FindByEmail(normalizedEmail); err != nil {
		if !errors.Is(err, services.ErrUserNotFound) {
			return fmt.Errorf("load user: %w", err)
		}
		password, err = promptNewPassword(out)
		if err != nil {
			return err
		}
	}

	user, created, err := authService.EnsureAdmin(normalizedEmail, password)
	if err != nil {
		if errors.Is(err, services.ErrWeakPassword) {
			return errors.New("password must be at least 8 characters and include upper, lower case letters and a digit")
		}
		return fmt.Errorf("ensure admin: %w", err)
	}

	if created {
		fmt.Fprintf(out, "Admin %s created.\n", user.Email)
		return nil
	}
	fmt.Fprintf(out, "User %s is now an admin.\n", user.Email)
	return nil
}

func promptNewPassword(out io.Writer) (string, error) {
	password, err := promptPassword(out, "Password: ")
	if err != nil {
		return "", err
	}
	confirmation, err := promptPassword(out, "Repeat password: ")
	if err != nil {
		return "", err
	}
	if password != confirmation {
		return "", errors.New("passwords do not match")
	}
	return password, nil
}
