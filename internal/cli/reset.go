package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/terraincognita07/mealmate/internal/services"
	"gorm.io/gorm"
)

func RunResetPasswordCommand(database *gorm.DB, email string, out io.Writer) error {
	normalizedEmail, err := normalizeCommandEmail(email)
	if err != nil {
		return err
	}

	temporaryPassword, err := newAuthService(database).ResetPasswordWithTemporary(normalizedEmail)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return fmt.Errorf("user %s not found", normalizedEmail)
		}
		return fmt.Errorf("reset password: %w", err)
	}

	fmt.Fprintln(out, "Password reset successful.")
	fmt.Fprintf(out, "Temporary password: %s\n", temporaryPassword)
	fmt.Fprintln(out, "User must change password on next login.")
	return nil
}
