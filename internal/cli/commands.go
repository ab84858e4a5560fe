package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/terraincognita07/mealmate/internal/db"
	"github.com/terraincognita07/mealmate/internal/services"
	"gorm.io/gorm"
)

const (
	CommandCreateAdmin   = "create-admin"
	CommandResetPassword = "reset-password"
	CommandSeedCatalog   = "seed-catalog"
)

var errUsage = errors.New("usage: mealmate [create-admin <email> | reset-password <email> | seed-catalog]")

// promptPassword is replaced in tests.
var promptPassword = func(out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	password, err := readPassword(os.Stdin)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return password, nil
}

// IsCommand reports whether args name a maintenance subcommand instead of
// the server.
func IsCommand(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case CommandCreateAdmin, CommandResetPassword, CommandSeedCatalog:
		return true
	default:
		return false
	}
}

// Run opens the configured database and dispatches a subcommand.
func Run(config db.Config, args []string, out io.Writer) error {
	if !IsCommand(args) {
		return errUsage
	}

	database, err := db.Open(config)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	switch args[0] {
	case CommandCreateAdmin:
		if len(args) != 2 {
			return errUsage
		}
		return RunCreateAdminCommand(database, args[1], out)
	case CommandResetPassword:
		if len(args) != 2 {
			return errUsage
		}
		return RunResetPasswordCommand(database, args[1], out)
	default:
		return RunSeedCatalogCommand(database, out)
	}
}

func newAuthService(database *gorm.DB) *services.AuthService {
	return services.NewAuthService(db.NewRepositories(database).Users)
}

func normalizeCommandEmail(raw string) (string, error) {
	email := services.NormalizeAuthEmail(raw)
	if email == "" {
		if strings.TrimSpace(raw) == "" {
			return "", errors.New("email is required")
		}
		return "", fmt.Errorf("invalid email address %q", strings.TrimSpace(raw))
	}
	return email, nil
}
