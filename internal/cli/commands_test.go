package cli

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/terraincognita07/mealmate/internal/db"
	"github.com/terraincognita07/mealmate/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func openCommandTestDB(t *testing.T) (*gorm.DB, db.Config) {
	t.Helper()

	config := db.Config{Driver: db.DriverSQLite, Path: filepath.Join(t.TempDir(), "mealmate-cli.db")}
	database, err := db.Open(config)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return database, config
}

func stubPasswordPrompt(t *testing.T, answers ...string) {
	t.Helper()

	original := promptPassword
	promptPassword = func(_ io.Writer, _ string) (string, error) {
		if len(answers) == 0 {
			t.Fatal("unexpected password prompt")
		}
		answer := answers[0]
		answers = answers[1:]
		return answer, nil
	}
	t.Cleanup(func() {
		promptPassword = original
	})
}

func TestIsCommand(t *testing.T) {
	if IsCommand(nil) || IsCommand([]string{"serve"}) {
		t.Fatal("expected unknown arguments to start the server")
	}
	for _, command := range []string{CommandCreateAdmin, CommandResetPassword, CommandSeedCatalog} {
		if !IsCommand([]string{command}) {
			t.Fatalf("expected %s to be a command", command)
		}
	}
}

func TestCreateAdminCreatesNewAccount(t *testing.T) {
	database, _ := openCommandTestDB(t)
	stubPasswordPrompt(t, "AdminPass1", "AdminPass1")

	var out bytes.Buffer
	if err := RunCreateAdminCommand(database, " Admin@Example.com ", &out); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if !strings.Contains(out.String(), "admin@example.com created") {
		t.Fatalf("unexpected output %q", out.String())
	}

	user := models.User{}
	if err := database.Where("email = ?", "admin@example.com").First(&user).Error; err != nil {
		t.Fatalf("load admin: %v", err)
	}
	if user.Role != models.RoleAdmin {
		t.Fatalf("expected admin role, got %q", user.Role)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("AdminPass1")) != nil {
		t.Fatal("expected prompted password to be stored")
	}
}

func TestCreateAdminPromotesExistingUserWithoutPrompt(t *testing.T) {
	database, _ := openCommandTestDB(t)
	stubPasswordPrompt(t)

	existing := []models.User{
		{Email: "first@example.com", PasswordHash: "x", DisplayName: "first", Role: models.RoleAdmin},
		{Email: "member@example.com", PasswordHash: "x", DisplayName: "member", Role: models.RoleUser},
	}
	if err := database.Create(&existing).Error; err != nil {
		t.Fatalf("seed users: %v", err)
	}

	var out bytes.Buffer
	if err := RunCreateAdminCommand(database, "member@example.com", &out); err != nil {
		t.Fatalf("promote admin: %v", err)
	}

	user := models.User{}
	if err := database.Where("email = ?", "member@example.com").First(&user).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.Role != models.RoleAdmin {
		t.Fatalf("expected promoted role admin, got %q", user.Role)
	}
}

func TestCreateAdminRejectsMismatchedAndWeakPasswords(t *testing.T) {
	database, _ := openCommandTestDB(t)

	stubPasswordPrompt(t, "AdminPass1", "AdminPass2")
	if err := RunCreateAdminCommand(database, "admin@example.com", io.Discard); err == nil || !strings.Contains(err.Error(), "do not match") {
		t.Fatalf("expected mismatch error, got %v", err)
	}

	stubPasswordPrompt(t, "weak", "weak")
	if err := RunCreateAdminCommand(database, "admin@example.com", io.Discard); err == nil || !strings.Contains(err.Error(), "at least 8 characters") {
		t.Fatalf("expected weak password error, got %v", err)
	}

	var count int64
	if err := database.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no users after failed attempts, got %d", count)
	}
}

func TestResetPasswordIssuesTemporaryPassword(t *testing.T) {
	database, _ := openCommandTestDB(t)

	user := models.User{Email: "reset@example.com", PasswordHash: "old", DisplayName: "reset", Role: models.RoleUser}
	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	var out bytes.Buffer
	if err := RunResetPasswordCommand(database, "RESET@example.com", &out); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	var temporary string
	for _, line := range strings.Split(out.String(), "\n") {
		if value, ok := strings.CutPrefix(line, "Temporary password: "); ok {
			temporary = value
		}
	}
	if temporary == "" {
		t.Fatalf("expected temporary password in output %q", out.String())
	}

	stored := models.User{}
	if err := database.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if !stored.MustChangePassword {
		t.Fatal("expected user to be forced to change password")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(temporary)) != nil {
		t.Fatal("expected stored hash to match the printed temporary password")
	}

	if err := RunResetPasswordCommand(database, "missing@example.com", io.Discard); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
	if err := RunResetPasswordCommand(database, "not-an-email", io.Discard); err == nil {
		t.Fatal("expected invalid email to fail")
	}
}

func TestRunSeedCatalogIsIdempotent(t *testing.T) {
	_, config := openCommandTestDB(t)

	var out bytes.Buffer
	if err := Run(config, []string{CommandSeedCatalog}, &out); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	expected := len(models.DefaultServingUnits())
	if !strings.Contains(out.String(), fmt.Sprintf("Seeded %d serving units.", expected)) {
		t.Fatalf("unexpected first seed output %q", out.String())
	}

	out.Reset()
	if err := Run(config, []string{CommandSeedCatalog}, &out); err != nil {
		t.Fatalf("seed catalog again: %v", err)
	}
	if !strings.Contains(out.String(), "Seeded 0 serving units.") {
		t.Fatalf("expected second seed to add nothing, got %q", out.String())
	}

	if err := Run(config, []string{CommandResetPassword}, io.Discard); err == nil {
		t.Fatal("expected missing email argument to fail")
	}
}
