package services

import (
	"errors"
	"fmt"

	"github.com/terraincognita07/mealmate/internal/models"
	"github.com/terraincognita07/mealmate/internal/security"
	"golang.org/x/crypto/bcrypt"
)

const temporaryPasswordLength = 14

var (
	ErrEmailTaken              = errors.New("email already registered")
	ErrUserNotFound            = fmt.Errorf("user %w", ErrNotFound)
	ErrCurrentPasswordMismatch = errors.New("current password mismatch")
	ErrPasswordUnchanged       = errors.New("new password matches current")
)

type AuthUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, bool, error)
	FindByID(userID uint) (models.User, bool, error)
	CreateWithRoleForFirstUser(user *models.User) error
	UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error
	UpdateRole(userID uint, role string) error
}

type AuthService struct {
	users AuthUserRepository
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users}
}

// RegisterUser creates an account. The first account ever created is an admin.
func (service *AuthService) RegisterUser(input RegistrationInput) (models.User, error) {
	email, displayName, err := ValidateRegistrationInput(input)
	if err != nil {
		return models.User{}, err
	}

	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("check registration email: %w", err)
	}
	if exists {
		return models.User{}, ErrEmailTaken
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
	}
	if err := service.users.CreateWithRoleForFirstUser(&user); err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate never tells apart an unknown email from a wrong password.
func (service *AuthService) Authenticate(emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}

	user, found, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if !found {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	user, found, err := service.users.FindByID(userID)
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if !found {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

func (service *AuthService) FindByEmail(emailRaw string) (models.User, error) {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return models.User{}, ErrUserNotFound
	}
	user, found, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if !found {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

// ResetPasswordWithTemporary replaces the password with a random one and
// forces a change on the next login. The temporary password is returned once.
func (service *AuthService) ResetPasswordWithTemporary(emailRaw string) (string, error) {
	user, err := service.FindByEmail(emailRaw)
	if err != nil {
		return "", err
	}

	temporary, err := generateTemporaryPassword()
	if err != nil {
		return "", err
	}
	hash, err := hashPassword(temporary)
	if err != nil {
		return "", err
	}
	if err := service.users.UpdatePassword(user.ID, hash, true); err != nil {
		return "", fmt.Errorf("update password: %w", err)
	}
	return temporary, nil
}

func (service *AuthService) ChangePassword(userID uint, currentPassword string, newPassword string) error {
	user, err := service.FindByID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return ErrCurrentPasswordMismatch
	}
	if currentPassword == newPassword {
		return ErrPasswordUnchanged
	}
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := service.users.UpdatePassword(user.ID, hash, false); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// EnsureAdmin promotes an existing account or creates a new admin with password.
func (service *AuthService) EnsureAdmin(emailRaw string, password string) (models.User, bool, error) {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		problems := &ValidationError{}
		problems.Add("email", RulePattern, "enter a valid email address")
		return models.User{}, false, problems
	}

	user, found, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		return models.User{}, false, fmt.Errorf("load user: %w", err)
	}
	if found {
		if err := service.users.UpdateRole(user.ID, models.RoleAdmin); err != nil {
			return models.User{}, false, fmt.Errorf("promote user: %w", err)
		}
		user.Role = models.RoleAdmin
		return user, false, nil
	}

	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, false, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return models.User{}, false, err
	}
	user = models.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayNameFromEmail(email),
		Role:         models.RoleAdmin,
	}
	if err := service.users.CreateWithRoleForFirstUser(&user); err != nil {
		return models.User{}, false, fmt.Errorf("create admin: %w", err)
	}
	return user, true, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func generateTemporaryPassword() (string, error) {
	temporary, err := security.TemporaryPassword(temporaryPasswordLength)
	if err != nil {
		return "", fmt.Errorf("generate temporary password: %w", err)
	}
	return temporary, nil
}
