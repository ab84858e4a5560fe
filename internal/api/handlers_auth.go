package api

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mealmate/internal/services"
)

type loginInput struct {
	Email      string `json:"email" form:"email"`
	Password   string `json:"password" form:"password"`
	RememberMe bool   `json:"remember_me" form:"remember_me"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	input := services.RegistrationInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.respondAuthError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	user, err := handler.authService.RegisterUser(input)
	if err != nil {
		if validationErr, ok := services.AsValidationError(err); ok {
			if acceptsJSON(c) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error":  "validation failed",
					"fields": validationErr.Fields,
				})
			}
			return handler.respondAuthError(c, fiber.StatusBadRequest, registrationErrorMessage(validationErr))
		}
		if errors.Is(err, services.ErrEmailTaken) {
			return handler.respondAuthError(c, fiber.StatusConflict, "email already exists")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to create account")
	}

	if err := handler.setAuthCookie(c, &user, false); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	if acceptsJSON(c) {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "user": user})
	}
	return redirectOrJSON(c, "/dashboard")
}

func registrationErrorMessage(validationErr *services.ValidationError) string {
	switch {
	case validationErr.Has("email"):
		return "invalid input"
	case validationErr.Has("password"):
		return "weak password"
	case validationErr.Has("confirm_password"):
		return "password mismatch"
	default:
		return "invalid input"
	}
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	input := loginInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.respondAuthError(c, fiber.StatusBadRequest, "invalid input")
	}

	limiterKey := loginAttemptKey(c, input.Email)
	now := time.Now()
	if wait := handler.loginLimiter.retryAfter(limiterKey, now); wait > 0 {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		return handler.respondAuthError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	handler.ensureDependencies()
	user, err := handler.authService.Authenticate(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrAuthCredentialsInvalid) {
			handler.loginLimiter.recordFailure(limiterKey, now)
			return handler.respondAuthError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to sign in")
	}
	handler.loginLimiter.clear(limiterKey)

	if err := handler.setAuthCookie(c, &user, input.RememberMe || parseBoolValue(c.FormValue("remember_me"))); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	if user.MustChangePassword {
		if acceptsJSON(c) {
			return c.JSON(fiber.Map{"ok": true, "must_change_password": true})
		}
		return redirectOrJSON(c, "/change-password")
	}
	return redirectOrJSON(c, "/dashboard")
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	if isHTMX(c) {
		c.Set("HX-Redirect", "/login")
		return c.SendStatus(fiber.StatusOK)
	}
	if acceptsJSON(c) {
		return c.JSON(fiber.Map{"ok": true})
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := changePasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.respondAuthError(c, fiber.StatusBadRequest, "invalid input")
	}
	if input.ConfirmPassword != "" && input.ConfirmPassword != input.NewPassword {
		return handler.respondAuthError(c, fiber.StatusBadRequest, "password mismatch")
	}

	handler.ensureDependencies()
	if err := handler.authService.ChangePassword(user.ID, input.CurrentPassword, input.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrCurrentPasswordMismatch):
			return handler.respondAuthError(c, fiber.StatusBadRequest, "invalid current password")
		case errors.Is(err, services.ErrPasswordUnchanged):
			return handler.respondAuthError(c, fiber.StatusBadRequest, "new password must differ")
		case errors.Is(err, services.ErrWeakPassword):
			return handler.respondAuthError(c, fiber.StatusBadRequest, "weak password")
		default:
			return apiError(c, fiber.StatusInternalServerError, "failed to update password")
		}
	}

	user.MustChangePassword = false
	if err := handler.setAuthCookie(c, user, false); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	handler.setFlashCookie(c, FlashPayload{Success: "password_changed"})
	return redirectOrJSON(c, "/dashboard")
}

// respondAuthError sends plain form posts back to the page they came from
// with the error in the flash cookie.
func (handler *Handler) respondAuthError(c *fiber.Ctx, status int, message string) error {
	if acceptsJSON(c) || isHTMX(c) {
		return apiError(c, status, message)
	}

	flash := FlashPayload{AuthError: message}
	switch c.Path() {
	case "/api/auth/register":
		handler.setFlashCookie(c, flash)
		return c.Redirect("/register", fiber.StatusSeeOther)
	case "/api/auth/change-password":
		handler.setFlashCookie(c, flash)
		return c.Redirect("/change-password", fiber.StatusSeeOther)
	default:
		flash.LoginEmail = normalizeLoginEmail(c.FormValue("email"))
		handler.setFlashCookie(c, flash)
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
}

func parseBoolValue(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}
