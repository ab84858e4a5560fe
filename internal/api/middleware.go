package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mealmate/internal/models"
)

const (
	authCookieName     = "mealmate_auth"
	languageCookieName = "mealmate_lang"
	flashCookieName    = "mealmate_flash"
	contextUserKey     = "current_user"
	contextLanguageKey = "current_language"
	contextMessagesKey = "current_messages"

	authCookiePurpose = "auth"
)

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok && user != nil
}
