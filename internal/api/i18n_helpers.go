package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

var errorMessageKeys = map[string]string{
	"invalid input":            "error.invalid_input",
	"invalid credentials":      "auth.error.invalid_credentials",
	"email already exists":     "auth.error.email_exists",
	"weak password":            "auth.error.weak_password",
	"password mismatch":        "auth.error.password_mismatch",
	"too many login attempts":  "auth.error.too_many_login_attempts",
	"invalid current password": "auth.error.invalid_current_password",
	"new password must differ": "auth.error.password_unchanged",
	"validation failed":        "error.validation_failed",
	"not found":                "error.not_found",
	"food not found":           "error.food_not_found",
	"category not found":       "error.category_not_found",
	"serving unit not found":   "error.serving_unit_not_found",
	"meal not found":           "error.meal_not_found",
	"category name taken":      "error.category_name_taken",
	"serving unit name taken":  "error.serving_unit_name_taken",
	"serving unit in use":      "error.serving_unit_in_use",
	"food in use":              "error.food_in_use",
	"invalid page action":      "error.invalid_page_action",
	"invalid date":             "error.invalid_date",
	"internal error":           "error.internal",
	"unauthorized":             "error.unauthorized",
	"admin access required":    "error.admin_required",
}

var successMessageKeys = map[string]string{
	"food_saved":           "success.food_saved",
	"food_deleted":         "success.food_deleted",
	"category_saved":       "success.category_saved",
	"category_deleted":     "success.category_deleted",
	"serving_unit_saved":   "success.serving_unit_saved",
	"serving_unit_deleted": "success.serving_unit_deleted",
	"meal_saved":           "success.meal_saved",
	"meal_deleted":         "success.meal_deleted",
	"password_changed":     "success.password_changed",
}

func translateMessage(messages map[string]string, key string) string {
	if key == "" {
		return ""
	}
	if value, ok := messages[key]; ok && strings.TrimSpace(value) != "" {
		return value
	}
	return key
}

func errorTranslationKey(message string) string {
	return errorMessageKeys[strings.ToLower(strings.TrimSpace(message))]
}

func localizedErrorMessage(c *fiber.Ctx, message string) string {
	key := errorTranslationKey(message)
	if key == "" {
		return message
	}
	if localized := translateMessage(currentMessages(c), key); localized != key {
		return localized
	}
	return message
}

func localizedSuccessMessage(c *fiber.Ctx, code string) string {
	key, ok := successMessageKeys[strings.TrimSpace(code)]
	if !ok {
		return ""
	}
	return translateMessage(currentMessages(c), key)
}

func currentLanguage(c *fiber.Ctx) string {
	language, _ := c.Locals(contextLanguageKey).(string)
	return strings.TrimSpace(language)
}

func currentMessages(c *fiber.Ctx) map[string]string {
	messages, ok := c.Locals(contextMessagesKey).(map[string]string)
	if !ok || messages == nil {
		return map[string]string{}
	}
	return messages
}

func localizedPageTitle(messages map[string]string, key string, fallback string) string {
	title := translateMessage(messages, key)
	if title == key || strings.TrimSpace(title) == "" {
		return fallback
	}
	return title
}
