package api

import (
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mealmate/internal/services"
)

var errInvalidBody = errors.New("invalid request body")

func redirectOrJSON(c *fiber.Ctx, path string) error {
	if isHTMX(c) {
		c.Set("HX-Redirect", path)
		return c.SendStatus(fiber.StatusOK)
	}
	if acceptsJSON(c) {
		return c.JSON(fiber.Map{"ok": true})
	}
	return c.Redirect(path, fiber.StatusSeeOther)
}

func apiError(c *fiber.Ctx, status int, message string) error {
	if isHTMX(c) {
		return c.Status(status).SendString(statusErrorFragment(localizedErrorMessage(c, message)))
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func statusErrorFragment(message string) string {
	return fmt.Sprintf("<div class=\"status-error\">%s</div>", template.HTMLEscapeString(message))
}

// respondServiceError maps service errors onto HTTP statuses. Plain form
// posts are redirected to backPath with the message in the flash cookie.
func (handler *Handler) respondServiceError(c *fiber.Ctx, err error, backPath string) error {
	status, message := serviceErrorStatus(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("request %s %s failed: %v", c.Method(), c.Path(), err)
	}

	if backPath != "" && isFormSubmission(c) {
		handler.setFlashCookie(c, FlashPayload{Error: message})
		return c.Redirect(backPath, fiber.StatusSeeOther)
	}

	if validationErr, ok := services.AsValidationError(err); ok && !isHTMX(c) {
		return c.Status(status).JSON(fiber.Map{
			"error":  message,
			"fields": validationErr.Fields,
		})
	}
	return apiError(c, status, message)
}

func serviceErrorStatus(err error) (int, string) {
	if _, ok := services.AsValidationError(err); ok {
		return fiber.StatusBadRequest, "validation failed"
	}

	switch {
	case errors.Is(err, errInvalidBody):
		return fiber.StatusBadRequest, "invalid input"
	case errors.Is(err, services.ErrFoodNotFound):
		return fiber.StatusNotFound, "food not found"
	case errors.Is(err, services.ErrCategoryNotFound):
		return fiber.StatusNotFound, "category not found"
	case errors.Is(err, services.ErrServingUnitNotFound):
		return fiber.StatusNotFound, "serving unit not found"
	case errors.Is(err, services.ErrMealNotFound):
		return fiber.StatusNotFound, "meal not found"
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound, "not found"
	case errors.Is(err, services.ErrCategoryNameTaken):
		return fiber.StatusConflict, "category name taken"
	case errors.Is(err, services.ErrServingUnitNameTaken):
		return fiber.StatusConflict, "serving unit name taken"
	case errors.Is(err, services.ErrServingUnitInUse):
		return fiber.StatusConflict, "serving unit in use"
	case errors.Is(err, services.ErrFoodInUse):
		return fiber.StatusConflict, "food in use"
	case errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict, "email already exists"
	case errors.Is(err, services.ErrInvalidPageAction):
		return fiber.StatusBadRequest, "invalid page action"
	case errors.Is(err, services.ErrInvalidDate):
		return fiber.StatusBadRequest, "invalid date"
	default:
		return fiber.StatusInternalServerError, "internal error"
	}
}

func acceptsJSON(c *fiber.Ctx) bool {
	return strings.Contains(strings.ToLower(c.Get("Accept")), "application/json")
}

func isHTMX(c *fiber.Ctx) bool {
	return strings.EqualFold(c.Get("HX-Request"), "true")
}

func isFormSubmission(c *fiber.Ctx) bool {
	if acceptsJSON(c) || isHTMX(c) {
		return false
	}
	contentType := strings.ToLower(c.Get(fiber.HeaderContentType))
	return strings.HasPrefix(contentType, fiber.MIMEApplicationForm) || strings.HasPrefix(contentType, fiber.MIMEMultipartForm)
}

func csrfToken(c *fiber.Ctx) string {
	token, _ := c.Locals("csrf").(string)
	return token
}

func sanitizeRedirectPath(raw string, fallback string) string {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return fallback
	}
	if strings.HasPrefix(candidate, "//") || !strings.HasPrefix(candidate, "/") {
		return fallback
	}
	parsed, err := url.Parse(candidate)
	if err != nil || parsed.IsAbs() {
		return fallback
	}
	return candidate
}

func parseIDParam(c *fiber.Ctx, name string) (uint, bool) {
	value, err := strconv.ParseUint(strings.TrimSpace(c.Params(name)), 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}

func wantsJSONResponse(c *fiber.Ctx) bool {
	if acceptsJSON(c) || isJSONBody(c) {
		return true
	}
	return !isHTMX(c) && !isFormSubmission(c)
}

// respondMutationSuccess answers API clients with payload and browsers with a
// redirect carrying successCode in the flash cookie.
func (handler *Handler) respondMutationSuccess(c *fiber.Ctx, status int, payload any, redirectPath string, successCode string) error {
	if wantsJSONResponse(c) {
		return c.Status(status).JSON(payload)
	}
	handler.setFlashCookie(c, FlashPayload{Success: successCode})
	return redirectOrJSON(c, redirectPath)
}
