package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

type notFoundAction struct {
	Path     string
	LabelKey string
}

// NotFound terminates the middleware chain. API, JSON and HTMX callers get
// a JSON error; browsers get a page pointing back into the app.
func (handler *Handler) NotFound(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/api/") || acceptsJSON(c) || isHTMX(c) {
		return apiError(c, fiber.StatusNotFound, "not found")
	}

	action := notFoundAction{Path: "/login", LabelKey: "not_found.action_login"}
	if user := handler.optionalAuthenticatedUser(c); user != nil {
		c.Locals(contextUserKey, user)
		action = notFoundAction{Path: "/dashboard", LabelKey: "not_found.action_dashboard"}
	}

	c.Status(fiber.StatusNotFound)
	return handler.render(c, "not_found", fiber.Map{
		"Title":           localizedPageTitle(currentMessages(c), "meta.title.not_found", "MealMate | Page Not Found"),
		"PrimaryPath":     action.Path,
		"PrimaryLabelKey": action.LabelKey,
	})
}
