package api

import (
	"bytes"
	"context"
	"html/template"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

const healthPingTimeout = 2 * time.Second

// Health reports whether the database answers a ping.
func (handler *Handler) Health(c *fiber.Ctx) error {
	sqlDB, err := handler.db.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(c.Context(), healthPingTimeout)
		defer cancel()
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		log.Printf("health check: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// render writes a full page wrapped in the base layout.
func (handler *Handler) render(c *fiber.Ctx, page string, data fiber.Map) error {
	return handler.executeTemplate(c, handler.templates[page], "base", page, data)
}

// renderPartial writes a bare fragment for HTMX swaps.
func (handler *Handler) renderPartial(c *fiber.Ctx, name string, data fiber.Map) error {
	return handler.executeTemplate(c, handler.partials[name], name, name, data)
}

func (handler *Handler) executeTemplate(c *fiber.Ctx, tmpl *template.Template, entry string, name string, data fiber.Map) error {
	if tmpl == nil {
		log.Printf("render %s: template not registered", name)
		return c.Status(fiber.StatusInternalServerError).SendString("template not found")
	}

	var output bytes.Buffer
	if err := tmpl.ExecuteTemplate(&output, entry, handler.withTemplateDefaults(c, data)); err != nil {
		log.Printf("render %s: %v", name, err)
		return c.Status(fiber.StatusInternalServerError).SendString("failed to render template")
	}
	c.Type("html", "utf-8")
	return c.Send(output.Bytes())
}

func (handler *Handler) withTemplateDefaults(c *fiber.Ctx, data fiber.Map) fiber.Map {
	payload := fiber.Map{
		"Messages":    currentMessages(c),
		"Lang":        handler.templateLanguage(c),
		"CurrentPath": currentPathWithQuery(c),
		"CSRFToken":   csrfToken(c),
	}
	if user, found := currentUser(c); found {
		payload["CurrentUser"] = user
	}
	for key, value := range data {
		payload[key] = value
	}
	return payload
}

func (handler *Handler) templateLanguage(c *fiber.Ctx) string {
	if language := currentLanguage(c); language != "" {
		return language
	}
	return handler.i18n.DefaultLanguage()
}

func currentPathWithQuery(c *fiber.Ctx) string {
	if path := string(c.Request().URI().RequestURI()); path != "" {
		return path
	}
	return c.Path()
}
