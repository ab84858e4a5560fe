package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mealmate/internal/models"
	"github.com/terraincognita07/mealmate/internal/services"
)

func (handler *Handler) exportUserAndRange(c *fiber.Ctx) (*models.User, *time.Time, *time.Time, error) {
	user, ok := currentUser(c)
	if !ok {
		return nil, nil, nil, errUnauthenticated
	}
	from, toEnd, err := services.ParseDateRange(c.Query("from"), c.Query("to"), handler.location)
	if err != nil {
		return nil, nil, nil, err
	}
	return user, from, toEnd, nil
}

func (handler *Handler) respondExportError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errUnauthenticated) {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return handler.respondServiceError(c, err, "")
}

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	user, from, toEnd, err := handler.exportUserAndRange(c)
	if err != nil {
		return handler.respondExportError(c, err)
	}

	handler.ensureDependencies()
	entries, err := handler.exportService.BuildEntries(user.ID, from, toEnd, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch meals")
	}

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.ExportCSVHeaders); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}
	for _, entry := range entries {
		if err := writer.Write(entry.Columns()); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to build export")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	now := time.Now().In(handler.location)
	setExportAttachmentHeaders(c, "text/csv", buildExportFilename(now, "csv"))
	return c.Send(output.Bytes())
}

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	user, from, toEnd, err := handler.exportUserAndRange(c)
	if err != nil {
		return handler.respondExportError(c, err)
	}

	handler.ensureDependencies()
	entries, err := handler.exportService.BuildEntries(user.ID, from, toEnd, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch meals")
	}

	now := time.Now().In(handler.location)
	serialized, err := json.MarshalIndent(fiber.Map{
		"exported_at": now.Format(time.RFC3339),
		"entries":     entries,
	}, "", "  ")
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, fiber.MIMEApplicationJSON, buildExportFilename(now, "json"))
	return c.Send(serialized)
}

func (handler *Handler) ExportSummary(c *fiber.Ctx) error {
	user, from, toEnd, err := handler.exportUserAndRange(c)
	if err != nil {
		return handler.respondExportError(c, err)
	}

	handler.ensureDependencies()
	summary, err := handler.exportService.BuildSummary(user.ID, from, toEnd, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch meals")
	}
	return c.JSON(fiber.Map{
		"total_meals": summary.TotalMeals,
		"total_items": summary.TotalItems,
		"has_data":    summary.HasData,
		"date_from":   summary.DateFrom,
		"date_to":     summary.DateTo,
	})
}

func buildExportFilename(now time.Time, extension string) string {
	return fmt.Sprintf("mealmate-export-%s.%s", now.Format(services.DateLayout), extension)
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
}
