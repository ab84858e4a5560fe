package api

import (
	"github.com/gofiber/fiber/v2"
)

const (
	adminCategoriesPath   = "/admin/categories"
	adminServingUnitsPath = "/admin/serving-units"
)

func (handler *Handler) ListCategories(c *fiber.Ctx) error {
	handler.ensureDependencies()
	categories, err := handler.categoryService.ListCategories()
	if err != nil {
		return handler.respondServiceError(c, err, "")
	}
	return c.JSON(categories)
}

func (handler *Handler) CreateCategory(c *fiber.Ctx) error {
	name, err := catalogNameFromRequest(c)
	if err != nil {
		return handler.respondServiceError(c, err, adminCategoriesPath)
	}

	handler.ensureDependencies()
	category, err := handler.categoryService.CreateCategory(name)
	if err != nil {
		return handler.respondServiceError(c, err, adminCategoriesPath)
	}
	return handler.respondMutationSuccess(c, fiber.StatusCreated, category, adminCategoriesPath, "category_saved")
}

func (handler *Handler) UpdateCategory(c *fiber.Ctx) error {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	name, err := catalogNameFromRequest(c)
	if err != nil {
		return handler.respondServiceError(c, err, adminCategoriesPath)
	}

	handler.ensureDependencies()
	category, err := handler.categoryService.UpdateCategory(categoryID, name)
	if err != nil {
		return handler.respondServiceError(c, err, adminCategoriesPath)
	}
	return handler.respondMutationSuccess(c, fiber.StatusOK, category, adminCategoriesPath, "category_saved")
}

func (handler *Handler) DeleteCategory(c *fiber.Ctx) error {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	if err := handler.categoryService.DeleteCategory(categoryID); err != nil {
		return handler.respondServiceError(c, err, adminCategoriesPath)
	}
	return handler.respondMutationSuccess(c, fiber.StatusOK, fiber.Map{"ok": true}, adminCategoriesPath, "category_deleted")
}

func (handler *Handler) ListServingUnits(c *fiber.Ctx) error {
	handler.ensureDependencies()
	units, err := handler.servingUnitService.ListServingUnits()
	if err != nil {
		return handler.respondServiceError(c, err, "")
	}
	return c.JSON(units)
}

func (handler *Handler) CreateServingUnit(c *fiber.Ctx) error {
	name, err := catalogNameFromRequest(c)
	if err != nil {
		return handler.respondServiceError(c, err, adminServingUnitsPath)
	}

	handler.ensureDependencies()
	unit, err := handler.servingUnitService.CreateServingUnit(name)
	if err != nil {
		return handler.respondServiceError(c, err, adminServingUnitsPath)
	}
	return handler.respondMutationSuccess(c, fiber.StatusCreated, unit, adminServingUnitsPath, "serving_unit_saved")
}

func (handler *Handler) UpdateServingUnit(c *fiber.Ctx) error {
	unitID, ok := parseIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	name, err := catalogNameFromRequest(c)
	if err != nil {
		return handler.respondServiceError(c, err, adminServingUnitsPath)
	}

	handler.ensureDependencies()
	unit, err := handler.servingUnitService.UpdateServingUnit(unitID, name)
	if err != nil {
		return handler.respondServiceError(c, err, adminServingUnitsPath)
	}
	return handler.respondMutationSuccess(c, fiber.StatusOK, unit, adminServingUnitsPath, "serving_unit_saved")
}

func (handler *Handler) DeleteServingUnit(c *fiber.Ctx) error {
	unitID, ok := parseIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	if err := handler.servingUnitService.DeleteServingUnit(unitID); err != nil {
		return handler.respondServiceError(c, err, adminServingUnitsPath)
	}
	return handler.respondMutationSuccess(c, fiber.StatusOK, fiber.Map{"ok": true}, adminServingUnitsPath, "serving_unit_deleted")
}
