package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mealmate/internal/services"
)

const adminFoodsPath = "/admin/foods"

func (handler *Handler) ListFoods(c *fiber.Ctx) error {
	handler.ensureDependencies()
	page, filters, err := handler.foodService.ListFoods(foodFilterInputFromQuery(c), services.APIFoodFilterDefaults)
	if err != nil {
		return handler.respondServiceError(c, err, "")
	}
	return c.JSON(fiber.Map{
		"data":       page.Data,
		"total":      page.Total,
		"page":       page.Page,
		"pageSize":   page.PageSize,
		"totalPages": page.TotalPages,
		"filters":    filters,
	})
}

func (handler *Handler) GetFood(c *fiber.Ctx) error {
	foodID, ok := parseIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	food, err := handler.foodService.FindFood(foodID)
	if err != nil {
		return handler.respondServiceError(c, err, "")
	}
	return c.JSON(food)
}

func (handler *Handler) CreateFood(c *fiber.Ctx) error {
	input, err := foodInputFromRequest(c)
	if err != nil {
		return handler.respondServiceError(c, err, adminFoodsPath)
	}

	handler.ensureDependencies()
	food, err := handler.foodService.CreateFood(input)
	if err != nil {
		return handler.respondServiceError(c, err, adminFoodsPath)
	}
	return handler.respondMutationSuccess(c, fiber.StatusCreated, food, adminFoodsPath, "food_saved")
}

func (handler *Handler) UpdateFood(c *fiber.Ctx) error {
	foodID, ok := parseIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	input, err := foodInputFromRequest(c)
	if err != nil {
		return handler.respondServiceError(c, err, adminFoodsPath)
	}

	handler.ensureDependencies()
	food, err := handler.foodService.UpdateFood(foodID, input)
	if err != nil {
		return handler.respondServiceError(c, err, adminFoodsPath)
	}
	return handler.respondMutationSuccess(c, fiber.StatusOK, food, adminFoodsPath, "food_saved")
}

func (handler *Handler) DeleteFood(c *fiber.Ctx) error {
	foodID, ok := parseIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	if err := handler.foodService.DeleteFood(foodID); err != nil {
		return handler.respondServiceError(c, err, adminFoodsPath)
	}
	return handler.respondMutationSuccess(c, fiber.StatusOK, fiber.Map{"ok": true}, adminFoodsPath, "food_deleted")
}

// FoodPicker renders the searchable food list of the meal editor.
func (handler *Handler) FoodPicker(c *fiber.Ctx) error {
	handler.ensureDependencies()
	page, filters, err := handler.foodService.ListFoods(foodFilterInputFromQuery(c), services.PickerFoodFilterDefaults)
	if err != nil {
		return handler.respondServiceError(c, err, "")
	}
	return handler.renderPartial(c, "food_picker", fiber.Map{
		"Foods":    page,
		"Filters":  filters,
		"BasePath": "/foods/picker",
	})
}
