package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mealmate/internal/models"
	"github.com/terraincognita07/mealmate/internal/services"
)

const mealsPagePath = "/meals"

type mealResponse struct {
	models.Meal
	Totals services.NutritionTotals `json:"totals"`
}

func (handler *Handler) newMealResponse(meal models.Meal) mealResponse {
	return mealResponse{Meal: meal, Totals: handler.mealService.MealTotals(meal)}
}

func (handler *Handler) ListMeals(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	from, toEnd, err := services.ParseDateRange(c.Query("from"), c.Query("to"), handler.location)
	if err != nil {
		return handler.respondServiceError(c, err, "")
	}

	handler.ensureDependencies()
	meals, err := handler.mealService.ListMeals(user.ID, from, toEnd)
	if err != nil {
		return handler.respondServiceError(c, err, "")
	}

	response := make([]mealResponse, 0, len(meals))
	for _, meal := range meals {
		response = append(response, handler.newMealResponse(meal))
	}
	return c.JSON(response)
}

func (handler *Handler) GetMeal(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	mealID, ok := parseIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	meal, err := handler.mealService.FindMeal(user.ID, mealID)
	if err != nil {
		return handler.respondServiceError(c, err, "")
	}
	return c.JSON(handler.newMealResponse(meal))
}

func (handler *Handler) CreateMeal(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	input, err := mealInputFromRequest(c)
	if err != nil {
		return handler.respondServiceError(c, err, mealsPagePath)
	}

	handler.ensureDependencies()
	meal, err := handler.mealService.CreateMeal(user.ID, input, handler.location)
	if err != nil {
		return handler.respondServiceError(c, err, mealsPagePath)
	}
	return handler.respondMutationSuccess(c, fiber.StatusCreated, handler.newMealResponse(meal), mealsPagePathForDay(meal.DateTime, handler.location), "meal_saved")
}

func (handler *Handler) UpdateMeal(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	mealID, ok := parseIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	input, err := mealInputFromRequest(c)
	if err != nil {
		return handler.respondServiceError(c, err, mealsPagePath)
	}

	handler.ensureDependencies()
	meal, err := handler.mealService.UpdateMeal(user.ID, mealID, input, handler.location)
	if err != nil {
		return handler.respondServiceError(c, err, mealsPagePath)
	}
	return handler.respondMutationSuccess(c, fiber.StatusOK, handler.newMealResponse(meal), mealsPagePathForDay(meal.DateTime, handler.location), "meal_saved")
}

func (handler *Handler) DeleteMeal(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	mealID, ok := parseIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	if err := handler.mealService.DeleteMeal(user.ID, mealID); err != nil {
		return handler.respondServiceError(c, err, mealsPagePath)
	}
	return handler.respondMutationSuccess(c, fiber.StatusOK, fiber.Map{"ok": true}, mealsPagePath, "meal_deleted")
}

func (handler *Handler) MealSummary(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	day, err := services.ParseDay(c.Query("date"), time.Now(), handler.location)
	if err != nil {
		return handler.respondServiceError(c, err, "")
	}

	handler.ensureDependencies()
	summary, err := handler.mealService.DailySummary(user.ID, day, handler.location)
	if err != nil {
		return handler.respondServiceError(c, err, "")
	}

	meals := make([]mealResponse, 0, len(summary.Meals))
	for _, meal := range summary.Meals {
		meals = append(meals, handler.newMealResponse(meal))
	}
	return c.JSON(fiber.Map{
		"date":   summary.Date,
		"meals":  meals,
		"totals": summary.Totals,
	})
}

func (handler *Handler) DailyStats(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	from, toEnd, err := services.ParseDateRange(c.Query("from"), c.Query("to"), handler.location)
	if err != nil {
		return handler.respondServiceError(c, err, "")
	}

	last := time.Now().In(handler.location)
	if toEnd != nil {
		last = toEnd.AddDate(0, 0, -1)
	}
	first := last.AddDate(0, 0, -(services.DashboardTrendDays - 1))
	if from != nil {
		first = *from
	}

	handler.ensureDependencies()
	days, err := handler.statsService.DailyTotals(user.ID, first, last, handler.location)
	if err != nil {
		return handler.respondServiceError(c, err, "")
	}
	return c.JSON(days)
}

// NextPage exposes the pager step used by the food lists.
func (handler *Handler) NextPage(c *fiber.Ctx) error {
	current := 1
	if raw := c.Query("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid input")
		}
		current = parsed
	}
	next, err := services.NextPage(current, c.Query("action"))
	if err != nil {
		return handler.respondServiceError(c, err, "")
	}
	return c.JSON(fiber.Map{"page": next})
}

func mealsPagePathForDay(value time.Time, location *time.Location) string {
	return mealsPagePath + "?date=" + services.DateAtLocation(value, location).Format(services.DateLayout)
}
