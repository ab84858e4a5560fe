package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mealmate/internal/models"
	"github.com/terraincognita07/mealmate/internal/services"
)

func (handler *Handler) ShowDashboard(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	handler.ensureDependencies()
	now := time.Now().In(handler.location)
	today, err := handler.mealService.DailySummary(user.ID, now, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
	trend, err := handler.statsService.RecentDailyTotals(user.ID, now, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}

	flash := handler.popFlashCookie(c)
	messages := currentMessages(c)
	return handler.render(c, "dashboard", fiber.Map{
		"Title":          localizedPageTitle(messages, "meta.title.dashboard", "MealMate | Dashboard"),
		"Today":          today.Date,
		"TodayTotals":    today.Totals,
		"TodayMealCount": len(today.Meals),
		"Trend":          trend,
		"SuccessMessage": localizedSuccessMessage(c, flash.Success),
	})
}

func (handler *Handler) ShowMeals(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	now := time.Now().In(handler.location)
	day, err := services.ParseDay(c.Query("date"), now, handler.location)
	if err != nil {
		day = services.DateAtLocation(now, handler.location)
	}

	handler.ensureDependencies()
	summary, err := handler.mealService.DailySummary(user.ID, day, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
	units, err := handler.servingUnitService.ListServingUnits()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
	picker, pickerFilters, err := handler.foodService.ListFoods(services.FoodFilterInput{}, services.PickerFoodFilterDefaults)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}

	meals := make([]mealResponse, 0, len(summary.Meals))
	for _, meal := range summary.Meals {
		meals = append(meals, handler.newMealResponse(meal))
	}

	var editMeal *models.Meal
	if editID := c.QueryInt("edit", 0); editID > 0 {
		if meal, findErr := handler.mealService.FindMeal(user.ID, uint(editID)); findErr == nil {
			editMeal = &meal
		}
	}

	defaultDateTime := day.Add(time.Duration(now.Hour())*time.Hour + time.Duration(now.Minute())*time.Minute)
	flash := handler.popFlashCookie(c)
	messages := currentMessages(c)
	return handler.render(c, "meals", fiber.Map{
		"Title":           localizedPageTitle(messages, "meta.title.meals", "MealMate | Meals"),
		"Day":             summary.Date,
		"PrevDay":         day.AddDate(0, 0, -1).Format(services.DateLayout),
		"NextDay":         day.AddDate(0, 0, 1).Format(services.DateLayout),
		"Meals":           meals,
		"DayTotals":       summary.Totals,
		"ServingUnits":    units,
		"Foods":           picker,
		"Filters":         pickerFilters,
		"BasePath":        "/foods/picker",
		"EditMeal":        editMeal,
		"DefaultDateTime": defaultDateTime.Format("2006-01-02T15:04"),
		"ErrorMessage":    localizedErrorMessage(c, flash.Error),
		"SuccessMessage":  localizedSuccessMessage(c, flash.Success),
	})
}

func (handler *Handler) ShowAdminFoods(c *fiber.Ctx) error {
	handler.ensureDependencies()

	var fieldErrors []services.FieldError
	page, filters, err := handler.foodService.ListFoods(foodFilterInputFromQuery(c), services.AdminFoodFilterDefaults)
	if err != nil {
		validationErr, ok := services.AsValidationError(err)
		if !ok {
			return apiError(c, fiber.StatusInternalServerError, "internal error")
		}
		fieldErrors = validationErr.Fields
		page, filters, err = handler.foodService.ListFoods(services.FoodFilterInput{}, services.AdminFoodFilterDefaults)
		if err != nil {
			return apiError(c, fiber.StatusInternalServerError, "internal error")
		}
	}

	data := fiber.Map{
		"Foods":       page,
		"Filters":     filters,
		"BasePath":    adminFoodsPath,
		"FieldErrors": fieldErrors,
	}
	if isHTMX(c) {
		return handler.renderPartial(c, "food_rows", data)
	}

	categories, err := handler.categoryService.ListCategories()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
	units, err := handler.servingUnitService.ListServingUnits()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}

	var editFood *models.Food
	if editID := c.QueryInt("edit", 0); editID > 0 {
		if food, findErr := handler.foodService.FindFood(uint(editID)); findErr == nil {
			editFood = &food
		}
	}

	flash := handler.popFlashCookie(c)
	data["Title"] = localizedPageTitle(currentMessages(c), "meta.title.admin_foods", "MealMate | Foods")
	data["Categories"] = categories
	data["ServingUnits"] = units
	data["EditFood"] = editFood
	data["SortColumns"] = []string{
		services.SortByName,
		services.SortByCalories,
		services.SortByProtein,
		services.SortByCarbohydrates,
		services.SortByFat,
	}
	data["ErrorMessage"] = localizedErrorMessage(c, flash.Error)
	data["SuccessMessage"] = localizedSuccessMessage(c, flash.Success)
	return handler.render(c, "admin_foods", data)
}

func (handler *Handler) ShowAdminCategories(c *fiber.Ctx) error {
	handler.ensureDependencies()
	categories, err := handler.categoryService.ListCategories()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}

	flash := handler.popFlashCookie(c)
	return handler.render(c, "admin_categories", fiber.Map{
		"Title":          localizedPageTitle(currentMessages(c), "meta.title.admin_categories", "MealMate | Categories"),
		"Categories":     categories,
		"ErrorMessage":   localizedErrorMessage(c, flash.Error),
		"SuccessMessage": localizedSuccessMessage(c, flash.Success),
	})
}

func (handler *Handler) ShowAdminServingUnits(c *fiber.Ctx) error {
	handler.ensureDependencies()
	units, err := handler.servingUnitService.ListServingUnits()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}

	flash := handler.popFlashCookie(c)
	return handler.render(c, "admin_serving_units", fiber.Map{
		"Title":          localizedPageTitle(currentMessages(c), "meta.title.admin_serving_units", "MealMate | Serving Units"),
		"ServingUnits":   units,
		"ErrorMessage":   localizedErrorMessage(c, flash.Error),
		"SuccessMessage": localizedSuccessMessage(c, flash.Success),
	})
}
