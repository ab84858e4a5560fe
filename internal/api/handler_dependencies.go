package api

import (
	"github.com/terraincognita07/mealmate/internal/db"
	"github.com/terraincognita07/mealmate/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.ensureDependencies()
	return handler
}

func (handler *Handler) ensureDependencies() {
	if handler.repositories == nil {
		if handler.db == nil {
			return
		}
		handler.repositories = db.NewRepositories(handler.db)
	}
	repos := handler.repositories

	if handler.authService == nil {
		handler.authService = services.NewAuthService(repos.Users)
	}
	if handler.categoryService == nil {
		handler.categoryService = services.NewCategoryService(repos.Categories)
	}
	if handler.servingUnitService == nil {
		handler.servingUnitService = services.NewServingUnitService(repos.ServingUnits)
	}
	if handler.foodService == nil {
		handler.foodService = services.NewFoodService(repos.Foods, repos.Categories, repos.ServingUnits)
	}
	if handler.mealService == nil {
		handler.mealService = services.NewMealService(repos.Meals, repos.Foods, repos.ServingUnits)
	}
	if handler.statsService == nil {
		handler.statsService = services.NewStatsService(repos.Meals)
	}
	if handler.exportService == nil {
		handler.exportService = services.NewExportService(repos.Meals)
	}
}
