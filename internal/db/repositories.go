package db

import "gorm.io/gorm"

type Repositories struct {
	Users        *UserRepository
	Categories   *CategoryRepository
	ServingUnits *ServingUnitRepository
	Foods        *FoodRepository
	Meals        *MealRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(database),
		Categories:   NewCategoryRepository(database),
		ServingUnits: NewServingUnitRepository(database),
		Foods:        NewFoodRepository(database),
		Meals:        NewMealRepository(database),
	}
}
