package db

import (
	"time"

	"github.com/terraincognita07/mealmate/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MealRepository struct {
	database *gorm.DB
}

func NewMealRepository(database *gorm.DB) *MealRepository {
	return &MealRepository{database: database}
}

func (repo *MealRepository) withLineItems(database *gorm.DB) *gorm.DB {
	return database.
		Preload("Foods", func(tx *gorm.DB) *gorm.DB { return tx.Order("meal_foods.id ASC") }).
		Preload("Foods.Food").
		Preload("Foods.ServingUnit")
}

// ListByUserRange returns meals with date_time in [fromStart, toEnd), newest first.
func (repo *MealRepository) ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.Meal, error) {
	query := repo.database.Model(&models.Meal{}).Where("user_id = ?", userID)
	if fromStart != nil {
		query = query.Where("date_time >= ?", *fromStart)
	}
	if toEnd != nil {
		query = query.Where("date_time < ?", *toEnd)
	}

	meals := make([]models.Meal, 0)
	if err := repo.withLineItems(query).Order("date_time DESC, id DESC").Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}

func (repo *MealRepository) FindByIDForUser(mealID uint, userID uint) (models.Meal, bool, error) {
	meal := models.Meal{}
	result := repo.withLineItems(repo.database).
		Where("id = ? AND user_id = ?", mealID, userID).
		Limit(1).
		Find(&meal)
	if result.Error != nil {
		return models.Meal{}, false, result.Error
	}
	return meal, result.RowsAffected > 0, nil
}

func (repo *MealRepository) CreateWithFoods(meal *models.Meal, foods []models.MealFood) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(meal).Error; err != nil {
			return err
		}
		return createMealFoods(tx, meal, foods)
	})
}

// ReplaceFoods saves the meal columns, deletes every existing line item and
// inserts foods in their place. Nothing is diffed.
func (repo *MealRepository) ReplaceFoods(meal *models.Meal, foods []models.MealFood) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(meal).Error; err != nil {
			return err
		}
		if err := tx.Where("meal_id = ?", meal.ID).Delete(&models.MealFood{}).Error; err != nil {
			return err
		}
		return createMealFoods(tx, meal, foods)
	})
}

func (repo *MealRepository) DeleteForUser(mealID uint, userID uint) (bool, error) {
	deleted := false
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		var owned int64
		if err := tx.Model(&models.Meal{}).
			Where("id = ? AND user_id = ?", mealID, userID).
			Count(&owned).Error; err != nil {
			return err
		}
		if owned == 0 {
			return nil
		}
		if err := tx.Where("meal_id = ?", mealID).Delete(&models.MealFood{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ? AND user_id = ?", mealID, userID).Delete(&models.Meal{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}

func createMealFoods(tx *gorm.DB, meal *models.Meal, foods []models.MealFood) error {
	if len(foods) == 0 {
		meal.Foods = []models.MealFood{}
		return nil
	}
	for index := range foods {
		foods[index].ID = 0
		foods[index].MealID = meal.ID
	}
	if err := tx.Omit(clause.Associations).Create(&foods).Error; err != nil {
		return err
	}
	meal.Foods = foods
	return nil
}
