package db

import (
	"errors"

	"github.com/terraincognita07/mealmate/internal/models"
	"github.com/terraincognita07/mealmate/internal/query"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FoodRepository struct {
	database *gorm.DB
}

func NewFoodRepository(database *gorm.DB) *FoodRepository {
	return &FoodRepository{database: database}
}

// Page runs the count and the windowed select for one query.Spec.
func (repo *FoodRepository) Page(spec query.Spec) ([]models.Food, int64, error) {
	counted, err := applyQueryPredicates(repo.database.Model(&models.Food{}), spec, foodQueryColumns)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := counted.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	selected, err := applyQueryPredicates(repo.database.Model(&models.Food{}), spec, foodQueryColumns)
	if err != nil {
		return nil, 0, err
	}
	selected, err = applyQueryWindow(selected, spec, foodQueryColumns)
	if err != nil {
		return nil, 0, err
	}

	foods := make([]models.Food, 0)
	if err := selected.
		Preload("Category").
		Preload("ServingUnits.ServingUnit").
		Find(&foods).Error; err != nil {
		return nil, 0, err
	}
	return foods, total, nil
}

func (repo *FoodRepository) FindByID(foodID uint) (models.Food, bool, error) {
	food := models.Food{}
	result := repo.database.
		Preload("Category").
		Preload("ServingUnits", func(tx *gorm.DB) *gorm.DB { return tx.Order("food_serving_units.id ASC") }).
		Preload("ServingUnits.ServingUnit").
		Where("id = ?", foodID).
		Limit(1).
		Find(&food)
	if result.Error != nil {
		return models.Food{}, false, result.Error
	}
	return food, result.RowsAffected > 0, nil
}

func (repo *FoodRepository) ListByIDs(ids []uint) ([]models.Food, error) {
	foods := make([]models.Food, 0, len(ids))
	if len(ids) == 0 {
		return foods, nil
	}
	if err := repo.database.Where("id IN ?", ids).Find(&foods).Error; err != nil {
		return nil, err
	}
	return foods, nil
}

func (repo *FoodRepository) CreateWithServingUnits(food *models.Food, units []models.FoodServingUnit) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(food).Error; err != nil {
			return err
		}
		return createFoodServingUnits(tx, food, units)
	})
}

// ReplaceWithServingUnits saves the food columns and swaps its whole serving
// unit set for units.
func (repo *FoodRepository) ReplaceWithServingUnits(food *models.Food, units []models.FoodServingUnit) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(food).Error; err != nil {
			return err
		}
		if err := tx.Where("food_id = ?", food.ID).Delete(&models.FoodServingUnit{}).Error; err != nil {
			return err
		}
		return createFoodServingUnits(tx, food, units)
	})
}

// Delete removes an unreferenced food and its serving unit links. The meal
// reference check runs in the same transaction as the delete; referenced
// reports a food that is still used by a meal item, in which case nothing
// is removed.
func (repo *FoodRepository) Delete(foodID uint) (deleted bool, referenced bool, err error) {
	err = repo.database.Transaction(func(tx *gorm.DB) error {
		var references int64
		if err := tx.Model(&models.MealFood{}).Where("food_id = ?", foodID).Count(&references).Error; err != nil {
			return err
		}
		if references > 0 {
			referenced = true
			return nil
		}

		if err := tx.Where("food_id = ?", foodID).Delete(&models.FoodServingUnit{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Food{}, foodID)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return false, true, nil
	}
	return deleted, referenced, err
}

func createFoodServingUnits(tx *gorm.DB, food *models.Food, units []models.FoodServingUnit) error {
	if len(units) == 0 {
		food.ServingUnits = []models.FoodServingUnit{}
		return nil
	}
	for index := range units {
		units[index].ID = 0
		units[index].FoodID = food.ID
	}
	if err := tx.Omit(clause.Associations).Create(&units).Error; err != nil {
		return err
	}
	food.ServingUnits = units
	return nil
}
