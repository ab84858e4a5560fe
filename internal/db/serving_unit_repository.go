package db

import (
	"github.com/terraincognita07/mealmate/internal/models"
	"gorm.io/gorm"
)

type ServingUnitRepository struct {
	database *gorm.DB
}

func NewServingUnitRepository(database *gorm.DB) *ServingUnitRepository {
	return &ServingUnitRepository{database: database}
}

func (repo *ServingUnitRepository) List() ([]models.ServingUnit, error) {
	units := make([]models.ServingUnit, 0)
	if err := repo.database.Order("name ASC, id ASC").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

func (repo *ServingUnitRepository) FindByID(unitID uint) (models.ServingUnit, bool, error) {
	unit := models.ServingUnit{}
	result := repo.database.Where("id = ?", unitID).Limit(1).Find(&unit)
	if result.Error != nil {
		return models.ServingUnit{}, false, result.Error
	}
	return unit, result.RowsAffected > 0, nil
}

func (repo *ServingUnitRepository) CountByIDs(ids []uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.ServingUnit{}).
		Where("id IN ?", ids).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *ServingUnitRepository) ExistsByName(name string, excludeID uint) (bool, error) {
	var matched int64
	query := repo.database.Model(&models.ServingUnit{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *ServingUnitRepository) CountReferences(unitID uint) (int64, error) {
	var mealFoods int64
	if err := repo.database.Model(&models.MealFood{}).
		Where("serving_unit_id = ?", unitID).
		Count(&mealFoods).Error; err != nil {
		return 0, err
	}
	var foodUnits int64
	if err := repo.database.Model(&models.FoodServingUnit{}).
		Where("serving_unit_id = ?", unitID).
		Count(&foodUnits).Error; err != nil {
		return 0, err
	}
	return mealFoods + foodUnits, nil
}

func (repo *ServingUnitRepository) Create(unit *models.ServingUnit) error {
	return repo.database.Create(unit).Error
}

func (repo *ServingUnitRepository) CreateBatch(units []models.ServingUnit) error {
	if len(units) == 0 {
		return nil
	}
	return repo.database.Create(&units).Error
}

func (repo *ServingUnitRepository) Save(unit *models.ServingUnit) error {
	return repo.database.Save(unit).Error
}

func (repo *ServingUnitRepository) Delete(unitID uint) error {
	return repo.database.Delete(&models.ServingUnit{}, unitID).Error
}
