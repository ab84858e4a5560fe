package db

import (
	"github.com/terraincognita07/mealmate/internal/models"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	database *gorm.DB
}

func NewCategoryRepository(database *gorm.DB) *CategoryRepository {
	return &CategoryRepository{database: database}
}

func (repo *CategoryRepository) List() ([]models.Category, error) {
	categories := make([]models.Category, 0)
	if err := repo.database.Order("name ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (repo *CategoryRepository) FindByID(categoryID uint) (models.Category, bool, error) {
	category := models.Category{}
	result := repo.database.Where("id = ?", categoryID).Limit(1).Find(&category)
	if result.Error != nil {
		return models.Category{}, false, result.Error
	}
	return category, result.RowsAffected > 0, nil
}

func (repo *CategoryRepository) ExistsByName(name string, excludeID uint) (bool, error) {
	var matched int64
	query := repo.database.Model(&models.Category{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *CategoryRepository) Create(category *models.Category) error {
	return repo.database.Create(category).Error
}

func (repo *CategoryRepository) Save(category *models.Category) error {
	return repo.database.Save(category).Error
}

// Delete detaches the category from its foods before removing it, so the
// foods stay in the catalog uncategorized.
func (repo *CategoryRepository) Delete(categoryID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Food{}).
			Where("category_id = ?", categoryID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, categoryID).Error
	})
}
