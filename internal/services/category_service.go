package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/mealmate/internal/models"
)

const maxCatalogNameLength = 80

var (
	ErrCategoryNotFound  = fmt.Errorf("category %w", ErrNotFound)
	ErrCategoryNameTaken = errors.New("category name taken")
)

type CategoryRepository interface {
	List() ([]models.Category, error)
	FindByID(categoryID uint) (models.Category, bool, error)
	ExistsByName(name string, excludeID uint) (bool, error)
	Create(category *models.Category) error
	Save(category *models.Category) error
	Delete(categoryID uint) error
}

type CategoryService struct {
	categories CategoryRepository
}

func NewCategoryService(categories CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (service *CategoryService) ListCategories() ([]models.Category, error) {
	return service.categories.List()
}

func (service *CategoryService) FindCategory(categoryID uint) (models.Category, error) {
	category, found, err := service.categories.FindByID(categoryID)
	if err != nil {
		return models.Category{}, fmt.Errorf("load category: %w", err)
	}
	if !found {
		return models.Category{}, ErrCategoryNotFound
	}
	return category, nil
}

func (service *CategoryService) CreateCategory(rawName string) (models.Category, error) {
	name, err := service.validateName(rawName, 0)
	if err != nil {
		return models.Category{}, err
	}

	category := models.Category{Name: name}
	if err := service.categories.Create(&category); err != nil {
		return models.Category{}, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (service *CategoryService) UpdateCategory(categoryID uint, rawName string) (models.Category, error) {
	category, err := service.FindCategory(categoryID)
	if err != nil {
		return models.Category{}, err
	}
	name, err := service.validateName(rawName, categoryID)
	if err != nil {
		return models.Category{}, err
	}

	category.Name = name
	if err := service.categories.Save(&category); err != nil {
		return models.Category{}, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// DeleteCategory keeps the category's foods; they become uncategorized.
func (service *CategoryService) DeleteCategory(categoryID uint) error {
	if _, err := service.FindCategory(categoryID); err != nil {
		return err
	}
	if err := service.categories.Delete(categoryID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (service *CategoryService) validateName(rawName string, excludeID uint) (string, error) {
	name, err := validateCatalogName(rawName)
	if err != nil {
		return "", err
	}
	taken, err := service.categories.ExistsByName(name, excludeID)
	if err != nil {
		return "", fmt.Errorf("check category name: %w", err)
	}
	if taken {
		return "", ErrCategoryNameTaken
	}
	return name, nil
}

func validateCatalogName(rawName string) (string, error) {
	name := strings.TrimSpace(rawName)
	problems := &ValidationError{}
	switch {
	case name == "":
		problems.Add("name", RuleRequired, "name is required")
	case len([]rune(name)) > maxCatalogNameLength:
		problems.Add("name", RuleMax, fmt.Sprintf("name must be at most %d characters", maxCatalogNameLength))
	}
	if err := problems.Err(); err != nil {
		return "", err
	}
	return name, nil
}
