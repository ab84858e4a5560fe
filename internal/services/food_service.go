package services

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/terraincognita07/mealmate/internal/models"
	"github.com/terraincognita07/mealmate/internal/query"
)

const (
	maxFoodNameLength = 120
	maxNutrientValue  = 9999.99
)

var (
	ErrFoodNotFound = fmt.Errorf("food %w", ErrNotFound)
	ErrFoodInUse    = errors.New("food in use")
)

type FoodRepository interface {
	Page(spec query.Spec) ([]models.Food, int64, error)
	FindByID(foodID uint) (models.Food, bool, error)
	ListByIDs(ids []uint) ([]models.Food, error)
	CreateWithServingUnits(food *models.Food, units []models.FoodServingUnit) error
	ReplaceWithServingUnits(food *models.Food, units []models.FoodServingUnit) error
	Delete(foodID uint) (deleted bool, referenced bool, err error)
}

type FoodCategoryLookup interface {
	FindByID(categoryID uint) (models.Category, bool, error)
}

type ServingUnitCounter interface {
	CountByIDs(ids []uint) (int64, error)
}

type FoodServingUnitInput struct {
	ServingUnitID uint    `json:"serving_unit_id" form:"serving_unit_id"`
	Grams         float64 `json:"grams" form:"grams"`
}

type FoodInput struct {
	Name          string                 `json:"name" form:"name"`
	Calories      *float64               `json:"calories" form:"calories"`
	Protein       *float64               `json:"protein" form:"protein"`
	Carbohydrates *float64               `json:"carbohydrates" form:"carbohydrates"`
	Fat           *float64               `json:"fat" form:"fat"`
	Fiber         *float64               `json:"fiber" form:"fiber"`
	Sugar         *float64               `json:"sugar" form:"sugar"`
	CategoryID    *uint                  `json:"category_id" form:"category_id"`
	ServingUnits  []FoodServingUnitInput `json:"serving_units" form:"serving_units"`
}

type FoodService struct {
	foods      FoodRepository
	categories FoodCategoryLookup
	units      ServingUnitCounter
}

func NewFoodService(foods FoodRepository, categories FoodCategoryLookup, units ServingUnitCounter) *FoodService {
	return &FoodService{
		foods:      foods,
		categories: categories,
		units:      units,
	}
}

// ListFoods validates the raw filters, runs the count and page queries and
// wraps the rows in page metadata. The normalized filters are returned so
// callers can render them back.
func (service *FoodService) ListFoods(input FoodFilterInput, defaults FoodFilterDefaults) (Page[models.Food], FoodFilters, error) {
	filters, err := ValidateFoodFilters(input, defaults)
	if err != nil {
		return Page[models.Food]{}, FoodFilters{}, err
	}

	foods, total, err := service.foods.Page(BuildFoodQuery(filters))
	if err != nil {
		return Page[models.Food]{}, FoodFilters{}, fmt.Errorf("list foods: %w", err)
	}
	return NewPage(foods, int(total), filters.Page, filters.PageSize), filters, nil
}

func (service *FoodService) FindFood(foodID uint) (models.Food, error) {
	food, found, err := service.foods.FindByID(foodID)
	if err != nil {
		return models.Food{}, fmt.Errorf("load food: %w", err)
	}
	if !found {
		return models.Food{}, ErrFoodNotFound
	}
	return food, nil
}

func (service *FoodService) CreateFood(input FoodInput) (models.Food, error) {
	food, units, err := service.buildFood(input)
	if err != nil {
		return models.Food{}, err
	}
	if err := service.foods.CreateWithServingUnits(&food, units); err != nil {
		return models.Food{}, fmt.Errorf("create food: %w", err)
	}
	return service.FindFood(food.ID)
}

// UpdateFood overwrites the food columns and replaces its serving units as a whole.
func (service *FoodService) UpdateFood(foodID uint, input FoodInput) (models.Food, error) {
	existing, err := service.FindFood(foodID)
	if err != nil {
		return models.Food{}, err
	}
	food, units, err := service.buildFood(input)
	if err != nil {
		return models.Food{}, err
	}
	food.ID = existing.ID
	food.CreatedAt = existing.CreatedAt

	if err := service.foods.ReplaceWithServingUnits(&food, units); err != nil {
		return models.Food{}, fmt.Errorf("update food: %w", err)
	}
	return service.FindFood(food.ID)
}

// DeleteFood removes the food together with its serving unit links. Foods
// still referenced by a logged meal are kept.
func (service *FoodService) DeleteFood(foodID uint) error {
	deleted, referenced, err := service.foods.Delete(foodID)
	if err != nil {
		return fmt.Errorf("delete food: %w", err)
	}
	if referenced {
		return ErrFoodInUse
	}
	if !deleted {
		return ErrFoodNotFound
	}
	return nil
}

func (service *FoodService) buildFood(input FoodInput) (models.Food, []models.FoodServingUnit, error) {
	problems := &ValidationError{}

	name := strings.TrimSpace(input.Name)
	switch {
	case name == "":
		problems.Add("name", RuleRequired, "name is required")
	case len([]rune(name)) > maxFoodNameLength:
		problems.Add("name", RuleMax, fmt.Sprintf("name must be at most %d characters", maxFoodNameLength))
	}

	nutrients := []struct {
		field string
		value *float64
	}{
		{"calories", input.Calories},
		{"protein", input.Protein},
		{"carbohydrates", input.Carbohydrates},
		{"fat", input.Fat},
		{"fiber", input.Fiber},
		{"sugar", input.Sugar},
	}
	for _, nutrient := range nutrients {
		validateNutrientValue(nutrient.field, nutrient.value, problems)
	}

	var categoryID *uint
	if input.CategoryID != nil && *input.CategoryID != 0 {
		_, found, err := service.categories.FindByID(*input.CategoryID)
		if err != nil {
			return models.Food{}, nil, fmt.Errorf("load category: %w", err)
		}
		if !found {
			problems.Add("category_id", RuleExists, "category does not exist")
		} else {
			id := *input.CategoryID
			categoryID = &id
		}
	}

	units, err := service.buildServingUnits(input.ServingUnits, problems)
	if err != nil {
		return models.Food{}, nil, err
	}

	if err := problems.Err(); err != nil {
		return models.Food{}, nil, err
	}

	food := models.Food{
		Name:          name,
		Calories:      input.Calories,
		Protein:       input.Protein,
		Carbohydrates: input.Carbohydrates,
		Fat:           input.Fat,
		Fiber:         input.Fiber,
		Sugar:         input.Sugar,
		CategoryID:    categoryID,
	}
	return food, units, nil
}

func (service *FoodService) buildServingUnits(inputs []FoodServingUnitInput, problems *ValidationError) ([]models.FoodServingUnit, error) {
	units := make([]models.FoodServingUnit, 0, len(inputs))
	seen := make(map[uint]struct{}, len(inputs))
	ids := make([]uint, 0, len(inputs))

	for index, input := range inputs {
		field := fmt.Sprintf("serving_units[%d]", index)
		if input.ServingUnitID == 0 {
			problems.Add(field+".serving_unit_id", RuleRequired, "serving unit is required")
			continue
		}
		if _, duplicate := seen[input.ServingUnitID]; duplicate {
			problems.Add(field+".serving_unit_id", RuleUnique, "serving unit is listed twice")
			continue
		}
		seen[input.ServingUnitID] = struct{}{}
		if !(input.Grams > 0) || input.Grams > maxNutrientValue || math.IsInf(input.Grams, 0) {
			problems.Add(field+".grams", RuleMin, "grams must be greater than 0")
		}
		ids = append(ids, input.ServingUnitID)
		units = append(units, models.FoodServingUnit{ServingUnitID: input.ServingUnitID, Grams: input.Grams})
	}

	if len(ids) > 0 {
		count, err := service.units.CountByIDs(ids)
		if err != nil {
			return nil, fmt.Errorf("count serving units: %w", err)
		}
		if int(count) != len(ids) {
			problems.Add("serving_units", RuleExists, "unknown serving unit")
		}
	}
	return units, nil
}

// validateNutrientValue accepts nil (unknown) or 0..9999.99.
func validateNutrientValue(field string, value *float64, problems *ValidationError) {
	if value == nil {
		return
	}
	if math.IsNaN(*value) || *value < 0 {
		problems.Add(field, RuleMin, field+" must not be negative")
		return
	}
	if *value > maxNutrientValue {
		problems.Add(field, RuleMax, fmt.Sprintf("%s must be at most %.2f", field, maxNutrientValue))
	}
}
