package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/terraincognita07/mealmate/internal/models"
)

const maxMealNotesLength = 500

var ErrMealNotFound = fmt.Errorf("meal %w", ErrNotFound)

type MealRepository interface {
	ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.Meal, error)
	FindByIDForUser(mealID uint, userID uint) (models.Meal, bool, error)
	CreateWithFoods(meal *models.Meal, foods []models.MealFood) error
	ReplaceFoods(meal *models.Meal, foods []models.MealFood) error
	DeleteForUser(mealID uint, userID uint) (bool, error)
}

type MealFoodLookup interface {
	ListByIDs(ids []uint) ([]models.Food, error)
}

type MealItemInput struct {
	FoodID        uint     `json:"food_id" form:"food_id"`
	ServingUnitID uint     `json:"serving_unit_id" form:"serving_unit_id"`
	Amount        *float64 `json:"amount" form:"amount"`
}

type MealInput struct {
	DateTime string          `json:"date_time" form:"date_time"`
	Notes    string          `json:"notes" form:"notes"`
	Items    []MealItemInput `json:"items" form:"items"`
}

type DailySummary struct {
	Date   string          `json:"date"`
	Meals  []models.Meal   `json:"meals"`
	Totals NutritionTotals `json:"totals"`
}

type MealService struct {
	meals MealRepository
	foods MealFoodLookup
	units ServingUnitCounter
}

func NewMealService(meals MealRepository, foods MealFoodLookup, units ServingUnitCounter) *MealService {
	return &MealService{
		meals: meals,
		foods: foods,
		units: units,
	}
}

// ListMeals returns the user's meals in [fromStart, toEnd), newest first.
// Nil bounds are open.
func (service *MealService) ListMeals(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.Meal, error) {
	meals, err := service.meals.ListByUserRange(userID, fromStart, toEnd)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	return meals, nil
}

// FindMeal treats another user's meal exactly like a missing one.
func (service *MealService) FindMeal(userID uint, mealID uint) (models.Meal, error) {
	meal, found, err := service.meals.FindByIDForUser(mealID, userID)
	if err != nil {
		return models.Meal{}, fmt.Errorf("load meal: %w", err)
	}
	if !found {
		return models.Meal{}, ErrMealNotFound
	}
	return meal, nil
}

func (service *MealService) CreateMeal(userID uint, input MealInput, location *time.Location) (models.Meal, error) {
	meal, items, err := service.buildMeal(input, location)
	if err != nil {
		return models.Meal{}, err
	}
	meal.UserID = userID
	if err := service.meals.CreateWithFoods(&meal, items); err != nil {
		return models.Meal{}, fmt.Errorf("create meal: %w", err)
	}
	return service.FindMeal(userID, meal.ID)
}

// UpdateMeal replaces every line item of the meal in one transaction.
func (service *MealService) UpdateMeal(userID uint, mealID uint, input MealInput, location *time.Location) (models.Meal, error) {
	existing, err := service.FindMeal(userID, mealID)
	if err != nil {
		return models.Meal{}, err
	}
	meal, items, err := service.buildMeal(input, location)
	if err != nil {
		return models.Meal{}, err
	}
	meal.ID = existing.ID
	meal.UserID = existing.UserID
	meal.CreatedAt = existing.CreatedAt

	if err := service.meals.ReplaceFoods(&meal, items); err != nil {
		return models.Meal{}, fmt.Errorf("update meal: %w", err)
	}
	return service.FindMeal(userID, meal.ID)
}

func (service *MealService) DeleteMeal(userID uint, mealID uint) error {
	deleted, err := service.meals.DeleteForUser(mealID, userID)
	if err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	if !deleted {
		return ErrMealNotFound
	}
	return nil
}

func (service *MealService) MealTotals(meal models.Meal) NutritionTotals {
	return AggregateNutrition(meal.Foods)
}

// DailySummary sums every meal the user logged on day (in location).
func (service *MealService) DailySummary(userID uint, day time.Time, location *time.Location) (DailySummary, error) {
	start, end := DayRange(day, location)
	meals, err := service.ListMeals(userID, &start, &end)
	if err != nil {
		return DailySummary{}, err
	}

	totals := NutritionTotals{}
	for _, meal := range meals {
		totals = totals.Add(AggregateNutrition(meal.Foods))
	}
	return DailySummary{
		Date:   start.Format(DateLayout),
		Meals:  meals,
		Totals: totals,
	}, nil
}

func (service *MealService) buildMeal(input MealInput, location *time.Location) (models.Meal, []models.MealFood, error) {
	problems := &ValidationError{}

	var dateTime time.Time
	if strings.TrimSpace(input.DateTime) == "" {
		problems.Add("date_time", RuleRequired, "date and time are required")
	} else if parsed, err := parseMealDateTime(input.DateTime, location); err != nil {
		problems.Add("date_time", RulePattern, "date and time are invalid")
	} else {
		dateTime = parsed
	}

	notes := strings.TrimSpace(input.Notes)
	if len([]rune(notes)) > maxMealNotesLength {
		problems.Add("notes", RuleMax, fmt.Sprintf("notes must be at most %d characters", maxMealNotesLength))
	}

	items, err := service.buildItems(input.Items, problems)
	if err != nil {
		return models.Meal{}, nil, err
	}
	if err := problems.Err(); err != nil {
		return models.Meal{}, nil, err
	}

	return models.Meal{DateTime: dateTime, Notes: notes}, items, nil
}

func (service *MealService) buildItems(inputs []MealItemInput, problems *ValidationError) ([]models.MealFood, error) {
	if len(inputs) == 0 {
		problems.Add("items", RuleMin, "add at least one food")
		return nil, nil
	}

	items := make([]models.MealFood, 0, len(inputs))
	foodIDs := make([]uint, 0, len(inputs))
	unitIDs := make([]uint, 0, len(inputs))
	seenUnits := make(map[uint]struct{})

	for index, input := range inputs {
		field := fmt.Sprintf("items[%d]", index)
		if input.FoodID == 0 {
			problems.Add(field+".food_id", RuleRequired, "food is required")
		} else {
			foodIDs = append(foodIDs, input.FoodID)
		}
		if input.ServingUnitID == 0 {
			problems.Add(field+".serving_unit_id", RuleRequired, "serving unit is required")
		} else if _, seen := seenUnits[input.ServingUnitID]; !seen {
			seenUnits[input.ServingUnitID] = struct{}{}
			unitIDs = append(unitIDs, input.ServingUnitID)
		}

		amount := 1.0
		if input.Amount != nil {
			amount = *input.Amount
		}
		if amount < 0 || math.IsNaN(amount) {
			problems.Add(field+".amount", RuleMin, "amount must not be negative")
		} else if amount > maxNutrientValue {
			problems.Add(field+".amount", RuleMax, fmt.Sprintf("amount must be at most %.2f", maxNutrientValue))
		}

		items = append(items, models.MealFood{
			FoodID:        input.FoodID,
			ServingUnitID: input.ServingUnitID,
			Amount:        amount,
		})
	}

	if len(foodIDs) > 0 {
		foods, err := service.foods.ListByIDs(foodIDs)
		if err != nil {
			return nil, fmt.Errorf("load foods: %w", err)
		}
		known := make(map[uint]struct{}, len(foods))
		for _, food := range foods {
			known[food.ID] = struct{}{}
		}
		for index, input := range inputs {
			if input.FoodID == 0 {
				continue
			}
			if _, ok := known[input.FoodID]; !ok {
				problems.Add(fmt.Sprintf("items[%d].food_id", index), RuleExists, "food does not exist")
			}
		}
	}

	if len(unitIDs) > 0 {
		count, err := service.units.CountByIDs(unitIDs)
		if err != nil {
			return nil, fmt.Errorf("count serving units: %w", err)
		}
		if int(count) != len(unitIDs) {
			problems.Add("items", RuleExists, "unknown serving unit")
		}
	}
	return items, nil
}
