package services

import "github.com/terraincognita07/mealmate/internal/models"

// NutritionTotals holds summed nutrients over a set of meal line items.
type NutritionTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Sugar    float64 `json:"sugar"`
	Fiber    float64 `json:"fiber"`
}

// EffectiveAmount treats a zero amount as a multiplier of one. A stored
// amount of 0 therefore still counts a full serving.
func EffectiveAmount(amount float64) float64 {
	if amount == 0 {
		return 1
	}
	return amount
}

func AggregateNutrition(items []models.MealFood) NutritionTotals {
	totals := NutritionTotals{}
	for _, item := range items {
		amount := EffectiveAmount(item.Amount)
		totals.Calories += nutrientValue(item.Food.Calories) * amount
		totals.Protein += nutrientValue(item.Food.Protein) * amount
		totals.Carbs += nutrientValue(item.Food.Carbohydrates) * amount
		totals.Fat += nutrientValue(item.Food.Fat) * amount
		totals.Sugar += nutrientValue(item.Food.Sugar) * amount
		totals.Fiber += nutrientValue(item.Food.Fiber) * amount
	}
	return totals
}

// CalculateTotalCalories is the calories-only fold used by meal cards.
func CalculateTotalCalories(items []models.MealFood) float64 {
	total := 0.0
	for _, item := range items {
		total += nutrientValue(item.Food.Calories) * EffectiveAmount(item.Amount)
	}
	return total
}

func (totals NutritionTotals) Add(other NutritionTotals) NutritionTotals {
	return NutritionTotals{
		Calories: totals.Calories + other.Calories,
		Protein:  totals.Protein + other.Protein,
		Carbs:    totals.Carbs + other.Carbs,
		Fat:      totals.Fat + other.Fat,
		Sugar:    totals.Sugar + other.Sugar,
		Fiber:    totals.Fiber + other.Fiber,
	}
}

func nutrientValue(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}
