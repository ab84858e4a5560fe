package services

import (
	"strconv"
	"time"

	"github.com/terraincognita07/mealmate/internal/models"
)

const exportDateTimeLayout = "2006-01-02 15:04"

var ExportCSVHeaders = []string{
	"Date",
	"Meal",
	"Food",
	"Amount",
	"Unit",
	"Calories",
	"Protein",
	"Carbs",
	"Fat",
	"Sugar",
	"Fiber",
	"Notes",
}

type ExportMealReader interface {
	ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.Meal, error)
}

type ExportService struct {
	meals ExportMealReader
}

type ExportSummary struct {
	TotalMeals int
	TotalItems int
	HasData    bool
	DateFrom   string
	DateTo     string
}

// ExportEntry is one meal line item with nutrients already scaled by amount.
type ExportEntry struct {
	DateTime string          `json:"date_time"`
	MealID   uint            `json:"meal_id"`
	Food     string          `json:"food"`
	Amount   float64         `json:"amount"`
	Unit     string          `json:"unit"`
	Totals   NutritionTotals `json:"totals"`
	Notes    string          `json:"notes"`
}

func NewExportService(meals ExportMealReader) *ExportService {
	return &ExportService{meals: meals}
}

// BuildEntries returns line items oldest meal first.
func (service *ExportService) BuildEntries(userID uint, fromStart *time.Time, toEnd *time.Time, location *time.Location) ([]ExportEntry, error) {
	meals, err := service.meals.ListByUserRange(userID, fromStart, toEnd)
	if err != nil {
		return nil, err
	}

	entries := make([]ExportEntry, 0)
	for index := len(meals) - 1; index >= 0; index-- {
		meal := meals[index]
		for _, item := range meal.Foods {
			entries = append(entries, ExportEntry{
				DateTime: meal.DateTime.In(exportLocation(location)).Format(exportDateTimeLayout),
				MealID:   meal.ID,
				Food:     item.Food.Name,
				Amount:   EffectiveAmount(item.Amount),
				Unit:     item.ServingUnit.Name,
				Totals:   AggregateNutrition([]models.MealFood{item}),
				Notes:    meal.Notes,
			})
		}
	}
	return entries, nil
}

func (service *ExportService) BuildSummary(userID uint, fromStart *time.Time, toEnd *time.Time, location *time.Location) (ExportSummary, error) {
	meals, err := service.meals.ListByUserRange(userID, fromStart, toEnd)
	if err != nil {
		return ExportSummary{}, err
	}
	if len(meals) == 0 {
		return ExportSummary{}, nil
	}

	summary := ExportSummary{TotalMeals: len(meals), HasData: true}
	first := meals[0].DateTime
	last := meals[0].DateTime
	for _, meal := range meals {
		summary.TotalItems += len(meal.Foods)
		if meal.DateTime.Before(first) {
			first = meal.DateTime
		}
		if meal.DateTime.After(last) {
			last = meal.DateTime
		}
	}
	summary.DateFrom = DateAtLocation(first, location).Format(DateLayout)
	summary.DateTo = DateAtLocation(last, location).Format(DateLayout)
	return summary, nil
}

func (entry ExportEntry) Columns() []string {
	return []string{
		entry.DateTime,
		strconv.FormatUint(uint64(entry.MealID), 10),
		entry.Food,
		formatExportNumber(entry.Amount),
		entry.Unit,
		formatExportNumber(entry.Totals.Calories),
		formatExportNumber(entry.Totals.Protein),
		formatExportNumber(entry.Totals.Carbs),
		formatExportNumber(entry.Totals.Fat),
		formatExportNumber(entry.Totals.Sugar),
		formatExportNumber(entry.Totals.Fiber),
		entry.Notes,
	}
}

func formatExportNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func exportLocation(location *time.Location) *time.Location {
	if location == nil {
		return time.UTC
	}
	return location
}
