package services

import (
	"fmt"
	"time"

	"github.com/terraincognita07/mealmate/internal/models"
)

const (
	DashboardTrendDays = 7
	MaxStatsRangeDays  = 366
)

type StatsMealReader interface {
	ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.Meal, error)
}

type DayTotals struct {
	Date      string          `json:"date"`
	MealCount int             `json:"meal_count"`
	Totals    NutritionTotals `json:"totals"`
}

type StatsService struct {
	meals StatsMealReader
}

func NewStatsService(meals StatsMealReader) *StatsService {
	return &StatsService{meals: meals}
}

// DailyTotals returns one entry per calendar day in [from, to], oldest first.
// Days without meals are present with zero totals. Ranges longer than
// MaxStatsRangeDays fail validation.
func (service *StatsService) DailyTotals(userID uint, from time.Time, to time.Time, location *time.Location) ([]DayTotals, error) {
	start := DateAtLocation(from, location)
	last := DateAtLocation(to, location)
	if last.Before(start) {
		return []DayTotals{}, nil
	}
	if last.After(start.AddDate(0, 0, MaxStatsRangeDays-1)) {
		problems := &ValidationError{}
		problems.Add("to", RuleMax, fmt.Sprintf("date range must span at most %d days", MaxStatsRangeDays))
		return nil, problems.Err()
	}
	end := last.AddDate(0, 0, 1)

	meals, err := service.meals.ListByUserRange(userID, &start, &end)
	if err != nil {
		return nil, err
	}
	return BucketMealsByDay(meals, start, last, location), nil
}

// RecentDailyTotals covers the last DashboardTrendDays days ending at now.
func (service *StatsService) RecentDailyTotals(userID uint, now time.Time, location *time.Location) ([]DayTotals, error) {
	return service.DailyTotals(userID, now.AddDate(0, 0, -(DashboardTrendDays-1)), now, location)
}

func BucketMealsByDay(meals []models.Meal, start time.Time, last time.Time, location *time.Location) []DayTotals {
	indexByDate := make(map[string]int)
	days := make([]DayTotals, 0)
	for day := start; !day.After(last); day = day.AddDate(0, 0, 1) {
		key := day.Format(DateLayout)
		indexByDate[key] = len(days)
		days = append(days, DayTotals{Date: key})
	}

	for _, meal := range meals {
		key := DateAtLocation(meal.DateTime, location).Format(DateLayout)
		index, ok := indexByDate[key]
		if !ok {
			continue
		}
		days[index].MealCount++
		days[index].Totals = days[index].Totals.Add(AggregateNutrition(meal.Foods))
	}
	return days
}
