package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/mealmate/internal/models"
)

func TestExportEntriesScaleNutrientsPerLineItem(t *testing.T) {
	t.Parallel()

	apple := models.Food{ID: 1, Name: "Apple", Calories: floatPtr(52), Sugar: floatPtr(10)}
	piece := models.ServingUnit{ID: 2, Name: "piece"}
	repo := &stubMealRepo{meals: []models.Meal{
		{ID: 9, UserID: 1, DateTime: time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC), Notes: "dinner", Foods: []models.MealFood{{Food: apple, ServingUnit: piece, Amount: 0}}},
		{ID: 8, UserID: 1, DateTime: time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC), Foods: []models.MealFood{{Food: apple, ServingUnit: piece, Amount: 2}}},
	}}
	service := NewExportService(repo)

	entries, err := service.BuildEntries(1, nil, nil, time.UTC)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, uint(8), entries[0].MealID)
	assert.Equal(t, 104.0, entries[0].Totals.Calories)
	assert.Equal(t, 1.0, entries[1].Amount)
	assert.Equal(t, []string{"2026-03-14 19:00", "9", "Apple", "1", "piece", "52", "0", "0", "0", "10", "0", "dinner"}, entries[1].Columns())
	assert.Len(t, entries[0].Columns(), len(ExportCSVHeaders))
}

func TestExportSummary(t *testing.T) {
	t.Parallel()

	repo := &stubMealRepo{meals: []models.Meal{
		{ID: 2, UserID: 1, DateTime: time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC), Foods: []models.MealFood{{}, {}}},
		{ID: 1, UserID: 1, DateTime: time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC), Foods: []models.MealFood{{}}},
	}}
	service := NewExportService(repo)

	summary, err := service.BuildSummary(1, nil, nil, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, ExportSummary{TotalMeals: 2, TotalItems: 3, HasData: true, DateFrom: "2026-03-12", DateTo: "2026-03-15"}, summary)

	empty, err := service.BuildSummary(7, nil, nil, time.UTC)
	require.NoError(t, err)
	assert.False(t, empty.HasData)
}

func TestParseDateRange(t *testing.T) {
	t.Parallel()

	from, toEnd, err := ParseDateRange("2026-03-01", "2026-03-31", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *from)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), *toEnd)

	_, _, err = ParseDateRange("2026-03-31", "2026-03-01", time.UTC)
	validationErr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.True(t, validationErr.Has("to"))

	_, _, err = ParseDateRange("03/01/2026", "", time.UTC)
	validationErr, ok = AsValidationError(err)
	require.True(t, ok)
	assert.True(t, validationErr.Has("from"))
}
