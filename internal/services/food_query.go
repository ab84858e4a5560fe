package services

import (
	"strconv"
	"strings"

	"github.com/terraincognita07/mealmate/internal/query"
)

const (
	FoodFieldID       = "id"
	FoodFieldName     = "name"
	FoodFieldCalories = "calories"
	FoodFieldProtein  = "protein"
	FoodFieldCategory = "category.id"
)

// BuildFoodQuery translates validated filters into a storage neutral query
// spec. It never fails: anything unparseable was already rejected by
// ValidateFoodFilters, and leftovers are ignored.
func BuildFoodQuery(filters FoodFilters) query.Spec {
	spec := query.Spec{}

	if term := strings.TrimSpace(filters.SearchTerm); term != "" {
		spec.Where = append(spec.Where, query.Predicate{Field: FoodFieldName, Op: query.OpContains, Value: term})
	}

	spec.Where = append(spec.Where, rangePredicates(FoodFieldCalories, filters.CaloriesRange)...)
	spec.Where = append(spec.Where, rangePredicates(FoodFieldProtein, filters.ProteinRange)...)

	if categoryID, err := strconv.ParseUint(strings.TrimSpace(filters.CategoryID), 10, 64); err == nil && categoryID > 0 {
		spec.Where = append(spec.Where, query.Predicate{Field: FoodFieldCategory, Op: query.OpEq, Value: uint(categoryID)})
	}

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = SortByName
	}
	spec.OrderBy = []query.SortKey{{Field: sortBy, Desc: filters.SortOrder == SortOrderDesc}}
	if sortBy != FoodFieldID {
		spec.OrderBy = append(spec.OrderBy, query.SortKey{Field: FoodFieldID})
	}

	spec.Skip = Skip(filters.Page, filters.PageSize)
	spec.Take = filters.PageSize
	return spec
}

func rangePredicates(field string, bounds [2]string) []query.Predicate {
	predicates := make([]query.Predicate, 0, 2)
	if value, ok := parseBound(bounds[0]); ok {
		predicates = append(predicates, query.Predicate{Field: field, Op: query.OpGte, Value: value})
	}
	if value, ok := parseBound(bounds[1]); ok {
		predicates = append(predicates, query.Predicate{Field: field, Op: query.OpLte, Value: value})
	}
	return predicates
}

func parseBound(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
