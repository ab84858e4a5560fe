package db

import (
	"fmt"

	"github.com/terraincognita07/mealmate/internal/query"
	"gorm.io/gorm"
)

// foodQueryColumns whitelists the query.Spec fields that map onto the foods table.
var foodQueryColumns = map[string]string{
	"id":            "foods.id",
	"name":          "foods.name",
	"calories":      "foods.calories",
	"protein":       "foods.protein",
	"carbohydrates": "foods.carbohydrates",
	"fat":           "foods.fat",
	"fiber":         "foods.fiber",
	"sugar":         "foods.sugar",
	"category.id":   "foods.category_id",
}

func applyQueryPredicates(database *gorm.DB, spec query.Spec, columns map[string]string) (*gorm.DB, error) {
	scoped := database
	for _, predicate := range spec.Where {
		column, ok := columns[predicate.Field]
		if !ok {
			return nil, fmt.Errorf("unsupported query field %q", predicate.Field)
		}

		switch predicate.Op {
		case query.OpEq:
			scoped = scoped.Where(column+" = ?", predicate.Value)
		case query.OpGte:
			scoped = scoped.Where(column+" >= ?", predicate.Value)
		case query.OpLte:
			scoped = scoped.Where(column+" <= ?", predicate.Value)
		case query.OpContains:
			scoped = scoped.Where(containsExpression(database, column), predicate.Value)
		default:
			return nil, fmt.Errorf("unsupported query operator %q", predicate.Op)
		}
	}
	return scoped, nil
}

func applyQueryWindow(database *gorm.DB, spec query.Spec, columns map[string]string) (*gorm.DB, error) {
	scoped := database
	for _, key := range spec.OrderBy {
		column, ok := columns[key.Field]
		if !ok {
			return nil, fmt.Errorf("unsupported sort field %q", key.Field)
		}
		direction := " ASC"
		if key.Desc {
			direction = " DESC"
		}
		scoped = scoped.Order(column + direction)
	}
	if spec.Skip > 0 {
		scoped = scoped.Offset(spec.Skip)
	}
	if spec.Take > 0 {
		scoped = scoped.Limit(spec.Take)
	}
	return scoped, nil
}

// containsExpression is a case-sensitive substring match. LIKE is avoided
// because SQLite folds ASCII case for it.
func containsExpression(database *gorm.DB, column string) string {
	if database.Dialector != nil && database.Dialector.Name() == DriverPostgres {
		return "strpos(" + column + ", ?) > 0"
	}
	return "instr(" + column + ", ?) > 0"
}
