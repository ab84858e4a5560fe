package api

import (
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/mealmate/internal/models"
	"github.com/terraincognita07/mealmate/internal/services"
)

func newTemplateFuncMap() template.FuncMap {
	return template.FuncMap{
		"t":             templateTranslate,
		"formatDate":    formatTemplateDate,
		"formatFloat":   formatTemplateFloat,
		"nutrient":      formatTemplateNutrient,
		"userIdentity":  templateUserIdentity,
		"isActiveRoute": isActiveTemplateRoute,
		"isAdmin":       templateIsAdmin,
		"dict":          templateDict,
		"add":           templateAdd,
		"pageURL":       templateFoodPageURL,
		"sortURL":       templateFoodSortURL,
		"uintEq":        templateUintEq,
		"editorRows":    templateEditorRows,
	}
}

func templateTranslate(messages map[string]string, key string) string {
	return translateMessage(messages, key)
}

func formatTemplateDate(value time.Time, layout string) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(layout)
}

func formatTemplateFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', 1, 64)
}

func formatTemplateNutrient(value *float64) string {
	if value == nil {
		return "-"
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func templateUserIdentity(user *models.User) string {
	if user == nil {
		return ""
	}
	if displayName := strings.TrimSpace(user.DisplayName); displayName != "" {
		return displayName
	}
	return strings.TrimSpace(user.Email)
}

func templateIsAdmin(user *models.User) bool {
	return user.IsAdmin()
}

func isActiveTemplateRoute(currentPath string, route string) bool {
	path := strings.TrimSpace(currentPath)
	if path == "" {
		return route == "/"
	}
	if route == "/" {
		return path == "/" || strings.HasPrefix(path, "/?")
	}
	return path == route || strings.HasPrefix(path, route+"?") || strings.HasPrefix(path, route+"/")
}

func templateDict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("dict requires key-value pairs")
	}
	result := make(map[string]any, len(values)/2)
	for index := 0; index < len(values); index += 2 {
		key, ok := values[index].(string)
		if !ok {
			return nil, fmt.Errorf("dict key at index %d is not a string", index)
		}
		result[key] = values[index+1]
	}
	return result, nil
}

func templateAdd(a int, b int) int {
	return a + b
}

// templateEditorRows sizes the blank item rows of the meal form.
func templateEditorRows() []int {
	return []int{0, 1, 2}
}

func templateUintEq(a *uint, b uint) bool {
	return a != nil && *a == b
}

// templateFoodPageURL keeps every active filter and swaps the page number.
func templateFoodPageURL(basePath string, filters services.FoodFilters, page int) string {
	filters.Page = page
	return basePath + "?" + encodeFoodFilters(filters).Encode()
}

// templateFoodSortURL toggles the order when column is already the sort key.
func templateFoodSortURL(basePath string, filters services.FoodFilters, column string) string {
	if filters.SortBy == column {
		if filters.SortOrder == services.SortOrderAsc {
			filters.SortOrder = services.SortOrderDesc
		} else {
			filters.SortOrder = services.SortOrderAsc
		}
	} else {
		filters.SortBy = column
		filters.SortOrder = services.SortOrderAsc
	}
	filters.Page = 1
	return basePath + "?" + encodeFoodFilters(filters).Encode()
}

func encodeFoodFilters(filters services.FoodFilters) url.Values {
	values := url.Values{}
	if filters.SearchTerm != "" {
		values.Set("searchTerm", filters.SearchTerm)
	}
	if filters.CaloriesRange != [2]string{} {
		values.Add("caloriesRange", filters.CaloriesRange[0])
		values.Add("caloriesRange", filters.CaloriesRange[1])
	}
	if filters.ProteinRange != [2]string{} {
		values.Add("proteinRange", filters.ProteinRange[0])
		values.Add("proteinRange", filters.ProteinRange[1])
	}
	if filters.CategoryID != "" {
		values.Set("categoryId", filters.CategoryID)
	}
	if filters.SortBy != "" {
		values.Set("sortBy", filters.SortBy)
	}
	values.Set("sortOrder", filters.SortOrder)
	values.Set("page", strconv.Itoa(filters.Page))
	values.Set("pageSize", strconv.Itoa(filters.PageSize))
	return values
}
