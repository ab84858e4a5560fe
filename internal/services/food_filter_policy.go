package services

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	SortByName          = "name"
	SortByCalories      = "calories"
	SortByProtein       = "protein"
	SortByCarbohydrates = "carbohydrates"
	SortByFat           = "fat"

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"

	MaxFoodPageSize     = 100
	defaultFoodPageSize = 10

	// MaxFoodPage keeps (page-1)*pageSize inside int for every valid pageSize.
	MaxFoodPage = math.MaxInt / MaxFoodPageSize
)

// nutrientBoundPattern accepts "", "0", "0.xx" or a 1-4 digit integer with up
// to two decimals, i.e. 0..9999.99.
var nutrientBoundPattern = regexp.MustCompile(`^(|0|0\.\d{1,2}|[1-9]\d{0,3}(\.\d{1,2})?)$`)

var foodSortFields = []string{SortByName, SortByCalories, SortByProtein, SortByCarbohydrates, SortByFat}

// FoodFilterInput is the loosely typed filter payload as it arrives from a
// query string, a form or JSON.
type FoodFilterInput struct {
	SearchTerm    string   `json:"searchTerm" query:"searchTerm" form:"searchTerm"`
	CaloriesRange []string `json:"caloriesRange" query:"caloriesRange" form:"caloriesRange"`
	ProteinRange  []string `json:"proteinRange" query:"proteinRange" form:"proteinRange"`
	CategoryID    string   `json:"categoryId" query:"categoryId" form:"categoryId"`
	SortBy        string   `json:"sortBy" query:"sortBy" form:"sortBy"`
	SortOrder     string   `json:"sortOrder" query:"sortOrder" form:"sortOrder"`
	Page          string   `json:"page" query:"page" form:"page"`
	PageSize      string   `json:"pageSize" query:"pageSize" form:"pageSize"`
}

// FoodFilters is the validated filter record with every default applied.
type FoodFilters struct {
	SearchTerm    string    `json:"searchTerm"`
	CaloriesRange [2]string `json:"caloriesRange"`
	ProteinRange  [2]string `json:"proteinRange"`
	CategoryID    string    `json:"categoryId"`
	SortBy        string    `json:"sortBy"`
	SortOrder     string    `json:"sortOrder"`
	Page          int       `json:"page"`
	PageSize      int       `json:"pageSize"`
}

// FoodFilterDefaults carries the call-site dependent defaults.
type FoodFilterDefaults struct {
	SortOrder string
	PageSize  int
}

var (
	APIFoodFilterDefaults    = FoodFilterDefaults{SortOrder: SortOrderAsc, PageSize: 10}
	AdminFoodFilterDefaults  = FoodFilterDefaults{SortOrder: SortOrderDesc, PageSize: 10}
	PickerFoodFilterDefaults = FoodFilterDefaults{SortOrder: SortOrderAsc, PageSize: 12}
)

// Input converts a normalized record back into a payload. Validating the
// result yields the same record.
func (filters FoodFilters) Input() FoodFilterInput {
	return FoodFilterInput{
		SearchTerm:    filters.SearchTerm,
		CaloriesRange: []string{filters.CaloriesRange[0], filters.CaloriesRange[1]},
		ProteinRange:  []string{filters.ProteinRange[0], filters.ProteinRange[1]},
		CategoryID:    filters.CategoryID,
		SortBy:        filters.SortBy,
		SortOrder:     filters.SortOrder,
		Page:          strconv.Itoa(filters.Page),
		PageSize:      strconv.Itoa(filters.PageSize),
	}
}

func ValidateFoodFilters(input FoodFilterInput, defaults FoodFilterDefaults) (FoodFilters, error) {
	defaults = normalizeFoodFilterDefaults(defaults)
	problems := &ValidationError{}

	filters := FoodFilters{
		SearchTerm: input.SearchTerm,
		CategoryID: input.CategoryID,
		SortBy:     SortByName,
		SortOrder:  defaults.SortOrder,
		Page:       1,
		PageSize:   defaults.PageSize,
	}

	filters.CaloriesRange = validateNutrientRange("caloriesRange", input.CaloriesRange, problems)
	filters.ProteinRange = validateNutrientRange("proteinRange", input.ProteinRange, problems)

	if input.SortBy != "" {
		if !containsString(foodSortFields, input.SortBy) {
			problems.Add("sortBy", RuleEnum, "sortBy must be one of "+strings.Join(foodSortFields, ", "))
		} else {
			filters.SortBy = input.SortBy
		}
	}

	if input.SortOrder != "" {
		if input.SortOrder != SortOrderAsc && input.SortOrder != SortOrderDesc {
			problems.Add("sortOrder", RuleEnum, "sortOrder must be asc or desc")
		} else {
			filters.SortOrder = input.SortOrder
		}
	}

	if page, ok := validatePositiveInt("page", input.Page, MaxFoodPage, problems); ok {
		filters.Page = page
	}
	if pageSize, ok := validatePositiveInt("pageSize", input.PageSize, MaxFoodPageSize, problems); ok {
		filters.PageSize = pageSize
	}

	if err := problems.Err(); err != nil {
		return FoodFilters{}, err
	}
	return filters, nil
}

func normalizeFoodFilterDefaults(defaults FoodFilterDefaults) FoodFilterDefaults {
	if defaults.SortOrder != SortOrderAsc && defaults.SortOrder != SortOrderDesc {
		defaults.SortOrder = SortOrderAsc
	}
	if defaults.PageSize < 1 || defaults.PageSize > MaxFoodPageSize {
		defaults.PageSize = defaultFoodPageSize
	}
	return defaults
}

func validateNutrientRange(field string, raw []string, problems *ValidationError) [2]string {
	bounds := [2]string{}
	if len(raw) == 0 {
		return bounds
	}
	if len(raw) != 2 {
		problems.Add(field, RuleType, field+" must have exactly two bounds")
		return bounds
	}
	for index, value := range raw {
		if !nutrientBoundPattern.MatchString(value) {
			problems.Add(fmt.Sprintf("%s[%d]", field, index), RulePattern, "bound must be empty or a number between 0 and 9999.99 with at most two decimals")
			continue
		}
		bounds[index] = value
	}
	return bounds
}

// validatePositiveInt leaves the default in place for an empty value. max <= 0
// means unbounded.
func validatePositiveInt(field string, raw string, max int, problems *ValidationError) (int, bool) {
	if raw == "" {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		problems.Add(field, RuleType, field+" must be an integer")
		return 0, false
	}
	if value < 1 {
		problems.Add(field, RuleMin, field+" must be at least 1")
		return 0, false
	}
	if max > 0 && value > max {
		problems.Add(field, RuleMax, fmt.Sprintf("%s must be at most %d", field, max))
		return 0, false
	}
	return value, true
}

func containsString(values []string, candidate string) bool {
	for _, value := range values {
		if value == candidate {
			return true
		}
	}
	return false
}
