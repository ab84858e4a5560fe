package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mealmate/internal/services"
)

type catalogNameInput struct {
	Name string `json:"name" form:"name"`
}

func isJSONBody(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON)
}

// foodFilterInputFromQuery accepts ranges as repeated keys
// (caloriesRange=1&caloriesRange=2), bracketed keys or a single "min,max".
func foodFilterInputFromQuery(c *fiber.Ctx) services.FoodFilterInput {
	return services.FoodFilterInput{
		SearchTerm:    c.Query("searchTerm"),
		CaloriesRange: queryRangeValues(c, "caloriesRange"),
		ProteinRange:  queryRangeValues(c, "proteinRange"),
		CategoryID:    c.Query("categoryId"),
		SortBy:        c.Query("sortBy"),
		SortOrder:     c.Query("sortOrder"),
		Page:          c.Query("page"),
		PageSize:      c.Query("pageSize"),
	}
}

func queryRangeValues(c *fiber.Ctx, key string) []string {
	args := c.Context().QueryArgs()
	raw := args.PeekMulti(key)
	if len(raw) == 0 {
		raw = args.PeekMulti(key + "[]")
	}
	if len(raw) == 0 {
		first, second := args.Peek(key+"[0]"), args.Peek(key+"[1]")
		if first == nil && second == nil {
			return nil
		}
		return []string{string(first), string(second)}
	}

	values := make([]string, 0, len(raw))
	for _, value := range raw {
		values = append(values, string(value))
	}
	if len(values) == 1 && strings.Contains(values[0], ",") {
		return strings.Split(values[0], ",")
	}
	if len(values) == 1 && values[0] == "" {
		return nil
	}
	return values
}

func formValues(c *fiber.Ctx, key string) []string {
	if form, err := c.MultipartForm(); err == nil && form != nil {
		return form.Value[key]
	}
	raw := c.Request().PostArgs().PeekMulti(key)
	values := make([]string, 0, len(raw))
	for _, value := range raw {
		values = append(values, string(value))
	}
	return values
}

func foodInputFromRequest(c *fiber.Ctx) (services.FoodInput, error) {
	input := services.FoodInput{}
	if isJSONBody(c) {
		if err := c.BodyParser(&input); err != nil {
			return services.FoodInput{}, errInvalidBody
		}
		return input, nil
	}

	problems := &services.ValidationError{}
	input.Name = c.FormValue("name")
	input.Calories = parseOptionalFloat(c.FormValue("calories"), "calories", problems)
	input.Protein = parseOptionalFloat(c.FormValue("protein"), "protein", problems)
	input.Carbohydrates = parseOptionalFloat(c.FormValue("carbohydrates"), "carbohydrates", problems)
	input.Fat = parseOptionalFloat(c.FormValue("fat"), "fat", problems)
	input.Fiber = parseOptionalFloat(c.FormValue("fiber"), "fiber", problems)
	input.Sugar = parseOptionalFloat(c.FormValue("sugar"), "sugar", problems)
	input.CategoryID = parseOptionalID(c.FormValue("category_id"), "category_id", problems)

	unitIDs := formValues(c, "serving_unit_id")
	grams := formValues(c, "grams")
	for index, rawID := range unitIDs {
		if strings.TrimSpace(rawID) == "" {
			continue
		}
		field := fmt.Sprintf("serving_units[%d]", index)
		unitID := parseOptionalID(rawID, field+".serving_unit_id", problems)
		item := services.FoodServingUnitInput{}
		if unitID != nil {
			item.ServingUnitID = *unitID
		}
		if index < len(grams) {
			if value := parseOptionalFloat(grams[index], field+".grams", problems); value != nil {
				item.Grams = *value
			}
		}
		input.ServingUnits = append(input.ServingUnits, item)
	}

	if err := problems.Err(); err != nil {
		return services.FoodInput{}, err
	}
	return input, nil
}

func mealInputFromRequest(c *fiber.Ctx) (services.MealInput, error) {
	input := services.MealInput{}
	if isJSONBody(c) {
		if err := c.BodyParser(&input); err != nil {
			return services.MealInput{}, errInvalidBody
		}
		return input, nil
	}

	problems := &services.ValidationError{}
	input.DateTime = c.FormValue("date_time")
	input.Notes = c.FormValue("notes")

	foodIDs := formValues(c, "food_id")
	unitIDs := formValues(c, "serving_unit_id")
	amounts := formValues(c, "amount")
	for index, rawFoodID := range foodIDs {
		if strings.TrimSpace(rawFoodID) == "" {
			continue
		}
		field := fmt.Sprintf("items[%d]", index)
		item := services.MealItemInput{}
		if foodID := parseOptionalID(rawFoodID, field+".food_id", problems); foodID != nil {
			item.FoodID = *foodID
		}
		if index < len(unitIDs) {
			if unitID := parseOptionalID(unitIDs[index], field+".serving_unit_id", problems); unitID != nil {
				item.ServingUnitID = *unitID
			}
		}
		if index < len(amounts) {
			item.Amount = parseOptionalFloat(amounts[index], field+".amount", problems)
		}
		input.Items = append(input.Items, item)
	}

	if err := problems.Err(); err != nil {
		return services.MealInput{}, err
	}
	return input, nil
}

func catalogNameFromRequest(c *fiber.Ctx) (string, error) {
	input := catalogNameInput{}
	if err := c.BodyParser(&input); err != nil {
		return "", errInvalidBody
	}
	return input.Name, nil
}

func parseOptionalFloat(raw string, field string, problems *services.ValidationError) *float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		problems.Add(field, services.RuleType, field+" must be a number")
		return nil
	}
	return &value
}

func parseOptionalID(raw string, field string, problems *services.ValidationError) *uint {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	value, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil || value == 0 {
		problems.Add(field, services.RuleType, field+" must be a positive integer")
		return nil
	}
	id := uint(value)
	return &id
}
