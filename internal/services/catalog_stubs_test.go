package services

import (
	"time"

	"github.com/terraincognita07/mealmate/internal/models"
	"github.com/terraincognita07/mealmate/internal/query"
)

type stubCategoryRepo struct {
	categories []models.Category
	deleted    []uint
}

func (stub *stubCategoryRepo) List() ([]models.Category, error) {
	return stub.categories, nil
}

func (stub *stubCategoryRepo) FindByID(categoryID uint) (models.Category, bool, error) {
	for _, category := range stub.categories {
		if category.ID == categoryID {
			return category, true, nil
		}
	}
	return models.Category{}, false, nil
}

func (stub *stubCategoryRepo) ExistsByName(name string, excludeID uint) (bool, error) {
	for _, category := range stub.categories {
		if category.Name == name && category.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (stub *stubCategoryRepo) Create(category *models.Category) error {
	category.ID = uint(len(stub.categories) + 1)
	stub.categories = append(stub.categories, *category)
	return nil
}

func (stub *stubCategoryRepo) Save(category *models.Category) error {
	for index := range stub.categories {
		if stub.categories[index].ID == category.ID {
			stub.categories[index] = *category
		}
	}
	return nil
}

func (stub *stubCategoryRepo) Delete(categoryID uint) error {
	stub.deleted = append(stub.deleted, categoryID)
	return nil
}

type stubServingUnitRepo struct {
	units      []models.ServingUnit
	references map[uint]int64
	deleted    []uint
}

func (stub *stubServingUnitRepo) List() ([]models.ServingUnit, error) {
	return stub.units, nil
}

func (stub *stubServingUnitRepo) FindByID(unitID uint) (models.ServingUnit, bool, error) {
	for _, unit := range stub.units {
		if unit.ID == unitID {
			return unit, true, nil
		}
	}
	return models.ServingUnit{}, false, nil
}

func (stub *stubServingUnitRepo) CountByIDs(ids []uint) (int64, error) {
	var count int64
	for _, id := range ids {
		if _, found, _ := stub.FindByID(id); found {
			count++
		}
	}
	return count, nil
}

func (stub *stubServingUnitRepo) ExistsByName(name string, excludeID uint) (bool, error) {
	for _, unit := range stub.units {
		if unit.Name == name && unit.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (stub *stubServingUnitRepo) CountReferences(unitID uint) (int64, error) {
	return stub.references[unitID], nil
}

func (stub *stubServingUnitRepo) Create(unit *models.ServingUnit) error {
	unit.ID = uint(len(stub.units) + 1)
	stub.units = append(stub.units, *unit)
	return nil
}

func (stub *stubServingUnitRepo) CreateBatch(units []models.ServingUnit) error {
	for index := range units {
		if err := stub.Create(&units[index]); err != nil {
			return err
		}
	}
	return nil
}

func (stub *stubServingUnitRepo) Save(unit *models.ServingUnit) error {
	for index := range stub.units {
		if stub.units[index].ID == unit.ID {
			stub.units[index] = *unit
		}
	}
	return nil
}

func (stub *stubServingUnitRepo) Delete(unitID uint) error {
	stub.deleted = append(stub.deleted, unitID)
	return nil
}

type stubFoodRepo struct {
	foods          map[uint]models.Food
	units          map[uint][]models.FoodServingUnit
	mealReferences map[uint]int64
	lastSpec       query.Spec
	pageTotal      int64
	nextID         uint
}

func newStubFoodRepo(foods ...models.Food) *stubFoodRepo {
	stub := &stubFoodRepo{
		foods:          make(map[uint]models.Food),
		units:          make(map[uint][]models.FoodServingUnit),
		mealReferences: make(map[uint]int64),
	}
	for _, food := range foods {
		stub.foods[food.ID] = food
		if food.ID > stub.nextID {
			stub.nextID = food.ID
		}
	}
	return stub
}

func (stub *stubFoodRepo) Page(spec query.Spec) ([]models.Food, int64, error) {
	stub.lastSpec = spec
	rows := make([]models.Food, 0, len(stub.foods))
	for _, food := range stub.foods {
		rows = append(rows, food)
	}
	return rows, stub.pageTotal, nil
}

func (stub *stubFoodRepo) FindByID(foodID uint) (models.Food, bool, error) {
	food, ok := stub.foods[foodID]
	if !ok {
		return models.Food{}, false, nil
	}
	food.ServingUnits = stub.units[foodID]
	return food, true, nil
}

func (stub *stubFoodRepo) ListByIDs(ids []uint) ([]models.Food, error) {
	rows := make([]models.Food, 0, len(ids))
	for _, id := range ids {
		if food, ok := stub.foods[id]; ok {
			rows = append(rows, food)
		}
	}
	return rows, nil
}

func (stub *stubFoodRepo) CreateWithServingUnits(food *models.Food, units []models.FoodServingUnit) error {
	stub.nextID++
	food.ID = stub.nextID
	stub.foods[food.ID] = *food
	stub.units[food.ID] = units
	return nil
}

func (stub *stubFoodRepo) ReplaceWithServingUnits(food *models.Food, units []models.FoodServingUnit) error {
	stub.foods[food.ID] = *food
	stub.units[food.ID] = units
	return nil
}

func (stub *stubFoodRepo) Delete(foodID uint) (bool, bool, error) {
	if stub.mealReferences[foodID] > 0 {
		return false, true, nil
	}
	if _, ok := stub.foods[foodID]; !ok {
		return false, false, nil
	}
	delete(stub.foods, foodID)
	delete(stub.units, foodID)
	return true, false, nil
}

type stubMealRepo struct {
	meals    []models.Meal
	foods    map[uint]models.Food
	lastFrom *time.Time
	lastTo   *time.Time
	nextID   uint
}

func (stub *stubMealRepo) ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.Meal, error) {
	stub.lastFrom = fromStart
	stub.lastTo = toEnd
	rows := make([]models.Meal, 0)
	for _, meal := range stub.meals {
		if meal.UserID != userID {
			continue
		}
		if fromStart != nil && meal.DateTime.Before(*fromStart) {
			continue
		}
		if toEnd != nil && !meal.DateTime.Before(*toEnd) {
			continue
		}
		rows = append(rows, meal)
	}
	return rows, nil
}

func (stub *stubMealRepo) FindByIDForUser(mealID uint, userID uint) (models.Meal, bool, error) {
	for _, meal := range stub.meals {
		if meal.ID == mealID && meal.UserID == userID {
			return meal, true, nil
		}
	}
	return models.Meal{}, false, nil
}

func (stub *stubMealRepo) CreateWithFoods(meal *models.Meal, foods []models.MealFood) error {
	stub.nextID++
	meal.ID = stub.nextID
	meal.Foods = stub.resolve(meal.ID, foods)
	stub.meals = append(stub.meals, *meal)
	return nil
}

func (stub *stubMealRepo) ReplaceFoods(meal *models.Meal, foods []models.MealFood) error {
	for index := range stub.meals {
		if stub.meals[index].ID == meal.ID {
			meal.Foods = stub.resolve(meal.ID, foods)
			stub.meals[index] = *meal
		}
	}
	return nil
}

func (stub *stubMealRepo) DeleteForUser(mealID uint, userID uint) (bool, error) {
	for index, meal := range stub.meals {
		if meal.ID == mealID && meal.UserID == userID {
			stub.meals = append(stub.meals[:index], stub.meals[index+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (stub *stubMealRepo) resolve(mealID uint, foods []models.MealFood) []models.MealFood {
	resolved := make([]models.MealFood, len(foods))
	for index, item := range foods {
		item.MealID = mealID
		item.Food = stub.foods[item.FoodID]
		resolved[index] = item
	}
	return resolved
}
