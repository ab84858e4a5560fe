package models

import "time"

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ServingUnit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Food nutrient values are per one serving and nil when unknown.
type Food struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	Name          string            `gorm:"not null;index" json:"name"`
	Calories      *float64          `json:"calories"`
	Protein       *float64          `json:"protein"`
	Carbohydrates *float64          `json:"carbohydrates"`
	Fat           *float64          `json:"fat"`
	Fiber         *float64          `json:"fiber"`
	Sugar         *float64          `json:"sugar"`
	CategoryID    *uint             `gorm:"index" json:"category_id"`
	Category      *Category         `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	ServingUnits  []FoodServingUnit `gorm:"foreignKey:FoodID" json:"serving_units"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type FoodServingUnit struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	FoodID        uint        `gorm:"not null;uniqueIndex:uidx_food_serving_unit" json:"food_id"`
	ServingUnitID uint        `gorm:"not null;uniqueIndex:uidx_food_serving_unit" json:"serving_unit_id"`
	ServingUnit   ServingUnit `gorm:"foreignKey:ServingUnitID" json:"serving_unit"`
	Grams         float64     `gorm:"not null" json:"grams"`
}

type BuiltinServingUnit struct {
	Name string
}

func DefaultServingUnits() []BuiltinServingUnit {
	return []BuiltinServingUnit{
		{Name: "g"},
		{Name: "ml"},
		{Name: "piece"},
		{Name: "cup"},
		{Name: "tbsp"},
		{Name: "tsp"},
	}
}
