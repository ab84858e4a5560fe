package models

import "time"

type Meal struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index:idx_meals_user_date_time" json:"user_id"`
	DateTime  time.Time  `gorm:"not null;index:idx_meals_user_date_time" json:"date_time"`
	Notes     string     `gorm:"not null" json:"notes"`
	Foods     []MealFood `gorm:"foreignKey:MealID;constraint:OnDelete:CASCADE" json:"foods"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// MealFood is one line item of a meal. Amount multiplies the food's
// per-serving nutrients.
type MealFood struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	MealID        uint        `gorm:"not null;index" json:"meal_id"`
	FoodID        uint        `gorm:"not null;index" json:"food_id"`
	Food          Food        `gorm:"foreignKey:FoodID" json:"food"`
	ServingUnitID uint        `gorm:"not null;index" json:"serving_unit_id"`
	ServingUnit   ServingUnit `gorm:"foreignKey:ServingUnitID" json:"serving_unit"`
	Amount        float64     `gorm:"not null;default:1" json:"amount"`
}
