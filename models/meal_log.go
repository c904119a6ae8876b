package models

import (
    "time"

    "gorm.io/gorm"
)

// MealLog is the per-user per-day aggregate. Its four totals
// always equal SUM over its detail rows after a write completes.
type MealLog struct {
    gorm.Model
    UserID  uint      `gorm:"uniqueIndex:idx_user_log_date;not null"`
    LogDate time.Time `gorm:"uniqueIndex:idx_user_log_date;not null"` // midnight, date only
    Notes   string

    Calories float64
    Protein  float64
    Carbs    float64
    Fat      float64

    Details []MealDetail
}

// MealDetail is one logged entry. Exactly one of IngredientID or
// RecipeID is set. The four macro fields are a snapshot frozen at
// creation time and are not recomputed when the referenced
// ingredient or recipe later changes.
type MealDetail struct {
    gorm.Model
    MealLogID uint   `gorm:"index;not null"`
    MealType  string `gorm:"size:12;not null"` // breakfast|lunch|dinner|snack

    IngredientID *uint `gorm:"index"`
    RecipeID     *uint `gorm:"index"`
    ItemLabel    string

    Servings float64
    Grams    float64

    Calories float64
    Protein  float64
    Carbs    float64
    Fat      float64

    LoggedAt time.Time
}
