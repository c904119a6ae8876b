package models

import (
    "time"

    "gorm.io/gorm"
)

// NutritionPlan is an append-only, versioned snapshot of computed
// targets. Saving goals always inserts a new row with version =
// previous max + 1; existing rows are never mutated.
type NutritionPlan struct {
    gorm.Model
    UserID        uint   `gorm:"uniqueIndex:idx_user_plan_version;not null"`
    Version       int    `gorm:"uniqueIndex:idx_user_plan_version;not null"`
    Mode          string `gorm:"size:12;not null"` // maintenance|gain|loss
    Experience    string `gorm:"size:20"`
    ActivityLevel string `gorm:"size:20"`
    Source        string `gorm:"size:8;default:'rule'"` // rule|ai

    BMR           float64
    TDEE          float64
    CalorieTarget float64
    ProteinG      float64
    FatG          float64
    CarbsG        float64
    FiberG        float64
    WaterL        float64

    EffectiveFrom time.Time
}
