package models

import "gorm.io/gorm"

// Ingredient declares its macros against a reference serving
// (e.g. 100 g). ServingUnit is one of "g", "ml" or "unit".
// Rows referenced by recipe links or meal details are never
// deleted; edits only affect computations from that point on.
type Ingredient struct {
    gorm.Model
    Name        string  `gorm:"not null;index"`
    ServingSize float64 `gorm:"not null"` // > 0
    ServingUnit string  `gorm:"size:8;not null"`
    Calories    float64 // per serving
    Protein     float64
    Carbs       float64
    Fat         float64
    Verified    bool
    CreatedBy   uint `gorm:"index"`
}
