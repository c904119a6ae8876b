package models

import "gorm.io/gorm"

// Recipe caches whole-recipe macro totals (not per-serving).
// The four cached fields are a derived projection over the
// ingredient links and are recomputed synchronously on every
// link mutation.
type Recipe struct {
    gorm.Model
    UserID      uint   `gorm:"index;not null"`
    Title       string `gorm:"not null"`
    Description string `gorm:"type:text"`
    Servings    int    `gorm:"not null;default:1"`
    Visibility  string `gorm:"size:10;default:'private'"` // public|private

    Calories float64
    Protein  float64
    Carbs    float64
    Fat      float64

    Ingredients []RecipeIngredient
}

// RecipeIngredient links a recipe to one ingredient with the
// quantity used. Unique per (recipe, ingredient).
type RecipeIngredient struct {
    gorm.Model
    RecipeID     uint    `gorm:"uniqueIndex:idx_recipe_ingredient;not null"`
    IngredientID uint    `gorm:"uniqueIndex:idx_recipe_ingredient;not null"`
    Quantity     float64 `gorm:"not null"` // > 0
    Unit         string  `gorm:"size:8;not null"`
    Notes        string

    Ingredient Ingredient
}
