package services

import (
	"errors"
	"fmt"
)

var (
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrMealLogNotFound    = errors.New("meal log not found")
	ErrMealDetailNotFound = errors.New("meal detail not found")
	ErrPlanNotFound       = errors.New("nutrition plan not found")
	ErrIngredientInUse    = errors.New("ingredient is referenced by recipes or meal logs")
)

// UnitMismatchError reports a quantity whose unit differs from the
// ingredient's native serving unit. Strict callers surface it as a
// validation failure; tolerant callers absorb it as a zero
// contribution.
type UnitMismatchError struct {
	Ingredient string
	Want       string
	Got        string
}

func (e *UnitMismatchError) Error() string {
	return fmt.Sprintf("unit mismatch for ingredient %s: expected %q, got %q", e.Ingredient, e.Want, e.Got)
}

// MutualExclusivityError is raised when a meal item names both an
// ingredient and a recipe, or neither. Rejected before anything is
// persisted.
type MutualExclusivityError struct {
	Index int
}

func (e *MutualExclusivityError) Error() string {
	return fmt.Sprintf("meal item %d must reference exactly one of ingredient_id or recipe_id", e.Index)
}

// InvalidBiometricsError reports non-positive age/weight/height
// supplied to the plan generator.
type InvalidBiometricsError struct {
	Field string
}

func (e *InvalidBiometricsError) Error() string {
	return fmt.Sprintf("invalid biometrics: %s must be positive", e.Field)
}
