package services

import (
	"math"

	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/models"

	"github.com/sirupsen/logrus"
)

// Macros is one set of the four tracked fields. All service-level
// outputs are rounded to 2 decimals, half-up; that rounding is the
// authoritative final step, never an intermediate one.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// MacroItem is one (ingredient, quantity, unit) line fed to
// CalculateMacros.
type MacroItem struct {
	Ingredient models.Ingredient
	Quantity   float64
	Unit       string
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func (m Macros) rounded() Macros {
	return Macros{
		Calories: round2(m.Calories),
		Protein:  round2(m.Protein),
		Carbs:    round2(m.Carbs),
		Fat:      round2(m.Fat),
	}
}

// ServingFactor converts a quantity+unit pair into a serving-count
// multiplier relative to the ingredient's declared serving.
//
// A non-positive serving size is a data-quality problem, not a hard
// failure: the line contributes zero macros and a warning is logged.
// A unit mismatch is an error unless the caller opted into tolerant
// mode, in which case the line is skipped with factor 0.
func ServingFactor(ing models.Ingredient, quantity float64, unit string, tolerant bool) (float64, error) {
	if unit != ing.ServingUnit {
		if tolerant {
			logrus.WithFields(logrus.Fields{
				"ingredient": ing.Name,
				"want":       ing.ServingUnit,
				"got":        unit,
			}).Warn("skipping ingredient with mismatched unit")
			return 0, nil
		}
		return 0, &UnitMismatchError{Ingredient: ing.Name, Want: ing.ServingUnit, Got: unit}
	}
	if ing.ServingSize <= 0 {
		logrus.WithFields(logrus.Fields{
			"ingredient":   ing.Name,
			"serving_size": ing.ServingSize,
		}).Warn("ingredient has non-positive serving size, contributing zero")
		return 0, nil
	}
	return quantity / ing.ServingSize, nil
}

// DetailFactor resolves the multiplier for a meal-detail line, where
// the user may log either an explicit gram/ml quantity or a plain
// serving count. Grams take priority when the ingredient is measured
// by mass or volume; otherwise the serving count is used as-is
// (e.g. "3 eggs" for a unit-based ingredient). Servings default to 1.
func DetailFactor(ing models.Ingredient, servings, grams float64) float64 {
	if grams > 0 && (ing.ServingUnit == "g" || ing.ServingUnit == "ml") {
		if ing.ServingSize <= 0 {
			logrus.WithFields(logrus.Fields{
				"ingredient":   ing.Name,
				"serving_size": ing.ServingSize,
			}).Warn("ingredient has non-positive serving size, contributing zero")
			return 0
		}
		return grams / ing.ServingSize
	}
	if servings > 0 {
		return servings
	}
	return 1
}

// ScaleIngredient returns the ingredient's per-serving macros
// multiplied by factor, rounded.
func ScaleIngredient(ing models.Ingredient, factor float64) Macros {
	return Macros{
		Calories: ing.Calories * factor,
		Protein:  ing.Protein * factor,
		Carbs:    ing.Carbs * factor,
		Fat:      ing.Fat * factor,
	}.rounded()
}

// CalculateMacros totals the macro contribution of every item. With
// perServing set and servings > 0 the totals are divided by the
// serving count before rounding. Pure function, no persistence.
func CalculateMacros(items []MacroItem, servings int, perServing, ignoreUnitMismatch bool) (Macros, error) {
	var total Macros
	for _, it := range items {
		factor, err := ServingFactor(it.Ingredient, it.Quantity, it.Unit, ignoreUnitMismatch)
		if err != nil {
			return Macros{}, err
		}
		total.Calories += it.Ingredient.Calories * factor
		total.Protein += it.Ingredient.Protein * factor
		total.Carbs += it.Ingredient.Carbs * factor
		total.Fat += it.Ingredient.Fat * factor
	}

	if perServing && servings > 0 {
		n := float64(servings)
		total.Calories /= n
		total.Protein /= n
		total.Carbs /= n
		total.Fat /= n
	}

	return total.rounded(), nil
}
