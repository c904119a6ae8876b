package services

import (
	"errors"
	"math"
	"testing"

	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/models"
)

func chickenBreast() models.Ingredient {
	return models.Ingredient{
		Name:        "Chicken Breast",
		ServingSize: 100,
		ServingUnit: "g",
		Calories:    165,
		Protein:     31,
		Carbs:       0,
		Fat:         3.6,
	}
}

func TestServingFactorSameUnit(t *testing.T) {
	factor, err := ServingFactor(chickenBreast(), 250, "g", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if factor != 2.5 {
		t.Errorf("factor = %v, want 2.5", factor)
	}
}

func TestServingFactorMismatchStrict(t *testing.T) {
	_, err := ServingFactor(chickenBreast(), 2, "unit", false)
	var mismatch *UnitMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected UnitMismatchError, got %v", err)
	}
	if mismatch.Want != "g" || mismatch.Got != "unit" {
		t.Errorf("mismatch fields = %q/%q, want g/unit", mismatch.Want, mismatch.Got)
	}
}

func TestServingFactorMismatchTolerant(t *testing.T) {
	factor, err := ServingFactor(chickenBreast(), 2, "unit", true)
	if err != nil {
		t.Fatalf("tolerant mode must not error, got %v", err)
	}
	if factor != 0 {
		t.Errorf("factor = %v, want 0", factor)
	}
}

func TestServingFactorInvalidServingSize(t *testing.T) {
	ing := chickenBreast()
	ing.ServingSize = 0
	factor, err := ServingFactor(ing, 100, "g", false)
	if err != nil {
		t.Fatalf("invalid serving size must not error, got %v", err)
	}
	if factor != 0 {
		t.Errorf("factor = %v, want 0", factor)
	}
}

func TestDetailFactorGramsPriority(t *testing.T) {
	// grams beat servings for mass-measured ingredients
	if f := DetailFactor(chickenBreast(), 2, 150); f != 1.5 {
		t.Errorf("factor = %v, want 1.5", f)
	}

	// unit-based ingredient ignores grams, uses the count as-is
	egg := models.Ingredient{Name: "Egg", ServingSize: 1, ServingUnit: "unit", Calories: 78}
	if f := DetailFactor(egg, 3, 150); f != 3 {
		t.Errorf("factor = %v, want 3", f)
	}

	// neither supplied defaults to one serving
	if f := DetailFactor(egg, 0, 0); f != 1 {
		t.Errorf("factor = %v, want 1", f)
	}
}

func TestCalculateMacrosGolden(t *testing.T) {
	items := []MacroItem{{Ingredient: chickenBreast(), Quantity: 250, Unit: "g"}}

	total, err := CalculateMacros(items, 2, false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Macros{Calories: 412.5, Protein: 77.5, Carbs: 0, Fat: 9}
	if total != want {
		t.Errorf("whole-recipe totals = %+v, want %+v", total, want)
	}

	perServing, err := CalculateMacros(items, 2, true, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantPer := Macros{Calories: 206.25, Protein: 38.75, Carbs: 0, Fat: 4.5}
	if perServing != wantPer {
		t.Errorf("per-serving totals = %+v, want %+v", perServing, wantPer)
	}
}

func TestCalculateMacrosRoundingHalfUp(t *testing.T) {
	// 0.5 serving of 1.25 kcal = 0.625, rounds half-up to 0.63
	ing := models.Ingredient{Name: "Pinch", ServingSize: 2, ServingUnit: "g", Calories: 1.25}
	total, err := CalculateMacros([]MacroItem{{Ingredient: ing, Quantity: 1, Unit: "g"}}, 1, false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total.Calories != 0.63 {
		t.Errorf("calories = %v, want 0.63", total.Calories)
	}
}

func TestCalculateMacrosMismatchPolicy(t *testing.T) {
	matched := []MacroItem{{Ingredient: chickenBreast(), Quantity: 100, Unit: "g"}}
	mixed := append(matched, MacroItem{Ingredient: chickenBreast(), Quantity: 100, Unit: "ml"})

	if _, err := CalculateMacros(mixed, 1, false, false); err == nil {
		t.Fatal("strict mode must reject the mismatched item")
	}

	tolerant, err := CalculateMacros(mixed, 1, false, true)
	if err != nil {
		t.Fatalf("tolerant mode must not error, got %v", err)
	}
	asMatched, _ := CalculateMacros(append(matched, MacroItem{Ingredient: chickenBreast(), Quantity: 100, Unit: "g"}), 1, false, false)
	if tolerant.Calories > asMatched.Calories {
		t.Errorf("tolerant total %v must not exceed matched total %v", tolerant.Calories, asMatched.Calories)
	}

	base, _ := CalculateMacros(matched, 1, false, false)
	if tolerant != base {
		t.Errorf("tolerant total = %+v, want the matched-only total %+v", tolerant, base)
	}
}

func TestCalculateMacrosPerServingScaling(t *testing.T) {
	items := []MacroItem{
		{Ingredient: chickenBreast(), Quantity: 333, Unit: "g"},
		{Ingredient: models.Ingredient{Name: "Rice", ServingSize: 50, ServingUnit: "g", Calories: 180, Protein: 3.5, Carbs: 39.1, Fat: 0.4}, Quantity: 170, Unit: "g"},
	}
	for _, servings := range []int{1, 2, 3, 7} {
		whole, err := CalculateMacros(items, servings, false, false)
		if err != nil {
			t.Fatalf("servings=%d: %v", servings, err)
		}
		per, err := CalculateMacros(items, servings, true, false)
		if err != nil {
			t.Fatalf("servings=%d: %v", servings, err)
		}
		n := float64(servings)
		for name, pair := range map[string][2]float64{
			"calories": {whole.Calories, per.Calories * n},
			"protein":  {whole.Protein, per.Protein * n},
			"carbs":    {whole.Carbs, per.Carbs * n},
			"fat":      {whole.Fat, per.Fat * n},
		} {
			if math.Abs(pair[0]-pair[1]) > 0.02*n {
				t.Errorf("servings=%d %s: whole %v vs per-serving*n %v", servings, name, pair[0], pair[1])
			}
		}
	}
}

func TestCalculateMacrosIdempotent(t *testing.T) {
	items := []MacroItem{{Ingredient: chickenBreast(), Quantity: 123.45, Unit: "g"}}
	first, _ := CalculateMacros(items, 3, true, false)
	second, _ := CalculateMacros(items, 3, true, false)
	if first != second {
		t.Errorf("same inputs produced %+v then %+v", first, second)
	}
}
