package services

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/models"
)

func ptrU(v uint) *uint       { return &v }
func ptrF(v float64) *float64 { return &v }

func logDate() time.Time {
	return time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
}

// assertTotalsMatchDetails checks the core aggregate invariant:
// the log's totals always equal SUM over its detail rows.
func assertTotalsMatchDetails(t *testing.T, svc *MealService, userID uint, date time.Time) {
	t.Helper()
	log, err := svc.GetMealLog(userID, date)
	if err != nil {
		t.Fatalf("get meal log: %v", err)
	}
	var sum Macros
	for _, d := range log.Details {
		sum.Calories += d.Calories
		sum.Protein += d.Protein
		sum.Carbs += d.Carbs
		sum.Fat += d.Fat
	}
	if math.Abs(log.Calories-round2(sum.Calories)) > 1e-9 ||
		math.Abs(log.Protein-round2(sum.Protein)) > 1e-9 ||
		math.Abs(log.Carbs-round2(sum.Carbs)) > 1e-9 ||
		math.Abs(log.Fat-round2(sum.Fat)) > 1e-9 {
		t.Errorf("totals %v/%v/%v/%v drifted from detail sums %v/%v/%v/%v",
			log.Calories, log.Protein, log.Carbs, log.Fat,
			sum.Calories, sum.Protein, sum.Carbs, sum.Fat)
	}
}

func TestAppendIngredientDetailByGrams(t *testing.T) {
	db := newTestDB(t)
	recipes := NewRecipeService(db)
	svc := NewMealService(db, recipes)
	chicken := seedChickenBreast(t, db)

	log, err := svc.AppendMealDetails(1, logDate(), "cutting week", []MealItemInput{
		{IngredientID: ptrU(chicken.ID), Grams: ptrF(250), MealType: "lunch"},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	if len(log.Details) != 1 {
		t.Fatalf("expected 1 detail, got %d", len(log.Details))
	}
	d := log.Details[0]
	if d.Calories != 412.5 || d.Protein != 77.5 || d.Fat != 9 {
		t.Errorf("snapshot = %v/%v/%v, want 412.5/77.5/9", d.Calories, d.Protein, d.Fat)
	}
	if d.ItemLabel != "Chicken Breast" {
		t.Errorf("label = %q, want resolved ingredient name", d.ItemLabel)
	}
	if log.Calories != 412.5 {
		t.Errorf("log calories = %v, want 412.5", log.Calories)
	}
	assertTotalsMatchDetails(t, svc, 1, logDate())
}

func TestAppendRecipeDetailTriggersLazyRecompute(t *testing.T) {
	db := newTestDB(t)
	recipes := NewRecipeService(db)
	svc := NewMealService(db, recipes)
	chicken := seedChickenBreast(t, db)

	// Recipe inserted with the zero sentinel: cached macros never
	// computed.
	recipe := models.Recipe{UserID: 1, Title: "Meal Prep Chicken", Servings: 2}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("seed recipe: %v", err)
	}
	link := models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: chicken.ID, Quantity: 250, Unit: "g"}
	if err := db.Create(&link).Error; err != nil {
		t.Fatalf("seed link: %v", err)
	}

	log, err := svc.AppendMealDetails(1, logDate(), "", []MealItemInput{
		{RecipeID: ptrU(recipe.ID), Servings: ptrF(1), MealType: "dinner"},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	// per-serving base: 412.5/2 = 206.25
	d := log.Details[0]
	if d.Calories != 206.25 || d.Protein != 38.75 || d.Fat != 4.5 {
		t.Errorf("snapshot = %v/%v/%v, want 206.25/38.75/4.5", d.Calories, d.Protein, d.Fat)
	}

	// the lazy recompute must have persisted the cached totals
	var fresh models.Recipe
	db.First(&fresh, recipe.ID)
	if fresh.Calories != 412.5 {
		t.Errorf("recipe cache = %v, want 412.5 after lazy recompute", fresh.Calories)
	}
	assertTotalsMatchDetails(t, svc, 1, logDate())
}

func TestAppendRejectsAmbiguousItem(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db, NewRecipeService(db))
	chicken := seedChickenBreast(t, db)

	cases := []MealItemInput{
		{IngredientID: ptrU(chicken.ID), RecipeID: ptrU(1), MealType: "snack"},
		{MealType: "snack"},
	}
	for _, in := range cases {
		_, err := svc.AppendMealDetails(1, logDate(), "", []MealItemInput{in})
		var excl *MutualExclusivityError
		if !errors.As(err, &excl) {
			t.Fatalf("expected MutualExclusivityError, got %v", err)
		}
	}

	var count int64
	db.Model(&models.MealLog{}).Count(&count)
	if count != 0 {
		t.Errorf("log created despite rejected items")
	}
}

func TestAppendIsAtomicOnUnknownReference(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db, NewRecipeService(db))
	chicken := seedChickenBreast(t, db)

	// First append succeeds and establishes a baseline.
	if _, err := svc.AppendMealDetails(1, logDate(), "", []MealItemInput{
		{IngredientID: ptrU(chicken.ID), Servings: ptrF(1), MealType: "breakfast"},
	}); err != nil {
		t.Fatalf("baseline append: %v", err)
	}

	// Second append fails on its second item: nothing from the batch
	// may stick.
	_, err := svc.AppendMealDetails(1, logDate(), "", []MealItemInput{
		{IngredientID: ptrU(chicken.ID), Servings: ptrF(2), MealType: "lunch"},
		{IngredientID: ptrU(99999), Servings: ptrF(1), MealType: "lunch"},
	})
	if !errors.Is(err, ErrIngredientNotFound) {
		t.Fatalf("expected ErrIngredientNotFound, got %v", err)
	}

	log, err := svc.GetMealLog(1, logDate())
	if err != nil {
		t.Fatalf("get meal log: %v", err)
	}
	if len(log.Details) != 1 {
		t.Errorf("detail count = %d, want 1 (failed batch must not persist)", len(log.Details))
	}
	if log.Calories != 165 {
		t.Errorf("calories = %v, want 165 (totals untouched by failed batch)", log.Calories)
	}
}

func TestMultipleAppendsAccumulate(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db, NewRecipeService(db))
	chicken := seedChickenBreast(t, db)
	egg := seedIngredient(t, db, "Egg", 1, "unit", 78, 6.3, 0.6, 5.3)

	if _, err := svc.AppendMealDetails(1, logDate(), "", []MealItemInput{
		{IngredientID: ptrU(chicken.ID), Grams: ptrF(100), MealType: "lunch"},
	}); err != nil {
		t.Fatalf("first append: %v", err)
	}
	log, err := svc.AppendMealDetails(1, logDate(), "", []MealItemInput{
		{IngredientID: ptrU(egg.ID), Servings: ptrF(3), MealType: "breakfast"},
	})
	if err != nil {
		t.Fatalf("second append: %v", err)
	}

	if len(log.Details) != 2 {
		t.Fatalf("detail count = %d, want 2", len(log.Details))
	}
	// 165 + 3*78 = 399
	if log.Calories != 399 {
		t.Errorf("calories = %v, want 399", log.Calories)
	}
	assertTotalsMatchDetails(t, svc, 1, logDate())

	var logCount int64
	db.Model(&models.MealLog{}).Where("user_id = ?", 1).Count(&logCount)
	if logCount != 1 {
		t.Errorf("log rows = %d, want a single upserted row per user+date", logCount)
	}
}

func TestUpdateMealDetailReaggregates(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db, NewRecipeService(db))
	chicken := seedChickenBreast(t, db)

	log, err := svc.AppendMealDetails(1, logDate(), "", []MealItemInput{
		{IngredientID: ptrU(chicken.ID), Grams: ptrF(100), MealType: "dinner"},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	updated, err := svc.UpdateMealDetail(1, log.Details[0].ID, UpdateMealDetailInput{
		IngredientID: chicken.ID,
		Grams:        200,
	})
	if err != nil {
		t.Fatalf("update detail: %v", err)
	}
	if updated.Calories != 330 {
		t.Errorf("updated snapshot calories = %v, want 330", updated.Calories)
	}

	fresh, _ := svc.GetMealLog(1, logDate())
	if fresh.Calories != 330 {
		t.Errorf("log calories = %v, want 330 after re-aggregation", fresh.Calories)
	}
	assertTotalsMatchDetails(t, svc, 1, logDate())
}

func TestDeleteMealDetailReaggregates(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db, NewRecipeService(db))
	chicken := seedChickenBreast(t, db)

	log, err := svc.AppendMealDetails(1, logDate(), "", []MealItemInput{
		{IngredientID: ptrU(chicken.ID), Grams: ptrF(100), MealType: "lunch"},
		{IngredientID: ptrU(chicken.ID), Grams: ptrF(50), MealType: "snack"},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := svc.DeleteMealDetail(1, log.Details[1].ID); err != nil {
		t.Fatalf("delete detail: %v", err)
	}

	fresh, _ := svc.GetMealLog(1, logDate())
	if len(fresh.Details) != 1 {
		t.Fatalf("detail count = %d, want 1", len(fresh.Details))
	}
	if fresh.Calories != 165 {
		t.Errorf("calories = %v, want 165", fresh.Calories)
	}
	assertTotalsMatchDetails(t, svc, 1, logDate())
}

func TestDeleteMealLogRemovesDetails(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db, NewRecipeService(db))
	chicken := seedChickenBreast(t, db)

	log, err := svc.AppendMealDetails(1, logDate(), "", []MealItemInput{
		{IngredientID: ptrU(chicken.ID), Grams: ptrF(100), MealType: "lunch"},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := svc.DeleteMealLog(1, log.ID); err != nil {
		t.Fatalf("delete log: %v", err)
	}
	if _, err := svc.GetMealLog(1, logDate()); !errors.Is(err, ErrMealLogNotFound) {
		t.Errorf("expected ErrMealLogNotFound after delete, got %v", err)
	}
}

func TestDeleteMealLogFreesDateForRelog(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db, NewRecipeService(db))
	chicken := seedChickenBreast(t, db)

	log, err := svc.AppendMealDetails(1, logDate(), "", []MealItemInput{
		{IngredientID: ptrU(chicken.ID), Grams: ptrF(100), MealType: "lunch"},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := svc.DeleteMealLog(1, log.ID); err != nil {
		t.Fatalf("delete log: %v", err)
	}

	// the same user+date must accept a fresh log after deletion
	relog, err := svc.AppendMealDetails(1, logDate(), "", []MealItemInput{
		{IngredientID: ptrU(chicken.ID), Grams: ptrF(50), MealType: "dinner"},
	})
	if err != nil {
		t.Fatalf("append after delete: %v", err)
	}
	if relog.ID == log.ID {
		t.Errorf("expected a new log row, old id %d reused", log.ID)
	}
	if relog.Calories != 82.5 {
		t.Errorf("calories = %v, want 82.5", relog.Calories)
	}
	assertTotalsMatchDetails(t, svc, 1, logDate())
}

func TestUpdateMealDetailRejectsUnweighableIngredient(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db, NewRecipeService(db))
	chicken := seedChickenBreast(t, db)
	egg := seedIngredient(t, db, "Egg", 1, "unit", 78, 6, 0.6, 5)

	log, err := svc.AppendMealDetails(1, logDate(), "", []MealItemInput{
		{IngredientID: ptrU(chicken.ID), Grams: ptrF(100), MealType: "lunch"},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	// a gram-quantified patch cannot target a unit-measured ingredient
	_, err = svc.UpdateMealDetail(1, log.Details[0].ID, UpdateMealDetailInput{
		IngredientID: egg.ID, Grams: 150,
	})
	var unitErr *UnitMismatchError
	if !errors.As(err, &unitErr) {
		t.Fatalf("expected UnitMismatchError, got %v", err)
	}

	// the detail and its log totals are untouched
	fresh, _ := svc.GetMealLog(1, logDate())
	if fresh.Calories != 165 {
		t.Errorf("calories = %v, want 165 after rejected update", fresh.Calories)
	}
}

func TestOwnershipEnforcedOnDetailMutation(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db, NewRecipeService(db))
	chicken := seedChickenBreast(t, db)

	log, err := svc.AppendMealDetails(1, logDate(), "", []MealItemInput{
		{IngredientID: ptrU(chicken.ID), Grams: ptrF(100), MealType: "lunch"},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	// A different user must not be able to touch user 1's detail.
	if err := svc.DeleteMealDetail(2, log.Details[0].ID); !errors.Is(err, ErrMealDetailNotFound) {
		t.Errorf("expected ErrMealDetailNotFound for foreign user, got %v", err)
	}
}
