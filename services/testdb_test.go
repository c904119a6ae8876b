package services

import (
	"fmt"
	"testing"

	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/config"
	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory database with the production
// schema. The named shared-cache DSN keeps the database alive across
// the pooled connections GORM opens.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func seedIngredient(t *testing.T, db *gorm.DB, name string, servingSize float64, unit string, cal, prot, carbs, fat float64) models.Ingredient {
	t.Helper()
	ing := models.Ingredient{
		Name:        name,
		ServingSize: servingSize,
		ServingUnit: unit,
		Calories:    cal,
		Protein:     prot,
		Carbs:       carbs,
		Fat:         fat,
	}
	if err := db.Create(&ing).Error; err != nil {
		t.Fatalf("seed ingredient %s: %v", name, err)
	}
	return ing
}

func seedChickenBreast(t *testing.T, db *gorm.DB) models.Ingredient {
	// serving: 100 g, 165 kcal, 31 g protein, 0 g carbs, 3.6 g fat
	return seedIngredient(t, db, "Chicken Breast", 100, "g", 165, 31, 0, 3.6)
}
