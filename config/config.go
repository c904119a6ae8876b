package config

import (
	"fmt"
	"os"

	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/models"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("no .env file found, using process environment")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		logrus.Fatalf("AutoMigrate failed: %v", err)
	}
}

// Migrate is split out so the test database can run the same schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.MealLog{},
		&models.MealDetail{},
		&models.NutritionPlan{},
		&models.Favorite{},
		&models.RecipeVote{},
		&models.Achievement{},
		&models.UserAchievement{},
	)
}
