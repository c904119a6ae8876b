package services

import (
	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AchievementService struct {
	db *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{db: db}
}

func (s *AchievementService) ListUserAchievements(userID uint) ([]models.UserAchievement, error) {
	var unlocked []models.UserAchievement
	err := s.db.
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("unlocked_at ASC").
		Find(&unlocked).Error
	return unlocked, err
}

// SeedAchievements upserts the default catalog by code. Idempotent,
// runs at startup.
func SeedAchievements(db *gorm.DB) error {
	defaults := []models.Achievement{
		{
			Code:        "first_meal",
			Title:       "First Bite",
			Description: "Log your first meal.",
			Criteria:    datatypes.JSON([]byte(`{"event":"meal_logged","count":1}`)),
		},
		{
			Code:        "ten_meals",
			Title:       "Consistent Tracker",
			Description: "Log ten meals.",
			Criteria:    datatypes.JSON([]byte(`{"event":"meal_logged","count":10}`)),
		},
		{
			Code:        "first_favorite",
			Title:       "Taste Maker",
			Description: "Favorite your first recipe.",
			Criteria:    datatypes.JSON([]byte(`{"event":"recipe_favorited","count":1}`)),
		},
	}
	for _, a := range defaults {
		existing := models.Achievement{Code: a.Code}
		if err := db.Where("code = ?", a.Code).
			Attrs(models.Achievement{Title: a.Title, Description: a.Description, Criteria: a.Criteria}).
			FirstOrCreate(&existing).Error; err != nil {
			return err
		}
	}
	return nil
}
