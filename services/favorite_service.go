package services

import (
	"errors"

	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/models"

	"gorm.io/gorm"
)

type FavoriteService struct {
	db *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// ToggleFavorite adds or removes the (user, recipe) favorite and
// reports the resulting state. A new favorite feeds the achievement
// checks.
func (s *FavoriteService) ToggleFavorite(userID, recipeID uint) (bool, error) {
	var recipe models.Recipe
	if err := s.db.First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrRecipeNotFound
		}
		return false, err
	}

	var fav models.Favorite
	err := s.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&fav).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		fav = models.Favorite{UserID: userID, RecipeID: recipeID}
		if err := s.db.Create(&fav).Error; err != nil {
			return false, err
		}
		EmitRecipeFavorited(userID)
		return true, nil
	case err != nil:
		return false, err
	default:
		// hard delete, the unique (user, recipe) index must accept a
		// later re-favorite
		if err := s.db.Unscoped().Delete(&fav).Error; err != nil {
			return true, err
		}
		return false, nil
	}
}

func (s *FavoriteService) ListFavorites(userID uint) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.
		Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
		Where("favorites.user_id = ?", userID).
		Preload("Ingredients.Ingredient").
		Find(&recipes).Error
	return recipes, err
}

// Vote upserts the user's 1-5 score and returns the recipe's new
// average.
func (s *FavoriteService) Vote(userID, recipeID uint, score int) (float64, error) {
	var recipe models.Recipe
	if err := s.db.First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrRecipeNotFound
		}
		return 0, err
	}

	vote := models.RecipeVote{UserID: userID, RecipeID: recipeID, Score: score}
	err := s.db.
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Assign(models.RecipeVote{Score: score}).
		FirstOrCreate(&vote).Error
	if err != nil {
		return 0, err
	}

	var avg float64
	err = s.db.Model(&models.RecipeVote{}).
		Where("recipe_id = ?", recipeID).
		Select("COALESCE(AVG(score), 0)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	return round2(avg), nil
}
