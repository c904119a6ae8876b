package services

import (
	"errors"
	"fmt"

	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

type RecipeIngredientInput struct {
	IngredientID uint    `json:"ingredient_id" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"required,gt=0"`
	Unit         string  `json:"unit" binding:"required,oneof=g ml unit"`
	Notes        string  `json:"notes"`
}

type RecipeInput struct {
	Title       string                  `json:"title" binding:"required"`
	Description string                  `json:"description"`
	Servings    int                     `json:"servings" binding:"required,min=1"`
	Visibility  string                  `json:"visibility"`
	Ingredients []RecipeIngredientInput `json:"ingredients"`
}

// validateLinks resolves every requested ingredient and enforces the
// strict unit policy: at recipe write time a mismatched unit is a
// validation failure, not a silent skip.
func (s *RecipeService) validateLinks(tx *gorm.DB, inputs []RecipeIngredientInput) (map[uint]models.Ingredient, error) {
	resolved := make(map[uint]models.Ingredient, len(inputs))
	for _, in := range inputs {
		var ing models.Ingredient
		if err := tx.First(&ing, in.IngredientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: id %d", ErrIngredientNotFound, in.IngredientID)
			}
			return nil, err
		}
		if in.Unit != ing.ServingUnit {
			return nil, &UnitMismatchError{Ingredient: ing.Name, Want: ing.ServingUnit, Got: in.Unit}
		}
		resolved[in.IngredientID] = ing
	}
	return resolved, nil
}

func (s *RecipeService) CreateRecipe(userID uint, in RecipeInput) (*models.Recipe, error) {
	visibility := in.Visibility
	if visibility == "" {
		visibility = "private"
	}

	var created models.Recipe
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.validateLinks(tx, in.Ingredients); err != nil {
			return err
		}

		recipe := models.Recipe{
			UserID:      userID,
			Title:       in.Title,
			Description: in.Description,
			Servings:    in.Servings,
			Visibility:  visibility,
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		for _, li := range in.Ingredients {
			link := models.RecipeIngredient{
				RecipeID:     recipe.ID,
				IngredientID: li.IngredientID,
				Quantity:     li.Quantity,
				Unit:         li.Unit,
				Notes:        li.Notes,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		fresh, err := s.RecomputeMacros(tx, recipe.ID)
		if err != nil {
			return err
		}
		created = *fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(created.ID)
}

// UpdateRecipe replaces the whole ingredient list (delete + recreate,
// the same shape the meal editor uses) and recomputes the cached
// totals before the transaction commits.
func (s *RecipeService) UpdateRecipe(userID, recipeID uint, in RecipeInput) (*models.Recipe, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := lockForUpdate(tx).
			Where("id = ? AND user_id = ?", recipeID, userID).
			First(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}

		if _, err := s.validateLinks(tx, in.Ingredients); err != nil {
			return err
		}

		recipe.Title = in.Title
		recipe.Description = in.Description
		recipe.Servings = in.Servings
		if in.Visibility != "" {
			recipe.Visibility = in.Visibility
		}
		if err := tx.Save(&recipe).Error; err != nil {
			return err
		}

		if err := tx.Unscoped().
			Where("recipe_id = ?", recipe.ID).
			Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for _, li := range in.Ingredients {
			link := models.RecipeIngredient{
				RecipeID:     recipe.ID,
				IngredientID: li.IngredientID,
				Quantity:     li.Quantity,
				Unit:         li.Unit,
				Notes:        li.Notes,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		_, err := s.RecomputeMacros(tx, recipe.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(recipeID)
}

func (s *RecipeService) DeleteRecipe(userID, recipeID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Where("id = ? AND user_id = ?", recipeID, userID).
			First(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).
			Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

func (s *RecipeService) GetRecipe(recipeID uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		First(&recipe, recipeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (s *RecipeService) ListRecipes(userID uint) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		Where("user_id = ? OR visibility = ?", userID, "public").
		Order("created_at DESC").
		Find(&recipes).Error
	return recipes, err
}

// RecomputeMacros re-derives the recipe's four cached totals from its
// current ingredient links and persists them. Tolerant mode: one bad
// link never breaks the whole recipe, mismatched items contribute
// zero. A missing ingredient aborts with nothing written, leaving the
// prior cached totals untouched.
//
// Must run inside the same transaction as any link mutation; callers
// that only changed recipe-level fields may defer it to the bulk
// recompute job instead.
func (s *RecipeService) RecomputeMacros(tx *gorm.DB, recipeID uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := lockForUpdate(tx).First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	var links []models.RecipeIngredient
	if err := tx.Preload("Ingredient").
		Where("recipe_id = ?", recipe.ID).
		Find(&links).Error; err != nil {
		return nil, err
	}

	items := make([]MacroItem, 0, len(links))
	for _, link := range links {
		if link.Ingredient.ID == 0 {
			return nil, fmt.Errorf("%w: id %d", ErrIngredientNotFound, link.IngredientID)
		}
		items = append(items, MacroItem{
			Ingredient: link.Ingredient,
			Quantity:   link.Quantity,
			Unit:       link.Unit,
		})
	}

	totals, err := CalculateMacros(items, recipe.Servings, false, true)
	if err != nil {
		return nil, err
	}

	recipe.Calories = totals.Calories
	recipe.Protein = totals.Protein
	recipe.Carbs = totals.Carbs
	recipe.Fat = totals.Fat
	if err := tx.Model(&recipe).Updates(map[string]interface{}{
		"calories": totals.Calories,
		"protein":  totals.Protein,
		"carbs":    totals.Carbs,
		"fat":      totals.Fat,
	}).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// RecomputeAll walks every recipe and refreshes its cached totals.
// Used by the scheduled bulk job to repair drift from recipe-level
// edits that did not touch links.
func (s *RecipeService) RecomputeAll() error {
	var ids []uint
	if err := s.db.Model(&models.Recipe{}).Pluck("id", &ids).Error; err != nil {
		return err
	}
	for _, id := range ids {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			_, err := s.RecomputeMacros(tx, id)
			return err
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{"recipe_id": id, "error": err}).
				Warn("bulk macro recompute skipped recipe")
		}
	}
	return nil
}
