package services

import (
	"errors"

	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/models"

	"gorm.io/gorm"
)

type IngredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

type IngredientInput struct {
	Name        string  `json:"name" binding:"required"`
	ServingSize float64 `json:"serving_size" binding:"required,gt=0"`
	ServingUnit string  `json:"serving_unit" binding:"required,oneof=g ml unit"`
	Calories    float64 `json:"calories" binding:"gte=0"`
	Protein     float64 `json:"protein" binding:"gte=0"`
	Carbs       float64 `json:"carbs" binding:"gte=0"`
	Fat         float64 `json:"fat" binding:"gte=0"`
}

func (s *IngredientService) Create(userID uint, in IngredientInput) (*models.Ingredient, error) {
	ing := models.Ingredient{
		Name:        in.Name,
		ServingSize: in.ServingSize,
		ServingUnit: in.ServingUnit,
		Calories:    in.Calories,
		Protein:     in.Protein,
		Carbs:       in.Carbs,
		Fat:         in.Fat,
		CreatedBy:   userID,
	}
	if err := s.db.Create(&ing).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

// Update edits the catalog row in place. Historical meal details keep
// their frozen snapshots; only future computations see the change.
func (s *IngredientService) Update(ingredientID uint, in IngredientInput) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := s.db.First(&ing, ingredientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	ing.Name = in.Name
	ing.ServingSize = in.ServingSize
	ing.ServingUnit = in.ServingUnit
	ing.Calories = in.Calories
	ing.Protein = in.Protein
	ing.Carbs = in.Carbs
	ing.Fat = in.Fat
	if err := s.db.Save(&ing).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

// Delete is restricted: an ingredient referenced by recipe links or
// meal details stays.
func (s *IngredientService) Delete(ingredientID uint) error {
	var ing models.Ingredient
	if err := s.db.First(&ing, ingredientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIngredientNotFound
		}
		return err
	}

	var refs int64
	if err := s.db.Model(&models.RecipeIngredient{}).
		Where("ingredient_id = ?", ingredientID).
		Count(&refs).Error; err != nil {
		return err
	}
	if refs == 0 {
		if err := s.db.Model(&models.MealDetail{}).
			Where("ingredient_id = ?", ingredientID).
			Count(&refs).Error; err != nil {
			return err
		}
	}
	if refs > 0 {
		return ErrIngredientInUse
	}
	return s.db.Delete(&ing).Error
}

func (s *IngredientService) Get(ingredientID uint) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := s.db.First(&ing, ingredientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	return &ing, nil
}

func (s *IngredientService) Search(query string, limit int) ([]models.Ingredient, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	q := s.db.Order("verified DESC, name ASC").Limit(limit)
	if query != "" {
		q = q.Where("name LIKE ?", "%"+query+"%")
	}
	var out []models.Ingredient
	err := q.Find(&out).Error
	return out, err
}
