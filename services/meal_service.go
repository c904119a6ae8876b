package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/models"

	"gorm.io/gorm"
)

type MealService struct {
	db      *gorm.DB
	recipes *RecipeService
}

func NewMealService(db *gorm.DB, recipes *RecipeService) *MealService {
	return &MealService{db: db, recipes: recipes}
}

// MealItemInput is one line of a meal-log append. Exactly one of
// IngredientID or RecipeID must be set.
type MealItemInput struct {
	IngredientID *uint      `json:"ingredient_id"`
	RecipeID     *uint      `json:"recipe_id"`
	Servings     *float64   `json:"servings"`
	Grams        *float64   `json:"grams"`
	MealType     string     `json:"meal_type" binding:"required,oneof=breakfast lunch dinner snack"`
	LoggedAt     *time.Time `json:"logged_at"`
}

type mealRefKind int

const (
	refIngredient mealRefKind = iota
	refRecipe
)

// mealItemRef is the resolved ingredient-XOR-recipe reference.
type mealItemRef struct {
	kind mealRefKind
	id   uint
}

func resolveItemRef(index int, in MealItemInput) (mealItemRef, error) {
	switch {
	case in.IngredientID != nil && in.RecipeID != nil:
		return mealItemRef{}, &MutualExclusivityError{Index: index}
	case in.IngredientID != nil:
		return mealItemRef{kind: refIngredient, id: *in.IngredientID}, nil
	case in.RecipeID != nil:
		return mealItemRef{kind: refRecipe, id: *in.RecipeID}, nil
	default:
		return mealItemRef{}, &MutualExclusivityError{Index: index}
	}
}

// AppendMealDetails inserts the given items under the (user, date)
// meal log, creating the log on first use. The whole append is one
// transaction: a failure resolving any item leaves no detail rows and
// no total mutation behind. After all inserts the log's totals are
// re-derived as SUM over every detail row, which self-heals any drift
// left by earlier partial failures.
func (s *MealService) AppendMealDetails(userID uint, logDate time.Time, notes string, items []MealItemInput) (*models.MealLog, error) {
	// Validate references before touching the store.
	refs := make([]mealItemRef, len(items))
	for i, in := range items {
		ref, err := resolveItemRef(i, in)
		if err != nil {
			return nil, err
		}
		refs[i] = ref
	}

	date := dayStart(logDate.UTC())
	var logID uint

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var log models.MealLog
		err := lockForUpdate(tx).
			Where("user_id = ? AND log_date = ?", userID, date).
			First(&log).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			log = models.MealLog{UserID: userID, LogDate: date, Notes: notes}
			if err := tx.Create(&log).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			// Existing log: only replace notes when the caller sent some.
			if notes != "" && notes != log.Notes {
				log.Notes = notes
				if err := tx.Model(&log).Update("notes", notes).Error; err != nil {
					return err
				}
			}
		}
		logID = log.ID

		for i, in := range items {
			detail, err := s.buildDetail(tx, log.ID, refs[i], in)
			if err != nil {
				return err
			}
			if err := tx.Create(detail).Error; err != nil {
				return err
			}
		}

		return s.recomputeLogTotals(tx, log.ID)
	})
	if err != nil {
		return nil, err
	}

	// Achievement checks are best-effort and never fail the append.
	EmitMealLogged(userID)

	return s.getLogByID(logID)
}

// buildDetail resolves one item reference and freezes its macro
// snapshot.
func (s *MealService) buildDetail(tx *gorm.DB, logID uint, ref mealItemRef, in MealItemInput) (*models.MealDetail, error) {
	servings := 0.0
	if in.Servings != nil {
		servings = *in.Servings
	}
	grams := 0.0
	if in.Grams != nil {
		grams = *in.Grams
	}
	loggedAt := time.Now()
	if in.LoggedAt != nil {
		loggedAt = *in.LoggedAt
	}

	detail := &models.MealDetail{
		MealLogID: logID,
		MealType:  in.MealType,
		Servings:  servings,
		Grams:     grams,
		LoggedAt:  loggedAt,
	}

	switch ref.kind {
	case refIngredient:
		var ing models.Ingredient
		if err := tx.First(&ing, ref.id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: id %d", ErrIngredientNotFound, ref.id)
			}
			return nil, err
		}
		factor := DetailFactor(ing, servings, grams)
		line := ScaleIngredient(ing, factor)
		id := ing.ID
		detail.IngredientID = &id
		detail.ItemLabel = ing.Name
		detail.Calories = line.Calories
		detail.Protein = line.Protein
		detail.Carbs = line.Carbs
		detail.Fat = line.Fat
		if detail.Servings == 0 && grams == 0 {
			detail.Servings = 1
		}

	case refRecipe:
		var recipe models.Recipe
		if err := tx.First(&recipe, ref.id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: id %d", ErrRecipeNotFound, ref.id)
			}
			return nil, err
		}
		// Zero sentinel: cached macros were never computed for this
		// recipe, refresh them before snapshotting.
		if recipe.Calories == 0 && recipe.Protein == 0 && recipe.Carbs == 0 && recipe.Fat == 0 {
			fresh, err := s.recipes.RecomputeMacros(tx, recipe.ID)
			if err != nil {
				return nil, err
			}
			recipe = *fresh
		}

		base := Macros{
			Calories: recipe.Calories,
			Protein:  recipe.Protein,
			Carbs:    recipe.Carbs,
			Fat:      recipe.Fat,
		}
		if recipe.Servings > 0 {
			n := float64(recipe.Servings)
			base.Calories /= n
			base.Protein /= n
			base.Carbs /= n
			base.Fat /= n
		}

		reqServings := servings
		if reqServings <= 0 {
			reqServings = 1
		}
		id := recipe.ID
		detail.RecipeID = &id
		detail.ItemLabel = recipe.Title
		detail.Servings = reqServings
		detail.Grams = 0
		detail.Calories = round2(base.Calories * reqServings)
		detail.Protein = round2(base.Protein * reqServings)
		detail.Carbs = round2(base.Carbs * reqServings)
		detail.Fat = round2(base.Fat * reqServings)
	}

	return detail, nil
}

// recomputeLogTotals re-derives the parent log's four totals as a full
// aggregation over its detail rows. Always a fresh SUM, never an
// incremental add, so totals stay consistent with the details across
// every mutation path.
func (s *MealService) recomputeLogTotals(tx *gorm.DB, logID uint) error {
	var sums struct {
		Calories float64
		Protein  float64
		Carbs    float64
		Fat      float64
	}
	err := tx.Model(&models.MealDetail{}).
		Select("COALESCE(SUM(calories),0) AS calories, COALESCE(SUM(protein),0) AS protein, COALESCE(SUM(carbs),0) AS carbs, COALESCE(SUM(fat),0) AS fat").
		Where("meal_log_id = ?", logID).
		Scan(&sums).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.MealLog{}).
		Where("id = ?", logID).
		Updates(map[string]interface{}{
			"calories": round2(sums.Calories),
			"protein":  round2(sums.Protein),
			"carbs":    round2(sums.Carbs),
			"fat":      round2(sums.Fat),
		}).Error
}

type UpdateMealDetailInput struct {
	IngredientID uint    `json:"ingredient_id" binding:"required"`
	Grams        float64 `json:"grams" binding:"required,gt=0"`
}

// UpdateMealDetail repoints a detail row at an ingredient with a new
// gram quantity, refreezes its snapshot and re-aggregates the parent
// log.
func (s *MealService) UpdateMealDetail(userID, detailID uint, in UpdateMealDetailInput) (*models.MealDetail, error) {
	var updated models.MealDetail
	err := s.db.Transaction(func(tx *gorm.DB) error {
		detail, log, err := s.ownedDetail(tx, userID, detailID)
		if err != nil {
			return err
		}

		var ing models.Ingredient
		if err := tx.First(&ing, in.IngredientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", ErrIngredientNotFound, in.IngredientID)
			}
			return err
		}

		// the patch is gram-quantified, so the target ingredient must
		// be weighable
		if ing.ServingUnit != "g" && ing.ServingUnit != "ml" {
			return &UnitMismatchError{Ingredient: ing.Name, Want: ing.ServingUnit, Got: "g"}
		}

		line := ScaleIngredient(ing, DetailFactor(ing, 0, in.Grams))

		id := ing.ID
		detail.IngredientID = &id
		detail.RecipeID = nil
		detail.ItemLabel = ing.Name
		detail.Servings = 0
		detail.Grams = in.Grams
		detail.Calories = line.Calories
		detail.Protein = line.Protein
		detail.Carbs = line.Carbs
		detail.Fat = line.Fat
		if err := tx.Save(detail).Error; err != nil {
			return err
		}
		updated = *detail

		return s.recomputeLogTotals(tx, log.ID)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *MealService) DeleteMealDetail(userID, detailID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		detail, log, err := s.ownedDetail(tx, userID, detailID)
		if err != nil {
			return err
		}
		if err := tx.Delete(detail).Error; err != nil {
			return err
		}
		return s.recomputeLogTotals(tx, log.ID)
	})
}

func (s *MealService) DeleteMealLog(userID, logID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var log models.MealLog
		if err := lockForUpdate(tx).
			Where("id = ? AND user_id = ?", logID, userID).
			First(&log).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMealLogNotFound
			}
			return err
		}
		// hard delete so the (user_id, log_date) slot frees up for a
		// later append on the same day
		if err := tx.Unscoped().Where("meal_log_id = ?", log.ID).
			Delete(&models.MealDetail{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&log).Error
	})
}

func (s *MealService) ownedDetail(tx *gorm.DB, userID, detailID uint) (*models.MealDetail, *models.MealLog, error) {
	var detail models.MealDetail
	if err := tx.First(&detail, detailID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrMealDetailNotFound
		}
		return nil, nil, err
	}
	var log models.MealLog
	if err := lockForUpdate(tx).
		Where("id = ? AND user_id = ?", detail.MealLogID, userID).
		First(&log).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrMealDetailNotFound
		}
		return nil, nil, err
	}
	return &detail, &log, nil
}

func (s *MealService) GetMealLog(userID uint, date time.Time) (*models.MealLog, error) {
	var log models.MealLog
	err := s.db.
		Preload("Details").
		Where("user_id = ? AND log_date = ?", userID, dayStart(date.UTC())).
		First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMealLogNotFound
		}
		return nil, err
	}
	return &log, nil
}

func (s *MealService) getLogByID(logID uint) (*models.MealLog, error) {
	var log models.MealLog
	if err := s.db.Preload("Details").First(&log, logID).Error; err != nil {
		return nil, err
	}
	return &log, nil
}
