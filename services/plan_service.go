package services

import (
	"errors"
	"time"

	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/models"
	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// The rule engine uses Mifflin-St Jeor for BMR and the standard
// activity-multiplier table below. Calorie adjustment is a flat
// -500 kcal for loss and +300 kcal for gain. Protein is scaled per kg
// of body weight by training experience, fat takes 25% of target
// calories, carbs take the remainder. Fiber follows the 14 g per
// 1000 kcal guideline, water 0.033 L per kg.
var activityMultipliers = map[string]float64{
	"sedentary": 1.2,
	"light":     1.375,
	"moderate":  1.55,
	"high":      1.725,
	"athlete":   1.9,
}

var proteinPerKg = map[string]float64{
	"beginner":     1.6,
	"intermediate": 1.8,
	"advanced":     2.0,
}

const (
	lossDeficitKcal  = 500.0
	gainSurplusKcal  = 300.0
	fatCalorieShare  = 0.25
	fiberGPer1000    = 14.0
	waterLPerKg      = 0.033
	sexOffsetMale    = 5.0
	sexOffsetFemale  = -161.0
	sexOffsetNeutral = -78.0 // midpoint when sex is not on file
)

type Biometrics struct {
	Age      int
	WeightKg float64
	HeightCm float64
	Sex      string
}

type PlanTargets struct {
	BMR           float64 `json:"bmr"`
	TDEE          float64 `json:"tdee"`
	CalorieTarget float64 `json:"calorie_target"`
	ProteinG      float64 `json:"protein_g"`
	FatG          float64 `json:"fat_g"`
	CarbsG        float64 `json:"carbs_g"`
	FiberG        float64 `json:"fiber_g"`
	WaterL        float64 `json:"water_l"`
}

// ComputeTargets is the rule-based plan generator. It fails only on
// invalid biometrics; unknown mode/experience/activity values fall
// back to conservative defaults with a warning.
func ComputeTargets(bio Biometrics, mode, experience, activity string) (PlanTargets, error) {
	switch {
	case bio.Age <= 0:
		return PlanTargets{}, &InvalidBiometricsError{Field: "age"}
	case bio.WeightKg <= 0:
		return PlanTargets{}, &InvalidBiometricsError{Field: "weight"}
	case bio.HeightCm <= 0:
		return PlanTargets{}, &InvalidBiometricsError{Field: "height"}
	}

	offset := sexOffsetNeutral
	switch bio.Sex {
	case "male":
		offset = sexOffsetMale
	case "female":
		offset = sexOffsetFemale
	}
	bmr := 10*bio.WeightKg + 6.25*bio.HeightCm - 5*float64(bio.Age) + offset

	mult, ok := activityMultipliers[activity]
	if !ok {
		logrus.WithField("activity_level", activity).Warn("unknown activity level, assuming sedentary")
		mult = activityMultipliers["sedentary"]
	}
	tdee := bmr * mult

	target := tdee
	switch mode {
	case "loss":
		target = tdee - lossDeficitKcal
	case "gain":
		target = tdee + gainSurplusKcal
	case "maintenance":
	default:
		logrus.WithField("mode", mode).Warn("unknown goal mode, assuming maintenance")
	}

	perKg, ok := proteinPerKg[experience]
	if !ok {
		logrus.WithField("experience", experience).Warn("unknown experience tier, assuming beginner")
		perKg = proteinPerKg["beginner"]
	}
	proteinG := perKg * bio.WeightKg
	fatG := target * fatCalorieShare / 9
	carbKcal := target - proteinG*4 - fatG*9
	if carbKcal < 0 {
		carbKcal = 0
	}
	carbsG := carbKcal / 4

	return PlanTargets{
		BMR:           round2(bmr),
		TDEE:          round2(tdee),
		CalorieTarget: round2(target),
		ProteinG:      round2(proteinG),
		FatG:          round2(fatG),
		CarbsG:        round2(carbsG),
		FiberG:        round2(target / 1000 * fiberGPer1000),
		WaterL:        round2(bio.WeightKg * waterLPerKg),
	}, nil
}

type PlanService struct {
	db *gorm.DB
	ai *PlanAIClient
}

func NewPlanService(db *gorm.DB, ai *PlanAIClient) *PlanService {
	return &PlanService{db: db, ai: ai}
}

type GoalsInput struct {
	Mode          string  `json:"mode" binding:"required,oneof=maintenance gain loss"`
	Experience    string  `json:"experience"`
	ActivityLevel string  `json:"activity_level"`
	Age           int     `json:"age"`
	Weight        float64 `json:"weight"`
	Height        float64 `json:"height"`
}

// SaveGoals persists any supplied biometrics onto the user profile,
// generates targets (AI source falls back to the rule engine when the
// external generator is unavailable) and appends a new plan version.
func (s *PlanService) SaveGoals(userID uint, in GoalsInput, source string) (*models.NutritionPlan, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Weight > 0 {
		user.WeightKg = in.Weight
		updates["weight_kg"] = in.Weight
	}
	if in.Height > 0 {
		user.HeightCm = in.Height
		updates["height_cm"] = in.Height
	}
	if in.ActivityLevel != "" {
		user.ActivityLevel = in.ActivityLevel
		updates["activity_level"] = in.ActivityLevel
	}
	if in.Experience != "" {
		user.Experience = in.Experience
		updates["experience"] = in.Experience
	}
	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	age := in.Age
	if age <= 0 && !user.Birthday.IsZero() {
		age = utils.CalculateAge(user.Birthday)
	}
	bio := Biometrics{
		Age:      age,
		WeightKg: user.WeightKg,
		HeightCm: user.HeightCm,
		Sex:      user.Sex,
	}

	usedSource := "rule"
	var targets PlanTargets
	var err error
	if source == "ai" && s.ai != nil {
		targets, err = s.ai.GenerateTargets(bio, in.Mode, user.Experience, user.ActivityLevel)
		if err == nil {
			usedSource = "ai"
		} else {
			logrus.WithField("error", err.Error()).
				Warn("ai plan generation unavailable, falling back to rule engine")
		}
	}
	if usedSource == "rule" {
		targets, err = ComputeTargets(bio, in.Mode, user.Experience, user.ActivityLevel)
		if err != nil {
			return nil, err
		}
	}

	var plan models.NutritionPlan
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var maxVersion int
		if err := tx.Model(&models.NutritionPlan{}).
			Where("user_id = ?", userID).
			Select("COALESCE(MAX(version), 0)").
			Scan(&maxVersion).Error; err != nil {
			return err
		}

		plan = models.NutritionPlan{
			UserID:        userID,
			Version:       maxVersion + 1,
			Mode:          in.Mode,
			Experience:    user.Experience,
			ActivityLevel: user.ActivityLevel,
			Source:        usedSource,
			BMR:           targets.BMR,
			TDEE:          targets.TDEE,
			CalorieTarget: targets.CalorieTarget,
			ProteinG:      targets.ProteinG,
			FatG:          targets.FatG,
			CarbsG:        targets.CarbsG,
			FiberG:        targets.FiberG,
			WaterL:        targets.WaterL,
			EffectiveFrom: dayStart(time.Now()),
		}
		return tx.Create(&plan).Error
	})
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *PlanService) LatestPlan(userID uint) (*models.NutritionPlan, error) {
	var plan models.NutritionPlan
	err := s.db.
		Where("user_id = ?", userID).
		Order("version DESC").
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// Progress compares one day's aggregated intake against the latest
// plan targets, the baseline the dashboard draws its rings from.
func (s *PlanService) Progress(userID uint, date time.Time, meals *MealService) (map[string]interface{}, error) {
	plan, err := s.LatestPlan(userID)
	if err != nil && !errors.Is(err, ErrPlanNotFound) {
		return nil, err
	}
	if plan == nil {
		plan = &models.NutritionPlan{}
	}

	var consumed Macros
	log, err := meals.GetMealLog(userID, date)
	if err != nil && !errors.Is(err, ErrMealLogNotFound) {
		return nil, err
	}
	if log != nil {
		consumed = Macros{Calories: log.Calories, Protein: log.Protein, Carbs: log.Carbs, Fat: log.Fat}
	}

	pct := func(c, target float64) float64 {
		if target <= 0 {
			return 0
		}
		p := c / target
		if p > 1 {
			return 1
		}
		return round2(p)
	}

	return map[string]interface{}{
		"calories": map[string]float64{"consumed": consumed.Calories, "target": plan.CalorieTarget, "percent": pct(consumed.Calories, plan.CalorieTarget)},
		"protein":  map[string]float64{"consumed": consumed.Protein, "target": plan.ProteinG, "percent": pct(consumed.Protein, plan.ProteinG)},
		"carbs":    map[string]float64{"consumed": consumed.Carbs, "target": plan.CarbsG, "percent": pct(consumed.Carbs, plan.CarbsG)},
		"fat":      map[string]float64{"consumed": consumed.Fat, "target": plan.FatG, "percent": pct(consumed.Fat, plan.FatG)},
	}, nil
}
