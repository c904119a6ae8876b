package services

import (
	"errors"
	"time"

	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/config"
	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/models"
	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/utils"
)

type ProfileInput struct {
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Birthday      string  `json:"birthday"` // YYYY-MM-DD
	Sex           string  `json:"sex"`
	Height        float64 `json:"height"`
	Weight        float64 `json:"weight"`
	ActivityLevel string  `json:"activity_level"`
	Experience    string  `json:"experience"`
	Onboarded     bool    `json:"onboarded"`
}

func GetUserProfile(email string) (map[string]interface{}, error) {
	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return nil, errors.New("user not found or disabled")
	}

	age := 0
	if !user.Birthday.IsZero() {
		age = utils.CalculateAge(user.Birthday)
	}

	out := map[string]interface{}{
		"id":             user.ID,
		"public_id":      user.PublicID,
		"email":          user.Email,
		"first_name":     user.FirstName,
		"last_name":      user.LastName,
		"birthday":       user.Birthday.Format("2006-01-02"),
		"age":            age,
		"sex":            user.Sex,
		"height_cm":      user.HeightCm,
		"weight_kg":      user.WeightKg,
		"activity_level": user.ActivityLevel,
		"experience":     user.Experience,
		"onboarded":      user.Onboarded,
	}

	if bmi, err := utils.CalculateBMI(user.HeightCm, user.WeightKg); err == nil {
		out["bmi"] = round2(bmi)
		out["bmi_category"] = utils.BMICategory(bmi)
	}

	return out, nil
}

func UpdateUserProfile(email string, input ProfileInput) error {
	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return errors.New("user not found or disabled")
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Birthday != "" {
		if birthday, err := time.Parse("2006-01-02", input.Birthday); err == nil {
			user.Birthday = birthday
		}
	}
	if input.Sex == "male" || input.Sex == "female" {
		user.Sex = input.Sex
	}
	if input.Height > 0 {
		user.HeightCm = input.Height
	}
	if input.Weight > 0 {
		user.WeightKg = input.Weight
	}
	if input.ActivityLevel != "" {
		user.ActivityLevel = input.ActivityLevel
	}
	if input.Experience != "" {
		user.Experience = input.Experience
	}
	if input.Onboarded {
		user.Onboarded = true
	}

	return config.DB.Save(&user).Error
}
