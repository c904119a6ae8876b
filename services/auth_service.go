package services

import (
	"errors"

	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/config"
	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/models"
	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/utils"

	"github.com/google/uuid"
)

func RegisterUser(email, password, firstName, lastName string) error {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		PublicID:  uuid.NewString(),
		Email:     email,
		Password:  hashedPassword,
		FirstName: firstName,
		LastName:  lastName,
		Disabled:  false,
	}

	return config.DB.Create(&user).Error
}

func AuthenticateUser(email, password string) (string, error) {
	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return "", errors.New("user not found or disabled")
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return "", errors.New("incorrect password")
	}

	return utils.GenerateJWT(user.Email)
}
