package controllers

import (
	"net/http"

	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/services"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	Svc *services.AchievementService
}

func NewAchievementController(svc *services.AchievementService) *AchievementController {
	return &AchievementController{Svc: svc}
}

func (h *AchievementController) ListMine(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	unlocked, err := h.Svc.ListUserAchievements(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, unlocked)
}
