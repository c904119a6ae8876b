package controllers

import (
	"net/http"
	"time"

	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/services"

	"github.com/gin-gonic/gin"
)

type PlanController struct {
	Svc   *services.PlanService
	Meals *services.MealService
}

func NewPlanController(svc *services.PlanService, meals *services.MealService) *PlanController {
	return &PlanController{Svc: svc, Meals: meals}
}

// SaveGoals computes and persists a new plan version. ?source=ai asks
// the external generator first; the rule engine is the guaranteed
// fallback either way.
func (h *PlanController) SaveGoals(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var in services.GoalsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	source := c.DefaultQuery("source", "rule")
	if source != "rule" && source != "ai" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source must be 'rule' or 'ai'"})
		return
	}

	plan, err := h.Svc.SaveGoals(userID, in, source)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *PlanController) Latest(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	plan, err := h.Svc.LatestPlan(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *PlanController) Progress(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	dateStr := c.DefaultQuery("date", time.Now().UTC().Format("2006-01-02"))
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, use YYYY-MM-DD"})
		return
	}

	progress, err := h.Svc.Progress(userID, date, h.Meals)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": dateStr, "progress": progress})
}
