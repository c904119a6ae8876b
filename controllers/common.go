package controllers

import (
	"errors"
	"net/http"

	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/services"

	"github.com/gin-gonic/gin"
)

func userIDFromCtx(c *gin.Context) (uint, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// respondServiceError maps the service error taxonomy onto HTTP
// statuses: not-found → 404, validation → 422, conflict → 409,
// everything else → 500.
func respondServiceError(c *gin.Context, err error) {
	var unitErr *services.UnitMismatchError
	var exclErr *services.MutualExclusivityError
	var bioErr *services.InvalidBiometricsError

	switch {
	case errors.Is(err, services.ErrIngredientNotFound),
		errors.Is(err, services.ErrRecipeNotFound),
		errors.Is(err, services.ErrMealLogNotFound),
		errors.Is(err, services.ErrMealDetailNotFound),
		errors.Is(err, services.ErrPlanNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &unitErr),
		errors.As(err, &exclErr),
		errors.As(err, &bioErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrIngredientInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
