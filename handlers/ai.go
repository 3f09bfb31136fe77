package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"deskhive/models"
	"deskhive/services/intelligence"
	"deskhive/services/reservation"
)

var PlannerService intelligence.PlannerService

// GenerateDayPlan produces an AI-assisted day plan around a workspace
// location.
func GenerateDayPlan(c *gin.Context) {
	if PlannerService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": gin.H{"code": "AI_UNAVAILABLE", "message": "day plan assistant is not configured"},
		})
		return
	}

	var input models.DayPlanRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": reservation.CodeValidation, "message": "invalid input: " + err.Error()},
		})
		return
	}
	if strings.TrimSpace(input.Location) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": reservation.CodeValidation, "message": "location is required"},
		})
		return
	}

	plan, err := PlannerService.GenerateDayPlan(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": gin.H{"code": "AI_GENERATION_FAILED", "message": err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, plan)
}
