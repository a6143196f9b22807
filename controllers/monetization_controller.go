package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"snaptika-api/services"
)

type MonetizationController struct {
	monetization *services.MonetizationService
}

func NewMonetizationController(monetization *services.MonetizationService) *MonetizationController {
	return &MonetizationController{monetization: monetization}
}

// GetEligibility reports the viewer's standing against the program thresholds.
func (mc *MonetizationController) GetEligibility(c *gin.Context) {
	userID := c.GetString("user_id")

	result, err := mc.monetization.CheckEligibility(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to check eligibility")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (mc *MonetizationController) RequestMonetization(c *gin.Context) {
	userID := c.GetString("user_id")

	request, err := mc.monetization.RequestMonetization(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to submit monetization request")
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (mc *MonetizationController) GetRevenue(c *gin.Context) {
	userID := c.GetString("user_id")

	summary, err := mc.monetization.GetRevenue(c.Request.Context(), userID, c.Query("period"))
	if err != nil {
		respondError(c, err, "Failed to fetch revenue")
		return
	}

	c.JSON(http.StatusOK, summary)
}
