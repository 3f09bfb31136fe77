package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"deskhive/middleware"
	"deskhive/models"
	"deskhive/services/reservation"
)

var HoldService reservation.HoldService

type holdRequest struct {
	DeskID      int    `json:"desk_id"`
	SlotID      int    `json:"slot_id"`
	BookingDate string `json:"booking_date"`
}

type releaseRequest struct {
	BookingID string `json:"booking_id"`
}

// CreateHold places a temporary exclusive hold on a slot instance.
func CreateHold(c *gin.Context) {
	var input holdRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": reservation.CodeValidation, "message": "invalid input: " + err.Error()},
		})
		return
	}

	userID := middleware.UserIDFromContext(c)
	hold, err := HoldService.CreateHold(c.Request.Context(), userID, input.DeskID, input.SlotID, input.BookingDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.HoldReceipt{
		BookingID: hold.ID,
		DeskID:    hold.DeskID,
		SlotID:    hold.SlotID,
		Date:      hold.BookingDate,
		ExpiresAt: hold.ExpiresAt,
	})
}

// ReleaseHold removes a hold. Releasing a hold that no longer exists
// succeeds, so retries are safe.
func ReleaseHold(c *gin.Context) {
	var input releaseRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": reservation.CodeValidation, "message": "invalid input: " + err.Error()},
		})
		return
	}

	userID := middleware.UserIDFromContext(c)
	if err := HoldService.ReleaseHold(c.Request.Context(), input.BookingID, userID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"released": true})
}

// HoldStatus reports whether a slot instance currently carries a live hold.
func HoldStatus(c *gin.Context) {
	deskID, err1 := strconv.Atoi(c.Param("desk_id"))
	slotID, err2 := strconv.Atoi(c.Param("slot_id"))
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": reservation.CodeValidation, "message": "desk_id and slot_id must be integers"},
		})
		return
	}
	date := c.Query("booking_date")

	status, err := HoldService.HoldStatus(c.Request.Context(), deskID, slotID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
