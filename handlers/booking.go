package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"deskhive/middleware"
	"deskhive/services/reservation"
)

var BookingService reservation.BookingService

type confirmRequest struct {
	BookingID   string `json:"booking_id"`
	DeskID      int    `json:"desk_id"`
	SlotID      int    `json:"slot_id"`
	BookingDate string `json:"booking_date"`
}

// ConfirmBooking promotes a live hold into a confirmed booking.
func ConfirmBooking(c *gin.Context) {
	var input confirmRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": reservation.CodeValidation, "message": "invalid input: " + err.Error()},
		})
		return
	}

	userID := middleware.UserIDFromContext(c)
	booked, err := BookingService.Confirm(c.Request.Context(), input.BookingID,
		input.DeskID, input.SlotID, input.BookingDate, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booked)
}

// CancelBooking cancels a confirmed booking owned by the caller.
func CancelBooking(c *gin.Context) {
	bookingID := c.Param("id")
	userID := middleware.UserIDFromContext(c)

	cancelled, err := BookingService.CancelBooking(c.Request.Context(), bookingID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}

// ListBookings returns the caller's booking history, newest first.
func ListBookings(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	records, err := BookingService.ListUserBookings(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": records})
}

// GetInvoice returns the invoice generated for one of the caller's
// bookings. Until the background worker has run, the invoice is not ready.
func GetInvoice(c *gin.Context) {
	bookingID := c.Param("id")
	userID := middleware.UserIDFromContext(c)

	invoice, err := BookingService.GetInvoice(c.Request.Context(), bookingID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}
