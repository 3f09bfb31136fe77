package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"deskhive/services/reservation"
)

// statusForCode maps the stable reservation error codes onto HTTP statuses.
func statusForCode(code string) int {
	switch code {
	case reservation.CodeValidation:
		return http.StatusBadRequest
	case reservation.CodeHoldNotFound, reservation.CodeBookingNotFound:
		return http.StatusNotFound
	case reservation.CodeHoldExpired:
		return http.StatusGone
	case reservation.CodeHoldOwnerMismatch:
		return http.StatusForbidden
	case reservation.CodeSlotUnavailable, reservation.CodeSlotMismatch, reservation.CodeInvoiceNotReady:
		return http.StatusConflict
	case reservation.CodeTransientStore:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes the uniform error envelope. Errors without a
// known code surface as 500 with a generic message.
func respondServiceError(c *gin.Context, err error) {
	code := reservation.CodeOf(err)
	if code == "" {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "INTERNAL_ERROR", "message": "unexpected error"},
		})
		return
	}

	message := err.Error()
	var re *reservation.Error
	if errors.As(err, &re) {
		message = re.Message
	}
	c.JSON(statusForCode(code), gin.H{
		"error": gin.H{"code": code, "message": message},
	})
}
