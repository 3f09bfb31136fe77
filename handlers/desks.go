package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"deskhive/models"
	"deskhive/services/availability"
	"deskhive/services/reservation"
)

var AvailabilityEngine availability.QueryEngine

// GetDesks returns the availability snapshot for the query's filters.
// Comma-separated query params mirror the filter_update message fields.
func GetDesks(c *gin.Context) {
	filters := models.FilterCriteria{
		LocationIDs: splitCSV(c.Query("location_ids")),
		BookingDate: c.Query("booking_date"),
	}

	var err error
	if filters.DeskTypeIDs, err = splitCSVInts(c.Query("desk_type_ids")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": reservation.CodeValidation, "message": "desk_type_ids must be integers"},
		})
		return
	}
	if filters.SlotTypeIDs, err = splitCSVInts(c.Query("slot_type_ids")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": reservation.CodeValidation, "message": "slot_type_ids must be integers"},
		})
		return
	}

	snapshot, err := AvailabilityEngine.Evaluate(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": gin.H{"code": reservation.CodeTransientStore, "message": "availability lookup failed"},
		})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func splitCSVInts(s string) ([]int, error) {
	parts := splitCSV(s)
	if len(parts) == 0 {
		return nil, nil
	}
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
