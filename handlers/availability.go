package handlers

import (
	"net/http"

	"glowbook/services/booking"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AvailabilityHandler serves the open slots for the booking form.
type AvailabilityHandler struct {
	Engine booking.AvailabilityEngine
}

func NewAvailabilityHandler(engine booking.AvailabilityEngine) *AvailabilityHandler {
	return &AvailabilityHandler{Engine: engine}
}

// GetAvailableSlots returns the bookable slots for a date. When availability
// is unknown the response carries an empty slot list, never the full
// template.
func (h *AvailabilityHandler) GetAvailableSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "date query parameter is required")
		return
	}

	slots, err := h.Engine.AvailableSlots(c.Request.Context(), date)
	if err != nil {
		if booking.IsValidationError(err) {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}
		getLogger(c).Warn("availability unknown", zap.String("date", date), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"date": date, "slots": []string{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": date, "slots": slots})
}
