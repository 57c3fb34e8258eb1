package handlers

import (
	"errors"
	"net/http"
	"time"

	blockedRepo "glowbook/database/repository/blocked"
	bookingRepo "glowbook/database/repository/booking"
	"glowbook/models"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler manages blocked availability and surfaces conflicts. Admins
// are the only writers of manual blocks; payment-derived blocks belong to
// the reconciliation engine.
type AdminHandler struct {
	BlockedRepo blockedRepo.Repository
	BookingRepo bookingRepo.Repository
}

func NewAdminHandler(blocked blockedRepo.Repository, bookings bookingRepo.Repository) *AdminHandler {
	return &AdminHandler{
		BlockedRepo: blocked,
		BookingRepo: bookings,
	}
}

func (h *AdminHandler) BlockDate(c *gin.Context) {
	var input struct {
		Date   string `json:"date" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "date must be YYYY-MM-DD")
		return
	}

	block := &models.BlockedDate{Date: input.Date, Reason: input.Reason, CreatedAt: time.Now()}
	if err := h.BlockedRepo.CreateBlockedDate(c.Request.Context(), block); err != nil {
		if errors.Is(err, blockedRepo.ErrDateAlreadyBlocked) {
			utils.JSONError(c, http.StatusConflict, "already blocked", input.Date)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to block date", err.Error())
		return
	}
	c.JSON(http.StatusCreated, block)
}

func (h *AdminHandler) UnblockDate(c *gin.Context) {
	date := c.Param("date")
	if err := h.BlockedRepo.DeleteBlockedDate(c.Request.Context(), date); err != nil {
		if errors.Is(err, blockedRepo.ErrBlockNotFound) {
			utils.JSONError(c, http.StatusNotFound, "block not found", date)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to unblock date", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"unblocked": date})
}

func (h *AdminHandler) ListBlockedDates(c *gin.Context) {
	blocks, err := h.BlockedRepo.ListBlockedDates(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list blocked dates", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"blockedDates": blocks})
}

func (h *AdminHandler) BlockSlot(c *gin.Context) {
	var input struct {
		Date     string `json:"date" binding:"required"`
		TimeSlot string `json:"timeSlot" binding:"required"`
		Reason   string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "date must be YYYY-MM-DD")
		return
	}

	block := &models.BlockedTimeSlot{
		Date:      input.Date,
		TimeSlot:  input.TimeSlot,
		Reason:    input.Reason,
		Source:    models.BlockSourceAdmin,
		CreatedAt: time.Now(),
	}
	if err := h.BlockedRepo.CreateBlockedSlot(c.Request.Context(), block); err != nil {
		if errors.Is(err, blockedRepo.ErrSlotAlreadyBlocked) {
			utils.JSONError(c, http.StatusConflict, "already blocked", input.Date+" "+input.TimeSlot)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to block slot", err.Error())
		return
	}
	c.JSON(http.StatusCreated, block)
}

func (h *AdminHandler) UnblockSlot(c *gin.Context) {
	var input struct {
		Date     string `json:"date" binding:"required"`
		TimeSlot string `json:"timeSlot" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if err := h.BlockedRepo.DeleteBlockedSlot(c.Request.Context(), input.Date, input.TimeSlot); err != nil {
		if errors.Is(err, blockedRepo.ErrBlockNotFound) {
			utils.JSONError(c, http.StatusNotFound, "block not found", input.Date+" "+input.TimeSlot)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to unblock slot", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"unblocked": input.Date + " " + input.TimeSlot})
}

func (h *AdminHandler) ListBlockedSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "date query parameter is required")
		return
	}
	blocks, err := h.BlockedRepo.ListBlockedSlotsByDate(c.Request.Context(), date)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list blocked slots", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "blockedSlots": blocks})
}

func (h *AdminHandler) ListBookings(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "date query parameter is required")
		return
	}
	bookings, err := h.BookingRepo.ListBookingsByDate(c.Request.Context(), date)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list bookings", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "bookings": bookings})
}

// ListConflicts returns confirmed bookings whose slot was already taken by
// another confirmed booking. These need manual resolution; the captured
// payment is never silently dropped.
func (h *AdminHandler) ListConflicts(c *gin.Context) {
	conflicts, err := h.BookingRepo.ListConflicts(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list conflicts", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"conflicts": conflicts})
}
