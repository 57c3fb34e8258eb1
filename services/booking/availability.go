package booking

import (
	"context"
	"fmt"
	"time"

	blockedRepo "glowbook/database/repository/blocked"
	bookingRepo "glowbook/database/repository/booking"
)

// DefaultAvailabilityEngine computes bookable slots from the fixed daily
// template minus blocked dates, blocked slots and confirmed bookings. It is
// a pure function of current store state: no caching, since staleness here
// directly causes double-booking.
type DefaultAvailabilityEngine struct {
	BookingRepo bookingRepo.Repository
	BlockedRepo blockedRepo.Repository

	// Daily template bounds, minutes from midnight.
	OpenMinute  int
	CloseMinute int
	Interval    int
}

// SlotLabel renders minutes from midnight as the customer-facing label,
// e.g. 840 -> "2:00 PM".
func SlotLabel(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, suffix)
}

// Template returns the full daily slot sequence in order.
func (e *DefaultAvailabilityEngine) Template() []string {
	interval := e.Interval
	if interval <= 0 {
		interval = 60
	}
	var slots []string
	for minute := e.OpenMinute; minute < e.CloseMinute; minute += interval {
		slots = append(slots, SlotLabel(minute))
	}
	return slots
}

// InTemplate reports whether a slot label belongs to the daily template.
func (e *DefaultAvailabilityEngine) InTemplate(timeSlot string) bool {
	for _, slot := range e.Template() {
		if slot == timeSlot {
			return true
		}
	}
	return false
}

// AvailableSlots returns the bookable slots for a date in template order.
// Any store failure fails closed: the caller gets an empty sequence and an
// error, never the full template.
func (e *DefaultAvailabilityEngine) AvailableSlots(ctx context.Context, date string) ([]string, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return []string{}, NewValidationError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date))
	}

	dateBlocked, err := e.BlockedRepo.IsDateBlocked(ctx, date)
	if err != nil {
		return []string{}, NewStoreUnavailableError(fmt.Sprintf("availability unknown for %s: %v", date, err))
	}
	if dateBlocked {
		return []string{}, nil
	}

	taken := make(map[string]bool)

	blockedSlots, err := e.BlockedRepo.ListBlockedSlotsByDate(ctx, date)
	if err != nil {
		return []string{}, NewStoreUnavailableError(fmt.Sprintf("availability unknown for %s: %v", date, err))
	}
	for _, block := range blockedSlots {
		taken[block.TimeSlot] = true
	}

	confirmed, err := e.BookingRepo.ListConfirmedByDate(ctx, date)
	if err != nil {
		return []string{}, NewStoreUnavailableError(fmt.Sprintf("availability unknown for %s: %v", date, err))
	}
	for _, b := range confirmed {
		taken[b.TimeSlot] = true
	}

	available := []string{}
	for _, slot := range e.Template() {
		if !taken[slot] {
			available = append(available, slot)
		}
	}
	return available, nil
}
