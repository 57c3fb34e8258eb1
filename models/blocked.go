package models

import "time"

// Block sources: who created a BlockedTimeSlot.
const (
	BlockSourceAdmin   = "admin"
	BlockSourcePayment = "payment"
)

// BlockedDate takes a whole calendar day out of the bookable template.
type BlockedDate struct {
	Date      string    `bson:"date" json:"date"` // "2006-01-02", unique
	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// BlockedTimeSlot removes a single (date, timeSlot) pair from availability.
// Created by admins, or by the reconciliation engine when a booking confirms.
type BlockedTimeSlot struct {
	Date      string    `bson:"date" json:"date"`
	TimeSlot  string    `bson:"timeSlot" json:"timeSlot"`
	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"`
	Source    string    `bson:"source" json:"source"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
