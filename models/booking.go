package models

import "time"

// Booking is the durable record materialized when an intent is confirmed.
type Booking struct {
	ID            string    `bson:"id" json:"id"`
	Reference     string    `bson:"reference" json:"reference"`
	Date          string    `bson:"date" json:"date"`
	TimeSlot      string    `bson:"timeSlot" json:"timeSlot"`
	Customer      Customer  `bson:"customer" json:"customer"`
	Services      []string  `bson:"services" json:"services"`
	TotalAmount   int64     `bson:"totalAmount" json:"totalAmount"`
	DepositAmount int64     `bson:"depositAmount" json:"depositAmount"`
	Currency      string    `bson:"currency" json:"currency"`
	Status        string    `bson:"status" json:"status"`
	// Conflict marks a captured payment whose slot was already taken by
	// another confirmed booking. Resolved manually by an admin.
	Conflict  bool      `bson:"conflict" json:"conflict"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
