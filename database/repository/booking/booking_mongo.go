package bookingRepo

import (
	"glowbook/database"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoBookingRepo implements Repository on MongoDB.
type MongoBookingRepo struct {
	client      *mongo.Client
	intentColl  *mongo.Collection
	bookingColl *mongo.Collection
	blockedColl *mongo.Collection
}

// NewMongoBookingRepo wires the repository to the application database.
func NewMongoBookingRepo() *MongoBookingRepo {
	db := database.GetDatabase()
	return &MongoBookingRepo{
		client:      database.MongoClient,
		intentColl:  db.Collection("intents"),
		bookingColl: db.Collection("bookings"),
		blockedColl: db.Collection("blocked_slots"),
	}
}
