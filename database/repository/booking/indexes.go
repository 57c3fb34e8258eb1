package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes backing the reconciliation guarantees.
func (repo *MongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	intentIndexes := []mongo.IndexModel{
		// One intent per reference, ever.
		{
			Keys:    bson.D{{Key: "reference", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_reference"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("status_created_idx"),
		},
	}
	if _, err := repo.intentColl.Indexes().CreateMany(ctx, intentIndexes); err != nil {
		return fmt.Errorf("failed to create intent indexes: %w", err)
	}

	bookingIndexes := []mongo.IndexModel{
		// At most one booking per reference.
		{
			Keys:    bson.D{{Key: "reference", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_booking_reference"),
		},
		// Backstop for the critical section under multi-process deployment:
		// only one confirmed non-conflict booking may hold a slot.
		{
			Keys: bson.D{{Key: "date", Value: 1}, {Key: "timeSlot", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("unique_confirmed_slot").
				SetPartialFilterExpression(bson.M{"status": "confirmed", "conflict": false}),
		},
		{
			Keys:    bson.D{{Key: "date", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("date_status_idx"),
		},
	}
	if _, err := repo.bookingColl.Indexes().CreateMany(ctx, bookingIndexes); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	return nil
}
