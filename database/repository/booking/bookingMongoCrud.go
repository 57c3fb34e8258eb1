package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"glowbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateIntent inserts a pending intent. The unique index on reference turns
// a reused reference into ErrDuplicateReference.
func (repo *MongoBookingRepo) CreateIntent(ctx context.Context, intent *models.BookingIntent) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := repo.intentColl.InsertOne(ctxWithTimeout, intent)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateReference
		}
		return fmt.Errorf("error creating booking intent: %w", err)
	}
	return nil
}

// GetIntentByReference retrieves an intent by its reference.
func (repo *MongoBookingRepo) GetIntentByReference(ctx context.Context, reference string) (*models.BookingIntent, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var intent models.BookingIntent
	err := repo.intentColl.FindOne(ctxWithTimeout, bson.M{"reference": reference}).Decode(&intent)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrIntentNotFound
		}
		return nil, fmt.Errorf("error fetching intent %s: %w", reference, err)
	}
	return &intent, nil
}

// MarkIntentFailed flips a pending intent to failed. If another reconciler
// already resolved it, the stored intent is returned untouched.
func (repo *MongoBookingRepo) MarkIntentFailed(ctx context.Context, reference, reason string) (*models.BookingIntent, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"reference": reference, "status": models.IntentPending}
	update := bson.M{"$set": bson.M{
		"status":        models.IntentFailed,
		"failureReason": reason,
		"updatedAt":     time.Now(),
	}}
	if _, err := repo.intentColl.UpdateOne(ctxWithTimeout, filter, update); err != nil {
		return nil, fmt.Errorf("error failing intent %s: %w", reference, err)
	}
	return repo.GetIntentByReference(ctx, reference)
}

// GetBookingByReference retrieves the booking materialized for a reference.
func (repo *MongoBookingRepo) GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := repo.bookingColl.FindOne(ctxWithTimeout, bson.M{"reference": reference}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("error fetching booking for %s: %w", reference, err)
	}
	return &booking, nil
}

// ListConfirmedByDate returns confirmed bookings for a calendar date.
func (repo *MongoBookingRepo) ListConfirmedByDate(ctx context.Context, date string) ([]models.Booking, error) {
	return repo.listBookings(ctx, bson.M{"date": date, "status": "confirmed"})
}

// ListBookingsByDate returns every booking for a calendar date.
func (repo *MongoBookingRepo) ListBookingsByDate(ctx context.Context, date string) ([]models.Booking, error) {
	return repo.listBookings(ctx, bson.M{"date": date})
}

// ListConflicts returns confirmed bookings awaiting manual slot resolution.
func (repo *MongoBookingRepo) ListConflicts(ctx context.Context) ([]models.Booking, error) {
	return repo.listBookings(ctx, bson.M{"conflict": true})
}

func (repo *MongoBookingRepo) listBookings(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.bookingColl.Find(ctxWithTimeout, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var bookings []models.Booking
	if err := cursor.All(ctxWithTimeout, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}
