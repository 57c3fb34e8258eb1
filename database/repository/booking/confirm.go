package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"glowbook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConfirmIntent performs the confirm transition as one multi-document
// transaction: flip the intent out of pending, materialize the booking and
// block the slot. Nothing is visible to other reconcilers until commit, and
// a failure anywhere leaves the intent pending for a clean retry.
func (repo *MongoBookingRepo) ConfirmIntent(ctx context.Context, intent *models.BookingIntent) (*models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	session, err := repo.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("error starting mongo session: %w", err)
	}
	defer session.EndSession(ctxWithTimeout)

	result, err := session.WithTransaction(ctxWithTimeout, func(sc mongo.SessionContext) (interface{}, error) {
		now := time.Now()

		// Guard: only one reconciler may move the intent out of pending.
		res, err := repo.intentColl.UpdateOne(sc,
			bson.M{"reference": intent.Reference, "status": models.IntentPending},
			bson.M{"$set": bson.M{"status": models.IntentConfirmed, "updatedAt": now}},
		)
		if err != nil {
			return nil, fmt.Errorf("error confirming intent %s: %w", intent.Reference, err)
		}
		if res.ModifiedCount == 0 {
			return nil, ErrAlreadyResolved
		}

		// Slot exclusivity: a second captured payment for an occupied slot
		// still confirms, but flagged for manual admin resolution.
		occupied, err := repo.bookingColl.CountDocuments(sc, bson.M{
			"date":     intent.Date,
			"timeSlot": intent.TimeSlot,
			"status":   "confirmed",
			"conflict": false,
		})
		if err != nil {
			return nil, fmt.Errorf("error checking slot occupancy: %w", err)
		}

		booking := &models.Booking{
			ID:            uuid.New().String(),
			Reference:     intent.Reference,
			Date:          intent.Date,
			TimeSlot:      intent.TimeSlot,
			Customer:      intent.Customer,
			Services:      intent.Services,
			TotalAmount:   intent.TotalAmount,
			DepositAmount: intent.DepositAmount,
			Currency:      intent.Currency,
			Status:        "confirmed",
			Conflict:      occupied > 0,
			CreatedAt:     now,
		}
		if _, err := repo.bookingColl.InsertOne(sc, booking); err != nil {
			return nil, fmt.Errorf("error creating booking for %s: %w", intent.Reference, err)
		}

		// A confirmed booking always implies its slot is blocked. Upsert so
		// an admin block or an earlier conflicting booking does not abort.
		blockFilter := bson.M{"date": intent.Date, "timeSlot": intent.TimeSlot}
		blockUpdate := bson.M{"$setOnInsert": models.BlockedTimeSlot{
			Date:      intent.Date,
			TimeSlot:  intent.TimeSlot,
			Reason:    "booked",
			Source:    models.BlockSourcePayment,
			CreatedAt: now,
		}}
		opts := options.Update().SetUpsert(true)
		if _, err := repo.blockedColl.UpdateOne(sc, blockFilter, blockUpdate, opts); err != nil {
			return nil, fmt.Errorf("error blocking slot for %s: %w", intent.Reference, err)
		}

		return booking, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Booking), nil
}
