package blockedRepo

import (
	"context"
	"fmt"
	"time"

	"glowbook/database"
	"glowbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBlockedRepo implements Repository on MongoDB.
type MongoBlockedRepo struct {
	dateColl *mongo.Collection
	slotColl *mongo.Collection
}

func NewMongoBlockedRepo() *MongoBlockedRepo {
	db := database.GetDatabase()
	return &MongoBlockedRepo{
		dateColl: db.Collection("blocked_dates"),
		slotColl: db.Collection("blocked_slots"),
	}
}

func (repo *MongoBlockedRepo) CreateBlockedDate(ctx context.Context, block *models.BlockedDate) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := repo.dateColl.InsertOne(ctxWithTimeout, block)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDateAlreadyBlocked
		}
		return fmt.Errorf("error blocking date %s: %w", block.Date, err)
	}
	return nil
}

func (repo *MongoBlockedRepo) DeleteBlockedDate(ctx context.Context, date string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.dateColl.DeleteOne(ctxWithTimeout, bson.M{"date": date})
	if err != nil {
		return fmt.Errorf("error unblocking date %s: %w", date, err)
	}
	if res.DeletedCount == 0 {
		return ErrBlockNotFound
	}
	return nil
}

func (repo *MongoBlockedRepo) ListBlockedDates(ctx context.Context) ([]models.BlockedDate, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.dateColl.Find(ctxWithTimeout, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error listing blocked dates: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var blocks []models.BlockedDate
	if err := cursor.All(ctxWithTimeout, &blocks); err != nil {
		return nil, fmt.Errorf("error decoding blocked dates: %w", err)
	}
	return blocks, nil
}

func (repo *MongoBlockedRepo) IsDateBlocked(ctx context.Context, date string) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := repo.dateColl.CountDocuments(ctxWithTimeout, bson.M{"date": date})
	if err != nil {
		return false, fmt.Errorf("error checking blocked date %s: %w", date, err)
	}
	return count > 0, nil
}

func (repo *MongoBlockedRepo) CreateBlockedSlot(ctx context.Context, block *models.BlockedTimeSlot) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := repo.slotColl.InsertOne(ctxWithTimeout, block)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotAlreadyBlocked
		}
		return fmt.Errorf("error blocking slot %s %s: %w", block.Date, block.TimeSlot, err)
	}
	return nil
}

func (repo *MongoBlockedRepo) DeleteBlockedSlot(ctx context.Context, date, timeSlot string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.slotColl.DeleteOne(ctxWithTimeout, bson.M{"date": date, "timeSlot": timeSlot})
	if err != nil {
		return fmt.Errorf("error unblocking slot %s %s: %w", date, timeSlot, err)
	}
	if res.DeletedCount == 0 {
		return ErrBlockNotFound
	}
	return nil
}

func (repo *MongoBlockedRepo) ListBlockedSlotsByDate(ctx context.Context, date string) ([]models.BlockedTimeSlot, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.slotColl.Find(ctxWithTimeout, bson.M{"date": date})
	if err != nil {
		return nil, fmt.Errorf("error listing blocked slots for %s: %w", date, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var blocks []models.BlockedTimeSlot
	if err := cursor.All(ctxWithTimeout, &blocks); err != nil {
		return nil, fmt.Errorf("error decoding blocked slots: %w", err)
	}
	return blocks, nil
}

// EnsureIndexes creates the uniqueness constraints on blocks.
func (repo *MongoBlockedRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := repo.dateColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_blocked_date"),
	})
	if err != nil {
		return fmt.Errorf("failed to create blocked date index: %w", err)
	}

	_, err = repo.slotColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: 1}, {Key: "timeSlot", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_blocked_slot"),
	})
	if err != nil {
		return fmt.Errorf("failed to create blocked slot index: %w", err)
	}
	return nil
}
