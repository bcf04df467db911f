package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "dinebook/internal/bookings/errors"
	"dinebook/pkg/config"
	"dinebook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "Dining_places"
)

type mongoSlotLedgerRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

// SlotLedgerRepository reads and appends to the booked-slot sequences
// embedded in dining-place documents.
type SlotLedgerRepository interface {
	FindPlaceByID(ctx context.Context, id string) (*model.DiningPlace, error)

	// AppendSlot appends atomically on the condition that the place still
	// holds exactly expectedSlots entries; ErrConcurrentUpdate otherwise.
	AppendSlot(ctx context.Context, placeID string, slot model.Slot, expectedSlots int) error
}

func NewMongoSlotLedgerRepository(cfg *config.Config) SlotLedgerRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotLedgerRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoSlotLedgerRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoSlotLedgerRepository) FindPlaceByID(ctx context.Context, id string) (*model.DiningPlace, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var place model.DiningPlace
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&place)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", bookingserrors.ErrPlaceNotFound, id)
		}
		return nil, fmt.Errorf("failed to find dining place: %w", err)
	}

	return &place, nil
}

func (r *mongoSlotLedgerRepository) AppendSlot(ctx context.Context, placeID string, slot model.Slot, expectedSlots int) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(placeID)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, placeID)
	}

	// Guard the push on the current sequence length so the append is a
	// compare-and-append: a writer that validated against a stale snapshot
	// matches nothing and must retry from a fresh read.
	filter := bson.M{
		"_id": objectID,
		"$expr": bson.M{
			"$eq": bson.A{bson.M{"$size": "$booked_slots"}, expectedSlots},
		},
	}
	update := bson.M{
		"$push": bson.M{"booked_slots": slot},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to append booked slot: %w", err)
	}

	if result.MatchedCount == 0 {
		return bookingserrors.ErrConcurrentUpdate
	}

	return nil
}
