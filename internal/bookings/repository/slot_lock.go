package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "dinebook/internal/bookings/errors"
	"dinebook/pkg/config"
	"dinebook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	LockCollectionName = "Slot_locks"
)

// SlotLockRepository manages the advisory lock documents that serialize
// booking admission per dining place. A lock is held by inserting a document
// with a fixed _id; the unique index on _id is the mutual exclusion.
type SlotLockRepository interface {
	Create(ctx context.Context, lock *model.SlotLock) error
	Delete(ctx context.Context, id string) error
}

type mongoSlotLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSlotLockRepository(cfg *config.Config) SlotLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoSlotLockRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoSlotLockRepository) Create(ctx context.Context, lock *model.SlotLock) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if lock.CreatedAt.IsZero() {
		lock.CreatedAt = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", bookingserrors.ErrLockHeld, lock.ID)
		}
		return fmt.Errorf("failed to create slot lock: %w", err)
	}

	return nil
}

func (r *mongoSlotLockRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete slot lock: %w", err)
	}

	return nil
}
