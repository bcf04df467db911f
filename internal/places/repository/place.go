package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	placeserrors "dinebook/internal/places/errors"
	"dinebook/pkg/config"
	mongotx "dinebook/pkg/db/mongo"
	"dinebook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "Dining_places"
)

type mongoPlaceRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type PlaceRepository interface {
	Create(ctx context.Context, place *model.DiningPlace) error
	FindByID(ctx context.Context, id string) (*model.DiningPlace, error)
	FindByName(ctx context.Context, name string) (*model.DiningPlace, error)
	SearchByName(ctx context.Context, substring string) ([]*model.DiningPlace, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoPlaceRepository(cfg *config.Config) PlaceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPlaceRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// A SessionContext cannot be wrapped without breaking transaction semantics,
// so it is returned unchanged with a no-op cancel.
func (r *mongoPlaceRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

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

func (r *mongoPlaceRepository) Create(ctx context.Context, place *model.DiningPlace) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	place.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if place.BookedSlots == nil {
		place.BookedSlots = []model.Slot{}
	}

	result, err := r.collection.InsertOne(ctx, place)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", placeserrors.ErrDuplicateName, place.Name)
		}
		return fmt.Errorf("failed to create dining place: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		place.ID = oid.Hex()
	}

	return nil
}

func (r *mongoPlaceRepository) FindByID(ctx context.Context, id string) (*model.DiningPlace, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", placeserrors.ErrInvalidID, id)
	}

	var place model.DiningPlace
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&place)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", placeserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find dining place: %w", err)
	}

	return &place, nil
}

func (r *mongoPlaceRepository) FindByName(ctx context.Context, name string) (*model.DiningPlace, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var place model.DiningPlace
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&place)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, placeserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find dining place by name: %w", err)
	}

	return &place, nil
}

func (r *mongoPlaceRepository) SearchByName(ctx context.Context, substring string) ([]*model.DiningPlace, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"name": primitive.Regex{
			Pattern: regexp.QuoteMeta(substring),
			Options: "i",
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search dining places: %w", err)
	}
	defer cursor.Close(ctx)

	var places []*model.DiningPlace
	if err = cursor.All(ctx, &places); err != nil {
		return nil, fmt.Errorf("failed to decode dining places: %w", err)
	}

	return places, nil
}

func (r *mongoPlaceRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
