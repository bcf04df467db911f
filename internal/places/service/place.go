package service

import (
	"context"
	"errors"
	"fmt"

	placeserrors "dinebook/internal/places/errors"
	"dinebook/internal/places/repository"
	"dinebook/internal/places/validator"
	"dinebook/pkg/config"
	apperrors "dinebook/pkg/errors"
	"dinebook/pkg/kafka"
	"dinebook/pkg/model"
	"dinebook/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type PlaceService interface {
	Register(ctx context.Context, place *model.DiningPlace) error
	GetByID(ctx context.Context, id string) (*model.DiningPlace, error)
	SearchByName(ctx context.Context, substring string) ([]*model.DiningPlace, error)
}

type placeService struct {
	repo      repository.PlaceRepository
	validator *validator.PlaceValidator
	producer  *kafka.Producer
	cfg       *config.Config
}

// NewPlaceService builds the dining-place registry. producer may be nil when
// event publishing is disabled.
func NewPlaceService(
	repo repository.PlaceRepository,
	validator *validator.PlaceValidator,
	producer *kafka.Producer,
	cfg *config.Config,
) PlaceService {
	return &placeService{
		repo:      repo,
		validator: validator,
		producer:  producer,
		cfg:       cfg,
	}
}

func (s *placeService) Register(ctx context.Context, place *model.DiningPlace) error {
	s.sanitize(place)

	if err := s.validator.Validate(place); err != nil {
		s.cfg.Log.Warn("Dining place validation failed",
			"name", place.Name,
			"error", err,
		)
		return apperrors.Validation("Dining place validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	open, close, err := place.OperationalHours.Window()
	if err != nil {
		return apperrors.InvalidWindow(err.Error())
	}
	if !open.Before(close) {
		return apperrors.InvalidWindow(fmt.Sprintf(
			"open_time (%s) must be before close_time (%s)",
			place.OperationalHours.OpenTime,
			place.OperationalHours.CloseTime,
		))
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		_, err := s.repo.FindByName(sessCtx, place.Name)
		if err == nil {
			return apperrors.DuplicateName("Dining place", place.Name)
		}
		if !errors.Is(err, placeserrors.ErrNotFound) {
			return apperrors.Internal("Failed to check for duplicate name", err)
		}

		if err := s.repo.Create(sessCtx, place); err != nil {
			if errors.Is(err, placeserrors.ErrDuplicateName) {
				return apperrors.DuplicateName("Dining place", place.Name)
			}
			return apperrors.Internal("Failed to create dining place", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to register dining place",
			"name", place.Name,
			"error", err,
		)
		return err
	}

	s.publishRegistered(ctx, place)

	s.cfg.Log.Info("Dining place registered successfully",
		"place_id", place.ID,
		"name", place.Name,
	)
	return nil
}

func (s *placeService) GetByID(ctx context.Context, id string) (*model.DiningPlace, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Dining place ID cannot be empty")
	}

	place, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, placeserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Dining place", id)
		}
		if errors.Is(err, placeserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Dining place", id)
		}
		return nil, apperrors.Internal("Failed to retrieve dining place", err)
	}

	return place, nil
}

func (s *placeService) SearchByName(ctx context.Context, substring string) ([]*model.DiningPlace, error) {
	places, err := s.repo.SearchByName(ctx, substring)
	if err != nil {
		s.cfg.Log.Error("Failed to search dining places",
			"query", substring,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to search dining places", err)
	}

	s.cfg.Log.Debug("Dining place search completed",
		"query", substring,
		"count", len(places),
	)
	return places, nil
}

// --- Helpers ---

func (s *placeService) sanitize(place *model.DiningPlace) {
	place.Name = sanitizer.NormalizeName(place.Name)
	place.Address = sanitizer.NormalizeAddress(place.Address)
	if normalized := sanitizer.NormalizePhone(place.PhoneNo); normalized != "" {
		place.PhoneNo = normalized
	}
	place.Website = sanitizer.NormalizeURL(place.Website)
}

type placeRegisteredEvent struct {
	PlaceID   string `json:"place_id"`
	Name      string `json:"name"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

// publishRegistered emits a place.registered event. Publishing is best
// effort: the registration has already committed, so a broker failure is
// logged and swallowed.
func (s *placeService) publishRegistered(ctx context.Context, place *model.DiningPlace) {
	if s.producer == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(place.ID).
		WithEventType("place.registered").
		WithSource("dinebook").
		WithValue(placeRegisteredEvent{
			PlaceID:   place.ID,
			Name:      place.Name,
			OpenTime:  place.OperationalHours.OpenTime,
			CloseTime: place.OperationalHours.CloseTime,
		}).
		Build()

	if err := s.producer.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish place.registered event",
			"place_id", place.ID,
			"error", err,
		)
	}
}
