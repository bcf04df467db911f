package service

import (
	"context"
	"errors"
	"time"

	bookingserrors "dinebook/internal/bookings/errors"
	"dinebook/internal/bookings/repository"
	"dinebook/pkg/config"
	apperrors "dinebook/pkg/errors"
	"dinebook/pkg/kafka"
	"dinebook/pkg/model"
)

// Availability is the answer to "is [start, end) free at this place".
// NextAvailableSlot is set only when the window collides with a committed
// slot whose end still leaves room before closing.
type Availability struct {
	Place             *model.DiningPlace
	Available         bool
	NextAvailableSlot *time.Time
}

// Booking is a confirmed admission. Ref is the slot's position in the
// place's append-only ledger.
type Booking struct {
	Place *model.DiningPlace
	Slot  model.Slot
	Ref   int
}

type BookingService interface {
	CheckAvailability(ctx context.Context, placeID string, start, end time.Time) (*Availability, error)
	Book(ctx context.Context, placeID string, start, end time.Time) (*Booking, error)
}

type bookingService struct {
	ledger   repository.SlotLedgerRepository
	locks    repository.SlotLockRepository
	producer *kafka.Producer
	cfg      *config.Config
}

// NewBookingService builds the slot admission engine. producer may be nil
// when event publishing is disabled.
func NewBookingService(
	ledger repository.SlotLedgerRepository,
	locks repository.SlotLockRepository,
	producer *kafka.Producer,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		ledger:   ledger,
		locks:    locks,
		producer: producer,
		cfg:      cfg,
	}
}

func (s *bookingService) CheckAvailability(ctx context.Context, placeID string, start, end time.Time) (*Availability, error) {
	if !start.Before(end) {
		return nil, apperrors.InvalidRange("start_time must be strictly before end_time")
	}

	place, err := s.findPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}

	admits, err := place.OperationalHours.Admits(start, end)
	if err != nil {
		return nil, apperrors.Internal("Stored operational hours are malformed", err)
	}
	if !admits {
		return nil, apperrors.OutsideHours()
	}

	result := &Availability{Place: place, Available: true}

	// First overlap in insertion order decides the answer. The colliding
	// slot's end is only a usable suggestion when the requested window ends
	// at or before it; otherwise the caller's window already extends past the
	// obstruction and there is nothing sensible to suggest.
	for _, slot := range place.BookedSlots {
		if slot.Overlaps(start, end) {
			result.Available = false
			if !end.After(slot.EndTime) {
				next := slot.EndTime
				result.NextAvailableSlot = &next
			}
			break
		}
	}

	s.cfg.Log.Debug("Availability checked",
		"place_id", placeID,
		"available", result.Available,
	)
	return result, nil
}

func (s *bookingService) Book(ctx context.Context, placeID string, start, end time.Time) (*Booking, error) {
	if !start.Before(end) {
		return nil, apperrors.InvalidRange("start_time must be strictly before end_time")
	}

	// Serialize admission per place so two requests for the same window
	// cannot both pass the overlap scan. The TTL index on the lock
	// collection reclaims locks abandoned by a crashed process.
	lock := &model.SlotLock{
		ID:        "slot_lock_" + placeID,
		ExpiresAt: time.Now().UTC().Add(s.cfg.SlotLockTTL),
	}
	if err := s.locks.Create(ctx, lock); err != nil {
		if errors.Is(err, bookingserrors.ErrLockHeld) {
			return nil, apperrors.Conflict("This time slot is currently being booked by another request, please retry")
		}
		return nil, apperrors.Internal("Failed to acquire booking lock", err)
	}
	defer func() {
		if err := s.locks.Delete(context.WithoutCancel(ctx), lock.ID); err != nil {
			s.cfg.Log.Warn("Failed to release booking lock",
				"lock_id", lock.ID,
				"error", err,
			)
		}
	}()

	place, err := s.findPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}

	admits, err := place.OperationalHours.Admits(start, end)
	if err != nil {
		return nil, apperrors.Internal("Stored operational hours are malformed", err)
	}
	if !admits {
		return nil, apperrors.OutsideHours()
	}

	for _, slot := range place.BookedSlots {
		if slot.Overlaps(start, end) {
			return nil, apperrors.SlotUnavailable()
		}
	}

	newSlot := model.Slot{
		StartTime: start,
		EndTime:   end,
		BookedAt:  time.Now().UTC(),
	}

	if err := s.ledger.AppendSlot(ctx, placeID, newSlot, len(place.BookedSlots)); err != nil {
		if errors.Is(err, bookingserrors.ErrConcurrentUpdate) {
			return nil, apperrors.Conflict("Booking state changed concurrently, please retry")
		}
		return nil, apperrors.Internal("Failed to record booking", err)
	}

	booking := &Booking{
		Place: place,
		Slot:  newSlot,
		Ref:   len(place.BookedSlots),
	}

	s.publishConfirmed(ctx, place, booking)

	s.cfg.Log.Info("Slot booked successfully",
		"place_id", placeID,
		"booking_ref", booking.Ref,
		"start_time", start,
		"end_time", end,
	)
	return booking, nil
}

func (s *bookingService) findPlace(ctx context.Context, placeID string) (*model.DiningPlace, error) {
	if placeID == "" {
		return nil, apperrors.InvalidInput("Dining place ID cannot be empty")
	}

	place, err := s.ledger.FindPlaceByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrPlaceNotFound) || errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Dining place", placeID)
		}
		return nil, apperrors.Internal("Failed to retrieve dining place", err)
	}
	return place, nil
}

type bookingConfirmedEvent struct {
	PlaceID    string    `json:"place_id"`
	PlaceName  string    `json:"place_name"`
	BookingRef int       `json:"booking_ref"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

// publishConfirmed emits a booking.confirmed event. Best effort: the slot is
// already committed, so a broker failure is logged and swallowed.
func (s *bookingService) publishConfirmed(ctx context.Context, place *model.DiningPlace, booking *Booking) {
	if s.producer == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(place.ID).
		WithEventType("booking.confirmed").
		WithSource("dinebook").
		WithValue(bookingConfirmedEvent{
			PlaceID:    place.ID,
			PlaceName:  place.Name,
			BookingRef: booking.Ref,
			StartTime:  booking.Slot.StartTime,
			EndTime:    booking.Slot.EndTime,
		}).
		Build()

	if err := s.producer.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish booking.confirmed event",
			"place_id", place.ID,
			"error", err,
		)
	}
}
