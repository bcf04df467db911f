package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dinebook/internal/bookings/service"
	"dinebook/pkg/auth"
	apperrors "dinebook/pkg/errors"
	httputil "dinebook/pkg/http"
	"dinebook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

// queryTimeLayout is the exact format availability query parameters must use.
const queryTimeLayout = "2006-01-02T15:04:05Z"

type BookingHandler struct {
	service service.BookingService
	guard   *auth.Guard
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, guard *auth.Guard, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

type availabilityResponse struct {
	httputil.Envelope
	PlaceID           string     `json:"place_id"`
	Name              string     `json:"name"`
	PhoneNo           string     `json:"phone_no"`
	Available         bool       `json:"available"`
	NextAvailableSlot *time.Time `json:"next_available_slot,omitempty"`
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	placeID := query.Get("place_id")
	if placeID == "" {
		h.writeError(w, "Availability", apperrors.InvalidInput("place_id query parameter is required"))
		return
	}

	start, err := parseQueryTime(query.Get("start_time"), "start_time")
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}
	end, err := parseQueryTime(query.Get("end_time"), "end_time")
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	result, err := h.service.CheckAvailability(r.Context(), placeID, start, end)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	status := "Slot is available"
	if !result.Available {
		status = "Slot is not available"
	}

	if err := httputil.WriteJSON(w, http.StatusOK, availabilityResponse{
		Envelope:          httputil.OK(status),
		PlaceID:           result.Place.ID,
		Name:              result.Place.Name,
		PhoneNo:           result.Place.PhoneNo,
		Available:         result.Available,
		NextAvailableSlot: result.NextAvailableSlot,
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Availability", "error", err)
	}
}

type bookSlotRequest struct {
	PlaceID   string `json:"place_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type bookSlotResponse struct {
	httputil.Envelope
	PlaceID    string    `json:"place_id"`
	BookingRef int       `json:"booking_ref"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req bookSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Book", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if req.PlaceID == "" {
		h.writeError(w, "Book", apperrors.InvalidInput("place_id is required"))
		return
	}

	start, err := parseBodyTime(req.StartTime, "start_time")
	if err != nil {
		h.writeError(w, "Book", err)
		return
	}
	end, err := parseBodyTime(req.EndTime, "end_time")
	if err != nil {
		h.writeError(w, "Book", err)
		return
	}

	booking, err := h.service.Book(r.Context(), req.PlaceID, start, end)
	if err != nil {
		h.writeError(w, "Book", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, bookSlotResponse{
		Envelope:   httputil.OK("Slot booked successfully"),
		PlaceID:    booking.Place.ID,
		BookingRef: booking.Ref,
		StartTime:  booking.Slot.StartTime,
		EndTime:    booking.Slot.EndTime,
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Book", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/dining-place/availability", h.guard.RequireSession(h.Availability))
	router.POST("/api/dining-place/book", h.guard.RequireSession(h.Book))
}

func (h *BookingHandler) writeError(w http.ResponseWriter, op string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "error", writeErr)
	}
}

func parseQueryTime(raw, field string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, apperrors.InvalidInput(fmt.Sprintf("%s query parameter is required", field))
	}
	t, err := time.Parse(queryTimeLayout, raw)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput(fmt.Sprintf("%s must use format %s", field, queryTimeLayout))
	}
	return t, nil
}

func parseBodyTime(raw, field string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, apperrors.InvalidInput(fmt.Sprintf("%s is required", field))
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput(fmt.Sprintf("%s must be a valid RFC3339 timestamp", field))
	}
	return t.UTC(), nil
}
