package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dinebook/internal/bookings/service"
	"dinebook/pkg/auth"
	"dinebook/pkg/logger"
	"dinebook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockBookingService struct {
	checkAvailabilityFn func(ctx context.Context, placeID string, start, end time.Time) (*service.Availability, error)
	bookFn              func(ctx context.Context, placeID string, start, end time.Time) (*service.Booking, error)
}

func (m *mockBookingService) CheckAvailability(ctx context.Context, placeID string, start, end time.Time) (*service.Availability, error) {
	return m.checkAvailabilityFn(ctx, placeID, start, end)
}

func (m *mockBookingService) Book(ctx context.Context, placeID string, start, end time.Time) (*service.Booking, error) {
	return m.bookFn(ctx, placeID, start, end)
}

func testRouter(t *testing.T, svc service.BookingService) (*httprouter.Router, string) {
	t.Helper()

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	sealer, err := auth.NewSealer(base64.StdEncoding.EncodeToString(key), time.Hour)
	if err != nil {
		t.Fatalf("failed to create sealer: %v", err)
	}
	token, err := sealer.IssueToken("65f000000000000000000042", "user")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	log := logger.New(logger.Config{Output: io.Discard})
	guard := auth.NewGuard(sealer, "test-api-key", log)

	router := httprouter.New()
	NewBookingHandler(svc, guard, log).RegisterRoutes(router)
	return router, token
}

func testPlace() *model.DiningPlace {
	return &model.DiningPlace{
		ID:      "65f000000000000000000001",
		Name:    "Golden Fork",
		PhoneNo: "+14155552671",
	}
}

func TestAvailabilityEndpoint(t *testing.T) {
	next := time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)
	svc := &mockBookingService{
		checkAvailabilityFn: func(ctx context.Context, placeID string, start, end time.Time) (*service.Availability, error) {
			return &service.Availability{
				Place:             testPlace(),
				Available:         false,
				NextAvailableSlot: &next,
			}, nil
		},
	}
	router, token := testRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet,
		"/api/dining-place/availability?place_id=65f000000000000000000001&start_time=2024-01-01T10:30:00Z&end_time=2024-01-01T10:45:00Z", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status            string     `json:"status"`
		StatusCode        int        `json:"status_code"`
		PlaceID           string     `json:"place_id"`
		Available         bool       `json:"available"`
		NextAvailableSlot *time.Time `json:"next_available_slot"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Available {
		t.Error("expected available=false")
	}
	if resp.NextAvailableSlot == nil || !resp.NextAvailableSlot.Equal(next) {
		t.Errorf("expected next_available_slot %v, got %v", next, resp.NextAvailableSlot)
	}
}

func TestAvailabilityRejectsWrongTimeFormat(t *testing.T) {
	svc := &mockBookingService{
		checkAvailabilityFn: func(ctx context.Context, placeID string, start, end time.Time) (*service.Availability, error) {
			t.Fatal("service must not be called with unparsed times")
			return nil, nil
		},
	}
	router, token := testRouter(t, svc)

	// Offset timestamps are not accepted on this endpoint, only the Z form.
	req := httptest.NewRequest(http.MethodGet,
		"/api/dining-place/availability?place_id=x&start_time=2024-01-01T10:30:00%2B02:00&end_time=2024-01-01T10:45:00Z", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAvailabilityRequiresSession(t *testing.T) {
	svc := &mockBookingService{}
	router, _ := testRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet,
		"/api/dining-place/availability?place_id=x&start_time=2024-01-01T10:30:00Z&end_time=2024-01-01T10:45:00Z", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBookEndpoint(t *testing.T) {
	svc := &mockBookingService{
		bookFn: func(ctx context.Context, placeID string, start, end time.Time) (*service.Booking, error) {
			return &service.Booking{
				Place: testPlace(),
				Slot:  model.Slot{StartTime: start, EndTime: end},
				Ref:   3,
			}, nil
		},
	}
	router, token := testRouter(t, svc)

	body := `{"place_id":"65f000000000000000000001","start_time":"2024-01-01T10:00:00Z","end_time":"2024-01-01T11:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/dining-place/book", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status     string `json:"status"`
		BookingRef int    `json:"booking_ref"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "Slot booked successfully" {
		t.Errorf("unexpected status: %q", resp.Status)
	}
	if resp.BookingRef != 3 {
		t.Errorf("expected booking_ref 3, got %d", resp.BookingRef)
	}
}

func TestBookRejectsMissingFields(t *testing.T) {
	svc := &mockBookingService{
		bookFn: func(ctx context.Context, placeID string, start, end time.Time) (*service.Booking, error) {
			t.Fatal("service must not be called for invalid input")
			return nil, nil
		},
	}
	router, token := testRouter(t, svc)

	for _, body := range []string{
		`{}`,
		`{"place_id":"x"}`,
		`{"place_id":"x","start_time":"2024-01-01T10:00:00Z"}`,
		`{"place_id":"x","start_time":"not-a-time","end_time":"2024-01-01T11:00:00Z"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/dining-place/book", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}
