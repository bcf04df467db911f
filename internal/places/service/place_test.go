package service

import (
	"context"
	"io"
	"testing"

	placeserrors "dinebook/internal/places/errors"
	"dinebook/internal/places/validator"
	"dinebook/pkg/config"
	mongotx "dinebook/pkg/db/mongo"
	apperrors "dinebook/pkg/errors"
	"dinebook/pkg/logger"
	"dinebook/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockPlaceRepository struct {
	createFn       func(ctx context.Context, place *model.DiningPlace) error
	findByIDFn     func(ctx context.Context, id string) (*model.DiningPlace, error)
	findByNameFn   func(ctx context.Context, name string) (*model.DiningPlace, error)
	searchByNameFn func(ctx context.Context, substring string) ([]*model.DiningPlace, error)
}

func (m *mockPlaceRepository) Create(ctx context.Context, place *model.DiningPlace) error {
	return m.createFn(ctx, place)
}

func (m *mockPlaceRepository) FindByID(ctx context.Context, id string) (*model.DiningPlace, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockPlaceRepository) FindByName(ctx context.Context, name string) (*model.DiningPlace, error) {
	return m.findByNameFn(ctx, name)
}

func (m *mockPlaceRepository) SearchByName(ctx context.Context, substring string) ([]*model.DiningPlace, error) {
	return m.searchByNameFn(ctx, substring)
}

// ExecuteTransaction runs the callback directly; session semantics are a
// storage concern, not part of the service contract under test.
func (m *mockPlaceRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.SessionContext(nil))
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Output: io.Discard})
}

func testConfig() *config.Config {
	return &config.Config{Log: testLogger()}
}

func validPlace() *model.DiningPlace {
	return &model.DiningPlace{
		Name:    "Golden Fork",
		Address: "12 Market Street",
		PhoneNo: "+14155552671",
		Website: "https://goldenfork.example.com",
		OperationalHours: model.OperationalHours{
			OpenTime:  "09:00:00",
			CloseTime: "18:00:00",
		},
	}
}

func assertAppCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
}

func TestRegisterSucceeds(t *testing.T) {
	repo := &mockPlaceRepository{
		findByNameFn: func(ctx context.Context, name string) (*model.DiningPlace, error) {
			return nil, placeserrors.ErrNotFound
		},
		createFn: func(ctx context.Context, place *model.DiningPlace) error {
			place.ID = "65f000000000000000000001"
			return nil
		},
	}
	svc := NewPlaceService(repo, validator.NewPlaceValidator(testLogger()), nil, testConfig())

	place := validPlace()
	if err := svc.Register(context.Background(), place); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place.ID == "" {
		t.Error("expected place ID to be assigned")
	}
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	repo := &mockPlaceRepository{
		findByNameFn: func(ctx context.Context, name string) (*model.DiningPlace, error) {
			return validPlace(), nil
		},
	}
	svc := NewPlaceService(repo, validator.NewPlaceValidator(testLogger()), nil, testConfig())

	assertAppCode(t, svc.Register(context.Background(), validPlace()), apperrors.CodeDuplicateName)
}

func TestRegisterRejectsInvalidWindow(t *testing.T) {
	svc := NewPlaceService(&mockPlaceRepository{}, validator.NewPlaceValidator(testLogger()), nil, testConfig())

	place := validPlace()
	place.OperationalHours = model.OperationalHours{
		OpenTime:  "18:00:00",
		CloseTime: "09:00:00",
	}
	assertAppCode(t, svc.Register(context.Background(), place), apperrors.CodeInvalidWindow)

	place.OperationalHours = model.OperationalHours{
		OpenTime:  "09:00:00",
		CloseTime: "09:00:00",
	}
	assertAppCode(t, svc.Register(context.Background(), place), apperrors.CodeInvalidWindow)
}

func TestRegisterRejectsMalformedPlace(t *testing.T) {
	svc := NewPlaceService(&mockPlaceRepository{}, validator.NewPlaceValidator(testLogger()), nil, testConfig())

	place := validPlace()
	place.Name = ""
	assertAppCode(t, svc.Register(context.Background(), place), apperrors.CodeValidation)

	place = validPlace()
	place.OperationalHours.OpenTime = "9am"
	assertAppCode(t, svc.Register(context.Background(), place), apperrors.CodeValidation)
}

func TestGetByIDNotFound(t *testing.T) {
	repo := &mockPlaceRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.DiningPlace, error) {
			return nil, placeserrors.ErrNotFound
		},
	}
	svc := NewPlaceService(repo, validator.NewPlaceValidator(testLogger()), nil, testConfig())

	_, err := svc.GetByID(context.Background(), "65f000000000000000000099")
	assertAppCode(t, err, apperrors.CodeNotFound)
}

func TestSearchByName(t *testing.T) {
	var gotQuery string
	repo := &mockPlaceRepository{
		searchByNameFn: func(ctx context.Context, substring string) ([]*model.DiningPlace, error) {
			gotQuery = substring
			return []*model.DiningPlace{validPlace()}, nil
		},
	}
	svc := NewPlaceService(repo, validator.NewPlaceValidator(testLogger()), nil, testConfig())

	places, err := svc.SearchByName(context.Background(), "fork")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "fork" {
		t.Errorf("expected query %q, got %q", "fork", gotQuery)
	}
	if len(places) != 1 {
		t.Errorf("expected 1 result, got %d", len(places))
	}
}
