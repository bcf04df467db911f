package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"testing"
	"time"

	accountserrors "dinebook/internal/accounts/errors"
	"dinebook/internal/accounts/validator"
	"dinebook/pkg/auth"
	"dinebook/pkg/config"
	apperrors "dinebook/pkg/errors"
	"dinebook/pkg/logger"
	"dinebook/pkg/model"
)

type mockUserRepository struct {
	createFn         func(ctx context.Context, user *model.User) error
	findByIDFn       func(ctx context.Context, id string) (*model.User, error)
	findByUsernameFn func(ctx context.Context, username string) (*model.User, error)
	findAllFn        func(ctx context.Context) ([]*model.User, error)
	deleteFn         func(ctx context.Context, id string) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	return m.createFn(ctx, user)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.findByUsernameFn(ctx, username)
}

func (m *mockUserRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	return m.findAllFn(ctx)
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Output: io.Discard})
}

func testSealer(t *testing.T) *auth.Sealer {
	t.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	sealer, err := auth.NewSealer(base64.StdEncoding.EncodeToString(key), time.Hour)
	if err != nil {
		t.Fatalf("failed to create sealer: %v", err)
	}
	return sealer
}

func newTestService(t *testing.T, repo *mockUserRepository) AccountService {
	t.Helper()
	return NewAccountService(
		repo,
		validator.NewUserValidator(testLogger()),
		testSealer(t),
		&config.Config{Log: testLogger()},
	)
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

func TestSignupSucceeds(t *testing.T) {
	var created *model.User
	repo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			user.ID = "65f000000000000000000001"
			created = user
			return nil
		},
	}
	svc := newTestService(t, repo)

	user, err := svc.Signup(context.Background(), "alice", "correct-horse-battery", "alice@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != model.RoleUser {
		t.Errorf("expected role %q, got %q", model.RoleUser, user.Role)
	}
	if created.PasswordHash == "" || created.PasswordHash == "correct-horse-battery" {
		t.Error("expected password to be stored hashed")
	}
	if !auth.CheckPassword(created.PasswordHash, "correct-horse-battery") {
		t.Error("stored hash does not verify against the original password")
	}
}

func TestSignupRejectsDuplicateUsername(t *testing.T) {
	repo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			return accountserrors.ErrDuplicateUsername
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.Signup(context.Background(), "alice", "correct-horse-battery", "")
	assertAppCode(t, err, apperrors.CodeDuplicateName)
}

func TestSignupRejectsShortPassword(t *testing.T) {
	svc := newTestService(t, &mockUserRepository{})

	_, err := svc.Signup(context.Background(), "alice", "short", "")
	assertAppCode(t, err, apperrors.CodeValidation)
}

func TestLoginIssuesToken(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	repo := &mockUserRepository{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{
				ID:           "65f000000000000000000001",
				Username:     username,
				PasswordHash: hash,
				Role:         model.RoleAdmin,
			}, nil
		},
	}
	sealer := testSealer(t)
	svc := NewAccountService(repo, validator.NewUserValidator(testLogger()), sealer, &config.Config{Log: testLogger()})

	user, token, err := svc.Login(context.Background(), "alice", "correct-horse-battery")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty access token")
	}

	identity, err := sealer.ParseToken(token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if identity.UserID != user.ID || identity.Role != model.RoleAdmin {
		t.Errorf("token identity mismatch: %+v", identity)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	repo := &mockUserRepository{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: "65f000000000000000000001", Username: username, PasswordHash: hash, Role: model.RoleUser}, nil
		},
	}
	svc := newTestService(t, repo)

	_, _, err = svc.Login(context.Background(), "alice", "wrong-password")
	assertAppCode(t, err, apperrors.CodeUnauthorized)
}

func TestLoginUnknownUser(t *testing.T) {
	repo := &mockUserRepository{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return nil, accountserrors.ErrNotFound
		},
	}
	svc := newTestService(t, repo)

	_, _, err := svc.Login(context.Background(), "nobody", "whatever-password")
	assertAppCode(t, err, apperrors.CodeUnauthorized)
}

func TestCreateUserDefaultsRole(t *testing.T) {
	var created *model.User
	repo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			user.ID = "65f000000000000000000002"
			created = user
			return nil
		},
	}
	svc := newTestService(t, repo)

	if _, err := svc.CreateUser(context.Background(), "bob", "correct-horse-battery", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Role != model.RoleUser {
		t.Errorf("expected default role %q, got %q", model.RoleUser, created.Role)
	}

	if _, err := svc.CreateUser(context.Background(), "carol", "correct-horse-battery", model.RoleAdmin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Role != model.RoleAdmin {
		t.Errorf("expected role %q, got %q", model.RoleAdmin, created.Role)
	}
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc := newTestService(t, &mockUserRepository{})

	_, err := svc.CreateUser(context.Background(), "mallory", "correct-horse-battery", "superuser")
	assertAppCode(t, err, apperrors.CodeValidation)
}

func TestDeleteUserNotFound(t *testing.T) {
	repo := &mockUserRepository{
		deleteFn: func(ctx context.Context, id string) error {
			return accountserrors.ErrNotFound
		},
	}
	svc := newTestService(t, repo)

	assertAppCode(t, svc.DeleteUser(context.Background(), "65f000000000000000000099"), apperrors.CodeNotFound)
}

func TestListUsersEmpty(t *testing.T) {
	repo := &mockUserRepository{
		findAllFn: func(ctx context.Context) ([]*model.User, error) {
			return nil, nil
		},
	}
	svc := newTestService(t, repo)

	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users == nil {
		t.Error("expected an empty slice, got nil")
	}
}
