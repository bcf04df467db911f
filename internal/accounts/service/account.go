package service

import (
	"context"
	"errors"

	accountserrors "dinebook/internal/accounts/errors"
	"dinebook/internal/accounts/repository"
	"dinebook/internal/accounts/validator"
	"dinebook/pkg/auth"
	"dinebook/pkg/config"
	apperrors "dinebook/pkg/errors"
	"dinebook/pkg/model"
	"dinebook/pkg/sanitizer"
)

const minPasswordLength = 8

type AccountService interface {
	Signup(ctx context.Context, username, password, email string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.User, string, error)

	// Administrative operations; the handler gates these behind the API key.
	CreateUser(ctx context.Context, username, password, role string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type accountService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	sealer    *auth.Sealer
	cfg       *config.Config
}

func NewAccountService(
	repo repository.UserRepository,
	validator *validator.UserValidator,
	sealer *auth.Sealer,
	cfg *config.Config,
) AccountService {
	return &accountService{
		repo:      repo,
		validator: validator,
		sealer:    sealer,
		cfg:       cfg,
	}
}

func (s *accountService) Signup(ctx context.Context, username, password, email string) (*model.User, error) {
	return s.create(ctx, username, password, email, model.RoleUser)
}

func (s *accountService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	username = sanitizer.TrimAndNormalize(username)

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, accountserrors.ErrNotFound) {
			// Same message for an unknown username and a wrong password so
			// the response does not leak which usernames exist.
			return nil, "", apperrors.Unauthorized("Incorrect username/password provided. Please retry")
		}
		return nil, "", apperrors.Internal("Failed to look up user", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", apperrors.Unauthorized("Incorrect username/password provided. Please retry")
	}

	token, err := s.sealer.IssueToken(user.ID, user.Role)
	if err != nil {
		return nil, "", apperrors.Internal("Failed to issue access token", err)
	}

	s.cfg.Log.Info("User logged in",
		"user_id", user.ID,
		"username", user.Username,
	)
	return user, token, nil
}

func (s *accountService) CreateUser(ctx context.Context, username, password, role string) (*model.User, error) {
	if role == "" {
		role = model.RoleUser
	}
	return s.create(ctx, username, password, "", role)
}

func (s *accountService) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list users", "error", err)
		return nil, apperrors.Internal("Failed to list users", err)
	}
	if users == nil {
		users = []*model.User{}
	}
	return users, nil
}

func (s *accountService) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, accountserrors.ErrNotFound) || errors.Is(err, accountserrors.ErrInvalidID) {
			return apperrors.NotFoundWithID("User", id)
		}
		return apperrors.Internal("Failed to delete user", err)
	}

	s.cfg.Log.Info("User deleted", "user_id", id)
	return nil
}

func (s *accountService) create(ctx context.Context, username, password, email, role string) (*model.User, error) {
	username = sanitizer.TrimAndNormalize(username)
	email = sanitizer.TrimAndNormalize(email)

	if len(password) < minPasswordLength {
		return nil, apperrors.Validation("Password is too short", map[string]any{
			"min_length": minPasswordLength,
		})
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Role:     role,
	}

	if err := s.validator.Validate(user); err != nil {
		s.cfg.Log.Warn("User validation failed",
			"username", username,
			"error", err,
		)
		return nil, apperrors.Validation("User validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}
	user.PasswordHash = hash

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, accountserrors.ErrDuplicateUsername) {
			return nil, apperrors.DuplicateName("User", username)
		}
		return nil, apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User account created",
		"user_id", user.ID,
		"username", user.Username,
		"role", user.Role,
	)
	return user, nil
}
