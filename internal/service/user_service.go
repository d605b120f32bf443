package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"artisan-market/internal/apperr"
	"artisan-market/internal/auth"
	"artisan-market/internal/domain"
	"artisan-market/internal/repository"
	"artisan-market/internal/validation"

	"github.com/google/uuid"
)

// authFailedMessage is shared between the unknown-user and
// wrong-password paths so the two are indistinguishable to the caller.
const authFailedMessage = "incorrect username or password"

// RegistrationInput is the payload for creating an account.
type RegistrationInput struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,password"`
	Role     string `json:"role" validate:"omitempty,oneof=Admin Seller Customer"`
}

// ProfileUpdateInput carries the fields a user may change. The
// username doubles as the lookup key for the target record.
type ProfileUpdateInput struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Email    string `json:"email" validate:"required,email"`
}

// UserService defines the interface for account and credential logic
type UserService interface {
	Register(ctx context.Context, input RegistrationInput) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*auth.Token, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) (bool, error)
	UpdateProfile(ctx context.Context, input ProfileUpdateInput) (bool, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) (bool, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	hasher   auth.Hasher
	tokens   *auth.TokenService
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo repository.UserRepository, hasher auth.Hasher, tokens *auth.TokenService) UserService {
	return &userService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// Register validates the input, hashes the password and persists the
// account. Username uniqueness is the store's constraint; a duplicate
// surfaces as a conflict from the repository, not a pre-check here.
func (s *userService) Register(ctx context.Context, input RegistrationInput) (*domain.User, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := domain.RoleCustomer
	if input.Role != "" {
		role, err = domain.ParseRole(input.Role)
		if err != nil {
			return nil, apperr.InvalidArgument(err.Error())
		}
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     input.Username,
		PasswordHash: hash,
		Email:        input.Email,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, apperr.Conflict("username is already taken")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies credentials and issues a token. An unknown
// username and a wrong password produce the identical error, which
// keeps usernames unenumerable.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*auth.Token, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.Authentication(authFailedMessage)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, apperr.Authentication(authFailedMessage)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return token, nil
}

// ChangePassword re-hashes and stores a new password once the old one
// verifies. No store write happens on a failed verification.
func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, apperr.NotFound("user not found")
		}
		return false, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, oldPassword) {
		return false, apperr.Authentication("the old password is incorrect")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return false, fmt.Errorf("failed to update user: %w", err)
	}

	return true, nil
}

// UpdateProfile looks the target up by the username in the payload and
// persists the allowed field changes.
func (s *userService) UpdateProfile(ctx context.Context, input ProfileUpdateInput) (bool, error) {
	if err := validation.Struct(input); err != nil {
		return false, err
	}

	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, apperr.NotFound("user not found")
		}
		return false, fmt.Errorf("failed to find user: %w", err)
	}

	user.Email = input.Email
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return false, fmt.Errorf("failed to update user: %w", err)
	}

	return true, nil
}

// DeleteUser removes the account; true iff a record existed.
func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return true, nil
}

// GetByID is a plain lookup; absent is a nil result, not an error.
func (s *userService) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByUsername is a plain lookup; absent is a nil result, not an error.
func (s *userService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
