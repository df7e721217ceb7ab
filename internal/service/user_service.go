package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"accountsvc/internal/auth"
	"accountsvc/internal/errors"
	"accountsvc/internal/model"
	"accountsvc/internal/repository"
)

// RegisterInput carries the validated registration fields.
type RegisterInput struct {
	Email       string
	Firstname   string
	Lastname    string
	Phonenumber string
	Password    string
}

// UserPatch is a partial update; nil fields are left untouched.
type UserPatch struct {
	Email       *string
	Firstname   *string
	Lastname    *string
	Phonenumber *string
	Password    *string
}

// UserService handles account registration, authentication and
// ownership-gated CRUD on user records.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
	Get(ctx context.Context, authHeader string, id uuid.UUID) (*model.User, error)
	Update(ctx context.Context, authHeader string, id uuid.UUID, patch UserPatch) (*model.User, error)
	Delete(ctx context.Context, authHeader string, id uuid.UUID) error
}

type userService struct {
	repo      repository.UserRepository
	hasher    *auth.PasswordHasher
	tokens    *auth.JWTService
	validator *AccessValidator
}

// NewUserService creates a new user service.
func NewUserService(repo repository.UserRepository, hasher *auth.PasswordHasher, tokens *auth.JWTService, validator *AccessValidator) UserService {
	return &userService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		validator: validator,
	}
}

// Register hashes the password and persists a new user. Duplicate emails are
// caught by the store's unique index, never by a pre-check.
func (s *userService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        input.Email,
		Firstname:    input.Firstname,
		Lastname:     input.Lastname,
		Phonenumber:  input.Phonenumber,
		PasswordHash: digest,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues both tokens. Unknown email and wrong
// password map to the same error so responses do not leak account existence.
func (s *userService) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", "", errors.ErrInvalidCredentials
		}
		return "", "", fmt.Errorf("find user by email: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", "", errors.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.Email)
	if err != nil {
		return "", "", fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(user.Email)
	if err != nil {
		return "", "", fmt.Errorf("generate refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

// Refresh exchanges a valid refresh token for a fresh access token.
// No rotation and no server-side token state.
func (s *userService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", errors.ErrInvalidRefreshToken
	}

	accessToken, err := s.tokens.GenerateAccessToken(claims.Email)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}

	return accessToken, nil
}

// Get returns the target user after the ownership check.
func (s *userService) Get(ctx context.Context, authHeader string, id uuid.UUID) (*model.User, error) {
	return s.validator.Validate(ctx, authHeader, id)
}

// Update applies a partial field set to the target user after the ownership
// check. Password updates are re-hashed; an empty patch is rejected.
func (s *userService) Update(ctx context.Context, authHeader string, id uuid.UUID, patch UserPatch) (*model.User, error) {
	if _, err := s.validator.Validate(ctx, authHeader, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if patch.Email != nil {
		fields["email"] = *patch.Email
	}
	if patch.Firstname != nil {
		fields["firstname"] = *patch.Firstname
	}
	if patch.Lastname != nil {
		fields["lastname"] = *patch.Lastname
	}
	if patch.Phonenumber != nil {
		fields["phonenumber"] = *patch.Phonenumber
	}
	if patch.Password != nil {
		digest, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		fields["password_hash"] = digest
	}

	if len(fields) == 0 {
		return nil, errors.ErrEmptyUpdate
	}

	user, err := s.repo.Patch(ctx, id, fields)
	if err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.ErrEmailTaken
		}
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("patch user %s: %w", id, err)
	}

	s.validator.InvalidateUser(ctx, id)
	return user, nil
}

// Delete removes the target user after the ownership check.
func (s *userService) Delete(ctx context.Context, authHeader string, id uuid.UUID) error {
	if _, err := s.validator.Validate(ctx, authHeader, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return fmt.Errorf("delete user %s: %w", id, err)
	}

	s.validator.InvalidateUser(ctx, id)
	return nil
}
