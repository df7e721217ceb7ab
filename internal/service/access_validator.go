package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"accountsvc/internal/auth"
	"accountsvc/internal/cache"
	"accountsvc/internal/errors"
	"accountsvc/internal/model"
	"accountsvc/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// AccessValidator is the single authorization gate for user resources.
// It resolves the acting user from the Authorization header and checks
// ownership of the target record. Reused unchanged by get, patch and delete.
type AccessValidator struct {
	tokens *auth.JWTService
	repo   repository.UserRepository
	cache  *cache.Client
}

// NewAccessValidator creates a new access validator.
func NewAccessValidator(tokens *auth.JWTService, repo repository.UserRepository, cache *cache.Client) *AccessValidator {
	return &AccessValidator{
		tokens: tokens,
		repo:   repo,
		cache:  cache,
	}
}

// Validate authorizes the request carried by authHeader against the target
// user id and returns the loaded record on success. The record still contains
// the password hash; callers rely on the model's JSON tags to strip it.
func (v *AccessValidator) Validate(ctx context.Context, authHeader string, targetID uuid.UUID) (*model.User, error) {
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return nil, errors.ErrUnauthorized
	}

	claims, err := v.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, errors.ErrUnauthorized
	}

	user, err := v.loadUser(ctx, targetID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user %s: %w", targetID, err)
	}

	if user.Email != claims.Email {
		return nil, errors.ErrForbidden
	}

	return user, nil
}

// InvalidateUser drops the cached copy of a user record. Callers must do this
// after every mutation so the gate never authorizes against a deleted record.
func (v *AccessValidator) InvalidateUser(ctx context.Context, id uuid.UUID) {
	v.cache.DeleteUser(ctx, id)
}

// loadUser reads through the cache into the store. A cache hit carries the
// full record, password hash included, so hit and miss are indistinguishable
// to callers.
func (v *AccessValidator) loadUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if cached := v.cache.GetUser(ctx, id); cached != nil {
		return cached, nil
	}

	user, err := v.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	v.cache.SetUser(ctx, user, userCacheTTL)
	return user, nil
}
