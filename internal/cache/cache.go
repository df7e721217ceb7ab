package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"accountsvc/internal/model"
)

const userKeyPrefix = "user:"

// userPayload is the cache encoding of a user record. The model's own JSON
// tags hide PasswordHash from response bodies, so the cache uses explicit
// fields to keep a cached record identical to what the repository returns.
type userPayload struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Firstname    string    `json:"firstname"`
	Lastname     string    `json:"lastname"`
	Phonenumber  string    `json:"phonenumber"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Client caches user records in redis but fails safe by swallowing
// connectivity errors. A nil Client behaves like an always-empty cache.
type Client struct {
	client *redis.Client
}

// New creates a new Redis-backed user cache.
func New(addr, password string, db int) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// GetUser returns the cached record, or nil on a miss, a decode failure,
// or redis being unavailable.
func (c *Client) GetUser(ctx context.Context, id uuid.UUID) *model.User {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := c.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		// redis.Nil and outages both read as a miss
		return nil
	}
	return decodeUser(data)
}

// SetUser stores the record with TTL, ignoring redis errors.
func (c *Client) SetUser(ctx context.Context, user *model.User, ttl time.Duration) {
	if c == nil || c.client == nil || user == nil {
		return
	}
	payload, err := encodeUser(user)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, userKey(user.ID), payload, ttl).Err()
}

// DeleteUser drops the cached record, ignoring redis errors.
func (c *Client) DeleteUser(ctx context.Context, id uuid.UUID) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, userKey(id)).Err()
}

func userKey(id uuid.UUID) string {
	return userKeyPrefix + id.String()
}

func encodeUser(user *model.User) ([]byte, error) {
	return json.Marshal(userPayload{
		ID:           user.ID,
		Email:        user.Email,
		Firstname:    user.Firstname,
		Lastname:     user.Lastname,
		Phonenumber:  user.Phonenumber,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	})
}

func decodeUser(data []byte) *model.User {
	var payload userPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil
	}
	return &model.User{
		ID:           payload.ID,
		Email:        payload.Email,
		Firstname:    payload.Firstname,
		Lastname:     payload.Lastname,
		Phonenumber:  payload.Phonenumber,
		PasswordHash: payload.PasswordHash,
		CreatedAt:    payload.CreatedAt,
		UpdatedAt:    payload.UpdatedAt,
	}
}
