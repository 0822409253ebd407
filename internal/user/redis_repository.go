package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisRepository is a Redis-backed Store implementation. Each user is a
// JSON value under its id key, with email and username index keys pointing
// back at the id. Intended for deployments without Postgres; persistence
// semantics match the relational store (no TTLs, last write wins).
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

var _ Store = (*RedisRepository)(nil)

// getUserKey generates the Redis key for a user record
func getUserKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

// getEmailKey generates the Redis index key for an email
func getEmailKey(email string) string {
	return fmt.Sprintf("user:email:%s", strings.ToLower(email))
}

// getUserNameKey generates the Redis index key for a username
func getUserNameKey(userName string) string {
	return fmt.Sprintf("user:name:%s", userName)
}

const allUsersKey = "users"

// Insert stores a new user. Email uniqueness is enforced via SETNX on the
// email index key.
func (r *RedisRepository) Insert(ctx context.Context, u *User) (uuid.UUID, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = strings.ToLower(u.Email)

	// Claim the email index first; losing the race means a duplicate
	ok, err := r.client.SetNX(ctx, getEmailKey(u.Email), u.ID.String(), 0).Result()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to claim email index: %w", err)
	}
	if !ok {
		return uuid.Nil, ErrDuplicateEmail
	}

	payload, err := json.Marshal(mapModelToRedisUser(u))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode user: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, getUserKey(u.ID), payload, 0)
	pipe.Set(ctx, getUserNameKey(u.UserName), u.ID.String(), 0)
	pipe.SAdd(ctx, allUsersKey, u.ID.String())

	if _, err := pipe.Exec(ctx); err != nil {
		// Roll back the index claim so the email is not orphaned
		r.client.Del(ctx, getEmailKey(u.Email))
		return uuid.Nil, fmt.Errorf("failed to store user: %w", err)
	}

	return u.ID, nil
}

// GetByID retrieves a user by ID
func (r *RedisRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.getByKey(ctx, getUserKey(id))
}

// GetByEmail retrieves a user through the email index. Lookup is
// lowercase-normalized.
func (r *RedisRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getByIndex(ctx, getEmailKey(email))
}

// GetByUserName retrieves a user through the username index
func (r *RedisRepository) GetByUserName(ctx context.Context, userName string) (*User, error) {
	return r.getByIndex(ctx, getUserNameKey(userName))
}

// List retrieves all users
func (r *RedisRepository) List(ctx context.Context) ([]*User, error) {
	ids, err := r.client.SMembers(ctx, allUsersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}

	users := make([]*User, 0, len(ids))
	for _, id := range ids {
		parsed, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		u, err := r.GetByID(ctx, parsed)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		users = append(users, u)
	}

	return users, nil
}

// Update overwrites the stored user record, moving the username index if the
// username changed. Emails are immutable through the service layer, so the
// email index is left alone.
func (r *RedisRepository) Update(ctx context.Context, u *User) error {
	existing, err := r.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}

	u.Email = strings.ToLower(u.Email)

	payload, err := json.Marshal(mapModelToRedisUser(u))
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, getUserKey(u.ID), payload, 0)
	if existing.UserName != u.UserName {
		pipe.Del(ctx, getUserNameKey(existing.UserName))
		pipe.Set(ctx, getUserNameKey(u.UserName), u.ID.String(), 0)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// Delete removes the user record and all of its index keys
func (r *RedisRepository) Delete(ctx context.Context, u *User) error {
	existing, err := r.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, getUserKey(u.ID))
	pipe.Del(ctx, getEmailKey(existing.Email))
	pipe.Del(ctx, getUserNameKey(existing.UserName))
	pipe.SRem(ctx, allUsersKey, u.ID.String())

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

func (r *RedisRepository) getByIndex(ctx context.Context, indexKey string) (*User, error) {
	idStr, err := r.client.Get(ctx, indexKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user index: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt user index %s: %w", indexKey, err)
	}

	return r.GetByID(ctx, id)
}

func (r *RedisRepository) getByKey(ctx context.Context, key string) (*User, error) {
	payload, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	stored := new(redisUser)
	if err := json.Unmarshal(payload, stored); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	return mapRedisUserToModel(stored), nil
}

// redisUser is the storage representation. The domain model hides the
// password hash and token fields from JSON, so the stored record needs its
// own tags to keep them.
type redisUser struct {
	ID                    uuid.UUID  `json:"id"`
	UserName              string     `json:"user_name"`
	FirstName             *string    `json:"first_name,omitempty"`
	LastName              *string    `json:"last_name,omitempty"`
	Email                 string     `json:"email"`
	PasswordHash          string     `json:"password_hash"`
	Role                  string     `json:"role"`
	PhoneNumber           *string    `json:"phone_number,omitempty"`
	IsActive              bool       `json:"is_active"`
	IsLocked              bool       `json:"is_locked"`
	IsEmailConfirmed      bool       `json:"is_email_confirmed"`
	LockoutEnd            *time.Time `json:"lockout_end,omitempty"`
	RefreshToken          *string    `json:"refresh_token,omitempty"`
	RefreshTokenExpiresAt *time.Time `json:"refresh_token_expires_at,omitempty"`
	ResetToken            *string    `json:"reset_token,omitempty"`
	ResetTokenExpiresAt   *time.Time `json:"reset_token_expires_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func mapModelToRedisUser(u *User) *redisUser {
	return &redisUser{
		ID:                    u.ID,
		UserName:              u.UserName,
		FirstName:             u.FirstName,
		LastName:              u.LastName,
		Email:                 u.Email,
		PasswordHash:          u.PasswordHash,
		Role:                  u.Role.String(),
		PhoneNumber:           u.PhoneNumber,
		IsActive:              u.IsActive,
		IsLocked:              u.IsLocked,
		IsEmailConfirmed:      u.IsEmailConfirmed,
		LockoutEnd:            u.LockoutEnd,
		RefreshToken:          u.RefreshToken,
		RefreshTokenExpiresAt: u.RefreshTokenExpiresAt,
		ResetToken:            u.ResetToken,
		ResetTokenExpiresAt:   u.ResetTokenExpiresAt,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}

func mapRedisUserToModel(stored *redisUser) *User {
	// Unknown roles cannot appear here; the record was written through
	// Role.String.
	role, _ := ParseRole(stored.Role)

	return &User{
		ID:                    stored.ID,
		UserName:              stored.UserName,
		FirstName:             stored.FirstName,
		LastName:              stored.LastName,
		Email:                 stored.Email,
		PasswordHash:          stored.PasswordHash,
		Role:                  role,
		PhoneNumber:           stored.PhoneNumber,
		IsActive:              stored.IsActive,
		IsLocked:              stored.IsLocked,
		IsEmailConfirmed:      stored.IsEmailConfirmed,
		LockoutEnd:            stored.LockoutEnd,
		RefreshToken:          stored.RefreshToken,
		RefreshTokenExpiresAt: stored.RefreshTokenExpiresAt,
		ResetToken:            stored.ResetToken,
		ResetTokenExpiresAt:   stored.ResetTokenExpiresAt,
		CreatedAt:             stored.CreatedAt,
		UpdatedAt:             stored.UpdatedAt,
	}
}
