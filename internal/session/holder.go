package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/andresfontal/voltio-backend/pkg/config"
	"github.com/andresfontal/voltio-backend/pkg/enums"
	redisclient "github.com/andresfontal/voltio-backend/pkg/redis"
)

// ErrNoCurrentUser is returned when no snapshot exists for the session.
var ErrNoCurrentUser = errors.New("no current user for session")

// CurrentUser is the per-session snapshot of the authenticated user. It is
// what "who is logged in right now" resolves to without a DB round trip.
type CurrentUser struct {
	ID        uuid.UUID      `json:"id"`
	Email     string         `json:"email"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Role      enums.UserRole `json:"role"`
	Points    int64          `json:"points"`
}

// IsValid reports whether the snapshot carries a usable identity.
func (u CurrentUser) IsValid() bool {
	return u.ID != uuid.Nil && u.Email != ""
}

type holderStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type holderKeyer interface {
	CurrentUserKey(sessionID string) string
}

// Holder keeps the current-user snapshot per session in Redis.
type Holder struct {
	store holderStore
	keyer holderKeyer
	ttl   time.Duration
}

// NewHolder constructs a Holder with the refresh-token TTL as the snapshot
// lifetime, so the snapshot outlives every access token of the session.
func NewHolder(client *redisclient.Client, cfg config.JWTConfig) (*Holder, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	ttl := cfg.RefreshTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	return &Holder{store: client, keyer: client, ttl: ttl}, nil
}

// SetCurrent stores the snapshot for the session, replacing any previous one.
func (h *Holder) SetCurrent(ctx context.Context, sessionID string, user CurrentUser) error {
	if !user.IsValid() {
		return fmt.Errorf("current user snapshot is incomplete")
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding current user: %w", err)
	}
	return h.store.Set(ctx, h.keyer.CurrentUserKey(sessionID), raw, h.ttl)
}

// GetCurrent returns the snapshot for the session, or ErrNoCurrentUser.
func (h *Holder) GetCurrent(ctx context.Context, sessionID string) (*CurrentUser, error) {
	raw, err := h.store.Get(ctx, h.keyer.CurrentUserKey(sessionID))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrNoCurrentUser
		}
		return nil, err
	}
	var user CurrentUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("decoding current user: %w", err)
	}
	if !user.IsValid() {
		return nil, ErrNoCurrentUser
	}
	return &user, nil
}

// Clear drops the snapshot for the session.
func (h *Holder) Clear(ctx context.Context, sessionID string) error {
	return h.store.Del(ctx, h.keyer.CurrentUserKey(sessionID))
}
