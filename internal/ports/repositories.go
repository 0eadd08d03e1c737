package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dayflow/core/internal/domain/entities"
)

// UserRepository defines the interface for user account operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TaskDataRepository defines the interface for the per-user task aggregate.
// The aggregate is read and written whole; Save must fail with
// entities.ErrVersionConflict when the stored version no longer matches the
// loaded one.
type TaskDataRepository interface {
	Create(ctx context.Context, data *entities.TaskData) error
	Get(ctx context.Context, userID uuid.UUID) (*entities.TaskData, error)
	Save(ctx context.Context, data *entities.TaskData) error
}

// RegistrationStore persists a new account together with its seeded task
// aggregate as one atomic unit. Either both rows exist afterwards or
// neither does; a partially registered account must be impossible.
type RegistrationStore interface {
	Register(ctx context.Context, user *entities.User, data *entities.TaskData) error
}

// AuthRepository defines the interface for refresh token storage
type AuthRepository interface {
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
	CleanupExpiredTokens(ctx context.Context) error
}

// RefreshToken represents a refresh token record
type RefreshToken struct {
	ID        int        `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	TokenHash string     `json:"token_hash" db:"token_hash"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	RevokedAt *time.Time `json:"revoked_at" db:"revoked_at"`
}

// IsExpired checks if the refresh token is expired
func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// IsRevoked checks if the refresh token is revoked
func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

// IsValid checks if the refresh token is valid
func (rt *RefreshToken) IsValid() bool {
	return !rt.IsExpired() && !rt.IsRevoked()
}
