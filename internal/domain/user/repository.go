package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for user repository operations
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetAll(ctx context.Context) ([]*User, error)

	// Update persists the mutable profile fields (username, email, avatar,
	// role).
	Update(ctx context.Context, user *User) error

	// UpdatePassword writes an already-hashed password.
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error

	// SetRefreshToken overwrites the single active refresh token. An empty
	// token clears it (logout).
	SetRefreshToken(ctx context.Context, userID uuid.UUID, token string) error

	// SetResetToken sets the reset pair together, replacing any prior pair.
	SetResetToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error

	// GetByResetToken returns the user holding a reset token that has not
	// expired at the given instant.
	GetByResetToken(ctx context.Context, token string, now time.Time) (*User, error)

	// ResetPassword writes the hashed password and clears both reset fields
	// in one update.
	ResetPassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
}
