package user

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks auth-backend/internal/domain/user Repository

// Repository defines the interface for user repository operations.
// Lookups return ErrUserNotFound when nothing matches; Create returns
// ErrUserAlreadyExists when the store rejects a duplicate email or username.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error

	SetResetToken(ctx context.Context, email, token string, expiresAtMillis int64) error
	GetByResetToken(ctx context.Context, token string, now time.Time) (*User, error)
	// ConsumeResetToken clears the token if it is still valid at now and
	// returns its owner. Only one caller can consume a given token.
	ConsumeResetToken(ctx context.Context, token string, now time.Time) (*User, error)
	ClearResetToken(ctx context.Context, email string) error
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}
