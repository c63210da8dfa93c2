package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auth-backend/internal/domain/user"
	"auth-backend/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
)

// UserRepository implements user.Repository on top of gorm.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ user.Repository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	tx, cancel := r.db.statement(ctx)
	defer cancel()

	dbModel := toUserModel(u)
	if err := tx.Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return user.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = dbModel.ID
	u.CreatedAt = dbModel.CreatedAt
	u.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*user.User, error) {
	return r.first(ctx, "id = ?", userID)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	tx, cancel := r.db.statement(ctx)
	defer cancel()

	result := tx.Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password":   passwordHash,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, email, token string, expiresAtMillis int64) error {
	tx, cancel := r.db.statement(ctx)
	defer cancel()

	result := tx.Model(&models.UserModel{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"reset_token":        token,
			"reset_token_expiry": expiresAtMillis,
			"updated_at":         time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to set reset token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) GetByResetToken(ctx context.Context, token string, now time.Time) (*user.User, error) {
	return r.first(ctx, "reset_token = ? AND reset_token_expiry > ?", token, now.UnixMilli())
}

func (r *UserRepository) ConsumeResetToken(ctx context.Context, token string, now time.Time) (*user.User, error) {
	tx, cancel := r.db.statement(ctx)
	defer cancel()

	var consumed *user.User
	err := tx.Transaction(func(tx *gorm.DB) error {
		var dbModel models.UserModel
		err := tx.Where("reset_token = ? AND reset_token_expiry > ?", token, now.UnixMilli()).
			First(&dbModel).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.ErrResetTokenInvalid
		}
		if err != nil {
			return fmt.Errorf("failed to get reset token: %w", err)
		}

		// The token in the WHERE clause makes a concurrent consumer see zero rows.
		result := tx.Model(&models.UserModel{}).
			Where("id = ? AND reset_token = ?", dbModel.ID, token).
			Updates(clearResetToken())
		if result.Error != nil {
			return fmt.Errorf("failed to clear reset token: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return user.ErrResetTokenInvalid
		}

		dbModel.ResetToken = nil
		dbModel.ResetTokenExpiry = nil
		consumed = toUserEntity(&dbModel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return consumed, nil
}

func (r *UserRepository) ClearResetToken(ctx context.Context, email string) error {
	tx, cancel := r.db.statement(ctx)
	defer cancel()

	result := tx.Model(&models.UserModel{}).
		Where("email = ?", email).
		Updates(clearResetToken())
	if result.Error != nil {
		return fmt.Errorf("failed to clear reset token: %w", result.Error)
	}

	return nil
}

func (r *UserRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	tx, cancel := r.db.statement(ctx)
	defer cancel()

	result := tx.Model(&models.UserModel{}).
		Where("reset_token_expiry IS NOT NULL AND reset_token_expiry <= ?", now.UnixMilli()).
		Updates(clearResetToken())
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear expired reset tokens: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*user.User, error) {
	tx, cancel := r.db.statement(ctx)
	defer cancel()

	var dbModel models.UserModel
	err := tx.Where(query, args...).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func clearResetToken() map[string]interface{} {
	return map[string]interface{}{
		"reset_token":        nil,
		"reset_token_expiry": nil,
		"updated_at":         time.Now(),
	}
}

func toUserModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		Password:         u.PasswordHash,
		ResetToken:       u.ResetToken,
		ResetTokenExpiry: u.ResetTokenExpiry,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func toUserEntity(m *models.UserModel) *user.User {
	return &user.User{
		ID:               m.ID,
		Username:         m.Username,
		Email:            m.Email,
		PasswordHash:     m.Password,
		ResetToken:       m.ResetToken,
		ResetTokenExpiry: m.ResetTokenExpiry,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
