package models

import "time"

// UserModel represents the database model for User. The unique indexes are
// the authoritative guard against duplicate emails and usernames.
type UserModel struct {
	ID               int64     `gorm:"primaryKey;autoIncrement"`
	Username         string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_users_username"`
	Email            string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email"`
	Password         string    `gorm:"column:password;type:varchar(255);not null"`
	ResetToken       *string   `gorm:"type:varchar(128);index:idx_users_reset_token"`
	ResetTokenExpiry *int64    `gorm:"column:reset_token_expiry"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}
