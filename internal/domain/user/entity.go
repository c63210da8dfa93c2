package user

import "time"

// User represents a user entity in the domain
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	// ResetToken and ResetTokenExpiry are set and cleared together.
	ResetToken       *string
	ResetTokenExpiry *int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasLocalPassword is false for accounts created through an identity
// provider.
func (u *User) HasLocalPassword() bool {
	return u.PasswordHash != ""
}

// ResetTokenValidAt reports whether the user holds a reset token that has
// not expired at now.
func (u *User) ResetTokenValidAt(now time.Time) bool {
	if u.ResetToken == nil || u.ResetTokenExpiry == nil {
		return false
	}
	return now.UnixMilli() < *u.ResetTokenExpiry
}
