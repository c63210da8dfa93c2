package user

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	ErrResetTokenInvalid = errors.New("reset token is invalid or expired")
)
