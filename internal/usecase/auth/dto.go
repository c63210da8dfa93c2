package auth

import (
	"strings"
	"time"

	domainUser "auth-backend/internal/domain/user"
)

// SignupRequest fields are declared in the order they are validated.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email_address"`
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,password"`
}

// LoginRequest accepts the identifier under either name.
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Email           string `json:"email"`
	Password        string `json:"password"`
}

func (r *LoginRequest) Identifier() string {
	if id := strings.TrimSpace(r.UsernameOrEmail); id != "" {
		return id
	}
	return strings.TrimSpace(r.Email)
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	HasPassword bool      `json:"hasPassword"`
	CreatedAt   time.Time `json:"createdAt"`
}

func ToUserResponse(u *domainUser.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		HasPassword: u.HasLocalPassword(),
		CreatedAt:   u.CreatedAt,
	}
}
