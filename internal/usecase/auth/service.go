package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"auth-backend/internal/config"
	domainUser "auth-backend/internal/domain/user"
	"auth-backend/internal/logger"
	appErrors "auth-backend/pkg/errors"
	"auth-backend/pkg/utils"

	"go.uber.org/zap"
)

//go:generate mockgen -destination=../../mocks/mock_notifier.go -package=mocks auth-backend/internal/usecase/auth Notifier

// Notifier delivers the password reset link to the account's email.
type Notifier interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// Service implements the auth use cases
type Service struct {
	userRepo domainUser.Repository
	notifier Notifier
	hasher   *utils.PasswordHasher
	config   *config.Config
	now      func() time.Time
}

// NewService creates a new auth service
func NewService(userRepo domainUser.Repository, notifier Notifier, cfg *config.Config) *Service {
	return &Service{
		userRepo: userRepo,
		notifier: notifier,
		hasher:   utils.NewPasswordHasher(cfg.Security.BcryptCost),
		config:   cfg,
		now:      time.Now,
	}
}

func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*TokenResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	if req.Email == "" || req.Username == "" || req.Password == "" {
		return nil, appErrors.Validation(appErrors.ErrFieldsRequired)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, signupValidationError(err)
	}
	req.Email = utils.SanitizeEmail(req.Email)

	if err := s.checkAvailability(ctx, req.Email, req.Username); err != nil {
		if appErrors.CodeOf(err) == appErrors.CodeUniqueness {
			logger.Warn("Signup attempt with taken email or username",
				zap.String("email", req.Email),
				zap.String("username", req.Username),
				zap.String("event", "signup_failed_duplicate"),
			)
		}
		return nil, err
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, appErrors.Persistence("hash password", err)
	}

	user := &domainUser.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainUser.ErrUserAlreadyExists) {
			logger.Warn("Signup lost a race on a unique constraint",
				zap.String("email", req.Email),
				zap.String("username", req.Username),
				zap.String("event", "signup_failed_constraint"),
			)
			return nil, s.conflictAfterInsert(ctx, req.Email, req.Username)
		}
		return nil, appErrors.Persistence("create user", err)
	}

	logger.Info("User signed up successfully",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("username", user.Username),
		zap.String("event", "user_signed_up"),
	)

	return s.issueToken(user)
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	identifier := utils.SanitizeIdentifier(req.Identifier())
	if identifier == "" || req.Password == "" {
		return nil, appErrors.Validation(appErrors.ErrCredentialsRequired)
	}

	var (
		user *domainUser.User
		err  error
	)
	if utils.IsValidEmail(identifier) {
		user, err = s.userRepo.GetByEmail(ctx, identifier)
	} else {
		user, err = s.userRepo.GetByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Login attempt for unknown user",
				zap.String("identifier", identifier),
				zap.String("event", "login_failed_user_not_found"),
			)
			return nil, appErrors.Wrap(appErrors.CodeNotFound, appErrors.ErrUserNotFound)
		}
		return nil, appErrors.Persistence("find user", err)
	}

	ok, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil && user.HasLocalPassword() {
		logger.Error("Stored password hash is unreadable",
			zap.Int64("user_id", user.ID),
			zap.String("event", "login_failed_hash_format"),
			zap.Error(err),
		)
	}
	if !ok {
		logger.Warn("Login attempt with invalid password",
			zap.Int64("user_id", user.ID),
			zap.String("email", user.Email),
			zap.Bool("federated", !user.HasLocalPassword()),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.Wrap(appErrors.CodeInvalidCredentials, appErrors.ErrInvalidCredentials)
	}

	logger.Info("User logged in successfully",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("event", "login_success"),
	)

	return s.issueToken(user)
}

// ForgotPassword issues a reset token and mails it. Unknown emails are
// reported as not found.
func (s *Service) ForgotPassword(ctx context.Context, req *ForgotPasswordRequest) error {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return appErrors.Validation(appErrors.ErrEmailRequired)
	}
	if !utils.IsValidEmail(email) {
		return appErrors.Validation(appErrors.ErrInvalidEmail)
	}
	email = utils.SanitizeEmail(email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Info("Password reset requested for non-existent email",
				zap.String("email", email),
				zap.String("event", "password_reset_requested_non_existent_email"),
			)
			return appErrors.Wrap(appErrors.CodeNotFound, appErrors.ErrUserNotFound)
		}
		return appErrors.Persistence("find user", err)
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		return appErrors.Persistence("generate reset token", err)
	}
	expiresAt := s.now().Add(s.config.Security.ResetTokenTTL)

	if err := s.userRepo.SetResetToken(ctx, user.Email, token, expiresAt.UnixMilli()); err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return appErrors.Wrap(appErrors.CodeNotFound, appErrors.ErrUserNotFound)
		}
		return appErrors.Persistence("set reset token", err)
	}

	logger.Info("Password reset token generated",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email),
		zap.Time("expires_at", expiresAt),
		zap.String("event", "password_reset_token_generated"),
	)

	if err := s.notifier.SendPasswordReset(ctx, user.Email, token); err != nil {
		logger.Error("Failed to send password reset email",
			zap.Int64("user_id", user.ID),
			zap.String("email", user.Email),
			zap.String("event", "password_reset_email_failed"),
			zap.Error(err),
		)
		if clearErr := s.userRepo.ClearResetToken(ctx, user.Email); clearErr != nil {
			logger.Error("Failed to clear undelivered reset token",
				zap.Int64("user_id", user.ID),
				zap.Error(clearErr),
			)
		}
		return appErrors.NewAppError(appErrors.CodePersistence, appErrors.ErrResetEmailFailed.Error(), err)
	}

	return nil
}

func (s *Service) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return appErrors.Wrap(appErrors.CodeInvalidToken, appErrors.ErrInvalidToken)
	}

	now := s.now()
	user, err := s.userRepo.GetByResetToken(ctx, token, now)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Password reset attempt with invalid token",
				zap.String("event", "password_reset_failed_invalid_token"),
			)
			return appErrors.Wrap(appErrors.CodeInvalidToken, appErrors.ErrInvalidToken)
		}
		return appErrors.Persistence("find reset token", err)
	}

	// The store already filters on expiry; check again against our clock.
	if !user.ResetTokenValidAt(now) {
		logger.Warn("Password reset attempt with expired token",
			zap.Int64("user_id", user.ID),
			zap.String("event", "password_reset_failed_expired_token"),
		)
		return appErrors.Wrap(appErrors.CodeInvalidToken, appErrors.ErrTokenExpired)
	}

	if !utils.IsValidPassword(req.NewPassword) {
		return appErrors.Validation(appErrors.ErrWeakPassword)
	}

	hashedPassword, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return appErrors.Persistence("hash password", err)
	}

	consumed, err := s.userRepo.ConsumeResetToken(ctx, token, now)
	if err != nil {
		if errors.Is(err, domainUser.ErrResetTokenInvalid) {
			return appErrors.Wrap(appErrors.CodeInvalidToken, appErrors.ErrInvalidToken)
		}
		return appErrors.Persistence("consume reset token", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, consumed.ID, hashedPassword); err != nil {
		return appErrors.Persistence("update password", err)
	}

	logger.Info("Password reset successfully",
		zap.Int64("user_id", consumed.ID),
		zap.String("email", consumed.Email),
		zap.String("event", "password_reset_success"),
	)

	return nil
}

func (s *Service) CurrentUser(ctx context.Context, userID int64) (*UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.Wrap(appErrors.CodeNotFound, appErrors.ErrUserNotFound)
		}
		return nil, appErrors.Persistence("find user", err)
	}

	return ToUserResponse(user), nil
}

// checkAvailability returns a uniqueness error naming whichever of email and
// username is already taken.
func (s *Service) checkAvailability(ctx context.Context, email, username string) error {
	emailTaken, err := s.exists(ctx, s.userRepo.GetByEmail, email)
	if err != nil {
		return err
	}
	usernameTaken, err := s.exists(ctx, s.userRepo.GetByUsername, username)
	if err != nil {
		return err
	}

	switch {
	case emailTaken && usernameTaken:
		return appErrors.Uniqueness(appErrors.ErrBothTaken)
	case emailTaken:
		return appErrors.Uniqueness(appErrors.ErrEmailTaken)
	case usernameTaken:
		return appErrors.Uniqueness(appErrors.ErrUsernameTaken)
	}
	return nil
}

// conflictAfterInsert names the colliding field once the store has rejected
// an insert.
func (s *Service) conflictAfterInsert(ctx context.Context, email, username string) error {
	if err := s.checkAvailability(ctx, email, username); err != nil {
		return err
	}
	return appErrors.NewAppError(appErrors.CodeUniqueness, appErrors.ErrAccountTaken.Error(), domainUser.ErrUserAlreadyExists)
}

func (s *Service) exists(
	ctx context.Context,
	lookup func(context.Context, string) (*domainUser.User, error),
	key string,
) (bool, error) {
	_, err := lookup(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domainUser.ErrUserNotFound):
		return false, nil
	default:
		return false, appErrors.Persistence("check uniqueness", err)
	}
}

func (s *Service) issueToken(user *domainUser.User) (*TokenResponse, error) {
	token, _, err := utils.GenerateToken(user.ID, user.Email, s.config.JWT.Secret, s.config.JWT.Expiry())
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &TokenResponse{Token: token}, nil
}

func signupValidationError(err error) error {
	field, _, ok := utils.FirstFieldError(err)
	if !ok {
		return appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	switch field {
	case "Email":
		return appErrors.Validation(appErrors.ErrInvalidEmail)
	case "Username":
		return appErrors.Validation(appErrors.ErrInvalidUsername)
	default:
		return appErrors.Validation(appErrors.ErrWeakPassword)
	}
}
