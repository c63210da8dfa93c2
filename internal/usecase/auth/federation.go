package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode"

	"auth-backend/internal/domain/identity"
	domainUser "auth-backend/internal/domain/user"
	"auth-backend/internal/logger"
	appErrors "auth-backend/pkg/errors"
	"auth-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 20

	// maxUsernameAttempts bounds the numeric suffixes tried before falling
	// back to a random one.
	maxUsernameAttempts = 5
)

// FederatedLogin signs in the owner of a provider-verified email, creating a
// local account without a password on first use.
func (s *Service) FederatedLogin(ctx context.Context, id *identity.VerifiedIdentity) (*TokenResponse, error) {
	email := strings.TrimSpace(id.Email)
	if email == "" {
		return nil, appErrors.NewAppError(appErrors.CodeUpstreamAuth, appErrors.ErrNoEmailInProfile.Error(), identity.ErrNoEmailFromProvider)
	}
	email = utils.SanitizeEmail(email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		logger.Info("Federated login for existing user",
			zap.Int64("user_id", user.ID),
			zap.String("email", user.Email),
			zap.String("provider", string(id.Provider)),
			zap.String("event", "federated_login_success"),
		)
		return s.issueToken(user)
	case !errors.Is(err, domainUser.ErrUserNotFound):
		return nil, appErrors.Persistence("find user", err)
	}

	user, err = s.createFederatedUser(ctx, email, DeriveUsername(id.DisplayName, email))
	if err != nil {
		return nil, err
	}

	logger.Info("Federated user created",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("username", user.Username),
		zap.String("provider", string(id.Provider)),
		zap.String("event", "federated_user_created"),
	)

	return s.issueToken(user)
}

func (s *Service) createFederatedUser(ctx context.Context, email, base string) (*domainUser.User, error) {
	for attempt := 0; attempt <= maxUsernameAttempts; attempt++ {
		candidate := usernameCandidate(base, attempt)

		taken, err := s.exists(ctx, s.userRepo.GetByUsername, candidate)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		user := &domainUser.User{Username: candidate, Email: email}
		err = s.userRepo.Create(ctx, user)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, domainUser.ErrUserAlreadyExists) {
			return nil, appErrors.Persistence("create user", err)
		}

		// A concurrent callback may have created the same account.
		if existing, lookupErr := s.userRepo.GetByEmail(ctx, email); lookupErr == nil {
			return existing, nil
		}
	}

	return nil, appErrors.NewAppError(appErrors.CodeUniqueness, appErrors.ErrUsernameTaken.Error(), domainUser.ErrUserAlreadyExists)
}

// DeriveUsername turns a provider display name, or failing that the local
// part of the email, into a valid username.
func DeriveUsername(displayName, email string) string {
	name := normaliseUsername(displayName)
	if len(name) < minUsernameLen {
		local, _, _ := strings.Cut(email, "@")
		name = normaliseUsername(local)
	}
	if len(name) < minUsernameLen {
		name = truncate("user_"+name, maxUsernameLen)
	}
	return name
}

func normaliseUsername(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '.':
			b.WriteByte('_')
		}
	}
	return truncate(strings.Trim(b.String(), "_"), maxUsernameLen)
}

func usernameCandidate(base string, attempt int) string {
	var suffix string
	switch {
	case attempt == 0:
		return base
	case attempt < maxUsernameAttempts:
		suffix = strconv.Itoa(attempt + 1)
	default:
		suffix = "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	}
	return truncate(base, maxUsernameLen-len(suffix)) + suffix
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
