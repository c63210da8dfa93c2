package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"auth-backend/internal/config"
	"auth-backend/internal/domain/user"
	"auth-backend/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Environment = "test"
	cfg.Database.MaxOpenConns = 1

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := Open(sqlite.Open(dsn), cfg)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.UserModel{}))

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createUser(t *testing.T, repo *UserRepository, username, email string) *user.User {
	t.Helper()
	u := &user.User{Username: username, Email: email, PasswordHash: "$2a$04$hash"}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	u := createUser(t, repo, "alice", "alice@example.com")
	assert.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "$2a$04$hash", byEmail.PasswordHash)
	assert.Nil(t, byEmail.ResetToken)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()
	createUser(t, repo, "alice", "alice@example.com")

	err := repo.Create(ctx, &user.User{Username: "alice2", Email: "alice@example.com"})
	assert.ErrorIs(t, err, user.ErrUserAlreadyExists)

	err = repo.Create(ctx, &user.User{Username: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, user.ErrUserAlreadyExists)
}

func TestUserRepository_FederatedUserHasEmptyPassword(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &user.User{Username: "gopher", Email: "gopher@example.com"}))

	got, err := repo.GetByEmail(ctx, "gopher@example.com")
	require.NoError(t, err)
	assert.Empty(t, got.PasswordHash)
	assert.False(t, got.HasLocalPassword())
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()
	u := createUser(t, repo, "alice", "alice@example.com")

	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "$2a$04$new"))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "$2a$04$new", got.PasswordHash)

	assert.ErrorIs(t, repo.UpdatePassword(ctx, u.ID+100, "x"), user.ErrUserNotFound)
}

func TestUserRepository_ResetTokenLifecycle(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now()
	createUser(t, repo, "alice", "alice@example.com")

	require.NoError(t, repo.SetResetToken(ctx, "alice@example.com", "tok-1", now.Add(time.Hour).UnixMilli()))
	assert.ErrorIs(t, repo.SetResetToken(ctx, "ghost@example.com", "tok-x", now.UnixMilli()), user.ErrUserNotFound)

	got, err := repo.GetByResetToken(ctx, "tok-1", now)
	require.NoError(t, err)
	require.NotNil(t, got.ResetToken)
	require.NotNil(t, got.ResetTokenExpiry)
	assert.Equal(t, "tok-1", *got.ResetToken)
	assert.True(t, got.ResetTokenValidAt(now))

	// Filtered on expiry at query time.
	_, err = repo.GetByResetToken(ctx, "tok-1", now.Add(2*time.Hour))
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	require.NoError(t, repo.ClearResetToken(ctx, "alice@example.com"))
	_, err = repo.GetByResetToken(ctx, "tok-1", now)
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	cleared, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Nil(t, cleared.ResetToken)
	assert.Nil(t, cleared.ResetTokenExpiry)
}

func TestUserRepository_ConsumeResetToken(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now()
	u := createUser(t, repo, "alice", "alice@example.com")
	require.NoError(t, repo.SetResetToken(ctx, "alice@example.com", "tok-1", now.Add(time.Hour).UnixMilli()))

	consumed, err := repo.ConsumeResetToken(ctx, "tok-1", now)
	require.NoError(t, err)
	assert.Equal(t, u.ID, consumed.ID)
	assert.Nil(t, consumed.ResetToken)

	_, err = repo.ConsumeResetToken(ctx, "tok-1", now)
	assert.ErrorIs(t, err, user.ErrResetTokenInvalid)
}

func TestUserRepository_ConsumeExpiredResetToken(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now()
	createUser(t, repo, "alice", "alice@example.com")
	require.NoError(t, repo.SetResetToken(ctx, "alice@example.com", "tok-1", now.Add(-time.Millisecond).UnixMilli()))

	_, err := repo.ConsumeResetToken(ctx, "tok-1", now)
	assert.ErrorIs(t, err, user.ErrResetTokenInvalid)
}

func TestUserRepository_ConsumeResetTokenConcurrently(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now()
	createUser(t, repo, "alice", "alice@example.com")
	require.NoError(t, repo.SetResetToken(ctx, "alice@example.com", "tok-1", now.Add(time.Hour).UnixMilli()))

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.ConsumeResetToken(ctx, "tok-1", now); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}

func TestUserRepository_ClearExpiredResetTokens(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now()
	createUser(t, repo, "alice", "alice@example.com")
	createUser(t, repo, "bob", "bob@example.com")
	createUser(t, repo, "carol", "carol@example.com")

	require.NoError(t, repo.SetResetToken(ctx, "alice@example.com", "expired", now.Add(-time.Minute).UnixMilli()))
	require.NoError(t, repo.SetResetToken(ctx, "bob@example.com", "live", now.Add(time.Hour).UnixMilli()))

	n, err := repo.ClearExpiredResetTokens(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	alice, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Nil(t, alice.ResetToken)

	_, err = repo.GetByResetToken(ctx, "live", now)
	assert.NoError(t, err)
}

func TestDB_Health(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, db.Health())
}
