package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayflow/core/internal/domain/entities"
	"github.com/dayflow/core/internal/infrastructure/config"
	"github.com/dayflow/core/internal/ports"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entities.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entities.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return entities.ErrEmailTaken
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *entities.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return entities.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return entities.ErrUserNotFound
	}
	u.LastLoginAt = &at
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return entities.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// fakeRegistrationStore mirrors the transactional contract: on failure
// neither the user row nor the aggregate is kept.
type fakeRegistrationStore struct {
	users    *fakeUserRepo
	data     *fakeTaskDataRepo
	seedErr  error
	attempts int
}

func (s *fakeRegistrationStore) Register(ctx context.Context, user *entities.User, data *entities.TaskData) error {
	s.attempts++
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}
	if s.seedErr != nil {
		delete(s.users.users, user.ID)
		return s.seedErr
	}
	return s.data.Create(ctx, data)
}

type fakeAuthRepo struct {
	tokens map[string]*ports.RefreshToken
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{tokens: make(map[string]*ports.RefreshToken)}
}

func (r *fakeAuthRepo) CreateRefreshToken(_ context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	r.tokens[tokenHash] = &ports.RefreshToken{
		ID:        len(r.tokens) + 1,
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

func (r *fakeAuthRepo) GetRefreshToken(_ context.Context, tokenHash string) (*ports.RefreshToken, error) {
	t, ok := r.tokens[tokenHash]
	if !ok {
		return nil, fmt.Errorf("refresh token not found")
	}
	return t, nil
}

func (r *fakeAuthRepo) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	if t, ok := r.tokens[tokenHash]; ok && t.RevokedAt == nil {
		now := time.Now()
		t.RevokedAt = &now
	}
	return nil
}

func (r *fakeAuthRepo) RevokeAllUserTokens(_ context.Context, userID uuid.UUID) error {
	now := time.Now()
	for _, t := range r.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeAuthRepo) CleanupExpiredTokens(_ context.Context) error {
	return nil
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo, *fakeTaskDataRepo, *fakeRegistrationStore) {
	t.Helper()

	users := newFakeUserRepo()
	data := newFakeRepo()
	regStore := &fakeRegistrationStore{users: users, data: data}

	cfg := config.JWTConfig{
		Secret:           "test-secret",
		ExpiresIn:        time.Hour,
		RefreshExpiresIn: 24 * time.Hour,
		Issuer:           "dayflow-test",
	}

	return NewAuthService(users, regStore, newFakeAuthRepo(), cfg, testLogger()), users, data, regStore
}

func TestAuthService_Register_SeedsAggregate(t *testing.T) {
	svc, _, data, _ := newTestAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, ports.RegisterRequest{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Empty(t, resp.User.PasswordHash)

	stored, err := data.Get(ctx, resp.User.ID)
	require.NoError(t, err)
	require.Len(t, stored.Folders, 1)
	assert.Equal(t, entities.DefaultFolderName, stored.Folders[0].Name)
	assert.Len(t, stored.WeekTasks, 7)
}

func TestAuthService_Register_FailedSeedLeavesNoAccount(t *testing.T) {
	svc, users, data, regStore := newTestAuthService(t)
	ctx := context.Background()
	req := ports.RegisterRequest{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Password: "secret-password",
	}

	regStore.seedErr = fmt.Errorf("seed exploded")
	_, err := svc.Register(ctx, req)
	require.Error(t, err)

	// No half-registered account: no user row, no aggregate.
	_, err = users.GetByEmail(ctx, req.Email)
	assert.ErrorIs(t, err, entities.ErrUserNotFound)
	assert.Empty(t, data.data)

	// The email is not burned; registering again works.
	regStore.seedErr = nil
	resp, err := svc.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, regStore.attempts)

	_, err = data.Get(ctx, resp.User.ID)
	assert.NoError(t, err)
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()
	req := ports.RegisterRequest{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Password: "secret-password",
	}

	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, entities.ErrEmailTaken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, ports.RegisterRequest{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, ports.LoginRequest{Email: "jane@example.com", Password: "wrong"})
	assert.Error(t, err)
}

func TestAuthService_ValidateToken_Roundtrip(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, ports.RegisterRequest{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.String(), claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
