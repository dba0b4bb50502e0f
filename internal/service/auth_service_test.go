package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/league-sched-api/internal/dto"
	"github.com/noah-isme/league-sched-api/internal/models"
)

type memUsers struct {
	users map[string]*models.User
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("sched-admin-pw"), bcrypt.MinCost)
	require.NoError(t, err)
	users := &memUsers{users: map[string]*models.User{
		"u1": {ID: "u1", Email: "admin@example.com", PasswordHash: string(hash), Role: "admin", IsActive: true},
	}}
	return NewAuthService(users, nil, zap.NewNop(), AuthConfig{
		Secret:          "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 2 * time.Hour,
		Issuer:          "league-sched-api",
	})
}

func TestAuthLoginAndValidate(t *testing.T) {
	svc := newAuthFixture(t)

	tokens, err := svc.Login(context.Background(), dto.LoginRequest{Email: "admin@example.com", Password: "sched-admin-pw"})
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	claims, err := svc.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	// A refresh token must not pass access validation.
	_, err = svc.ValidateToken(tokens.RefreshToken)
	assert.Error(t, err)
}

func TestAuthLoginBadPassword(t *testing.T) {
	svc := newAuthFixture(t)
	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "admin@example.com", Password: "nope"})
	assert.Error(t, err)
}

func TestAuthLoginUnknownUser(t *testing.T) {
	svc := newAuthFixture(t)
	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	assert.Error(t, err)
}

func TestAuthRefreshIssuesNewPair(t *testing.T) {
	svc := newAuthFixture(t)
	tokens, err := svc.Login(context.Background(), dto.LoginRequest{Email: "admin@example.com", Password: "sched-admin-pw"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token is not a valid refresh token.
	_, err = svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: tokens.AccessToken})
	assert.Error(t, err)
}
