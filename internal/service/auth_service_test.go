package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"shorter/internal/repository"
)

func TestAuthService_Authenticate(t *testing.T) {
	svc := NewAuthService(repository.NewMemoryUserRepository(), bcrypt.MinCost)
	ctx := context.Background()

	created, err := svc.Register(ctx, "jimmy", "secret")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "jimmy", "secret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "jimmy", user.Username)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "jimmy", "guess"},
		{"empty password", "jimmy", ""},
		{"unknown user", "nobody", "secret"},
		{"empty username", "", "secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, ErrUnauthenticated)
		})
	}
}

func TestAuthService_Register(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	svc := NewAuthService(repo, bcrypt.MinCost)
	ctx := context.Background()

	user, err := svc.Register(ctx, "  alice ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "pw", user.PasswordHash)

	_, err = svc.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = svc.Register(ctx, "   ", "pw")
	assert.ErrorIs(t, err, ErrEmptyUsername)
}

func TestAuthService_DefaultCost(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	svc := NewAuthService(repo, 0)

	user, err := svc.Register(context.Background(), "bob", "pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(user.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}

func TestAuthService_EnsureUser(t *testing.T) {
	svc := NewAuthService(repository.NewMemoryUserRepository(), bcrypt.MinCost)
	ctx := context.Background()

	first, err := svc.EnsureUser(ctx, "jimmy", "secret")
	require.NoError(t, err)

	second, err := svc.EnsureUser(ctx, "jimmy", "changed")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// the first password is kept
	_, err = svc.Authenticate(ctx, "jimmy", "secret")
	assert.NoError(t, err)
	_, err = svc.Authenticate(ctx, "jimmy", "changed")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
