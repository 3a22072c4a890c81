package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"voice-notes-be/internal/dto"
	"voice-notes-be/internal/pkg/apperror"
	"voice-notes-be/internal/pkg/logger"
	"voice-notes-be/internal/pkg/serverutils"
	"voice-notes-be/internal/repository/memory"
	"voice-notes-be/pkg/token"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) (IAuthService, *token.Manager) {
	t.Helper()

	tokens := token.NewManager("test-secret-0123456789", time.Hour)
	svc := NewAuthService(memory.NewRepositoryFactory(memory.NewStore()), tokens, cache.New(time.Minute, time.Minute), logger.NewNopLogger())
	svc.(*authService).hashCost = bcrypt.MinCost
	return svc, tokens
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, tokens := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Email: "Alice@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	res, err := svc.Login(ctx, &dto.LoginRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, user.Id, res.User.Id)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	subject, err := tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.Id, subject)
}

func TestAuthService_RegisterMultibytePasswordTooLong(t *testing.T) {
	svc, _ := newAuthService(t)

	// 40 runes passes the max=72 rule, 80 bytes exceeds what bcrypt accepts
	password := strings.Repeat("é", 40)
	require.NoError(t, serverutils.ValidateRequest(&dto.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: password}))

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: password})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Register(context.Background(), &dto.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: strings.Repeat("é", 36)})
	assert.NoError(t, err)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "alice2", Email: "ALICE@example.com", Password: "password123"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  dto.LoginRequest
	}{
		{name: "wrong password", req: dto.LoginRequest{Email: "alice@example.com", Password: "nope-nope"}},
		{name: "unknown email", req: dto.LoginRequest{Email: "bob@example.com", Password: "password123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &tt.req)
			assert.ErrorIs(t, err, apperror.ErrAuth)
		})
	}
}

func TestAuthService_Me(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	me, err := svc.Me(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, user, me)

	cached, ok := svc.(*authService).userCache.Get("user:" + user.Id.String())
	require.True(t, ok)
	assert.Equal(t, *user, cached)

	_, err = svc.Me(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
