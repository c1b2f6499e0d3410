package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/lessmo/internal/auth"
	"github.com/mmynk/lessmo/internal/middleware"
	"github.com/mmynk/lessmo/internal/storage/sqlite"
	"github.com/mmynk/lessmo/pkg/api"
	"github.com/mmynk/lessmo/pkg/api/apiconnect"
)

func setupAuthServer(t *testing.T) apiconnect.AuthServiceClient {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	svc := NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, slog.New(slog.DiscardHandler))

	path, handler := apiconnect.NewAuthServiceHandler(svc,
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager)),
	)
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)
}

func TestAuthService(t *testing.T) {
	client := setupAuthServer(t)
	ctx := context.Background()

	registered, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email: "dana@example.com", DisplayName: "Dana", Password: "correct horse",
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Msg.Token)
	assert.Greater(t, registered.Msg.ExpiresAt, time.Now().Unix())
	assert.Equal(t, "Dana", registered.Msg.User.DisplayName)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: "dana@example.com", Password: "another password",
		}))
		assert.Equal(t, connect.CodeAlreadyExists, connect.CodeOf(err))
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: "eve@example.com", Password: "short",
		}))
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	})

	t.Run("login", func(t *testing.T) {
		resp, err := client.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email: "dana@example.com", Password: "correct horse",
		}))
		require.NoError(t, err)
		assert.Equal(t, registered.Msg.User.ID, resp.Msg.User.ID)

		_, err = client.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email: "dana@example.com", Password: "wrong password",
		}))
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("current user", func(t *testing.T) {
		req := connect.NewRequest(&api.GetCurrentUserRequest{})
		req.Header().Set("Authorization", "Bearer "+registered.Msg.Token)
		resp, err := client.GetCurrentUser(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "dana@example.com", resp.Msg.User.Email)

		_, err = client.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

		bad := connect.NewRequest(&api.GetCurrentUserRequest{})
		bad.Header().Set("Authorization", "Bearer not-a-token")
		_, err = client.GetCurrentUser(ctx, bad)
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})
}
