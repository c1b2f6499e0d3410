package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/lessmo/internal/auth"
	"github.com/mmynk/lessmo/internal/metrics"
	"github.com/mmynk/lessmo/internal/models"
)

type emptyMsg struct{}

// captureUser is a handler that records the user it was called with.
func captureUser(got *string) connect.UnaryFunc {
	return func(ctx context.Context, _ connect.AnyRequest) (connect.AnyResponse, error) {
		*got = GetUserID(ctx)
		return connect.NewResponse(&emptyMsg{}), nil
	}
}

func newToken(t *testing.T, m *auth.JWTManager) string {
	t.Helper()
	token, _, err := m.Generate(&models.User{ID: "user-1", Email: "a@example.com"})
	require.NoError(t, err)
	return token
}

func TestRequireAuth(t *testing.T) {
	m := auth.NewJWTManager("secret", time.Hour)
	token := newToken(t, m)

	tests := []struct {
		name     string
		header   string
		wantUser string
		wantCode connect.Code
	}{
		{"valid token", "Bearer " + token, "user-1", 0},
		{"missing header", "", "", connect.CodeUnauthenticated},
		{"wrong scheme", "Basic " + token, "", connect.CodeUnauthenticated},
		{"garbage token", "Bearer nope", "", connect.CodeUnauthenticated},
		{"foreign signature", "Bearer " + newToken(t, auth.NewJWTManager("other", time.Hour)), "", connect.CodeUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			req := connect.NewRequest(&emptyMsg{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}

			_, err := RequireAuth(m)(captureUser(&got))(context.Background(), req)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, connect.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, got)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	m := auth.NewJWTManager("secret", time.Hour)

	var got string
	req := connect.NewRequest(&emptyMsg{})
	_, err := OptionalAuth(m)(captureUser(&got))(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, got)

	req.Header().Set("Authorization", "Bearer "+newToken(t, m))
	_, err = OptionalAuth(m)(captureUser(&got))(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got)
}

func TestWithUser(t *testing.T) {
	ctx := WithUser(context.Background(), "u", "u@example.com")
	assert.Equal(t, "u", GetUserID(ctx))
	assert.Equal(t, "u@example.com", GetEmail(ctx))
	assert.Empty(t, GetUserID(context.Background()))
}

func failWith(err error) connect.UnaryFunc {
	return func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, err
	}
}

func TestLoggingInterceptor(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		level string
	}{
		{"success", nil, "level=INFO"},
		{"client error", connect.NewError(connect.CodeInvalidArgument, errors.New("bad split")), "level=WARN"},
		{"server error", connect.NewError(connect.CodeInternal, errors.New("disk full")), "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			next := failWith(tt.err)
			if tt.err == nil {
				next = func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
					return connect.NewResponse(&emptyMsg{}), nil
				}
			}

			ctx := WithUser(context.Background(), "user-1", "")
			_, err := LoggingInterceptor(logger)(next)(ctx, connect.NewRequest(&emptyMsg{}))
			assert.Equal(t, tt.err, err)

			out := buf.String()
			assert.Contains(t, out, tt.level)
			assert.Contains(t, out, "user_id=user-1")
			if tt.err != nil {
				assert.Contains(t, out, "code="+connect.CodeOf(tt.err).String())
			}
		})
	}
}

func TestMetricsInterceptor(t *testing.T) {
	before := testutil.CollectAndCount(metrics.RPCDuration)

	_, err := MetricsInterceptor()(failWith(connect.NewError(connect.CodeNotFound, errors.New("gone"))))(
		context.Background(), connect.NewRequest(&emptyMsg{}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	assert.Equal(t, before+1, testutil.CollectAndCount(metrics.RPCDuration))
}
