package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/lessmo/internal/config"
	"github.com/mmynk/lessmo/internal/storage/sqlite"
	"github.com/mmynk/lessmo/pkg/api"
	"github.com/mmynk/lessmo/pkg/api/apiconnect"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) (*Server, *httptest.Server) {
	t.Helper()

	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "server.db")
	cfg.Auth.JWTSecret = "test-secret"
	if mutate != nil {
		mutate(&cfg)
	}

	store, err := sqlite.New(cfg.Database.Path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := New(cfg, store, slog.New(slog.DiscardHandler))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func TestEndToEnd(t *testing.T) {
	_, ts := newTestServer(t, nil)
	ctx := context.Background()

	authClient := apiconnect.NewAuthServiceClient(http.DefaultClient, ts.URL)
	ledger := apiconnect.NewLedgerServiceClient(http.DefaultClient, ts.URL)

	registered, err := authClient.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email: "ana@example.com", DisplayName: "Ana", Password: "long enough",
	}))
	require.NoError(t, err)

	_, err = ledger.CreateEvent(ctx, connect.NewRequest(&api.CreateEventRequest{Name: "Trip"}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err), "ledger requires a token")

	withToken := func(req interface{ Header() http.Header }) {
		req.Header().Set("Authorization", "Bearer "+registered.Msg.Token)
	}

	createReq := connect.NewRequest(&api.CreateEventRequest{Name: "Trip"})
	withToken(createReq)
	created, err := ledger.CreateEvent(ctx, createReq)
	require.NoError(t, err)
	assert.Equal(t, "Ana", created.Msg.Participant.Name)
	assert.Equal(t, "USD", created.Msg.Event.Currency)

	addReq := connect.NewRequest(&api.AddParticipantRequest{EventID: created.Msg.Event.ID, Name: "Ben"})
	withToken(addReq)
	ben, err := ledger.AddParticipant(ctx, addReq)
	require.NoError(t, err)

	expenseReq := connect.NewRequest(&api.CreateExpenseRequest{Expense: &api.Expense{
		EventID:        created.Msg.Event.ID,
		Description:    "Tickets",
		PaidBy:         created.Msg.Participant.ID,
		Amount:         90,
		ParticipantIDs: []string{created.Msg.Participant.ID, ben.Msg.Participant.ID},
	}})
	withToken(expenseReq)
	_, err = ledger.CreateExpense(ctx, expenseReq)
	require.NoError(t, err)

	settleReq := connect.NewRequest(&api.GetSettlementsRequest{EventID: created.Msg.Event.ID})
	withToken(settleReq)
	settled, err := ledger.GetSettlements(ctx, settleReq)
	require.NoError(t, err)
	require.Len(t, settled.Msg.Settlements, 1)
	assert.Equal(t, "Ben", settled.Msg.Settlements[0].FromName)
	assert.Equal(t, "Ana", settled.Msg.Settlements[0].ToName)
	assert.Equal(t, 45.0, settled.Msg.Settlements[0].Amount)
}

func TestHealthAndMetrics(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "lessmo_ledger_cached_balance_drift_total")
}

func TestMetricsDisabled(t *testing.T) {
	_, ts := newTestServer(t, func(c *config.Config) { c.Metrics.Enabled = false })

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	_, ts := newTestServer(t, func(c *config.Config) {
		c.Server.AllowedOrigins = []string{"https://app.example.com"}
	})

	preflight := func(origin string) *http.Response {
		req, err := http.NewRequest(http.MethodOptions, ts.URL+apiconnect.LedgerServiceGetBalancesProcedure, nil)
		require.NoError(t, err)
		req.Header.Set("Origin", origin)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp
	}

	resp := preflight("https://app.example.com")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Authorization")

	resp = preflight("https://evil.example.com")
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRunShutsDownOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	srv, _ := newTestServer(t, func(c *config.Config) {
		c.Server.Addr = addr
		c.Server.ShutdownTimeout = config.Duration{Duration: time.Second}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
