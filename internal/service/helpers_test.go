package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/lessmo/internal/middleware"
	"github.com/mmynk/lessmo/internal/models"
	"github.com/mmynk/lessmo/internal/storage/sqlite"
	"github.com/mmynk/lessmo/pkg/api"
	"github.com/mmynk/lessmo/pkg/api/apiconnect"
)

const testUserHeader = "X-Test-User"

// testAuthInterceptor trusts the user named in the test header.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if userID := req.Header().Get(testUserHeader); userID != "" {
				ctx = middleware.WithUser(ctx, userID, userID+"@example.com")
			}
			return next(ctx, req)
		}
	}
}

type testEnv struct {
	client  apiconnect.LedgerServiceClient
	store   *sqlite.SQLiteStore
	service *LedgerService
}

// newTestEnv starts a LedgerService on a fresh SQLite database with the
// users alice, bob and mallory registered.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	for _, id := range []string{"alice", "bob", "mallory"} {
		user := models.NewUser(id+"@example.com", id, "hash")
		user.ID = id
		require.NoError(t, store.CreateUser(context.Background(), user))
	}

	svc := NewLedgerService(store, slog.New(slog.DiscardHandler))
	path, handler := apiconnect.NewLedgerServiceHandler(
		svc,
		connect.WithInterceptors(testAuthInterceptor()),
	)
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		client:  apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL),
		store:   store,
		service: svc,
	}
}

// as builds a request made by the given user.
func as[T any](userID string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if userID != "" {
		req.Header().Set(testUserHeader, userID)
	}
	return req
}

// newEvent creates an event owned by alice with participants named after
// the given names (alice's own participant first) and returns their IDs.
func (e *testEnv) newEvent(t *testing.T, budget float64, names ...string) (string, []string) {
	t.Helper()
	ctx := context.Background()

	created, err := e.client.CreateEvent(ctx, as("alice", &api.CreateEventRequest{
		Name: "Trip", Currency: "eur", Budget: budget,
	}))
	require.NoError(t, err)

	eventID := created.Msg.Event.ID
	ids := []string{created.Msg.Participant.ID}
	for _, name := range names {
		added, err := e.client.AddParticipant(ctx, as("alice", &api.AddParticipantRequest{EventID: eventID, Name: name}))
		require.NoError(t, err)
		ids = append(ids, added.Msg.Participant.ID)
	}
	return eventID, ids
}

func (e *testEnv) addExpense(t *testing.T, expense *api.Expense) *api.ExpenseResponse {
	t.Helper()
	resp, err := e.client.CreateExpense(context.Background(), as("alice", &api.CreateExpenseRequest{Expense: expense}))
	require.NoError(t, err)
	return resp.Msg
}

func balanceByID(balances []*api.Balance) map[string]float64 {
	out := make(map[string]float64, len(balances))
	for _, b := range balances {
		out[b.ParticipantID] = b.Balance
	}
	return out
}
