package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/lessmo/internal/models"
	"github.com/mmynk/lessmo/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seedEvent creates an event with the given participant names and returns
// the event and participant IDs in order.
func seedEvent(t *testing.T, store *SQLiteStore, names ...string) (*models.Event, []string) {
	t.Helper()
	ctx := context.Background()

	event := &models.Event{Name: "Trip", Currency: "EUR", Budget: dec("500"), CreatedBy: "user-1"}
	require.NoError(t, store.CreateEvent(ctx, event))

	ids := make([]string, len(names))
	for i, name := range names {
		p := &models.Participant{EventID: event.ID, Name: name}
		require.NoError(t, store.AddParticipant(ctx, p))
		ids[i] = p.ID
	}
	return event, ids
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateEvent generates ID and timestamp", func(t *testing.T) {
		event := &models.Event{Name: "Ibiza", Currency: "EUR", CreatedBy: "user-1"}
		require.NoError(t, store.CreateEvent(ctx, event))

		assert.NotEmpty(t, event.ID)
		assert.NotZero(t, event.CreatedAt)

		got, err := store.GetEvent(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ibiza", got.Name)
		assert.Equal(t, "EUR", got.Currency)
		assert.True(t, got.Budget.IsZero())
	})

	t.Run("GetEvent returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetEvent(ctx, "nonexistent-id")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("participants keep join order and decimals", func(t *testing.T) {
		event, ids := seedEvent(t, store, "Ana", "Ben")

		guest := &models.Participant{EventID: event.ID, Name: "Cal", UserID: "user-9", IndividualBudget: dec("120.50")}
		require.NoError(t, store.AddParticipant(ctx, guest))

		participants, err := store.ListParticipants(ctx, event.ID)
		require.NoError(t, err)
		require.Len(t, participants, 3)
		assert.Equal(t, ids[0], participants[0].ID)
		assert.Equal(t, ids[1], participants[1].ID)
		assert.Equal(t, "", participants[0].UserID)
		assert.Equal(t, "user-9", participants[2].UserID)
		assert.True(t, dec("120.50").Equal(participants[2].IndividualBudget))
	})

	t.Run("AddParticipant to missing event", func(t *testing.T) {
		err := store.AddParticipant(ctx, &models.Participant{EventID: "missing", Name: "Ghost"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("UpdateParticipantBalance", func(t *testing.T) {
		_, ids := seedEvent(t, store, "Ana")

		require.NoError(t, store.UpdateParticipantBalance(ctx, ids[0], dec("-16.67")))

		p, err := store.GetParticipant(ctx, ids[0])
		require.NoError(t, err)
		assert.True(t, dec("-16.67").Equal(p.CurrentBalance), "got %s", p.CurrentBalance)

		err = store.UpdateParticipantBalance(ctx, "missing", dec("1"))
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("DeleteParticipant", func(t *testing.T) {
		_, ids := seedEvent(t, store, "Ana")

		require.NoError(t, store.DeleteParticipant(ctx, ids[0]))
		_, err := store.GetParticipant(ctx, ids[0])
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.DeleteParticipant(ctx, ids[0]), storage.ErrNotFound)
	})
}

func TestExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	event, ids := seedEvent(t, store, "Ana", "Ben", "Cal")

	t.Run("round trips every split document", func(t *testing.T) {
		originals := []*models.Expense{
			{
				EventID: event.ID, Description: "Taxi", PaidBy: ids[0], Amount: dec("30"),
				ParticipantIDs: ids, SplitType: models.SplitEqual, CreatedBy: "user-1",
			},
			{
				EventID: event.ID, Description: "Hotel", Category: "lodging", PaidBy: ids[1], Amount: dec("100"),
				ParticipantIDs: ids[:2], SplitType: models.SplitCustom, CreatedBy: "user-1",
				CustomSplits: map[string]decimal.Decimal{ids[0]: dec("30.25"), ids[1]: dec("69.75")},
			},
			{
				EventID: event.ID, Description: "Boat", PaidBy: ids[2], Amount: dec("90"),
				ParticipantIDs: ids, SplitType: models.SplitPercentage, CreatedBy: "user-1",
				PercentageSplits: map[string]decimal.Decimal{ids[0]: dec("50"), ids[1]: dec("25"), ids[2]: dec("25")},
			},
			{
				EventID: event.ID, Description: "Dinner", PaidBy: ids[0], Amount: dec("30"),
				ParticipantIDs: ids[:2], SplitType: models.SplitItems, CreatedBy: "user-1",
				Items: []models.ExpenseItem{
					{Name: "Pizza", Price: dec("20"), AssignedTo: ids[:2]},
					{Name: "Salad", Price: dec("10"), AssignedTo: ids[:1]},
				},
			},
		}

		for _, e := range originals {
			require.NoError(t, store.CreateExpense(ctx, e))
			assert.NotEmpty(t, e.ID)
			assert.NotZero(t, e.CreatedAt)
		}

		listed, err := store.ListExpenses(ctx, event.ID)
		require.NoError(t, err)
		require.Len(t, listed, len(originals))

		for i, got := range listed {
			want := originals[i]
			assert.Equal(t, want.ID, got.ID, "creation order")
			assert.Equal(t, want.Description, got.Description)
			assert.Equal(t, want.Category, got.Category)
			assert.Equal(t, want.SplitType, got.SplitType)
			assert.Equal(t, want.ParticipantIDs, got.ParticipantIDs)
			assert.True(t, want.Amount.Equal(got.Amount))
			assert.Len(t, got.CustomSplits, len(want.CustomSplits))
			for id, amount := range want.CustomSplits {
				assert.True(t, amount.Equal(got.CustomSplits[id]), "custom split of %s", id)
			}
			assert.Len(t, got.PercentageSplits, len(want.PercentageSplits))
			for id, pct := range want.PercentageSplits {
				assert.True(t, pct.Equal(got.PercentageSplits[id]), "percentage of %s", id)
			}
			require.Len(t, got.Items, len(want.Items))
			for j, item := range got.Items {
				assert.NotEmpty(t, item.ID)
				assert.Equal(t, want.Items[j].Name, item.Name)
				assert.True(t, want.Items[j].Price.Equal(item.Price))
				assert.Equal(t, want.Items[j].AssignedTo, item.AssignedTo)
			}
		}
	})

	t.Run("UpdateExpense replaces the split", func(t *testing.T) {
		e := &models.Expense{
			EventID: event.ID, Description: "Lunch", PaidBy: ids[0], Amount: dec("40"),
			ParticipantIDs: ids[:2], SplitType: models.SplitEqual, CreatedBy: "user-1",
		}
		require.NoError(t, store.CreateExpense(ctx, e))

		e.Amount = dec("50")
		e.SplitType = models.SplitCustom
		e.CustomSplits = map[string]decimal.Decimal{ids[0]: dec("10"), ids[1]: dec("40")}
		require.NoError(t, store.UpdateExpense(ctx, e))

		got, err := store.GetExpense(ctx, e.ID)
		require.NoError(t, err)
		assert.True(t, dec("50").Equal(got.Amount))
		assert.Equal(t, models.SplitCustom, got.SplitType)
		assert.True(t, dec("40").Equal(got.CustomSplits[ids[1]]))
		assert.Equal(t, e.CreatedAt, got.CreatedAt)
	})

	t.Run("missing expenses", func(t *testing.T) {
		_, err := store.GetExpense(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.UpdateExpense(ctx, &models.Expense{ID: "missing"}), storage.ErrNotFound)
		assert.ErrorIs(t, store.DeleteExpense(ctx, "missing"), storage.ErrNotFound)
	})

	t.Run("DeleteExpense", func(t *testing.T) {
		e := &models.Expense{
			EventID: event.ID, Description: "Snacks", PaidBy: ids[0], Amount: dec("5"),
			ParticipantIDs: ids[:1], SplitType: models.SplitEqual, CreatedBy: "user-1",
		}
		require.NoError(t, store.CreateExpense(ctx, e))
		require.NoError(t, store.DeleteExpense(ctx, e.ID))

		_, err := store.GetExpense(ctx, e.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestPayments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	event, ids := seedEvent(t, store, "Ana", "Ben")

	first := &models.Payment{EventID: event.ID, FromID: ids[1], ToID: ids[0], Amount: dec("20"), CreatedBy: "user-1"}
	second := &models.Payment{EventID: event.ID, FromID: ids[1], ToID: ids[0], Amount: dec("5.55"), Note: "coffee", CreatedBy: "user-1"}
	require.NoError(t, store.CreatePayment(ctx, first))
	require.NoError(t, store.CreatePayment(ctx, second))

	payments, err := store.ListPayments(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, first.ID, payments[0].ID)
	assert.Equal(t, "", payments[0].Note)
	assert.Equal(t, "coffee", payments[1].Note)
	assert.True(t, dec("5.55").Equal(payments[1].Amount))

	got, err := store.GetPayment(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, ids[1], got.FromID)

	require.NoError(t, store.DeletePayment(ctx, first.ID))
	assert.ErrorIs(t, store.DeletePayment(ctx, first.ID), storage.ErrNotFound)

	err = store.CreatePayment(ctx, &models.Payment{EventID: "missing", FromID: "a", ToID: "b", Amount: dec("1")})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLoadLedger(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	event, ids := seedEvent(t, store, "Ana", "Ben")

	require.NoError(t, store.CreateExpense(ctx, &models.Expense{
		EventID: event.ID, Description: "Taxi", PaidBy: ids[0], Amount: dec("30"),
		ParticipantIDs: ids, SplitType: models.SplitEqual, CreatedBy: "user-1",
	}))
	require.NoError(t, store.CreatePayment(ctx, &models.Payment{
		EventID: event.ID, FromID: ids[1], ToID: ids[0], Amount: dec("15"), CreatedBy: "user-1",
	}))

	// another event must not leak into the ledger
	other, otherIDs := seedEvent(t, store, "Zed")
	require.NoError(t, store.CreateExpense(ctx, &models.Expense{
		EventID: other.ID, Description: "Other", PaidBy: otherIDs[0], Amount: dec("1"),
		ParticipantIDs: otherIDs, SplitType: models.SplitEqual, CreatedBy: "user-1",
	}))

	ledger, err := store.LoadLedger(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, ledger.Event.ID)
	assert.True(t, dec("500").Equal(ledger.Event.Budget))
	assert.Len(t, ledger.Participants, 2)
	assert.Len(t, ledger.Expenses, 1)
	assert.Len(t, ledger.Payments, 1)

	_, err = store.LoadLedger(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("Ana@Example.com", "Ana", "hash")
	require.NoError(t, store.CreateUser(ctx, user))

	got, err := store.GetUserByEmail(ctx, "  ANA@example.com ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	got, err = store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", got.Email)

	_, err = store.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = store.CreateUser(ctx, models.NewUser("ana@example.com", "Imposter", "hash"))
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
}
