package calculator

import (
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/lessmo/internal/models"
)

func TestComputeBalances(t *testing.T) {
	tests := []struct {
		name         string
		participants []models.Participant
		expenses     []models.Expense
		want         map[string]string
	}{
		{
			name:         "equal split",
			participants: people("U1", "U2"),
			expenses:     []models.Expense{equalExpense("e1", "U1", "100", "U1", "U2")},
			want:         map[string]string{"U1": "50", "U2": "-50"},
		},
		{
			name:         "custom split",
			participants: people("U1", "U2"),
			expenses: []models.Expense{{
				ID: "e1", PaidBy: "U1", Amount: dec("100"), ParticipantIDs: []string{"U1", "U2"},
				SplitType:    models.SplitCustom,
				CustomSplits: map[string]decimal.Decimal{"U1": dec("30"), "U2": dec("70")},
			}},
			want: map[string]string{"U1": "70", "U2": "-70"},
		},
		{
			name:         "percentage split",
			participants: people("U1", "U2"),
			expenses: []models.Expense{{
				ID: "e1", PaidBy: "U1", Amount: dec("100"), ParticipantIDs: []string{"U1", "U2"},
				SplitType:        models.SplitPercentage,
				PercentageSplits: map[string]decimal.Decimal{"U1": dec("40"), "U2": dec("60")},
			}},
			want: map[string]string{"U1": "60", "U2": "-60"},
		},
		{
			// shares of the 50.00 expense are 16.67, 16.67, 16.66
			name:         "three way uneven",
			participants: people("U1", "U2", "U3"),
			expenses: []models.Expense{
				equalExpense("e1", "U1", "300", "U1", "U2", "U3"),
				equalExpense("e2", "U2", "150", "U1", "U2", "U3"),
				equalExpense("e3", "U3", "50", "U1", "U2", "U3"),
			},
			want: map[string]string{"U1": "133.33", "U2": "-16.67", "U3": "-116.66"},
		},
		{
			name:         "multi expense aggregation",
			participants: people("U1", "U2"),
			expenses: []models.Expense{
				equalExpense("a", "U1", "100", "U1", "U2"),
				equalExpense("b", "U2", "60", "U1", "U2"),
			},
			want: map[string]string{"U1": "20", "U2": "-20"},
		},
		{
			name:         "payer outside the split",
			participants: people("U1", "U2", "U3"),
			expenses:     []models.Expense{equalExpense("e1", "U1", "90", "U2", "U3")},
			want:         map[string]string{"U1": "90", "U2": "-45", "U3": "-45"},
		},
		{
			name:         "participant without expenses",
			participants: people("U1", "U2", "U3"),
			expenses:     []models.Expense{equalExpense("e1", "U1", "100", "U1", "U2")},
			want:         map[string]string{"U1": "50", "U2": "-50", "U3": "0"},
		},
		{
			name:         "no expenses",
			participants: people("U1", "U2"),
			want:         map[string]string{"U1": "0", "U2": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances, err := ComputeBalances(tt.expenses, tt.participants)
			require.NoError(t, err)
			require.Len(t, balances, len(tt.want))
			for id, want := range tt.want {
				assertDecimal(t, want, balanceOf(t, balances, id).Balance, id)
			}
			assertDecimal(t, "0", SumBalances(balances))
		})
	}
}

func TestComputeBalancesTotals(t *testing.T) {
	balances, err := ComputeBalances([]models.Expense{
		equalExpense("a", "U1", "100", "U1", "U2"),
		equalExpense("b", "U2", "60", "U1", "U2"),
	}, people("U2", "U1"))
	require.NoError(t, err)

	require.Len(t, balances, 2)
	assert.Equal(t, "U1", balances[0].ParticipantID, "balances are sorted by id")
	assert.Equal(t, "User U1", balances[0].Name)
	assertDecimal(t, "100", balances[0].TotalPaid)
	assertDecimal(t, "80", balances[0].TotalOwed)
	assertDecimal(t, "60", balances[1].TotalPaid)
	assertDecimal(t, "80", balances[1].TotalOwed)
}

func TestComputeBalancesErrors(t *testing.T) {
	tests := []struct {
		name         string
		participants []models.Participant
		expenses     []models.Expense
		wantErr      any
	}{
		{
			name:         "invalid custom split",
			participants: people("U1", "U2"),
			expenses: []models.Expense{
				equalExpense("ok", "U1", "10", "U1", "U2"),
				{
					ID: "bad", PaidBy: "U1", Amount: dec("100"), ParticipantIDs: []string{"U1", "U2"},
					SplitType:    models.SplitCustom,
					CustomSplits: map[string]decimal.Decimal{"U1": dec("30"), "U2": dec("60")},
				},
			},
			wantErr: &InvalidSplitError{},
		},
		{
			name:         "payer is not a participant",
			participants: people("U1", "U2"),
			expenses:     []models.Expense{equalExpense("e1", "U9", "100", "U1", "U2")},
			wantErr:      &InvalidExpenseError{},
		},
		{
			name:         "beneficiary is not a participant",
			participants: people("U1", "U2"),
			expenses:     []models.Expense{equalExpense("e1", "U1", "100", "U1", "U9")},
			wantErr:      &InvalidExpenseError{},
		},
		{
			name:         "empty participant set",
			participants: people("U1"),
			expenses:     []models.Expense{equalExpense("e1", "U1", "100")},
			wantErr:      &EmptyParticipantSetError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances, err := ComputeBalances(tt.expenses, tt.participants)
			require.Error(t, err)
			assert.IsType(t, tt.wantErr, err)
			assert.Nil(t, balances)
		})
	}

	t.Run("duplicate participant", func(t *testing.T) {
		_, err := ComputeBalances(nil, people("U1", "U1"))
		assert.Error(t, err)
	})
}

func TestDeletingAnExpenseRestoresBalances(t *testing.T) {
	participants := people("U1", "U2", "U3")
	base := []models.Expense{
		equalExpense("a", "U1", "100", "U1", "U2", "U3"),
		equalExpense("b", "U2", "10.01", "U1", "U2", "U3"),
	}
	extra := equalExpense("c", "U3", "77.77", "U1", "U2", "U3")

	before, err := ComputeBalances(base, participants)
	require.NoError(t, err)

	_, err = ComputeBalances(append(append([]models.Expense(nil), base...), extra), participants)
	require.NoError(t, err)

	after, err := ComputeBalances(base, participants)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestEditingAnExpenseMatchesFreshLedger(t *testing.T) {
	participants := people("U1", "U2")
	original := []models.Expense{
		equalExpense("a", "U1", "100", "U1", "U2"),
		equalExpense("b", "U2", "60", "U1", "U2"),
	}
	edited := append([]models.Expense(nil), original...)
	edited[0] = models.Expense{
		ID: "a", PaidBy: "U1", Amount: dec("100"), ParticipantIDs: []string{"U1", "U2"},
		SplitType:    models.SplitCustom,
		CustomSplits: map[string]decimal.Decimal{"U1": dec("10"), "U2": dec("90")},
	}

	balances, err := ComputeBalances(edited, participants)
	require.NoError(t, err)

	// U1: paid 100, owes 10 + 30 = 40
	assertDecimal(t, "60", balanceOf(t, balances, "U1").Balance)
	assertDecimal(t, "-60", balanceOf(t, balances, "U2").Balance)
}

func TestBalancesAlwaysSumToZero(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 1024))
	for i := 0; i < 500; i++ {
		participants, expenses := randomLedger(r)
		balances, err := ComputeBalances(expenses, participants)
		require.NoError(t, err)
		assert.True(t, SumBalances(balances).IsZero(), "iteration %d: sum %s", i, SumBalances(balances))
	}
}

func TestApplyPayments(t *testing.T) {
	balances, err := ComputeBalances(
		[]models.Expense{equalExpense("e1", "U1", "100", "U1", "U2")},
		people("U1", "U2"),
	)
	require.NoError(t, err)

	t.Run("full payment settles the event", func(t *testing.T) {
		got, err := ApplyPayments(balances, []models.Payment{
			{ID: "p1", FromID: "U2", ToID: "U1", Amount: dec("50")},
		})
		require.NoError(t, err)
		assertDecimal(t, "0", balanceOf(t, got, "U1").Balance)
		assertDecimal(t, "0", balanceOf(t, got, "U2").Balance)

		settlements, err := ComputeSettlements(got)
		require.NoError(t, err)
		assert.Empty(t, settlements)
	})

	t.Run("partial payment", func(t *testing.T) {
		got, err := ApplyPayments(balances, []models.Payment{
			{ID: "p1", FromID: "U2", ToID: "U1", Amount: dec("20")},
		})
		require.NoError(t, err)
		assertDecimal(t, "30", balanceOf(t, got, "U1").Balance)
		assertDecimal(t, "-30", balanceOf(t, got, "U2").Balance)
		assertDecimal(t, "0", SumBalances(got))
	})

	t.Run("input is not modified", func(t *testing.T) {
		_, err := ApplyPayments(balances, []models.Payment{
			{ID: "p1", FromID: "U2", ToID: "U1", Amount: dec("50")},
		})
		require.NoError(t, err)
		assertDecimal(t, "50", balanceOf(t, balances, "U1").Balance)
	})

	invalid := []struct {
		name    string
		payment models.Payment
	}{
		{"zero amount", models.Payment{ID: "p", FromID: "U2", ToID: "U1", Amount: dec("0")}},
		{"negative amount", models.Payment{ID: "p", FromID: "U2", ToID: "U1", Amount: dec("-5")}},
		{"self payment", models.Payment{ID: "p", FromID: "U1", ToID: "U1", Amount: dec("5")}},
		{"unknown payer", models.Payment{ID: "p", FromID: "U9", ToID: "U1", Amount: dec("5")}},
		{"unknown payee", models.Payment{ID: "p", FromID: "U2", ToID: "U9", Amount: dec("5")}},
		{"amount out of range", models.Payment{ID: "p", FromID: "U2", ToID: "U1", Amount: dec("1e20")}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyPayments(balances, []models.Payment{tt.payment})
			require.Error(t, err)
			assert.IsType(t, &InvalidPaymentError{}, err)
			assert.True(t, IsValidationError(err))
			assert.Nil(t, got)
		})
	}
}
