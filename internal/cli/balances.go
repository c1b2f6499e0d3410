package cli

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mmynk/lessmo/internal/calculator"
)

func newBalancesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Print every participant's balance in a snapshot",
		Long: `Recompute each participant's balance from the snapshot's expenses.
A positive balance means the participant is owed money. When the snapshot
records payments, the OUTSTANDING column shows what is left after them.`,
		Args: cobra.NoArgs,
		RunE: runBalances,
	}
	addSnapshotFlags(cmd)
	return cmd
}

type balanceRow struct {
	ParticipantID string          `json:"participant_id"`
	Name          string          `json:"name"`
	Paid          decimal.Decimal `json:"paid"`
	Owed          decimal.Decimal `json:"owed"`
	Balance       decimal.Decimal `json:"balance"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

func runBalances(cmd *cobra.Command, _ []string) error {
	ledger, err := loadLedger(cmd)
	if err != nil {
		return err
	}
	balances, err := calculator.ComputeBalances(ledger.Expenses, ledger.Participants)
	if err != nil {
		return err
	}
	outstanding, err := calculator.ApplyPayments(balances, ledger.Payments)
	if err != nil {
		return err
	}

	rows := make([]balanceRow, len(balances))
	for i, b := range balances {
		rows[i] = balanceRow{
			ParticipantID: b.ParticipantID,
			Name:          b.Name,
			Paid:          b.TotalPaid,
			Owed:          b.TotalOwed,
			Balance:       b.Balance,
			Outstanding:   outstanding[i].Balance,
		}
	}

	out := cmd.OutOrStdout()
	if wantJSON(cmd) {
		return printJSON(out, rows)
	}

	withPayments := len(ledger.Payments) > 0
	tw := newTable(out)
	if withPayments {
		row(tw, "NAME", "PAID", "OWED", "BALANCE", "OUTSTANDING")
	} else {
		row(tw, "NAME", "PAID", "OWED", "BALANCE")
	}
	for _, r := range rows {
		cells := []any{r.Name, r.Paid.StringFixed(2), r.Owed.StringFixed(2), r.Balance.StringFixed(2)}
		if withPayments {
			cells = append(cells, r.Outstanding.StringFixed(2))
		}
		row(tw, cells...)
	}
	return tw.Flush()
}
