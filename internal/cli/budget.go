package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/lessmo/internal/calculator"
)

func newBudgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Compare a snapshot's spending with its budgets",
		Args:  cobra.NoArgs,
		RunE:  runBudget,
	}
	addSnapshotFlags(cmd)
	return cmd
}

func runBudget(cmd *cobra.Command, _ []string) error {
	ledger, err := loadLedger(cmd)
	if err != nil {
		return err
	}
	summary, err := calculator.SummarizeBudget(ledger.Event.Budget, ledger.Expenses, ledger.Participants)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if wantJSON(cmd) {
		return printJSON(out, summary)
	}

	if summary.Budget.IsPositive() {
		fmt.Fprintf(out, "Spent %s of %s %s (%s%%)\n",
			summary.TotalSpent.StringFixed(2), summary.Budget.StringFixed(2),
			ledger.Event.Currency, summary.PercentageUsed.StringFixed(2))
		if summary.OverBudget {
			fmt.Fprintf(out, "Over budget by %s\n", summary.Remaining.Neg().StringFixed(2))
		}
	} else {
		fmt.Fprintf(out, "Spent %s %s (no event budget)\n", summary.TotalSpent.StringFixed(2), ledger.Event.Currency)
	}

	tw := newTable(out)
	row(tw, "NAME", "SPENT", "BUDGET", "REMAINING", "")
	for _, p := range summary.Participants {
		budget, remaining, flag := "-", "-", ""
		if p.Budget.IsPositive() {
			budget, remaining = p.Budget.StringFixed(2), p.Remaining.StringFixed(2)
			if p.OverBudget {
				flag = "over"
			}
		}
		row(tw, p.Name, p.Spent.StringFixed(2), budget, remaining, flag)
	}
	return tw.Flush()
}
