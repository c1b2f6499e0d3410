package cli

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mmynk/lessmo/internal/calculator"
)

func newSettleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Suggest the fewest transfers that settle a snapshot",
		Long: `Compute a short list of transfers that brings every outstanding balance
to zero. With --compare, also print the transfers needed if every expense
were paid back directly to its payer.`,
		Args: cobra.NoArgs,
		RunE: runSettle,
	}
	addSnapshotFlags(cmd)
	cmd.Flags().Bool("compare", false, "Compare with direct expense-by-expense repayment")
	return cmd
}

type transfer struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

type settleOutput struct {
	Currency    string      `json:"currency"`
	Settlements []transfer  `json:"settlements"`
	Comparison  *comparison `json:"comparison,omitempty"`
}

type comparison struct {
	Direct              []transfer      `json:"direct"`
	Optimized           []transfer      `json:"optimized"`
	TransactionsSaved   int             `json:"transactions_saved"`
	PercentageReduction decimal.Decimal `json:"percentage_reduction"`
}

func runSettle(cmd *cobra.Command, _ []string) error {
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
	settlements, err := calculator.ComputeSettlements(outstanding)
	if err != nil {
		return err
	}

	names := make(map[string]string, len(ledger.Participants))
	for _, p := range ledger.Participants {
		names[p.ID] = p.Name
	}
	result := settleOutput{
		Currency:    ledger.Event.Currency,
		Settlements: transfers(settlements, names),
	}

	if compare, _ := cmd.Flags().GetBool("compare"); compare {
		cmp, err := calculator.CompareSettlements(ledger.Expenses, ledger.Participants)
		if err != nil {
			return err
		}
		result.Comparison = &comparison{
			Direct:              transfers(cmp.Direct, names),
			Optimized:           transfers(cmp.Optimized, names),
			TransactionsSaved:   cmp.TransactionsSaved,
			PercentageReduction: cmp.PercentageReduction,
		}
	}

	out := cmd.OutOrStdout()
	if wantJSON(cmd) {
		return printJSON(out, result)
	}

	if len(result.Settlements) == 0 {
		fmt.Fprintln(out, "All settled up.")
	} else if err := printTransfers(out, result.Settlements, result.Currency); err != nil {
		return err
	}

	if cmp := result.Comparison; cmp != nil {
		fmt.Fprintf(out, "\nDirect repayment (%d transfers):\n", len(cmp.Direct))
		if err := printTransfers(out, cmp.Direct, result.Currency); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nOptimized: %d transfers, %d saved (%s%% fewer)\n",
			len(cmp.Optimized), cmp.TransactionsSaved, cmp.PercentageReduction.StringFixed(2))
	}
	return nil
}

func transfers(settlements []calculator.Settlement, names map[string]string) []transfer {
	out := make([]transfer, len(settlements))
	for i, s := range settlements {
		out[i] = transfer{From: names[s.From], To: names[s.To], Amount: s.Amount}
	}
	return out
}

func printTransfers(w io.Writer, list []transfer, currency string) error {
	tw := newTable(w)
	for _, t := range list {
		row(tw, t.From, "→", t.To, t.Amount.StringFixed(2), currency)
	}
	return tw.Flush()
}
