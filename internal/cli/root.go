// Package cli implements the lessmo command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/lessmo/internal/snapshot"
	"github.com/mmynk/lessmo/internal/storage"
)

// NewRootCmd builds the lessmo command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lessmo",
		Short: "Shared expense ledger with minimal settlements",
		Long: `lessmo tracks shared expenses within an event and works out who owes whom.

Run the API server with 'lessmo serve', or balance and settle an event
snapshot offline with 'lessmo balances' and 'lessmo settle'.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newBalancesCmd())
	root.AddCommand(newSettleCmd())
	root.AddCommand(newBudgetCmd())
	return root
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

// addSnapshotFlags registers the flags shared by the offline commands.
func addSnapshotFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Event snapshot (.toml or .json)")
	cmd.Flags().Bool("json", false, "Print JSON instead of a table")
	cmd.MarkFlagRequired("file")
}

func loadLedger(cmd *cobra.Command) (*storage.Ledger, error) {
	path, _ := cmd.Flags().GetString("file")
	s, err := snapshot.Load(path)
	if err != nil {
		return nil, err
	}
	return s.Ledger()
}

func wantJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
}

// row writes tab separated cells. A trailing tab keeps the last column
// right-aligned.
func row(w io.Writer, cells ...any) {
	for _, c := range cells {
		fmt.Fprintf(w, "%v\t", c)
	}
	fmt.Fprintln(w)
}
