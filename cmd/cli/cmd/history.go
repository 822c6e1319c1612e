// Package cmd - history command
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"printquote/core/ui"
	"printquote/db"
)

var (
	historyLimit int
	historyJSON  bool
	historyHash  string
)

// historyCmd lists issued quotes from the ledger
var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "List issued quotes",
	Long: `List quotes recorded with --issue, newest first, or show one by ID.

Examples:
  printquote history
  printquote history --limit 10
  printquote history --input-hash 3f9a...
  printquote history 7d7a3a4e-54a5-4c1e-9a43-3f6f2f7e2b10 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum quotes to list")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print entries as JSON")
	historyCmd.Flags().StringVar(&historyHash, "input-hash", "", "list quotes issued for this input hash")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ledger, conn, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	var entries []*db.Entry
	switch {
	case len(args) == 1:
		e, err := ledger.Get(ctx, args[0])
		if err != nil {
			return err
		}
		entries = []*db.Entry{e}
	case historyHash != "":
		entries, err = ledger.FindByInputHash(ctx, historyHash)
	default:
		entries, err = ledger.List(ctx, historyLimit)
	}
	if err != nil {
		return err
	}

	if historyJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	out := ui.NewWriter(cmd.OutOrStdout(), noColor)
	if len(entries) == 0 {
		out.Println("No issued quotes.")
		return nil
	}
	tbl := out.NewTable("ID", "Issued", "Reference", "Job", "Payable").AlignRight(4)
	for _, e := range entries {
		spec := e.Result.Specification
		tbl.AddRow(
			e.ID.String(),
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			e.Reference,
			fmt.Sprintf("%d %s", spec.Quantity, spec.Product),
			e.Result.Payable().StringFixed(2),
		)
	}
	tbl.Render()
	return nil
}
