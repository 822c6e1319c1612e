// Package cmd - batch command
package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"printquote/adapters/workbook"
	"printquote/core/ui"
	"printquote/internal/logging"
)

// batchCmd quotes every row of a spreadsheet
var batchCmd = &cobra.Command{
	Use:   "batch <jobs.xlsx> <quotes.xlsx>",
	Short: "Quote every job in a spreadsheet",
	Long: `Read jobs from the "Jobs" sheet (or the first sheet) of a workbook and
write a "Quotes" workbook with price, margin, QA status and notes per row.

Recognised columns: Job, Quantity, Product, Size, Color, Stock, Pages,
N-Up, Mailing, EDDM. Quantity, Product, Size and Color are required.`,
	Args: cobra.ExactArgs(2),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	rows, err := workbook.ReadJobs(in)
	if err != nil {
		return err
	}

	out := ui.NewWriter(cmd.OutOrStdout(), noColor)
	bar := out.NewProgressBar(len(rows), "Quoting")
	outcomes, sum, err := workbook.Quote(cmd.Context(), newEngine(), rows, bar.Increment)
	bar.Done()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := workbook.WriteQuotes(&buf, outcomes); err != nil {
		return err
	}
	if err := os.WriteFile(args[1], buf.Bytes(), 0644); err != nil {
		return err
	}

	logging.Info("batch complete",
		zap.String("input", args[0]),
		zap.String("output", args[1]),
		zap.Int("jobs", sum.Jobs),
	)

	out.Success("Wrote %d quotes to %s", sum.Jobs, args[1])
	out.Println("  issued %d, withheld %d, errors %d", sum.Issued, sum.Withheld, sum.Failed)
	if sum.Failed > 0 || sum.Withheld > 0 {
		for _, o := range outcomes {
			switch o.Status() {
			case "error":
				out.Warning("row %d (%s): %v", o.Row.Number, o.Row.Name, o.Err)
			case "withheld":
				out.Warning("row %d (%s): withheld, %d QA checks failed", o.Row.Number, o.Row.Name, o.Result.QA.FailedCount)
			}
		}
		return fmt.Errorf("%d of %d rows not issued", sum.Failed+sum.Withheld, sum.Jobs)
	}
	return nil
}
