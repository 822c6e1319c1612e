// Package cmd - quote command
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"printquote/adapters/jobfile"
	"printquote/core/determinism"
	"printquote/core/output"
	"printquote/core/types"
	"printquote/db"
	"printquote/internal/config"
	"printquote/internal/logging"
)

var quoteOpts struct {
	quantity  int
	product   string
	size      string
	color     string
	stock     string
	pages     int
	nUp       int
	mailing   bool
	eddm      bool
	file      string
	job       string
	format    string
	breakdown bool
	issue     bool
	reference string
}

// quoteCmd represents the quote command
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a print job",
	Long: `Price one job from flags, or every job in an HCL job file or directory.

A quote that fails any QA check is withheld: its failing checks are shown
and no price is printed. The command then exits non-zero.

Examples:
  printquote quote -q 500 -p postcard -s 6x9 -c 4/4
  printquote quote -q 4432 -p booklet -s 5.5x8.5 -c 4/4 --pages 16 --stock "80# Gloss Text"
  printquote quote -q 2000 -p postcard -s 6x9 -c 4/4 --mailing --eddm
  printquote quote --file ./jobs --format json
  printquote quote --file jobs.hcl --job spring_postcards --issue --reference PO-1182`,
	Args: cobra.NoArgs,
	RunE: runQuote,
}

func init() {
	f := quoteCmd.Flags()
	f.IntVarP(&quoteOpts.quantity, "quantity", "q", 0, "number of finished pieces")
	f.StringVarP(&quoteOpts.product, "product", "p", "", "product (postcard, flyer, brochure, booklet, letter, envelope)")
	f.StringVarP(&quoteOpts.size, "size", "s", "", "finished size in inches, e.g. 6x9")
	f.StringVarP(&quoteOpts.color, "color", "c", "", "ink (4/4, 4/0, 1/1, 1/0)")
	f.StringVar(&quoteOpts.stock, "stock", "", "paper stock (default depends on product)")
	f.IntVar(&quoteOpts.pages, "pages", 0, "booklet page count including covers")
	f.IntVar(&quoteOpts.nUp, "n-up", 0, "letters per sheet")
	f.BoolVar(&quoteOpts.mailing, "mailing", false, "add mailing services")
	f.BoolVar(&quoteOpts.eddm, "eddm", false, "mail as Every Door Direct Mail (implies --mailing)")
	f.StringVar(&quoteOpts.file, "file", "", "HCL job file or directory of job files")
	f.StringVar(&quoteOpts.job, "job", "", "quote only the named job from --file")
	f.StringVarP(&quoteOpts.format, "format", "f", "", "output format (text, json)")
	f.BoolVar(&quoteOpts.breakdown, "breakdown", true, "show the cost breakdown")
	f.BoolVar(&quoteOpts.issue, "issue", false, "record quotes that pass QA in the ledger")
	f.StringVar(&quoteOpts.reference, "reference", "", "customer reference stored with issued quotes")
}

// namedSpec is a specification with a display label
type namedSpec struct {
	label string
	spec  types.Specification
}

func runQuote(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Get()

	formatName := quoteOpts.format
	if formatName == "" {
		formatName = cfg.Output.DefaultFormat
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}
	breakdown := quoteOpts.breakdown
	if !cmd.Flags().Changed("breakdown") {
		breakdown = cfg.Output.ShowBreakdown
	}
	formatter, err := output.New(format, output.Options{NoColor: noColor, ShowBreakdown: breakdown})
	if err != nil {
		return err
	}

	jobs, err := collectJobs()
	if err != nil {
		return err
	}

	var ledger *db.Ledger
	if quoteOpts.issue {
		l, conn, err := openLedger(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()
		ledger = l
	}

	return quoteAll(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), newEngine(), formatter, ledger, jobs)
}

// collectJobs builds the job list from --file or from flags
func collectJobs() ([]namedSpec, error) {
	if quoteOpts.file == "" {
		spec, err := specFromFlags()
		if err != nil {
			return nil, err
		}
		return []namedSpec{{spec: spec}}, nil
	}

	info, err := os.Stat(quoteOpts.file)
	if err != nil {
		return nil, fmt.Errorf("job file: %w", err)
	}
	parser := jobfile.NewParser()
	var parsed []jobfile.Job
	if info.IsDir() {
		parsed, err = parser.ParseDir(quoteOpts.file)
	} else {
		parsed, err = parser.ParseFile(quoteOpts.file)
	}
	if err != nil {
		return nil, err
	}

	var jobs []namedSpec
	for _, j := range parsed {
		if quoteOpts.job != "" && j.Name != quoteOpts.job {
			continue
		}
		jobs = append(jobs, namedSpec{label: fmt.Sprintf("%s (%s)", j.Name, j.Position()), spec: j.Spec})
	}
	if len(jobs) == 0 {
		if quoteOpts.job != "" {
			return nil, fmt.Errorf("no job named %q in %s", quoteOpts.job, quoteOpts.file)
		}
		return nil, fmt.Errorf("no jobs found in %s", quoteOpts.file)
	}
	return jobs, nil
}

func specFromFlags() (types.Specification, error) {
	var spec types.Specification
	var err error

	if spec.Product, err = types.ParseProductType(quoteOpts.product); err != nil {
		return spec, err
	}
	if spec.Color, err = types.ParseColorMode(quoteOpts.color); err != nil {
		return spec, err
	}
	if spec.FinishedWidth, spec.FinishedHeight, err = types.ParseSize(quoteOpts.size); err != nil {
		return spec, err
	}
	spec.Quantity = quoteOpts.quantity
	spec.Stock = quoteOpts.stock
	spec.TotalPages = quoteOpts.pages
	spec.LetterNUp = quoteOpts.nUp
	spec.IsEDDM = quoteOpts.eddm
	spec.WantsMailing = quoteOpts.mailing || quoteOpts.eddm
	return spec, spec.Validate()
}

type quoter interface {
	Calculate(spec types.Specification) (*types.QuoteResult, error)
}

// quoteAll renders every job. Withheld quotes do not stop later jobs; the
// returned error reports how many were withheld.
func quoteAll(ctx context.Context, w, status io.Writer, q quoter, formatter output.Formatter, ledger *db.Ledger, jobs []namedSpec) error {
	withheld := 0
	for i, job := range jobs {
		if job.label != "" && formatter.Format() == output.FormatText {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "== %s\n", job.label)
		}

		result, err := q.Calculate(job.spec)
		if err != nil {
			if job.label != "" {
				return fmt.Errorf("%s: %w", job.label, err)
			}
			return err
		}

		err = formatter.Render(w, result)
		switch {
		case errors.Is(err, output.ErrWithheld):
			withheld++
			logging.Warn("quote withheld",
				zap.String("job", job.label),
				zap.Int("failed_checks", result.QA.FailedCount),
			)
			continue
		case err != nil:
			return err
		}

		if ledger != nil {
			entry, err := ledger.Record(ctx, result, quoteOpts.reference)
			if err != nil {
				return err
			}
			fmt.Fprintf(status, "Issued quote %s (input %s)\n", entry.ID, determinism.InputHash(job.spec).String())
		}
	}

	if withheld > 0 {
		return fmt.Errorf("%d of %d quotes withheld: %w", withheld, len(jobs), output.ErrWithheld)
	}
	return nil
}
