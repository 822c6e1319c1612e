// Package workbook quotes batches of jobs from spreadsheets and exports the
// shop's rate card for audit.
package workbook

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"printquote/core/output"
	"printquote/core/types"
	perrors "printquote/internal/errors"
)

// Sheet names
const (
	JobsSheet   = "Jobs"
	QuotesSheet = "Quotes"
)

// Quoter prices one specification
type Quoter interface {
	Calculate(spec types.Specification) (*types.QuoteResult, error)
}

// Row is one job read from the Jobs sheet
type Row struct {
	// Number is the 1-based spreadsheet row
	Number int
	Name   string
	Spec   types.Specification

	// Err is set when the row could not be read into a specification
	Err error
}

// Outcome is the quote, or the failure, for one row
type Outcome struct {
	Row    Row
	Result *types.QuoteResult
	Err    error
}

// Status is "issued", "withheld" or "error"
func (o Outcome) Status() string {
	if o.Err != nil {
		return "error"
	}
	return string(output.StatusOf(o.Result))
}

// Summary counts outcomes by status
type Summary struct {
	Jobs     int
	Issued   int
	Withheld int
	Failed   int
}

// column keys accepted in the Jobs header row
const (
	colName     = "name"
	colQuantity = "quantity"
	colProduct  = "product"
	colSize     = "size"
	colColor    = "color"
	colStock    = "stock"
	colPages    = "pages"
	colNUp      = "n_up"
	colMailing  = "mailing"
	colEDDM     = "eddm"
)

var headerAliases = map[string]string{
	"job":         colName,
	"name":        colName,
	"qty":         colQuantity,
	"quantity":    colQuantity,
	"product":     colProduct,
	"size":        colSize,
	"color":       colColor,
	"colour":      colColor,
	"ink":         colColor,
	"stock":       colStock,
	"paper":       colStock,
	"pages":       colPages,
	"total pages": colPages,
	"n-up":        colNUp,
	"n_up":        colNUp,
	"nup":         colNUp,
	"mailing":     colMailing,
	"eddm":        colEDDM,
}

// ReadJobs reads job rows from the Jobs sheet, or the first sheet when
// there is none. Row-level problems are recorded on the row.
func ReadJobs(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, perrors.Parsing("failed to open workbook", err)
	}
	defer f.Close()

	sheet := JobsSheet
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, perrors.Parsing("failed to read sheet", err).WithContext("sheet", sheet)
	}
	if len(rows) < 2 {
		return nil, perrors.Parsing("sheet must contain a header row and at least one job", nil).WithContext("sheet", sheet)
	}

	cols := mapHeaders(rows[0])
	for _, required := range []string{colQuantity, colProduct, colSize, colColor} {
		if _, ok := cols[required]; !ok {
			return nil, perrors.Parsing(fmt.Sprintf("missing %q column", required), nil).WithContext("sheet", sheet)
		}
	}

	var jobs []Row
	for i, cells := range rows[1:] {
		if blank(cells) {
			continue
		}
		jobs = append(jobs, parseRow(i+2, cells, cols))
	}
	return jobs, nil
}

func mapHeaders(headers []string) map[string]int {
	cols := make(map[string]int)
	for i, h := range headers {
		if key, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, dup := cols[key]; !dup {
				cols[key] = i
			}
		}
	}
	return cols
}

func parseRow(number int, cells []string, cols map[string]int) Row {
	get := func(key string) string {
		i, ok := cols[key]
		if !ok || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	row := Row{Number: number, Name: get(colName)}
	if row.Name == "" {
		row.Name = fmt.Sprintf("row %d", number)
	}

	var err error
	fail := func(e error) Row {
		row.Err = e
		return row
	}

	if row.Spec.Quantity, err = parseInt(get(colQuantity), "quantity"); err != nil {
		return fail(err)
	}
	if row.Spec.Product, err = types.ParseProductType(get(colProduct)); err != nil {
		return fail(err)
	}
	if row.Spec.FinishedWidth, row.Spec.FinishedHeight, err = types.ParseSize(get(colSize)); err != nil {
		return fail(err)
	}
	if row.Spec.Color, err = types.ParseColorMode(get(colColor)); err != nil {
		return fail(err)
	}
	row.Spec.Stock = get(colStock)
	if row.Spec.TotalPages, err = parseOptionalInt(get(colPages), "pages"); err != nil {
		return fail(err)
	}
	if row.Spec.LetterNUp, err = parseOptionalInt(get(colNUp), "n-up"); err != nil {
		return fail(err)
	}
	row.Spec.IsEDDM = truthy(get(colEDDM))
	row.Spec.WantsMailing = truthy(get(colMailing)) || row.Spec.IsEDDM
	return row
}

func parseInt(s, field string) (int, error) {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		// numeric cells can come back as "500.0"
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, perrors.InvalidSpec("%s must be a whole number, got %q", field, s)
		}
		n = int(f)
	}
	return n, nil
}

func parseOptionalInt(s, field string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return parseInt(s, field)
}

func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "y", "yes", "true", "1", "x":
		return true
	}
	return false
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Quote prices every row. It stops early only when ctx is done.
func Quote(ctx context.Context, q Quoter, rows []Row, progress func()) ([]Outcome, Summary, error) {
	outcomes := make([]Outcome, 0, len(rows))
	var sum Summary
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return outcomes, sum, err
		}

		o := Outcome{Row: row, Err: row.Err}
		if o.Err == nil {
			o.Result, o.Err = q.Calculate(row.Spec)
		}
		outcomes = append(outcomes, o)

		sum.Jobs++
		switch o.Status() {
		case "error":
			sum.Failed++
		case string(output.StatusIssued):
			sum.Issued++
		default:
			sum.Withheld++
		}
		if progress != nil {
			progress()
		}
	}
	return outcomes, sum, nil
}

var quoteHeaders = []string{
	"Row", "Job", "Product", "Quantity", "Size", "Color", "Equipment", "Stock",
	"Press Sheets", "Total Cost", "Multiplier", "Quote", "Margin %",
	"Mailing", "Payable", "Status", "Notes",
}

// WriteQuotes writes outcomes to a new workbook with a Quotes sheet.
// Withheld quotes carry no price, only the failing checks.
func WriteQuotes(w io.Writer, outcomes []Outcome) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), QuotesSheet); err != nil {
		return perrors.Internal("set sheet name", err)
	}
	st, err := newStyles(f)
	if err != nil {
		return err
	}

	if err := writeHeader(f, QuotesSheet, quoteHeaders, st.header); err != nil {
		return err
	}
	widths := []float64{6, 24, 10, 10, 8, 6, 34, 26, 12, 12, 10, 12, 10, 10, 12, 10, 50}
	if err := setWidths(f, QuotesSheet, widths); err != nil {
		return err
	}

	for i, o := range outcomes {
		r := i + 2
		set := func(col int, v interface{}) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			f.SetCellValue(QuotesSheet, cell, v)
		}
		money := func(col int, d decimal.Decimal) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			f.SetCellValue(QuotesSheet, cell, d.InexactFloat64())
			f.SetCellStyle(QuotesSheet, cell, cell, st.money)
		}

		spec := o.Row.Spec
		set(1, o.Row.Number)
		set(2, sanitizeCell(o.Row.Name))
		set(16, o.Status())

		if o.Err != nil {
			set(17, sanitizeCell(o.Err.Error()))
			continue
		}

		res := o.Result
		set(3, string(spec.Product))
		set(4, spec.Quantity)
		set(5, fmt.Sprintf("%gx%g", spec.FinishedWidth, spec.FinishedHeight))
		set(6, string(spec.Color))
		set(7, res.Equipment.Name)
		set(8, res.Stock.Name)
		set(9, res.Imposition.PressSheets)

		if output.StatusOf(res) == output.StatusWithheld {
			names := make([]string, 0, res.QA.FailedCount)
			for _, c := range res.QA.Failures() {
				names = append(names, string(c.Name))
			}
			set(17, "QA failed: "+strings.Join(names, ", "))
			continue
		}

		money(10, res.Costs.TotalCost)
		set(11, res.Multiplier.InexactFloat64())
		money(12, res.Quote)
		cell, _ := excelize.CoordinatesToCellName(13, r)
		f.SetCellValue(QuotesSheet, cell, res.MarginPercent.Round(1).InexactFloat64())
		if res.Mailing != nil {
			money(14, res.Mailing.GrandTotal)
		}
		money(15, res.Payable())
		if res.StockResolution.Substituted() {
			set(17, sanitizeCell(fmt.Sprintf("stock %q not found, quoted on %s", res.StockResolution.Requested, res.Stock.Name)))
		}
	}

	if err := f.Write(w); err != nil {
		return perrors.Internal("write workbook", err)
	}
	return nil
}

// sanitizeCell keeps user text from being read as a formula
func sanitizeCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// Process reads jobs from in, quotes them and writes the Quotes workbook to out
func Process(ctx context.Context, q Quoter, in io.Reader, out io.Writer) (Summary, error) {
	rows, err := ReadJobs(in)
	if err != nil {
		return Summary{}, err
	}
	outcomes, sum, err := Quote(ctx, q, rows, nil)
	if err != nil {
		return sum, err
	}
	return sum, WriteQuotes(out, outcomes)
}
