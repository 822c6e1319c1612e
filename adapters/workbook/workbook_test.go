package workbook

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"printquote/core/catalog"
	"printquote/core/engine"
	"printquote/core/policy"
	"printquote/core/types"
	perrors "printquote/internal/errors"
)

func jobsWorkbook(t *testing.T, sheet string, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("SetSheetName: %v", err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

var sampleRows = [][]interface{}{
	{"Job", "Qty", "Product", "Size", "Colour", "Paper", "Pages", "Mailing", "EDDM"},
	{"Spring postcards", 500, "postcards", "6x9", "4/4", "", "", "", ""},
	{"Remit envelopes", 10000, "envelope", "9.5x4.125", "1/0", "#10", "", "", ""},
	{},
	{"Broken", 250, "flyer", "8.5x11", "5/5", "", "", "", ""},
	{"Neighborhood drop", 2000, "postcard", "6x9", "4/4", "", "", "yes", "y"},
}

func TestReadJobs(t *testing.T) {
	rows, err := ReadJobs(jobsWorkbook(t, JobsSheet, sampleRows))
	if err != nil {
		t.Fatalf("ReadJobs() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4 (blank row skipped)", len(rows))
	}

	first := rows[0]
	if first.Number != 2 || first.Name != "Spring postcards" || first.Err != nil {
		t.Errorf("first row = %+v", first)
	}
	want := types.Specification{
		Quantity: 500, Product: types.ProductPostcard,
		FinishedWidth: 6, FinishedHeight: 9, Color: types.ColorBothSides,
	}
	if first.Spec != want {
		t.Errorf("first spec = %+v, want %+v", first.Spec, want)
	}

	if rows[1].Spec.Stock != "#10" || rows[1].Spec.Color != types.MonoOneSide {
		t.Errorf("envelope row spec = %+v", rows[1].Spec)
	}

	broken := rows[2]
	if broken.Number != 5 || !perrors.IsType(broken.Err, perrors.TypeInput) {
		t.Errorf("broken row = %d, err %v; want row 5 with input error", broken.Number, broken.Err)
	}

	eddm := rows[3].Spec
	if !eddm.WantsMailing || !eddm.IsEDDM {
		t.Errorf("EDDM row spec = %+v", eddm)
	}
}

func TestReadJobsFallsBackToFirstSheet(t *testing.T) {
	rows, err := ReadJobs(jobsWorkbook(t, "Orders", sampleRows[:2]))
	if err != nil {
		t.Fatalf("ReadJobs() error = %v", err)
	}
	if len(rows) != 1 || rows[0].Spec.Quantity != 500 {
		t.Errorf("rows = %+v", rows)
	}
}

func TestReadJobsRejectsBadSheets(t *testing.T) {
	tests := []struct {
		name string
		rows [][]interface{}
	}{
		{"header only", sampleRows[:1]},
		{"missing size column", [][]interface{}{
			{"Qty", "Product", "Color"},
			{500, "postcard", "4/4"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJobs(jobsWorkbook(t, JobsSheet, tt.rows))
			if !perrors.IsType(err, perrors.TypeParsing) {
				t.Errorf("error = %v, want parsing error", err)
			}
		})
	}
}

func TestReadJobsRejectsNonWorkbook(t *testing.T) {
	_, err := ReadJobs(strings.NewReader("quantity,product\n500,postcard\n"))
	if !perrors.IsType(err, perrors.TypeParsing) {
		t.Errorf("error = %v, want parsing error", err)
	}
}

func TestProcess(t *testing.T) {
	var out bytes.Buffer
	sum, err := Process(context.Background(), engine.New(), jobsWorkbook(t, JobsSheet, sampleRows), &out)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if sum != (Summary{Jobs: 4, Issued: 3, Failed: 1}) {
		t.Errorf("summary = %+v", sum)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("output is not a workbook: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != QuotesSheet {
		t.Fatalf("sheets = %v, want [%s]", sheets, QuotesSheet)
	}

	raw := excelize.Options{RawCellValue: true}
	cell := func(ref string) string {
		v, err := f.GetCellValue(QuotesSheet, ref, raw)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", ref, err)
		}
		return v
	}

	if got := cell("A1"); got != "Row" {
		t.Errorf("A1 = %q, want header", got)
	}
	// envelopes: 10000 at 2.5x on 510.00 cost
	if got := cell("L3"); got != "1275" {
		t.Errorf("envelope quote = %q, want 1275", got)
	}
	if got := cell("G3"); got != "Halm JetJet Mono" {
		t.Errorf("envelope equipment = %q", got)
	}
	if got := cell("P3"); got != "issued" {
		t.Errorf("envelope status = %q", got)
	}
	if got := cell("P4"); got != "error" {
		t.Errorf("broken status = %q", got)
	}
	if got := cell("Q4"); !strings.Contains(got, "unknown color mode") {
		t.Errorf("broken notes = %q", got)
	}
	if got := cell("L4"); got != "" {
		t.Errorf("broken row has a quote %q", got)
	}
	if got := cell("N5"); got != "70" {
		t.Errorf("EDDM mailing = %q, want 70", got)
	}
}

func TestWriteQuotesWithholdsFailingQA(t *testing.T) {
	failing := policy.NewRule("always_fail", func(*types.QuoteResult) (bool, string) {
		return false, "forced"
	})
	e := engine.New(engine.WithEvaluator(policy.NewEvaluator(failing)))

	rows, err := ReadJobs(jobsWorkbook(t, JobsSheet, sampleRows[:2]))
	if err != nil {
		t.Fatalf("ReadJobs() error = %v", err)
	}
	outcomes, sum, err := Quote(context.Background(), e, rows, nil)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if sum.Withheld != 1 {
		t.Fatalf("summary = %+v, want one withheld", sum)
	}

	var out bytes.Buffer
	if err := WriteQuotes(&out, outcomes); err != nil {
		t.Fatalf("WriteQuotes() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	for ref, want := range map[string]string{"L2": "", "O2": "", "P2": "withheld", "Q2": "QA failed: always_fail"} {
		if got, _ := f.GetCellValue(QuotesSheet, ref); got != want {
			t.Errorf("%s = %q, want %q", ref, got, want)
		}
	}
}

func TestQuoteStopsOnCancelledContext(t *testing.T) {
	rows, err := ReadJobs(jobsWorkbook(t, JobsSheet, sampleRows))
	if err != nil {
		t.Fatalf("ReadJobs() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcomes, _, err := Quote(ctx, engine.New(), rows, nil)
	if err == nil || len(outcomes) != 0 {
		t.Errorf("Quote() = %d outcomes, err %v; want cancellation", len(outcomes), err)
	}
}

func TestSanitizeCell(t *testing.T) {
	tests := map[string]string{
		"":              "",
		"Spring promo":  "Spring promo",
		"=HYPERLINK(1)": "'=HYPERLINK(1)",
		"+1":            "'+1",
		"@SUM(A1)":      "'@SUM(A1)",
	}
	for in, want := range tests {
		if got := sanitizeCell(in); got != want {
			t.Errorf("sanitizeCell(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExportRateCard(t *testing.T) {
	var out bytes.Buffer
	if err := ExportRateCard(catalog.Default(), &out); err != nil {
		t.Fatalf("ExportRateCard() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	want := []string{"Equipment", "Stocks", "Multipliers", "Spoilage", "Mailing", "Finishing"}
	got := f.GetSheetList()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("sheets = %v, want %v", got, want)
	}

	rows, err := f.GetRows("Stocks")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows)-1 != len(catalog.Default().Stocks()) {
		t.Errorf("stock rows = %d, want %d", len(rows)-1, len(catalog.Default().Stocks()))
	}

	eq, _ := f.GetRows("Equipment")
	if len(eq) != 5 {
		t.Errorf("equipment rows = %d, want header + 4", len(eq))
	}

	spoil, _ := f.GetRows("Spoilage")
	if last := spoil[len(spoil)-1]; last[0] != "and above" || last[2] != "2%" {
		t.Errorf("last spoilage row = %v", last)
	}
}
