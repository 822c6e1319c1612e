package workbook

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"printquote/core/catalog"
	"printquote/core/cost"
	"printquote/core/imposition"
	"printquote/core/mailing"
	"printquote/core/pricing"
	"printquote/core/types"
	perrors "printquote/internal/errors"
)

type styles struct {
	header int
	money  int
	rate   int
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error

	st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})
	if err != nil {
		return st, perrors.Internal("create header style", err)
	}

	st.money, err = f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return st, perrors.Internal("create money style", err)
	}

	rateFmt := "0.0000"
	st.rate, err = f.NewStyle(&excelize.Style{CustomNumFmt: &rateFmt})
	if err != nil {
		return st, perrors.Internal("create rate style", err)
	}
	return st, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return perrors.Internal("write header", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return perrors.Internal("style header", err)
	}
	return nil
}

func setWidths(f *excelize.File, sheet string, widths []float64) error {
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return perrors.Internal("set column width", err)
		}
	}
	return nil
}

// sheetWriter appends rows to one sheet
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func newSheet(f *excelize.File, st styles, name string, headers []string, widths []float64) (*sheetWriter, error) {
	if f.GetSheetName(0) == "Sheet1" {
		if err := f.SetSheetName("Sheet1", name); err != nil {
			return nil, perrors.Internal("rename sheet", err)
		}
	} else if _, err := f.NewSheet(name); err != nil {
		return nil, perrors.Internal("create sheet", err)
	}
	if err := writeHeader(f, name, headers, st.header); err != nil {
		return nil, err
	}
	if err := setWidths(f, name, widths); err != nil {
		return nil, err
	}
	return &sheetWriter{f: f, sheet: name, row: 1}, nil
}

// add writes one row; cellStyles maps column index to a style ID
func (w *sheetWriter) add(values []interface{}, cellStyles map[int]int) {
	if w.err != nil {
		return
	}
	w.row++
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, w.row)
		if err := w.f.SetCellValue(w.sheet, cell, v); err != nil {
			w.err = perrors.Internal("write cell", err).WithContext("cell", cell)
			return
		}
		if style, ok := cellStyles[i]; ok {
			w.f.SetCellStyle(w.sheet, cell, cell, style)
		}
	}
}

func productList(products []types.ProductType) string {
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

func bound(upTo int) string {
	if upTo == 0 {
		return "and above"
	}
	return fmt.Sprintf("up to %d", upTo)
}

// ExportRateCard writes every compiled-in table the engine prices from,
// one sheet per table, for audit by the shop manager.
func ExportRateCard(cat *catalog.Catalog, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return err
	}

	eq, err := newSheet(f, st, "Equipment", []string{"Device", "Class", "Click Rate"}, []float64{36, 16, 12})
	if err != nil {
		return err
	}
	for _, e := range cat.Equipment() {
		eq.add([]interface{}{e.Name, string(e.Class), e.ClickRate.InexactFloat64()}, map[int]int{2: st.rate})
	}

	stocks, err := newSheet(f, st, "Stocks",
		[]string{"Key", "Name", "SKU", "Category", "Sheet Size", "Cost / Sheet", "Default For"},
		[]float64{28, 28, 18, 10, 12, 12, 24})
	if err != nil {
		return err
	}
	defaultsFor := make(map[string][]types.ProductType)
	for _, p := range types.AllProductTypes() {
		key := cat.DefaultStockKey(p)
		defaultsFor[key] = append(defaultsFor[key], p)
	}
	for _, s := range cat.Stocks() {
		stocks.add([]interface{}{
			s.Key, s.Name, s.SKU, string(s.Category),
			fmt.Sprintf("%gx%g", s.SheetWidth, s.SheetHeight),
			s.CostPerSheet.InexactFloat64(),
			productList(defaultsFor[s.Key]),
		}, map[int]int{5: st.rate})
	}

	mult, err := newSheet(f, st, "Multipliers",
		[]string{"Product", "Quantity", "Multiplier", "Margin Floor %"}, []float64{12, 14, 12, 16})
	if err != nil {
		return err
	}
	for _, p := range types.AllProductTypes() {
		for _, tier := range pricing.MultiplierTable(p) {
			mult.add([]interface{}{string(p), bound(tier.UpTo), tier.Value.InexactFloat64(), pricing.MarginFloor(p).InexactFloat64()}, nil)
		}
	}
	mult.add([]interface{}{"minimum", "any", "", pricing.ShopMinimum.InexactFloat64()}, map[int]int{3: st.money})

	spoil, err := newSheet(f, st, "Spoilage", []string{"Quantity", "Factor", "Label"}, []float64{14, 10, 10})
	if err != nil {
		return err
	}
	for _, tier := range imposition.SpoilageBands {
		spoil.add([]interface{}{bound(tier.UpTo), tier.Value.InexactFloat64(), imposition.SpoilageLabel(tier.Value)}, map[int]int{1: st.rate})
	}

	mail, err := newSheet(f, st, "Mailing", []string{"Service", "Per Piece", "Applies To"}, []float64{32, 12, 36})
	if err != nil {
		return err
	}
	mail.add([]interface{}{mailing.EDDMBundling.Description, mailing.EDDMBundling.UnitPrice.InexactFloat64(), "eddm"}, map[int]int{1: st.rate})
	mail.add([]interface{}{mailing.NCOACASS.Description, mailing.NCOACASS.UnitPrice.InexactFloat64(), "addressed"}, map[int]int{1: st.rate})
	var order []mailing.Rate
	users := make(map[string][]types.ProductType)
	for _, p := range types.AllProductTypes() {
		for _, r := range mailing.LettershopRates(p) {
			if _, ok := users[r.Description]; !ok {
				order = append(order, r)
			}
			users[r.Description] = append(users[r.Description], p)
		}
	}
	for _, r := range order {
		mail.add([]interface{}{r.Description, r.UnitPrice.InexactFloat64(), productList(users[r.Description])}, map[int]int{1: st.rate})
	}

	fin, err := newSheet(f, st, "Finishing", []string{"Charge", "Amount", "Basis"}, []float64{28, 12, 20})
	if err != nil {
		return err
	}
	fin.add([]interface{}{"Setup", cost.FinishingSetupFee.InexactFloat64(), "per booklet job"}, map[int]int{1: st.money})
	fin.add([]interface{}{"Saddle stitch run", cost.FinishingRunRate.InexactFloat64(), "per booklet"}, map[int]int{1: st.rate})
	fin.add([]interface{}{"Overhead", cost.FinishingOverhead.InexactFloat64(), "per booklet job"}, map[int]int{1: st.money})
	for _, vd := range cost.FinishingDiscounts {
		fin.add([]interface{}{fmt.Sprintf("Discount from %d", vd.MinQuantity), vd.Rate.InexactFloat64(), "fraction off"}, nil)
	}

	for _, sw := range []*sheetWriter{eq, stocks, mult, spoil, mail, fin} {
		if sw.err != nil {
			return sw.err
		}
	}
	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return perrors.Internal("write workbook", err)
	}
	return nil
}
