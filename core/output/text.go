package output

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"printquote/core/types"
	"printquote/core/ui"
)

// TextFormatter renders a quote sheet for the terminal
type TextFormatter struct {
	NoColor       bool
	ShowBreakdown bool
}

// Format implements Formatter
func (f *TextFormatter) Format() Format { return FormatText }

// Render implements Formatter
func (f *TextFormatter) Render(w io.Writer, result *types.QuoteResult) error {
	out := ui.NewWriter(w, f.NoColor)
	spec := result.Specification

	out.Header("Print Quote")
	out.Println("%d x %s %s, %s, %s", spec.Quantity, sizeLabel(spec), spec.Product, spec.Color, result.Stock.Name)
	out.Println("Press: %s", result.Equipment.Name)
	if result.StockResolution.Substituted() {
		out.Warning("stock %q not found; quoted on %s", result.StockResolution.Requested, result.Stock.Name)
	}

	if StatusOf(result) == StatusWithheld {
		out.Println("")
		out.Error("Quote withheld: %d of %d QA checks failed", result.QA.FailedCount, len(result.QA.Checks))
		for _, c := range result.QA.Failures() {
			out.Println("    %s: %s", c.Name, c.Message)
		}
		return ErrWithheld
	}

	if f.ShowBreakdown {
		out.SubHeader("Production")
		imp := result.Imposition
		out.Println("  %d up, %d sheets + %s spoilage = %d press sheets", imp.UpCount, imp.RawSheets, imp.SpoilagePercent, imp.PressSheets)
		out.Println("")

		out.SubHeader("Cost")
		tbl := out.NewTable("Component", "Amount").AlignRight(1)
		tbl.AddRow("Paper", money(result.Costs.PaperCost))
		tbl.AddRow("Click", money(result.Costs.ClickCost))
		tbl.AddRow("Finishing", money(result.Costs.FinishingCost))
		tbl.AddRow("Total", money(result.Costs.TotalCost))
		tbl.Render()
		out.Println("  %sx markup, %s%% margin (floor %s%%)",
			result.Multiplier.String(), result.MarginPercent.StringFixed(1), result.MarginFloor.String())
		out.Println("")
	}

	if m := result.Mailing; m != nil {
		out.SubHeader(fmt.Sprintf("Mailing (%s)", m.Mode))
		tbl := out.NewTable("Section", "Service", "Qty", "Unit", "Total").AlignRight(2, 3, 4)
		for _, s := range m.Sections {
			for _, item := range s.Items {
				tbl.AddRow(s.Name, item.Description, fmt.Sprint(item.Quantity), item.UnitPrice.String(), money(item.Total))
			}
		}
		tbl.Render()
		out.Println("")
	}

	lines := [][2]string{{"Printing:", money(result.Quote)}}
	if result.Mailing != nil {
		lines = append(lines, [2]string{"Mailing:", money(result.Mailing.GrandTotal)})
	}
	lines = append(lines, [2]string{"Total:", money(result.Payable())})
	out.Box(ui.Green, lines...)
	out.Success("All %d QA checks passed", result.QA.PassedCount)
	return nil
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func sizeLabel(spec types.Specification) string {
	return fmt.Sprintf("%gx%g", spec.FinishedWidth, spec.FinishedHeight)
}
