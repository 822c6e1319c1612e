// Package cmd - catalog command
package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"printquote/adapters/workbook"
	"printquote/core/pricing"
	"printquote/core/types"
	"printquote/core/ui"
)

var catalogXLSX string

// catalogCmd shows the compiled-in equipment, stocks and multipliers
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the shop's equipment, stocks and markup tables",
	Long: `Show the compiled-in catalog the engine prices from.

With --xlsx the full rate card is written to a workbook instead.`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().StringVar(&catalogXLSX, "xlsx", "", "write the rate card to this workbook")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cat := newEngine().Catalog()
	out := ui.NewWriter(cmd.OutOrStdout(), noColor)

	if catalogXLSX != "" {
		var buf bytes.Buffer
		if err := workbook.ExportRateCard(cat, &buf); err != nil {
			return err
		}
		if err := os.WriteFile(catalogXLSX, buf.Bytes(), 0644); err != nil {
			return err
		}
		out.Success("Rate card written to %s", catalogXLSX)
		return nil
	}

	out.Header("Equipment")
	eq := out.NewTable("Device", "Class", "Click").AlignRight(2)
	for _, e := range cat.Equipment() {
		eq.AddRow(e.Name, string(e.Class), e.ClickRate.String())
	}
	eq.Render()

	out.Header("Stocks")
	st := out.NewTable("Stock", "SKU", "Sheet", "Cost").AlignRight(3)
	for _, s := range cat.Stocks() {
		st.AddRow(s.Name, s.SKU, fmt.Sprintf("%gx%g", s.SheetWidth, s.SheetHeight), s.CostPerSheet.String())
	}
	st.Render()

	out.Header("Markup")
	mt := out.NewTable("Product", "Default Stock", "Multipliers", "Floor").AlignRight(3)
	for _, p := range types.AllProductTypes() {
		bands := make([]string, 0, 8)
		for _, tier := range pricing.MultiplierTable(p) {
			if tier.UpTo == 0 {
				bands = append(bands, "beyond "+tier.Value.String())
			} else {
				bands = append(bands, fmt.Sprintf("≤%d %s", tier.UpTo, tier.Value))
			}
		}
		mt.AddRow(string(p), cat.DefaultStockKey(p), strings.Join(bands, ", "), pricing.MarginFloor(p).String()+"%")
	}
	mt.Render()
	out.Println("")
	out.Println("Shop minimum: $%s", pricing.ShopMinimum.StringFixed(2))
	return nil
}
