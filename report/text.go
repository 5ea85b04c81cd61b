package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/azure/vm-dr-cost-estimator/types"
)

var printer = message.NewPrinter(language.English)

// FormatMoney renders an amount as "USD 1,234.56".
func FormatMoney(amount decimal.Decimal, currency string) string {
	return printer.Sprintf("%s %.2f", currency, amount.Round(2).InexactFloat64())
}

func WriteText(w io.Writer, estimate *types.Estimate) error {
	inputs := estimate.Inputs
	var builder strings.Builder

	fmt.Fprintln(&builder, "=== Inputs ===")
	fmt.Fprintf(&builder, "Primary region: %s\n", inputs.PrimaryRegion)
	fmt.Fprintf(&builder, "DR region: %s\n", inputs.DRRegion)
	fmt.Fprintf(&builder, "VM size: %s | OS: %s\n", inputs.VMSize, inputs.OS)
	fmt.Fprintf(&builder, "Instances (primary): %d\n", inputs.Instances)
	fmt.Fprintf(&builder, "OS Disk: Premium SSD %s (%s)\n", inputs.OSDiskSku, strings.ToUpper(string(inputs.DiskRedundancy)))
	fmt.Fprintf(&builder, "Inter-zone GB/month (primary): %s\n", inputs.InterzoneGBPerMonth.String())
	fmt.Fprintf(&builder, "DR mode: %s\n", inputs.DRMode)
	fmt.Fprintf(&builder, "Currency: %s\n", inputs.Currency)
	fmt.Fprintln(&builder)

	writeBreakdown(&builder, "=== Primary (Monthly) ===", estimate.Primary, inputs.Currency)
	fmt.Fprintln(&builder)
	writeBreakdown(&builder, "=== DR (Monthly) ===", estimate.DR, inputs.Currency)

	for _, note := range estimate.Notes {
		fmt.Fprintf(&builder, "Note: %s\n", note)
	}

	_, err := io.WriteString(w, builder.String())
	return err
}

func writeBreakdown(builder *strings.Builder, title string, breakdown *types.CostBreakdown, currency string) {
	fmt.Fprintln(builder, title)
	for _, component := range breakdown.Components {
		fmt.Fprintf(builder, "%s: %s\n", component.Name, FormatMoney(component.Amount, currency))
	}
	fmt.Fprintf(builder, "Total: %s\n", FormatMoney(breakdown.Total, currency))
}
