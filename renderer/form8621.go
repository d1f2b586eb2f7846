package renderer

import (
	"fmt"
	"strings"

	"github.com/pfictools/qef"
)

// Form8621Markdown renders one section per Form 8621 to file: the
// directly-held fund first, then each underlying fund.
func Form8621Markdown(forms []qef.Form8621Data, taxYear int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Form 8621 Part III Data — Tax Year %d\n\n", taxYear)
	fmt.Fprintf(&b, "One form per PFIC. Line 6c mirrors 6a and 7c mirrors 7a (no excess distribution).\n\n")

	for _, f := range forms {
		holding := "Indirect"
		if f.DirectHolding {
			holding = "Direct"
		}
		fmt.Fprintf(&b, "## %s — %s (%s holding)\n\n", f.Ticker, f.Name, holding)
		fmt.Fprintln(&b, "| Line | Description | Amount |")
		fmt.Fprintln(&b, "|:---|:---|---:|")
		fmt.Fprintf(&b, "| 6a | Ordinary earnings | %s |\n", f.OrdinaryEarnings)
		fmt.Fprintf(&b, "| 6b | Portion distributed | %s |\n", f.EarningsDistributed)
		fmt.Fprintf(&b, "| 6c | Amount subject to tax | %s |\n", f.TaxOnEarnings())
		fmt.Fprintf(&b, "| 7a | Net capital gains | %s |\n", f.NetCapitalGains)
		fmt.Fprintf(&b, "| 7b | Portion distributed | %s |\n", f.GainsDistributed)
		fmt.Fprintf(&b, "| 7c | Amount subject to tax | %s |\n\n", f.TaxOnGains())
	}

	return b.String()
}
