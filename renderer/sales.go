package renderer

import (
	"fmt"
	"strings"

	"github.com/pfictools/qef"
)

// SalesMarkdown renders the realized sales of the year, gain or loss
// measured against the QEF-adjusted basis.
func SalesMarkdown(sales []qef.SaleRecord) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Realized Sales\n\n")
	if len(sales) == 0 {
		fmt.Fprint(&b, "No lots were sold.\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| Lot | Purchased | Sold | Shares | Basis | Adjusted Basis | Proceeds | Gain/Loss | Term | Days |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|---:|---:|:---|---:|")

	total := qef.USD(0)
	for _, s := range sales {
		purchased := s.PurchaseDate.String()
		if s.PurchaseDate == qef.UnknownPurchaseDate {
			purchased = "unknown"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %d |\n",
			s.LotID, purchased, s.SaleDate, s.Shares,
			s.CostBasis, s.AdjustedBasis, s.Proceeds,
			s.GainLoss.SignedString(), s.Type, s.HoldingDays)
		total = total.Add(s.GainLoss)
	}
	fmt.Fprintf(&b, "| **Total** | | | | | | | **%s** | | |\n", total.SignedString())

	return b.String()
}
