package renderer

import (
	"fmt"
	"strings"

	"github.com/pfictools/qef"
)

// LotsMarkdown renders a set of lots under the given title.
func LotsMarkdown(title string, lots []*qef.Lot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(lots) == 0 {
		fmt.Fprint(&b, "No lots.\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| Lot | Purchased | Shares | Cost Basis | Status | Split From |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|:---|:---|")

	shares := qef.Q(0)
	basis := qef.USD(0)
	for _, lot := range lots {
		purchased := lot.PurchaseDate.String()
		if lot.PurchaseDate == qef.UnknownPurchaseDate {
			purchased = "unknown"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			lot.ID, purchased, lot.Shares, lot.CostBasis, lot.Status, lot.OriginalID)
		if lot.Status == qef.Held {
			shares = shares.Add(lot.Shares)
			basis = basis.Add(lot.CostBasis)
		}
	}
	fmt.Fprintf(&b, "| **Held total** | | **%s** | **%s** | | |\n", shares, basis)

	return b.String()
}
