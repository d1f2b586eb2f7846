package renderer

import (
	"fmt"
	"strings"

	"github.com/pfictools/qef"
)

// ActivityMarkdown renders the full year report: opening position,
// transactions, sales, basis adjustments, Form 8621 data, ending position,
// and any data-quality warnings.
func ActivityMarkdown(r *qef.ActivityReport, ais *qef.AISData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Lot Activity %d — %s (%s)\n\n", r.TaxYear, r.Ticker, r.Name)

	fmt.Fprint(&b, TransactionsMarkdown(r.Transactions))
	fmt.Fprint(&b, "\n")
	fmt.Fprint(&b, LotsMarkdown("Beginning Lots", r.BeginningLots))
	fmt.Fprint(&b, "\n")
	fmt.Fprint(&b, LotsMarkdown("Lots Created", r.CreatedLots))
	fmt.Fprint(&b, "\n")
	fmt.Fprint(&b, SalesMarkdown(r.Sales))
	fmt.Fprint(&b, "\n")
	fmt.Fprint(&b, AdjustmentsMarkdown(r.Adjustments, ais))
	fmt.Fprint(&b, "\n")
	fmt.Fprint(&b, Form8621Markdown(r.Form8621, r.TaxYear))
	fmt.Fprint(&b, "\n")
	fmt.Fprint(&b, LotsMarkdown("Ending Lots (next year's opening)", r.EndingLots))

	if len(r.Warnings) > 0 {
		fmt.Fprint(&b, "\n# Warnings\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		fmt.Fprintf(&b, "\nLots with unknown provenance: %s\n", strings.Join(r.UnknownLots, ", "))
	}

	return b.String()
}

// TransactionsMarkdown renders the transactions replayed during the year.
func TransactionsMarkdown(txs []qef.Transaction) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Transactions\n\n")
	if len(txs) == 0 {
		fmt.Fprint(&b, "No activity this year.\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| Date | Type | Fund | Shares | Amount | Commission |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|")
	for _, tx := range txs {
		switch v := tx.(type) {
		case qef.Buy:
			fmt.Fprintf(&b, "| %s | buy | %s | %s | %s | %s |\n",
				v.When(), v.Fund(), v.Shares, v.Amount, v.Commission)
		case qef.Sell:
			fmt.Fprintf(&b, "| %s | sell | %s | %s | %s | %s |\n",
				v.When(), v.Fund(), v.Shares, v.Amount, v.Commission)
		}
	}

	return b.String()
}
