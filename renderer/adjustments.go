// Package renderer turns qef report structures into markdown strings,
// ready to print raw or through a terminal markdown renderer.
package renderer

import (
	"fmt"
	"strings"

	"github.com/pfictools/qef"
)

// AdjustmentsMarkdown renders the per-lot basis adjustment records of one
// tax year, with the per-fund income breakdown of the AIS.
func AdjustmentsMarkdown(records []qef.BasisAdjustmentRecord, ais *qef.AISData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# QEF Basis Adjustments %d — %s\n\n", ais.TaxYear, ais.Ticker)

	fmt.Fprintln(&b, "| Lot | Shares | Days | Earnings | Gains | Distributions | Net | Basis Before | Basis After |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|---:|")
	for _, r := range records {
		fmt.Fprintf(&b, "| %s | %s | %d | %s | %s | %s | %s | %s | %s |\n",
			r.LotID, r.Shares, r.DaysHeld,
			r.Earnings, r.Gains, r.Distributions,
			r.NetAdjustment.SignedString(), r.BasisBefore, r.BasisAfter)
	}

	earnings, gains, distributions := qef.TotalQEFIncome(records)
	fmt.Fprintf(&b, "| **Total** | | | **%s** | **%s** | **%s** | | | |\n\n",
		earnings, gains, distributions)

	fmt.Fprint(&b, "## Income per Fund\n\n")
	fmt.Fprintln(&b, "| Fund | Earnings | Gains |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	for _, fund := range ais.Funds() {
		fundEarnings := qef.USD(0)
		fundGains := qef.USD(0)
		for _, r := range records {
			fundEarnings = fundEarnings.Add(r.EarningsByFund[fund.Ticker])
			fundGains = fundGains.Add(r.GainsByFund[fund.Ticker])
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", fund.Ticker, fundEarnings.Round(), fundGains.Round())
	}

	return b.String()
}
