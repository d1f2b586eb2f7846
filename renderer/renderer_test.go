package renderer

import (
	"strings"
	"testing"

	"github.com/pfictools/qef"
	"github.com/shopspring/decimal"
)

func testAIS() *qef.AISData {
	return &qef.AISData{
		TaxYear:               2024,
		Ticker:                "XEQT",
		Name:                  "iShares Core Equity ETF Portfolio",
		EarningsRate:          decimal.RequireFromString("0.0003080775"),
		GainsRate:             decimal.RequireFromString("0.0004661617"),
		DistributionsPerShare: decimal.RequireFromString("0.4498954722"),
	}
}

func TestLotsMarkdown(t *testing.T) {
	lots := []*qef.Lot{
		qef.NewLot("LOT-001", qef.MustParseDate("2023-01-01"), qef.Q(100), qef.USD(2510), "XEQT"),
	}
	md := LotsMarkdown("Beginning Lots", lots)

	for _, want := range []string{"# Beginning Lots", "LOT-001", "$2,510.00", "**Held total**"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	if md := LotsMarkdown("Empty", nil); !strings.Contains(md, "No lots.") {
		t.Errorf("empty markdown missing placeholder:\n%s", md)
	}
}

func TestLotsMarkdownUnknownDate(t *testing.T) {
	lot := qef.NewLot("LOT-009", qef.UnknownPurchaseDate, qef.Q(50), qef.USD(0), "XEQT")
	md := LotsMarkdown("Lots", []*qef.Lot{lot})
	if !strings.Contains(md, "unknown") {
		t.Errorf("synthetic lot should show an unknown purchase date:\n%s", md)
	}
	if strings.Contains(md, "1900-01-01") {
		t.Errorf("sentinel date leaked into the output:\n%s", md)
	}
}

func TestSalesMarkdown(t *testing.T) {
	opening := []*qef.Lot{qef.NewLot("LOT-001", qef.MustParseDate("2023-01-01"), qef.Q(50), qef.USD(1000), "XEQT")}
	ledger := qef.NewLedger(opening...)
	if _, err := ledger.Sell(qef.NewSell(qef.MustParseDate("2024-06-01"), "", "XEQT", qef.Q(50), qef.USD(1200), qef.USD(0))); err != nil {
		t.Fatal(err)
	}

	md := SalesMarkdown(ledger.Sales())
	for _, want := range []string{"# Realized Sales", "LOT-001", "+$200.00", "LONG_TERM", "**Total**"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	if md := SalesMarkdown(nil); !strings.Contains(md, "No lots were sold.") {
		t.Errorf("empty markdown missing placeholder:\n%s", md)
	}
}

func TestAdjustmentsMarkdown(t *testing.T) {
	ais := testAIS()
	opening := []*qef.Lot{qef.NewLot("LOT-001", qef.MustParseDate("2023-01-01"), qef.Q(100), qef.USD(2510), "XEQT")}
	ledger := qef.NewLedger(opening...)
	records := qef.ApplyQEFAdjustments(ledger, 2024, ais)

	md := AdjustmentsMarkdown(records, ais)
	for _, want := range []string{"# QEF Basis Adjustments 2024", "LOT-001", "366", "## Income per Fund", "XEQT"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestForm8621Markdown(t *testing.T) {
	ais := testAIS()
	opening := []*qef.Lot{qef.NewLot("LOT-001", qef.MustParseDate("2023-01-01"), qef.Q(100), qef.USD(2510), "XEQT")}
	ledger := qef.NewLedger(opening...)
	records := qef.ApplyQEFAdjustments(ledger, 2024, ais)

	md := Form8621Markdown(qef.Form8621(records, ais), 2024)
	for _, want := range []string{
		"# Form 8621 Part III Data — Tax Year 2024",
		"Direct holding",
		"| 6a |",
		"| 7c |",
		// 6b and 7b are zero but formatted like every other amount.
		"| 6b | Portion distributed | $0.00 |",
		"| 7b | Portion distributed | $0.00 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestActivityMarkdown(t *testing.T) {
	ais := testAIS()
	opening := []*qef.Lot{qef.NewLot("LOT-001", qef.MustParseDate("2023-01-01"), qef.Q(50), qef.USD(1000), "XEQT")}
	txs := []qef.Transaction{
		qef.NewSell(qef.MustParseDate("2024-06-01"), "", "XEQT", qef.Q(80), qef.USD(2400), qef.USD(0)),
	}

	ledger, err := qef.ProcessTransactions(opening, txs)
	if err != nil {
		t.Fatal(err)
	}
	adjustments := qef.ApplyQEFAdjustments(ledger, ais.TaxYear, ais)
	report := qef.NewActivityReport(ais, opening, txs, ledger, adjustments)

	md := ActivityMarkdown(report, ais)
	for _, want := range []string{
		"# Lot Activity 2024 — XEQT",
		"# Transactions",
		"# Beginning Lots",
		"# Realized Sales",
		"# Form 8621 Part III Data",
		"# Warnings",
		"INSUFFICIENT SHARES",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}
