package qef

import (
	"testing"

	"github.com/shopspring/decimal"
)

// xeqtAIS is the 2024 statement used across allocation tests: a leap year,
// realistic per-day-per-share rates.
func xeqtAIS() *AISData {
	return &AISData{
		TaxYear:               2024,
		Ticker:                "XEQT",
		Name:                  "iShares Core Equity ETF Portfolio",
		EarningsRate:          decimal.RequireFromString("0.0003080775"),
		GainsRate:             decimal.RequireFromString("0.0004661617"),
		DistributionsPerShare: decimal.RequireFromString("0.4498954722"),
	}
}

func TestLotsForYear(t *testing.T) {
	opening := []*Lot{NewLot("LOT-001", MustParseDate("2023-03-10"), Q(100), USD(2510), "XEQT")}
	txs := []Transaction{
		NewBuy(MustParseDate("2024-03-01"), "", "XEQT", Q(40), USD(1200), USD(0)),
		NewSell(MustParseDate("2024-07-01"), "", "XEQT", Q(100), USD(3100), USD(0)),
	}
	ledger, err := ProcessTransactions(opening, txs)
	if err != nil {
		t.Fatal(err)
	}

	days := make(map[string]int)
	for _, ld := range ledger.LotsForYear(2024) {
		days[ld.Lot.ID] = ld.Days
	}

	tests := []struct {
		lotID string
		want  int
	}{
		// Held before the year, sold July 1: Jan 1 through Jun 30 of a leap year.
		{"LOT-001", 182},
		// Bought March 1, held through Dec 31.
		{"LOT-002", 306},
	}
	for _, tt := range tests {
		if got := days[tt.lotID]; got != tt.want {
			t.Errorf("days[%s] = %d, want %d", tt.lotID, got, tt.want)
		}
	}
}

func TestLotsForYearFullYear(t *testing.T) {
	opening := []*Lot{NewLot("LOT-001", MustParseDate("2022-06-01"), Q(100), USD(2510), "XEQT")}
	ledger := NewLedger(opening...)

	lds := ledger.LotsForYear(2024)
	if len(lds) != 1 {
		t.Fatalf("lots for year = %d, want 1", len(lds))
	}
	if lds[0].Days != 366 {
		t.Errorf("days = %d, want 366 for a full leap year", lds[0].Days)
	}
}

func TestLotsForYearSoldMidYear(t *testing.T) {
	// Held before the year, sold June 30: income accrues through June 29.
	lot := NewLot("LOT-001", MustParseDate("2022-06-01"), Q(100), USD(2510), "XEQT")
	lot.Status = Sold
	lot.SaleDate = MustParseDate("2024-06-30")
	ledger := NewLedger(lot)

	lds := ledger.LotsForYear(2024)
	if len(lds) != 1 {
		t.Fatalf("lots for year = %d, want 1", len(lds))
	}
	if lds[0].Days != 181 {
		t.Errorf("days = %d, want 181", lds[0].Days)
	}
}

func TestLotsForYearExcludes(t *testing.T) {
	opening := []*Lot{
		NewLot("LOT-001", MustParseDate("2025-01-15"), Q(10), USD(100), "XEQT"), // purchased after the year
	}
	ledger := NewLedger(opening...)
	soldEarly := NewLot("LOT-000", MustParseDate("2022-01-01"), Q(10), USD(100), "XEQT")
	soldEarly.Status = Sold
	soldEarly.SaleDate = MustParseDate("2023-06-01") // sold before the year
	ledger.lots = append(ledger.lots, soldEarly)

	if lds := ledger.LotsForYear(2024); len(lds) != 0 {
		t.Errorf("lots for year = %v, want none", lds)
	}
}

func TestLotsForYearCountsSoldLotsOnce(t *testing.T) {
	opening := []*Lot{NewLot("LOT-001", MustParseDate("2023-01-01"), Q(100), USD(2510), "XEQT")}
	ledger := NewLedger(opening...)
	if _, err := ledger.Sell(NewSell(MustParseDate("2024-07-01"), "", "XEQT", Q(100), USD(3100), USD(0))); err != nil {
		t.Fatal(err)
	}

	lds := ledger.LotsForYear(2024)
	if len(lds) != 1 {
		t.Fatalf("sold lot reported %d times, want 1", len(lds))
	}
}

func TestLotQEFIncome(t *testing.T) {
	ais := xeqtAIS()
	lot := NewLot("LOT-001", MustParseDate("2023-01-01"), Q(100), USD(2510), "XEQT")

	record := LotQEFIncome(lot, 366, ais)

	// rate x 100 shares x 366 days, rounded to cents.
	if !record.Earnings.Equal(USD(11.28)) {
		t.Errorf("earnings = %s, want 11.28", record.Earnings)
	}
	if !record.Gains.Equal(USD(17.06)) {
		t.Errorf("gains = %s, want 17.06", record.Gains)
	}
	// Full year of distributions is the yearly per-share figure x shares.
	if !record.Distributions.Equal(USD(44.99)) {
		t.Errorf("distributions = %s, want 44.99", record.Distributions)
	}
	if !record.NetAdjustment.Equal(USD(-16.65)) {
		t.Errorf("net = %s, want -16.65", record.NetAdjustment)
	}
	if !record.BasisBefore.Equal(USD(2510)) || !record.BasisAfter.Equal(USD(2493.35)) {
		t.Errorf("basis %s -> %s, want 2510 -> 2493.35", record.BasisBefore, record.BasisAfter)
	}
	if !record.EarningsByFund["XEQT"].Equal(USD(11.28)) {
		t.Errorf("earnings by fund = %s, want 11.28", record.EarningsByFund["XEQT"])
	}
}

func TestLotQEFIncomePartialYear(t *testing.T) {
	ais := xeqtAIS()
	lot := NewLot("LOT-002", MustParseDate("2024-03-01"), Q(100), USD(2510), "XEQT")

	record := LotQEFIncome(lot, 306, ais)

	if !record.Earnings.Equal(USD(9.43)) {
		t.Errorf("earnings = %s, want 9.43", record.Earnings)
	}
	if !record.Gains.Equal(USD(14.26)) {
		t.Errorf("gains = %s, want 14.26", record.Gains)
	}
	// Distributions spread over the year's 366 days, accrued for 306.
	if !record.Distributions.Equal(USD(37.61)) {
		t.Errorf("distributions = %s, want 37.61", record.Distributions)
	}
}

func TestLotQEFIncomeFloorsBasis(t *testing.T) {
	ais := xeqtAIS()
	lot := NewLot("LOT-001", MustParseDate("2023-01-01"), Q(100), USD(10), "XEQT")

	record := LotQEFIncome(lot, 366, ais)

	// 10 + 11.28 + 17.06 - 44.99 is negative: floored at zero.
	if !record.BasisAfter.IsZero() {
		t.Errorf("basis after = %s, want 0", record.BasisAfter)
	}
	if !record.NetAdjustment.Equal(USD(-16.65)) {
		t.Errorf("net = %s, want -16.65 (floor applies to the basis, not the income)", record.NetAdjustment)
	}
}

func TestLotQEFIncomeUnderlyingFunds(t *testing.T) {
	ais := xeqtAIS()
	ais.Underlying = []UnderlyingFund{{
		Ticker:       "XIC",
		Name:         "iShares Core S&P/TSX Capped Composite",
		EarningsRate: decimal.RequireFromString("0.0001"),
		GainsRate:    decimal.RequireFromString("0.0002"),
	}}

	lot := NewLot("LOT-001", MustParseDate("2023-01-01"), Q(100), USD(2510), "XEQT")
	record := LotQEFIncome(lot, 366, ais)

	// 0.0001 x 100 x 366 = 3.66, 0.0002 x 100 x 366 = 7.32
	if !record.EarningsByFund["XIC"].Equal(USD(3.66)) {
		t.Errorf("XIC earnings = %s, want 3.66", record.EarningsByFund["XIC"])
	}
	if !record.GainsByFund["XIC"].Equal(USD(7.32)) {
		t.Errorf("XIC gains = %s, want 7.32", record.GainsByFund["XIC"])
	}
	// Totals sum the direct and underlying funds.
	if !record.Earnings.Equal(USD(14.94)) {
		t.Errorf("total earnings = %s, want 14.94", record.Earnings)
	}
	if !record.Gains.Equal(USD(24.38)) {
		t.Errorf("total gains = %s, want 24.38", record.Gains)
	}
	// Distributions come from the directly-held fund only.
	if !record.Distributions.Equal(USD(44.99)) {
		t.Errorf("distributions = %s, want 44.99", record.Distributions)
	}
}

func TestApplyQEFAdjustmentsOverwrites(t *testing.T) {
	ais := xeqtAIS()
	opening := []*Lot{NewLot("LOT-001", MustParseDate("2023-01-01"), Q(100), USD(2510), "XEQT")}
	ledger := NewLedger(opening...)

	first := ApplyQEFAdjustments(ledger, 2024, ais)
	second := ApplyQEFAdjustments(ledger, 2024, ais)

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("records = %d then %d, want 1 and 1", len(first), len(second))
	}

	lot := ledger.HeldLots()[0]
	// A second run replaces the accruals instead of doubling them.
	if !lot.Earnings.Equal(USD(11.28)) {
		t.Errorf("earnings after two runs = %s, want 11.28", lot.Earnings)
	}
	if !lot.AdjustedCostBasis().Equal(USD(2493.35)) {
		t.Errorf("adjusted basis after two runs = %s, want 2493.35", lot.AdjustedCostBasis())
	}
}

func TestForm8621(t *testing.T) {
	ais := xeqtAIS()
	ais.Underlying = []UnderlyingFund{
		{Ticker: "XIC", Name: "Composite", EarningsRate: decimal.RequireFromString("0.0001"), GainsRate: decimal.RequireFromString("0.0002")},
		{Ticker: "XUU", Name: "US Total Market", EarningsRate: decimal.Zero, GainsRate: decimal.Zero},
	}

	opening := []*Lot{
		NewLot("LOT-001", MustParseDate("2023-01-01"), Q(100), USD(2510), "XEQT"),
		NewLot("LOT-002", MustParseDate("2023-06-01"), Q(50), USD(1300), "XEQT"),
	}
	ledger := NewLedger(opening...)
	records := ApplyQEFAdjustments(ledger, 2024, ais)

	forms := Form8621(records, ais)
	if len(forms) != 3 {
		t.Fatalf("forms = %d, want 3 (direct fund plus two underlying)", len(forms))
	}

	if forms[0].Ticker != "XEQT" || !forms[0].DirectHolding {
		t.Errorf("first form = %s direct=%v, want the directly-held XEQT", forms[0].Ticker, forms[0].DirectHolding)
	}
	// 100 shares and 50 shares, both held all 366 days.
	// 0.0003080775 x 150 x 366 rounds per lot: 11.28 + 5.64.
	if !forms[0].OrdinaryEarnings.Equal(USD(16.92)) {
		t.Errorf("XEQT 6a = %s, want 16.92", forms[0].OrdinaryEarnings)
	}
	// Line 6c mirrors 6a with no excess distribution.
	if !forms[0].TaxOnEarnings().Equal(forms[0].OrdinaryEarnings) {
		t.Errorf("6c = %s, want %s", forms[0].TaxOnEarnings(), forms[0].OrdinaryEarnings)
	}
	// Lines 6b and 7b are zero dollars, not a bare zero value: they must
	// format like every other amount on the form.
	if !forms[0].EarningsDistributed.Equal(USD(0)) || forms[0].EarningsDistributed.String() != "$0.00" {
		t.Errorf("6b = %s, want $0.00", forms[0].EarningsDistributed)
	}
	if !forms[0].GainsDistributed.Equal(USD(0)) || forms[0].GainsDistributed.String() != "$0.00" {
		t.Errorf("7b = %s, want $0.00", forms[0].GainsDistributed)
	}

	if forms[1].Ticker != "XIC" || forms[1].DirectHolding {
		t.Errorf("second form = %s direct=%v, want indirect XIC", forms[1].Ticker, forms[1].DirectHolding)
	}
	// 3.66 + 1.83
	if !forms[1].OrdinaryEarnings.Equal(USD(5.49)) {
		t.Errorf("XIC 6a = %s, want 5.49", forms[1].OrdinaryEarnings)
	}

	// A fund with zero rates still gets its form, zero-valued.
	if forms[2].Ticker != "XUU" || !forms[2].OrdinaryEarnings.IsZero() || !forms[2].NetCapitalGains.IsZero() {
		t.Errorf("XUU form = %+v, want zeros", forms[2])
	}
}

func TestTotalQEFIncome(t *testing.T) {
	ais := xeqtAIS()
	opening := []*Lot{
		NewLot("LOT-001", MustParseDate("2023-01-01"), Q(100), USD(2510), "XEQT"),
		NewLot("LOT-002", MustParseDate("2023-06-01"), Q(50), USD(1300), "XEQT"),
	}
	ledger := NewLedger(opening...)
	records := ApplyQEFAdjustments(ledger, 2024, ais)

	earnings, gains, distributions := TotalQEFIncome(records)
	if !earnings.Equal(USD(16.92)) {
		t.Errorf("total earnings = %s, want 16.92", earnings)
	}
	if !gains.Equal(USD(25.59)) {
		t.Errorf("total gains = %s, want 25.59", gains)
	}
	if !distributions.Equal(USD(67.48)) {
		t.Errorf("total distributions = %s, want 67.48", distributions)
	}
}
