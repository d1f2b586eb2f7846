package qef

import (
	"github.com/shopspring/decimal"
)

// FundRates is one fund's per-day-per-share income rates from the AIS.
type FundRates struct {
	Ticker       string
	Name         string
	EarningsRate decimal.Decimal // ordinary earnings per day per share, USD
	GainsRate    decimal.Decimal // net capital gains per day per share, USD
}

// UnderlyingFund is an indirectly-held fund reported on the AIS of the
// directly-held fund (a fund-of-funds reports one block per constituent).
type UnderlyingFund struct {
	Ticker       string
	Name         string
	EarningsRate decimal.Decimal
	GainsRate    decimal.Decimal
}

// AISData is the Annual Information Statement of the directly-held fund for
// one tax year: per-day-per-share income rates for the fund and each of its
// underlying funds, plus the year's total distributions per share.
type AISData struct {
	TaxYear               int
	Ticker                string
	Name                  string
	EarningsRate          decimal.Decimal // ordinary earnings per day per share, USD
	GainsRate             decimal.Decimal // net capital gains per day per share, USD
	DistributionsPerShare decimal.Decimal // total distributions per share for the year, USD
	Underlying            []UnderlyingFund
}

// YearDays returns the day count of the tax year (365, or 366 in leap years).
func (a *AISData) YearDays() int { return YearDays(a.TaxYear) }

// DistributionRate returns the distributions per day per share, the yearly
// figure spread evenly across the year's actual day count.
func (a *AISData) DistributionRate() decimal.Decimal {
	return a.DistributionsPerShare.Div(decimal.NewFromInt(int64(a.YearDays())))
}

// Funds returns the rates of every fund on the statement, the directly-held
// fund first. This order is also the rendering order of per-fund breakdowns.
func (a *AISData) Funds() []FundRates {
	funds := []FundRates{{
		Ticker:       a.Ticker,
		Name:         a.Name,
		EarningsRate: a.EarningsRate,
		GainsRate:    a.GainsRate,
	}}
	for _, u := range a.Underlying {
		funds = append(funds, FundRates(u))
	}
	return funds
}

// BasisAdjustmentRecord is the outcome of allocating one tax year of QEF
// income onto one lot.
type BasisAdjustmentRecord struct {
	LotID          string
	Shares         Quantity
	DaysHeld       int
	Earnings       Money // total ordinary earnings across all funds
	Gains          Money // total net capital gains across all funds
	Distributions  Money // directly-held fund only
	NetAdjustment  Money
	BasisBefore    Money
	BasisAfter     Money // floored at zero
	EarningsByFund map[string]Money
	GainsByFund    map[string]Money
}

// LotQEFIncome computes the QEF income of a single lot for the days it was
// held during the AIS tax year.
//
// For every fund on the statement, earnings and gains are rate × shares ×
// days, rounded to money precision independently; the totals are the sums
// across funds. Distributions accrue from the directly-held fund only. The
// resulting basis is never allowed to go negative.
func LotQEFIncome(lot *Lot, daysHeld int, ais *AISData) BasisAdjustmentRecord {
	shares := lot.Shares
	days := Q(int64(daysHeld))

	earningsByFund := make(map[string]Money)
	gainsByFund := make(map[string]Money)
	totalEarnings := USD(0)
	totalGains := USD(0)

	for _, fund := range ais.Funds() {
		earnings := USD(fund.EarningsRate).Mul(shares).Mul(days).Round()
		earningsByFund[fund.Ticker] = earnings
		totalEarnings = totalEarnings.Add(earnings)

		gains := USD(fund.GainsRate).Mul(shares).Mul(days).Round()
		gainsByFund[fund.Ticker] = gains
		totalGains = totalGains.Add(gains)
	}

	distributions := USD(ais.DistributionRate()).Mul(shares).Mul(days).Round()

	net := totalEarnings.Add(totalGains).Sub(distributions)

	basisBefore := lot.CostBasis
	basisAfter := basisBefore.Add(net).Round()
	if basisAfter.IsNegative() {
		basisAfter = USD(0)
	}

	return BasisAdjustmentRecord{
		LotID:          lot.ID,
		Shares:         shares,
		DaysHeld:       daysHeld,
		Earnings:       totalEarnings,
		Gains:          totalGains,
		Distributions:  distributions,
		NetAdjustment:  net.Round(),
		BasisBefore:    basisBefore,
		BasisAfter:     basisAfter,
		EarningsByFund: earningsByFund,
		GainsByFund:    gainsByFund,
	}
}

// ApplyQEFAdjustments computes a basis adjustment record for every lot the
// ledger held during the tax year and writes this year's figures onto each
// lot, overwriting any previous accruals. It is meant to run at most once
// per lot per tax year. Records are returned in ledger iteration order.
func ApplyQEFAdjustments(ledger *Ledger, taxYear int, ais *AISData) []BasisAdjustmentRecord {
	var records []BasisAdjustmentRecord

	for _, ld := range ledger.LotsForYear(taxYear) {
		if ld.Days <= 0 {
			continue
		}
		record := LotQEFIncome(ld.Lot, ld.Days, ais)
		records = append(records, record)

		lot := ld.Lot
		lot.Earnings = record.Earnings
		lot.Gains = record.Gains
		lot.Distributions = record.Distributions
		lot.EarningsByFund = cloneFundMap(record.EarningsByFund)
		lot.GainsByFund = cloneFundMap(record.GainsByFund)
	}
	return records
}

func cloneFundMap(m map[string]Money) map[string]Money {
	out := make(map[string]Money, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Form8621Data aggregates one fund's QEF income across all lots, one entry
// per Form 8621 to file.
type Form8621Data struct {
	Ticker              string
	Name                string
	DirectHolding       bool
	OrdinaryEarnings    Money // line 6a
	EarningsDistributed Money // line 6b, zero under the no-excess-distribution regime
	NetCapitalGains     Money // line 7a
	GainsDistributed    Money // line 7b, zero under the no-excess-distribution regime
}

// TaxOnEarnings is line 6c. With no excess distribution it equals line 6a.
func (f Form8621Data) TaxOnEarnings() Money { return f.OrdinaryEarnings }

// TaxOnGains is line 7c. With no excess distribution it equals line 7a.
func (f Form8621Data) TaxOnGains() Money { return f.NetCapitalGains }

// Form8621 aggregates the per-fund breakdowns of all adjustment records into
// one Form8621Data per fund known to the AIS, the directly-held fund first.
// Funds with no matching records report zero.
func Form8621(records []BasisAdjustmentRecord, ais *AISData) []Form8621Data {
	earnings := make(map[string]Money)
	gains := make(map[string]Money)

	for _, record := range records {
		for ticker, amount := range record.EarningsByFund {
			earnings[ticker] = earnings[ticker].Add(amount)
		}
		for ticker, amount := range record.GainsByFund {
			gains[ticker] = gains[ticker].Add(amount)
		}
	}

	var forms []Form8621Data
	for i, fund := range ais.Funds() {
		forms = append(forms, Form8621Data{
			Ticker:              fund.Ticker,
			Name:                fund.Name,
			DirectHolding:       i == 0,
			OrdinaryEarnings:    USD(0).Add(earnings[fund.Ticker]).Round(),
			EarningsDistributed: USD(0),
			NetCapitalGains:     USD(0).Add(gains[fund.Ticker]).Round(),
			GainsDistributed:    USD(0),
		})
	}
	return forms
}

// TotalQEFIncome sums earnings, gains, and distributions across records.
func TotalQEFIncome(records []BasisAdjustmentRecord) (earnings, gains, distributions Money) {
	earnings, gains, distributions = USD(0), USD(0), USD(0)
	for _, r := range records {
		earnings = earnings.Add(r.Earnings)
		gains = gains.Add(r.Gains)
		distributions = distributions.Add(r.Distributions)
	}
	return earnings.Round(), gains.Round(), distributions.Round()
}
