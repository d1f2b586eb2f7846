package qef

import (
	"encoding/json"
	"fmt"
	"time"
)

// LotStatus is the lifecycle state of a tax lot.
type LotStatus int

const (
	// Held means the lot is part of the current holdings.
	Held LotStatus = iota
	// Sold means the lot was consumed by a sell; it stays in the ledger for auditing.
	Sold
)

func (s LotStatus) String() string {
	switch s {
	case Held:
		return "HELD"
	case Sold:
		return "SOLD"
	default:
		return "unknown"
	}
}

// ParseLotStatus parses a string into a LotStatus.
func ParseLotStatus(s string) (LotStatus, error) {
	switch s {
	case "HELD":
		return Held, nil
	case "SOLD":
		return Sold, nil
	default:
		return 0, fmt.Errorf("unknown lot status: %q", s)
	}
}

// GainType classifies a realized gain by holding period.
type GainType int

const (
	// ShortTerm is a gain on a lot held one year or less.
	ShortTerm GainType = iota
	// LongTerm is a gain on a lot held more than one year.
	LongTerm
)

func (g GainType) String() string {
	switch g {
	case ShortTerm:
		return "SHORT_TERM"
	case LongTerm:
		return "LONG_TERM"
	default:
		return "unknown"
	}
}

// UnknownPurchaseDate is the sentinel purchase date given to synthetic lots
// created when a sale exceeds the shares on record.
var UnknownPurchaseDate = NewDate(1900, time.January, 1)

// Lot is a single acquisition of fund shares, tracked separately for cost
// basis purposes. Lots are created by a buy, or by splitting an existing lot
// during a partial sale; they are mutated in place when sold and when QEF
// adjustments are applied.
type Lot struct {
	ID           string   // unique within a ledger, canonical form LOT-NNN or LOT-NNN.n
	PurchaseDate Date     //
	Shares       Quantity // always positive, 4 decimal places
	CostBasis    Money    // total acquisition cost, reporting currency
	Ticker       string   // directly-held fund ticker
	OriginalID   string   // base lot this one was split from, empty otherwise

	Status   LotStatus
	SaleDate Date  // zero until sold
	Proceeds Money // net proceeds allocated to this lot, zero until sold

	// QEF accruals for the last processed tax year. Overwritten, not
	// accumulated, on each allocation run.
	Earnings      Money // ordinary earnings
	Gains         Money // net capital gains
	Distributions Money

	// Per-fund breakdown of the accruals, keyed by fund ticker
	// (directly-held fund plus each underlying fund of the AIS).
	EarningsByFund map[string]Money
	GainsByFund    map[string]Money
}

// NewLot creates a held lot.
func NewLot(id string, purchased Date, shares Quantity, costBasis Money, ticker string) *Lot {
	return &Lot{
		ID:           id,
		PurchaseDate: purchased,
		Shares:       shares.Round(),
		CostBasis:    costBasis.Round(),
		Ticker:       ticker,
	}
}

// AdjustedCostBasis is the cost basis after QEF adjustments: earnings and
// gains increase it, distributions decrease it. It is floored at zero.
func (l *Lot) AdjustedCostBasis() Money {
	adjusted := l.CostBasis.Add(l.Earnings).Add(l.Gains).Sub(l.Distributions).Round()
	if adjusted.IsNegative() {
		return USD(0)
	}
	return adjusted
}

// GainLoss returns the capital gain or loss realized on the lot, against the
// adjusted basis. ok is false while the lot is still held.
func (l *Lot) GainLoss() (gain Money, ok bool) {
	if l.Status != Sold {
		return Money{}, false
	}
	return l.Proceeds.Sub(l.AdjustedCostBasis()).Round(), true
}

// HoldingDays returns the number of days between purchase and sale, or 0
// while the lot is still held.
func (l *Lot) HoldingDays() int {
	if l.SaleDate.IsZero() {
		return 0
	}
	return l.SaleDate.Sub(l.PurchaseDate)
}

// GainType classifies the sale as short or long term. Long term is a holding
// period strictly greater than one year (365 days).
func (l *Lot) GainType() GainType {
	if l.HoldingDays() > 365 {
		return LongTerm
	}
	return ShortTerm
}

// splitRemainder creates the held remainder of a partial sale. The remainder
// points back at the base lot the split chain started from.
func (l *Lot) splitRemainder(id string, shares Quantity, costBasis Money) *Lot {
	original := l.OriginalID
	if original == "" {
		original = l.ID
	}
	r := NewLot(id, l.PurchaseDate, shares, costBasis, l.Ticker)
	r.OriginalID = original
	return r
}

// MarshalJSON implements the json.Marshaler interface for Lot, with a stable
// field order for diff-friendly files.
func (l *Lot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", l.ID)
	w.Append("purchaseDate", l.PurchaseDate)
	w.Append("shares", l.Shares)
	w.Append("costBasis", l.CostBasis)
	w.Optional("ticker", l.Ticker)
	w.Optional("originalId", l.OriginalID)
	w.Append("status", l.Status.String())
	if l.Status == Sold {
		w.Append("saleDate", l.SaleDate)
		w.Append("proceeds", l.Proceeds)
	}
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Lot.
func (l *Lot) UnmarshalJSON(data []byte) error {
	var temp jsonLot
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	lot, err := temp.lot()
	if err != nil {
		return err
	}
	*l = *lot
	return nil
}
