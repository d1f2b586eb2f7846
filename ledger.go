package qef

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidTransaction reports a caller bug: a transaction of the wrong
// type, or one whose amounts were never resolved, was handed to the ledger.
var ErrInvalidTransaction = errors.New("invalid transaction")

// lotIDPrefix is the canonical prefix of ledger-generated lot IDs.
const lotIDPrefix = "LOT-"

// Ledger tracks the tax lots of a single fund position and replays buy and
// sell transactions against them using FIFO matching.
//
// In a Ledger lots are always ordered by purchase date (ties broken by
// insertion order). Sold lots keep their position in the sequence but are no
// longer eligible for future sells. A Ledger is owned by a single processing
// pipeline for one tax year at a time: operations must not be issued
// concurrently, and transactions must be replayed in non-decreasing date
// order.
//
// Selling more shares than are on record is not an error: the shortfall is
// covered by a synthetic lot with an unknown purchase date and zero cost
// basis, recorded in Warnings and UnknownLots, and tax preparation proceeds.
type Ledger struct {
	lots     []*Lot         // ordered by purchase date, includes sold lots in place
	sold     []*Lot         // sold history, in sale order
	counter  int            // last allocated LOT-NNN number
	splits   map[string]int // split counter per base lot ID
	warnings []string
	unknown  []string // IDs of lots with unknown purchase date / cost basis
}

// NewLedger creates a ledger seeded with the opening lots, typically the
// ending lots of the prior tax year. Opening lots are sorted by purchase
// date, and the internal ID counter is primed so that newly generated IDs
// never collide with pre-existing ones.
func NewLedger(opening ...*Lot) *Ledger {
	l := &Ledger{splits: make(map[string]int)}
	sorted := make([]*Lot, len(opening))
	copy(sorted, opening)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PurchaseDate.Before(sorted[j].PurchaseDate)
	})
	for _, lot := range sorted {
		l.lots = append(l.lots, lot)
		l.primeCounter(lot.ID)
	}
	return l
}

// primeCounter raises the ID counter to cover an existing lot ID of the
// canonical LOT-NNN or LOT-NNN.n form.
func (l *Ledger) primeCounter(id string) {
	base, _, _ := strings.Cut(id, ".")
	num, ok := strings.CutPrefix(base, lotIDPrefix)
	if !ok {
		return
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return
	}
	if n > l.counter {
		l.counter = n
	}
}

// nextLotID allocates a new unique lot ID.
func (l *Ledger) nextLotID() string {
	l.counter++
	return fmt.Sprintf("%s%03d", lotIDPrefix, l.counter)
}

// nextSplitID allocates a remainder ID for a split of the given lot. The
// counter is scoped to the base lot ID, so splitting an already-split lot
// still increments the same base counter.
func (l *Ledger) nextSplitID(lotID string) string {
	base, _, _ := strings.Cut(lotID, ".")
	l.splits[base]++
	return fmt.Sprintf("%s.%d", base, l.splits[base])
}

// Warnings returns the data-quality warnings accumulated while processing.
func (l *Ledger) Warnings() []string { return append([]string(nil), l.warnings...) }

// UnknownLots returns the IDs of lots with unknown purchase date and basis.
func (l *Ledger) UnknownLots() []string { return append([]string(nil), l.unknown...) }

// HeldLots returns the currently held lots in ledger order.
func (l *Ledger) HeldLots() []*Lot {
	var held []*Lot
	for _, lot := range l.lots {
		if lot.Status == Held {
			held = append(held, lot)
		}
	}
	return held
}

// SoldLots returns the sold lots in sale order.
func (l *Ledger) SoldLots() []*Lot { return append([]*Lot(nil), l.sold...) }

// AllLots returns every lot the ledger knows about: the ordered sequence
// followed by the sold history. Sold lots keep their position in the
// sequence and are listed again in the history, so they appear twice;
// callers that need each lot once must dedup by ID, as LotsForYear does,
// or combine HeldLots and SoldLots instead.
func (l *Ledger) AllLots() []*Lot {
	all := append([]*Lot(nil), l.lots...)
	return append(all, l.sold...)
}

// TotalShares returns the number of shares currently held.
func (l *Ledger) TotalShares() Quantity {
	var total Quantity
	for _, lot := range l.HeldLots() {
		total = total.Add(lot.Shares)
	}
	return total
}

// Process replays a single transaction. It returns the affected lots: the
// created lot for a buy, the sold lots or fragments for a sell.
func (l *Ledger) Process(tx Transaction) ([]*Lot, error) {
	switch v := tx.(type) {
	case Buy:
		lot, err := l.Buy(v)
		if err != nil {
			return nil, err
		}
		return []*Lot{lot}, nil
	case Sell:
		return l.Sell(v)
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidTransaction, tx)
	}
}

// Buy creates a new held lot for the transaction, with a cost basis of
// amount plus commission, and inserts it preserving purchase-date order.
func (l *Ledger) Buy(tx Buy) (*Lot, error) {
	if tx.What() != CmdBuy {
		return nil, fmt.Errorf("%w: expected a buy, got %q", ErrInvalidTransaction, tx.What())
	}
	if !tx.Shares.IsPositive() {
		return nil, fmt.Errorf("%w: buy on %s has no shares", ErrInvalidTransaction, tx.When())
	}

	lot := NewLot(l.nextLotID(), tx.When(), tx.Shares, tx.TotalCost(), tx.Fund())

	// Insert in chronological order, appending when it is the newest.
	at := len(l.lots)
	for i, existing := range l.lots {
		if existing.PurchaseDate.After(lot.PurchaseDate) {
			at = i
			break
		}
	}
	l.lots = append(l.lots, nil)
	copy(l.lots[at+1:], l.lots[at:])
	l.lots[at] = lot

	return lot, nil
}

// Sell consumes held lots oldest-first to cover the transaction quantity,
// splitting the last lot when only part of it is needed. The sold portion of
// a split keeps the original lot ID; the remainder gets a suffixed ID.
//
// Proceeds are allocated to consumed lots pro-rata by shares. If the sale
// exceeds the shares on record (beyond half a share-precision unit), a
// synthetic zero-basis lot dated UnknownPurchaseDate covers the shortfall;
// it is injected at the front of the FIFO order, so shortfall shares are
// consumed as if they were the oldest holding regardless of the true
// acquisition order of the real lots.
func (l *Ledger) Sell(tx Sell) ([]*Lot, error) {
	if tx.What() != CmdSell {
		return nil, fmt.Errorf("%w: expected a sell, got %q", ErrInvalidTransaction, tx.What())
	}
	if !tx.Shares.IsPositive() {
		return nil, fmt.Errorf("%w: sell on %s has no shares", ErrInvalidTransaction, tx.When())
	}

	tolerance := halfShare()
	available := l.TotalShares()
	if tx.Shares.GreaterThan(available.Add(tolerance)) {
		shortfall := tx.Shares.Sub(available).Round()
		l.warnings = append(l.warnings, fmt.Sprintf(
			"INSUFFICIENT SHARES: sale of %s shares on %s but only %s available; creating synthetic lot for %s shares with unknown purchase date and zero cost basis",
			tx.Shares, tx.When(), available, shortfall))

		synthetic := NewLot(l.nextLotID(), UnknownPurchaseDate, shortfall, USD(0), tx.Fund())
		l.unknown = append(l.unknown, synthetic.ID)
		// Front of the FIFO order: shortfall shares are treated as the
		// oldest holding. Keep this exact policy, a genuinely older real
		// lot is deliberately not preferred over the synthetic one.
		l.lots = append([]*Lot{synthetic}, l.lots...)
	}

	var soldLots []*Lot
	remainingShares := tx.Shares
	remainingProceeds := tx.NetProceeds()

	for remainingShares.GreaterThan(tolerance) {
		oldest, at := l.oldestHeld()
		if oldest == nil {
			// Unreachable after the shortfall lot is injected, kept as a guard.
			l.warnings = append(l.warnings, fmt.Sprintf(
				"no lots available for remaining %s shares", remainingShares))
			break
		}

		if oldest.Shares.LessThanOrEqual(remainingShares.Add(tolerance)) {
			// Consume the whole lot, with a pro-rata slice of the proceeds.
			proceeds := remainingProceeds.Mul(oldest.Shares).Div(remainingShares).Round()

			oldest.Status = Sold
			oldest.SaleDate = tx.When()
			oldest.Proceeds = proceeds

			soldLots = append(soldLots, oldest)
			l.sold = append(l.sold, oldest)

			remainingProceeds = remainingProceeds.Sub(proceeds).Round()
			remainingShares = remainingShares.Sub(oldest.Shares).Round()
			continue
		}

		// Split: the sold portion keeps the original ID and basis share,
		// the remainder becomes a new lot inserted right after it.
		sellShares := remainingShares
		keepShares := oldest.Shares.Sub(sellShares).Round()

		sellBasis := oldest.CostBasis.Mul(sellShares).Div(oldest.Shares).Round()
		keepBasis := oldest.CostBasis.Sub(sellBasis).Round()

		remainder := oldest.splitRemainder(l.nextSplitID(oldest.ID), keepShares, keepBasis)
		if l.isUnknown(oldest.ID) {
			l.unknown = append(l.unknown, remainder.ID)
		}

		oldest.Shares = sellShares.Round()
		oldest.CostBasis = sellBasis
		oldest.Status = Sold
		oldest.SaleDate = tx.When()
		oldest.Proceeds = remainingProceeds.Round()

		soldLots = append(soldLots, oldest)
		l.sold = append(l.sold, oldest)

		l.lots = append(l.lots, nil)
		copy(l.lots[at+2:], l.lots[at+1:])
		l.lots[at+1] = remainder

		remainingShares = Q(0)
		remainingProceeds = USD(0)
	}

	return soldLots, nil
}

// oldestHeld returns the first held lot in ledger order and its index.
func (l *Ledger) oldestHeld() (*Lot, int) {
	for i, lot := range l.lots {
		if lot.Status == Held {
			return lot, i
		}
	}
	return nil, -1
}

func (l *Ledger) isUnknown(id string) bool {
	for _, u := range l.unknown {
		if u == id {
			return true
		}
	}
	return false
}

// LotDays pairs a lot with the number of days it was held within a tax year.
type LotDays struct {
	Lot  *Lot
	Days int
}

// LotsForYear returns every lot that was held for at least one day of the
// tax year, with its inclusive day count. Days are counted from January 1
// (or the purchase date if later) through December 31, or through the day
// before the sale for lots sold during the year. Each lot contributes at
// most once even though sold lots appear both in the ledger sequence and in
// the sold history.
func (l *Ledger) LotsForYear(taxYear int) []LotDays {
	yearStart := NewDate(taxYear, 1, 1)
	yearEnd := NewDate(taxYear, 12, 31)

	var result []LotDays
	seen := make(map[string]bool)

	for _, lot := range l.AllLots() {
		if seen[lot.ID] {
			continue
		}
		seen[lot.ID] = true

		var start Date
		switch {
		case lot.PurchaseDate.Before(yearStart):
			start = yearStart
		case !lot.PurchaseDate.After(yearEnd):
			start = lot.PurchaseDate
		default:
			continue // purchased after the year ends
		}

		end := yearEnd
		if lot.Status == Sold && !lot.SaleDate.IsZero() {
			if lot.SaleDate.Before(yearStart) {
				continue // sold before the year begins
			}
			if !lot.SaleDate.After(yearEnd) {
				// QEF income accrues through the day before the sale.
				end = lot.SaleDate.Add(-1)
			}
		}

		days := end.Sub(start) + 1
		if days <= 0 {
			continue
		}
		result = append(result, LotDays{Lot: lot, Days: days})
	}
	return result
}

// EndingLots returns one copy per currently held lot with the adjusted cost
// basis folded into the cost basis, ready to seed next year's opening lots.
// The result is sorted by purchase date then lot ID.
func (l *Ledger) EndingLots() []*Lot {
	var ending []*Lot
	for _, lot := range l.HeldLots() {
		next := NewLot(lot.ID, lot.PurchaseDate, lot.Shares, lot.AdjustedCostBasis(), lot.Ticker)
		next.OriginalID = lot.OriginalID
		ending = append(ending, next)
	}
	sort.Slice(ending, func(i, j int) bool {
		if !ending[i].PurchaseDate.Before(ending[j].PurchaseDate) &&
			!ending[j].PurchaseDate.Before(ending[i].PurchaseDate) {
			return ending[i].ID < ending[j].ID
		}
		return ending[i].PurchaseDate.Before(ending[j].PurchaseDate)
	})
	return ending
}

// ProcessTransactions replays a full year of transactions over the opening
// lots and returns the resulting ledger. Transactions are sorted by date
// before replay.
func ProcessTransactions(opening []*Lot, txs []Transaction) (*Ledger, error) {
	ledger := NewLedger(opening...)

	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].When().Before(sorted[j].When())
	})

	for _, tx := range sorted {
		if _, err := ledger.Process(tx); err != nil {
			return nil, fmt.Errorf("cannot process %s transaction on %s: %w", tx.What(), tx.When(), err)
		}
	}
	return ledger, nil
}
