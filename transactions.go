package qef

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CommandType is a typed string for identifying transaction commands.
type CommandType string

// Command types used for identifying transactions. The ledger understands
// buys and sells only; anything else is filtered upstream.
const (
	CmdBuy  CommandType = "buy"
	CmdSell CommandType = "sell"
)

// Transaction defines the common interface for the financial transactions
// that can be replayed into a lot ledger.
//
// All amounts are expressed in the reporting currency: currency conversion
// belongs to an upstream component.
type Transaction interface {
	What() CommandType // What returns the command type of the transaction ("buy", "sell").
	When() Date        // When returns the date on which the transaction occurred.
	Fund() string      // Fund returns the ticker of the fund involved.
}

type baseCmd struct {
	Command CommandType `json:"command"`        // Command specifies the type of transaction.
	Date    Date        `json:"date"`           // Date is the date when the transaction took place.
	Memo    string      `json:"memo,omitempty"` // Memo provides an optional note for the transaction.
}

// What returns the command name for the transaction.
func (t baseCmd) What() CommandType { return t.Command }

// When returns the date of the transaction.
func (t baseCmd) When() Date { return t.Date }

// secCmd is a component for fund-based transactions.
type secCmd struct {
	baseCmd
	Security string `json:"security"` // Security is the ticker symbol of the fund.
}

// Fund returns the ticker of the fund involved in the transaction.
func (t secCmd) Fund() string { return t.Security }

// tradeCmd carries the numeric legs shared by buys and sells.
type tradeCmd struct {
	Shares     Quantity // Shares is the number of shares or units traded.
	Amount     Money    // Amount is the gross amount of the trade.
	Commission Money    // Commission is the broker fee for the trade.
}

// Buy represents a transaction where a quantity of fund shares is purchased
// for a specified amount plus commission.
type Buy struct {
	secCmd
	tradeCmd
}

// NewBuy creates a new Buy transaction.
func NewBuy(day Date, memo, fund string, shares Quantity, amount, commission Money) Buy {
	return Buy{
		secCmd:   secCmd{baseCmd: baseCmd{Command: CmdBuy, Date: day, Memo: memo}, Security: fund},
		tradeCmd: tradeCmd{Shares: shares.Round(), Amount: amount, Commission: commission},
	}
}

// TotalCost returns the full acquisition cost: amount plus commission.
func (t Buy) TotalCost() Money {
	return t.Amount.Add(t.Commission).Round()
}

// MarshalJSON implements the json.Marshaler interface for Buy.
func (t Buy) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.secCmd)
	w.Append("shares", t.Shares)
	w.Append("amount", t.Amount)
	w.Append("commission", t.Commission)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Buy.
func (t *Buy) UnmarshalJSON(data []byte) error {
	var temp struct {
		secCmd
		jsonTradeCmd
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.secCmd = temp.secCmd
	t.tradeCmd = temp.trade()
	return nil
}

// Sell represents a transaction where a quantity of fund shares is sold for
// a specified amount minus commission.
type Sell struct {
	secCmd
	tradeCmd
}

// NewSell creates a new Sell transaction.
func NewSell(day Date, memo, fund string, shares Quantity, amount, commission Money) Sell {
	return Sell{
		secCmd:   secCmd{baseCmd: baseCmd{Command: CmdSell, Date: day, Memo: memo}, Security: fund},
		tradeCmd: tradeCmd{Shares: shares.Round(), Amount: amount, Commission: commission},
	}
}

// NetProceeds returns the proceeds net of commission.
func (t Sell) NetProceeds() Money {
	return t.Amount.Sub(t.Commission).Round()
}

// MarshalJSON implements the json.Marshaler interface for Sell.
func (t Sell) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.secCmd)
	w.Append("shares", t.Shares)
	w.Append("amount", t.Amount)
	w.Append("commission", t.Commission)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Sell.
func (t *Sell) UnmarshalJSON(data []byte) error {
	var temp struct {
		secCmd
		jsonTradeCmd
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.secCmd = temp.secCmd
	t.tradeCmd = temp.trade()
	return nil
}

// jsonTradeCmd is a specialized struct to decode the numeric legs of a trade.
type jsonTradeCmd struct {
	Shares     Quantity        `json:"shares"`
	Amount     decimal.Decimal `json:"amount"`
	Commission decimal.Decimal `json:"commission"`
}

func (a jsonTradeCmd) trade() tradeCmd {
	return tradeCmd{
		Shares:     a.Shares.Round(),
		Amount:     USD(a.Amount),
		Commission: USD(a.Commission),
	}
}

var _ Transaction = Buy{}
var _ Transaction = Sell{}
