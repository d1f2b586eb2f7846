package qef

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// This file persists ledger inputs and outputs as JSONL: one JSON object per
// line, human-readable and git-friendly. Transactions are command-tagged
// lines; lots are one lot per line, so an ending-lots file can be fed back
// as next year's opening lots unchanged.

// EncodeTransaction writes a single transaction as one JSONL line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("cannot encode %s transaction: %w", tx.What(), err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// DecodeTransactions reads a JSONL stream of transactions. Lines are decoded
// by their command tag; unknown commands are an error, the ledger only
// understands buys and sells.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	var txs []Transaction
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var identifier struct {
			Command CommandType `json:"command"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify command in line %q: %w", string(line), err)
		}

		switch identifier.Command {
		case CmdBuy:
			var buy Buy
			if err := json.Unmarshal(line, &buy); err != nil {
				return nil, fmt.Errorf("invalid buy line %q: %w", string(line), err)
			}
			txs = append(txs, buy)
		case CmdSell:
			var sell Sell
			if err := json.Unmarshal(line, &sell); err != nil {
				return nil, fmt.Errorf("invalid sell line %q: %w", string(line), err)
			}
			txs = append(txs, sell)
		default:
			return nil, fmt.Errorf("%w: unknown command %q in line %q", ErrInvalidTransaction, identifier.Command, string(line))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return txs, nil
}

// jsonLot is a specialized struct for decoding lot lines.
type jsonLot struct {
	ID           string          `json:"id"`
	PurchaseDate Date            `json:"purchaseDate"`
	Shares       Quantity        `json:"shares"`
	CostBasis    decimal.Decimal `json:"costBasis"`
	Ticker       string          `json:"ticker"`
	OriginalID   string          `json:"originalId"`
	Status       string          `json:"status"`
	SaleDate     Date            `json:"saleDate"`
	Proceeds     decimal.Decimal `json:"proceeds"`
}

func (j jsonLot) lot() (*Lot, error) {
	lot := NewLot(j.ID, j.PurchaseDate, j.Shares, USD(j.CostBasis), j.Ticker)
	lot.OriginalID = j.OriginalID

	status := Held
	if j.Status != "" {
		var err error
		status, err = ParseLotStatus(j.Status)
		if err != nil {
			return nil, err
		}
	}
	lot.Status = status
	if status == Sold {
		lot.SaleDate = j.SaleDate
		lot.Proceeds = USD(j.Proceeds).Round()
	}
	return lot, nil
}

// EncodeLots writes lots as JSONL, one lot per line.
func EncodeLots(w io.Writer, lots []*Lot) error {
	for _, lot := range lots {
		data, err := json.Marshal(lot)
		if err != nil {
			return fmt.Errorf("cannot encode lot %q: %w", lot.ID, err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return err
		}
	}
	return nil
}

// DecodeLots reads a JSONL stream of lots, typically a prior year's ending
// lots used to seed a new ledger.
func DecodeLots(r io.Reader) ([]*Lot, error) {
	var lots []*Lot
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var lot Lot
		if err := json.Unmarshal(line, &lot); err != nil {
			return nil, fmt.Errorf("invalid lot line %q: %w", string(line), err)
		}
		lots = append(lots, &lot)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lots, nil
}
