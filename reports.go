package qef

import (
	"sort"
)

// SaleRecord is one sold lot (or lot fragment) prepared for capital-gain
// reporting: gain or loss is measured against the QEF-adjusted basis.
type SaleRecord struct {
	LotID         string
	OriginalID    string // base lot for split fragments, empty otherwise
	PurchaseDate  Date
	SaleDate      Date
	Shares        Quantity
	CostBasis     Money // raw basis of the fragment
	AdjustedBasis Money // basis after QEF adjustments
	Proceeds      Money
	GainLoss      Money
	Type          GainType
	HoldingDays   int
}

// Sales returns one record per sold lot, sorted by sale date then lot ID.
func (l *Ledger) Sales() []SaleRecord {
	var records []SaleRecord
	for _, lot := range l.SoldLots() {
		gain, ok := lot.GainLoss()
		if !ok {
			continue
		}
		records = append(records, SaleRecord{
			LotID:         lot.ID,
			OriginalID:    lot.OriginalID,
			PurchaseDate:  lot.PurchaseDate,
			SaleDate:      lot.SaleDate,
			Shares:        lot.Shares,
			CostBasis:     lot.CostBasis,
			AdjustedBasis: lot.AdjustedCostBasis(),
			Proceeds:      lot.Proceeds,
			GainLoss:      gain,
			Type:          lot.GainType(),
			HoldingDays:   lot.HoldingDays(),
		})
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].SaleDate == records[j].SaleDate {
			return records[i].LotID < records[j].LotID
		}
		return records[i].SaleDate.Before(records[j].SaleDate)
	})
	return records
}

// ActivityReport is the full story of one fund position for one tax year:
// what was held coming in, what happened, and what carries into next year.
type ActivityReport struct {
	TaxYear       int
	Ticker        string
	Name          string
	BeginningLots []*Lot
	Transactions  []Transaction
	CreatedLots   []*Lot // new purchases and split remainders
	Sales         []SaleRecord
	Adjustments   []BasisAdjustmentRecord
	EndingLots    []*Lot
	Form8621      []Form8621Data
	Warnings      []string
	UnknownLots   []string
}

// NewActivityReport assembles the year's activity report from a processed
// ledger and its adjustment records.
func NewActivityReport(ais *AISData, beginning []*Lot, txs []Transaction, ledger *Ledger, adjustments []BasisAdjustmentRecord) *ActivityReport {
	beginningIDs := make(map[string]bool, len(beginning))
	for _, lot := range beginning {
		beginningIDs[lot.ID] = true
	}

	yearStart := NewDate(ais.TaxYear, 1, 1)
	var created []*Lot
	seen := make(map[string]bool)
	for _, lot := range ledger.AllLots() {
		if beginningIDs[lot.ID] || seen[lot.ID] {
			continue
		}
		seen[lot.ID] = true
		// Created this year: either purchased during the year, or carved
		// out of an existing lot by a split.
		if !lot.PurchaseDate.Before(yearStart) || lot.OriginalID != "" {
			created = append(created, lot)
		}
	}

	return &ActivityReport{
		TaxYear:       ais.TaxYear,
		Ticker:        ais.Ticker,
		Name:          ais.Name,
		BeginningLots: beginning,
		Transactions:  txs,
		CreatedLots:   created,
		Sales:         ledger.Sales(),
		Adjustments:   adjustments,
		EndingLots:    ledger.EndingLots(),
		Form8621:      Form8621(adjustments, ais),
		Warnings:      ledger.Warnings(),
		UnknownLots:   ledger.UnknownLots(),
	}
}
