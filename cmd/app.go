// Package cmd implements the CLI application to prepare QEF tax data for a
// PFIC holding.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/pfictools/qef"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&processCmd{}, "processing")

	c.Register(&lotsCmd{}, "reports")
	c.Register(&salesCmd{}, "reports")
	c.Register(&adjustmentsCmd{}, "reports")
	c.Register(&form8621Cmd{}, "reports")

	c.Register(&topicCmd{}, "help")
}

// inputs holds the flags shared by every command that replays a tax year:
// the opening lots, the year's transactions, and the AIS statement.
// As a CLI application it has a very short lived lifecycle, so commands
// reload the files on every run.
type inputs struct {
	lotsFile         string
	transactionsFile string
	aisFile          string
}

func (in *inputs) SetFlags(f *flag.FlagSet) {
	f.StringVar(&in.lotsFile, "lots", "", "Opening lots file (JSONL), typically last year's ending lots. Optional for the first year of ownership.")
	f.StringVar(&in.transactionsFile, "transactions", "", "Transactions file (JSONL). Optional for years with no activity.")
	f.StringVar(&in.aisFile, "ais", "", "Annual Information Statement file (JSON).")
}

// decodeLots reads the opening lots, an empty path meaning no prior holdings.
func (in *inputs) decodeLots() ([]*qef.Lot, error) {
	if in.lotsFile == "" {
		return nil, nil
	}
	f, err := os.Open(in.lotsFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open lots file %q: %w", in.lotsFile, err)
	}
	defer f.Close()
	return qef.DecodeLots(f)
}

// decodeTransactions reads the year's transactions, an empty path meaning no activity.
func (in *inputs) decodeTransactions() ([]qef.Transaction, error) {
	if in.transactionsFile == "" {
		return nil, nil
	}
	f, err := os.Open(in.transactionsFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open transactions file %q: %w", in.transactionsFile, err)
	}
	defer f.Close()
	return qef.DecodeTransactions(f)
}

// decodeAIS reads the AIS statement. It is required by every pipeline run.
func (in *inputs) decodeAIS() (*qef.AISData, error) {
	if in.aisFile == "" {
		return nil, fmt.Errorf("missing -ais flag")
	}
	f, err := os.Open(in.aisFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open AIS file %q: %w", in.aisFile, err)
	}
	defer f.Close()
	return qef.DecodeAISData(f)
}

// run replays the whole pipeline: opening lots, transactions, and QEF
// adjustments for the AIS tax year.
func (in *inputs) run() (*qef.ActivityReport, *qef.AISData, error) {
	ais, err := in.decodeAIS()
	if err != nil {
		return nil, nil, err
	}
	opening, err := in.decodeLots()
	if err != nil {
		return nil, nil, err
	}
	txs, err := in.decodeTransactions()
	if err != nil {
		return nil, nil, err
	}

	ledger, err := qef.ProcessTransactions(opening, txs)
	if err != nil {
		return nil, nil, err
	}
	adjustments := qef.ApplyQEFAdjustments(ledger, ais.TaxYear, ais)
	report := qef.NewActivityReport(ais, opening, txs, ledger, adjustments)
	return report, ais, nil
}

// printMarkdown renders a markdown report for the terminal, falling back to
// the raw markdown when rendering is not possible.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
