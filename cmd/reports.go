package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/pfictools/qef"
	"github.com/pfictools/qef/renderer"
)

// lotsCmd shows the lots of a lots file without replaying anything.
type lotsCmd struct {
	lotsFile string
}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "show the lots of a lots file" }
func (*lotsCmd) Usage() string {
	return `pqt lots -lots <file>

  Shows the lots of a JSONL lots file (opening or ending lots).
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.lotsFile, "lots", "", "Lots file (JSONL)")
}

func (c *lotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	file, err := os.Open(c.lotsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening lots file %q: %v\n", c.lotsFile, err)
		return subcommands.ExitFailure
	}
	defer file.Close()
	lots, err := qef.DecodeLots(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading lots file %q: %v\n", c.lotsFile, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.LotsMarkdown("Lots", lots))
	return subcommands.ExitSuccess
}

// salesCmd reports the realized sales of the year.
type salesCmd struct {
	inputs
}

func (*salesCmd) Name() string     { return "sales" }
func (*salesCmd) Synopsis() string { return "realized sales with QEF-adjusted gain/loss" }
func (*salesCmd) Usage() string {
	return `pqt sales -ais <file> [-lots <file>] [-transactions <file>]

  Replays the year and reports every sold lot with its gain or loss
  against the QEF-adjusted basis.
`
}

func (c *salesCmd) SetFlags(f *flag.FlagSet) { c.inputs.SetFlags(f) }

func (c *salesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, _, err := c.run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.SalesMarkdown(report.Sales))
	return subcommands.ExitSuccess
}

// adjustmentsCmd reports the per-lot basis adjustments of the year.
type adjustmentsCmd struct {
	inputs
}

func (*adjustmentsCmd) Name() string     { return "adjustments" }
func (*adjustmentsCmd) Synopsis() string { return "per-lot QEF basis adjustments" }
func (*adjustmentsCmd) Usage() string {
	return `pqt adjustments -ais <file> [-lots <file>] [-transactions <file>]

  Replays the year and reports the QEF income allocated to each lot and
  the resulting basis adjustments.
`
}

func (c *adjustmentsCmd) SetFlags(f *flag.FlagSet) { c.inputs.SetFlags(f) }

func (c *adjustmentsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, ais, err := c.run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.AdjustmentsMarkdown(report.Adjustments, ais))
	return subcommands.ExitSuccess
}

// form8621Cmd reports the aggregated Form 8621 data per fund.
type form8621Cmd struct {
	inputs
}

func (*form8621Cmd) Name() string     { return "form8621" }
func (*form8621Cmd) Synopsis() string { return "Form 8621 Part III data per fund" }
func (*form8621Cmd) Usage() string {
	return `pqt form8621 -ais <file> [-lots <file>] [-transactions <file>]

  Replays the year and reports the aggregated Form 8621 Part III figures
  for the directly-held fund and each underlying fund.
`
}

func (c *form8621Cmd) SetFlags(f *flag.FlagSet) { c.inputs.SetFlags(f) }

func (c *form8621Cmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, _, err := c.run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Form8621Markdown(report.Form8621, report.TaxYear))
	return subcommands.ExitSuccess
}
