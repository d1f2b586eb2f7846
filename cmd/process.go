package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/pfictools/qef"
	"github.com/pfictools/qef/renderer"
)

// processCmd holds the flags for the 'process' subcommand.
type processCmd struct {
	inputs
	out string
}

func (*processCmd) Name() string     { return "process" }
func (*processCmd) Synopsis() string { return "process a tax year and write next year's lots" }
func (*processCmd) Usage() string {
	return `pqt process -ais <file> [-lots <file>] [-transactions <file>] [-out <dir>]

  Replays the year's transactions over the opening lots, applies the QEF
  basis adjustments from the AIS, prints the full activity report, and
  writes the ending lots (next year's opening lots) into the output dir.
`
}

func (c *processCmd) SetFlags(f *flag.FlagSet) {
	c.inputs.SetFlags(f)
	f.StringVar(&c.out, "out", "output", "Directory for the ending lots file")
}

func (c *processCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, ais, err := c.run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.ActivityMarkdown(report, ais))

	if err := os.MkdirAll(c.out, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory %q: %v\n", c.out, err)
		return subcommands.ExitFailure
	}
	name := filepath.Join(c.out, fmt.Sprintf("ending_lots_%d.jsonl", report.TaxYear))
	file, err := os.Create(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", name, err)
		return subcommands.ExitFailure
	}
	defer file.Close()
	if err := qef.EncodeLots(file, report.EndingLots); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", name, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Wrote ending lots to %s\n", name)

	for _, w := range report.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	return subcommands.ExitSuccess
}
