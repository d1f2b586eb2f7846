package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/pfictools/qef/cmd"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion handles shell completion requests. It is a no-op unless the
// shell invoked the binary with COMP_LINE set.
func completion() {
	inputs := map[string]complete.Predictor{
		"lots":         predict.Files("*.jsonl"),
		"transactions": predict.Files("*.jsonl"),
		"ais":          predict.Files("*.json"),
	}
	root := &complete.Command{
		Sub: map[string]*complete.Command{
			"process": {Flags: map[string]complete.Predictor{
				"lots":         predict.Files("*.jsonl"),
				"transactions": predict.Files("*.jsonl"),
				"ais":          predict.Files("*.json"),
				"out":          predict.Dirs("*"),
			}},
			"lots":        {Flags: map[string]complete.Predictor{"lots": predict.Files("*.jsonl")}},
			"sales":       {Flags: inputs},
			"adjustments": {Flags: inputs},
			"form8621":    {Flags: inputs},
			"topic":       {Args: predict.Set{"process", "lots", "qef", "files", "readme", "*"}},
		},
	}
	root.Complete(path.Base(os.Args[0]))
}
