// Command pfm values stock portfolios and reconciles their performance
// against benchmarks.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/perform/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	cmd.LoadEnv()

	// Shell completion: when invoked by the shell's completion hook this
	// prints candidates and exits, otherwise it is a no-op.
	completion().Complete("pfm")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the CLI to the completion engine: every
// subcommand by name, with file completion on the flags that take one.
func completion() *complete.Command {
	sub := make(map[string]*complete.Command, len(cmd.Commands))
	for _, c := range cmd.Commands {
		sub[c.Name()] = &complete.Command{}
	}
	sub["import"].Flags = map[string]complete.Predictor{
		"holdings": predict.Files("*.csv"),
		"bhavcopy": predict.Files("*.csv"),
	}
	sub["export"].Flags = map[string]complete.Predictor{
		"o": predict.Files("*.csv"),
	}
	return &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"data":     predict.Dirs("*"),
			"currency": predict.Set{"INR", "USD", "EUR"},
		},
	}
}
