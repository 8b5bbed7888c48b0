package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/amey1907/papertrade/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
)

func main() {
	// Shell completion: when invoked by the completion hook this call
	// prints candidates and exits.
	completer := &complete.Command{Sub: make(map[string]*complete.Command)}
	for _, c := range cmd.Commands {
		completer.Sub[c.Name()] = &complete.Command{}
	}
	complete.Complete("pts", completer)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
