// Command trk tracks crypto currency and commodity holdings.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/tracker/cmd"
	"github.com/google/subcommands"
)

func main() {
	name := path.Base(os.Args[0])
	cmd.Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	cmd.Register(commander)
	flag.Parse()

	if sub := flag.Arg(0); sub != "" && !cmd.IsCommand(sub) {
		if found, code := cmd.RunExtension(sub, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}
