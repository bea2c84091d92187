package cmd

import (
	"github.com/google/subcommands"
)

// groups lists the commands by the group they are shown in.
var groups = []struct {
	name     string
	commands []subcommands.Command
}{
	{"transactions", []subcommands.Command{&buyCmd{}, &sellCmd{}, &earnCmd{}, &convertCmd{}, &editCmd{}, &rmCmd{}, &txCmd{}}},
	{"reports", []subcommands.Command{&holdingCmd{}, &gainsCmd{}, &summaryCmd{}, &pricesCmd{}}},
	{"ledger", []subcommands.Command{&symbolsCmd{}, &fmtCmd{}, &importCmd{}, &exportCmd{}}},
	{"apps", []subcommands.Command{&serveCmd{}, &assistCmd{}}},
	{"help", []subcommands.Command{&topicCmd{}}},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "help")
	c.Register(c.FlagsCommand(), "help")
	for _, g := range groups {
		for _, cmd := range g.commands {
			c.Register(cmd, g.name)
		}
	}
}
