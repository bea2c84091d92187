package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/tracker/docs"
	"github.com/google/subcommands"
)

// --- Topic Command ---

type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the documentation" }
func (*topicCmd) Usage() string {
	return `trk topic [-list] [<topic>...]

  Prints the documentation topics, "*" for all of them. Without a topic, prints
  the introduction.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "Only print the names of the topics.")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		names, err := docs.GetAllTopics()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintln(stdout, strings.Join(names, "\n"))
		return subcommands.ExitSuccess
	}

	names := f.Args()
	if len(names) == 0 {
		names = []string{"readme"}
	}
	md, err := docs.GetTopics(names...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
