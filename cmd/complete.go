package cmd

import (
	"flag"

	"github.com/etnz/tracker/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete answers the shell completion request in the environment and
// exits, if there is one. COMP_INSTALL=1 installs the completion in the
// user's shell.
func Complete(name string) {
	completion().Complete(name)
}

// completion builds the completion tree from the flags of every command.
func completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flags(flag.CommandLine),
	}
	for _, g := range groups {
		for _, c := range g.commands {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(fs)
			root.Sub[c.Name()] = &complete.Command{Flags: flags(fs)}
		}
	}

	topics, _ := docs.GetAllTopics()
	root.Sub["topic"].Args = predict.Set(append(topics, "*"))
	root.Sub["import"].Args = predict.Files("*.json")
	root.Sub["help"] = &complete.Command{Args: predict.Set(commandNames())}
	return root
}

func flags(fs *flag.FlagSet) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		switch {
		case isBool(f):
			m[f.Name] = predict.Nothing
		case f.Name == "config":
			m[f.Name] = predict.Files("*.yaml")
		case f.Name == "o":
			m[f.Name] = predict.Files("*.json")
		case f.Name == "c" || f.Name == "currency":
			m[f.Name] = predict.Set{"EUR", "USD", "GBP", "CHF", "JPY"}
		case f.Name == "kind":
			m[f.Name] = predict.Set{"crypto", "commodity"}
		default:
			m[f.Name] = predict.Something
		}
	})
	return m
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

func commandNames() []string {
	var names []string
	for _, g := range groups {
		for _, c := range g.commands {
			names = append(names, c.Name())
		}
	}
	return names
}
