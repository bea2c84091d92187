package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/tracker/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI assistant" }
func (*assistCmd) Usage() string {
	return `trk assist [<question>]

  Starts an interactive session with the AI assistant, asking <question> first.
  Requires gemini_api_key to be set, see 'trk topic config'.
`
}
func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if a.cfg.GeminiAPIKey == "" {
		fmt.Fprintln(os.Stderr, "Error: the assistant needs a Gemini API key, set TRK_GEMINI_API_KEY.")
		return subcommands.ExitFailure
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: a.cfg.GeminiAPIKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	model := a.cfg.GeminiModel
	assistant := agent.New(stdout, os.Stdin, model,
		agent.NewAccountant(model, a),
		agent.NewAnalyst(model),
	)
	if !*plain {
		assistant.Render = renderMarkdown
	}
	if err := assistant.Run(ctx, client, strings.Join(f.Args(), " ")); err != nil {
		fmt.Fprintln(os.Stderr, "Assistant failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
