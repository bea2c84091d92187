// Package agent is the conversational assistant: a facilitator chat that
// delegates questions to expert chats, each with its own tools.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

// Agent is the AI assistant that handles the chat session.
type Agent struct {
	w           io.Writer
	r           *bufio.Reader
	Facilitator *Expert
	Experts     []*Expert
	// Render formats the markdown answers for the terminal. Answers are
	// printed as is when nil.
	Render func(markdown string) string
}

// New creates an Agent reading the user's questions from r and writing the
// answers to w.
func New(w io.Writer, r io.Reader, model string, experts ...*Expert) *Agent {
	return &Agent{
		w:           w,
		r:           bufio.NewReader(r),
		Experts:     experts,
		Facilitator: NewFacilitator(model, experts...),
	}
}

// Start opens the chats of the facilitator and every expert.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return err
		}
	}
	return a.Facilitator.Start(ctx, client)
}

const prompt = "assist> "

// Run starts the interactive session. prompts are asked first, as if typed
// by the user.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Welcome to trk assist. Type 'bye' to exit.")

	for {
		fmt.Fprint(a.w, prompt)
		var input string

		if len(prompts) > 0 {
			input, prompts = strings.TrimSpace(prompts[0]), prompts[1:]
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil // Ctrl+D
				}
				return err
			}
		}

		input = strings.TrimSpace(input)
		if input == "bye" {
			return nil
		}
		if input == "" {
			continue
		}

		content, err := a.Facilitator.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		answer := text(content)
		if a.Render != nil {
			answer = a.Render(answer)
		}
		fmt.Fprintln(a.w, answer)
	}
}

// text concatenates the text parts of content.
func text(content *genai.Content) string {
	var b strings.Builder
	for _, p := range content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
