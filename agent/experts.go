package agent

import (
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

func instruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

// NewFacilitator creates the expert leading the conversation with the user.
func NewFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: instruction(`
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and keep the context of your previous questions.

			The user tracks crypto currencies and commodities like gold or silver. They are here
			to understand their holdings, their gains and what moves the markets of their assets.

			Devise a plan of questions to ask to each expert and come up with the best response to the user's request.
			The user assumes you know their assets: ask the Accountant first.
			Answer in markdown.
		`),
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst creates an expert of crypto and commodity markets grounded on
// Google Search.
func NewAnalyst(model string) *Expert {
	return &Expert{
		Name: "Analyst",
		Description: `This is a market analyst who follows crypto currencies, precious metals and commodities.
		Ask the Analyst whenever you need recent news or grounding information about an asset.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: instruction(`
			You are a market analyst of crypto currencies and commodities. You use Google Search to
			ground your assertions and to find the latest news, and you relate them to the question.
			You never give financial advice.
		`),
		},
	}
}

// NewAccountant creates the expert reading the user's ledger in p.
func NewAccountant(model string, p Portfolio) *Expert {
	lib := accountantFunctions(p)
	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant, in charge of the user's ledger of transactions.
		The Accountant knows the held quantities, the buy values, the realized and unrealized gains of every asset.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: instruction(`
			You are an accountant in charge of the user's ledger of transactions.
			Gains are computed with the first-in first-out method: a sale consumes the oldest purchases first.
			Use the Tools to answer questions about the user's assets:
			  - the portfolio report gives holdings, gains and totals on a day
			  - the list of transactions details every buy, sell and earning
			  - the symbols list tells what each symbol stands for
			Other experts may use approximate language, figure out what they meant.
		`),
		},
		Library: NewLibrary(lib),
	}
}
