package agent

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/etnz/tracker"
	"google.golang.org/genai"
)

// fakePortfolio reports the ledger without prices.
type fakePortfolio struct {
	ledger *tracker.Ledger
}

func (p fakePortfolio) Ledger() *tracker.Ledger   { return p.ledger }
func (p fakePortfolio) Catalog() *tracker.Catalog { return tracker.DefaultCatalog() }
func (p fakePortfolio) Report(_ context.Context, on tracker.Date) (*tracker.Report, error) {
	book, err := tracker.NewBook(p.ledger, tracker.Prices{"BTC": tracker.M(150, "EUR")}, nil, "EUR")
	if err != nil {
		return nil, err
	}
	return book.Report(on)
}

func newPortfolio(t *testing.T) fakePortfolio {
	t.Helper()
	l := tracker.NewLedger()
	_, err := l.Append(
		tracker.Transaction{Symbol: "BTC", Type: tracker.Buy, Quantity: tracker.Q(2), Price: tracker.M(200, "EUR"), Date: tracker.NewDate(2025, 1, 1)},
		tracker.Transaction{Symbol: "BTC", Type: tracker.Sell, Quantity: tracker.Q(1), Price: tracker.M(120, "EUR"), Date: tracker.NewDate(2025, 2, 1)},
		tracker.Transaction{Symbol: "SILVER", Type: tracker.Buy, Quantity: tracker.Q(10), Price: tracker.M(250, "EUR"), Date: tracker.NewDate(2025, 3, 1)},
	)
	if err != nil {
		t.Fatal(err)
	}
	return fakePortfolio{ledger: l}
}

func call(lib Library, name string, args map[string]any) *genai.FunctionResponse {
	return lib(context.Background(), &genai.FunctionCall{ID: "1", Name: name, Args: args})
}

func TestAccountant(t *testing.T) {
	e := NewAccountant(DefaultModel, newPortfolio(t))

	tests := []struct {
		name    string
		args    map[string]any
		want    []string // substrings of the output
		wantErr string
	}{
		{name: "portfolio_report", args: map[string]any{"date": "2025-02-15"}, want: []string{"Bitcoin", "Holdings on 2025-02-15"}},
		{name: "portfolio_report", args: map[string]any{}, want: []string{"Silver (g)"}},
		{name: "portfolio_report", args: map[string]any{"date": "yesterday"}, wantErr: "valid date"},
		{name: "portfolio_report", args: map[string]any{"date": 12}, wantErr: "must be a string"},
		{name: "list_transactions", args: map[string]any{"symbol": "silver"}, want: []string{"2025-03-01"}},
		{name: "list_transactions", args: nil, want: []string{"2025-01-01", "2025-03-01"}},
		{name: "list_symbols", want: []string{"| BTC | X |", "| ETH |   |"}},
		{name: "unknown", wantErr: "unknown function"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(e.Library, tt.name, tt.args)
			if resp.ID != "1" || resp.Name != tt.name {
				t.Errorf("response is %q/%q, want 1/%q", resp.ID, resp.Name, tt.name)
			}
			if tt.wantErr != "" {
				msg, _ := resp.Response["error"].(string)
				if !strings.Contains(msg, tt.wantErr) {
					t.Errorf("error = %q, want it to contain %q", msg, tt.wantErr)
				}
				return
			}
			if err, ok := resp.Response["error"]; ok {
				t.Fatalf("unexpected error %v", err)
			}
			out, _ := resp.Response["output"].(string)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output does not contain %q:\n%s", w, out)
				}
			}
		})
	}

	t.Run("list_transactions filtered", func(t *testing.T) {
		resp := call(e.Library, "list_transactions", map[string]any{"symbol": "SILVER"})
		out, _ := resp.Response["output"].(string)
		if strings.Contains(out, "2025-01-01") {
			t.Errorf("BTC transactions listed for SILVER:\n%s", out)
		}
	})
}

func TestDeclarations(t *testing.T) {
	accountant := NewAccountant(DefaultModel, newPortfolio(t))
	analyst := NewAnalyst(DefaultModel)
	f := NewFacilitator(DefaultModel, accountant, analyst)

	decls := f.Config.Tools[0].FunctionDeclarations
	if len(decls) != 2 || decls[0].Name != "Accountant" || decls[1].Name != "Analyst" {
		t.Fatalf("facilitator tools = %v, want Accountant and Analyst", decls)
	}
	got := accountant.Config.Tools[0].FunctionDeclarations
	var names []string
	for _, d := range got {
		names = append(names, d.Name)
	}
	if strings.Join(names, ",") != "portfolio_report,list_transactions,list_symbols" {
		t.Errorf("accountant tools = %v", names)
	}
}

func TestExpert_CallInvalidQuestion(t *testing.T) {
	e := NewAnalyst(DefaultModel)
	resp := e.Call(context.Background(), "7", map[string]any{"question": 42})
	msg, _ := resp.Response["error"].(string)
	if !strings.Contains(msg, "must be a string") {
		t.Errorf("Call() error = %q", msg)
	}

	// not started
	resp = e.Call(context.Background(), "8", map[string]any{"question": "gold news?"})
	msg, _ = resp.Response["error"].(string)
	if !strings.Contains(msg, "not started") {
		t.Errorf("Call() error = %q", msg)
	}
}

func TestAgent_Bye(t *testing.T) {
	var out bytes.Buffer
	a := New(&out, strings.NewReader("\n  bye\n"), DefaultModel)
	// a started facilitator never reaches the network when the user leaves
	a.Facilitator.chat = &genai.Chat{}
	if err := a.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Welcome to trk assist") {
		t.Errorf("Run() output = %q", out.String())
	}
}
