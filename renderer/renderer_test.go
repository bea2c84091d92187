package renderer

import (
	"io/fs"
	"strings"
	"testing"
	"text/template"

	"github.com/etnz/tracker"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// table is the shape of a markdown table: the number of cells of each row,
// header included.
type table [][]string

// parseTables returns the tables found in the markdown source.
func parseTables(t *testing.T, src string) []table {
	t.Helper()
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	source := []byte(src)
	doc := md.Parser().Parse(text.NewReader(source))

	var tables []table
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *east.Table:
			tables = append(tables, nil)
		case *east.TableHeader, *east.TableRow:
			var row []string
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if _, ok := c.(*east.TableCell); ok {
					row = append(row, cellText(c, source))
				}
			}
			tables[len(tables)-1] = append(tables[len(tables)-1], row)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("walking markdown: %v", err)
	}
	return tables
}

func cellText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			b.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func assertShape(t *testing.T, got table, rows, cols int) {
	t.Helper()
	if len(got) != rows {
		t.Fatalf("table has %d rows, want %d: %v", len(got), rows, got)
	}
	for i, row := range got {
		if len(row) != cols {
			t.Errorf("row %d has %d cells, want %d: %v", i, len(row), cols, row)
		}
	}
}

var (
	day1 = tracker.NewDate(2025, 1, 1)
	day2 = tracker.NewDate(2025, 1, 2)
)

// testReport values a small portfolio: 0.5 BTC held, GOLD fully sold.
func testReport(t *testing.T) *tracker.Report {
	t.Helper()
	l := tracker.NewLedger()
	if _, err := l.Append(
		tracker.NewBuy(day1, "BTC", tracker.Q(1), tracker.M(20000, "EUR")),
		tracker.NewSell(day2, "BTC", tracker.Q(0.5), tracker.M(15000, "EUR")),
		tracker.NewBuy(day1, "GOLD", tracker.Q(10), tracker.M(600, "EUR")),
		tracker.NewSell(day2, "GOLD", tracker.Q(10), tracker.M(700, "EUR")),
		tracker.NewEarn(day2, "SOL", tracker.Q(2)),
	); err != nil {
		t.Fatal(err)
	}
	prices := tracker.Prices{
		"BTC":  tracker.M(40000, "EUR"),
		"GOLD": tracker.M(75, "EUR"),
		"SOL":  tracker.M(100, "EUR"),
	}
	book, err := tracker.NewBook(l, prices, nil, "EUR")
	if err != nil {
		t.Fatal(err)
	}
	r, err := book.Report(day2)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestRenderHolding(t *testing.T) {
	h := NewHolding(testReport(t), tracker.DefaultCatalog())
	if len(h.Positions) != 2 {
		t.Fatalf("got %d positions, want BTC and SOL", len(h.Positions))
	}
	if h.Positions[0].Quantity != "0.50000000" {
		t.Errorf("BTC quantity = %q, want 8 decimals", h.Positions[0].Quantity)
	}

	out := RenderHolding(h)
	tables := parseTables(t, out)
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1:\n%s", len(tables), out)
	}
	// header, BTC, SOL, total
	assertShape(t, tables[0], 4, 5)
	if got := tables[0][1][0]; got != "Bitcoin" {
		t.Errorf("first asset = %q, want Bitcoin", got)
	}
	if strings.Contains(out, "Anomalies") {
		t.Errorf("unexpected anomalies section:\n%s", out)
	}
}

func TestRenderGains(t *testing.T) {
	g := NewGains(testReport(t), tracker.DefaultCatalog())
	// BTC realized 5000, GOLD realized 100
	if want := tracker.M(5100, "EUR"); !g.Realized.Equal(want) {
		t.Errorf("Realized = %v, want %v", g.Realized, want)
	}
	out := RenderGains(g)
	tables := parseTables(t, out)
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1:\n%s", len(tables), out)
	}
	// header, BTC, GOLD (closed with a gain), SOL, total
	assertShape(t, tables[0], 5, 8)
	if got := tables[0][2][0]; got != "Gold (g)" {
		t.Errorf("second asset = %q, want Gold (g)", got)
	}
}

func TestRenderAnomalies(t *testing.T) {
	h := &Holding{
		Date:      day1,
		Currency:  "EUR",
		Total:     tracker.M(0, "EUR"),
		Anomalies: []tracker.Anomaly{{Symbol: "BTC", Message: "sell exceeds holdings"}},
	}
	out := RenderHolding(h)
	if !strings.Contains(out, "## Anomalies") || !strings.Contains(out, "* BTC: sell exceeds holdings") {
		t.Errorf("anomalies not rendered:\n%s", out)
	}
}

func TestRenderSummary(t *testing.T) {
	s := NewSummary(testReport(t))
	if s.Assets != 2 {
		t.Errorf("Assets = %d, want 2", s.Assets)
	}
	out := RenderSummary(s)
	tables := parseTables(t, out)
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1:\n%s", len(tables), out)
	}
	assertShape(t, tables[0], 6, 2)
	if !strings.Contains(out, "2 assets held") {
		t.Errorf("missing asset count:\n%s", out)
	}
}

func TestTransactionsMarkdown(t *testing.T) {
	sell, buy := tracker.NewConversion(day1, "BTC", tracker.Q(0.1), "ETH", tracker.Q(2), tracker.M(5000, "USD"))
	sell.ID = "6f1c2a3b-0000-4000-8000-000000000001"
	txs := []tracker.Transaction{
		tracker.NewBuy(day1, "BTC", tracker.Q(1), tracker.M(50000, "USD")),
		sell,
		buy,
		tracker.NewEarn(day2, "SOL", tracker.Q(0.25)),
	}
	out := TransactionsMarkdown(txs, tracker.DefaultCatalog())
	tables := parseTables(t, out)
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1:\n%s", len(tables), out)
	}
	assertShape(t, tables[0], 5, 7)
	if got := tables[0][2][1]; got != "CONVERT from" {
		t.Errorf("conversion sell type = %q", got)
	}
	if got := tables[0][2][6]; got != "6f1c2a3b" {
		t.Errorf("short id = %q, want 6f1c2a3b", got)
	}
	if got := tables[0][4][4]; got != "" {
		t.Errorf("earn price = %q, want empty", got)
	}

	if out := TransactionsMarkdown(nil, nil); !strings.Contains(out, "No transactions.") {
		t.Errorf("empty list rendered as:\n%s", out)
	}
}

func TestCatalogMarkdown(t *testing.T) {
	c := tracker.DefaultCatalog()
	out := CatalogMarkdown(c, []tracker.Symbol{"BTC", "DOGE"})
	tables := parseTables(t, out)
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1:\n%s", len(tables), out)
	}
	assertShape(t, tables[0], len(c.Symbols())+2, 7)
	last := tables[0][len(tables[0])-1]
	if last[0] != "DOGE" || last[1] != "X" {
		t.Errorf("held unknown symbol rendered as %v", last)
	}
}

// TestTemplates checks that every embedded template parses.
func TestTemplates(t *testing.T) {
	files, err := fs.Glob(templates, "*.md")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no embedded templates")
	}
	for _, file := range files {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := template.New(file).Parse(string(content)); err != nil {
			t.Errorf("%s: %v", file, err)
		}
	}
}

func TestPricesMarkdown(t *testing.T) {
	prices := tracker.Prices{"BTC": tracker.M(40000, "EUR")}
	out := PricesMarkdown([]tracker.Symbol{"BTC", "GOLD"}, prices, tracker.DefaultCatalog())
	tables := parseTables(t, out)
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1:\n%s", len(tables), out)
	}
	assertShape(t, tables[0], 3, 3)
	if got := tables[0][2]; got[1] != "Gold (g)" || got[2] != "n/a" {
		t.Errorf("missing price rendered as %v", got)
	}
	if got := tables[0][1][2]; got != prices["BTC"].String() {
		t.Errorf("BTC price = %q, want %q", got, prices["BTC"].String())
	}
}
