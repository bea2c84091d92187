package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
)

// testEnv points the configuration to a temporary directory and returns the
// ledger path.
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	ledger := filepath.Join(dir, "ledger.jsonl")
	t.Setenv("TRK_LEDGER_FILE", ledger)
	t.Setenv("TRK_CATALOG_FILE", filepath.Join(dir, "catalog.yaml"))
	t.Setenv("TRK_PRICE_CACHE_FILE", filepath.Join(dir, "prices.json"))
	t.Setenv("TRK_DISPLAY_CURRENCY", "USD")
	t.Setenv("TRK_LOG_LEVEL", "error")

	old := *plain
	*plain = true
	t.Cleanup(func() { *plain = old })
	return ledger
}

// run parses args for c and executes it, returning its output.
func run(t *testing.T, c subcommands.Command, args ...string) (string, subcommands.ExitStatus) {
	t.Helper()
	out := captureStdout(t)
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s %v: %v", c.Name(), args, err)
	}
	status := c.Execute(context.Background(), f)
	return out.String(), status
}

// mustRun is like run but fails the test unless c succeeds.
func mustRun(t *testing.T, c subcommands.Command, args ...string) string {
	t.Helper()
	out, status := run(t, c, args...)
	if status != subcommands.ExitSuccess {
		t.Fatalf("%s %v exited with %v:\n%s", c.Name(), args, status, out)
	}
	return out
}

func loadLedger(t *testing.T, path string) *tracker.Ledger {
	t.Helper()
	l, err := tracker.LoadLedger(path)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestTransactionCommands(t *testing.T) {
	path := testEnv(t)

	mustRun(t, &buyCmd{}, "-s", "btc", "-q", "1", "-p", "100", "-d", "2025-01-01")
	mustRun(t, &sellCmd{}, "-s", "BTC", "-q", "0.5", "-p", "80", "-d", "2025-02-01")
	mustRun(t, &earnCmd{}, "-s", "SOL", "-q", "2", "-d", "2025-02-01")

	l := loadLedger(t, path)
	if l.Len() != 3 {
		t.Fatalf("ledger has %d transactions, want 3", l.Len())
	}
	if got := l.Position("BTC", tracker.NewDate(2025, 3, 1)); !got.Equal(tracker.Q(0.5)) {
		t.Errorf("BTC position = %s, want 0.5", got)
	}

	// overselling is rejected
	if _, status := run(t, &sellCmd{}, "-s", "BTC", "-q", "1", "-p", "80", "-d", "2025-02-02"); status != subcommands.ExitFailure {
		t.Errorf("oversell exited with %v, want failure", status)
	}
	// missing flags
	if _, status := run(t, &buyCmd{}, "-s", "BTC"); status != subcommands.ExitUsageError {
		t.Errorf("buy without quantity exited with %v, want usage error", status)
	}

	out := mustRun(t, &txCmd{}, "-s", "btc")
	if strings.Count(out, "| Bitcoin |") != 2 {
		t.Errorf("tx -s btc listed:\n%s", out)
	}
	out = mustRun(t, &txCmd{}, "-tail", "1")
	if strings.Count(out, "2025-") != 1 {
		t.Errorf("tx -tail 1 listed:\n%s", out)
	}

	// edit the purchase by a prefix of its id
	buy := slicesFirst(t, l, tracker.Buy)
	mustRun(t, &editCmd{}, "-id", buy.ID[:8], "-p", "120")
	edited, err := loadLedger(t, path).Get(buy.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !edited.Price.Equal(tracker.M(120, "USD")) || !edited.CreatedAt.Equal(buy.CreatedAt) {
		t.Errorf("edited transaction = %+v", edited)
	}

	// the purchase cannot be removed while the sale depends on it
	if _, status := run(t, &rmCmd{}, "-id", buy.ID); status != subcommands.ExitFailure {
		t.Errorf("rm of a needed purchase exited with %v, want failure", status)
	}
}

func slicesFirst(t *testing.T, l *tracker.Ledger, typ tracker.TransactionType) tracker.Transaction {
	t.Helper()
	for tx := range l.Transactions() {
		if tx.Type == typ {
			return tx
		}
	}
	t.Fatalf("no %s transaction", typ)
	return tracker.Transaction{}
}

func TestConvertCommand(t *testing.T) {
	path := testEnv(t)
	mustRun(t, &buyCmd{}, "-s", "BTC", "-q", "1", "-p", "100", "-d", "2025-01-01")
	mustRun(t, &convertCmd{}, "-from", "BTC", "-fq", "0.4", "-to", "ETH", "-tq", "5", "-v", "60", "-d", "2025-01-05")

	l := loadLedger(t, path)
	if l.Len() != 3 {
		t.Fatalf("ledger has %d transactions, want 3", l.Len())
	}
	sell := slicesFirst(t, l, tracker.Sell)
	if sell.Link == "" {
		t.Fatal("conversion halves are not linked")
	}

	out := mustRun(t, &rmCmd{}, "-id", sell.ID)
	if strings.Count(out, "Deleted") != 2 {
		t.Errorf("rm of a conversion half printed:\n%s", out)
	}
	if n := loadLedger(t, path).Len(); n != 1 {
		t.Errorf("ledger has %d transactions after rm, want 1", n)
	}

	if _, status := run(t, &convertCmd{}, "-from", "BTC", "-fq", "0.1", "-to", "btc", "-tq", "0.1", "-v", "1"); status != subcommands.ExitUsageError {
		t.Errorf("conversion into itself exited with %v, want usage error", status)
	}
}

func TestReportCommands(t *testing.T) {
	testEnv(t)
	mustRun(t, &buyCmd{}, "-s", "BTC", "-q", "1", "-p", "100", "-d", "2025-01-01")
	mustRun(t, &sellCmd{}, "-s", "BTC", "-q", "0.5", "-p", "80", "-d", "2025-02-01")
	mustRun(t, &earnCmd{}, "-s", "SOL", "-q", "2", "-d", "2025-02-01")
	mustRun(t, &pricesCmd{}, "-set", "BTC=300")
	mustRun(t, &pricesCmd{}, "-set", "sol=10")

	out := mustRun(t, &pricesCmd{}, "-offline")
	if !strings.Contains(out, "| BTC | Bitcoin |") || !strings.Contains(out, "| SOL | Solana |") {
		t.Errorf("prices -offline printed:\n%s", out)
	}

	out = mustRun(t, &holdingCmd{}, "-offline", "-d", "2025-03-01")
	for _, want := range []string{"Holdings on 2025-03-01", "Bitcoin", "Solana"} {
		if !strings.Contains(out, want) {
			t.Errorf("holding does not contain %q:\n%s", want, out)
		}
	}

	out = mustRun(t, &summaryCmd{}, "-offline", "-json", "-d", "2025-03-01")
	var summary struct {
		Currency     string
		BuyValue     struct{ Amount float64 }
		CurrentValue struct{ Amount float64 }
		Profit       struct{ Amount float64 }
		Earnings     struct{ Amount float64 }
		Assets       int
	}
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("summary -json is not JSON: %v\n%s", err, out)
	}
	want := []struct {
		name      string
		got, want float64
	}{
		{"buy value", summary.BuyValue.Amount, 100},
		// 0.5 BTC at 300 and 2 SOL at 10
		{"current value", summary.CurrentValue.Amount, 170},
		// realized 80-50, unrealized 150-50 on BTC and 20 on SOL
		{"profit", summary.Profit.Amount, 150},
		{"earnings", summary.Earnings.Amount, 20},
	}
	for _, w := range want {
		if w.got != w.want {
			t.Errorf("%s = %v, want %v", w.name, w.got, w.want)
		}
	}
	if summary.Currency != "USD" || summary.Assets != 2 {
		t.Errorf("summary = %+v", summary)
	}

	out = mustRun(t, &gainsCmd{}, "-offline", "-d", "2025-03-01")
	if !strings.Contains(out, "Bitcoin") {
		t.Errorf("gains printed:\n%s", out)
	}

	if _, status := run(t, &pricesCmd{}, "-set", "BTC"); status != subcommands.ExitUsageError {
		t.Errorf("prices -set BTC exited with %v, want usage error", status)
	}
	if _, status := run(t, &holdingCmd{}, "-offline", "-d", "someday"); status != subcommands.ExitUsageError {
		t.Errorf("holding -d someday exited with %v, want usage error", status)
	}
}

func TestImportExport(t *testing.T) {
	path := testEnv(t)
	mustRun(t, &buyCmd{}, "-s", "BTC", "-q", "1", "-p", "100", "-d", "2025-01-01")
	mustRun(t, &earnCmd{}, "-s", "ETH", "-q", "0.1", "-d", "2025-01-02")

	export := filepath.Join(filepath.Dir(path), "export.json")
	mustRun(t, &exportCmd{}, "-o", export)

	// importing into the same ledger skips known transactions
	out := mustRun(t, &importCmd{}, export)
	if !strings.Contains(out, "Imported 0 transactions, 2 already known") {
		t.Errorf("import printed %q", out)
	}

	// and into a new one restores them
	t.Setenv("TRK_LEDGER_FILE", filepath.Join(t.TempDir(), "other.jsonl"))
	mustRun(t, &importCmd{}, export)
	original, restored := loadLedger(t, path), loadLedger(t, os.Getenv("TRK_LEDGER_FILE"))
	if restored.Len() != original.Len() {
		t.Fatalf("restored %d transactions, want %d", restored.Len(), original.Len())
	}
	for tx := range original.Transactions() {
		got, err := restored.Get(tx.ID)
		if err != nil || !got.Equal(tx) {
			t.Errorf("restored %+v, want %+v (%v)", got, tx, err)
		}
	}

	if _, status := run(t, &importCmd{}); status != subcommands.ExitUsageError {
		t.Errorf("import without file exited with %v, want usage error", status)
	}
}

func TestFmtCommand(t *testing.T) {
	path := testEnv(t)
	messy := `{"id":"2","date":"2025-01-02","type":"SELL","symbol":"BTC","quantity":2,"amount":1,"currency":"USD"}

{"id":"1","date":"2025-01-01","type":"BUY","symbol":"BTC","quantity":1,"amount":1,"currency":"USD"}
`
	if err := os.WriteFile(path, []byte(messy), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, status := run(t, &fmtCmd{}, "-check"); status != subcommands.ExitFailure {
		t.Errorf("fmt -check of an oversold ledger exited with %v, want failure", status)
	}
	if data, _ := os.ReadFile(path); string(data) != messy {
		t.Error("fmt -check rewrote the ledger")
	}

	run(t, &fmtCmd{})
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], `{"id":"1"`) {
		t.Errorf("formatted ledger:\n%s", data)
	}
}

func TestSymbolsCommand(t *testing.T) {
	testEnv(t)
	mustRun(t, &symbolsCmd{}, "-add", "doge", "-name", "Dogecoin", "-provider", "dogecoin")
	out := mustRun(t, &symbolsCmd{})
	if !strings.Contains(out, "| DOGE |") || !strings.Contains(out, "Dogecoin") {
		t.Errorf("symbols printed:\n%s", out)
	}
	if _, status := run(t, &symbolsCmd{}, "-add", "X", "-name", "X", "-kind", "stock"); status != subcommands.ExitUsageError {
		t.Errorf("unknown kind exited with %v, want usage error", status)
	}
}

func TestTopicCommand(t *testing.T) {
	testEnv(t)
	out := mustRun(t, &topicCmd{}, "fifo")
	if !strings.HasPrefix(out, "# Gains") {
		t.Errorf("topic fifo printed:\n%s", out)
	}
	if _, status := run(t, &topicCmd{}, "nope"); status != subcommands.ExitFailure {
		t.Errorf("unknown topic exited with %v, want failure", status)
	}
	out = mustRun(t, &topicCmd{}, "-list")
	if out != "config\ndates\nfifo\nserver\ntransactions\n" {
		t.Errorf("topic -list printed %q", out)
	}
}

func TestCompletion(t *testing.T) {
	root := completion()
	for _, name := range commandNames() {
		if _, ok := root.Sub[name]; !ok {
			t.Errorf("no completion for %s", name)
		}
	}
	if _, ok := root.Sub["buy"].Flags["s"]; !ok {
		t.Error("no completion for buy -s")
	}
	if _, ok := root.Flags["config"]; !ok {
		t.Error("no completion for -config")
	}
}
