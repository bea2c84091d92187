package tracker

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// amountCmd reads a Money stored as two fields.
type amountCmd struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a amountCmd) Money() Money {
	return M(a.Amount, a.Currency)
}

// DecodeLedger reads a JSONL stream, one transaction per line.
//
// Lines are not checked against each other: a ledger edited by hand may hold
// an oversold position, the gain calculator reports it instead.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		var tx Transaction
		if err := json.Unmarshal(data, &tx); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if tx.ID == "" {
			return nil, fmt.Errorf("line %d: %w: transaction has no id", line, ErrInvalid)
		}
		ledger.transactions = append(ledger.transactions, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	ledger.stableSort()
	return ledger, nil
}

// EncodeTransaction writes tx as a single JSON line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("could not encode transaction %s: %w", tx.ID, err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// EncodeLedger writes all transactions in date order.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	ledger.stableSort()
	for _, tx := range ledger.transactions {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}

// LoadLedger decodes the ledger file. A missing file is an empty ledger.
func LoadLedger(path string) (*Ledger, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", path, err)
	}
	defer f.Close()

	ledger, err := DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", path, err)
	}
	return ledger, nil
}

// SaveLedger writes the ledger file through a temporary file so that a
// failure never leaves a truncated ledger behind.
func SaveLedger(path string, ledger *Ledger) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create ledger directory: %w", err)
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary ledger file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := EncodeLedger(w, ledger); err != nil {
		tmp.Close()
		return fmt.Errorf("could not encode ledger: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
