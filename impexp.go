package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// The import/export format is a single JSON array of TransactionInput, the
// shape used by the browser front-end for backups.

// ImportTransactions reads an exported array. Records keep their id and
// creation time when present. Every invalid record is reported.
func ImportTransactions(r io.Reader, catalog *Catalog) ([]Transaction, error) {
	var inputs []TransactionInput
	if err := json.NewDecoder(r).Decode(&inputs); err != nil {
		return nil, fmt.Errorf("could not decode transactions: %w", err)
	}

	txs := make([]Transaction, 0, len(inputs))
	var errs error
	for i, in := range inputs {
		tx, err := in.Transaction(catalog)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		txs = append(txs, tx)
	}
	if errs != nil {
		return nil, errs
	}
	return txs, nil
}

// ExportTransactions writes the ledger in creation order.
func ExportTransactions(w io.Writer, l *Ledger) error {
	txs := l.ByCreation()
	inputs := make([]TransactionInput, 0, len(txs))
	for _, tx := range txs {
		inputs = append(inputs, tx.Input())
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(inputs)
}
