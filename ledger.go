package tracker

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Ledger is the list of all transactions.
//
// Transactions are kept sorted by Date. The sort is stable so that
// transactions on the same day keep their insertion order, which is the FIFO
// tie-break.
type Ledger struct {
	transactions []Transaction
	// now stamps CreatedAt, tests replace it.
	now func() time.Time
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{now: time.Now}
}

// Clone returns an independent copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	return &Ledger{transactions: slices.Clone(l.transactions), now: l.now}
}

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Append validates and appends transactions.
//
// Missing IDs and creation times are assigned. The whole batch is rejected
// if any transaction is invalid, or if a SELL would bring a position below
// zero at any date.
func (l *Ledger) Append(txs ...Transaction) ([]Transaction, error) {
	added := make([]Transaction, 0, len(txs))
	seen := make(map[string]bool, len(txs))
	for _, tx := range txs {
		if tx.ID == "" {
			tx.ID = uuid.NewString()
		} else if _, exists := l.index(tx.ID); exists || seen[tx.ID] {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalid, tx.ID)
		}
		seen[tx.ID] = true
		if tx.CreatedAt.IsZero() {
			tx.CreatedAt = l.now().UTC().Truncate(time.Second)
		}
		if err := tx.Validate(); err != nil {
			return nil, err
		}
		added = append(added, tx)
	}

	next := append(slices.Clone(l.transactions), added...)
	if err := checkBalances(next, symbolsOf(added)...); err != nil {
		return nil, err
	}
	l.transactions = next
	l.stableSort()
	return added, nil
}

// Replace replaces the transaction with the same ID. The original creation
// time is kept.
func (l *Ledger) Replace(tx Transaction) error {
	i, ok := l.index(tx.ID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, tx.ID)
	}
	old := l.transactions[i]
	tx.CreatedAt = old.CreatedAt
	tx.Link = old.Link
	if err := tx.Validate(); err != nil {
		return err
	}
	next := slices.Clone(l.transactions)
	next[i] = tx
	if err := checkBalances(next, old.Symbol, tx.Symbol); err != nil {
		return err
	}
	l.transactions = next
	l.stableSort()
	return nil
}

// Delete removes the transaction with this ID, and its conversion
// counterpart if any. It returns the removed transactions.
func (l *Ledger) Delete(id string) ([]Transaction, error) {
	i, ok := l.index(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	target := l.transactions[i]

	var removed []Transaction
	next := slices.DeleteFunc(slices.Clone(l.transactions), func(tx Transaction) bool {
		if tx.ID == id || (target.Link != "" && tx.Link == target.Link) {
			removed = append(removed, tx)
			return true
		}
		return false
	})
	if err := checkBalances(next, symbolsOf(removed)...); err != nil {
		return nil, fmt.Errorf("cannot delete %s: %w", id, err)
	}
	l.transactions = next
	return removed, nil
}

// Get returns the transaction with this ID.
func (l *Ledger) Get(id string) (Transaction, error) {
	i, ok := l.index(id)
	if !ok {
		return Transaction{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return l.transactions[i], nil
}

// Find returns the only transaction whose ID starts with prefix.
func (l *Ledger) Find(prefix string) (Transaction, error) {
	if tx, err := l.Get(prefix); err == nil {
		return tx, nil
	}
	var found []Transaction
	for _, tx := range l.transactions {
		if prefix != "" && strings.HasPrefix(tx.ID, prefix) {
			found = append(found, tx)
		}
	}
	switch len(found) {
	case 0:
		return Transaction{}, fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return found[0], nil
	default:
		return Transaction{}, fmt.Errorf("ambiguous id %q matches %d transactions", prefix, len(found))
	}
}

func (l *Ledger) index(id string) (int, bool) {
	for i, tx := range l.transactions {
		if tx.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Transactions returns an iterator over transactions in date order that
// pass all the filters.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
	next:
		for _, tx := range l.transactions {
			for _, accept := range filters {
				if !accept(tx) {
					continue next
				}
			}
			if !yield(tx) {
				return
			}
		}
	}
}

// BySymbol filters transactions of a symbol.
func BySymbol(s Symbol) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Symbol == s }
}

// OnOrBefore filters transactions dated on or before day.
func OnOrBefore(day Date) func(Transaction) bool {
	return func(tx Transaction) bool { return !tx.Date.After(day) }
}

// Between filters transactions dated within [from, to], a zero bound is open.
func Between(from, to Date) func(Transaction) bool {
	return func(tx Transaction) bool {
		return (from.IsZero() || !tx.Date.Before(from)) && (to.IsZero() || !tx.Date.After(to))
	}
}

// ByCreation returns the transactions most recently created first, the
// order used for listing.
func (l *Ledger) ByCreation() []Transaction {
	txs := slices.Clone(l.transactions)
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
	return txs
}

// Symbols returns all the symbols traded in the ledger, sorted.
func (l *Ledger) Symbols() []Symbol {
	return symbolsOf(l.transactions)
}

// Currencies returns the currencies of all transaction prices, sorted.
func (l *Ledger) Currencies() []string {
	set := make(map[string]struct{})
	for _, tx := range l.transactions {
		if c := tx.Price.Currency(); c != "" {
			set[c] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// Position returns the net quantity held of a symbol at the end of day.
func (l *Ledger) Position(s Symbol, day Date) Quantity {
	var q Quantity
	for tx := range l.Transactions(BySymbol(s), OnOrBefore(day)) {
		q = q.Add(tx.Delta())
	}
	return q
}

// Oldest returns the date of the first transaction, or the zero Date.
func (l *Ledger) Oldest() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[0].Date
}

// stableSort sorts the ledger by transaction date.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].Date.Before(l.transactions[j].Date)
	})
}

func symbolsOf(txs []Transaction) []Symbol {
	set := make(map[Symbol]struct{})
	for _, tx := range txs {
		set[tx.Symbol] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// Check reports every position going below zero. Ledgers read from a file
// are not checked when decoded.
func (l *Ledger) Check() error {
	return checkBalances(l.transactions, l.Symbols()...)
}

// checkBalances replays the history of each symbol in date order and fails
// when a position goes below zero.
func checkBalances(txs []Transaction, symbols ...Symbol) error {
	sorted := slices.Clone(txs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	var errs error
	for _, s := range symbols {
		var q Quantity
		for _, tx := range sorted {
			if tx.Symbol != s {
				continue
			}
			q = q.Add(tx.Delta())
			if q.IsNegative() {
				errs = errors.Join(errs, fmt.Errorf("%w: on %s, cannot sell %s %s, only %s held",
					ErrInvalid, tx.Date, tx.Quantity, s, q.Add(tx.Quantity)))
				break
			}
		}
	}
	return errs
}
