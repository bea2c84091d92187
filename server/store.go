package server

import (
	"fmt"
	"sync"

	"github.com/etnz/tracker"
)

// Store guards the ledger shared by all requests, and saves it after every
// change.
type Store struct {
	mu      sync.RWMutex
	ledger  *tracker.Ledger
	catalog *tracker.Catalog
	// path is where the ledger is saved, an empty path keeps it in memory.
	path string
}

// NewStore serves ledger and saves it to path.
func NewStore(ledger *tracker.Ledger, catalog *tracker.Catalog, path string) *Store {
	return &Store{ledger: ledger, catalog: catalog, path: path}
}

// Catalog returns the symbol catalog.
func (s *Store) Catalog() *tracker.Catalog { return s.catalog }

// Snapshot returns a copy of the ledger safe to read without locking.
func (s *Store) Snapshot() *tracker.Ledger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Clone()
}

// Get returns the transaction whose ID is or starts with id.
func (s *Store) Get(id string) (tracker.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Find(id)
}

// Add appends transactions atomically.
func (s *Store) Add(txs ...tracker.Transaction) (added []tracker.Transaction, err error) {
	err = s.update(func(l *tracker.Ledger) error {
		added, err = l.Append(txs...)
		return err
	})
	return added, err
}

// Replace replaces the transaction with the same ID.
func (s *Store) Replace(tx tracker.Transaction) (replaced tracker.Transaction, err error) {
	err = s.update(func(l *tracker.Ledger) error {
		if err := l.Replace(tx); err != nil {
			return err
		}
		replaced, err = l.Get(tx.ID)
		return err
	})
	return replaced, err
}

// Delete removes the transaction and its conversion counterpart.
func (s *Store) Delete(id string) (removed []tracker.Transaction, err error) {
	err = s.update(func(l *tracker.Ledger) error {
		removed, err = l.Delete(id)
		return err
	})
	return removed, err
}

// update applies f on a copy of the ledger, saves it, and only then makes
// it current.
func (s *Store) update(f func(*tracker.Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.ledger.Clone()
	if err := f(next); err != nil {
		return err
	}
	if s.path != "" {
		if err := tracker.SaveLedger(s.path, next); err != nil {
			return fmt.Errorf("could not save ledger: %w", err)
		}
	}
	s.ledger = next
	return nil
}
