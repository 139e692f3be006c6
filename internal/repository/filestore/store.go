// Package filestore persists the in-memory ledger state as a single JSON
// snapshot file. Meant for development and demos; production deployments use
// the postgres store.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pharmaguard/coldtrace/internal/ledger"
	"github.com/pharmaguard/coldtrace/internal/repository/inmemory"
)

type Store struct {
	*inmemory.Store
	path string
}

func NewStore(path string) (*Store, error) {
	s := &Store{
		Store: inmemory.NewStore(),
		path:  path,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read ledger file: %w", err)
	}
	var snap inmemory.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse ledger file %s: %w", s.path, err)
	}
	s.Restore(snap)
	return nil
}

// RunInTx commits in memory first and flushes the whole snapshot afterwards,
// writing through a temp file so a crash never leaves a half-written ledger.
// A failed flush rolls the in-memory commit back; memory and disk never
// disagree.
func (s *Store) RunInTx(ctx context.Context, fn func(tx ledger.Tx) error) error {
	before := s.Snapshot()
	if err := s.Store.RunInTx(ctx, fn); err != nil {
		return err
	}
	if err := s.flush(); err != nil {
		s.Restore(before)
		return err
	}
	return nil
}

func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write ledger file: %w", err)
	}
	return os.Rename(tmp, s.path)
}
