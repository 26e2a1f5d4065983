// Package modestore holds the current persistence mode and keeps it durable
// across restarts.
package modestore

import (
	"context"
	"fmt"

	"github.com/docvault-app/docvault/internal/client/models"
	"github.com/docvault-app/docvault/internal/client/repositories/kv"
	"github.com/docvault-app/docvault/internal/common"
)

// Store is the process-wide persistence mode setting. Before Load completes
// it reports models.ModeRemote with Loading() true. The zero value is not
// usable; construct with New.
type Store struct {
	repo    kv.Repository
	mode    models.Mode
	loading bool
}

func New(repo kv.Repository) *Store {
	return &Store{repo: repo, mode: models.ModeRemote, loading: true}
}

// Load restores the persisted mode. An absent or unknown value falls back
// to remote. Load is meant to run once at startup.
func (s *Store) Load(ctx context.Context) error {
	defer func() { s.loading = false }()

	raw, err := s.repo.Get(ctx, common.KVKeyMode)
	if err != nil {
		return fmt.Errorf("%w: read mode: %w", common.ErrPersistence, err)
	}

	if m := models.Mode(raw); m.Valid() {
		s.mode = m
	}
	return nil
}

// Mode returns the current persistence mode.
func (s *Store) Mode() models.Mode {
	return s.mode
}

// Loading reports whether the initial restore is still in flight.
func (s *Store) Loading() bool {
	return s.loading
}

// Set persists m durably and only then updates the in-memory mode. If the
// durable write fails the mode is left untouched and the failure is
// surfaced, so there is no silent partial state.
func (s *Store) Set(ctx context.Context, m models.Mode) error {
	if !m.Valid() {
		return fmt.Errorf("%w: unknown mode %q", common.ErrInvalidArgument, m)
	}

	if err := s.repo.Set(ctx, common.KVKeyMode, []byte(m)); err != nil {
		return fmt.Errorf("%w: persist mode: %w", common.ErrPersistence, err)
	}
	s.mode = m
	return nil
}
