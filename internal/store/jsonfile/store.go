// Package jsonfile persists the workspace as a single versioned JSON
// envelope with atomic writes and optimistic conflict detection.
package jsonfile

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fulsomenko/kanban-sub000/internal/domain"
	"github.com/fulsomenko/kanban-sub000/internal/store"
)

// FormatVersion is the envelope version every write carries.
const FormatVersion = 2

// envelope is the on-disk v2 layout: {version, metadata, data}.
type envelope struct {
	Version  int             `json:"version"`
	Metadata store.Metadata  `json:"metadata"`
	Data     json.RawMessage `json:"data"`
}

// Store is the JSON file store.
type Store struct {
	path   string
	logger *slog.Logger

	mu        sync.Mutex
	lastKnown store.Metadata
}

// New creates a store over the given file path.
func New(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Path names the backing file.
func (s *Store) Path() string { return s.path }

// Exists reports whether the backing file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// ClearLastKnownMetadata forgets the cached fingerprint so the next save
// overwrites unconditionally.
func (s *Store) ClearLastKnownMetadata() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastKnown = store.Metadata{}
}

// Save writes the envelope atomically: serialize, write a sibling temp
// file, fsync, rename over the target. Before overwriting, the on-disk
// fingerprint is checked against the last one this process observed.
func (s *Store) Save(ctx context.Context, snap store.Snapshot) (store.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return store.Metadata{}, domain.IOf(err, "save cancelled")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkConflict(); err != nil {
		return store.Metadata{}, err
	}

	env := envelope{
		Version:  FormatVersion,
		Metadata: snap.Metadata,
		Data:     json.RawMessage(snap.Data),
	}
	payload, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return store.Metadata{}, domain.Serializationf(err, "encoding envelope")
	}

	if err := writeAtomic(s.path, payload); err != nil {
		return store.Metadata{}, err
	}
	s.lastKnown = snap.Metadata
	s.logger.Debug("state saved", "path", s.path, "instance", snap.Metadata.InstanceID)
	return snap.Metadata, nil
}

// Load migrates the file if needed, then reads and validates the v2
// envelope, caching its metadata for conflict checks.
func (s *Store) Load(ctx context.Context) (store.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return store.Snapshot{}, domain.IOf(err, "load cancelled")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := migrateFile(s.path, s.logger); err != nil {
		return store.Snapshot{}, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return store.Snapshot{}, domain.IOf(err, "reading %s", s.path)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return store.Snapshot{}, domain.Serializationf(err, "decoding %s", s.path)
	}
	if env.Version != FormatVersion {
		return store.Snapshot{}, domain.Serializationf(nil, "unsupported format version %d in %s", env.Version, s.path)
	}
	s.lastKnown = env.Metadata
	return store.Snapshot{Data: env.Data, Metadata: env.Metadata}, nil
}

// checkConflict compares the on-disk fingerprint to the cached one.
// Callers hold the mutex.
func (s *Store) checkConflict() error {
	if s.lastKnown.IsZero() || !s.Exists() {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return domain.IOf(err, "reading %s", s.path)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		// An unreadable file under a known fingerprint means someone
		// else rewrote it.
		return domain.Conflict(s.path, err)
	}
	if !env.Metadata.Equal(s.lastKnown) {
		return domain.Conflict(s.path, nil)
	}
	return nil
}

// writeAtomic lands payload at path via temp file, fsync, and rename.
// Any failure aborts before touching the target.
func writeAtomic(path string, payload []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return domain.IOf(err, "creating temp file in %s", dir)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}
	if _, err := tmp.Write(payload); err != nil {
		cleanup()
		return domain.IOf(err, "writing %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return domain.IOf(err, "syncing %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return domain.IOf(err, "closing %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return domain.IOf(err, "renaming %s over %s", tmpName, path)
	}
	return nil
}
