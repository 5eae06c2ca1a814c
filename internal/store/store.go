// Package store defines the durable persistence contract both concrete
// stores implement. Save and Load are the core's only suspension points.
package store

import (
	"context"
	"time"
)

// Metadata fingerprints a persisted snapshot for optimistic conflict
// detection: a per-process instance id plus the save time.
type Metadata struct {
	InstanceID string    `json:"instance_id"`
	SavedAt    time.Time `json:"saved_at"`
}

// Equal compares fingerprints. SavedAt is compared at the precision the
// serialized form carries.
func (m Metadata) Equal(other Metadata) bool {
	return m.InstanceID == other.InstanceID && m.SavedAt.Equal(other.SavedAt)
}

// IsZero reports whether no fingerprint has been recorded.
func (m Metadata) IsZero() bool {
	return m.InstanceID == "" && m.SavedAt.IsZero()
}

// Snapshot is what a store persists: the serialized DataSnapshot bytes
// plus the metadata fingerprint for this save.
type Snapshot struct {
	Data     []byte
	Metadata Metadata
}

// Store is the durable persistence contract.
type Store interface {
	// Save persists the snapshot, returning the written metadata. It
	// fails with a conflict error when the on-disk metadata differs from
	// the last this process observed.
	Save(ctx context.Context, snap Snapshot) (Metadata, error)
	// Load reads the current snapshot and caches its metadata for
	// subsequent conflict checks.
	Load(ctx context.Context) (Snapshot, error)
	// Exists reports whether the backing location holds data.
	Exists() bool
	// Path names the backing location.
	Path() string
	// ClearLastKnownMetadata forgets the cached fingerprint so the next
	// save overwrites unconditionally. Hosts call this to resolve a
	// conflict by force.
	ClearLastKnownMetadata()
}
