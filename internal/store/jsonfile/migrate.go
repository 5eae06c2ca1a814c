package jsonfile

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/fulsomenko/kanban-sub000/internal/domain"
	"github.com/fulsomenko/kanban-sub000/internal/store"
)

// migrateFile upgrades a V1 file (the raw DataSnapshot at the root) to
// the V2 envelope in place. Already-V2 files and missing files are
// untouched; re-running on a V2 file is a no-op.
//
// The upgrade is backup-verify-remove: the original is copied to
// <path>.v1.backup, the envelope is written, read back, and verified
// against the original. Only then is the backup removed; on any
// verification failure the backup survives and the error propagates.
func migrateFile(path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return domain.IOf(err, "reading %s", path)
	}

	version, isV1, err := classify(data)
	if err != nil {
		return domain.Serializationf(err, "classifying %s", path)
	}
	if version != nil || !isV1 {
		return nil
	}

	backup := path + ".v1.backup"
	if err := os.WriteFile(backup, data, 0o644); err != nil {
		return domain.IOf(err, "writing backup %s", backup)
	}

	env := envelope{
		Version: FormatVersion,
		Metadata: store.Metadata{
			InstanceID: uuid.NewString(),
			SavedAt:    time.Now().UTC(),
		},
		Data: json.RawMessage(data),
	}
	payload, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return domain.Serializationf(err, "encoding migrated envelope")
	}
	if err := writeAtomic(path, payload); err != nil {
		return err
	}

	if err := verifyMigration(path, data); err != nil {
		logger.Warn("migration verification failed, backup preserved", "path", path, "backup", backup, "error", err)
		return err
	}

	if err := os.Remove(backup); err != nil {
		logger.Warn("could not remove migration backup", "backup", backup, "error", err)
	}
	logger.Info("migrated state file to v2", "path", path)
	return nil
}

// classify probes the root object: an explicit numeric version is kept
// as-is, a "boards" key marks V1, anything else defaults to V2.
func classify(data []byte) (version *int, isV1 bool, err error) {
	var probe struct {
		Version *int            `json:"version"`
		Boards  json.RawMessage `json:"boards"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, false, err
	}
	return probe.Version, probe.Boards != nil, nil
}

// verifyMigration reads the migrated file back and checks the envelope:
// version 2, metadata an object, and the round-tripped data equal to the
// original modulo whitespace.
func verifyMigration(path string, original []byte) error {
	migrated, err := os.ReadFile(path)
	if err != nil {
		return domain.IOf(err, "reading back %s", path)
	}
	var env struct {
		Version  int             `json:"version"`
		Metadata json.RawMessage `json:"metadata"`
		Data     json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(migrated, &env); err != nil {
		return domain.Serializationf(err, "decoding migrated %s", path)
	}
	if env.Version != FormatVersion {
		return domain.Internalf("migrated file has version %d, want %d", env.Version, FormatVersion)
	}
	trimmed := bytes.TrimSpace(env.Metadata)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return domain.Internalf("migrated file metadata is not an object")
	}
	want, err := compactJSON(original)
	if err != nil {
		return domain.Serializationf(err, "compacting original data")
	}
	got, err := compactJSON(env.Data)
	if err != nil {
		return domain.Serializationf(err, "compacting migrated data")
	}
	if !bytes.Equal(want, got) {
		return domain.Internalf("migrated data does not match original")
	}
	return nil
}

func compactJSON(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
