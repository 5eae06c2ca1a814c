package app

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fulsomenko/kanban-sub000/internal/config"
	"github.com/fulsomenko/kanban-sub000/internal/store"
	"github.com/fulsomenko/kanban-sub000/internal/store/jsonfile"
	"github.com/fulsomenko/kanban-sub000/internal/store/sqlite"
)

// OpenStore builds the configured store backend. The returned closer is
// a no-op for file-backed stores.
func OpenStore(cfg config.StoreConfig, logger *slog.Logger) (store.Store, func() error, error) {
	if err := ensureDir(cfg.Path); err != nil {
		return nil, nil, err
	}
	switch cfg.Backend {
	case config.StoreSQLite:
		db, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, nil, err
		}
		return sqlite.NewStore(db, cfg.Path, logger), db.Close, nil
	default:
		return jsonfile.New(cfg.Path, logger), func() error { return nil }, nil
	}
}

func ensureDir(path string) error {
	if path == "" || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
