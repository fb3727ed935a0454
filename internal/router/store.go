package router

import (
	"context"
	"fmt"

	"prescription-matcher/internal/adapters/storage/jsonfile"
	mem "prescription-matcher/internal/adapters/storage/memory"
	pg "prescription-matcher/internal/adapters/storage/postgres"
	"prescription-matcher/internal/domain/prescriptions"
	"prescription-matcher/internal/platform/config"
	"prescription-matcher/internal/platform/logger"
)

// OpenStore arma el store según config y lo deja inicializado.
// El closer libera la conexión a la DB cuando aplica; nunca es nil.
func OpenStore(ctx context.Context, cfg config.Config, log logger.Logger) (prescriptions.Store, func() error, error) {
	noop := func() error { return nil }

	var (
		store  prescriptions.Store
		closer = noop
	)

	switch cfg.Storage {
	case config.StorageMemory:
		store = mem.NewStore()

	case config.StoragePostgres:
		db, err := pg.Open(ctx, cfg.DBDSN)
		if err != nil {
			return nil, noop, fmt.Errorf("open postgres: %w", err)
		}
		store = pg.NewStore(db, prescriptions.StoreConfig{Location: "postgres"}, log)
		closer = db.Close

	default:
		s, err := jsonfile.NewStore(prescriptions.StoreConfig{Location: cfg.DataFile}, log)
		if err != nil {
			return nil, noop, err
		}
		store = s
	}

	if err := store.EnsureInitialized(ctx); err != nil {
		_ = closer()
		return nil, noop, fmt.Errorf("initialize store: %w", err)
	}
	return store, closer, nil
}
