package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deusflow/uscisnews/internal/config"
	"github.com/deusflow/uscisnews/internal/storage"
)

// NewStore opens the seen-set backend selected by STORE_DRIVER. The returned
// close function is never nil.
func NewStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.Store, func(), error) {
	switch cfg.StoreDriver {
	case "postgres":
		pg, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, func() {}, fmt.Errorf("failed to open postgres store: %w", err)
		}
		log.Info("using postgres seen-set store")
		return pg, func() {
			if err := pg.Close(); err != nil {
				log.Warn("failed to close postgres store", "error", err)
			}
		}, nil
	case "", "file":
		log.Info("using file seen-set store", "path", cfg.PostedFile)
		return storage.NewFileStore(cfg.PostedFile), func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
