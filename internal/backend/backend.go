package backend

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/five82/weekplan/internal/config"
	"github.com/five82/weekplan/internal/httpserver"
)

// Run opens the database named by cfg and serves the item API until ctx is
// cancelled.
func Run(ctx context.Context, cfg config.ServiceConfig, log *slog.Logger) error {
	store, err := Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("close item store", slog.Any("error", err))
		}
	}()

	h := otelhttp.NewHandler(NewHandler(store, cfg.AppVersion, log), "weekplan-api")
	app, err := httpserver.Listen(cfg.Addr(), h, log)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}
	log.InfoContext(ctx, "item service configured",
		slog.String("db_path", cfg.DBPath),
		slog.String("version", cfg.AppVersion),
	)
	return app.Run(ctx)
}
