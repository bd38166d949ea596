package proxy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/five82/weekplan/internal/config"
	"github.com/five82/weekplan/internal/httpserver"
)

// Run serves the proxy described by cfg until ctx is cancelled.
func Run(ctx context.Context, cfg config.ProxyConfig, log *slog.Logger) error {
	upstream, err := NewUpstream(cfg.APIURL, UpstreamOptions{
		Timeout:            cfg.UpstreamTimeout,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	})
	if err != nil {
		return err
	}

	app, err := httpserver.Listen(cfg.Addr(), NewHandler(upstream, log), log)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}
	log.InfoContext(ctx, "proxy configured",
		slog.String("api_url", cfg.APIURL),
		slog.Bool("insecure_skip_verify", cfg.InsecureSkipVerify),
	)
	return app.Run(ctx)
}
