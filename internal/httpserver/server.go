package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// App serves one handler on one listener until its context ends.
type App struct {
	ls     net.Listener
	server *http.Server
	log    *slog.Logger
}

// NewApp initializes an App. Server errors go to log.
func NewApp(ls net.Listener, h http.Handler, log *slog.Logger) *App {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &App{
		ls:  ls,
		log: log,
		server: &http.Server{
			Handler:           h,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
			ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelError),
		},
	}
}

// Listen opens a TCP listener on addr and wraps it in an App.
func Listen(addr string, h http.Handler, log *slog.Logger) (*App, error) {
	ls, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewApp(ls, h, log), nil
}

// Addr is the address the App is listening on.
func (a *App) Addr() net.Addr {
	return a.ls.Addr()
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		a.log.InfoContext(ctx, "listening", slog.String("addr", a.ls.Addr().String()))
		return a.server.Serve(a.ls)
	})
	eg.Go(func() error {
		<-egCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	err := eg.Wait()
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
