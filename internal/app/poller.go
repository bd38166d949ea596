package app

import (
	"context"
	"log/slog"
	"time"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
)

// StartPoller launches a background goroutine that calls sync every
// interval until ctx is cancelled. Consecutive failures back off
// exponentially up to maxBackoff. It returns immediately.
func StartPoller(ctx context.Context, sync func(context.Context) error, interval time.Duration, log *slog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	go func() {
		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			if err := sync(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				failures++
				next := calculateBackoff(failures, interval)
				log.Warn("item refresh failed",
					slog.Any("error", err),
					slog.Int("failures", failures),
					slog.Duration("retry_in", next),
				)
				timer.Reset(next)
				continue
			}
			if failures > 0 {
				log.Info("item refresh recovered", slog.Int("after_failures", failures))
			}
			failures = 0
			timer.Reset(interval)
		}
	}()
}

// calculateBackoff doubles base for each consecutive failure, capped at
// maxBackoff. A base above the cap is returned unchanged.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 || base >= maxBackoff {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
