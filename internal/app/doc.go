// Package app is the composition root of the weekplan terminal client.
//
// Run wires the pieces together:
//
//	config.Load ──> openLog (slog text file under log_dir)
//	            ──> items.NewClient (the proxy)
//	            ──> state.New + state.NewActions
//	            ──> StartPoller (actions.SyncItems every refresh interval)
//	            ──> ui.Run (blocks until quit)
//
// The UI triggers Bootstrap once it has subscribed to the store, so the
// first version and item load is always observed by the views. Bootstrap
// runs both loads concurrently.
//
// The poller is the silent background refresh: failures are logged, never
// shown to the user, and back off exponentially (doubling, capped at 30s)
// until the proxy answers again.
package app
