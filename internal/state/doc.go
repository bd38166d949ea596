// Package state holds the weekplan client state and the actions that change it.
//
// # Overview
//
// Store is the single source of truth for three sections:
//
//   - items:   the cached item list from the last successful service response
//   - version: the service version string (or "?.?.?" when it could not be loaded)
//   - ui:      the edited item id, the loading flag and up to five messages
//
// Views subscribe per section and are called back with a copy of that
// section after every mutation. Actions wrap item service calls and apply
// the matching transitions.
//
// # Notifications
//
//	mutator ──lock──> mutate ──> enqueue(section, copy) ──unlock──> flush
//	                                                                 │
//	                         listeners (each gets its own copy) <────┘
//
//   - Every mutation produces exactly one notification for its section.
//   - Events are delivered in mutation order by a single draining goroutine.
//   - Listeners run without the store lock, so a listener may call back into
//     the store; that nested event is delivered after the current one.
//   - A panicking listener is recovered and logged; the others still run.
//
// Called from one goroutine, every notification caused by a mutator has been
// delivered when the mutator returns. With concurrent mutators a call can
// return while another goroutine is still delivering its event.
//
// # Actions
//
// Actions block on the network and are meant to run off the UI goroutine
// (bubbletea commands, the poller). Each one brackets its call with the
// loading flag, which is reference counted so that overlapping actions keep
// IsLoading true until the last one finishes. Failures turn into danger
// messages and a zero/false result; LoadVersion and SyncItems are the
// background loads and stay silent.
//
// Concurrent actions are not serialized. Two updates to the same item race
// and the last response wins.
//
// # Usage
//
//	store := state.New(logger)
//	actions := state.NewActions(store, client, logger)
//
//	unsubscribe := store.SubscribeItems(func(list []items.Item) {
//		render(list)
//	})
//	defer unsubscribe()
//
//	go actions.LoadItems(ctx)
package state
