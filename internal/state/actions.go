package state

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/five82/weekplan/internal/items"
)

// VersionPlaceholder is stored when the version cannot be loaded.
const VersionPlaceholder = "?.?.?"

// User-facing message texts.
const (
	msgLoadFailed   = "Error loading items"
	msgCreated      = "Item created successfully"
	msgCreateFailed = "Failed to create item"
	msgNotFound     = "Item not found"
	msgUpdated      = "Item updated successfully"
	msgUpdateFailed = "Failed to update item"
	msgDeleted      = "Item deleted successfully"
	msgDeleteFailed = "Failed to delete item"
)

// Actions couple item service calls to store transitions. Failures never
// propagate: they become danger messages plus a zero/false result.
type Actions struct {
	store   *Store
	service items.Service
	log     *slog.Logger
}

// NewActions wires store to service.
func NewActions(store *Store, service items.Service, log *slog.Logger) *Actions {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Actions{store: store, service: service, log: log}
}

// Store returns the store the actions mutate.
func (a *Actions) Store() *Store {
	return a.store
}

// LoadItems replaces the cached items with the service's list.
func (a *Actions) LoadItems(ctx context.Context) []items.Item {
	a.store.beginLoading()
	defer a.store.endLoading()

	list, err := a.service.ListItems(ctx)
	if err != nil {
		a.store.AddMessage(msgLoadFailed, KindDanger)
		a.log.ErrorContext(ctx, "error loading items", slog.Any("error", err))
		return []items.Item{}
	}
	return a.store.setItems(list)
}

// SyncItems is the background variant of LoadItems used by the poller. It
// leaves the loading flag and messages alone and reports failure to the
// caller instead.
func (a *Actions) SyncItems(ctx context.Context) error {
	list, err := a.service.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("sync items: %w", err)
	}
	a.store.setItems(list)
	return nil
}

// CreateItem posts draft and appends the stored item.
func (a *Actions) CreateItem(ctx context.Context, draft items.Draft) (items.Item, bool) {
	a.store.beginLoading()
	defer a.store.endLoading()

	created, err := a.service.CreateItem(ctx, draft)
	if err != nil {
		a.store.AddMessage(failureText(err, msgCreateFailed, true), KindDanger)
		a.log.ErrorContext(ctx, "error creating item", slog.Any("error", err))
		return items.Item{}, false
	}
	a.store.appendItem(created)
	a.store.AddMessage(msgCreated, KindSuccess)
	return created, true
}

// GetItem fetches one item without touching the cache.
func (a *Actions) GetItem(ctx context.Context, id int64) (items.Item, bool) {
	a.store.beginLoading()
	defer a.store.endLoading()

	it, err := a.service.GetItem(ctx, id)
	if err != nil {
		a.store.AddMessage(failureText(err, msgNotFound, false), KindDanger)
		a.log.ErrorContext(ctx, "error fetching item", slog.Int64("id", id), slog.Any("error", err))
		return items.Item{}, false
	}
	return it, true
}

// UpdateItem replaces the item with id and leaves edit mode.
func (a *Actions) UpdateItem(ctx context.Context, id int64, draft items.Draft) (items.Item, bool) {
	a.store.beginLoading()
	defer a.store.endLoading()

	updated, err := a.service.UpdateItem(ctx, id, draft)
	if err != nil {
		a.store.AddMessage(failureText(err, msgUpdateFailed, true), KindDanger)
		a.log.ErrorContext(ctx, "error updating item", slog.Int64("id", id), slog.Any("error", err))
		return items.Item{}, false
	}
	a.store.replaceItem(id, updated)
	a.store.ClearEditingItemID()
	a.store.AddMessage(msgUpdated, KindSuccess)
	return updated, true
}

// DeleteItem removes the item with id.
func (a *Actions) DeleteItem(ctx context.Context, id int64) bool {
	a.store.beginLoading()
	defer a.store.endLoading()

	if err := a.service.DeleteItem(ctx, id); err != nil {
		a.store.AddMessage(failureText(err, msgDeleteFailed, false), KindDanger)
		a.log.ErrorContext(ctx, "error deleting item", slog.Int64("id", id), slog.Any("error", err))
		return false
	}
	a.store.removeItem(id)
	a.store.AddMessage(msgDeleted, KindSuccess)
	return true
}

// LoadVersion fetches and stores the service version. On failure the
// placeholder is stored and nothing is shown to the user.
func (a *Actions) LoadVersion(ctx context.Context) (string, bool) {
	version, err := a.service.FetchVersion(ctx)
	if err != nil {
		a.log.ErrorContext(ctx, "error fetching version", slog.Any("error", err))
		a.store.setVersion(VersionPlaceholder)
		return "", false
	}
	a.store.setVersion(version)
	return version, true
}

// failureText picks the message for a failed call. HTTP errors use the
// body's error text when useBody is set, otherwise fallback; transport
// errors show their own text.
func failureText(err error, fallback string, useBody bool) string {
	if apiErr, ok := items.AsAPIError(err); ok {
		if useBody && apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	return err.Error()
}
