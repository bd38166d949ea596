package state

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/weekplan/internal/items"
)

// fakeService is an in-memory items.Service with per-call error injection.
type fakeService struct {
	mu      sync.Mutex
	list    []items.Item
	next    int64
	version string

	listErr, getErr, createErr, updateErr, deleteErr, versionErr error

	// block, when set, is waited on before ListItems returns
	block chan struct{}
}

var _ items.Service = (*fakeService)(nil)

func (f *fakeService) ListItems(ctx context.Context) ([]items.Item, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return items.Clone(f.list), nil
}

func (f *fakeService) GetItem(ctx context.Context, id int64) (items.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return items.Item{}, f.getErr
	}
	if i := items.IndexOf(f.list, id); i >= 0 {
		return f.list[i], nil
	}
	return items.Item{}, &items.APIError{Status: http.StatusNotFound, Message: "Request failed with status code 404"}
}

func (f *fakeService) CreateItem(ctx context.Context, d items.Draft) (items.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return items.Item{}, f.createErr
	}
	f.next++
	it := items.Item{ID: f.next, Name: d.Name, Date: d.Date}
	f.list = append(f.list, it)
	return it, nil
}

func (f *fakeService) UpdateItem(ctx context.Context, id int64, d items.Draft) (items.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return items.Item{}, f.updateErr
	}
	return items.Item{ID: id, Name: d.Name, Date: d.Date}, nil
}

func (f *fakeService) DeleteItem(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteErr
}

func (f *fakeService) FetchVersion(ctx context.Context) (string, error) {
	if f.versionErr != nil {
		return "", f.versionErr
	}
	return f.version, nil
}

func newTestActions(svc *fakeService) (*Store, *Actions) {
	store := New(nil)
	return store, NewActions(store, svc, nil)
}

func TestLoadItems_ReplacesItemsAndClearsLoading(t *testing.T) {
	svc := &fakeService{list: []items.Item{{ID: 1, Name: "a", Date: "02-06-2025"}}}
	store, actions := newTestActions(svc)

	var loading []bool
	store.SubscribeUI(func(u UI) { loading = append(loading, u.IsLoading) })

	got := actions.LoadItems(context.Background())

	assert.Equal(t, svc.list, got)
	assert.Equal(t, svc.list, store.Items())
	assert.Equal(t, []bool{true, false}, loading)
	assert.Empty(t, store.UI().Messages)
}

func TestLoadItems_FailureReturnsEmptyAndAddsDanger(t *testing.T) {
	svc := &fakeService{listErr: errors.New("execute request: connection refused")}
	store, actions := newTestActions(svc)
	store.setItems([]items.Item{{ID: 9}})

	got := actions.LoadItems(context.Background())

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, []items.Item{{ID: 9}}, store.Items(), "cache kept on failure")
	ui := store.UI()
	require.Len(t, ui.Messages, 1)
	assert.Equal(t, "Error loading items", ui.Messages[0].Text)
	assert.Equal(t, KindDanger, ui.Messages[0].Kind)
	assert.False(t, ui.IsLoading)
}

func TestCreateItem_AppendsAndReportsSuccess(t *testing.T) {
	svc := &fakeService{next: 6}
	store, actions := newTestActions(svc)

	created, ok := actions.CreateItem(context.Background(), items.Draft{Name: "Task A", Date: "01-06-2025"})

	require.True(t, ok)
	want := items.Item{ID: 7, Name: "Task A", Date: "01-06-2025"}
	assert.Equal(t, want, created)
	assert.Contains(t, store.Items(), want)

	ui := store.UI()
	require.NotEmpty(t, ui.Messages)
	assert.Equal(t, "Item created successfully", ui.Messages[0].Text)
	assert.Equal(t, KindSuccess, ui.Messages[0].Kind)
	assert.False(t, ui.IsLoading)
}

func TestCreateItem_FailureUsesServerErrorText(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"server text", &items.APIError{Status: 400, Message: items.InvalidDateMessage}, items.InvalidDateMessage},
		{"empty body", &items.APIError{Status: 502}, "Failed to create item"},
		{"network", errors.New("execute request: dial tcp: refused"), "execute request: dial tcp: refused"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, actions := newTestActions(&fakeService{createErr: tc.err})

			_, ok := actions.CreateItem(context.Background(), items.Draft{Name: "x", Date: "bad"})

			assert.False(t, ok)
			assert.Empty(t, store.Items())
			ui := store.UI()
			require.Len(t, ui.Messages, 1)
			assert.Equal(t, tc.want, ui.Messages[0].Text)
			assert.Equal(t, KindDanger, ui.Messages[0].Kind)
			assert.False(t, ui.IsLoading)
		})
	}
}

func TestGetItem(t *testing.T) {
	svc := &fakeService{list: []items.Item{{ID: 3, Name: "c"}}}
	store, actions := newTestActions(svc)

	it, ok := actions.GetItem(context.Background(), 3)
	assert.True(t, ok)
	assert.Equal(t, "c", it.Name)
	assert.Empty(t, store.UI().Messages)

	_, ok = actions.GetItem(context.Background(), 4)
	assert.False(t, ok)
	ui := store.UI()
	require.Len(t, ui.Messages, 1)
	assert.Equal(t, "Item not found", ui.Messages[0].Text)
	assert.False(t, ui.IsLoading)
	assert.Empty(t, store.Items(), "GetItem never touches the cache")
}

func TestUpdateItem_ReplacesAndClearsEditing(t *testing.T) {
	svc := &fakeService{}
	store, actions := newTestActions(svc)
	store.setItems([]items.Item{{ID: 1, Name: "a"}, {ID: 7, Name: "old", Date: "01-06-2025"}})
	store.SetEditingItemID(7)

	updated, ok := actions.UpdateItem(context.Background(), 7, items.Draft{Name: "new", Date: "02-06-2025"})

	require.True(t, ok)
	assert.Equal(t, items.Item{ID: 7, Name: "new", Date: "02-06-2025"}, updated)
	assert.Equal(t, []items.Item{{ID: 1, Name: "a"}, updated}, store.Items())
	ui := store.UI()
	assert.False(t, ui.Editing)
	assert.Equal(t, "Item updated successfully", ui.Messages[0].Text)
	assert.False(t, ui.IsLoading)
}

func TestUpdateItem_ServerErrorLeavesItemsUnchanged(t *testing.T) {
	svc := &fakeService{updateErr: &items.APIError{Status: http.StatusInternalServerError, Message: "Request failed with status code 500"}}
	store, actions := newTestActions(svc)
	before := []items.Item{{ID: 7, Name: "Task A", Date: "01-06-2025"}}
	store.setItems(before)
	store.SetEditingItemID(7)

	updated, ok := actions.UpdateItem(context.Background(), 7, items.Draft{Name: "B", Date: "02-06-2025"})

	assert.False(t, ok)
	assert.Equal(t, items.Item{}, updated)
	assert.Equal(t, before, store.Items())
	ui := store.UI()
	require.Len(t, ui.Messages, 1)
	assert.Equal(t, KindDanger, ui.Messages[0].Kind)
	assert.Equal(t, "Request failed with status code 500", ui.Messages[0].Text)
	assert.True(t, ui.Editing, "edit mode kept so the user can retry")
}

func TestDeleteItem(t *testing.T) {
	t.Run("success removes", func(t *testing.T) {
		store, actions := newTestActions(&fakeService{})
		store.setItems([]items.Item{{ID: 7}, {ID: 8}})

		assert.True(t, actions.DeleteItem(context.Background(), 7))
		assert.Equal(t, -1, items.IndexOf(store.Items(), 7))
		assert.Equal(t, "Item deleted successfully", store.UI().Messages[0].Text)
	})

	t.Run("failure keeps", func(t *testing.T) {
		store, actions := newTestActions(&fakeService{deleteErr: &items.APIError{Status: 500, Message: "boom"}})
		store.setItems([]items.Item{{ID: 7}})

		assert.False(t, actions.DeleteItem(context.Background(), 7))
		assert.Equal(t, 0, items.IndexOf(store.Items(), 7))
		msg := store.UI().Messages[0]
		assert.Equal(t, "Failed to delete item", msg.Text)
		assert.Equal(t, KindDanger, msg.Kind)
		assert.False(t, store.UI().IsLoading)
	})
}

func TestLoadVersion(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store, actions := newTestActions(&fakeService{version: "2.1.0"})
		v, ok := actions.LoadVersion(context.Background())
		assert.True(t, ok)
		assert.Equal(t, "2.1.0", v)
		got, has := store.Version()
		assert.True(t, has)
		assert.Equal(t, "2.1.0", got)
	})

	t.Run("failure stores placeholder silently", func(t *testing.T) {
		store, actions := newTestActions(&fakeService{versionErr: errors.New("offline")})
		var notified []string
		store.SubscribeVersion(func(v string) { notified = append(notified, v) })

		v, ok := actions.LoadVersion(context.Background())

		assert.False(t, ok)
		assert.Empty(t, v)
		got, has := store.Version()
		assert.True(t, has)
		assert.Equal(t, VersionPlaceholder, got)
		assert.Equal(t, []string{VersionPlaceholder}, notified)
		assert.Empty(t, store.UI().Messages)
	})
}

func TestSyncItems_SilentBackgroundRefresh(t *testing.T) {
	svc := &fakeService{list: []items.Item{{ID: 1}}}
	store, actions := newTestActions(svc)

	var uiCalls int
	store.SubscribeUI(func(UI) { uiCalls++ })

	require.NoError(t, actions.SyncItems(context.Background()))
	assert.Equal(t, svc.list, store.Items())

	svc.listErr = errors.New("down")
	err := actions.SyncItems(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync items")
	assert.Equal(t, []items.Item{{ID: 1}}, store.Items())
	assert.Zero(t, uiCalls, "background sync never touches ui")
}

func TestActions_OverlappingCallsKeepLoadingUntilLastFinishes(t *testing.T) {
	svc := &fakeService{block: make(chan struct{}), version: "1"}
	store, actions := newTestActions(svc)

	done := make(chan struct{})
	started := make(chan struct{})
	store.SubscribeUI(func(u UI) {
		if u.IsLoading {
			select {
			case <-started:
			default:
				close(started)
			}
		}
	})
	go func() {
		actions.LoadItems(context.Background())
		close(done)
	}()
	<-started

	// a short action overlapping the slow load
	_, ok := actions.CreateItem(context.Background(), items.Draft{Name: "x", Date: "02-06-2025"})
	require.True(t, ok)
	assert.True(t, store.UI().IsLoading, "slow load still in flight")

	close(svc.block)
	<-done
	assert.False(t, store.UI().IsLoading)
}
