package state

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/weekplan/internal/items"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNew_EmptyDefaults(t *testing.T) {
	s := New(nil)

	st := s.State()
	assert.Empty(t, st.Items)
	assert.NotNil(t, st.Items)
	assert.False(t, st.HasVersion)
	assert.False(t, st.UI.IsLoading)
	assert.False(t, st.UI.Editing)
	assert.Empty(t, st.UI.Messages)

	_, ok := s.Version()
	assert.False(t, ok)
}

func TestAddMessage_KeepsFiveNewestFirst(t *testing.T) {
	s := New(nil)

	var ids []int64
	for i := range 8 {
		ids = append(ids, s.AddMessage(string(rune('a'+i)), KindInfo))
		assert.LessOrEqual(t, len(s.UI().Messages), MaxMessages)
	}

	msgs := s.UI().Messages
	require.Len(t, msgs, MaxMessages)
	for i, m := range msgs {
		assert.Equal(t, ids[len(ids)-1-i], m.ID)
		assert.Equal(t, string(rune('a'+7-i)), m.Text)
	}
}

func TestAddMessage_IDsStrictlyIncreasingWithinOneMillisecond(t *testing.T) {
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	s := New(nil, WithClock(fixedClock(at)))

	first := s.AddMessage("one", KindSuccess)
	second := s.AddMessage("two", KindSuccess)
	third := s.AddMessage("three", KindDanger)

	assert.Equal(t, at.UnixMilli(), first)
	assert.Equal(t, first+1, second)
	assert.Equal(t, second+1, third)

	msg := s.UI().Messages[0]
	assert.Equal(t, KindDanger, msg.Kind)
	assert.Equal(t, "2025-06-01T10:00:00.000Z", msg.Timestamp)
}

func TestRemoveMessage_UnknownIDStillNotifiesOnce(t *testing.T) {
	s := New(nil)
	id := s.AddMessage("keep", KindInfo)

	calls := 0
	s.SubscribeUI(func(UI) { calls++ })

	s.RemoveMessage(id + 1000)
	assert.Equal(t, 1, calls)
	require.Len(t, s.UI().Messages, 1)

	s.RemoveMessage(id)
	assert.Equal(t, 2, calls)
	assert.Empty(t, s.UI().Messages)
}

func TestSubscribe_ReceivesValueEqualToGetter(t *testing.T) {
	s := New(nil)

	var gotUI UI
	var gotItems []items.Item
	var gotVersion string
	s.SubscribeUI(func(u UI) { gotUI = u })
	s.SubscribeItems(func(list []items.Item) { gotItems = list })
	s.SubscribeVersion(func(v string) { gotVersion = v })

	s.SetEditingItemID(7)
	assert.Equal(t, s.UI(), gotUI)
	id, ok := gotUI.EditingID()
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)

	s.setItems([]items.Item{{ID: 1, Name: "a", Date: "02-06-2025"}})
	assert.Equal(t, s.Items(), gotItems)

	s.setVersion("1.0.0")
	v, ok := s.Version()
	assert.True(t, ok)
	assert.Equal(t, v, gotVersion)
}

func TestSubscribe_OrderAndUnsubscribe(t *testing.T) {
	s := New(nil)

	var order []string
	unsubA := s.SubscribeUI(func(UI) { order = append(order, "a") })
	s.SubscribeUI(func(UI) { order = append(order, "b") })

	s.AddMessage("x", KindInfo)
	assert.Equal(t, []string{"a", "b"}, order)

	unsubA()
	unsubA()
	order = nil
	s.AddMessage("y", KindInfo)
	assert.Equal(t, []string{"b"}, order)
}

func TestSubscribe_ListenersGetIndependentCopies(t *testing.T) {
	s := New(nil)
	s.setItems([]items.Item{{ID: 1, Name: "orig"}})

	var second []items.Item
	s.SubscribeItems(func(list []items.Item) { list[0].Name = "mutated by first" })
	s.SubscribeItems(func(list []items.Item) { second = list })

	s.appendItem(items.Item{ID: 2, Name: "new"})

	require.Len(t, second, 2)
	assert.Equal(t, "orig", second[0].Name)
	assert.Equal(t, "orig", s.Items()[0].Name)
}

func TestSubscribe_PanickingListenerIsIsolated(t *testing.T) {
	var logs bytes.Buffer
	s := New(slog.New(slog.NewTextHandler(&logs, nil)))

	after := 0
	s.SubscribeUI(func(UI) { panic("boom") })
	s.SubscribeUI(func(UI) { after++ })

	s.AddMessage("hello", KindInfo)

	assert.Equal(t, 1, after)
	assert.Len(t, s.UI().Messages, 1)
	assert.Contains(t, logs.String(), "state listener failed")
	assert.Contains(t, logs.String(), "section=ui")
}

func TestSubscribe_ReentrantListenerDoesNotDeadlock(t *testing.T) {
	s := New(nil)

	var seen []bool
	s.SubscribeUI(func(u UI) {
		seen = append(seen, u.Editing)
		if u.Editing {
			s.ClearEditingItemID()
		}
	})

	s.SetEditingItemID(3)

	assert.Equal(t, []bool{true, false}, seen)
	assert.False(t, s.UI().Editing)
}

func TestState_SnapshotIsDeepCopy(t *testing.T) {
	s := New(nil)
	s.setItems([]items.Item{{ID: 1, Name: "a"}})
	s.AddMessage("m", KindInfo)

	snap := s.State()
	snap.Items[0].Name = "changed"
	snap.Items = append(snap.Items, items.Item{ID: 2})
	snap.UI.Messages[0].Text = "changed"
	snap.UI.IsLoading = true

	again := s.State()
	require.Len(t, again.Items, 1)
	assert.Equal(t, "a", again.Items[0].Name)
	assert.Equal(t, "m", again.UI.Messages[0].Text)
	assert.False(t, again.UI.IsLoading)

	list := s.Items()
	list[0].Name = "x"
	assert.Equal(t, "a", s.Items()[0].Name)

	ui := s.UI()
	ui.Messages[0].Text = "x"
	assert.Equal(t, "m", s.UI().Messages[0].Text)
}

func TestLoading_ReferenceCounted(t *testing.T) {
	s := New(nil)

	s.beginLoading()
	s.beginLoading()
	s.endLoading()
	assert.True(t, s.UI().IsLoading, "one action still in flight")

	s.endLoading()
	assert.False(t, s.UI().IsLoading)

	s.endLoading()
	assert.False(t, s.UI().IsLoading, "extra end must not underflow")
	s.beginLoading()
	assert.True(t, s.UI().IsLoading)
}

func TestReplaceAndRemoveItem(t *testing.T) {
	s := New(nil)
	s.setItems([]items.Item{{ID: 1, Name: "a"}, {ID: 7, Name: "b"}})

	s.replaceItem(7, items.Item{ID: 7, Name: "b2"})
	assert.Equal(t, []items.Item{{ID: 1, Name: "a"}, {ID: 7, Name: "b2"}}, s.Items())

	s.removeItem(1)
	assert.Equal(t, []items.Item{{ID: 7, Name: "b2"}}, s.Items())
}

func TestStore_ConcurrentMutationsNotifyOncePerMutation(t *testing.T) {
	s := New(nil)

	var mu sync.Mutex
	calls := 0
	s.SubscribeUI(func(UI) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	const workers, perWorker = 8, 25
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				s.AddMessage("x", KindInfo)
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, workers*perWorker, calls)
	assert.Len(t, s.UI().Messages, MaxMessages)
}
