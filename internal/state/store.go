package state

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/five82/weekplan/internal/items"
)

// Section names an independently subscribable part of the state.
type Section string

const (
	SectionItems   Section = "items"
	SectionVersion Section = "version"
	SectionUI      Section = "ui"
)

// Kind classifies a user-facing message.
type Kind string

const (
	KindSuccess Kind = "success"
	KindDanger  Kind = "danger"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// MaxMessages is how many messages the UI section retains.
const MaxMessages = 5

// Message is a transient notice shown to the user.
type Message struct {
	ID        int64
	Text      string
	Kind      Kind
	Timestamp string // RFC 3339 with milliseconds
}

// UI holds view-facing flags and messages.
type UI struct {
	EditingItemID int64
	Editing       bool
	IsLoading     bool
	Messages      []Message // newest first
}

// EditingID returns the item being edited, if any.
func (u UI) EditingID() (int64, bool) {
	return u.EditingItemID, u.Editing
}

func (u UI) clone() UI {
	dup := u
	dup.Messages = slices.Clone(u.Messages)
	if dup.Messages == nil {
		dup.Messages = []Message{}
	}
	return dup
}

// State is a full snapshot of the store.
type State struct {
	Items      []items.Item
	Version    string
	HasVersion bool
	UI         UI
}

// Store is the single source of truth for items, version and UI state.
// It is safe for concurrent use. Construct it with New.
type Store struct {
	log *slog.Logger
	now func() time.Time

	mu          sync.Mutex
	items       []items.Item
	version     string
	hasVersion  bool
	ui          UI
	pending     int // actions in flight; drives ui.IsLoading
	lastMsgID   int64
	nextSubID   uint64
	subscribers map[Section][]subscriber

	// queued notifications, drained by whichever goroutine set dispatching
	queue       []event
	dispatching bool
}

type subscriber struct {
	id uint64
	fn func(any)
}

type event struct {
	section Section
	value   any
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the time source used for message ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns an empty Store. A nil logger discards listener failures.
func New(log *slog.Logger, opts ...Option) *Store {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Store{
		log:         log,
		now:         time.Now,
		items:       []items.Item{},
		ui:          UI{Messages: []Message{}},
		subscribers: make(map[Section][]subscriber),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a deep copy of the whole state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Items:      items.Clone(s.items),
		Version:    s.version,
		HasVersion: s.hasVersion,
		UI:         s.ui.clone(),
	}
}

// Items returns a copy of the cached items.
func (s *Store) Items() []items.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return items.Clone(s.items)
}

// Version returns the service version and whether one has been set.
func (s *Store) Version() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version, s.hasVersion
}

// UI returns a copy of the UI state.
func (s *Store) UI() UI {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ui.clone()
}

// SubscribeItems registers fn for item changes. The returned func removes it.
func (s *Store) SubscribeItems(fn func([]items.Item)) (unsubscribe func()) {
	return subscribe(s, SectionItems, fn)
}

// SubscribeVersion registers fn for version changes.
func (s *Store) SubscribeVersion(fn func(string)) (unsubscribe func()) {
	return subscribe(s, SectionVersion, fn)
}

// SubscribeUI registers fn for UI changes.
func (s *Store) SubscribeUI(fn func(UI)) (unsubscribe func()) {
	return subscribe(s, SectionUI, fn)
}

func subscribe[T any](s *Store, section Section, fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subscribers[section] = append(s.subscribers[section], subscriber{
		id: id,
		fn: func(v any) { fn(v.(T)) },
	})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.subscribers[section] = slices.DeleteFunc(s.subscribers[section], func(sub subscriber) bool {
				return sub.id == id
			})
		})
	}
}

// SetEditingItemID marks id as the item being edited.
func (s *Store) SetEditingItemID(id int64) {
	s.mu.Lock()
	s.ui.EditingItemID = id
	s.ui.Editing = true
	s.enqueueLocked(SectionUI)
	s.mu.Unlock()
	s.flush()
}

// ClearEditingItemID leaves edit mode.
func (s *Store) ClearEditingItemID() {
	s.mu.Lock()
	s.clearEditingLocked()
	s.mu.Unlock()
	s.flush()
}

func (s *Store) clearEditingLocked() {
	s.ui.EditingItemID = 0
	s.ui.Editing = false
	s.enqueueLocked(SectionUI)
}

// AddMessage prepends a message, keeps the newest MaxMessages and returns
// the new message id.
func (s *Store) AddMessage(text string, kind Kind) int64 {
	s.mu.Lock()
	id := s.addMessageLocked(text, kind)
	s.mu.Unlock()
	s.flush()
	return id
}

func (s *Store) addMessageLocked(text string, kind Kind) int64 {
	now := s.now()
	// time-derived but strictly increasing, even within one millisecond
	id := max(now.UnixMilli(), s.lastMsgID+1)
	s.lastMsgID = id

	msg := Message{
		ID:        id,
		Text:      text,
		Kind:      kind,
		Timestamp: now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
	msgs := make([]Message, 0, MaxMessages)
	msgs = append(msgs, msg)
	msgs = append(msgs, s.ui.Messages[:min(len(s.ui.Messages), MaxMessages-1)]...)
	s.ui.Messages = msgs
	s.enqueueLocked(SectionUI)
	return id
}

// RemoveMessage drops the message with id. Subscribers are notified even
// when no such message exists.
func (s *Store) RemoveMessage(id int64) {
	s.mu.Lock()
	s.ui.Messages = slices.DeleteFunc(slices.Clone(s.ui.Messages), func(m Message) bool {
		return m.ID == id
	})
	s.enqueueLocked(SectionUI)
	s.mu.Unlock()
	s.flush()
}

func (s *Store) setItems(list []items.Item) []items.Item {
	s.mu.Lock()
	s.items = items.Clone(list)
	out := items.Clone(s.items)
	s.enqueueLocked(SectionItems)
	s.mu.Unlock()
	s.flush()
	return out
}

func (s *Store) appendItem(it items.Item) {
	s.mu.Lock()
	next := make([]items.Item, 0, len(s.items)+1)
	next = append(next, s.items...)
	s.items = append(next, it)
	s.enqueueLocked(SectionItems)
	s.mu.Unlock()
	s.flush()
}

// replaceItem swaps in it wherever an item with the same id is cached. The
// items section is notified even when nothing matched.
func (s *Store) replaceItem(id int64, it items.Item) {
	s.mu.Lock()
	next := items.Clone(s.items)
	for i := range next {
		if next[i].ID == id {
			next[i] = it
		}
	}
	s.items = next
	s.enqueueLocked(SectionItems)
	s.mu.Unlock()
	s.flush()
}

func (s *Store) removeItem(id int64) {
	s.mu.Lock()
	s.items = slices.DeleteFunc(items.Clone(s.items), func(it items.Item) bool {
		return it.ID == id
	})
	s.enqueueLocked(SectionItems)
	s.mu.Unlock()
	s.flush()
}

func (s *Store) setVersion(v string) {
	s.mu.Lock()
	s.version = v
	s.hasVersion = true
	s.enqueueLocked(SectionVersion)
	s.mu.Unlock()
	s.flush()
}

// beginLoading and endLoading bracket an action. IsLoading stays true
// until every overlapping action has finished.
func (s *Store) beginLoading() {
	s.mu.Lock()
	s.pending++
	s.ui.IsLoading = true
	s.enqueueLocked(SectionUI)
	s.mu.Unlock()
	s.flush()
}

func (s *Store) endLoading() {
	s.mu.Lock()
	if s.pending > 0 {
		s.pending--
	}
	s.ui.IsLoading = s.pending > 0
	s.enqueueLocked(SectionUI)
	s.mu.Unlock()
	s.flush()
}

// enqueueLocked captures the current value of section for delivery.
// Callers hold s.mu.
func (s *Store) enqueueLocked(section Section) {
	var value any
	switch section {
	case SectionItems:
		value = items.Clone(s.items)
	case SectionVersion:
		value = s.version
	case SectionUI:
		value = s.ui.clone()
	default:
		return
	}
	s.queue = append(s.queue, event{section: section, value: value})
}

// flush delivers queued events in order. Only one goroutine drains at a
// time; others return immediately and their events are delivered by the
// active drainer. Listeners run without s.mu held, so they may call back
// into the store.
func (s *Store) flush() {
	s.mu.Lock()
	if s.dispatching {
		s.mu.Unlock()
		return
	}
	s.dispatching = true
	for len(s.queue) > 0 {
		ev := s.queue[0]
		s.queue = s.queue[1:]
		subs := slices.Clone(s.subscribers[ev.section])
		s.mu.Unlock()

		for _, sub := range subs {
			s.deliver(ev.section, sub, copyValue(ev.value))
		}

		s.mu.Lock()
	}
	s.queue = nil
	s.dispatching = false
	s.mu.Unlock()
}

func (s *Store) deliver(section Section, sub subscriber, value any) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("state listener failed",
				slog.String("section", string(section)),
				slog.Any("error", fmt.Errorf("panic: %v", r)),
			)
		}
	}()
	sub.fn(value)
}

// copyValue gives each listener its own copy of a captured section value.
func copyValue(v any) any {
	switch t := v.(type) {
	case []items.Item:
		return items.Clone(t)
	case UI:
		return t.clone()
	default:
		return v
	}
}
