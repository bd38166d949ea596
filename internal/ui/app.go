package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/weekplan/internal/items"
	"github.com/five82/weekplan/internal/logtail"
	"github.com/five82/weekplan/internal/prefs"
	"github.com/five82/weekplan/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewItems View = iota
	ViewPlan
	ViewLogs
)

var viewOrder = []View{ViewItems, ViewPlan, ViewLogs}

func parseView(name string) View {
	if strings.EqualFold(strings.TrimSpace(name), "plan") {
		return ViewPlan
	}
	return ViewItems
}

// Options configures the UI.
type Options struct {
	Context context.Context
	Store   *state.Store
	Actions *state.Actions
	// Bootstrap runs once the program has started and the store is
	// subscribed, so no notification from the initial load is missed.
	Bootstrap func(context.Context)
	Logger    *slog.Logger
	ThemeName string
	StartView string // "items" or "plan"
	PrefsPath string
	LogPath   string
	Now       func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	actions   *state.Actions
	bootstrap func(context.Context)
	log       *slog.Logger
	prefsPath string
	logPath   string
	startView string
	keys      keyMap
	now       func() time.Time
	after     func(time.Duration, func(time.Time) tea.Msg) tea.Cmd

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	modal       Modal

	// Mirrors of the store sections, refreshed by notifications.
	items      []items.Item
	version    string
	hasVersion bool
	ui         state.UI

	selectedRow int
	// message ids with a pending dismissal
	scheduled map[int64]bool

	spinner spinner.Model

	// Log state
	logViewport viewport.Model
	logEntries  []logtail.Entry
	logErr      error
	logLoaded   bool
	logTicking  bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = defaultThemeName
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	startView := "items"
	if parseView(opts.StartView) == ViewPlan {
		startView = "plan"
	}

	m := Model{
		ctx:         ctx,
		store:       opts.Store,
		actions:     opts.Actions,
		bootstrap:   opts.Bootstrap,
		log:         log,
		prefsPath:   prefsPath,
		logPath:     opts.LogPath,
		startView:   startView,
		keys:        DefaultKeyMap(),
		now:         now,
		after:       tea.Tick,
		theme:       GetTheme(themeName),
		currentView: parseView(startView),
		items:       []items.Item{},
		scheduled:   make(map[int64]bool),
		spinner:     spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}
	if opts.Store != nil {
		st := opts.Store.State()
		m.items = st.Items
		m.version, m.hasVersion = st.Version, st.HasVersion
		m.ui = st.UI
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.bootstrap != nil {
		ctx, boot := m.ctx, m.bootstrap
		cmds = append(cmds, func() tea.Msg {
			boot(ctx)
			return nil
		})
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initLogViewport()
		}
		m.ready = true
		m.resizeLogViewport()
		return m, nil

	case itemsMsg:
		m.setItems([]items.Item(msg))
		return m, nil

	case versionMsg:
		m.version = string(msg)
		m.hasVersion = true
		return m, nil

	case uiMsg:
		return m.handleUI(state.UI(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case dismissMsg:
		return m, m.removeMessageCmd(msg.id)

	case submitMsg:
		return m, m.saveCmd(msg)

	case savedMsg:
		if f, ok := m.modal.(*formModal); ok {
			if msg.ok {
				m.modal = nil
			} else {
				f.saving = false
			}
		}
		return m, nil

	case editLoadedMsg:
		return m.handleEditLoaded(msg)

	case formCancelMsg:
		if msg.editing {
			return m, m.clearEditingCmd()
		}
		return m, nil

	case deleteMsg:
		return m, m.deleteCmd(msg.id)

	case logsMsg:
		m.handleLogs(msg)
		return m, nil

	case logTickMsg:
		if m.currentView != ViewLogs {
			m.logTicking = false
			return m, nil
		}
		return m, tea.Batch(m.readLogsCmd(), m.logTickCmd())
	}

	// Cursor blinks and similar belong to the open dialog.
	if m.modal != nil {
		next, cmd, closed := m.modal.Update(msg, m.keys)
		m.modal = next
		if closed {
			m.modal = nil
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		next, cmd, closed := m.modal.Update(msg, m.keys)
		m.modal = next
		if closed {
			m.modal = nil
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		return m.switchView(m.nextView())
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.ViewItems):
		return m.switchView(ViewItems)
	case key.Matches(msg, m.keys.ViewPlan):
		return m.switchView(ViewPlan)
	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchView(ViewLogs)
	}

	switch m.currentView {
	case ViewItems:
		return m.handleItemsKey(msg)
	case ViewPlan:
		return m.handlePlanKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

func (m Model) nextView() View {
	for i, v := range viewOrder {
		if v == m.currentView {
			return viewOrder[(i+1)%len(viewOrder)]
		}
	}
	return ViewItems
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	if v != ViewLogs {
		return m, nil
	}
	cmds := []tea.Cmd{m.readLogsCmd()}
	if !m.logTicking {
		m.logTicking = true
		cmds = append(cmds, m.logTickCmd())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	p := prefs.Prefs{Theme: m.theme.Name, StartView: m.startView}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn("save prefs failed", slog.String("path", m.prefsPath), slog.Any("error", err))
	}
}

// handleUI mirrors the ui section and reacts to its transitions: new
// messages get a dismissal timer, a newly set editing id loads the item
// for the form, and a cleared one closes the edit form.
func (m Model) handleUI(u state.UI) (tea.Model, tea.Cmd) {
	prev := m.ui
	m.ui = u

	var cmds []tea.Cmd
	live := make(map[int64]bool, len(u.Messages))
	for _, msg := range u.Messages {
		live[msg.ID] = true
		if !m.scheduled[msg.ID] {
			m.scheduled[msg.ID] = true
			cmds = append(cmds, m.dismissAfter(msg.ID))
		}
	}
	for id := range m.scheduled {
		if !live[id] {
			delete(m.scheduled, id)
		}
	}

	id, editing := u.EditingID()
	prevID, wasEditing := prev.EditingID()
	switch {
	case editing && (!wasEditing || id != prevID):
		cmds = append(cmds, m.loadEditCmd(id))
	case !editing && wasEditing:
		if f, ok := m.modal.(*formModal); ok && f.editing {
			m.modal = nil
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleEditLoaded(msg editLoadedMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		return m, m.clearEditingCmd()
	}
	if id, editing := m.ui.EditingID(); !editing || id != msg.item.ID {
		// superseded while the item was loading
		return m, nil
	}
	form, cmd := newForm(m.now(), &msg.item)
	m.modal = form
	return m, cmd
}

// setItems replaces the item mirror, keeping the selection on the same id
// when it is still present.
func (m *Model) setItems(list []items.Item) {
	var selectedID int64
	if it := m.selectedItem(); it != nil {
		selectedID = it.ID
	}
	m.items = list

	if len(m.items) == 0 {
		m.selectedRow = 0
		return
	}
	if i := items.IndexOf(m.items, selectedID); selectedID != 0 && i >= 0 {
		m.selectedRow = i
		return
	}
	if m.selectedRow >= len(m.items) {
		m.selectedRow = len(m.items) - 1
	}
}

func (m Model) selectedItem() *items.Item {
	if m.selectedRow < 0 || m.selectedRow >= len(m.items) {
		return nil
	}
	it := m.items[m.selectedRow]
	return &it
}

// renderMain renders header, command bar, the active view and the toast line.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderToast())
	return b.String()
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewPlan:
		return m.renderPlan()
	case ViewLogs:
		return m.renderLogs()
	default:
		return m.renderItems()
	}
}

func (m Model) contentHeight() int {
	return max(m.height-chromeRows, 3)
}

// Messages

type (
	itemsMsg   []items.Item
	versionMsg string
	uiMsg      state.UI

	dismissMsg    struct{ id int64 }
	deleteMsg     struct{ id int64 }
	formCancelMsg struct{ editing bool }
	savedMsg      struct{ ok bool }
	logTickMsg    time.Time
)

type submitMsg struct {
	draft   items.Draft
	id      int64
	editing bool
}

type editLoadedMsg struct {
	item items.Item
	ok   bool
}

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

// Commands. Store mutations always run inside commands: listeners forward
// notifications with Program.Send, which must not be called from Update.

func (m Model) dismissAfter(id int64) tea.Cmd {
	return m.after(ToastLifetime, func(time.Time) tea.Msg { return dismissMsg{id: id} })
}

func (m Model) logTickCmd() tea.Cmd {
	return m.after(LogRefreshInterval, func(t time.Time) tea.Msg { return logTickMsg(t) })
}

func (m Model) removeMessageCmd(id int64) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		store.RemoveMessage(id)
		return nil
	}
}

func (m Model) setEditingCmd(id int64) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		store.SetEditingItemID(id)
		return nil
	}
}

func (m Model) clearEditingCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		store.ClearEditingItemID()
		return nil
	}
}

func (m Model) loadEditCmd(id int64) tea.Cmd {
	ctx, actions := m.ctx, m.actions
	return func() tea.Msg {
		it, ok := actions.GetItem(ctx, id)
		return editLoadedMsg{item: it, ok: ok}
	}
}

func (m Model) reloadCmd() tea.Cmd {
	ctx, actions := m.ctx, m.actions
	return func() tea.Msg {
		actions.LoadItems(ctx)
		return nil
	}
}

func (m Model) saveCmd(msg submitMsg) tea.Cmd {
	ctx, actions := m.ctx, m.actions
	if msg.editing {
		return func() tea.Msg {
			_, ok := actions.UpdateItem(ctx, msg.id, msg.draft)
			return savedMsg{ok: ok}
		}
	}
	return func() tea.Msg {
		_, ok := actions.CreateItem(ctx, msg.draft)
		return savedMsg{ok: ok}
	}
}

func (m Model) deleteCmd(id int64) tea.Cmd {
	ctx, actions := m.ctx, m.actions
	return func() tea.Msg {
		actions.DeleteItem(ctx, id)
		return nil
	}
}

// subscribe forwards every store notification to send until the returned
// function is called.
func subscribe(store *state.Store, send func(tea.Msg)) func() {
	unsubs := []func(){
		store.SubscribeItems(func(list []items.Item) { send(itemsMsg(list)) }),
		store.SubscribeVersion(func(v string) { send(versionMsg(v)) }),
		store.SubscribeUI(func(u state.UI) { send(uiMsg(u)) }),
	}
	return func() {
		for _, unsubscribe := range unsubs {
			unsubscribe()
		}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	if opts.Store == nil || opts.Actions == nil {
		return errors.New("ui: store and actions are required")
	}
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))

	unsubscribe := subscribe(opts.Store, p.Send)
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
