package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/weekplan/internal/logtail"
)

// initLogViewport initializes the log viewport.
func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(max(m.width-2, 1), max(m.contentHeight()-2, 1))
}

// resizeLogViewport fits the viewport inside the titled box.
func (m *Model) resizeLogViewport() {
	m.logViewport.Width = max(m.width-2, 1)
	m.logViewport.Height = max(m.contentHeight()-2, 1)
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	if m.logLoaded {
		m.logViewport.SetContent(m.renderLogContent())
	}
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Reload):
		return m, m.readLogsCmd()
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

// readLogsCmd reads the tail of the client log off the UI goroutine.
func (m Model) readLogsCmd() tea.Cmd {
	path := m.logPath
	return func() tea.Msg {
		if path == "" {
			return logsMsg{}
		}
		lines, err := logtail.Read(path, LogTailLines)
		if err != nil {
			return logsMsg{err: err}
		}
		return logsMsg{entries: logtail.ParseAll(lines)}
	}
}

// handleLogs stores freshly read entries. The view stays pinned to the
// bottom unless the user has scrolled up.
func (m *Model) handleLogs(msg logsMsg) {
	m.logErr = msg.err
	if msg.err != nil {
		return
	}
	follow := !m.logLoaded || m.logViewport.AtBottom()
	m.logEntries = msg.entries
	m.logLoaded = true
	m.logViewport.SetContent(m.renderLogContent())
	if follow {
		m.logViewport.GotoBottom()
	}
}

func (m Model) renderLogContent() string {
	styles := m.theme.Styles()
	if len(m.logEntries) == 0 {
		return styles.MutedText.Render("No log entries yet")
	}
	lines := make([]string, 0, len(m.logEntries))
	for _, e := range m.logEntries {
		lines = append(lines, formatLogEntry(e, styles))
	}
	return strings.Join(lines, "\n")
}

// formatLogEntry renders "15:04:05 LEVEL message key=value ...".
func formatLogEntry(e logtail.Entry, styles Styles) string {
	if e.Level == "" {
		return styles.MutedText.Render(e.Raw)
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(styles.FaintText.Render(e.Time.Local().Format("15:04:05")))
		b.WriteString(" ")
	}
	b.WriteString(styles.LevelStyle(e.Level).Render(padRight(e.Level, 5)))
	b.WriteString(" ")
	b.WriteString(styles.Text.Render(e.Message))
	for _, a := range e.Attrs {
		b.WriteString(" ")
		b.WriteString(styles.MutedText.Render(a.Key + "="))
		b.WriteString(styles.AccentText.Render(a.Value))
	}
	return b.String()
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	height := m.contentHeight()

	title := "Logs"
	if m.logPath != "" {
		title += " · " + truncateMiddle(m.logPath, max(m.width/2, 10))
	}

	var body string
	switch {
	case m.logErr != nil:
		body = styles.DangerText.Render("Cannot read log: " + m.logErr.Error())
	case !m.logLoaded:
		body = styles.MutedText.Render("Reading log...")
	default:
		body = m.logViewport.View()
	}
	return m.renderTitledBox(title, body, m.width, height, true)
}
