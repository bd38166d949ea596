package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/weekplan/internal/dates"
	"github.com/five82/weekplan/internal/items"
)

const (
	idColumnWidth   = 7
	dateColumnWidth = 12
)

// handleItemsKey processes keyboard input for the items view.
func (m Model) handleItemsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.New):
		form, cmd := newForm(m.now(), nil)
		m.modal = form
		return m, cmd
	case key.Matches(msg, m.keys.Reload):
		return m, m.reloadCmd()
	}

	count := len(m.items)
	if count == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < count-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = count - 1
	case key.Matches(msg, m.keys.Edit):
		if it := m.selectedItem(); it != nil {
			return m, m.setEditingCmd(it.ID)
		}
	case key.Matches(msg, m.keys.Delete):
		if it := m.selectedItem(); it != nil {
			m.modal = newConfirm(*it)
		}
	}
	return m, nil
}

// renderItems renders the item table.
func (m Model) renderItems() string {
	styles := m.theme.Styles()
	height := m.contentHeight()
	title := fmt.Sprintf("Items (%d)", len(m.items))

	if len(m.items) == 0 {
		empty := styles.MutedText.Render("No items yet. Press n to add one.")
		return m.renderTitledBox(title, lipgloss.Place(m.width-2, height-2, lipgloss.Center, lipgloss.Center, empty), m.width, height, true)
	}

	inner := m.width - 2
	bg := m.theme.FocusBg
	lines := []string{m.formatItemHeader(inner, bg)}

	// keep the selection visible
	visible := height - 3
	start := 0
	if m.selectedRow >= visible {
		start = m.selectedRow - visible + 1
	}
	end := min(len(m.items), start+visible)

	for i := start; i < end; i++ {
		rowBg := bg
		if i == m.selectedRow {
			rowBg = m.theme.SelectionBg
		}
		content := m.formatItemRow(m.items[i], inner, rowBg, i == m.selectedRow)
		lines = append(lines, NewBgStyle(rowBg).FillLine(content, inner))
	}
	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, height, true)
}

func (m Model) formatItemHeader(width int, bgColor string) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	nameWidth := max(width-idColumnWidth-dateColumnWidth-2, 4)
	return bg.Render(padRight("ID", idColumnWidth), styles.FaintText) +
		bg.Render(padRight("Date", dateColumnWidth), styles.FaintText) +
		bg.Render(padRight("Name", nameWidth), styles.FaintText)
}

// formatItemRow formats "#ID  DD-MM-YYYY  Name". Selected rows use the
// selection text color throughout for contrast.
func (m Model) formatItemRow(it items.Item, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	nameWidth := max(width-idColumnWidth-dateColumnWidth-2, 4)

	today := dates.IsToday(it.Date, m.now())
	idStyle, dateStyle, nameStyle := styles.MutedText, styles.Text, styles.Text
	if selected {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		idStyle, dateStyle, nameStyle = sel, sel, sel.Bold(true)
	}
	if today {
		dateStyle = styles.TodayText
	}

	return bg.Render(padRight(fmt.Sprintf("#%d", it.ID), idColumnWidth), idStyle) +
		bg.Render(padRight(it.Date, dateColumnWidth), dateStyle) +
		bg.Render(truncate(it.Name, nameWidth), nameStyle)
}

// renderTitledBox draws a box with the title centered in its top border.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColor, bgColor := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColor, bgColor = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColor)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleWidth := lipgloss.Width(title) + 2
	leftPad := max((innerWidth-titleWidth)/2, 0)
	rightPad := max(innerWidth-titleWidth-leftPad, 0)

	top := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)
	bottom := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	cell := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColor))
	lines := strings.Split(content, "\n")
	body := make([]string, 0, max(height-2, 0))
	for i := 0; i < height-2; i++ {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		body = append(body, bg.Render("│", borderStyle)+cell.Render(line)+bg.Render("│", borderStyle))
	}

	if len(body) == 0 {
		return top + "\n" + bottom
	}
	return top + "\n" + strings.Join(body, "\n") + "\n" + bottom
}
