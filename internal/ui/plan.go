package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/weekplan/internal/dates"
	"github.com/five82/weekplan/internal/items"
)

func (m Model) handlePlanKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.New):
		form, cmd := newForm(m.now(), nil)
		m.modal = form
		return m, cmd
	case key.Matches(msg, m.keys.Reload):
		return m, m.reloadCmd()
	}
	return m, nil
}

// renderPlan lays out this week and the next as two rows of five day
// boxes. Today's box is highlighted. Narrow terminals get a single list.
func (m Model) renderPlan() string {
	now := m.now()
	weeks := dates.Weeks(now)
	byDate := dates.GroupByDate(m.items, func(it items.Item) string { return it.Date })
	height := m.contentHeight()

	if m.width < LayoutPlanMinWidth {
		return m.renderPlanList(weeks, byDate, height)
	}

	colWidth := m.width / len(weeks[0])
	rowHeight := height / len(weeks)

	rows := make([]string, 0, len(weeks))
	for w, week := range weeks {
		h := rowHeight
		if w == len(weeks)-1 {
			h = height - rowHeight*(len(weeks)-1)
		}
		cols := make([]string, 0, len(week))
		for d, date := range week {
			width := colWidth
			if d == len(week)-1 {
				width = m.width - colWidth*(len(week)-1)
			}
			cols = append(cols, m.renderDay(date, byDate[date], width, h, dates.IsToday(date, now)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderDay(date string, list []items.Item, width, height int, today bool) string {
	styles := m.theme.Styles()
	bgColor := m.theme.SurfaceAlt
	if today {
		bgColor = m.theme.FocusBg
	}
	bg := NewBgStyle(bgColor)
	inner := max(width-4, 1)

	var lines []string
	if len(list) == 0 {
		lines = append(lines, bg.Render("-", styles.FaintText))
	}
	for i, it := range list {
		if i == height-3 && len(list) > height-2 {
			lines = append(lines, bg.Render("+"+strconv.Itoa(len(list)-i)+" more", styles.FaintText))
			break
		}
		lines = append(lines, bg.Render("• "+truncate(it.Name, inner-2), styles.Text))
	}

	title := dayLabel(date, "Mon 02-01")
	if today {
		title += " ·today"
	}
	return m.renderTitledBox(title, strings.Join(lines, "\n"), width, height, today)
}

func (m Model) renderPlanList(weeks [2][]string, byDate map[string][]items.Item, height int) string {
	styles := m.theme.Styles()
	now := m.now()

	var lines []string
	for w, week := range weeks {
		if w > 0 {
			lines = append(lines, "")
		}
		label := "This week"
		if w == 1 {
			label = "Next week"
		}
		lines = append(lines, styles.AccentText.Bold(true).Render(label))
		for _, date := range week {
			dayStyle := styles.MutedText
			if dates.IsToday(date, now) {
				dayStyle = styles.TodayText
			}
			lines = append(lines, dayStyle.Render(dayLabel(date, "Mon 02-01")))
			for _, it := range byDate[date] {
				lines = append(lines, styles.Text.Render("  • "+truncate(it.Name, m.width-8)))
			}
		}
	}
	return m.renderTitledBox("Plan", strings.Join(lines, "\n"), m.width, height, true)
}
