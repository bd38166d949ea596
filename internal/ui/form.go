package ui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/weekplan/internal/dates"
	"github.com/five82/weekplan/internal/items"
)

type formField int

const (
	fieldName formField = iota
	fieldDate
)

// formModal creates or edits an item: a name input and a picker over the
// weekdays of this week and the next.
type formModal struct {
	editing bool
	id      int64

	name    textinput.Model
	dates   []string
	dateIdx int
	today   string
	field   formField

	err    string
	saving bool
}

// newForm opens the form. A nil item starts a new one dated today, or the
// next weekday when today is a weekend day.
func newForm(now time.Time, it *items.Item) (*formModal, tea.Cmd) {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 200
	ti.Prompt = ""

	f := &formModal{
		name:  ti,
		dates: dates.TwoWeekDates(now),
		today: dates.Format(now),
	}
	f.dateIdx = defaultDateIndex(f.dates, now)

	if it != nil {
		f.editing = true
		f.id = it.ID
		f.name.SetValue(it.Name)
		if i := slices.Index(f.dates, it.Date); i >= 0 {
			f.dateIdx = i
		} else if it.Date != "" {
			// keep dates outside the two-week window selectable
			f.dates = append([]string{it.Date}, f.dates...)
			f.dateIdx = 0
		}
	}
	return f, f.name.Focus()
}

func defaultDateIndex(list []string, now time.Time) int {
	today, err := dates.Parse(dates.Format(now))
	if err != nil {
		return 0
	}
	for i, d := range list {
		t, err := dates.Parse(d)
		if err == nil && !t.Before(today) {
			return i
		}
	}
	return 0
}

func (f *formModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		f.name, cmd = f.name.Update(msg)
		return f, cmd, false
	}

	switch {
	case key.Matches(km, keys.Escape):
		editing := f.editing
		return f, func() tea.Msg { return formCancelMsg{editing: editing} }, true
	case key.Matches(km, keys.Confirm):
		return f, f.submit(), false
	case key.Matches(km, keys.NextField), key.Matches(km, keys.PrevField):
		return f, f.toggleField(), false
	}

	if f.field == fieldDate {
		switch {
		case key.Matches(km, keys.Left):
			if f.dateIdx > 0 {
				f.dateIdx--
			}
		case key.Matches(km, keys.Right):
			if f.dateIdx < len(f.dates)-1 {
				f.dateIdx++
			}
		}
		return f, nil, false
	}

	var cmd tea.Cmd
	f.name, cmd = f.name.Update(km)
	f.err = ""
	return f, cmd, false
}

func (f *formModal) toggleField() tea.Cmd {
	if f.field == fieldName {
		f.field = fieldDate
		f.name.Blur()
		return nil
	}
	f.field = fieldName
	return f.name.Focus()
}

// draft returns the values as entered.
func (f *formModal) draft() items.Draft {
	d := items.Draft{Name: strings.TrimSpace(f.name.Value())}
	if f.dateIdx >= 0 && f.dateIdx < len(f.dates) {
		d.Date = f.dates[f.dateIdx]
	}
	return d
}

func (f *formModal) submit() tea.Cmd {
	if f.saving {
		return nil
	}
	d := f.draft()
	if d.Name == "" {
		f.err = "Name is required"
		return nil
	}
	if err := d.Validate(); err != nil {
		f.err = items.InvalidDateMessage
		return nil
	}
	f.err = ""
	f.saving = true
	msg := submitMsg{draft: d, id: f.id, editing: f.editing}
	return func() tea.Msg { return msg }
}

func (f *formModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder

	title := "New item"
	if f.editing {
		title = fmt.Sprintf("Edit item #%d", f.id)
	}
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n\n")

	label := func(text string, field formField) string {
		if f.field == field {
			return styles.AccentText.Bold(true).Render(padRight(text, 6))
		}
		return styles.MutedText.Render(padRight(text, 6))
	}

	b.WriteString(label("Name", fieldName))
	b.WriteString(f.name.View())
	b.WriteString("\n")

	b.WriteString(label("Date", fieldDate))
	b.WriteString(f.renderDate(styles))
	b.WriteString("\n")

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n")
	}
	if f.saving {
		b.WriteString("\n")
		b.WriteString(styles.InfoText.Render("Saving..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("tab field  ←/→ date  enter save  esc cancel"))
	return placeModal(theme, width, height, 56, b.String())
}

func (f *formModal) renderDate(styles Styles) string {
	if len(f.dates) == 0 {
		return ""
	}
	value := f.dates[f.dateIdx]
	text := dayLabel(value, "Mon") + " " + value
	style := styles.Text
	if value == f.today {
		style = styles.TodayText
		text += " (today)"
	}
	left, right := "‹ ", " ›"
	if f.dateIdx == 0 {
		left = "  "
	}
	if f.dateIdx == len(f.dates)-1 {
		right = "  "
	}
	return styles.FaintText.Render(left) + style.Render(text) + styles.FaintText.Render(right)
}

// dayLabel formats a DD-MM-YYYY date with layout, or returns it unchanged
// when it does not parse.
func dayLabel(value, layout string) string {
	t, err := dates.Parse(value)
	if err != nil {
		return value
	}
	return t.Format(layout)
}
