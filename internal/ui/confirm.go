package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/weekplan/internal/items"
)

// confirmModal asks before an item is deleted.
type confirmModal struct {
	id   int64
	name string
}

func newConfirm(it items.Item) *confirmModal {
	return &confirmModal{id: it.ID, name: it.Name}
}

func (c *confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(km, keys.Yes):
		id := c.id
		return c, func() tea.Msg { return deleteMsg{id: id} }, true
	case key.Matches(km, keys.No):
		return c, nil, true
	}
	return c, nil, false
}

func (c *confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Delete item"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(fmt.Sprintf("#%d %s", c.id, truncate(c.name, 40))))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("y") + styles.MutedText.Render(" delete   ") +
		styles.AccentText.Render("n") + styles.MutedText.Render(" keep"))
	return placeModal(theme, width, height, 48, b.String())
}
