package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/five82/weekplan/internal/state"
)

// renderHeader renders the status bar: name, service version, item count,
// edit marker and the loading spinner.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{
		bg.Render("weekplan", styles.Logo),
		bg.Render(m.versionLabel(), styles.MutedText),
	}

	countLabel := "Items:"
	if compact {
		countLabel = "#"
	}
	parts = append(parts,
		bg.Render(countLabel, styles.MutedText)+bg.Space()+
			bg.Render(strconv.Itoa(len(m.items)), styles.Text),
	)

	if id, ok := m.ui.EditingID(); ok {
		parts = append(parts, bg.Render(fmt.Sprintf("Editing #%d", id), styles.WarningText))
	}

	if m.ui.IsLoading {
		loading := bg.Render(m.spinner.View(), styles.AccentText)
		if !compact {
			loading += bg.Space() + bg.Render("Loading", styles.AccentText)
		}
		parts = append(parts, loading)
	}

	if !compact {
		parts = append(parts, bg.Render(m.now().Format("Mon 02-01-2006"), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// versionLabel is "v" plus the service version, with the placeholder shown
// until the version is known.
func (m Model) versionLabel() string {
	v := strings.TrimSpace(m.version)
	if !m.hasVersion || v == "" {
		v = state.VersionPlaceholder
	}
	return "v" + v
}

// renderCommandBar renders the key hints for the active view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewPlan:
		commands = []cmd{
			{"n", "New"},
			{"r", "Reload"},
			{"i", "Items"},
			{"l", "Logs"},
			{"?", "More"},
		}
	case ViewLogs:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"r", "Reload"},
			{"i", "Items"},
			{"w", "Plan"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"n", "New"},
			{"e", "Edit"},
			{"d", "Delete"},
			{"r", "Reload"},
			{"w", "Plan"},
			{"l", "Logs"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// renderToast shows the newest message, or the short key help when there
// is none.
func (m Model) renderToast() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if len(m.ui.Messages) == 0 {
		bindings := m.keys.ShortHelp()
		hints := make([]string, 0, len(bindings))
		for _, b := range bindings {
			h := b.Help()
			hints = append(hints, bg.Render(h.Key, styles.AccentText)+bg.Sep(":")+bg.Render(h.Desc, styles.FaintText))
		}
		return styles.Footer.Width(m.width).Render(strings.Join(hints, bg.Spaces(2)))
	}

	newest := m.ui.Messages[0]
	text := bg.Render(truncate(newest.Text, max(m.width-12, 10)), styles.KindStyle(string(newest.Kind)))
	if more := len(m.ui.Messages) - 1; more > 0 {
		text += bg.Spaces(2) + bg.Render(fmt.Sprintf("+%d", more), styles.FaintText)
	}
	return styles.Footer.Width(m.width).Render(text)
}
