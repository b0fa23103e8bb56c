package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/notas/internal/session"
	"github.com/idilsaglam/notas/internal/ui"
)

// entryItem adapts a session entry to bubbles/list.Item
type entryItem session.Entry

func (i entryItem) FilterValue() string { return i.Title }

// Single-line rendering: cursor, title, creation date.
type entryDelegate struct{}

func (d entryDelegate) Height() int                               { return 1 }
func (d entryDelegate) Spacing() int                              { return 0 }
func (d entryDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d entryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(entryItem)
	if !ok {
		return
	}
	date := it.Date
	if date == "" {
		date = "—"
	}
	meta := mutedStyle.Render("Created: " + date)

	title := ui.Truncate(it.Title, m.Width()-lipgloss.Width(meta)-6)
	if it.Selected {
		title = selectedStyle.Render(title)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = cursorStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s  %s", prefix, title, meta)
}
