package ui

import (
	"fmt"
	"strings"

	"github.com/idilsaglam/notas/internal/model"
	"github.com/idilsaglam/notas/internal/session"
)

const maxTitle = 60

// ListLines renders the list region of a session for a panel.
func ListLines(v session.ListView) []string {
	t := Current()
	header := C(t.Title, "Notes")
	if v.Query != "" {
		header = fmt.Sprintf("%s  %s %q", header, C(t.Accent, "search"), v.Query)
	}
	if v.Status == session.ListReady {
		header = fmt.Sprintf("%s  %s %d", header, C(t.Accent, "Total"), len(v.Entries))
	}

	lines := []string{header, ""}
	switch {
	case v.Status == session.ListError:
		lines = append(lines, C(t.Error, v.Message))
	case v.Status.Placeholder():
		lines = append(lines, C(t.Muted, v.Message))
	default:
		for i, e := range v.Entries {
			lines = append(lines, entryLine(i, e))
		}
	}
	return lines
}

func entryLine(i int, e session.Entry) string {
	t := Current()
	mark := " "
	if e.Selected {
		mark = C(t.Accent, t.Marker)
	}
	date := e.Date
	if date == "" {
		date = t.Dash
	}
	return fmt.Sprintf("%s %s %s  %s %s",
		C(t.Muted, fmt.Sprintf("%3s", e.ID.String())),
		mark,
		Truncate(e.Title, maxTitle),
		C(t.Muted, "created"),
		date,
	)
}

// NoteLines renders one note with its metadata and content.
func NoteLines(n model.Note) []string {
	t := Current()
	orDash := func(s string) string {
		if s == "" {
			return t.Dash
		}
		return s
	}
	lines := []string{
		C(t.Title, n.Title),
		C(t.Muted, fmt.Sprintf("ID: %s  Created: %s  Modified: %s",
			n.ID.String(), orDash(n.Created()), orDash(n.Modified()))),
		"",
	}
	return append(lines, strings.Split(n.Content, "\n")...)
}
