package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/notas/internal/model"
	"github.com/idilsaglam/notas/internal/session"
)

func plain(t *testing.T) *bytes.Buffer {
	t.Helper()
	SetColorMode(ColorNever)
	SetTheme("classic")
	var buf bytes.Buffer
	oldOut, oldErr := Stdout, Stderr
	Stdout, Stderr = &buf, &buf
	t.Cleanup(func() {
		SetColorMode(ColorAuto)
		Stdout, Stderr = oldOut, oldErr
		SetTheme("classic")
	})
	return &buf
}

func TestListLines_Entries(t *testing.T) {
	plain(t)
	v := session.ListView{
		Status: session.ListReady,
		Entries: []session.Entry{
			{ID: "1", Title: "A", Date: "2024-01-01"},
			{ID: "2", Title: "B", Date: "", Selected: true},
		},
	}

	lines := ListLines(v)
	require.Len(t, lines, 4)
	assert.Equal(t, "Notes  Total 2", lines[0])
	assert.Equal(t, "  1   A  created 2024-01-01", lines[2])
	assert.Equal(t, "  2 ▸ B  created —", lines[3])
}

func TestListLines_Placeholders(t *testing.T) {
	plain(t)
	for _, v := range []session.ListView{
		{Status: session.ListEmpty, Message: session.MsgEmpty},
		{Status: session.ListNoMatches, Message: session.MsgNoMatches, Query: "x"},
		{Status: session.ListError, Message: session.MsgLoadFailed},
	} {
		lines := ListLines(v)
		assert.Equal(t, v.Message, lines[len(lines)-1])
	}

	lines := ListLines(session.ListView{Status: session.ListNoMatches, Message: session.MsgNoMatches, Query: "x"})
	assert.Equal(t, `Notes  search "x"`, lines[0])
}

func TestNoteLines(t *testing.T) {
	plain(t)
	n := model.Note{ID: "7", Title: "Trip", Content: "pack\nbook", CreatedAt: "2024-03-01T10:00:00Z"}
	assert.Equal(t, []string{
		"Trip",
		"ID: 7  Created: 2024-03-01  Modified: —",
		"",
		"pack",
		"book",
	}, NoteLines(n))
}

func TestPanel(t *testing.T) {
	buf := plain(t)
	Panel([]string{"ab", "éxy"})
	assert.Equal(t, strings.Join([]string{
		"┌─────┐",
		"│ ab  │",
		"│ éxy │",
		"└─────┘",
		"",
	}, "\n"), buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
}

func TestOKAndFail(t *testing.T) {
	buf := plain(t)
	OK("saved")
	Fail("broken")
	assert.Equal(t, "✔ saved\n✖ broken\n", buf.String())
}

func TestColorMode(t *testing.T) {
	plain(t)
	assert.Equal(t, "x", C(fgRed, "x"))

	SetColorMode(ColorAlways)
	assert.Equal(t, "\033[31mx\033[0m", C(fgRed, "x"))
	assert.Equal(t, "x", C("", "x"))

	SetTheme("mono")
	assert.Equal(t, "x", C(Current().Error, "x"))
}
