package session

import (
	"github.com/idilsaglam/notas/internal/model"
)

// ListStatus is what the list region is currently showing.
type ListStatus int

const (
	ListIdle ListStatus = iota
	ListLoading
	ListSearching
	ListReady
	ListEmpty
	ListNoMatches
	ListError
)

func (s ListStatus) String() string {
	switch s {
	case ListLoading:
		return "loading"
	case ListSearching:
		return "searching"
	case ListReady:
		return "ready"
	case ListEmpty:
		return "empty"
	case ListNoMatches:
		return "no-matches"
	case ListError:
		return "error"
	default:
		return "idle"
	}
}

// Placeholder reports whether the list shows a single status line
// instead of entries.
func (s ListStatus) Placeholder() bool { return s != ListReady && s != ListIdle }

// Entry is one rendered line of the note list.
type Entry struct {
	ID       model.NoteID
	Title    string
	Date     string
	Selected bool
}

// ListView is the list region: either entries or a placeholder message.
type ListView struct {
	Status  ListStatus
	Message string
	Query   string
	Entries []Entry
}

// Meta is the read-only detail line of the form.
type Meta struct {
	ID       string
	Created  string
	Modified string
}

// Form is the edit form. Rev changes every time the controller fills or
// clears it; renderers overwrite their inputs only when Rev moves.
type Form struct {
	Title      string
	Content    string
	Meta       *Meta
	Rev        int
	FocusTitle bool
}

// NoticeKind classifies a notification.
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeWarning
	NoticeError
)

// Notice is a dismissible notification produced by a mutation.
type Notice struct {
	Kind NoticeKind
	Text string
}

// State is a copy of everything the controller owns.
type State struct {
	Notes         []model.Note
	Selected      model.NoteID
	List          ListView
	Form          Form
	Notice        *Notice
	PendingDelete bool
}

// HasSelection reports whether a note is selected.
func (s State) HasSelection() bool { return !s.Selected.IsZero() }

// SelectedNote returns the selected note from the snapshot.
func (s State) SelectedNote() (model.Note, bool) {
	if s.Selected.IsZero() {
		return model.Note{}, false
	}
	return findNote(s.Notes, s.Selected)
}

func (s State) clone() State {
	out := s
	out.Notes = append([]model.Note(nil), s.Notes...)
	out.List.Entries = append([]Entry(nil), s.List.Entries...)
	if s.Form.Meta != nil {
		m := *s.Form.Meta
		out.Form.Meta = &m
	}
	if s.Notice != nil {
		n := *s.Notice
		out.Notice = &n
	}
	return out
}

func findNote(notes []model.Note, id model.NoteID) (model.Note, bool) {
	for _, n := range notes {
		if n.ID.Equal(id) {
			return n, true
		}
	}
	return model.Note{}, false
}

func entriesFor(notes []model.Note, selected model.NoteID) []Entry {
	out := make([]Entry, 0, len(notes))
	for _, n := range notes {
		out = append(out, Entry{
			ID:       n.ID,
			Title:    n.Title,
			Date:     n.Created(),
			Selected: !selected.IsZero() && n.ID.Equal(selected),
		})
	}
	return out
}

func markSelected(entries []Entry, selected model.NoteID) {
	for i := range entries {
		entries[i].Selected = !selected.IsZero() && entries[i].ID.Equal(selected)
	}
}
