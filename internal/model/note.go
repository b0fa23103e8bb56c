package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Note is the domain model for a note held by the notas service.
// Field names on the wire are fixed by the service.
type Note struct {
	ID         NoteID    `json:"Id"`
	Title      string    `json:"titulo"`
	Content    string    `json:"contenido"`
	CreatedAt  Timestamp `json:"fechaCreacion,omitempty"`
	ModifiedAt Timestamp `json:"fechaModificacion,omitempty"`
}

// Created returns the creation date as YYYY-MM-DD, or "" when unknown.
func (n Note) Created() string { return FormatDate(string(n.CreatedAt)) }

// Modified returns the modification date as YYYY-MM-DD, or "" when unknown.
func (n Note) Modified() string { return FormatDate(string(n.ModifiedAt)) }

// CreateRequest is the body of POST /crear.
type CreateRequest struct {
	Title   string `json:"titulo"`
	Content string `json:"contenido"`
}

// UpdateRequest is the body of PUT /actualizar.
type UpdateRequest struct {
	ID      NoteID `json:"id"`
	Title   string `json:"titulo"`
	Content string `json:"contenido"`
}

// NoteID is the service-assigned identifier. It keeps the exact JSON token
// the service sent (a number or a quoted string) so it goes back unchanged.
type NoteID string

// ParseNoteID builds an id from user input such as a CLI argument.
// Integers stay numeric on the wire; anything else becomes a JSON string.
func ParseNoteID(s string) NoteID {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return NoteID(strconv.FormatInt(n, 10))
	}
	b, _ := json.Marshal(s)
	return NoteID(b)
}

// String returns the id as shown to users and used in URL paths.
func (id NoteID) String() string {
	raw := string(id)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			return s
		}
	}
	return raw
}

// Equal compares ids by their user-visible form, so 7 and "7" match.
func (id NoteID) Equal(other NoteID) bool { return id.String() == other.String() }

// IsZero reports whether the id is unset.
func (id NoteID) IsZero() bool { return id == "" }

func (id NoteID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	return []byte(id), nil
}

func (id *NoteID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	*id = NoteID(b)
	return nil
}

// Timestamp is a service timestamp kept verbatim. Values that are not JSON
// strings (null, numbers, arrays) decode as empty instead of failing the
// whole listing.
type Timestamp string

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*t = ""
		return nil
	}
	*t = Timestamp(s)
	return nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDate truncates a service timestamp to its UTC calendar date.
// Empty or unparseable input yields "".
func FormatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(time.DateOnly)
		}
	}
	return ""
}
