// Package session holds the client-side state of a notas session and the
// operations that keep it in line with the service.
//
// Controller never renders anything. Renderers read State or Subscribe to
// it, and call the operations in response to user input. Every operation
// resolves failures into the state itself: list operations leave a
// placeholder in State.List, mutations leave a Notice. Nothing is returned
// as an error.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"

	"github.com/idilsaglam/notas/internal/model"
	"github.com/idilsaglam/notas/internal/store/remote"
)

// Store is the remote note collection.
type Store interface {
	List(ctx context.Context) ([]model.Note, error)
	Search(ctx context.Context, term string) ([]model.Note, error)
	Create(ctx context.Context, title, content string) error
	Update(ctx context.Context, id model.NoteID, title, content string) error
	Delete(ctx context.Context, id model.NoteID) error
}

// Outcome tells the caller how a mutation ended.
type Outcome int

const (
	OutcomeDone    Outcome = iota // the service accepted the change
	OutcomeInvalid                // rejected locally, no request made
	OutcomeFailed                 // the service or transport failed
	OutcomeConfirm                // the user must confirm before anything happens
	OutcomeNoop                   // nothing to do
)

// Result is returned by mutations. Prompt is set for OutcomeConfirm.
type Result struct {
	Outcome Outcome
	Notice  *Notice
	Prompt  string
}

// Draft is the trimmed form input for a save.
type Draft struct {
	Title   string
	Content string
}

// NewDraft trims surrounding whitespace from both fields.
func NewDraft(title, content string) Draft {
	return Draft{Title: strings.TrimSpace(title), Content: strings.TrimSpace(content)}
}

// Validate checks that both fields are present.
func (d Draft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required),
		validation.Field(&d.Content, validation.Required),
	)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the diagnostics logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// Controller owns the session state.
type Controller struct {
	store Store
	log   zerolog.Logger

	mu      sync.Mutex
	st      State
	listSeq uint64
	subs    map[int]func(State)
	nextSub int
}

// New creates a controller over store. The list starts idle and empty;
// call LoadAll to fetch the collection.
func New(store Store, opts ...Option) *Controller {
	c := &Controller{
		store: store,
		log:   zerolog.Nop(),
		subs:  map[int]func(State){},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.clone()
}

// Subscribe registers fn to receive a copy of the state after every change.
// fn runs on the goroutine that made the change and must not block.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// apply runs fn under the lock and notifies subscribers when fn reports a change.
func (c *Controller) apply(fn func(s *State) bool) {
	c.mu.Lock()
	if !fn(&c.st) {
		c.mu.Unlock()
		return
	}
	snap := c.st.clone()
	subs := make([]func(State), 0, len(c.subs))
	for _, s := range c.subs {
		subs = append(subs, s)
	}
	c.mu.Unlock()

	for _, s := range subs {
		s(snap)
	}
}

// beginList moves the list into a transient status and returns the token
// the response must still hold to be applied.
func (c *Controller) beginList(status ListStatus, msg, query string) uint64 {
	var tok uint64
	c.apply(func(s *State) bool {
		c.listSeq++
		tok = c.listSeq
		s.List = ListView{Status: status, Message: msg, Query: query}
		return true
	})
	return tok
}

// LoadAll fetches the whole collection and replaces the snapshot.
// A selection that no longer exists is cleared along with the form. When a
// newer list operation started meanwhile, the snapshot is still replaced but
// the list keeps showing the newer result.
func (c *Controller) LoadAll(ctx context.Context) {
	tok := c.beginList(ListLoading, MsgLoading, "")
	notes, err := c.store.List(ctx)

	c.apply(func(s *State) bool {
		stale := tok != c.listSeq
		if err != nil {
			if stale {
				c.log.Debug().Err(err).Uint64("token", tok).Msg("discarding stale listing error")
				return false
			}
			c.log.Error().Err(err).Msg("load notes failed")
			s.List = ListView{Status: ListError, Message: MsgLoadFailed}
			return true
		}

		// the snapshot is always the latest successful listing; only the
		// rendering of a superseded one is dropped
		s.Notes = notes
		if !s.Selected.IsZero() {
			if _, ok := findNote(notes, s.Selected); !ok {
				s.Selected = ""
				clearForm(s, false)
			}
		}
		if stale {
			c.log.Debug().Uint64("token", tok).Msg("keeping snapshot of superseded listing")
			markSelected(s.List.Entries, s.Selected)
			return true
		}
		s.List = listOf(notes, s.Selected, "")
		return true
	})
}

// Search lists the notes matching term without touching the snapshot.
// An empty term is the same as LoadAll.
func (c *Controller) Search(ctx context.Context, term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		c.LoadAll(ctx)
		return
	}

	tok := c.beginList(ListSearching, MsgSearching, term)
	notes, err := c.store.Search(ctx, term)

	c.apply(func(s *State) bool {
		if tok != c.listSeq {
			c.log.Debug().Uint64("token", tok).Str("term", term).Msg("discarding stale search")
			return false
		}
		switch {
		case errors.Is(err, remote.ErrNotFound):
			s.List = ListView{Status: ListNoMatches, Message: MsgNoMatches, Query: term}
		case err != nil:
			c.log.Error().Err(err).Str("term", term).Msg("search notes failed")
			s.List = ListView{Status: ListError, Message: MsgSearchFailed, Query: term}
		default:
			s.List = listOf(notes, s.Selected, term)
		}
		return true
	})
}

// Select makes id the note being edited and fills the form from the
// snapshot. Ids missing from the snapshot are ignored.
func (c *Controller) Select(id model.NoteID) {
	c.apply(func(s *State) bool {
		n, ok := findNote(s.Notes, id)
		if !ok {
			return false
		}
		s.Selected = n.ID
		s.PendingDelete = false
		markSelected(s.List.Entries, n.ID)
		s.Form = Form{
			Title:   n.Title,
			Content: n.Content,
			Meta: &Meta{
				ID:       n.ID.String(),
				Created:  n.Created(),
				Modified: n.Modified(),
			},
			Rev: s.Form.Rev + 1,
		}
		return true
	})
}

// Save creates a note when nothing is selected and updates the selected
// note otherwise.
func (c *Controller) Save(ctx context.Context, title, content string) Result {
	d := NewDraft(title, content)
	if err := d.Validate(); err != nil {
		c.log.Debug().Err(err).Msg("save rejected")
		return c.finish(OutcomeInvalid, NoticeWarning, MsgRequired)
	}

	selected := c.State().Selected
	if selected.IsZero() {
		if err := c.store.Create(ctx, d.Title, d.Content); err != nil {
			c.log.Error().Err(err).Msg("create note failed")
			return c.finish(OutcomeFailed, NoticeError, failureText(err, "creating", fallbackInvalid, MsgSaveFailed))
		}
		res := c.finish(OutcomeDone, NoticeSuccess, MsgCreated)
		c.apply(func(s *State) bool {
			s.Selected = ""
			clearForm(s, false)
			return true
		})
		c.LoadAll(ctx)
		return res
	}

	if err := c.store.Update(ctx, selected, d.Title, d.Content); err != nil {
		c.log.Error().Err(err).Str("id", selected.String()).Msg("update note failed")
		return c.finish(OutcomeFailed, NoticeError, failureText(err, "updating", fallbackInvalid, MsgSaveFailed))
	}
	res := c.finish(OutcomeDone, NoticeSuccess, MsgUpdated)
	c.LoadAll(ctx)
	c.Select(selected)
	return res
}

// Delete asks for confirmation to delete the selected note. The request is
// only sent by ConfirmDelete.
func (c *Controller) Delete(_ context.Context) Result {
	var res Result
	c.apply(func(s *State) bool {
		if s.Selected.IsZero() {
			s.Notice = &Notice{Kind: NoticeWarning, Text: MsgSelectFirst}
			res = Result{Outcome: OutcomeInvalid, Notice: s.Notice}
			return true
		}
		s.PendingDelete = true
		res = Result{Outcome: OutcomeConfirm, Prompt: MsgConfirmDelete}
		return true
	})
	if res.Notice != nil {
		n := *res.Notice
		res.Notice = &n
	}
	return res
}

// ConfirmDelete answers the prompt raised by Delete.
func (c *Controller) ConfirmDelete(ctx context.Context, accepted bool) Result {
	var (
		pending bool
		id      model.NoteID
	)
	c.apply(func(s *State) bool {
		pending, id = s.PendingDelete, s.Selected
		s.PendingDelete = false
		return pending
	})
	if !pending || !accepted {
		return Result{Outcome: OutcomeNoop}
	}
	if id.IsZero() {
		return c.finish(OutcomeInvalid, NoticeWarning, MsgSelectFirst)
	}

	if err := c.store.Delete(ctx, id); err != nil {
		c.log.Error().Err(err).Str("id", id.String()).Msg("delete note failed")
		return c.finish(OutcomeFailed, NoticeError, failureText(err, "deleting", fallbackNoDelete, MsgDeleteFailed))
	}
	res := c.finish(OutcomeDone, NoticeSuccess, MsgDeleted)
	c.apply(func(s *State) bool {
		s.Selected = ""
		clearForm(s, false)
		return true
	})
	c.LoadAll(ctx)
	return res
}

// CancelEdit drops the selection and empties the form.
func (c *Controller) CancelEdit() {
	c.apply(func(s *State) bool {
		s.Selected = ""
		s.PendingDelete = false
		clearForm(s, false)
		markSelected(s.List.Entries, "")
		return true
	})
}

// StartNew is CancelEdit plus a request to focus the title input.
func (c *Controller) StartNew() {
	c.apply(func(s *State) bool {
		s.Selected = ""
		s.PendingDelete = false
		clearForm(s, true)
		markSelected(s.List.Entries, "")
		return true
	})
}

// DismissNotice clears the current notification.
func (c *Controller) DismissNotice() {
	c.apply(func(s *State) bool {
		if s.Notice == nil {
			return false
		}
		s.Notice = nil
		return true
	})
}

func (c *Controller) finish(out Outcome, kind NoticeKind, text string) Result {
	c.apply(func(s *State) bool {
		s.Notice = &Notice{Kind: kind, Text: text}
		return true
	})
	return Result{Outcome: out, Notice: &Notice{Kind: kind, Text: text}}
}

func clearForm(s *State, focus bool) {
	s.Form = Form{Rev: s.Form.Rev + 1, FocusTitle: focus}
}

func listOf(notes []model.Note, selected model.NoteID, query string) ListView {
	if len(notes) == 0 {
		return ListView{Status: ListEmpty, Message: MsgEmpty, Query: query}
	}
	return ListView{Status: ListReady, Query: query, Entries: entriesFor(notes, selected)}
}

// failureText turns a failed mutation into the message shown to the user:
// the status and body for service errors, generic otherwise.
func failureText(err error, verb, fallback, generic string) string {
	se, ok := remote.AsStatus(err)
	if !ok {
		return generic
	}
	body := se.Body
	if body == "" {
		body = fallback
	}
	return fmt.Sprintf("Error %s note (%d): %s", verb, se.Code, body)
}
