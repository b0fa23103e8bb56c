// Package testutil provides an in-memory stand-in for the notas service.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// Call is one request the fake received.
type Call struct {
	Method string
	Path   string
	Body   string
}

type note struct {
	ID       int     `json:"Id"`
	Title    string  `json:"titulo"`
	Content  string  `json:"contenido"`
	Created  string  `json:"fechaCreacion"`
	Modified *string `json:"fechaModificacion"`
}

type failure struct {
	code int
	body string
}

// FakeNotas serves the /notas contract from memory.
type FakeNotas struct {
	srv *httptest.Server

	mu     sync.Mutex
	notes  []note
	nextID int
	calls  []Call
	fail   map[string]failure
	now    func() time.Time
	holds  map[string]chan struct{}
}

// NewFakeNotas starts a fake service that is closed when the test ends.
func NewFakeNotas(t *testing.T) *FakeNotas {
	t.Helper()
	f := &FakeNotas{
		nextID: 1,
		fail:   map[string]failure{},
		holds:  map[string]chan struct{}{},
		now:    func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
	}

	r := chi.NewRouter()
	r.Route("/notas", func(r chi.Router) {
		r.Use(f.record)
		r.Get("/getNotas", f.list)
		r.Post("/crear", f.create)
		r.Put("/actualizar", f.update)
		r.Get("/{term}", f.search)
		r.Delete("/{id}", f.remove)
	})

	f.srv = httptest.NewServer(r)
	t.Cleanup(f.srv.Close)
	return f
}

// URL is the base URL a client should use, ending in /notas.
func (f *FakeNotas) URL() string { return f.srv.URL + "/notas" }

// SetClock replaces the timestamp source.
func (f *FakeNotas) SetClock(now func() time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}

// Seed adds a note and returns its id.
func (f *FakeNotas) Seed(title, content string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insert(title, content)
}

// FailNext makes the next request for op ("list", "create", "update",
// "delete", "search") answer with code and body.
func (f *FakeNotas) FailNext(op string, code int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[op] = failure{code: code, body: body}
}

// Hold blocks the next request for op until the returned func is called.
func (f *FakeNotas) Hold(op string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.holds[op] = ch
	f.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Calls returns the requests received so far.
func (f *FakeNotas) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo counts requests with the given method.
func (f *FakeNotas) CallsTo(method string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Has reports whether a note with id exists.
func (f *FakeNotas) Has(id int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.index(id) >= 0
}

func (f *FakeNotas) insert(title, content string) int {
	id := f.nextID
	f.nextID++
	f.notes = append(f.notes, note{
		ID:      id,
		Title:   title,
		Content: content,
		Created: f.now().UTC().Format(time.RFC3339),
	})
	return id
}

func (f *FakeNotas) index(id int) int {
	for i, n := range f.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (f *FakeNotas) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(b)))
		f.mu.Lock()
		f.calls = append(f.calls, Call{Method: r.Method, Path: r.URL.EscapedPath(), Body: string(b)})
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// intercept applies a pending hold or failure for op. It reports true when
// the response has already been written.
func (f *FakeNotas) intercept(op string, w http.ResponseWriter) bool {
	f.mu.Lock()
	hold, held := f.holds[op]
	delete(f.holds, op)
	f.mu.Unlock()
	if held {
		<-hold
	}

	f.mu.Lock()
	fl, ok := f.fail[op]
	delete(f.fail, op)
	f.mu.Unlock()
	if !ok {
		return false
	}
	w.WriteHeader(fl.code)
	_, _ = io.WriteString(w, fl.body)
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *FakeNotas) list(w http.ResponseWriter, _ *http.Request) {
	if f.intercept("list", w) {
		return
	}
	f.mu.Lock()
	out := append([]note{}, f.notes...)
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeNotas) search(w http.ResponseWriter, r *http.Request) {
	if f.intercept("search", w) {
		return
	}
	term := chi.URLParam(r, "term")
	if unescaped, err := url.PathUnescape(term); err == nil {
		term = unescaped
	}
	term = strings.ToLower(term)
	f.mu.Lock()
	var out []note
	for _, n := range f.notes {
		if strings.Contains(strings.ToLower(n.Title), term) {
			out = append(out, n)
		}
	}
	f.mu.Unlock()
	if len(out) == 0 {
		http.Error(w, "no notes match", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeNotas) create(w http.ResponseWriter, r *http.Request) {
	if f.intercept("create", w) {
		return
	}
	var req struct {
		Title   string `json:"titulo"`
		Content string `json:"contenido"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Content == "" {
		http.Error(w, "titulo and contenido are required", http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	id := f.insert(req.Title, req.Content)
	created := f.notes[f.index(id)]
	f.mu.Unlock()
	writeJSON(w, http.StatusCreated, created)
}

func (f *FakeNotas) update(w http.ResponseWriter, r *http.Request) {
	if f.intercept("update", w) {
		return
	}
	var req struct {
		ID      json.Number `json:"id"`
		Title   string      `json:"titulo"`
		Content string      `json:"contenido"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(req.ID.String())
	if err != nil {
		http.Error(w, "id must be a number", http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.index(id)
	if i < 0 {
		http.Error(w, fmt.Sprintf("note %d not found", id), http.StatusNotFound)
		return
	}
	modified := f.now().UTC().Format(time.RFC3339)
	f.notes[i].Title = req.Title
	f.notes[i].Content = req.Content
	f.notes[i].Modified = &modified
	writeJSON(w, http.StatusOK, f.notes[i])
}

func (f *FakeNotas) remove(w http.ResponseWriter, r *http.Request) {
	if f.intercept("delete", w) {
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "id must be a number", http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.index(id)
	if i < 0 {
		http.Error(w, fmt.Sprintf("note %d not found", id), http.StatusNotFound)
		return
	}
	f.notes = append(f.notes[:i], f.notes[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}
