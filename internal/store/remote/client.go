// Package remote is the data-access layer for the notas REST service.
//
// The service contract is fixed: every route lives under a base URL ending
// in /notas, bodies are JSON, and field names are the service's own
// (titulo, contenido, ...). Client maps that contract onto model types and
// reports failures as *StatusError or wrapped transport errors.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/idilsaglam/notas/internal/model"
)

// DefaultBaseURL is where the service listens in a default local setup.
const DefaultBaseURL = "http://localhost:8080/notas"

// maxErrorBody caps how much of a failed response is kept for messages.
const maxErrorBody = 4 << 10

// Client talks to the notas service. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the transport timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a client for the service rooted at baseURL
// (e.g. "http://localhost:8080/notas").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// List fetches every note, in service order.
func (c *Client) List(ctx context.Context) ([]model.Note, error) {
	return c.notes(ctx, "list", "/getNotas")
}

// Search fetches the notes matching term. A 404 from the service comes back
// as an error satisfying errors.Is(err, ErrNotFound).
func (c *Client) Search(ctx context.Context, term string) ([]model.Note, error) {
	return c.notes(ctx, "search", "/"+url.PathEscape(term))
}

// notes fetches a listing. A well-formed body that is not an array (an
// object, null) counts as an empty listing.
func (c *Client) notes(ctx context.Context, op, path string) ([]model.Note, error) {
	var raw json.RawMessage
	if err := c.do(ctx, op, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		if len(raw) > 0 {
			c.log.Debug().Str("op", op).Msg("listing is not an array, treating as empty")
		}
		return nil, nil
	}
	var notes []model.Note
	if err := json.Unmarshal(raw, &notes); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return notes, nil
}

// Create asks the service to store a new note.
func (c *Client) Create(ctx context.Context, title, content string) error {
	body := model.CreateRequest{Title: title, Content: content}
	return c.do(ctx, "create", http.MethodPost, "/crear", body, nil)
}

// Update replaces the title and content of an existing note.
func (c *Client) Update(ctx context.Context, id model.NoteID, title, content string) error {
	body := model.UpdateRequest{ID: id, Title: title, Content: content}
	return c.do(ctx, "update", http.MethodPut, "/actualizar", body, nil)
}

// Delete removes a note.
func (c *Client) Delete(ctx context.Context, id model.NoteID) error {
	return c.do(ctx, "delete", http.MethodDelete, "/"+url.PathEscape(id.String()), nil, nil)
}

// do performs one request and decodes a 2xx JSON body into target when set.
func (c *Client) do(ctx context.Context, op, method, path string, body, target any) error {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).
			Str("op", op).
			Str("request_id", reqID).
			Str("method", method).
			Str("path", path).
			Msg("request failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("op", op).
		Str("request_id", reqID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("request done")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if target == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, target); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
