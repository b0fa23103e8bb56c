// Package mcpserver exposes the notas service as MCP (Model Context Protocol)
// tools over stdio, for use by LLM clients.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/idilsaglam/notas/internal/model"
	"github.com/idilsaglam/notas/internal/session"
	"github.com/idilsaglam/notas/internal/store/remote"
)

// Server wraps the MCP server with the notas tools.
type Server struct {
	mcp   *server.MCPServer
	store session.Store
	log   zerolog.Logger
}

// noteView is the JSON shape returned to tool callers.
type noteView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Created  string `json:"created,omitempty"`
	Modified string `json:"modified,omitempty"`
}

// New creates a new MCP server with all tools registered.
func New(store session.Store, version string, log zerolog.Logger) *Server {
	s := &Server{store: store, log: log}

	s.mcp = server.NewMCPServer(
		"notas",
		version,
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List every note held by the notas service."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Find notes whose title matches a term. Returns [] when nothing matches."),
		mcp.WithString("term", mcp.Required(), mcp.Description("Title search term")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a note. Title and content must not be blank."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Note body")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("update_note",
		mcp.WithDescription("Replace the title and content of an existing note."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id as returned by list_notes")),
		mcp.WithString("title", mcp.Required(), mcp.Description("New title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("New body")),
	), s.updateNote)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id as returned by list_notes")),
	), s.deleteNote)

	return s
}

// Serve runs the server on the given streams until ctx ends or in closes.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := s.store.List(ctx)
	if err != nil {
		return s.failure("list notes", err), nil
	}
	return jsonResult(notes)
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term, err := req.RequireString("term")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	notes, err := s.store.Search(ctx, term)
	switch {
	case errors.Is(err, remote.ErrNotFound):
		notes = nil
	case err != nil:
		return s.failure("search notes", err), nil
	}
	return jsonResult(notes)
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, res := draftFrom(req)
	if res != nil {
		return res, nil
	}
	if err := s.store.Create(ctx, d.Title, d.Content); err != nil {
		return s.failure("create note", err), nil
	}
	return mcp.NewToolResultText(session.MsgCreated), nil
}

func (s *Server) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, res := draftFrom(req)
	if res != nil {
		return res, nil
	}
	if err := s.store.Update(ctx, model.ParseNoteID(id), d.Title, d.Content); err != nil {
		return s.failure("update note", err), nil
	}
	return mcp.NewToolResultText(session.MsgUpdated), nil
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}
	if err := s.store.Delete(ctx, model.ParseNoteID(id)); err != nil {
		return s.failure("delete note", err), nil
	}
	return mcp.NewToolResultText(session.MsgDeleted), nil
}

func draftFrom(req mcp.CallToolRequest) (session.Draft, *mcp.CallToolResult) {
	title, err := req.RequireString("title")
	if err != nil {
		return session.Draft{}, mcp.NewToolResultError(err.Error())
	}
	content, err := req.RequireString("content")
	if err != nil {
		return session.Draft{}, mcp.NewToolResultError(err.Error())
	}
	d := session.NewDraft(title, content)
	if err := d.Validate(); err != nil {
		return session.Draft{}, mcp.NewToolResultError(session.MsgRequired)
	}
	return d, nil
}

func (s *Server) failure(op string, err error) *mcp.CallToolResult {
	s.log.Error().Err(err).Str("tool", op).Msg("tool call failed")
	if se, ok := remote.AsStatus(err); ok {
		return mcp.NewToolResultError(fmt.Sprintf("%s: status %d: %s", op, se.Code, se.Body))
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", op, err))
}

func jsonResult(notes []model.Note) (*mcp.CallToolResult, error) {
	views := make([]noteView, 0, len(notes))
	for _, n := range notes {
		views = append(views, noteView{
			ID:       n.ID.String(),
			Title:    n.Title,
			Content:  n.Content,
			Created:  n.Created(),
			Modified: n.Modified(),
		})
	}
	out, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode notes: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}
