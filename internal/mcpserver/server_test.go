package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/notas/internal/session"
	"github.com/idilsaglam/notas/internal/store/remote"
	"github.com/idilsaglam/notas/internal/testutil"
)

func testServer(t *testing.T) (*Server, *testutil.FakeNotas) {
	t.Helper()
	fake := testutil.NewFakeNotas(t)
	return New(remote.New(fake.URL()), "test", zerolog.Nop()), fake
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var (
		result *mcp.CallToolResult
		err    error
	)
	switch name {
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "search_notes":
		result, err = srv.searchNotes(ctx, req)
	case "create_note":
		result, err = srv.createNote(ctx, req)
	case "update_note":
		result, err = srv.updateNote(ctx, req)
	case "delete_note":
		result, err = srv.deleteNote(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}
	require.NoError(t, err, "tool %s", name)
	require.NotNil(t, result)
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func decodeNotes(t *testing.T, r *mcp.CallToolResult) []noteView {
	t.Helper()
	require.False(t, r.IsError, resultText(r))
	var out []noteView
	require.NoError(t, json.Unmarshal([]byte(resultText(r)), &out))
	return out
}

func TestListNotes(t *testing.T) {
	srv, fake := testServer(t)
	fake.Seed("A", "alpha")
	fake.Seed("B", "beta")

	notes := decodeNotes(t, callTool(t, srv, "list_notes", nil))

	require.Len(t, notes, 2)
	assert.Equal(t, noteView{ID: "1", Title: "A", Content: "alpha", Created: "2024-01-01"}, notes[0])
}

func TestListNotes_Failure(t *testing.T) {
	srv, fake := testServer(t)
	fake.FailNext("list", http.StatusInternalServerError, "down")

	r := callTool(t, srv, "list_notes", nil)

	assert.True(t, r.IsError)
	assert.Equal(t, "list notes: status 500: down", resultText(r))
}

func TestSearchNotes(t *testing.T) {
	srv, fake := testServer(t)
	fake.Seed("Shopping", "x")
	fake.Seed("Work", "y")

	t.Run("Matches", func(t *testing.T) {
		notes := decodeNotes(t, callTool(t, srv, "search_notes", map[string]any{"term": "shop"}))
		require.Len(t, notes, 1)
		assert.Equal(t, "Shopping", notes[0].Title)
	})

	t.Run("NotFoundIsEmpty", func(t *testing.T) {
		r := callTool(t, srv, "search_notes", map[string]any{"term": "nothing"})
		assert.Equal(t, "[]", resultText(r))
		assert.Empty(t, decodeNotes(t, r))
	})

	t.Run("MissingTerm", func(t *testing.T) {
		r := callTool(t, srv, "search_notes", map[string]any{})
		assert.True(t, r.IsError)
	})
}

func TestCreateNote(t *testing.T) {
	t.Run("Creates", func(t *testing.T) {
		srv, fake := testServer(t)

		r := callTool(t, srv, "create_note", map[string]any{"title": " T ", "content": "body"})

		assert.False(t, r.IsError)
		assert.Equal(t, session.MsgCreated, resultText(r))
		require.Len(t, fake.Calls(), 1)
		assert.JSONEq(t, `{"titulo":"T","contenido":"body"}`, fake.Calls()[0].Body)
	})

	t.Run("BlankFieldsRejected", func(t *testing.T) {
		srv, fake := testServer(t)

		r := callTool(t, srv, "create_note", map[string]any{"title": "T", "content": "   "})

		assert.True(t, r.IsError)
		assert.Equal(t, session.MsgRequired, resultText(r))
		assert.Empty(t, fake.Calls())
	})
}

func TestUpdateNote(t *testing.T) {
	srv, fake := testServer(t)
	fake.Seed("Old", "x")

	r := callTool(t, srv, "update_note", map[string]any{"id": "1", "title": "New", "content": "y"})
	assert.False(t, r.IsError, resultText(r))
	assert.Equal(t, session.MsgUpdated, resultText(r))

	notes := decodeNotes(t, callTool(t, srv, "list_notes", nil))
	require.Len(t, notes, 1)
	assert.Equal(t, "New", notes[0].Title)

	r = callTool(t, srv, "update_note", map[string]any{"id": "9", "title": "New", "content": "y"})
	assert.True(t, r.IsError)
	assert.Contains(t, resultText(r), "status 404")
}

func TestDeleteNote(t *testing.T) {
	srv, fake := testServer(t)
	fake.Seed("Gone", "x")

	r := callTool(t, srv, "delete_note", map[string]any{"id": "1"})
	assert.False(t, r.IsError, resultText(r))
	assert.False(t, fake.Has(1))

	r = callTool(t, srv, "delete_note", map[string]any{"id": ""})
	assert.True(t, r.IsError)
}
