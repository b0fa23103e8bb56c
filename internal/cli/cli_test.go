package cli

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/notas/internal/session"
	"github.com/idilsaglam/notas/internal/testutil"
	"github.com/idilsaglam/notas/internal/ui"
)

type result struct {
	code   int
	stdout string
	stderr string
}

// execute runs the command line with stdout and stderr captured.
func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	oldOut, oldErr := ui.Stdout, ui.Stderr
	ui.Stdout, ui.Stderr = &out, &errOut
	defer func() { ui.Stdout, ui.Stderr = oldOut, oldErr }()

	app := &App{Version: "test", Stdin: strings.NewReader(stdin)}
	code := app.Execute(context.Background(), append([]string{"notas"}, args...))
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func against(fake *testutil.FakeNotas, args ...string) []string {
	return append([]string{"--config", "", "--base-url", fake.URL(), "--no-color"}, args...)
}

func TestLs(t *testing.T) {
	t.Run("Prints", func(t *testing.T) {
		fake := testutil.NewFakeNotas(t)
		fake.Seed("Groceries", "milk")
		fake.Seed("Ideas", "none")

		r := execute(t, "", against(fake, "ls")...)

		assert.Equal(t, ExitOK, r.code, r.stderr)
		assert.Contains(t, r.stdout, "Groceries")
		assert.Contains(t, r.stdout, "Ideas")
		assert.Contains(t, r.stdout, "Total 2")
		assert.Contains(t, r.stdout, "2024-01-01")
	})

	t.Run("Empty", func(t *testing.T) {
		fake := testutil.NewFakeNotas(t)

		r := execute(t, "", against(fake, "ls")...)

		assert.Equal(t, ExitOK, r.code)
		assert.Contains(t, r.stdout, session.MsgEmpty)
	})

	t.Run("ServiceDown", func(t *testing.T) {
		fake := testutil.NewFakeNotas(t)
		fake.FailNext("list", http.StatusInternalServerError, "boom")

		r := execute(t, "", against(fake, "ls")...)

		assert.Equal(t, ExitError, r.code)
		assert.Contains(t, r.stdout, session.MsgLoadFailed)
	})
}

func TestSearch(t *testing.T) {
	fake := testutil.NewFakeNotas(t)
	fake.Seed("Recipes", "a")
	fake.Seed("Travel plans", "b")

	t.Run("Matches", func(t *testing.T) {
		r := execute(t, "", against(fake, "search", "travel", "plans")...)

		assert.Equal(t, ExitOK, r.code, r.stderr)
		assert.Contains(t, r.stdout, `"travel plans"`)
		assert.Contains(t, r.stdout, "Travel plans")
		assert.NotContains(t, r.stdout, "Recipes")
		assert.Contains(t, fake.Calls()[len(fake.Calls())-1].Path, "travel%20plans")
	})

	t.Run("NoMatches", func(t *testing.T) {
		r := execute(t, "", against(fake, "search", "zzz")...)

		assert.Equal(t, ExitOK, r.code)
		assert.Contains(t, r.stdout, session.MsgNoMatches)
	})

	t.Run("MissingTerm", func(t *testing.T) {
		r := execute(t, "", against(fake, "search")...)
		assert.Equal(t, ExitUsage, r.code)
		assert.Contains(t, r.stderr, "usage: notas search")
	})
}

func TestShow(t *testing.T) {
	fake := testutil.NewFakeNotas(t)
	fake.Seed("Poem", "roses\nviolets")

	r := execute(t, "", against(fake, "show", "1")...)
	assert.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Poem")
	assert.Contains(t, r.stdout, "violets")
	assert.Contains(t, r.stdout, "ID: 1")

	r = execute(t, "", against(fake, "show", "9")...)
	assert.Equal(t, ExitError, r.code)
	assert.Contains(t, r.stderr, "note 9 not found")

	r = execute(t, "", against(fake, "show")...)
	assert.Equal(t, ExitUsage, r.code)
}

func TestAdd(t *testing.T) {
	t.Run("Creates", func(t *testing.T) {
		fake := testutil.NewFakeNotas(t)

		r := execute(t, "", against(fake, "add", "--title", "Todo", "--content", "bread")...)

		assert.Equal(t, ExitOK, r.code, r.stderr)
		assert.Contains(t, r.stdout, session.MsgCreated)
		assert.True(t, fake.Has(1))
	})

	t.Run("MissingContent", func(t *testing.T) {
		fake := testutil.NewFakeNotas(t)

		r := execute(t, "", against(fake, "add", "--title", "Todo")...)

		assert.Equal(t, ExitUsage, r.code)
		assert.Contains(t, r.stderr, session.MsgRequired)
		assert.Zero(t, fake.CallsTo(http.MethodPost))
	})

	t.Run("Rejected", func(t *testing.T) {
		fake := testutil.NewFakeNotas(t)
		fake.FailNext("create", http.StatusBadRequest, "titulo too long")

		r := execute(t, "", against(fake, "add", "-t", "x", "-m", "y")...)

		assert.Equal(t, ExitError, r.code)
		assert.Contains(t, r.stderr, "Error creating note (400): titulo too long")
	})
}

func TestEdit(t *testing.T) {
	fake := testutil.NewFakeNotas(t)
	fake.Seed("Draft", "keep me")

	r := execute(t, "", against(fake, "edit", "--title", "Final", "1")...)
	assert.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, session.MsgUpdated)

	var put string
	for _, c := range fake.Calls() {
		if c.Method == http.MethodPut {
			put = c.Body
		}
	}
	assert.JSONEq(t, `{"id":1,"titulo":"Final","contenido":"keep me"}`, put)

	r = execute(t, "", against(fake, "edit", "1")...)
	assert.Equal(t, ExitUsage, r.code)
}

func TestRm(t *testing.T) {
	t.Run("Confirmed", func(t *testing.T) {
		fake := testutil.NewFakeNotas(t)
		fake.Seed("Old", "x")

		r := execute(t, "y\n", against(fake, "rm", "1")...)

		assert.Equal(t, ExitOK, r.code, r.stderr)
		assert.Contains(t, r.stdout, session.MsgConfirmDelete+" [y/N]")
		assert.Contains(t, r.stdout, session.MsgDeleted)
		assert.False(t, fake.Has(1))
	})

	t.Run("Declined", func(t *testing.T) {
		fake := testutil.NewFakeNotas(t)
		fake.Seed("Old", "x")

		r := execute(t, "\n", against(fake, "rm", "1")...)

		assert.Equal(t, ExitOK, r.code)
		assert.True(t, fake.Has(1))
		assert.Zero(t, fake.CallsTo(http.MethodDelete))
	})

	t.Run("Yes", func(t *testing.T) {
		fake := testutil.NewFakeNotas(t)
		fake.Seed("Old", "x")

		r := execute(t, "", against(fake, "rm", "--yes", "1")...)

		assert.Equal(t, ExitOK, r.code, r.stderr)
		assert.NotContains(t, r.stdout, "[y/N]")
		assert.False(t, fake.Has(1))
	})

	t.Run("Missing", func(t *testing.T) {
		fake := testutil.NewFakeNotas(t)

		r := execute(t, "", against(fake, "rm", "--yes", "4")...)

		assert.Equal(t, ExitError, r.code)
		assert.Contains(t, r.stderr, "note 4 not found")
	})
}

func TestGlobalOptions(t *testing.T) {
	t.Run("ConfigFile", func(t *testing.T) {
		fake := testutil.NewFakeNotas(t)
		fake.Seed("From file", "x")

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: "+fake.URL()+"\n"), 0o644))

		r := execute(t, "", "--config", path, "--no-color", "ls")

		assert.Equal(t, ExitOK, r.code, r.stderr)
		assert.Contains(t, r.stdout, "From file")
	})

	t.Run("NoColorEnv", func(t *testing.T) {
		fake := testutil.NewFakeNotas(t)
		fake.Seed("Plain", "x")
		t.Setenv("NO_COLOR", "yes")

		r := execute(t, "", "--config", "", "--base-url", fake.URL(), "ls")

		assert.Equal(t, ExitOK, r.code, r.stderr)
		assert.Contains(t, r.stdout, "Plain")
		assert.NotContains(t, r.stdout, "\x1b[")
	})

	t.Run("InvalidBaseURL", func(t *testing.T) {
		r := execute(t, "", "--config", "", "--base-url", "ftp://example.com", "ls")

		assert.Equal(t, ExitUsage, r.code)
		assert.Contains(t, r.stderr, "must use http or https")
	})

	t.Run("UnknownCommand", func(t *testing.T) {
		r := execute(t, "", "--config", "", "nope")

		assert.Equal(t, ExitUsage, r.code)
		assert.Contains(t, r.stderr, `unknown command "nope"`)
	})
}
