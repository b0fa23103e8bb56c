package remote_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/notas/internal/model"
	"github.com/idilsaglam/notas/internal/store/remote"
	"github.com/idilsaglam/notas/internal/testutil"
)

func TestClient_CRUD(t *testing.T) {
	fake := testutil.NewFakeNotas(t)
	c := remote.New(fake.URL() + "/")
	ctx := context.Background()

	notes, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)

	require.NoError(t, c.Create(ctx, "Shopping", "milk"))
	require.NoError(t, c.Create(ctx, "Work", "report"))

	notes, err = c.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "Shopping", notes[0].Title)
	assert.Equal(t, "Work", notes[1].Title)
	assert.Equal(t, "2024-01-01", notes[0].Created())

	require.NoError(t, c.Update(ctx, notes[0].ID, "Groceries", "milk, eggs"))
	require.NoError(t, c.Delete(ctx, notes[1].ID))

	notes, err = c.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Groceries", notes[0].Title)
	assert.Equal(t, "milk, eggs", notes[0].Content)

	calls := fake.Calls()
	assert.Equal(t, `{"titulo":"Shopping","contenido":"milk"}`, calls[1].Body)
	assert.Equal(t, `{"id":1,"titulo":"Groceries","contenido":"milk, eggs"}`, calls[4].Body)
	assert.Equal(t, "/notas/2", calls[5].Path)
}

func TestClient_Search(t *testing.T) {
	fake := testutil.NewFakeNotas(t)
	fake.Seed("Trip to Rome", "pack")
	fake.Seed("Groceries", "milk")
	c := remote.New(fake.URL())
	ctx := context.Background()

	t.Run("Match", func(t *testing.T) {
		notes, err := c.Search(ctx, "trip to")
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "Trip to Rome", notes[0].Title)

		last := fake.Calls()[len(fake.Calls())-1]
		assert.Equal(t, "/notas/trip%20to", last.Path)
	})

	t.Run("NoMatchIsNotFound", func(t *testing.T) {
		_, err := c.Search(ctx, "zzz")
		require.Error(t, err)
		assert.True(t, errors.Is(err, remote.ErrNotFound))
	})
}

func TestClient_StatusError(t *testing.T) {
	fake := testutil.NewFakeNotas(t)
	c := remote.New(fake.URL())

	fake.FailNext("create", http.StatusBadRequest, "titulo demasiado largo")
	err := c.Create(context.Background(), "t", "c")
	require.Error(t, err)

	se, ok := remote.AsStatus(err)
	require.True(t, ok)
	assert.Equal(t, "create", se.Op)
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, "titulo demasiado largo", se.Body)
	assert.False(t, errors.Is(err, remote.ErrNotFound))
	assert.Contains(t, err.Error(), "status=400")
}

func TestClient_DeleteMissing(t *testing.T) {
	fake := testutil.NewFakeNotas(t)
	c := remote.New(fake.URL())

	err := c.Delete(context.Background(), model.NoteID("99"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, remote.ErrNotFound))
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := remote.New(url + "/notas").List(context.Background())
	require.Error(t, err)
	_, isStatus := remote.AsStatus(err)
	assert.False(t, isStatus)
	assert.Contains(t, err.Error(), "list:")
}

func TestClient_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"`))
	}))
	defer srv.Close()

	_, err := remote.New(srv.URL).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_NonArrayListingIsEmpty(t *testing.T) {
	for name, body := range map[string]string{
		"Object": `{"Id": 1, "titulo": "A"}`,
		"Empty":  `{}`,
		"Null":   `null`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			notes, err := remote.New(srv.URL).List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, notes)
		})
	}
}

func TestClient_SendsRequestID(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-Id")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := remote.New(srv.URL).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 36)
}
