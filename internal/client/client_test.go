package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benvon/simple-todo/internal/client"
	"github.com/benvon/simple-todo/internal/handlers"
	"github.com/benvon/simple-todo/internal/services/todo"
	"github.com/benvon/simple-todo/internal/testutil"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) *client.Client {
	t.Helper()
	svc := todo.NewService(testutil.NewTestTodoRepository(t), nil, zap.NewNop())
	r := mux.NewRouter()
	handlers.NewTodoHandler(svc, zap.NewNop()).RegisterRoutes(r.PathPrefix("/api/todos").Subrouter())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return client.New(srv.URL + "/")
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func TestClient_Lifecycle(t *testing.T) {
	t.Parallel()
	c := newTestClient(t)
	ctx := context.Background()

	todos, err := c.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)

	created, err := c.Create(ctx, "Buy milk")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", created.Title)
	assert.False(t, created.Done)
	assert.False(t, created.CreatedAt.IsZero())

	updated, err := c.Update(ctx, client.UpdateRequest{ID: created.ID, Done: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Done)
	assert.Equal(t, "Buy milk", updated.Title)

	renamed, err := c.Update(ctx, client.UpdateRequest{ID: created.ID, Title: strPtr("Buy oat milk")})
	require.NoError(t, err)
	assert.True(t, renamed.Done, "done must survive a title-only update")
	assert.Equal(t, "Buy oat milk", renamed.Title)

	todos, err = c.List(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, created.ID, todos[0].ID)

	require.NoError(t, c.Delete(ctx, created.ID))
	todos, err = c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestClient_DeleteAll(t *testing.T) {
	t.Parallel()
	c := newTestClient(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		_, err := c.Create(ctx, title)
		require.NoError(t, err)
	}

	n, err := c.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	todos, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestClient_Errors(t *testing.T) {
	t.Parallel()
	c := newTestClient(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		call       func() error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "blank title",
			call:       func() error { _, err := c.Create(ctx, "   "); return err },
			wantStatus: http.StatusBadRequest,
			wantMsg:    todo.MsgTitleRequired,
		},
		{
			name:       "update without id",
			call:       func() error { _, err := c.Update(ctx, client.UpdateRequest{Done: boolPtr(true)}); return err },
			wantStatus: http.StatusBadRequest,
			wantMsg:    todo.MsgIDRequired,
		},
		{
			name:       "update unknown id",
			call:       func() error { _, err := c.Update(ctx, client.UpdateRequest{ID: "missing", Done: boolPtr(true)}); return err },
			wantStatus: http.StatusInternalServerError,
			wantMsg:    handlers.MsgUpdateFailed,
		},
		{
			name:       "delete unknown id",
			call:       func() error { return c.Delete(ctx, "missing") },
			wantStatus: http.StatusInternalServerError,
			wantMsg:    handlers.MsgDeleteFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.call()
			require.Error(t, err)
			assert.Equal(t, tt.wantStatus, client.StatusCode(err))
			var apiErr *client.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := client.New(srv.URL).List(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, client.StatusCode(err))
	assert.Contains(t, err.Error(), "502")
}

func TestClient_TransportError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := client.New(url, client.WithTimeout(time.Second)).List(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, client.StatusCode(err))
}

func TestNew_DefaultsBaseURL(t *testing.T) {
	t.Parallel()
	assert.Equal(t, client.DefaultBaseURL, client.New("  ").BaseURL())
	assert.Equal(t, "http://example.test", client.New("http://example.test//").BaseURL())
}
