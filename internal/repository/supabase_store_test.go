package repository_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flyingcat/commentgateway/internal/model"
	"github.com/flyingcat/commentgateway/internal/repository"
)

func newSupabaseStore(server *httptest.Server) *repository.SupabaseStore {
	return &repository.SupabaseStore{
		Log:        zap.NewNop(),
		HttpClient: server.Client(),
		BaseURL:    server.URL,
		ServiceKey: "service-key",
	}
}

func TestSupabaseListByPageRequestShape(t *testing.T) {
	var gotRequest *http.Request

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequest = r.Clone(context.Background())

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": "a1", "page_path": "/blog/post-1", "author_name": "Ada", "content": "Hello",
			 "created_at": "2026-01-02T03:04:05Z", "parent_id": null},
			{"id": "b2", "page_path": "/blog/post-1", "author_name": "Grace", "content": "Hi",
			 "created_at": "2026-01-02T03:05:00Z", "parent_id": "a1"}
		]`))
	}))
	defer server.Close()

	store := newSupabaseStore(server)
	comments, err := store.ListByPage(context.Background(), "/blog/post-1")
	require.NoError(t, err)

	require.Equal(t, "/rest/v1/comments", gotRequest.URL.Path)
	require.Equal(t, "eq./blog/post-1", gotRequest.URL.Query().Get("page_path"))
	require.Equal(t, "created_at.asc", gotRequest.URL.Query().Get("order"))
	require.Equal(t, "service-key", gotRequest.Header.Get("apikey"))
	require.Equal(t, "Bearer service-key", gotRequest.Header.Get("Authorization"))

	require.Len(t, comments, 2)
	require.Nil(t, comments[0].ParentId)
	require.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), comments[0].CreatedAt)
	require.NotNil(t, comments[1].ParentId)
	require.Equal(t, "a1", *comments[1].ParentId)
}

func TestSupabaseCreateReturnsRepresentation(t *testing.T) {
	var gotPrefer string
	var gotPayload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPrefer = r.Header.Get("Prefer")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotPayload))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"id": "n3", "page_path": "/p", "author_name": "Ada", "content": "Hello",
			"created_at": "2026-01-02T03:04:05Z", "parent_id": null}]`))
	}))
	defer server.Close()

	store := newSupabaseStore(server)
	created, err := store.Create(context.Background(), model.NewComment{
		PagePath:   "/p",
		AuthorName: "Ada",
		Content:    "Hello",
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Equal(t, "return=representation", gotPrefer)
	_, hasParent := gotPayload["parent_id"]
	require.False(t, hasParent, "absent parent_id should not be inserted")
	require.Equal(t, "n3", created.Id)
}

func TestSupabaseGetNotFoundOnEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	store := newSupabaseStore(server)
	_, err := store.Get(context.Background(), "missing")
	require.ErrorIs(t, err, repository.ErrCommentNotFound)
}

func TestSupabaseUpstreamStatusPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message": "db down"}`))
	}))
	defer server.Close()

	store := newSupabaseStore(server)
	_, err := store.ListByPage(context.Background(), "/p")

	var upstreamErr *model.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	require.Equal(t, http.StatusBadGateway, upstreamErr.Status)
	require.Contains(t, upstreamErr.Detail, "db down")
}
