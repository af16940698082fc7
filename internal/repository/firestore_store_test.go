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

func newFirestoreStore(server *httptest.Server) *repository.FirestoreStore {
	return &repository.FirestoreStore{
		Log:        zap.NewNop(),
		HttpClient: server.Client(),
		BaseURL:    server.URL,
		ProjectId:  "demo-project",
		ApiKey:     "demo-key",
	}
}

func TestFirestoreListByPageQueryShape(t *testing.T) {
	var gotPath string
	var gotQuery map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotQuery))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"readTime": "2026-01-02T03:04:05Z"},
			{"document": {"name": "projects/demo-project/databases/(default)/documents/comments/abc123",
				"fields": {
					"page_path": {"stringValue": "/blog/post-1"},
					"author_name": {"stringValue": "Ada"},
					"content": {"stringValue": "Hello"},
					"created_at": {"timestampValue": "2026-01-02T03:04:05Z"}
				}}},
			{"document": {"name": "projects/demo-project/databases/(default)/documents/comments/def456",
				"fields": {
					"page_path": {"stringValue": "/blog/post-1"},
					"author_name": {"stringValue": "Grace"},
					"content": {"stringValue": "Hi Ada"},
					"created_at": {"timestampValue": "2026-01-02T03:05:00Z"},
					"parent_id": {"stringValue": "abc123"}
				}}}
		]`))
	}))
	defer server.Close()

	store := newFirestoreStore(server)
	comments, err := store.ListByPage(context.Background(), "/blog/post-1")
	require.NoError(t, err)

	require.Equal(t, "/projects/demo-project/databases/(default)/documents:runQuery", gotPath)

	structured := gotQuery["structuredQuery"].(map[string]interface{})
	where := structured["where"].(map[string]interface{})["fieldFilter"].(map[string]interface{})
	require.Equal(t, "EQUAL", where["op"])
	require.Equal(t, "/blog/post-1", where["value"].(map[string]interface{})["stringValue"])
	orderBy := structured["orderBy"].([]interface{})[0].(map[string]interface{})
	require.Equal(t, "ASCENDING", orderBy["direction"])

	require.Len(t, comments, 2, "metadata-only rows should be skipped")
	require.Equal(t, "abc123", comments[0].Id)
	require.Nil(t, comments[0].ParentId)
	require.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), comments[0].CreatedAt)
	require.NotNil(t, comments[1].ParentId)
	require.Equal(t, "abc123", *comments[1].ParentId)
}

func TestFirestoreCreateWritesTypedFields(t *testing.T) {
	var gotFields map[string]map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Fields map[string]map[string]string `json:"fields"`
		}
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
		gotFields = payload.Fields

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name": "projects/demo-project/databases/(default)/documents/comments/new789",
			"fields": {
				"page_path": {"stringValue": "/blog/post-1"},
				"author_name": {"stringValue": "Ada"},
				"content": {"stringValue": "Hello"},
				"created_at": {"timestampValue": "2026-01-02T03:04:05Z"}
			}}`))
	}))
	defer server.Close()

	store := newFirestoreStore(server)
	created, err := store.Create(context.Background(), model.NewComment{
		PagePath:   "/blog/post-1",
		AuthorName: "Ada",
		Content:    "Hello",
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Equal(t, "/blog/post-1", gotFields["page_path"]["stringValue"])
	require.NotEmpty(t, gotFields["created_at"]["timestampValue"], "created_at should be a typed timestamp")
	_, hasParent := gotFields["parent_id"]
	require.False(t, hasParent, "absent parent_id should not be written")

	require.Equal(t, "new789", created.Id, "id should come from the document name")
	require.Nil(t, created.ParentId)
}

func TestFirestoreUpstreamStatusPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
	}))
	defer server.Close()

	store := newFirestoreStore(server)
	_, err := store.ListByPage(context.Background(), "/p")

	var upstreamErr *model.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	require.Equal(t, http.StatusTooManyRequests, upstreamErr.Status)
	require.Contains(t, upstreamErr.Detail, "quota exceeded")
}

func TestFirestoreGetNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": {"message": "missing"}}`))
	}))
	defer server.Close()

	store := newFirestoreStore(server)
	_, err := store.Get(context.Background(), "nope")
	require.ErrorIs(t, err, repository.ErrCommentNotFound)
}
