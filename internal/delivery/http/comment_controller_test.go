package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	delivery "github.com/flyingcat/commentgateway/internal/delivery/http"
	"github.com/flyingcat/commentgateway/internal/delivery/http/middleware"
	"github.com/flyingcat/commentgateway/internal/delivery/http/route"
	"github.com/flyingcat/commentgateway/internal/model"
	"github.com/flyingcat/commentgateway/internal/repository"
	"github.com/flyingcat/commentgateway/internal/usecase"
)

const (
	primaryOrigin   = "https://blog.example.com"
	secondaryOrigin = "https://staging.example.com"
)

type stubCommentStore struct {
	comments []model.Comment
	nextId   int
	listErr  error
}

func (s *stubCommentStore) ListByPage(ctx context.Context, pagePath string) ([]model.Comment, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}

	matched := make([]model.Comment, 0)
	for _, comment := range s.comments {
		if comment.PagePath == pagePath {
			matched = append(matched, comment)
		}
	}
	return matched, nil
}

func (s *stubCommentStore) Get(ctx context.Context, id string) (*model.Comment, error) {
	for i := range s.comments {
		if s.comments[i].Id == id {
			return &s.comments[i], nil
		}
	}
	return nil, repository.ErrCommentNotFound
}

func (s *stubCommentStore) Create(ctx context.Context, comment model.NewComment) (*model.Comment, error) {
	s.nextId++
	created := model.Comment{
		Id:         fmt.Sprintf("c%d", s.nextId),
		PagePath:   comment.PagePath,
		AuthorName: comment.AuthorName,
		Content:    comment.Content,
		CreatedAt:  comment.CreatedAt,
		ParentId:   comment.ParentId,
	}
	s.comments = append(s.comments, created)
	return &created, nil
}

func newTestApp(store repository.CommentStore) *fiber.App {
	log := zap.NewNop()
	config := koanf.New(".")
	_ = config.Set("ALLOWED_ORIGINS", primaryOrigin+", "+secondaryOrigin)
	_ = config.Set("ADMIN_TOKEN", "test-admin-token")

	app := fiber.New()
	app.Use(middleware.NewCORS(config))

	commentUsecase := usecase.NewCommentUsecase(store, log, config)
	commentController := delivery.NewCommentController(commentUsecase, log, config)

	visitRepository := repository.NewVisitRepository(log, nil)
	visitUsecase := usecase.NewVisitUsecase(visitRepository, log, config)
	visitController := delivery.NewVisitController(visitUsecase, log, config)

	routeConfig := route.RouteConfig{
		App:               app,
		CommentController: commentController,
		VisitController:   visitController,
	}
	routeConfig.SetupRoute()

	return app
}

func doJSON(t *testing.T, app *fiber.App, method string, target string, body string) (*http.Response, []byte) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err, "request should complete")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "response body should be readable")

	return resp, raw
}

func TestListCommentsEmptyPage(t *testing.T) {
	app := newTestApp(&stubCommentStore{})

	resp, raw := doJSON(t, app, http.MethodGet, "/api/comments?page_path=/blog/post-1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "[]", strings.TrimSpace(string(raw)), "empty page should yield an empty JSON array")
}

func TestListCommentsRequiresPagePath(t *testing.T) {
	app := newTestApp(&stubCommentStore{})

	resp, _ := doJSON(t, app, http.MethodGet, "/api/comments", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateThenListThenReply(t *testing.T) {
	app := newTestApp(&stubCommentStore{})

	resp, raw := doJSON(t, app, http.MethodPost, "/api/comments",
		`{"page_path":"/blog/post-1","author_name":"Ada","content":"Hello"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &created))
	require.Equal(t, "Ada", created["author_name"])
	require.Equal(t, "Hello", created["content"])
	require.Nil(t, created["parent_id"], "top-level comment should carry a null parent_id")
	require.NotEmpty(t, created["id"])
	require.NotEmpty(t, created["created_at"])

	resp, raw = doJSON(t, app, http.MethodGet, "/api/comments?page_path=/blog/post-1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &listed))
	require.Len(t, listed, 1)
	require.Equal(t, created["id"], listed[0]["id"])

	parentId := created["id"].(string)
	resp, raw = doJSON(t, app, http.MethodPost, "/api/comments",
		fmt.Sprintf(`{"page_path":"/blog/post-1","author_name":"Grace","content":"Hi Ada","parent_id":"%s"}`, parentId))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw = doJSON(t, app, http.MethodGet, "/api/comments?page_path=/blog/post-1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &listed))
	require.Len(t, listed, 2)
	require.Nil(t, listed[0]["parent_id"])
	require.Equal(t, parentId, listed[1]["parent_id"])

	first, err := time.Parse(time.RFC3339Nano, listed[0]["created_at"].(string))
	require.NoError(t, err)
	second, err := time.Parse(time.RFC3339Nano, listed[1]["created_at"].(string))
	require.NoError(t, err)
	require.False(t, second.Before(first), "comments should be in ascending created_at order")
}

func TestCreateRejectsDeepReply(t *testing.T) {
	app := newTestApp(&stubCommentStore{})

	_, raw := doJSON(t, app, http.MethodPost, "/api/comments",
		`{"page_path":"/p","author_name":"Ada","content":"top"}`)
	var top map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &top))

	_, raw = doJSON(t, app, http.MethodPost, "/api/comments",
		fmt.Sprintf(`{"page_path":"/p","author_name":"Grace","content":"reply","parent_id":"%s"}`, top["id"]))
	var reply map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &reply))

	resp, _ := doJSON(t, app, http.MethodPost, "/api/comments",
		fmt.Sprintf(`{"page_path":"/p","author_name":"Eve","content":"deep","parent_id":"%s"}`, reply["id"]))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, "a reply to a reply should be rejected")
}

func TestHoneypotRejectionIsIndistinguishable(t *testing.T) {
	store := &stubCommentStore{}
	app := newTestApp(store)

	resp, raw := doJSON(t, app, http.MethodPost, "/api/comments",
		`{"page_path":"/blog/post-1","author_name":"Bot","content":"buy stuff","website":"https://spam.example.com"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var spamBody map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &spamBody))
	spamErr := spamBody["error"].(map[string]interface{})

	resp, raw = doJSON(t, app, http.MethodPost, "/api/comments",
		`{"page_path":"/blog/post-1","author_name":"","content":"hi"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var normalBody map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &normalBody))
	normalErr := normalBody["error"].(map[string]interface{})

	require.Equal(t, normalErr["code"], spamErr["code"], "spam rejection should carry the same error code as a validation failure")

	resp, raw = doJSON(t, app, http.MethodGet, "/api/comments?page_path=/blog/post-1", "")
	require.Equal(t, "[]", strings.TrimSpace(string(raw)), "spam must not be written to the store")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, store.comments)
}

func TestOptionsPreflightShortCircuits(t *testing.T) {
	app := newTestApp(&stubCommentStore{})

	req := httptest.NewRequest(http.MethodOptions, "/api/comments", nil)
	req.Header.Set("Origin", secondaryOrigin)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, secondaryOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "GET, POST, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
	require.Equal(t, "Content-Type", resp.Header.Get("Access-Control-Allow-Headers"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Empty(t, raw, "preflight response should have no body")
}

func TestCorsFallsBackToFirstOrigin(t *testing.T) {
	app := newTestApp(&stubCommentStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/comments?page_path=/p", nil)
	req.Header.Set("Origin", "https://evil.example.com")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, primaryOrigin, resp.Header.Get("Access-Control-Allow-Origin"), "unknown origins should get the default origin")
}

func TestUpstreamFailureIsPropagated(t *testing.T) {
	store := &stubCommentStore{listErr: &model.UpstreamError{Status: http.StatusServiceUnavailable, Detail: "quota exceeded"}}
	app := newTestApp(store)

	resp, raw := doJSON(t, app, http.MethodGet, "/api/comments?page_path=/p", "")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, "the store's status code should pass through")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	detail := body["error"].(map[string]interface{})["detail"]
	require.Equal(t, "quota exceeded", detail)
}

func TestTrackDegradesWithoutLogStore(t *testing.T) {
	app := newTestApp(&stubCommentStore{})

	resp, raw := doJSON(t, app, http.MethodPost, "/api/track", `{"page":"/blog/post-1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, "the beacon never hard-fails")

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &result))
	require.Equal(t, false, result["ok"])
	require.NotEmpty(t, result["reason"])
}

func TestVisitsRequiresToken(t *testing.T) {
	app := newTestApp(&stubCommentStore{})

	resp, _ := doJSON(t, app, http.MethodGet, "/api/visits?token=wrong", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
