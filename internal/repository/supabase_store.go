package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/flyingcat/commentgateway/internal/model"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// SupabaseStore is the PostgREST-flavored deployment shape: the same public
// contract over Supabase's /rest/v1 endpoint.
type SupabaseStore struct {
	Log        *zap.Logger
	HttpClient *http.Client
	BaseURL    string
	ServiceKey string
}

func NewSupabaseStore(config *koanf.Koanf, log *zap.Logger) *SupabaseStore {
	return &SupabaseStore{
		Log:        log,
		HttpClient: &http.Client{},
		BaseURL:    strings.TrimRight(config.String("SUPABASE_URL"), "/"),
		ServiceKey: config.String("SUPABASE_SERVICE_KEY"),
	}
}

type supabaseComment struct {
	Id         string  `json:"id"`
	PagePath   string  `json:"page_path"`
	AuthorName string  `json:"author_name"`
	Content    string  `json:"content"`
	CreatedAt  string  `json:"created_at"`
	ParentId   *string `json:"parent_id"`
}

func (repository *SupabaseStore) ListByPage(ctx context.Context, pagePath string) ([]model.Comment, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/comments?select=id,page_path,author_name,content,created_at,parent_id&page_path=eq.%s&order=created_at.asc", repository.BaseURL, url.QueryEscape(pagePath))

	body, err := repository.doRequest(ctx, http.MethodGet, endpoint, nil, false)
	if err != nil {
		return nil, err
	}

	var rows []supabaseComment
	err = sonic.Unmarshal(body, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to decode supabase response: %w", err)
	}

	comments := make([]model.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, rowToComment(row))
	}

	return comments, nil
}

func (repository *SupabaseStore) Get(ctx context.Context, id string) (*model.Comment, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/comments?select=id,page_path,author_name,content,created_at,parent_id&id=eq.%s", repository.BaseURL, url.QueryEscape(id))

	body, err := repository.doRequest(ctx, http.MethodGet, endpoint, nil, false)
	if err != nil {
		return nil, err
	}

	var rows []supabaseComment
	err = sonic.Unmarshal(body, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to decode supabase response: %w", err)
	}

	if len(rows) == 0 {
		return nil, ErrCommentNotFound
	}

	comment := rowToComment(rows[0])
	return &comment, nil
}

func (repository *SupabaseStore) Create(ctx context.Context, comment model.NewComment) (*model.Comment, error) {
	payload := map[string]interface{}{
		"page_path":   comment.PagePath,
		"author_name": comment.AuthorName,
		"content":     comment.Content,
		"created_at":  comment.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if comment.ParentId != nil {
		payload["parent_id"] = *comment.ParentId
	}

	endpoint := fmt.Sprintf("%s/rest/v1/comments", repository.BaseURL)

	body, err := repository.doRequest(ctx, http.MethodPost, endpoint, payload, true)
	if err != nil {
		return nil, err
	}

	// return=representation yields an array with the inserted row
	var rows []supabaseComment
	err = sonic.Unmarshal(body, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to decode supabase insert response: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("supabase insert returned no representation")
	}

	created := rowToComment(rows[0])
	return &created, nil
}

func (repository *SupabaseStore) doRequest(ctx context.Context, method string, endpoint string, payload interface{}, returning bool) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := sonic.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", repository.ServiceKey)
	req.Header.Set("Authorization", "Bearer "+repository.ServiceKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if returning {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := repository.HttpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.UpstreamError{Status: resp.StatusCode, Detail: string(body)}
	}

	return body, nil
}

func rowToComment(row supabaseComment) model.Comment {
	comment := model.Comment{
		Id:         row.Id,
		PagePath:   row.PagePath,
		AuthorName: row.AuthorName,
		Content:    row.Content,
	}

	ts, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
	if err == nil {
		comment.CreatedAt = ts.UTC()
	}
	if row.ParentId != nil && *row.ParentId != "" {
		comment.ParentId = row.ParentId
	}

	return comment
}
