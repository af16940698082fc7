package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/flyingcat/commentgateway/internal/model"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const firestoreBaseURL = "https://firestore.googleapis.com/v1"

// FirestoreStore talks to the Firestore REST API server-to-server, so the
// browser never has to reach googleapis.com directly.
type FirestoreStore struct {
	Log        *zap.Logger
	HttpClient *http.Client
	BaseURL    string
	ProjectId  string
	ApiKey     string
}

func NewFirestoreStore(config *koanf.Koanf, log *zap.Logger) *FirestoreStore {
	return &FirestoreStore{
		Log:        log,
		HttpClient: &http.Client{},
		BaseURL:    firestoreBaseURL,
		ProjectId:  config.String("FIRESTORE_PROJECT_ID"),
		ApiKey:     config.String("FIRESTORE_API_KEY"),
	}
}

type firestoreValue struct {
	StringValue    *string `json:"stringValue,omitempty"`
	TimestampValue *string `json:"timestampValue,omitempty"`
}

type firestoreDocument struct {
	Name   string                    `json:"name"`
	Fields map[string]firestoreValue `json:"fields"`
}

type firestoreQueryRow struct {
	Document *firestoreDocument `json:"document"`
}

func (repository *FirestoreStore) ListByPage(ctx context.Context, pagePath string) ([]model.Comment, error) {
	query := map[string]interface{}{
		"structuredQuery": map[string]interface{}{
			"from": []map[string]interface{}{{"collectionId": "comments"}},
			"where": map[string]interface{}{
				"fieldFilter": map[string]interface{}{
					"field": map[string]interface{}{"fieldPath": "page_path"},
					"op":    "EQUAL",
					"value": map[string]interface{}{"stringValue": pagePath},
				},
			},
			"orderBy": []map[string]interface{}{
				{"field": map[string]interface{}{"fieldPath": "created_at"}, "direction": "ASCENDING"},
			},
		},
	}

	url := fmt.Sprintf("%s/projects/%s/databases/(default)/documents:runQuery?key=%s", repository.BaseURL, repository.ProjectId, repository.ApiKey)

	body, err := repository.doRequest(ctx, http.MethodPost, url, query)
	if err != nil {
		return nil, err
	}

	var rows []firestoreQueryRow
	err = sonic.Unmarshal(body, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to decode firestore query response: %w", err)
	}

	comments := make([]model.Comment, 0, len(rows))
	for _, row := range rows {
		// runQuery pads the result with rows carrying only read metadata
		if row.Document == nil {
			continue
		}
		comments = append(comments, docToComment(row.Document))
	}

	return comments, nil
}

func (repository *FirestoreStore) Get(ctx context.Context, id string) (*model.Comment, error) {
	url := fmt.Sprintf("%s/projects/%s/databases/(default)/documents/comments/%s?key=%s", repository.BaseURL, repository.ProjectId, id, repository.ApiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
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

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrCommentNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.UpstreamError{Status: resp.StatusCode, Detail: string(body)}
	}

	var doc firestoreDocument
	err = sonic.Unmarshal(body, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode firestore document: %w", err)
	}

	comment := docToComment(&doc)
	return &comment, nil
}

func (repository *FirestoreStore) Create(ctx context.Context, comment model.NewComment) (*model.Comment, error) {
	createdAt := comment.CreatedAt.UTC().Format(time.RFC3339Nano)
	fields := map[string]firestoreValue{
		"page_path":   {StringValue: &comment.PagePath},
		"author_name": {StringValue: &comment.AuthorName},
		"content":     {StringValue: &comment.Content},
		"created_at":  {TimestampValue: &createdAt},
	}
	if comment.ParentId != nil {
		fields["parent_id"] = firestoreValue{StringValue: comment.ParentId}
	}

	url := fmt.Sprintf("%s/projects/%s/databases/(default)/documents/comments?key=%s", repository.BaseURL, repository.ProjectId, repository.ApiKey)

	body, err := repository.doRequest(ctx, http.MethodPost, url, map[string]interface{}{"fields": fields})
	if err != nil {
		return nil, err
	}

	var doc firestoreDocument
	err = sonic.Unmarshal(body, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode firestore document: %w", err)
	}

	created := docToComment(&doc)
	return &created, nil
}

func (repository *FirestoreStore) doRequest(ctx context.Context, method string, url string, payload interface{}) ([]byte, error) {
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

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

// docToComment flattens a Firestore document into the public Comment shape.
// It is total over any well-formed document: missing fields become zero
// values and a missing parent_id stays null.
func docToComment(doc *firestoreDocument) model.Comment {
	comment := model.Comment{}

	parts := strings.Split(doc.Name, "/")
	comment.Id = parts[len(parts)-1]

	if v, ok := doc.Fields["page_path"]; ok && v.StringValue != nil {
		comment.PagePath = *v.StringValue
	}
	if v, ok := doc.Fields["author_name"]; ok && v.StringValue != nil {
		comment.AuthorName = *v.StringValue
	}
	if v, ok := doc.Fields["content"]; ok && v.StringValue != nil {
		comment.Content = *v.StringValue
	}
	if v, ok := doc.Fields["created_at"]; ok && v.TimestampValue != nil {
		ts, err := time.Parse(time.RFC3339Nano, *v.TimestampValue)
		if err == nil {
			comment.CreatedAt = ts.UTC()
		}
	}
	if v, ok := doc.Fields["parent_id"]; ok && v.StringValue != nil && *v.StringValue != "" {
		comment.ParentId = v.StringValue
	}

	return comment
}
