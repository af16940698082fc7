package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/flyingcat/commentgateway/internal/model"
)

// Store is the capability the client needs from a comment backend. The
// client never sees a specific store's wire format, only this contract.
type Store interface {
	Load(ctx context.Context, pagePath string) ([]model.Comment, error)
	Submit(ctx context.Context, payload model.CommentCreateRequest) (*model.Comment, error)
}

// GatewayStore reaches the comments through the serverless gateway. This is
// the deployment shape for regions that cannot reach the document store's
// REST endpoint directly.
type GatewayStore struct {
	BaseURL    string
	HttpClient *http.Client
}

func NewGatewayStore(baseURL string) *GatewayStore {
	return &GatewayStore{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HttpClient: &http.Client{},
	}
}

func (store *GatewayStore) Load(ctx context.Context, pagePath string) ([]model.Comment, error) {
	endpoint := fmt.Sprintf("%s/api/comments?page_path=%s", store.BaseURL, url.QueryEscape(pagePath))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := store.HttpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("comment list request failed with status %d", resp.StatusCode)
	}

	var comments []model.Comment
	err = sonic.Unmarshal(body, &comments)
	if err != nil {
		return nil, err
	}

	return comments, nil
}

func (store *GatewayStore) Submit(ctx context.Context, payload model.CommentCreateRequest) (*model.Comment, error) {
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/api/comments", store.BaseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(raw)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := store.HttpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("comment submit failed with status %d", resp.StatusCode)
	}

	var created model.Comment
	err = sonic.Unmarshal(body, &created)
	if err != nil {
		return nil, err
	}

	return &created, nil
}
