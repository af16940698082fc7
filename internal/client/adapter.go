package client

import (
	"context"
	"strings"
	"time"

	"github.com/flyingcat/commentgateway/internal/model"
	"github.com/flyingcat/commentgateway/internal/repository"
)

// StoreAdapter exposes a document store directly through the client's Store
// contract, for the variant that talks to the database without a gateway in
// between. Caller-side validation beyond trimming does not apply here; the
// store's security rules are the only server-side guard in this shape.
type StoreAdapter struct {
	Comments repository.CommentStore
}

func NewStoreAdapter(comments repository.CommentStore) *StoreAdapter {
	return &StoreAdapter{Comments: comments}
}

func (adapter *StoreAdapter) Load(ctx context.Context, pagePath string) ([]model.Comment, error) {
	return adapter.Comments.ListByPage(ctx, pagePath)
}

func (adapter *StoreAdapter) Submit(ctx context.Context, payload model.CommentCreateRequest) (*model.Comment, error) {
	var parentId *string
	if payload.ParentId != nil && *payload.ParentId != "" {
		parentId = payload.ParentId
	}

	newComment := model.NewComment{
		PagePath:   payload.PagePath,
		AuthorName: strings.TrimSpace(payload.AuthorName),
		Content:    strings.TrimSpace(payload.Content),
		CreatedAt:  time.Now().UTC(),
		ParentId:   parentId,
	}

	return adapter.Comments.Create(ctx, newComment)
}
