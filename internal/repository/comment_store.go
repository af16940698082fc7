package repository

import (
	"context"
	"errors"

	"github.com/flyingcat/commentgateway/internal/model"
)

// ErrCommentNotFound is returned by Get when no comment has the given id.
var ErrCommentNotFound = errors.New("comment not found")

// CommentStore is the single boundary between the gateway and whichever
// document database holds the comments. Implementations translate between
// the store's native wire format and the flat Comment shape, and must return
// fully resolved timestamps, never a store-specific pending sentinel.
type CommentStore interface {
	// ListByPage returns all comments whose page_path equals pagePath,
	// ascending by created_at where the store supports server-side ordering.
	ListByPage(ctx context.Context, pagePath string) ([]model.Comment, error)

	// Get fetches a single comment by its store-assigned id.
	Get(ctx context.Context, id string) (*model.Comment, error)

	// Create inserts the comment and returns it with the store-assigned id.
	Create(ctx context.Context, comment model.NewComment) (*model.Comment, error)
}
