package model

import (
	"time"
)

const (
	MaxAuthorNameLength = 50
	MaxContentLength    = 2000
)

// Comment is the flat public shape returned by the gateway. ParentId is
// null for top-level comments.
type Comment struct {
	Id         string    `json:"id"`
	PagePath   string    `json:"page_path"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	ParentId   *string   `json:"parent_id"`
}

// IsReply reports whether the comment targets another comment.
func (c *Comment) IsReply() bool {
	return c.ParentId != nil && *c.ParentId != ""
}

// CommentCreateRequest is the POST /api/comments body. Website is a honeypot
// field: humans never see it, so any value marks the request as spam.
type CommentCreateRequest struct {
	PagePath   string  `json:"page_path"`
	AuthorName string  `json:"author_name"`
	Content    string  `json:"content"`
	ParentId   *string `json:"parent_id"`
	Website    string  `json:"website"`
}

// NewComment is the validated write payload handed to a comment store.
// CreatedAt is always the gateway's clock, never client-supplied.
type NewComment struct {
	PagePath   string
	AuthorName string
	Content    string
	CreatedAt  time.Time
	ParentId   *string
}
