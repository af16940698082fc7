// Package client is the comment client: it owns the comment thread for one
// page, handles submissions and two-level reply threading, and keeps the
// last-used author name between visits. One Client instance owns its store
// handle and its open-reply slot, so independent threads can coexist in a
// single process.
package client

import (
	"context"
	"sort"
	"strings"

	"github.com/flyingcat/commentgateway/internal/model"
	"go.uber.org/zap"
)

type Client struct {
	store     Store
	prefs     Prefs
	log       *zap.Logger
	pagePath  string
	locale    string
	openReply string
}

type Options struct {
	Prefs  Prefs
	Locale string
	Log    *zap.Logger
}

// SubmitRequest is what the comment form produces. Website is the hidden
// honeypot field and must stay empty for the submission to go through.
type SubmitRequest struct {
	AuthorName string
	Content    string
	ParentId   string
	Website    string
}

func New(store Store, pagePath string, opts Options) *Client {
	prefs := opts.Prefs
	if prefs == nil {
		prefs = &memoryPrefs{}
	}

	locale := opts.Locale
	if locale == "" {
		locale = defaultLocale
	}

	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		store:    store,
		prefs:    prefs,
		log:      log,
		pagePath: pagePath,
		locale:   locale,
	}
}

func (c *Client) PagePath() string {
	return c.pagePath
}

// AuthorName returns the name remembered from the last successful
// submission, for pre-filling the form.
func (c *Client) AuthorName() string {
	return c.prefs.AuthorName()
}

// Load fetches the page's comments. It fails soft: any transport or decode
// problem logs a warning and yields an empty list, never an error.
func (c *Client) Load(ctx context.Context) []model.Comment {
	comments, err := c.store.Load(ctx, c.pagePath)
	if err != nil {
		c.log.Warn("failed to load comments", zap.String("page_path", c.pagePath), zap.Error(err))
		return []model.Comment{}
	}

	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})

	return comments
}

// Submit posts a comment and, on success, remembers the author name and
// reloads the thread. The returned list is nil when nothing was posted, so
// the caller keeps whatever it is currently showing and the user's typed
// content is never lost on failure.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) ([]model.Comment, bool) {
	authorName := strings.TrimSpace(req.AuthorName)
	content := strings.TrimSpace(req.Content)

	// empty fields and filled honeypots are silently dropped
	if authorName == "" || content == "" || req.Website != "" {
		return nil, false
	}

	payload := model.CommentCreateRequest{
		PagePath:   c.pagePath,
		AuthorName: authorName,
		Content:    content,
		Website:    req.Website,
	}
	if req.ParentId != "" {
		payload.ParentId = &req.ParentId
	}

	_, err := c.store.Submit(ctx, payload)
	if err != nil {
		c.log.Warn("failed to post comment", zap.String("page_path", c.pagePath), zap.Error(err))
		return nil, false
	}

	c.prefs.SetAuthorName(authorName)
	if req.ParentId != "" && c.openReply == req.ParentId {
		c.CloseReply()
	}

	return c.Load(ctx), true
}

// ToggleReply opens the inline reply form under the given top-level comment,
// closing any other open form first. At most one form is open per client.
func (c *Client) ToggleReply(commentId string) {
	if c.openReply == commentId {
		c.openReply = ""
		return
	}
	c.openReply = commentId
}

func (c *Client) CloseReply() {
	c.openReply = ""
}

// OpenReplyId returns the id of the comment whose reply form is open, or ""
// when none is.
func (c *Client) OpenReplyId() string {
	return c.openReply
}

// SubmitReply posts through the currently open reply form.
func (c *Client) SubmitReply(ctx context.Context, req SubmitRequest) ([]model.Comment, bool) {
	if c.openReply == "" {
		return nil, false
	}
	req.ParentId = c.openReply
	return c.Submit(ctx, req)
}
