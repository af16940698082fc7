package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/flyingcat/commentgateway/internal/constant"
	"github.com/flyingcat/commentgateway/internal/model"
	"github.com/flyingcat/commentgateway/internal/repository"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

type CommentUsecase struct {
	CommentStore repository.CommentStore
	Log          *zap.Logger
	Config       *koanf.Koanf
}

func NewCommentUsecase(commentStore repository.CommentStore, zap *zap.Logger, koanf *koanf.Koanf) *CommentUsecase {
	return &CommentUsecase{
		CommentStore: commentStore,
		Log:          zap,
		Config:       koanf,
	}
}

func (usecase *CommentUsecase) ListByPage(ctx context.Context, pagePath string) ([]model.Comment, error) {
	if pagePath == "" {
		return nil, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "page_path query parameter is required",
			Param:   "page_path",
		}
	}

	comments, err := usecase.CommentStore.ListByPage(ctx, pagePath)
	if err != nil {
		return nil, err
	}

	// Not every backend can order server-side, so the ascending created_at
	// invariant is enforced here with a stable sort.
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})

	if comments == nil {
		comments = []model.Comment{}
	}

	return comments, nil
}

func (usecase *CommentUsecase) Create(ctx context.Context, payload model.CommentCreateRequest) (*model.Comment, error) {
	// Honeypot first: bots that fill hidden fields get the same response
	// shape as any other validation failure, and no write happens.
	if payload.Website != "" {
		usecase.Log.Debug("dropping submission with populated honeypot field", zap.String("page_path", payload.PagePath))
		return nil, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
			Param:   "content",
		}
	}

	if payload.PagePath == "" || !strings.HasPrefix(payload.PagePath, "/") {
		return nil, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "page_path is required and must start with /",
			Param:   "page_path",
		}
	}

	authorName := strings.TrimSpace(payload.AuthorName)
	if authorName == "" || utf8.RuneCountInString(authorName) > model.MaxAuthorNameLength {
		return nil, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "author_name is required (max 50 chars)",
			Param:   "author_name",
		}
	}

	content := strings.TrimSpace(payload.Content)
	if content == "" || utf8.RuneCountInString(content) > model.MaxContentLength {
		return nil, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "content is required (max 2000 chars)",
			Param:   "content",
		}
	}

	parentId, err := usecase.resolveParent(ctx, payload)
	if err != nil {
		return nil, err
	}

	newComment := model.NewComment{
		PagePath:   payload.PagePath,
		AuthorName: authorName,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
		ParentId:   parentId,
	}

	created, err := usecase.CommentStore.Create(ctx, newComment)
	if err != nil {
		return nil, err
	}

	return created, nil
}

// resolveParent enforces the two-level threading rule at write time: a
// parent_id must reference an existing top-level comment on the same page.
func (usecase *CommentUsecase) resolveParent(ctx context.Context, payload model.CommentCreateRequest) (*string, error) {
	if payload.ParentId == nil || *payload.ParentId == "" {
		return nil, nil
	}

	parent, err := usecase.CommentStore.Get(ctx, *payload.ParentId)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return nil, &model.ValidationError{
				Code:    constant.ERR_VALIDATION_CODE,
				Message: "parent_id does not reference an existing comment",
				Param:   "parent_id",
			}
		}

		return nil, err
	}

	if parent.IsReply() {
		return nil, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "parent_id must reference a top-level comment",
			Param:   "parent_id",
		}
	}

	if parent.PagePath != payload.PagePath {
		return nil, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "parent_id references a comment on a different page",
			Param:   "parent_id",
		}
	}

	return payload.ParentId, nil
}
