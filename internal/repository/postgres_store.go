package repository

import (
	"context"
	"errors"

	"github.com/flyingcat/commentgateway/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresStore serves deployments that reach the database over a direct
// connection string instead of a REST endpoint.
type PostgresStore struct {
	Log *zap.Logger
	DB  *pgxpool.Pool
}

func NewPostgresStore(zap *zap.Logger, db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		Log: zap,
		DB:  db,
	}
}

func (repository *PostgresStore) ListByPage(ctx context.Context, pagePath string) ([]model.Comment, error) {
	query := "SELECT id::text, page_path, author_name, content, created_at, parent_id::text FROM comments WHERE page_path = $1 ORDER BY created_at ASC, id ASC"

	rows, err := repository.DB.Query(ctx, query, pagePath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		var comment model.Comment
		err = rows.Scan(&comment.Id, &comment.PagePath, &comment.AuthorName, &comment.Content, &comment.CreatedAt, &comment.ParentId)
		if err != nil {
			return nil, err
		}
		comment.CreatedAt = comment.CreatedAt.UTC()
		comments = append(comments, comment)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return comments, nil
}

func (repository *PostgresStore) Get(ctx context.Context, id string) (*model.Comment, error) {
	// id comes from the public API, reject non-uuid values as not found
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrCommentNotFound
	}

	query := "SELECT id::text, page_path, author_name, content, created_at, parent_id::text FROM comments WHERE id = $1"

	var comment model.Comment
	err = repository.DB.QueryRow(ctx, query, parsed).Scan(&comment.Id, &comment.PagePath, &comment.AuthorName, &comment.Content, &comment.CreatedAt, &comment.ParentId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCommentNotFound
		}

		return nil, err
	}

	comment.CreatedAt = comment.CreatedAt.UTC()
	return &comment, nil
}

func (repository *PostgresStore) Create(ctx context.Context, comment model.NewComment) (*model.Comment, error) {
	id := uuid.New()

	query := "INSERT INTO comments (id, page_path, author_name, content, created_at, parent_id) VALUES ($1, $2, $3, $4, $5, $6)"

	var parentId *uuid.UUID
	if comment.ParentId != nil {
		parsed, err := uuid.Parse(*comment.ParentId)
		if err != nil {
			return nil, ErrCommentNotFound
		}
		parentId = &parsed
	}

	_, err := repository.DB.Exec(ctx, query, id, comment.PagePath, comment.AuthorName, comment.Content, comment.CreatedAt, parentId)
	if err != nil {
		return nil, err
	}

	created := model.Comment{
		Id:         id.String(),
		PagePath:   comment.PagePath,
		AuthorName: comment.AuthorName,
		Content:    comment.Content,
		CreatedAt:  comment.CreatedAt.UTC(),
		ParentId:   comment.ParentId,
	}

	return &created, nil
}
