package postgres

import (
	"context"
	"fmt"

	"github.com/efub/community-board/internal/domain/comment"
	"github.com/efub/community-board/internal/domain/member"
	"github.com/efub/community-board/internal/domain/post"
)

var commentRefs = map[string]error{
	"comments_post_id_fkey":   post.ErrPostNotFound,
	"comments_writer_id_fkey": member.ErrMemberNotFound,
}

// CommentRepository implements comment.Repository for PostgreSQL.
type CommentRepository struct {
	conn *Connection
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(conn *Connection) *CommentRepository {
	return &CommentRepository{conn: conn}
}

// Create inserts a comment and fills its ID.
func (r *CommentRepository) Create(ctx context.Context, c *comment.Comment) error {
	query := `
		INSERT INTO comments (post_id, writer_id, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if err := r.conn.QueryRow(ctx, query, c.PostID, c.WriterID, c.Content, c.CreatedAt).Scan(&c.ID); err != nil {
		if fkErr := foreignKeyError("comment", "Create", err, commentRefs); fkErr != nil {
			return fkErr
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// ListByPost returns the post's comments in creation order.
func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*comment.Comment, error) {
	return r.list(ctx, `WHERE post_id = $1`, postID)
}

// ListByWriter returns the member's comments in creation order.
func (r *CommentRepository) ListByWriter(ctx context.Context, writerID int64) ([]*comment.Comment, error) {
	return r.list(ctx, `WHERE writer_id = $1`, writerID)
}

func (r *CommentRepository) list(ctx context.Context, where string, arg int64) ([]*comment.Comment, error) {
	query := `SELECT id, post_id, writer_id, content, created_at FROM comments ` + where + ` ORDER BY id ASC`

	rows, err := r.conn.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*comment.Comment, 0)
	for rows.Next() {
		var c comment.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.WriterID, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &c)
	}

	return comments, rows.Err()
}
