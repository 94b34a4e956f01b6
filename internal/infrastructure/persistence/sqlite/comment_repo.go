package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/efub/community-board/internal/domain/comment"
)

// CommentRepository implements comment.Repository with gorm.
type CommentRepository struct {
	db *gorm.DB
}

// Create inserts a comment and fills its ID.
func (r *CommentRepository) Create(ctx context.Context, c *comment.Comment) error {
	model := commentModel{
		PostID:    c.PostID,
		WriterID:  c.WriterID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	c.ID = model.ID
	return nil
}

// ListByPost returns the post's comments in creation order.
func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*comment.Comment, error) {
	return r.list(ctx, "post_id = ?", postID)
}

// ListByWriter returns the member's comments in creation order.
func (r *CommentRepository) ListByWriter(ctx context.Context, writerID int64) ([]*comment.Comment, error) {
	return r.list(ctx, "writer_id = ?", writerID)
}

func (r *CommentRepository) list(ctx context.Context, where string, arg int64) ([]*comment.Comment, error) {
	var models []commentModel
	if err := r.db.WithContext(ctx).Where(where, arg).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	comments := make([]*comment.Comment, 0, len(models))
	for _, m := range models {
		comments = append(comments, m.toDomain())
	}
	return comments, nil
}
