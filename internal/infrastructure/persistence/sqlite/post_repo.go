package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/efub/community-board/internal/domain/post"
)

// PostRepository implements post.Repository with gorm.
type PostRepository struct {
	db *gorm.DB
}

// Create inserts a post and fills its ID.
func (r *PostRepository) Create(ctx context.Context, p *post.Post) error {
	model := postModel{
		BoardID:   p.BoardID,
		AuthorID:  p.AuthorID,
		Anonymous: p.Anonymous,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	p.ID = model.ID
	return nil
}

// GetByID returns a post by ID.
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*post.Post, error) {
	var model postModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, post.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return model.toDomain(), nil
}

// Update stores the post content.
func (r *PostRepository) Update(ctx context.Context, p *post.Post) error {
	result := r.db.WithContext(ctx).
		Model(&postModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"content":    p.Content,
			"updated_at": p.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return post.ErrPostNotFound
	}
	return nil
}

// Delete removes a post and its comments.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&commentModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete post comments: %w", err)
		}

		result := tx.Delete(&postModel{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete post: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return post.ErrPostNotFound
		}
		return nil
	})
}

// ListByBoard returns the board's posts, newest first.
func (r *PostRepository) ListByBoard(ctx context.Context, boardID int64) ([]*post.Post, error) {
	var models []postModel
	if err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("id DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts := make([]*post.Post, 0, len(models))
	for _, m := range models {
		posts = append(posts, m.toDomain())
	}
	return posts, nil
}
