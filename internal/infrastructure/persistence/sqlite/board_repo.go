package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/efub/community-board/internal/domain/board"
)

// BoardRepository implements board.Repository with gorm.
type BoardRepository struct {
	db *gorm.DB
}

// Create inserts a board and fills its ID.
func (r *BoardRepository) Create(ctx context.Context, b *board.Board) error {
	model := boardModel{
		OwnerID:     b.OwnerID,
		Name:        b.Name,
		Description: b.Description,
		Notice:      b.Notice,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}

	b.ID = model.ID
	return nil
}

// GetByID returns a board by ID.
func (r *BoardRepository) GetByID(ctx context.Context, id int64) (*board.Board, error) {
	var model boardModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, board.ErrBoardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	return model.toDomain(), nil
}

// Update stores the editable board fields.
func (r *BoardRepository) Update(ctx context.Context, b *board.Board) error {
	result := r.db.WithContext(ctx).
		Model(&boardModel{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"name":        b.Name,
			"description": b.Description,
			"notice":      b.Notice,
			"updated_at":  b.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update board: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return board.ErrBoardNotFound
	}
	return nil
}

// Delete removes a board with its posts and their comments in one transaction.
func (r *BoardRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posts := tx.Model(&postModel{}).Select("id").Where("board_id = ?", id)
		if err := tx.Where("post_id IN (?)", posts).Delete(&commentModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete board comments: %w", err)
		}
		if err := tx.Where("board_id = ?", id).Delete(&postModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete board posts: %w", err)
		}

		result := tx.Delete(&boardModel{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete board: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return board.ErrBoardNotFound
		}
		return nil
	})
}
