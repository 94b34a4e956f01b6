// Package comment содержит доменную модель комментария.
package comment

import (
	"context"
	"strings"
	"time"

	"github.com/efub/community-board/internal/domain/shared"
)

// Comment - комментарий участника к посту.
type Comment struct {
	ID        int64
	PostID    int64
	WriterID  int64
	Content   string
	CreatedAt time.Time
}

// NewComment создаёт комментарий с валидацией.
func NewComment(postID, writerID int64, content string) (*Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, shared.Validation("comment", "content", "is required")
	}
	return &Comment{
		PostID:    postID,
		WriterID:  writerID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Repository определяет операции с комментариями.
type Repository interface {
	Create(ctx context.Context, c *Comment) error

	// ListByPost возвращает комментарии поста в порядке создания.
	ListByPost(ctx context.Context, postID int64) ([]*Comment, error)

	// ListByWriter возвращает комментарии участника в порядке создания.
	ListByWriter(ctx context.Context, writerID int64) ([]*Comment, error)
}
