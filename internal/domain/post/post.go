// Package post содержит доменную модель поста.
package post

import (
	"context"
	"strings"
	"time"

	"github.com/efub/community-board/internal/domain/shared"
)

var (
	ErrPostNotFound = shared.NewDomainError("post", "Find", shared.ErrNotFound, "post not found")
)

// MaxContentLength - максимальная длина текста поста в символах.
const MaxContentLength = 1000

// Post - пост на доске.
type Post struct {
	ID        int64
	BoardID   int64
	AuthorID  int64
	Anonymous bool
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPost создаёт пост с валидацией.
func NewPost(boardID, authorID int64, anonymous bool, content string) (*Post, error) {
	if err := ValidateContent(content); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Post{
		BoardID:   boardID,
		AuthorID:  authorID,
		Anonymous: anonymous,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateContent проверяет текст поста.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return shared.Validation("post", "content", "is required")
	}
	if len([]rune(content)) > MaxContentLength {
		return shared.Validation("post", "content", "is too long")
	}
	return nil
}

// UpdateContent меняет текст поста.
func (p *Post) UpdateContent(content string) error {
	if err := ValidateContent(content); err != nil {
		return err
	}
	p.Content = content
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Repository определяет операции с постами.
type Repository interface {
	Create(ctx context.Context, p *Post) error

	// GetByID возвращает ErrPostNotFound, если пост не найден.
	GetByID(ctx context.Context, id int64) (*Post, error)

	// Update возвращает ErrPostNotFound, если пост не найден.
	Update(ctx context.Context, p *Post) error

	// Delete возвращает ErrPostNotFound, если удалять нечего.
	Delete(ctx context.Context, id int64) error

	// ListByBoard возвращает посты доски, новые первыми.
	ListByBoard(ctx context.Context, boardID int64) ([]*Post, error)
}
