// Package board содержит доменную модель доски объявлений.
package board

import (
	"context"
	"strings"
	"time"

	"github.com/efub/community-board/internal/domain/shared"
)

var (
	ErrBoardNotFound = shared.NewDomainError("board", "Find", shared.ErrNotFound, "board not found")
	ErrNotBoardOwner = shared.NewDomainError("board", "CheckOwner", shared.ErrForbidden, "only the board owner may do this")
)

// Board - доска, которой владеет участник.
type Board struct {
	ID          int64
	OwnerID     int64
	Name        string
	Description string
	Notice      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBoard создаёт доску с валидацией.
func NewBoard(ownerID int64, name, description, notice string) (*Board, error) {
	if ownerID <= 0 {
		return nil, shared.Validation("board", "ownerId", "must be positive")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.Validation("board", "name", "is required")
	}

	now := time.Now().UTC()
	return &Board{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Notice:      notice,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsOwnedBy проверяет владельца доски.
func (b *Board) IsOwnedBy(memberID int64) bool {
	return b.OwnerID == memberID
}

// ChangeNotice обновляет объявление. Доступно только владельцу.
func (b *Board) ChangeNotice(requesterID int64, notice string) error {
	if !b.IsOwnedBy(requesterID) {
		return ErrNotBoardOwner
	}
	b.Notice = notice
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// Repository определяет операции с досками.
type Repository interface {
	// Create сохраняет доску и заполняет её ID.
	Create(ctx context.Context, b *Board) error

	// GetByID возвращает ErrBoardNotFound, если доска не найдена.
	GetByID(ctx context.Context, id int64) (*Board, error)

	// Update возвращает ErrBoardNotFound, если доска не найдена.
	Update(ctx context.Context, b *Board) error

	// Delete удаляет доску вместе с постами.
	Delete(ctx context.Context, id int64) error
}
