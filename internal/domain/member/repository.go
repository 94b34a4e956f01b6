package member

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Контракт для работы с хранилищем участников.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции с участниками.
type Repository interface {
	// Create сохраняет нового участника и заполняет его ID.
	// Возвращает ErrMemberAlreadyExists при конфликте email или studentId.
	Create(ctx context.Context, m *Member) error

	// GetByID возвращает участника по ID.
	// Возвращает ErrMemberNotFound, если участник не найден.
	GetByID(ctx context.Context, id int64) (*Member, error)

	// Update сохраняет изменения участника.
	// Возвращает ErrMemberNotFound, если участник не найден.
	Update(ctx context.Context, m *Member) error

	// ExistsByEmail проверяет, занят ли email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByStudentID проверяет, занят ли номер студента.
	ExistsByStudentID(ctx context.Context, studentID string) (bool, error)

	// Search возвращает участников, удовлетворяющих критериям,
	// отсортированных по ID по убыванию. Пустой результат не ошибка.
	Search(ctx context.Context, criteria Criteria) ([]*Member, error)
}
