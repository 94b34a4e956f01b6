// Package member содержит доменную модель участника сообщества.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package member

import (
	"net/mail"
	"strings"
	"time"

	"github.com/efub/community-board/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	ErrMemberNotFound      = shared.NewDomainError("member", "Find", shared.ErrNotFound, "member not found")
	ErrMemberAlreadyExists = shared.NewDomainError("member", "Create", shared.ErrAlreadyExists, "member already exists")
	ErrMemberWithdrawn     = shared.NewDomainError("member", "CheckStatus", shared.ErrInvalidState, "member has withdrawn")
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status определяет статус участника.
type Status string

const (
	// StatusRegistered - участник активен.
	StatusRegistered Status = "registered"
	// StatusUnregistered - участник вышел из сообщества (soft delete).
	StatusUnregistered Status = "unregistered"
)

// IsValid проверяет, что статус корректен.
func (s Status) IsValid() bool {
	return s == StatusRegistered || s == StatusUnregistered
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: MEMBER
// ══════════════════════════════════════════════════════════════════════════════

// Member - участник сообщества.
// ID назначается хранилищем, монотонно растёт и не меняется после создания.
type Member struct {
	ID           int64
	StudentID    string
	University   string
	Nickname     string
	Email        string
	PasswordHash string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewMemberParams - параметры для создания участника.
type NewMemberParams struct {
	StudentID    string
	University   string
	Nickname     string
	Email        string
	PasswordHash string
}

// NewMember создаёт нового участника с валидацией.
func NewMember(p NewMemberParams) (*Member, error) {
	if strings.TrimSpace(p.StudentID) == "" {
		return nil, shared.Validation("member", "studentId", "is required")
	}
	if strings.TrimSpace(p.University) == "" {
		return nil, shared.Validation("member", "university", "is required")
	}
	if err := ValidateNickname(p.Nickname); err != nil {
		return nil, err
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return nil, shared.Validation("member", "email", "is not a valid address")
	}
	if p.PasswordHash == "" {
		return nil, shared.Validation("member", "password", "is required")
	}

	now := time.Now().UTC()
	return &Member{
		StudentID:    p.StudentID,
		University:   p.University,
		Nickname:     p.Nickname,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		Status:       StatusRegistered,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ValidateNickname проверяет никнейм.
func ValidateNickname(nickname string) error {
	if strings.TrimSpace(nickname) == "" {
		return shared.Validation("member", "nickname", "is required")
	}
	if len([]rune(nickname)) > 50 {
		return shared.Validation("member", "nickname", "must be at most 50 characters")
	}
	return nil
}

// Rename меняет никнейм участника.
func (m *Member) Rename(nickname string) error {
	if m.Status == StatusUnregistered {
		return ErrMemberWithdrawn
	}
	if err := ValidateNickname(nickname); err != nil {
		return err
	}
	m.Nickname = nickname
	m.UpdatedAt = time.Now().UTC()
	return nil
}

// Withdraw переводит участника в статус unregistered.
// Повторный вызов не является ошибкой.
func (m *Member) Withdraw() {
	m.Status = StatusUnregistered
	m.UpdatedAt = time.Now().UTC()
}

// IsActive возвращает true, если участник не вышел из сообщества.
func (m *Member) IsActive() bool {
	return m.Status == StatusRegistered
}
