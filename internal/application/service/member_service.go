package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/efub/community-board/internal/domain/member"
	"github.com/efub/community-board/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MEMBER SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// PasswordHasher хеширует пароль перед сохранением.
type PasswordHasher func(password string) (string, error)

// BcryptHasher хеширует пароль bcrypt с cost по умолчанию.
func BcryptHasher(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// MemberService - регистрация, профиль, выход и поиск участников.
type MemberService struct {
	members member.Repository
	hash    PasswordHasher
	log     *slog.Logger
}

// NewMemberService создаёт MemberService. Если hash равен nil, используется bcrypt.
func NewMemberService(members member.Repository, hash PasswordHasher, log *slog.Logger) *MemberService {
	if hash == nil {
		hash = BcryptHasher
	}
	return &MemberService{
		members: members,
		hash:    hash,
		log:     log.With(logger.Component("member_service")),
	}
}

// CreateMember регистрирует участника.
func (s *MemberService) CreateMember(ctx context.Context, req MemberRequest) (*MemberResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Проверяем сущность до хеширования, bcrypt дорогой.
	if _, err := member.NewMember(member.NewMemberParams{
		StudentID:    req.StudentID,
		University:   req.University,
		Nickname:     req.Nickname,
		Email:        req.Email,
		PasswordHash: "-",
	}); err != nil {
		return nil, err
	}

	taken, err := s.members.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if !taken {
		taken, err = s.members.ExistsByStudentID(ctx, req.StudentID)
		if err != nil {
			return nil, err
		}
	}
	if taken {
		return nil, member.ErrMemberAlreadyExists
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	m, err := member.NewMember(member.NewMemberParams{
		StudentID:    req.StudentID,
		University:   req.University,
		Nickname:     req.Nickname,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	if err := s.members.Create(ctx, m); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "member registered", logger.MemberID(m.ID))

	resp := newMemberResponse(m)
	return &resp, nil
}

// GetMember возвращает участника по ID.
func (s *MemberService) GetMember(ctx context.Context, memberID int64) (*MemberResponse, error) {
	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	resp := newMemberResponse(m)
	return &resp, nil
}

// UpdateMember меняет никнейм.
func (s *MemberService) UpdateMember(ctx context.Context, memberID int64, req UpdateMemberRequest) (*MemberResponse, error) {
	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if err := m.Rename(req.Nickname); err != nil {
		return nil, err
	}

	if err := s.members.Update(ctx, m); err != nil {
		return nil, err
	}

	resp := newMemberResponse(m)
	return &resp, nil
}

// DeleteMember переводит участника в статус unregistered.
func (s *MemberService) DeleteMember(ctx context.Context, memberID int64) error {
	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return err
	}

	m.Withdraw()
	if err := s.members.Update(ctx, m); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "member withdrew", logger.MemberID(m.ID))
	return nil
}

// SearchMembers ищет участников по подстроке никнейма без учёта регистра.
// Пустой или пробельный nickname возвращает всех. Порядок - ID по убыванию.
func (s *MemberService) SearchMembers(ctx context.Context, nickname string) (*MemberListResponse, error) {
	found, err := s.members.Search(ctx, member.ByNickname(nickname))
	if err != nil {
		return nil, err
	}

	resp := &MemberListResponse{
		Count:   len(found),
		Members: make([]MemberResponse, 0, len(found)),
	}
	for _, m := range found {
		resp.Members = append(resp.Members, newMemberResponse(m))
	}
	return resp, nil
}

