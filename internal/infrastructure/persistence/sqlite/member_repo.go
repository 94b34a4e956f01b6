package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/efub/community-board/internal/domain/member"
	"github.com/efub/community-board/internal/infrastructure/persistence/sqlutil"
)

// MemberRepository implements member.Repository with gorm.
type MemberRepository struct {
	db *gorm.DB
}

// Create inserts a member and fills its ID.
func (r *MemberRepository) Create(ctx context.Context, m *member.Member) error {
	model := memberFromDomain(m)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return member.ErrMemberAlreadyExists
		}
		return fmt.Errorf("failed to create member: %w", err)
	}

	m.ID = model.ID
	return nil
}

// GetByID returns a member by ID.
func (r *MemberRepository) GetByID(ctx context.Context, id int64) (*member.Member, error) {
	var model memberModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, member.ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return model.toDomain(), nil
}

// Update stores nickname and status changes.
func (r *MemberRepository) Update(ctx context.Context, m *member.Member) error {
	result := r.db.WithContext(ctx).
		Model(&memberModel{}).
		Where("id = ?", m.ID).
		Updates(map[string]any{
			"nickname":   m.Nickname,
			"status":     string(m.Status),
			"updated_at": m.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return member.ErrMemberNotFound
	}
	return nil
}

// ExistsByEmail checks whether the email is taken.
func (r *MemberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

// ExistsByStudentID checks whether the student ID is taken.
func (r *MemberRepository) ExistsByStudentID(ctx context.Context, studentID string) (bool, error) {
	return r.exists(ctx, "student_id = ?", studentID)
}

func (r *MemberRepository) exists(ctx context.Context, where string, arg any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&memberModel{}).Where(where, arg).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check member: %w", err)
	}
	return count > 0, nil
}

// Search returns members matching criteria, highest ID first.
func (r *MemberRepository) Search(ctx context.Context, criteria member.Criteria) ([]*member.Member, error) {
	query := r.db.WithContext(ctx).Model(&memberModel{})

	for _, cond := range criteria.Conditions() {
		if cond.Field != member.FieldNickname {
			return nil, fmt.Errorf("sqlite: unsupported member field %q", cond.Field)
		}
		switch cond.Operator {
		case member.OpContainsFold:
			pattern := sqlutil.ContainsPattern(strings.ToLower(cond.Value))
			query = query.Where(foldLowerFunc+"(nickname) LIKE ? ESCAPE '"+sqlutil.LikeEscape+"'", pattern)
		default:
			return nil, fmt.Errorf("sqlite: unsupported operator %q", cond.Operator)
		}
	}

	var models []memberModel
	if err := query.Order("id DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to search members: %w", err)
	}

	members := make([]*member.Member, 0, len(models))
	for _, m := range models {
		members = append(members, m.toDomain())
	}
	return members, nil
}
