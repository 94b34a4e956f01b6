package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/efub/community-board/internal/domain/member"
	"github.com/efub/community-board/internal/infrastructure/persistence/sqlutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MEMBER REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// MemberRepository implements member.Repository for PostgreSQL.
type MemberRepository struct {
	conn *Connection
}

// NewMemberRepository creates a new MemberRepository.
func NewMemberRepository(conn *Connection) *MemberRepository {
	return &MemberRepository{conn: conn}
}

const memberColumns = `id, student_id, university, nickname, email, password_hash, status, created_at, updated_at`

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create inserts a member and fills its ID.
func (r *MemberRepository) Create(ctx context.Context, m *member.Member) error {
	query := `
		INSERT INTO members (student_id, university, nickname, email, password_hash, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query,
		m.StudentID,
		m.University,
		m.Nickname,
		m.Email,
		m.PasswordHash,
		string(m.Status),
		m.CreatedAt,
		m.UpdatedAt,
	).Scan(&m.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return member.ErrMemberAlreadyExists
		}
		return fmt.Errorf("failed to create member: %w", err)
	}

	return nil
}

// GetByID returns a member by ID.
func (r *MemberRepository) GetByID(ctx context.Context, id int64) (*member.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	return scanMember(r.conn.QueryRow(ctx, query, id))
}

// Update stores nickname and status changes.
func (r *MemberRepository) Update(ctx context.Context, m *member.Member) error {
	query := `
		UPDATE members
		SET nickname = $1, status = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.conn.Exec(ctx, query, m.Nickname, string(m.Status), m.UpdatedAt, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	if result.RowsAffected() == 0 {
		return member.ErrMemberNotFound
	}

	return nil
}

// ExistsByEmail checks whether the email is taken.
func (r *MemberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM members WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// ExistsByStudentID checks whether the student ID is taken.
func (r *MemberRepository) ExistsByStudentID(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM members WHERE student_id = $1)`, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check student id: %w", err)
	}
	return exists, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Search
// ─────────────────────────────────────────────────────────────────────────────

// Search returns members matching criteria, highest ID first.
func (r *MemberRepository) Search(ctx context.Context, criteria member.Criteria) ([]*member.Member, error) {
	query, args, err := buildMemberSearchQuery(criteria)
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search members: %w", err)
	}
	defer rows.Close()

	members := make([]*member.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// buildMemberSearchQuery translates criteria into SQL with positional args.
func buildMemberSearchQuery(criteria member.Criteria) (string, []any, error) {
	query := `SELECT ` + memberColumns + ` FROM members`

	var conditions []string
	var args []any
	for _, cond := range criteria.Conditions() {
		column, err := memberColumn(cond.Field)
		if err != nil {
			return "", nil, err
		}

		switch cond.Operator {
		case member.OpContainsFold:
			args = append(args, sqlutil.ContainsPattern(cond.Value))
			conditions = append(conditions,
				fmt.Sprintf(`%s ILIKE $%d ESCAPE '%s'`, column, len(args), sqlutil.LikeEscape))
		default:
			return "", nil, fmt.Errorf("postgres: unsupported operator %q", cond.Operator)
		}
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id DESC"

	return query, args, nil
}

func memberColumn(f member.Field) (string, error) {
	switch f {
	case member.FieldNickname:
		return "nickname", nil
	default:
		return "", fmt.Errorf("postgres: unsupported member field %q", f)
	}
}

// scanMember scans a member from a row.
func scanMember(row pgx.Row) (*member.Member, error) {
	var m member.Member
	var status string

	err := row.Scan(
		&m.ID,
		&m.StudentID,
		&m.University,
		&m.Nickname,
		&m.Email,
		&m.PasswordHash,
		&status,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if IsNoRows(err) {
		return nil, member.ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan member: %w", err)
	}

	m.Status = member.Status(status)
	return &m, nil
}
