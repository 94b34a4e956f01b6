package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/efub/community-board/internal/domain/board"
	"github.com/efub/community-board/internal/domain/member"
)

// BoardRepository implements board.Repository for PostgreSQL.
type BoardRepository struct {
	conn *Connection
}

// NewBoardRepository creates a new BoardRepository.
func NewBoardRepository(conn *Connection) *BoardRepository {
	return &BoardRepository{conn: conn}
}

// Create inserts a board and fills its ID.
func (r *BoardRepository) Create(ctx context.Context, b *board.Board) error {
	query := `
		INSERT INTO boards (owner_id, name, description, notice, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query,
		b.OwnerID, b.Name, b.Description, b.Notice, b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID)
	if err != nil {
		if fkErr := foreignKeyError("board", "Create", err, map[string]error{
			"boards_owner_id_fkey": member.ErrMemberNotFound,
		}); fkErr != nil {
			return fkErr
		}
		return fmt.Errorf("failed to create board: %w", err)
	}

	return nil
}

// GetByID returns a board by ID.
func (r *BoardRepository) GetByID(ctx context.Context, id int64) (*board.Board, error) {
	query := `
		SELECT id, owner_id, name, description, notice, created_at, updated_at
		FROM boards WHERE id = $1
	`
	return scanBoard(r.conn.QueryRow(ctx, query, id))
}

// Update stores the editable board fields.
func (r *BoardRepository) Update(ctx context.Context, b *board.Board) error {
	query := `
		UPDATE boards
		SET name = $1, description = $2, notice = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.conn.Exec(ctx, query, b.Name, b.Description, b.Notice, b.UpdatedAt, b.ID)
	if err != nil {
		return fmt.Errorf("failed to update board: %w", err)
	}
	if result.RowsAffected() == 0 {
		return board.ErrBoardNotFound
	}

	return nil
}

// Delete removes a board. Posts and their comments go with it via ON DELETE CASCADE.
func (r *BoardRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	if result.RowsAffected() == 0 {
		return board.ErrBoardNotFound
	}

	return nil
}

func scanBoard(row pgx.Row) (*board.Board, error) {
	var b board.Board

	err := row.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Description, &b.Notice, &b.CreatedAt, &b.UpdatedAt)
	if IsNoRows(err) {
		return nil, board.ErrBoardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan board: %w", err)
	}

	return &b, nil
}
