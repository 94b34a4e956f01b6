package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/efub/community-board/internal/domain/board"
	"github.com/efub/community-board/internal/domain/member"
	"github.com/efub/community-board/internal/domain/post"
)

// PostRepository implements post.Repository for PostgreSQL.
type PostRepository struct {
	conn *Connection
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(conn *Connection) *PostRepository {
	return &PostRepository{conn: conn}
}

const postColumns = `id, board_id, author_id, anonymous, content, created_at, updated_at`

var postRefs = map[string]error{
	"posts_board_id_fkey":  board.ErrBoardNotFound,
	"posts_author_id_fkey": member.ErrMemberNotFound,
}

// Create inserts a post and fills its ID.
func (r *PostRepository) Create(ctx context.Context, p *post.Post) error {
	query := `
		INSERT INTO posts (board_id, author_id, anonymous, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query,
		p.BoardID, p.AuthorID, p.Anonymous, p.Content, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		if fkErr := foreignKeyError("post", "Create", err, postRefs); fkErr != nil {
			return fkErr
		}
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// GetByID returns a post by ID.
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*post.Post, error) {
	return scanPost(r.conn.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
}

// Update stores the post content.
func (r *PostRepository) Update(ctx context.Context, p *post.Post) error {
	result, err := r.conn.Exec(ctx,
		`UPDATE posts SET content = $1, updated_at = $2 WHERE id = $3`,
		p.Content, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return post.ErrPostNotFound
	}

	return nil
}

// Delete removes a post and its comments.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return post.ErrPostNotFound
	}

	return nil
}

// ListByBoard returns the board's posts, newest first.
func (r *PostRepository) ListByBoard(ctx context.Context, boardID int64) ([]*post.Post, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT `+postColumns+` FROM posts WHERE board_id = $1 ORDER BY id DESC`, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*post.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}

func scanPost(row pgx.Row) (*post.Post, error) {
	var p post.Post

	err := row.Scan(&p.ID, &p.BoardID, &p.AuthorID, &p.Anonymous, &p.Content, &p.CreatedAt, &p.UpdatedAt)
	if IsNoRows(err) {
		return nil, post.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}

	return &p, nil
}
