package sqlite

import (
	"time"

	"github.com/efub/community-board/internal/domain/board"
	"github.com/efub/community-board/internal/domain/comment"
	"github.com/efub/community-board/internal/domain/member"
	"github.com/efub/community-board/internal/domain/post"
)

type memberModel struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	StudentID    string    `gorm:"column:student_id;not null;uniqueIndex"`
	University   string    `gorm:"column:university;not null"`
	Nickname     string    `gorm:"column:nickname;not null;index"`
	Email        string    `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Status       string    `gorm:"column:status;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null"`
}

func (memberModel) TableName() string { return "members" }

func memberFromDomain(m *member.Member) memberModel {
	return memberModel{
		ID:           m.ID,
		StudentID:    m.StudentID,
		University:   m.University,
		Nickname:     m.Nickname,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Status:       string(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (m memberModel) toDomain() *member.Member {
	return &member.Member{
		ID:           m.ID,
		StudentID:    m.StudentID,
		University:   m.University,
		Nickname:     m.Nickname,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Status:       member.Status(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type boardModel struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	OwnerID     int64     `gorm:"column:owner_id;not null;index"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description;not null;default:''"`
	Notice      string    `gorm:"column:notice;not null;default:''"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
}

func (boardModel) TableName() string { return "boards" }

func (b boardModel) toDomain() *board.Board {
	return &board.Board{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		Name:        b.Name,
		Description: b.Description,
		Notice:      b.Notice,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

type postModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	BoardID   int64     `gorm:"column:board_id;not null;index"`
	AuthorID  int64     `gorm:"column:author_id;not null;index"`
	Anonymous bool      `gorm:"column:anonymous;not null"`
	Content   string    `gorm:"column:content;not null;size:1000"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (postModel) TableName() string { return "posts" }

func (p postModel) toDomain() *post.Post {
	return &post.Post{
		ID:        p.ID,
		BoardID:   p.BoardID,
		AuthorID:  p.AuthorID,
		Anonymous: p.Anonymous,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type commentModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	PostID    int64     `gorm:"column:post_id;not null;index"`
	WriterID  int64     `gorm:"column:writer_id;not null;index"`
	Content   string    `gorm:"column:content;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (commentModel) TableName() string { return "comments" }

func (c commentModel) toDomain() *comment.Comment {
	return &comment.Comment{
		ID:        c.ID,
		PostID:    c.PostID,
		WriterID:  c.WriterID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}
