// Package service contains the use cases of the community board.
// Each service orchestrates domain entities and repositories and returns DTOs.
package service

import (
	"time"

	"github.com/efub/community-board/internal/domain/board"
	"github.com/efub/community-board/internal/domain/comment"
	"github.com/efub/community-board/internal/domain/member"
	"github.com/efub/community-board/internal/domain/post"
	"github.com/efub/community-board/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MEMBER DTOs
// ══════════════════════════════════════════════════════════════════════════════

// MemberRequest - данные для регистрации участника.
type MemberRequest struct {
	StudentID  string `json:"studentId"`
	University string `json:"university"`
	Nickname   string `json:"nickname"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

// Validate проверяет пароль. Остальные поля проверяет member.NewMember.
func (r MemberRequest) Validate() error {
	if len(r.Password) < 8 {
		return shared.Validation("member", "password", "must be at least 8 characters")
	}
	if len(r.Password) > 72 {
		return shared.Validation("member", "password", "must be at most 72 bytes")
	}
	return nil
}

// UpdateMemberRequest - редактирование профиля.
type UpdateMemberRequest struct {
	Nickname string `json:"nickname"`
}

// MemberResponse - публичное представление участника.
type MemberResponse struct {
	MemberID   int64  `json:"memberId"`
	StudentID  string `json:"studentId"`
	University string `json:"university"`
	Nickname   string `json:"nickname"`
	Email      string `json:"email"`
	Status     string `json:"status"`
}

// MemberListResponse - результат поиска участников.
type MemberListResponse struct {
	Count   int              `json:"count"`
	Members []MemberResponse `json:"members"`
}

func newMemberResponse(m *member.Member) MemberResponse {
	return MemberResponse{
		MemberID:   m.ID,
		StudentID:  m.StudentID,
		University: m.University,
		Nickname:   m.Nickname,
		Email:      m.Email,
		Status:     string(m.Status),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// BOARD DTOs
// ══════════════════════════════════════════════════════════════════════════════

// BoardRequest - создание доски.
type BoardRequest struct {
	OwnerID     int64  `json:"ownerId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Notice      string `json:"notice"`
}

// NoticeRequest - смена объявления доски.
type NoticeRequest struct {
	OwnerID int64  `json:"ownerId"`
	Notice  string `json:"notice"`
}

// BoardResponse - представление доски.
type BoardResponse struct {
	BoardID     int64     `json:"boardId"`
	OwnerID     int64     `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Notice      string    `json:"notice"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newBoardResponse(b *board.Board) BoardResponse {
	return BoardResponse{
		BoardID:     b.ID,
		OwnerID:     b.OwnerID,
		Name:        b.Name,
		Description: b.Description,
		Notice:      b.Notice,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// POST DTOs
// ══════════════════════════════════════════════════════════════════════════════

// PostCreateRequest - создание поста.
type PostCreateRequest struct {
	BoardID   int64  `json:"boardId"`
	Anonymous bool   `json:"anonymous"`
	AuthorID  int64  `json:"authorId"`
	Content   string `json:"content"`
}

// UpdateContentRequest - редактирование текста поста.
type UpdateContentRequest struct {
	Content string `json:"content"`
}

// PostResponse - представление поста. AuthorID отдаётся и для анонимных постов.
type PostResponse struct {
	PostID    int64     `json:"postId"`
	BoardID   int64     `json:"boardId"`
	AuthorID  int64     `json:"authorId"`
	Anonymous bool      `json:"anonymous"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostListResponse - посты доски, новые первыми.
type PostListResponse struct {
	BoardID int64          `json:"boardId"`
	Count   int            `json:"count"`
	Posts   []PostResponse `json:"posts"`
}

func newPostResponse(p *post.Post) PostResponse {
	return PostResponse{
		PostID:    p.ID,
		BoardID:   p.BoardID,
		AuthorID:  p.AuthorID,
		Anonymous: p.Anonymous,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// COMMENT DTOs
// ══════════════════════════════════════════════════════════════════════════════

// CommentRequest - создание комментария.
type CommentRequest struct {
	WriterID int64  `json:"writerId"`
	Content  string `json:"content"`
}

// CommentResponse - представление комментария.
type CommentResponse struct {
	CommentID int64     `json:"commentId"`
	PostID    int64     `json:"postId"`
	WriterID  int64     `json:"writerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostCommentResponse - комментарии поста.
type PostCommentResponse struct {
	PostID      int64             `json:"postId"`
	CommentList []CommentResponse `json:"commentList"`
	Count       int               `json:"count"`
}

// MemberCommentResponse - комментарии участника.
type MemberCommentResponse struct {
	MemberID    int64             `json:"memberId"`
	CommentList []CommentResponse `json:"commentList"`
	Count       int               `json:"count"`
}

func newCommentResponses(comments []*comment.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentResponse{
			CommentID: c.ID,
			PostID:    c.PostID,
			WriterID:  c.WriterID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		})
	}
	return out
}
