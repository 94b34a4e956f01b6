package service

import (
	"context"
	"log/slog"

	"github.com/efub/community-board/internal/domain/comment"
	"github.com/efub/community-board/internal/domain/member"
	"github.com/efub/community-board/internal/domain/post"
	"github.com/efub/community-board/pkg/logger"
)

// CommentService управляет комментариями.
type CommentService struct {
	comments comment.Repository
	posts    post.Repository
	members  member.Repository
	log      *slog.Logger
}

// NewCommentService создаёт CommentService.
func NewCommentService(
	comments comment.Repository,
	posts post.Repository,
	members member.Repository,
	log *slog.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		members:  members,
		log:      log.With(logger.Component("comment_service")),
	}
}

// CreateComment добавляет комментарий к посту.
func (s *CommentService) CreateComment(ctx context.Context, postID int64, req CommentRequest) (*CommentResponse, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	if _, err := s.members.GetByID(ctx, req.WriterID); err != nil {
		return nil, err
	}

	c, err := comment.NewComment(postID, req.WriterID, req.Content)
	if err != nil {
		return nil, err
	}

	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "comment created", logger.PostID(postID), logger.MemberID(req.WriterID))

	resp := newCommentResponses([]*comment.Comment{c})[0]
	return &resp, nil
}

// GetPostCommentList возвращает комментарии поста в порядке создания.
func (s *CommentService) GetPostCommentList(ctx context.Context, postID int64) (*PostCommentResponse, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &PostCommentResponse{
		PostID:      postID,
		CommentList: newCommentResponses(comments),
		Count:       len(comments),
	}, nil
}

// GetMemberCommentList возвращает комментарии участника.
func (s *CommentService) GetMemberCommentList(ctx context.Context, memberID int64) (*MemberCommentResponse, error) {
	if _, err := s.members.GetByID(ctx, memberID); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByWriter(ctx, memberID)
	if err != nil {
		return nil, err
	}

	return &MemberCommentResponse{
		MemberID:    memberID,
		CommentList: newCommentResponses(comments),
		Count:       len(comments),
	}, nil
}
