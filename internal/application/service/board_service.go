package service

import (
	"context"
	"log/slog"

	"github.com/efub/community-board/internal/domain/board"
	"github.com/efub/community-board/internal/domain/member"
	"github.com/efub/community-board/internal/domain/post"
	"github.com/efub/community-board/pkg/logger"
)

// BoardService управляет досками.
type BoardService struct {
	boards  board.Repository
	members member.Repository
	posts   post.Repository
	cache   PostCache
	log     *slog.Logger
}

// NewBoardService создаёт BoardService. cache может быть nil; иначе при
// удалении доски из него удаляются её посты.
func NewBoardService(
	boards board.Repository,
	members member.Repository,
	posts post.Repository,
	cache PostCache,
	log *slog.Logger,
) *BoardService {
	return &BoardService{
		boards:  boards,
		members: members,
		posts:   posts,
		cache:   cache,
		log:     log.With(logger.Component("board_service")),
	}
}

// CreateBoard создаёт доску. Владелец должен существовать.
func (s *BoardService) CreateBoard(ctx context.Context, req BoardRequest) (*BoardResponse, error) {
	b, err := board.NewBoard(req.OwnerID, req.Name, req.Description, req.Notice)
	if err != nil {
		return nil, err
	}

	if _, err := s.members.GetByID(ctx, req.OwnerID); err != nil {
		return nil, err
	}

	if err := s.boards.Create(ctx, b); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "board created", logger.BoardID(b.ID), logger.MemberID(b.OwnerID))

	resp := newBoardResponse(b)
	return &resp, nil
}

// GetBoard возвращает доску.
func (s *BoardService) GetBoard(ctx context.Context, boardID int64) (*BoardResponse, error) {
	b, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	resp := newBoardResponse(b)
	return &resp, nil
}

// UpdateNotice меняет объявление. Только для владельца.
func (s *BoardService) UpdateNotice(ctx context.Context, boardID int64, req NoticeRequest) (*BoardResponse, error) {
	b, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}

	if err := b.ChangeNotice(req.OwnerID, req.Notice); err != nil {
		return nil, err
	}

	if err := s.boards.Update(ctx, b); err != nil {
		return nil, err
	}

	resp := newBoardResponse(b)
	return &resp, nil
}

// DeleteBoard удаляет доску вместе с постами. Только для владельца.
func (s *BoardService) DeleteBoard(ctx context.Context, boardID, ownerID int64) error {
	b, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return err
	}

	if !b.IsOwnedBy(ownerID) {
		return board.ErrNotBoardOwner
	}

	// Посты удаляются каскадом, поэтому их ID нужно собрать до удаления.
	var cached []*post.Post
	if s.cache != nil {
		cached, err = s.posts.ListByBoard(ctx, boardID)
		if err != nil {
			return err
		}
	}

	if err := s.boards.Delete(ctx, boardID); err != nil {
		return err
	}

	for _, p := range cached {
		if err := s.cache.Invalidate(ctx, p.ID); err != nil {
			logCacheFailure(ctx, s.log, "post cache invalidation failed", p.ID, err)
		}
	}

	s.log.InfoContext(ctx, "board deleted", logger.BoardID(boardID), slog.Int("posts", len(cached)))
	return nil
}
