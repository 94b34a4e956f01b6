package service

import (
	"context"
	"log/slog"

	"github.com/efub/community-board/internal/domain/board"
	"github.com/efub/community-board/internal/domain/member"
	"github.com/efub/community-board/internal/domain/post"
	"github.com/efub/community-board/pkg/circuitbreaker"
	"github.com/efub/community-board/pkg/logger"
)

// PostCache - кэш постов по ID. Ошибки кэша не ломают запрос.
type PostCache interface {
	// Get возвращает false при промахе.
	Get(ctx context.Context, postID int64) (*post.Post, bool, error)
	Set(ctx context.Context, p *post.Post) error
	Invalidate(ctx context.Context, postID int64) error
}

// PostService управляет постами.
type PostService struct {
	posts   post.Repository
	boards  board.Repository
	members member.Repository
	cache   PostCache
	log     *slog.Logger
}

// NewPostService создаёт PostService. cache может быть nil.
func NewPostService(
	posts post.Repository,
	boards board.Repository,
	members member.Repository,
	cache PostCache,
	log *slog.Logger,
) *PostService {
	return &PostService{
		posts:   posts,
		boards:  boards,
		members: members,
		cache:   cache,
		log:     log.With(logger.Component("post_service")),
	}
}

// CreatePost создаёт пост. Доска и автор должны существовать.
func (s *PostService) CreatePost(ctx context.Context, req PostCreateRequest) (*PostResponse, error) {
	if _, err := s.boards.GetByID(ctx, req.BoardID); err != nil {
		return nil, err
	}
	if _, err := s.members.GetByID(ctx, req.AuthorID); err != nil {
		return nil, err
	}

	p, err := post.NewPost(req.BoardID, req.AuthorID, req.Anonymous, req.Content)
	if err != nil {
		return nil, err
	}

	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "post created", logger.PostID(p.ID), logger.BoardID(p.BoardID))

	resp := newPostResponse(p)
	return &resp, nil
}

// GetPost возвращает пост, сначала из кэша.
func (s *PostService) GetPost(ctx context.Context, postID int64) (*PostResponse, error) {
	p, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}
	resp := newPostResponse(p)
	return &resp, nil
}

// UpdateContent меняет текст поста.
func (s *PostService) UpdateContent(ctx context.Context, postID int64, req UpdateContentRequest) (*PostResponse, error) {
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := p.UpdateContent(req.Content); err != nil {
		return nil, err
	}

	if err := s.posts.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, postID)

	resp := newPostResponse(p)
	return &resp, nil
}

// DeletePost удаляет пост вместе с комментариями.
func (s *PostService) DeletePost(ctx context.Context, postID int64) error {
	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}
	s.invalidate(ctx, postID)

	s.log.InfoContext(ctx, "post deleted", logger.PostID(postID))
	return nil
}

// GetPostList возвращает посты доски, новые первыми.
func (s *PostService) GetPostList(ctx context.Context, boardID int64) (*PostListResponse, error) {
	if _, err := s.boards.GetByID(ctx, boardID); err != nil {
		return nil, err
	}

	posts, err := s.posts.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	resp := &PostListResponse{
		BoardID: boardID,
		Count:   len(posts),
		Posts:   make([]PostResponse, 0, len(posts)),
	}
	for _, p := range posts {
		resp.Posts = append(resp.Posts, newPostResponse(p))
	}
	return resp, nil
}

// load читает пост через кэш (cache-aside).
func (s *PostService) load(ctx context.Context, postID int64) (*post.Post, error) {
	if s.cache != nil {
		p, ok, err := s.cache.Get(ctx, postID)
		if err != nil {
			logCacheFailure(ctx, s.log, "post cache read failed", postID, err)
		} else if ok {
			return p, nil
		}
	}

	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, p); err != nil {
			logCacheFailure(ctx, s.log, "post cache write failed", postID, err)
		}
	}
	return p, nil
}

func (s *PostService) invalidate(ctx context.Context, postID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, postID); err != nil {
		logCacheFailure(ctx, s.log, "post cache invalidation failed", postID, err)
	}
}

// logCacheFailure логирует ошибку кэша. Отказы открытого breaker - на уровне Debug.
func logCacheFailure(ctx context.Context, log *slog.Logger, msg string, postID int64, err error) {
	level := slog.LevelWarn
	if circuitbreaker.IsRejected(err) {
		level = slog.LevelDebug
	}
	log.Log(ctx, level, msg, logger.PostID(postID), logger.Err(err))
}
