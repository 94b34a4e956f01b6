package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efub/community-board/internal/domain/board"
	"github.com/efub/community-board/internal/domain/member"
	"github.com/efub/community-board/internal/domain/post"
	"github.com/efub/community-board/internal/domain/shared"
	"github.com/efub/community-board/pkg/circuitbreaker"
	"github.com/efub/community-board/pkg/logger"
)

func boardFound() *fakeBoardRepo {
	return &fakeBoardRepo{
		GetByIDFunc: func(_ context.Context, id int64) (*board.Board, error) {
			if id == 1 {
				return testBoard(), nil
			}
			return nil, board.ErrBoardNotFound
		},
	}
}

func authorFound() *fakeMemberRepo {
	return &fakeMemberRepo{
		GetByIDFunc: func(_ context.Context, id int64) (*member.Member, error) {
			if id == 1 {
				return testAuthor(), nil
			}
			return nil, member.ErrMemberNotFound
		},
	}
}

func TestPostService_CreatePost(t *testing.T) {
	posts := &fakePostRepo{
		CreateFunc: func(_ context.Context, p *post.Post) error {
			p.ID = 1
			return nil
		},
	}
	svc := NewPostService(posts, boardFound(), authorFound(), nil, logger.Discard())

	resp, err := svc.CreatePost(context.Background(), PostCreateRequest{
		BoardID: 1, Anonymous: false, AuthorID: 1, Content: "내용임임임",
	})
	require.NoError(t, err)

	assert.Equal(t, "내용임임임", resp.Content)
	assert.Equal(t, int64(1), resp.AuthorID)
	assert.Equal(t, int64(1), resp.BoardID)
	assert.Equal(t, int64(1), resp.PostID)
}

func TestPostService_CreatePost_BoardMissing(t *testing.T) {
	svc := NewPostService(&fakePostRepo{}, boardFound(), authorFound(), nil, logger.Discard())

	_, err := svc.CreatePost(context.Background(), PostCreateRequest{BoardID: 99, AuthorID: 1, Content: "x"})

	assert.ErrorIs(t, err, board.ErrBoardNotFound)
	assert.True(t, shared.IsNotFound(err))
}

func TestPostService_CreatePost_AuthorMissing(t *testing.T) {
	svc := NewPostService(&fakePostRepo{}, boardFound(), authorFound(), nil, logger.Discard())

	_, err := svc.CreatePost(context.Background(), PostCreateRequest{BoardID: 1, AuthorID: 42, Content: "x"})

	assert.ErrorIs(t, err, member.ErrMemberNotFound)
}

func TestPostService_CreatePost_EmptyContent(t *testing.T) {
	svc := NewPostService(&fakePostRepo{}, boardFound(), authorFound(), nil, logger.Discard())

	_, err := svc.CreatePost(context.Background(), PostCreateRequest{BoardID: 1, AuthorID: 1, Content: "  "})

	assert.True(t, shared.IsValidation(err))
}

func TestPostService_UpdateContent(t *testing.T) {
	saved := 0
	posts := &fakePostRepo{
		GetByIDFunc: func(context.Context, int64) (*post.Post, error) { return testPost(), nil },
		UpdateFunc: func(_ context.Context, p *post.Post) error {
			saved++
			return nil
		},
	}
	cache := newFakePostCache()
	svc := NewPostService(posts, boardFound(), authorFound(), cache, logger.Discard())

	resp, err := svc.UpdateContent(context.Background(), 1, UpdateContentRequest{Content: "바꾼 내용입니다!"})
	require.NoError(t, err)

	assert.Equal(t, "바꾼 내용입니다!", resp.Content)
	assert.Equal(t, 1, saved)
	assert.Equal(t, []int64{1}, cache.invalidated)
}

func TestPostService_GetPost_UsesCache(t *testing.T) {
	reads := 0
	posts := &fakePostRepo{
		GetByIDFunc: func(context.Context, int64) (*post.Post, error) {
			reads++
			return testPost(), nil
		},
	}
	cache := newFakePostCache()
	svc := NewPostService(posts, boardFound(), authorFound(), cache, logger.Discard())

	for range 3 {
		resp, err := svc.GetPost(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "내용임임임", resp.Content)
		assert.Equal(t, int64(1), resp.AuthorID)
	}

	assert.Equal(t, 1, reads)
}

func TestPostService_GetPost_CacheErrorFallsBackToRepository(t *testing.T) {
	for name, cacheErr := range map[string]error{
		"backend error":  errors.New("redis down"),
		"breaker opened": circuitbreaker.ErrCircuitOpen,
	} {
		t.Run(name, func(t *testing.T) {
			posts := &fakePostRepo{
				GetByIDFunc: func(context.Context, int64) (*post.Post, error) { return testPost(), nil },
			}
			cache := newFakePostCache()
			cache.getErr = cacheErr
			svc := NewPostService(posts, boardFound(), authorFound(), cache, logger.Discard())

			resp, err := svc.GetPost(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, int64(1), resp.PostID)
		})
	}
}

func TestPostService_GetPostList(t *testing.T) {
	posts := &fakePostRepo{
		ListByBoardFunc: func(_ context.Context, boardID int64) ([]*post.Post, error) {
			assert.Equal(t, int64(1), boardID)
			return []*post.Post{testPost()}, nil
		},
	}
	svc := NewPostService(posts, boardFound(), authorFound(), nil, logger.Discard())

	resp, err := svc.GetPostList(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.BoardID)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, "내용임임임", resp.Posts[0].Content)
	assert.Equal(t, int64(1), resp.Posts[0].AuthorID)
}

func TestPostService_DeletePost(t *testing.T) {
	var deleted []int64
	posts := &fakePostRepo{
		DeleteFunc: func(_ context.Context, id int64) error {
			deleted = append(deleted, id)
			return nil
		},
	}
	cache := newFakePostCache()
	svc := NewPostService(posts, boardFound(), authorFound(), cache, logger.Discard())

	require.NoError(t, svc.DeletePost(context.Background(), 1))

	assert.Equal(t, []int64{1}, deleted)
	assert.Equal(t, []int64{1}, cache.invalidated)
}

func TestPostService_DeletePost_NotFound(t *testing.T) {
	posts := &fakePostRepo{
		DeleteFunc: func(context.Context, int64) error { return post.ErrPostNotFound },
	}
	cache := newFakePostCache()
	svc := NewPostService(posts, boardFound(), authorFound(), cache, logger.Discard())

	assert.ErrorIs(t, svc.DeletePost(context.Background(), 5), post.ErrPostNotFound)
	assert.Empty(t, cache.invalidated)
}
