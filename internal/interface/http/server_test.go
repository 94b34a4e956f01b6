package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efub/community-board/internal/application/service"
	"github.com/efub/community-board/internal/infrastructure/persistence/sqlite"
	"github.com/efub/community-board/internal/interface/http/health"
	"github.com/efub/community-board/pkg/logger"
)

// envelope mirrors JSONResponse with a typed payload.
type envelope[T any] struct {
	Success   bool      `json:"success"`
	Data      T         `json:"data"`
	Error     *APIError `json:"error"`
	RequestID string    `json:"request_id"`
}

type testEnv struct {
	srv      *Server
	handler  http.Handler
	db       *sqlite.Database
	registry *prometheus.Registry
}

func newTestEnv(t *testing.T, mutate ...func(*Config)) *testEnv {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sqlite.Open(sqlite.MemoryDSN("http_" + name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logger.Discard()
	hash := func(p string) (string, error) { return "hashed:" + p, nil }

	checks := health.NewComposite("test")
	checks.AddPinger("database", db)

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0
	for _, m := range mutate {
		m(&cfg)
	}

	registry := prometheus.NewRegistry()
	srv := NewServer(cfg, Dependencies{
		Members:  service.NewMemberService(db.Members(), hash, log),
		Boards:   service.NewBoardService(db.Boards(), db.Members(), db.Posts(), nil, log),
		Posts:    service.NewPostService(db.Posts(), db.Boards(), db.Members(), nil, log),
		Comments: service.NewCommentService(db.Comments(), db.Posts(), db.Members(), log),
		Health:   checks,
		Registry: registry,
		Logger:   log,
		Version:  "test",
	})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	return &testEnv{srv: srv, handler: srv.Handler(), db: db, registry: registry}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

var memberSeq atomic.Int64

func (e *testEnv) createMember(t *testing.T, nickname string) service.MemberResponse {
	t.Helper()

	n := memberSeq.Add(1)
	rec := e.do(t, http.MethodPost, "/members", service.MemberRequest{
		StudentID:  fmt.Sprintf("2025%04d", n),
		University: "Ewha",
		Nickname:   nickname,
		Email:      fmt.Sprintf("user%d@test.com", n),
		Password:   "Aa123456789000!@",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[service.MemberResponse](t, rec).Data
}

// ─────────────────────────────────────────────────────────────────────────────
// Members
// ─────────────────────────────────────────────────────────────────────────────

func TestCreateMember(t *testing.T) {
	env := newTestEnv(t)

	m := env.createMember(t, "란란란")

	assert.Positive(t, m.MemberID)
	assert.Equal(t, "란란란", m.Nickname)
	assert.Equal(t, "registered", m.Status)
}

func TestCreateMember_Conflict(t *testing.T) {
	env := newTestEnv(t)
	req := service.MemberRequest{
		StudentID: "2025", University: "Ewha", Nickname: "란란란",
		Email: "rann@test.com", Password: "Aa123456789000!@",
	}

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/members", req).Code)

	rec := env.do(t, http.MethodPost, "/members", req)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, codeConflict, decode[any](t, rec).Error.Code)
}

func TestCreateMember_BadRequests(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/members", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, codeInvalidRequest, decode[any](t, rec).Error.Code)

	rec = env.do(t, http.MethodPost, "/members", service.MemberRequest{
		StudentID: "1", University: "Ewha", Nickname: "x", Email: "bad", Password: "Aa123456789000!@",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, codeValidation, decode[any](t, rec).Error.Code)
}

func TestSearchMembers(t *testing.T) {
	env := newTestEnv(t)
	rann := env.createMember(t, "Rann")
	annRan := env.createMember(t, "annRan")
	env.createMember(t, "Bob")

	rec := env.do(t, http.MethodGet, "/members?nickname=ann", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[service.MemberListResponse](t, rec).Data
	assert.Equal(t, 2, got.Count)
	require.Len(t, got.Members, 2)
	assert.Equal(t, annRan.MemberID, got.Members[0].MemberID)
	assert.Equal(t, rann.MemberID, got.Members[1].MemberID)

	rec = env.do(t, http.MethodGet, "/members?nickname=ANN", nil)
	assert.Equal(t, 2, decode[service.MemberListResponse](t, rec).Data.Count)

	rec = env.do(t, http.MethodGet, "/members", nil)
	all := decode[service.MemberListResponse](t, rec).Data
	assert.Equal(t, 3, all.Count)
	assert.Greater(t, all.Members[0].MemberID, all.Members[2].MemberID)

	rec = env.do(t, http.MethodGet, "/members?nickname=zzz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"members":[]`)
	assert.Equal(t, 0, decode[service.MemberListResponse](t, rec).Data.Count)
}

func TestSearchMembers_QueryValueIsNotTrimmed(t *testing.T) {
	env := newTestEnv(t)
	env.createMember(t, "annRan")
	spaced := env.createMember(t, "x ann y")

	rec := env.do(t, http.MethodGet, "/members?nickname=%20ann%20", nil)
	got := decode[service.MemberListResponse](t, rec).Data

	require.Equal(t, 1, got.Count)
	assert.Equal(t, spaced.MemberID, got.Members[0].MemberID)
}

func TestGetMember(t *testing.T) {
	env := newTestEnv(t)
	m := env.createMember(t, "란란란")

	rec := env.do(t, http.MethodGet, fmt.Sprintf("/members/%d", m.MemberID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "란란란", decode[service.MemberResponse](t, rec).Data.Nickname)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/members/999", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/members/abc", nil).Code)
}

func TestUpdateAndWithdrawMember(t *testing.T) {
	env := newTestEnv(t)
	m := env.createMember(t, "란란란")

	rec := env.do(t, http.MethodPatch, fmt.Sprintf("/members/profile/%d", m.MemberID),
		service.UpdateMemberRequest{Nickname: "new란"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new란", decode[service.MemberResponse](t, rec).Data.Nickname)

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/members/%d", m.MemberID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, msgMemberWithdrawn, decode[string](t, rec).Data)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/members/%d", m.MemberID), nil)
	assert.Equal(t, "unregistered", decode[service.MemberResponse](t, rec).Data.Status)

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/members/profile/%d", m.MemberID),
		service.UpdateMemberRequest{Nickname: "again"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Boards, posts, comments
// ─────────────────────────────────────────────────────────────────────────────

func TestBoardPostCommentFlow(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createMember(t, "owner")
	writer := env.createMember(t, "writer")

	rec := env.do(t, http.MethodPost, "/boards", service.BoardRequest{OwnerID: owner.MemberID, Name: "free", Notice: "hello"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	b := decode[service.BoardResponse](t, rec).Data

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/boards/%d", b.BoardID),
		service.NoticeRequest{OwnerID: writer.MemberID, Notice: "hijack"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/boards/%d", b.BoardID),
		service.NoticeRequest{OwnerID: owner.MemberID, Notice: "new notice"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new notice", decode[service.BoardResponse](t, rec).Data.Notice)

	var postIDs []int64
	for _, content := range []string{"first", "second"} {
		rec = env.do(t, http.MethodPost, "/posts", service.PostCreateRequest{
			BoardID: b.BoardID, AuthorID: writer.MemberID, Anonymous: true, Content: content,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		p := decode[service.PostResponse](t, rec).Data
		assert.Equal(t, writer.MemberID, p.AuthorID)
		postIDs = append(postIDs, p.PostID)
	}

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/posts/%d/list", b.BoardID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[service.PostListResponse](t, rec).Data
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, postIDs[1], list.Posts[0].PostID)

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/posts/%d", postIDs[0]), service.UpdateContentRequest{Content: "edited"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "edited", decode[service.PostResponse](t, rec).Data.Content)

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/posts/%d/comments", postIDs[0]),
		service.CommentRequest{WriterID: owner.MemberID, Content: "nice"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/posts/%d/comments", postIDs[0]), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pc := decode[service.PostCommentResponse](t, rec).Data
	assert.Equal(t, 1, pc.Count)
	assert.Equal(t, "nice", pc.CommentList[0].Content)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/members/%d/comments", owner.MemberID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[service.MemberCommentResponse](t, rec).Data.Count)

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/posts/%d", postIDs[0]), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, msgPostDeleted, decode[string](t, rec).Data)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, fmt.Sprintf("/posts/%d", postIDs[0]), nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, fmt.Sprintf("/posts/%d", postIDs[0]), nil).Code)

	boardPath := fmt.Sprintf("/boards/%d", b.BoardID)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodDelete, boardPath, nil).Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodDelete, fmt.Sprintf("%s?ownerId=%d", boardPath, writer.MemberID), nil).Code)

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("%s?ownerId=%d", boardPath, owner.MemberID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, msgBoardDeleted, decode[string](t, rec).Data)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, boardPath, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, fmt.Sprintf("/posts/%d", postIDs[1]), nil).Code)
}

func TestCreatePost_UnknownBoard(t *testing.T) {
	env := newTestEnv(t)
	m := env.createMember(t, "writer")

	rec := env.do(t, http.MethodPost, "/posts", service.PostCreateRequest{BoardID: 42, AuthorID: m.MemberID, Content: "x"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "board not found", decode[any](t, rec).Error.Message)
}

// ─────────────────────────────────────────────────────────────────────────────
// Infrastructure endpoints and middleware
// ─────────────────────────────────────────────────────────────────────────────

func TestProbes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[health.Status](t, rec).Data
	assert.True(t, status.Healthy)
	assert.True(t, status.Checks["database"].Healthy)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/ready", nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/live", nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/nowhere", nil).Code)
}

func TestReady_Unhealthy(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.db.Close())

	rec := env.do(t, http.MethodGet, "/ready", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_ready", decode[any](t, rec).Error.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.createMember(t, "Rann")
	env.do(t, http.MethodGet, "/members?nickname=ann", nil)

	rec := env.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "community_http_requests_total")
	assert.Contains(t, body, `route="GET /members"`)
	assert.Contains(t, body, "community_http_request_duration_seconds")
}

func TestRequestID(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(HeaderRequestID))
	assert.Equal(t, "req-123", decode[any](t, rec).RequestID)

	rec = env.do(t, http.MethodGet, "/live", nil)
	assert.Len(t, rec.Header().Get(HeaderRequestID), 36)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, func(c *Config) { c.AllowedOrigins = []string{"https://board.example"} })

	req := httptest.NewRequest(http.MethodOptions, "/members", nil)
	req.Header.Set("Origin", "https://board.example")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://board.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/live", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, func(c *Config) { c.RateLimitPerMinute = 2 })

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/live", nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/live", nil).Code)

	rec := env.do(t, http.MethodGet, "/live", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestRecoveryMiddleware(t *testing.T) {
	env := newTestEnv(t)
	h := env.srv.recoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, codeInternal, decode[any](t, rec).Error.Code)
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", getClientIP(req))

	req.Header.Set("X-Real-IP", "10.0.0.2")
	assert.Equal(t, "10.0.0.2", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.3")
	assert.Equal(t, "1.2.3.4", getClientIP(req))
}
