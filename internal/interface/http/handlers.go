package http

import (
	"net/http"

	"github.com/efub/community-board/internal/application/service"
)

// Confirmation messages returned by the delete endpoints.
const (
	msgMemberWithdrawn = "성공적으로 탈퇴가 완료되었습니다."
	msgBoardDeleted    = "성공적으로 게시판 삭제가 완료되었습니다."
	msgPostDeleted     = "성공적으로 게시글 삭제가 완료되었습니다."
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"name":    "community-board",
		"version": s.deps.Version,
		"endpoints": map[string]string{
			"health":  "/health",
			"members": "/members",
			"boards":  "/boards",
			"posts":   "/posts",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.Health == nil {
		writeJSON(w, r, http.StatusOK, map[string]any{
			"status":  "healthy",
			"uptime":  s.Uptime().String(),
			"version": s.deps.Version,
		})
		return
	}

	status := s.deps.Health.Check(r.Context())
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, r, code, status)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Health != nil {
		if status := s.deps.Health.Check(r.Context()); !status.Healthy {
			writeJSONError(w, r, http.StatusServiceUnavailable, "not_ready", status.Message)
			return
		}
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// MEMBER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleCreateMember handles POST /members
func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var req service.MemberRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, r, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	resp, err := s.deps.Members.CreateMember(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, resp)
}

// handleSearchMembers handles GET /members?nickname=
// The value is passed through untouched; an absent or blank value lists everyone.
func (s *Server) handleSearchMembers(w http.ResponseWriter, r *http.Request) {
	resp, err := s.deps.Members.SearchMembers(r.Context(), r.URL.Query().Get("nickname"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// handleGetMember handles GET /members/{memberId}
func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "memberId")
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	resp, err := s.deps.Members.GetMember(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// handleUpdateMember handles PATCH /members/profile/{memberId}
func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "memberId")
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	var req service.UpdateMemberRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, r, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	resp, err := s.deps.Members.UpdateMember(r.Context(), id, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// handleWithdrawMember handles PATCH /members/{memberId}
func (s *Server) handleWithdrawMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "memberId")
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	if err := s.deps.Members.DeleteMember(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, msgMemberWithdrawn)
}

// handleGetMemberComments handles GET /members/{memberId}/comments
func (s *Server) handleGetMemberComments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "memberId")
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	resp, err := s.deps.Comments.GetMemberCommentList(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// ══════════════════════════════════════════════════════════════════════════════
// BOARD HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleCreateBoard handles POST /boards
func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	var req service.BoardRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, r, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	resp, err := s.deps.Boards.CreateBoard(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, resp)
}

// handleGetBoard handles GET /boards/{boardId}
func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "boardId")
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	resp, err := s.deps.Boards.GetBoard(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// handleUpdateNotice handles PATCH /boards/{boardId}
func (s *Server) handleUpdateNotice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "boardId")
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	var req service.NoticeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, r, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	resp, err := s.deps.Boards.UpdateNotice(r.Context(), id, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// handleDeleteBoard handles DELETE /boards/{boardId}?ownerId=
func (s *Server) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "boardId")
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}
	ownerID, err := parseID("ownerId", r.URL.Query().Get("ownerId"))
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	if err := s.deps.Boards.DeleteBoard(r.Context(), id, ownerID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, msgBoardDeleted)
}

// ══════════════════════════════════════════════════════════════════════════════
// POST HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleCreatePost handles POST /posts
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req service.PostCreateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, r, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	resp, err := s.deps.Posts.CreatePost(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, resp)
}

// handleGetPost handles GET /posts/{postId}
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postId")
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	resp, err := s.deps.Posts.GetPost(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// handleUpdatePost handles PATCH /posts/{postId}
func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postId")
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	var req service.UpdateContentRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, r, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	resp, err := s.deps.Posts.UpdateContent(r.Context(), id, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// handleDeletePost handles DELETE /posts/{postId}
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postId")
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	if err := s.deps.Posts.DeletePost(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, msgPostDeleted)
}

// handleGetPostList handles GET /posts/{boardId}/list
func (s *Server) handleGetPostList(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "boardId")
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	resp, err := s.deps.Posts.GetPostList(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// ══════════════════════════════════════════════════════════════════════════════
// COMMENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleCreateComment handles POST /posts/{postId}/comments
func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postId")
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	var req service.CommentRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, r, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	resp, err := s.deps.Comments.CreateComment(r.Context(), id, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, resp)
}

// handleGetPostComments handles GET /posts/{postId}/comments
func (s *Server) handleGetPostComments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postId")
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	resp, err := s.deps.Comments.GetPostCommentList(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}
