package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/blogsmith/blogsmith/authsession"
	"github.com/go-chi/chi/v5"
)

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	principal, ok := authsession.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	post, err := s.blog.CreatePost(r.Context(), principal.UserID, req.Title, req.Content)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.blog.GetPost(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	posts, err := s.blog.ListPosts(r.Context(), limit, offset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	principal, ok := authsession.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	post, err := s.blog.UpdatePost(r.Context(), principal.UserID, chi.URLParam(r, "postID"), req.Title, req.Content)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	principal, ok := authsession.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	if err := s.blog.DeletePost(r.Context(), principal.UserID, chi.URLParam(r, "postID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type commentRequest struct {
	Reply string `json:"reply"`
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	principal, ok := authsession.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	comment, err := s.blog.AddComment(r.Context(), principal.UserID, chi.URLParam(r, "postID"), req.Reply)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.blog.ListComments(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}
