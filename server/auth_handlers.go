package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/blogsmith/blogsmith/authsession"
)

const apiTokenCookie = "api_token"

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result, err := s.sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.metrics.RecordLogin(outcomeFailure)
		s.writeError(w, err)
		return
	}

	s.metrics.RecordLogin(outcomeSuccess)
	s.setTokenCookie(w, result.AccessToken, result.ExpiresIn)
	writeJSON(w, http.StatusOK, result)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result, err := s.sessions.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		s.metrics.RecordRefresh(outcomeFailure)
		s.writeError(w, err)
		return
	}

	s.metrics.RecordRefresh(outcomeSuccess)
	s.setTokenCookie(w, result.AccessToken, result.ExpiresIn)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	status, err := s.sessions.Logout(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.metrics.RecordRevocation()
	s.clearTokenCookie(w)
	writeJSON(w, http.StatusOK, status)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	status, err := s.sessions.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.metrics.RecordResetRequest(string(status.Status))
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var input authsession.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result, err := s.sessions.Register(r.Context(), input)
	if err != nil {
		s.metrics.RecordRegistration(outcomeFailure)
		s.writeError(w, err)
		return
	}

	s.metrics.RecordRegistration(outcomeSuccess)
	s.setTokenCookie(w, result.AccessToken, result.ExpiresIn)
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) setTokenCookie(w http.ResponseWriter, accessToken string, expiresIn int) {
	http.SetCookie(w, &http.Cookie{
		Name:     apiTokenCookie,
		Value:    accessToken,
		Path:     "/",
		Expires:  time.Now().Add(time.Duration(expiresIn) * time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     apiTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
