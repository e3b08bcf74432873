package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	loginRoute          = "/auth/login"
	refreshRoute        = "/auth/refresh"
	logoutRoute         = "/auth/logout"
	forgotPasswordRoute = "/auth/forgot-password"
	registerRoute       = "/auth/register"
)

func (s *Server) initRoutes() {
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(s.recoverer)
	s.router.Use(s.cors)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	s.router.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post(loginRoute, s.handleLogin)
		r.Post(registerRoute, s.handleRegister)
		r.Post(forgotPasswordRoute, s.handleForgotPassword)
	})
	s.router.Post(refreshRoute, s.handleRefreshToken)

	s.router.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post(logoutRoute, s.handleLogout)
	})

	s.router.Route("/posts", func(r chi.Router) {
		r.Get("/", s.handleListPosts)
		r.Get("/{postID}", s.handleGetPost)
		r.Get("/{postID}/comments", s.handleListComments)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreatePost)
			r.Put("/{postID}", s.handleUpdatePost)
			r.Delete("/{postID}", s.handleDeletePost)
			r.Post("/{postID}/comments", s.handleAddComment)
		})
	})
}
