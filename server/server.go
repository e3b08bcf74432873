// Package server exposes the auth session and blog services over a JSON HTTP
// API.
package server

import (
	"net/http"

	"github.com/blogsmith/blogsmith/authsession"
	"github.com/blogsmith/blogsmith/blog"
	"github.com/blogsmith/blogsmith/internal/config"
	"github.com/blogsmith/blogsmith/internal/metrics"
	"github.com/blogsmith/blogsmith/token"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Introspector resolves a bearer token to its claims. token.Manager satisfies
// it.
type Introspector interface {
	Introspect(rawToken string) (*token.Introspection, error)
}

type Server struct {
	router       chi.Router
	config       config.Config
	sessions     *authsession.Service
	blog         *blog.Service
	introspector Introspector
	metrics      *metrics.Collector
	logger       zerolog.Logger
	loginLimiter *ipRateLimiter
}

func New(
	cfg config.Config,
	sessions *authsession.Service,
	blogService *blog.Service,
	introspector Introspector,
	collector *metrics.Collector,
	logger zerolog.Logger,
) (*Server, error) {
	if sessions == nil {
		return nil, errors.New("[server.New] auth session service is required")
	}
	if blogService == nil {
		return nil, errors.New("[server.New] blog service is required")
	}
	if introspector == nil {
		return nil, errors.New("[server.New] introspector is required")
	}
	if collector == nil {
		return nil, errors.New("[server.New] metrics collector is required")
	}

	s := &Server{
		router:       chi.NewRouter(),
		config:       cfg,
		sessions:     sessions,
		blog:         blogService,
		introspector: introspector,
		metrics:      collector,
		logger:       logger,
		loginLimiter: newIPRateLimiter(cfg.GetLoginRatePerMinute(), cfg.GetLoginRateBurst()),
	}
	s.initRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
