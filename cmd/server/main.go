package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blogsmith/blogsmith/authsession"
	"github.com/blogsmith/blogsmith/blog"
	blogpostgres "github.com/blogsmith/blogsmith/blog/postgres"
	"github.com/blogsmith/blogsmith/credentials"
	"github.com/blogsmith/blogsmith/internal/config"
	"github.com/blogsmith/blogsmith/internal/database"
	"github.com/blogsmith/blogsmith/internal/metrics"
	"github.com/blogsmith/blogsmith/notify"
	notifypostgres "github.com/blogsmith/blogsmith/notify/postgres"
	"github.com/blogsmith/blogsmith/server"
	"github.com/blogsmith/blogsmith/token"
	tokenpostgres "github.com/blogsmith/blogsmith/token/postgres"
	"github.com/blogsmith/blogsmith/token/remote"
	userpostgres "github.com/blogsmith/blogsmith/users/postgres"
	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run() error {
	cfg := config.New()
	setupLogging(cfg)
	displayAppname(cfg.GetAppName())

	db, err := database.Open(cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("database.Open: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.GetDatabaseURL()); err != nil {
		return fmt.Errorf("database.RunMigrations: %w", err)
	}

	userRepo := userpostgres.NewRepo(db)
	refreshRepo := tokenpostgres.NewRepo(db)
	resetRepo := notifypostgres.NewRepo(db)
	blogRepo := blogpostgres.NewRepo(db)

	manager, err := token.New(cfg, userRepo, refreshRepo, token.NewHMACSigner(cfg.GetTokenSecret()))
	if err != nil {
		return fmt.Errorf("token.New: %w", err)
	}

	// Grants go to the external token endpoint when one is configured;
	// bearer tokens are still verified locally against the shared secret.
	var tokenService authsession.TokenService = manager
	if endpoint := cfg.GetTokenEndpoint(); endpoint != "" {
		tokenService = remote.New(endpoint, endpoint+"/revoke")
	}

	notifier, err := notify.NewNotifier(cfg, userRepo, resetRepo, notify.NewSMTPMailer(cfg))
	if err != nil {
		return fmt.Errorf("notify.NewNotifier: %w", err)
	}

	sessions, err := authsession.NewService(cfg, credentials.NewBuilder(cfg), tokenService, userRepo, notifier)
	if err != nil {
		return fmt.Errorf("authsession.NewService: %w", err)
	}

	blogService, err := blog.NewService(blogRepo, userRepo)
	if err != nil {
		return fmt.Errorf("blog.NewService: %w", err)
	}

	srv, err := server.New(cfg, sessions, blogService, manager, metrics.NewCollector(), log.Logger)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	stopCleanup := startRevocationCleanup(manager)
	defer stopCleanup()

	httpServer := &http.Server{Addr: cfg.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

// startRevocationCleanup prunes expired entries from the revocation cache
// until the returned stop function is called.
func startRevocationCleanup(manager *token.Manager) func() {
	ticker := time.NewTicker(time.Hour)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				manager.CleanupRevokedTokens()
			case <-done:
				return
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
	}
}

func listenAndServe(server *http.Server) {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func setupLogging(cfg config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
