package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Adda-Baaj/tour-of-heroes/internal/config"
	"github.com/Adda-Baaj/tour-of-heroes/internal/logger"
	"github.com/Adda-Baaj/tour-of-heroes/internal/mockapi"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 15 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Server is the mock heroes API runtime.
type Server struct {
	cfg  *config.Config
	api  *mockapi.Server
	repo mockapi.Repository
	log  logger.Logger
}

// NewServer opens the repository, seeds it when empty and builds the router.
func NewServer(ctx context.Context, cfg *config.Config, log logger.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if strings.EqualFold(cfg.Env, "production") {
		gin.SetMode(gin.ReleaseMode)
	}

	repo, err := mockapi.NewRepository(cfg.ServerStorage, cfg.ServerSQLitePath)
	if err != nil {
		return nil, fmt.Errorf("init repository: %w", err)
	}

	seed := mockapi.DefaultHeroes()
	if strings.TrimSpace(cfg.ServerSeedFile) != "" {
		if seed, err = mockapi.LoadSeed(cfg.ServerSeedFile); err != nil {
			_ = repo.Close()
			return nil, fmt.Errorf("load seed: %w", err)
		}
	}
	seeded, err := mockapi.Seed(ctx, repo, seed)
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("seed repository: %w", err)
	}
	log.InfoObj("repository initialized", "repository_meta", map[string]any{
		"storage": cfg.ServerStorage,
		"seeded":  seeded,
	})

	api, err := mockapi.NewServer(repo, log, mockapi.WithPath(cfg.HeroesPath))
	if err != nil {
		_ = repo.Close()
		return nil, err
	}

	return &Server{cfg: cfg, api: api, repo: repo, log: log}, nil
}

// Handler exposes the router for in-process use.
func (s *Server) Handler() http.Handler { return s.api }

// Run serves until ctx is cancelled, then shuts down gracefully and closes
// the repository.
func (s *Server) Run(ctx context.Context) error {
	if s == nil || s.api == nil {
		return fmt.Errorf("server is not initialized")
	}
	defer s.closeRepo()

	srv := &http.Server{
		Addr:         s.cfg.ServerAddr,
		Handler:      s.api,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.InfoObj("mock api listening", "server_meta", map[string]any{
			"addr": srv.Addr,
			"path": s.api.Path(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.InfoObj("mock api shutting down", "reason", context.Cause(gctx).Error())
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) closeRepo() {
	if err := s.repo.Close(); err != nil {
		s.log.ErrorObj("repository close failed", "error", err.Error())
	}
}
