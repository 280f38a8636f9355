package mockapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Adda-Baaj/tour-of-heroes/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultPath = "api/heroes"

// Server is the mock heroes API. It implements http.Handler.
type Server struct {
	engine *gin.Engine
	repo   Repository
	log    logger.Logger
	path   string
}

// Option customizes a Server.
type Option func(*Server)

// WithPath mounts the heroes collection at path (default "api/heroes").
func WithPath(path string) Option {
	return func(s *Server) {
		if p := strings.Trim(strings.TrimSpace(path), "/"); p != "" {
			s.path = p
		}
	}
}

// NewServer builds the router over repo.
func NewServer(repo Repository, log logger.Logger, opts ...Option) (*Server, error) {
	if repo == nil {
		return nil, errors.New("mock api repository must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	s := &Server{repo: repo, log: log, path: defaultPath}
	for _, opt := range opts {
		opt(s)
	}

	engine := gin.New()
	engine.RedirectTrailingSlash = false
	engine.Use(gin.Recovery())
	engine.Use(s.requestLogger())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	heroes := engine.Group("/" + s.path)
	heroes.GET("", s.listHeroes)
	heroes.GET("/:id", s.getHero)
	heroes.POST("", s.createHero)
	heroes.PUT("", s.updateHero)
	heroes.PUT("/:id", s.updateHero)
	heroes.DELETE("/:id", s.deleteHero)

	s.engine = engine
	return s, nil
}

// ServeHTTP ignores trailing slashes so "api/heroes/?name=x" reaches the collection.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if p := r.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
		r.URL.Path = strings.TrimRight(p, "/")
		if r.URL.Path == "" {
			r.URL.Path = "/"
		}
		r.URL.RawPath = ""
	}
	s.engine.ServeHTTP(w, r)
}

// Path returns the collection path without slashes.
func (s *Server) Path() string { return s.path }

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		requestDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())

		s.log.DebugObj("mock api request", "request", map[string]any{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"query":      c.Request.URL.RawQuery,
			"status":     status,
			"elapsed_ms": elapsed.Milliseconds(),
		})
	}
}
