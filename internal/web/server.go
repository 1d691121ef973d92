// Package web serves the matchmaker form and its JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrbane10/AI-CV-MatchMaker/internal/dataset"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/matching"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/resume"
)

const (
	DefaultListen      = ":8501"
	DefaultMaxUploadMB = 16

	readHeaderTimeout = 10 * time.Second
)

//go:embed templates/*.html
var templatesFS embed.FS

// Matcher runs the matching workflow for one request.
type Matcher interface {
	RunSingle(ctx context.Context, r resume.Resume, link string) (*matching.SingleResult, error)
	RunBatch(ctx context.Context, r resume.Resume, jobs io.Reader) (*dataset.Dataset, error)
}

type Server struct {
	matcher        Matcher
	logger         *zap.Logger
	maxUploadBytes int64
	engine         *gin.Engine
	httpServer     *http.Server
	listenAddr     string
}

func NewServer(matcher Matcher, logger *zap.Logger, listen string, maxUploadMB int) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if listen == "" {
		listen = DefaultListen
	}
	if maxUploadMB <= 0 {
		maxUploadMB = DefaultMaxUploadMB
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		matcher:        matcher,
		logger:         logger,
		maxUploadBytes: int64(maxUploadMB) << 20,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))
	engine.MaxMultipartMemory = s.maxUploadBytes
	engine.SetHTMLTemplate(tmpl)

	engine.GET("/", s.index)
	engine.POST("/match", s.limitBody, s.matchPage)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}

	api := engine.Group("/api/v1")
	api.Use(cors.New(corsConfig))
	{
		api.GET("/health", s.health)
		api.POST("/match", s.limitBody, s.matchAPI)
	}

	s.engine = engine
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr is the bound address once started, the configured one before.
func (s *Server) Addr() string {
	if s.listenAddr != "" {
		return s.listenAddr
	}
	return s.httpServer.Addr
}

// Start binds the listen address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}

	s.listenAddr = ln.Addr().String()
	s.logger.Info("web server listening", zap.String("addr", s.listenAddr))
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("web server stopped", zap.Error(err))
		}
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("web server shutting down")
	return s.httpServer.Shutdown(ctx)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		logger.Info("http request", fields...)
	}
}
