package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sandevgo/veritas/internal/config"
	"github.com/sandevgo/veritas/internal/service/relay"
	"github.com/sandevgo/veritas/pkg/log"
)

// Server exposes the relay over HTTP: POST /new_session, /history and the
// streaming /chat endpoint.
type Server struct {
	cfg   *config.ServerConfig
	relay *relay.Relay
	srv   *http.Server
}

func NewServer(ctx context.Context, cfg *config.ServerConfig, rly *relay.Relay) *Server {
	if !config.IsDebug() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:   cfg,
		relay: rly,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(ctx))
	router.Use(cors.New(corsConfig(cfg)))

	router.POST("/new_session", s.handleNewSession)
	router.POST("/history", s.handleHistory)
	router.POST("/chat", s.handleChat)

	s.srv = &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	log.FromCtx(ctx).Info().Strs("origins", cfg.AllowOrigins).Msg("CORS configured")
	return s
}

func corsConfig(cfg *config.ServerConfig) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{http.MethodPost, http.MethodOptions}
	c.AllowHeaders = []string{"Origin", "Content-Type"}
	if len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*" {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowOrigins
	}
	return c
}

// requestLogger carries the process logger into each request context so
// handlers and everything below them can use log.FromCtx.
func requestLogger(base context.Context) gin.HandlerFunc {
	logger := log.FromCtx(base)
	return func(c *gin.Context) {
		ctx := logger.WithContext(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.cfg.ListenAddr).Msg("starting http server")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
