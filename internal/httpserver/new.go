package httpserver

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	chatHTTP "cyber-doctor/internal/chat/delivery/http"
	chatTelegram "cyber-doctor/internal/chat/delivery/telegram"
	"cyber-doctor/internal/middleware"
	"cyber-doctor/pkg/log"
)

// ReadyCheck reports whether a dependency can serve traffic.
type ReadyCheck func(ctx context.Context) error

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string
	filesDir    string
	mw          middleware.Middleware

	// Chat domain
	chatHandler     chatHTTP.Handler
	telegramHandler chatTelegram.Handler

	readyChecks map[string]ReadyCheck
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger         log.Logger
	Port           int
	Mode           string
	Environment    string
	FilesDir       string
	RequestsPerMin int

	// Chat domain
	ChatHandler     chatHTTP.Handler
	TelegramHandler chatTelegram.Handler

	// ReadyChecks run on /ready, keyed by dependency name.
	ReadyChecks map[string]ReadyCheck
}

// New creates a new HTTPServer instance with its routes mapped.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.New(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		filesDir:        cfg.FilesDir,
		mw:              middleware.New(logger, cfg.RequestsPerMin),
		chatHandler:     cfg.ChatHandler,
		telegramHandler: cfg.TelegramHandler,
		readyChecks:     cfg.ReadyChecks,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}
	if err := srv.mapHandlers(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.chatHandler == nil {
		return errors.New("chat handler is required")
	}
	return nil
}

// Handler exposes the router, mainly for tests.
func (srv HTTPServer) Handler() *gin.Engine {
	return srv.gin
}
