package http

import (
	"github.com/gin-gonic/gin"

	"cyber-doctor/internal/chat"
	pkgLog "cyber-doctor/pkg/log"
)

// Handler is the HTTP delivery of the chat domain.
type Handler interface {
	Ask(c *gin.Context)
	History(c *gin.Context)
	Reset(c *gin.Context)
}

// Config holds upload and file serving locations.
type Config struct {
	UploadDir string
	MaxBytes  int64
	// FilesDir is served under /files; generated media below it get a URL.
	FilesDir string
}

type handler struct {
	l   pkgLog.Logger
	uc  chat.UseCase
	cfg Config
}

// New creates a new HTTP handler for the chat domain.
func New(l pkgLog.Logger, uc chat.UseCase, cfg Config) Handler {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultMaxBytes
	}
	return &handler{
		l:   l,
		uc:  uc,
		cfg: cfg,
	}
}
