package telegram

import (
	"github.com/gin-gonic/gin"

	"cyber-doctor/internal/chat"
	pkgLog "cyber-doctor/pkg/log"
	pkgTelegram "cyber-doctor/pkg/telegram"
)

// Handler is the interface for the Telegram delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)
}

type handler struct {
	l   pkgLog.Logger
	uc  chat.UseCase
	bot *pkgTelegram.Bot
}

// New creates a new Telegram delivery handler.
func New(l pkgLog.Logger, uc chat.UseCase, bot *pkgTelegram.Bot) Handler {
	return &handler{
		l:   l,
		uc:  uc,
		bot: bot,
	}
}
