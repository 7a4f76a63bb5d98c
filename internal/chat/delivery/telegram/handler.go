package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"cyber-doctor/internal/chat"
	pkgResponse "cyber-doctor/pkg/response"
	pkgTelegram "cyber-doctor/pkg/telegram"
)

// HandleWebhook acknowledges the update at once and answers it in the
// background; Telegram retries webhooks that take too long.
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "telegram.HandleWebhook: parse update: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	if update.Message == nil || update.Message.Chat == nil {
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	msg := update.Message
	go func() {
		bgCtx := context.Background()
		if err := h.processMessage(bgCtx, msg); err != nil {
			h.l.Errorf(bgCtx, "telegram.processMessage: %v", err)
			_ = h.bot.SendMessage(msg.Chat.ID, msgFailed)
		}
	}()

	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

func (h *handler) processMessage(ctx context.Context, msg *pkgTelegram.Message) error {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		text = strings.TrimSpace(msg.Caption)
	}
	if text == "" {
		return nil
	}

	chatID := msg.Chat.ID
	sessionID := fmt.Sprintf("%s%d", sessionPrefix, chatID)

	switch text {
	case commandStart:
		return h.bot.SendMessage(chatID, msgWelcome)
	case commandHelp:
		return h.bot.SendMessage(chatID, msgHelp)
	case commandReset:
		if err := h.uc.Reset(ctx, sessionID); err != nil {
			return err
		}
		return h.bot.SendMessage(chatID, msgResetDone)
	}

	if err := h.bot.SendMessage(chatID, msgProcessing); err != nil {
		h.l.Warnf(ctx, "telegram.processMessage: send ack: %v", err)
	}

	reply, err := h.uc.Ask(ctx, chat.AskInput{SessionID: sessionID, Message: text})
	if err != nil {
		return err
	}

	body, err := drain(reply)
	if err != nil {
		return err
	}
	for _, part := range splitMessage(body, maxMessageLen) {
		if err := h.bot.SendMessage(chatID, part); err != nil {
			return err
		}
	}

	if reply.Media != nil {
		if err := h.sendMedia(chatID, *reply.Media); err != nil {
			return err
		}
	}
	for _, u := range reply.ImageURLs {
		if err := h.bot.SendPhoto(chatID, u, ""); err != nil {
			h.l.Warnf(ctx, "telegram.processMessage: send image %s: %v", u, err)
		}
	}
	return nil
}

// drain collects the displayed text of reply. A media location is not text.
func drain(reply chat.Reply) (string, error) {
	if reply.Stream == nil {
		if reply.Media != nil && reply.Text == reply.Media.Location {
			return "", nil
		}
		return reply.Text, nil
	}
	defer reply.Stream.Close()

	var b strings.Builder
	b.WriteString(reply.Prefix)
	for reply.Stream.Next() {
		b.WriteString(reply.Stream.Current())
	}
	if err := reply.Stream.Err(); err != nil {
		return "", fmt.Errorf("drain stream: %w", err)
	}
	return b.String(), nil
}

func (h *handler) sendMedia(chatID int64, m chat.Media) error {
	switch m.Kind {
	case chat.MediaImage:
		return h.bot.SendPhoto(chatID, m.Location, "")
	case mediaVideo:
		return h.bot.SendVideo(chatID, m.Location, "")
	case mediaAudio:
		return h.bot.SendAudio(chatID, m.Location)
	default:
		return h.bot.SendDocument(chatID, m.Location)
	}
}

// splitMessage cuts text into parts of at most limit runes.
func splitMessage(text string, limit int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	runes := []rune(text)
	var parts []string
	for len(runes) > limit {
		parts = append(parts, string(runes[:limit]))
		runes = runes[limit:]
	}
	return append(parts, string(runes))
}
