package http

import (
	"github.com/gin-gonic/gin"

	"cyber-doctor/internal/chat"
	"cyber-doctor/pkg/response"
)

// Ask godoc
// @Summary     Ask the doctor
// @Description Answers one message as a server-sent event stream. Accepts JSON or multipart with files.
// @Description Events: intent, delta, media, links, done, error.
// @Tags        Chat
// @Accept      json,mpfd
// @Produce     text/event-stream
// @Param       body       body     askReq true  "Message"
// @Param       session_id formData string false "Session id (generated when missing)"
// @Param       message    formData string false "Message text"
// @Param       files      formData file   false "Images or documents"
// @Success     200 {string} string "SSE stream"
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     413 {object} response.Resp "Upload too large"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/chat [POST]
func (h *handler) Ask(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processAskReq(c)
	if err != nil {
		h.l.Warnf(ctx, "chat.http.Ask: processAskReq: %v", err)
		response.Error(c, err, nil)
		return
	}

	reply, err := h.uc.Ask(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "chat.http.Ask: uc.Ask: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	h.streamReply(c, req.SessionID, reply)
}

// streamReply writes reply as server-sent events. A client that goes away
// stops the stream, which also leaves the turn out of history.
func (h *handler) streamReply(c *gin.Context, sessionID string, reply chat.Reply) {
	ctx := c.Request.Context()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	send := func(event string, data any) bool {
		if ctx.Err() != nil {
			return false
		}
		c.SSEvent(event, data)
		c.Writer.Flush()
		return true
	}

	if !send(eventIntent, intentEvent{Intent: reply.Intent.String()}) {
		return
	}
	if reply.Prefix != "" {
		send(eventDelta, deltaEvent{Text: reply.Prefix})
	}

	if reply.Stream != nil {
		defer reply.Stream.Close()
		for reply.Stream.Next() {
			if !send(eventDelta, deltaEvent{Text: reply.Stream.Current()}) {
				h.l.Infof(ctx, "chat.http.streamReply: client left session %s", sessionID)
				return
			}
		}
		if err := reply.Stream.Err(); err != nil {
			h.l.Errorf(ctx, "chat.http.streamReply: stream: %v", err)
			send(eventError, errorEvent{Message: response.DefaultErrorMessage})
			return
		}
	} else if reply.Text != "" && (reply.Media == nil || reply.Text != reply.Media.Location) {
		send(eventDelta, deltaEvent{Text: reply.Text})
	}

	if reply.Media != nil {
		if url, ok := h.publicURL(reply.Media.Location); ok {
			send(eventMedia, mediaEvent{Kind: reply.Media.Kind, URL: url})
		} else {
			h.l.Warnf(ctx, "chat.http.streamReply: %s is not under %s", reply.Media.Location, h.cfg.FilesDir)
		}
	}
	for _, u := range reply.ImageURLs {
		if url, ok := h.publicURL(u); ok {
			send(eventMedia, mediaEvent{Kind: chat.MediaImage, URL: url})
		}
	}
	if len(reply.Links) > 0 {
		send(eventLinks, newLinksEvent(reply.Links))
	}
	send(eventDone, doneEvent{SessionID: sessionID})
}

// History godoc
// @Summary     Session history
// @Description Returns the stored turns of a session, oldest first.
// @Tags        Chat
// @Produce     json
// @Param       id path string true "Session ID"
// @Success     200 {object} historyResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/chat/sessions/{id}/history [GET]
func (h *handler) History(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.Param("id")
	turns, err := h.uc.History(ctx, id)
	if err != nil {
		h.l.Errorf(ctx, "chat.http.History: uc.History: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newHistoryResp(id, turns))
}

// Reset godoc
// @Summary     Reset session
// @Description Clears the history of a session.
// @Tags        Chat
// @Produce     json
// @Param       id path string true "Session ID"
// @Success     200 {object} response.Resp "OK"
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/chat/sessions/{id} [DELETE]
func (h *handler) Reset(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.Param("id")
	if err := h.uc.Reset(ctx, id); err != nil {
		h.l.Errorf(ctx, "chat.http.Reset: uc.Reset: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, nil)
}
