package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyber-doctor/internal/chat"
	"cyber-doctor/internal/model"
	"cyber-doctor/pkg/llmprovider"
	pkgLog "cyber-doctor/pkg/log"
	"cyber-doctor/pkg/response"
)

type fakeChat struct {
	reply    chat.Reply
	err      error
	input    chat.AskInput
	turns    []model.Turn
	resetErr error
	resetID  string
}

func (f *fakeChat) Ask(_ context.Context, in chat.AskInput) (chat.Reply, error) {
	f.input = in
	return f.reply, f.err
}

func (f *fakeChat) History(_ context.Context, _ string) ([]model.Turn, error) {
	return f.turns, nil
}

func (f *fakeChat) Reset(_ context.Context, id string) error {
	f.resetID = id
	return f.resetErr
}

type sseEvent struct {
	name string
	data map[string]any
}

func parseSSE(t *testing.T, body string) []sseEvent {
	t.Helper()
	var events []sseEvent
	for _, block := range strings.Split(body, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		var ev sseEvent
		for _, line := range strings.Split(block, "\n") {
			switch {
			case strings.HasPrefix(line, "event:"):
				ev.name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data:")), &ev.data))
			}
		}
		events = append(events, ev)
	}
	return events
}

func names(events []sseEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.name
	}
	return out
}

func newTestServer(t *testing.T, uc chat.UseCase, cfg Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if cfg.UploadDir == "" {
		cfg.UploadDir = filepath.Join(t.TempDir(), "uploads")
	}
	if cfg.FilesDir == "" {
		cfg.FilesDir = t.TempDir()
	}
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1/chat"), New(pkgLog.NewNop(), uc, cfg))
	return r
}

func postJSON(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAsk_StreamsSearchReply(t *testing.T) {
	uc := &fakeChat{reply: chat.Reply{
		Intent: model.IntentInternetSearch,
		Prefix: "参考资料：[b](https://b.example)\n",
		Stream: llmprovider.NewStaticStream("多喝", "热水"),
		Links:  map[string]string{"https://b.example": "b", "https://a.example": "a"},
	}}
	r := newTestServer(t, uc, Config{})

	w := postJSON(r, `{"session_id":"s1","message":"今天流感情况"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")
	events := parseSSE(t, w.Body.String())
	assert.Equal(t, []string{eventIntent, eventDelta, eventDelta, eventDelta, eventLinks, eventDone}, names(events))
	assert.Equal(t, model.IntentInternetSearch.String(), events[0].data["intent"])
	assert.Equal(t, "参考资料：[b](https://b.example)\n", events[1].data["text"])
	assert.Equal(t, "多喝", events[2].data["text"])
	assert.Equal(t, "热水", events[3].data["text"])

	links := events[4].data["links"].([]any)
	require.Len(t, links, 2)
	assert.Equal(t, "https://a.example", links[0].(map[string]any)["url"])
	assert.Equal(t, "s1", events[5].data["session_id"])

	assert.Equal(t, "s1", uc.input.SessionID)
	assert.Equal(t, "今天流感情况", uc.input.Message)
}

func TestAsk_GeneratesSessionID(t *testing.T) {
	uc := &fakeChat{reply: chat.Reply{Intent: model.IntentPlainText, Stream: llmprovider.NewStaticStream("hi")}}
	r := newTestServer(t, uc, Config{})

	w := postJSON(r, `{"message":"你好"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, uc.input.SessionID, 36)
	events := parseSSE(t, w.Body.String())
	assert.Equal(t, uc.input.SessionID, events[len(events)-1].data["session_id"])
}

func TestAsk_LocalMedia(t *testing.T) {
	filesDir := t.TempDir()
	location := filepath.Join(filesDir, "audio", "reply.mp3")
	uc := &fakeChat{reply: chat.Reply{
		Intent: model.IntentAudio,
		Text:   location,
		Media:  &chat.Media{Kind: "audio", Location: location},
	}}
	r := newTestServer(t, uc, Config{FilesDir: filesDir})

	w := postJSON(r, `{"session_id":"s1","message":"用粤语说你好"}`)

	events := parseSSE(t, w.Body.String())
	assert.Equal(t, []string{eventIntent, eventMedia, eventDone}, names(events))
	assert.Equal(t, "audio", events[1].data["kind"])
	assert.Equal(t, "/files/audio/reply.mp3", events[1].data["url"])
}

func TestAsk_TextWithImages(t *testing.T) {
	uc := &fakeChat{reply: chat.Reply{
		Intent:    model.IntentImageDescribe,
		Text:      "一张X光片",
		ImageURLs: []string{"https://oss.example/x.png"},
	}}
	r := newTestServer(t, uc, Config{})

	w := postJSON(r, `{"session_id":"s1","message":"看看","images":["https://oss.example/x.png"]}`)

	events := parseSSE(t, w.Body.String())
	assert.Equal(t, []string{eventIntent, eventDelta, eventMedia, eventDone}, names(events))
	assert.Equal(t, "https://oss.example/x.png", events[2].data["url"])
	assert.Equal(t, []string{"https://oss.example/x.png"}, uc.input.Images)
}

func TestAsk_MediaOutsideFilesDirIsNotExposed(t *testing.T) {
	uc := &fakeChat{reply: chat.Reply{
		Intent: model.IntentPPT,
		Text:   "/etc/passwd",
		Media:  &chat.Media{Kind: "ppt", Location: "/etc/passwd"},
	}}
	r := newTestServer(t, uc, Config{FilesDir: t.TempDir()})

	w := postJSON(r, `{"session_id":"s1","message":"做个PPT"}`)

	assert.Equal(t, []string{eventIntent, eventDone}, names(parseSSE(t, w.Body.String())))
}

func TestAsk_StreamError(t *testing.T) {
	uc := &fakeChat{reply: chat.Reply{Intent: model.IntentPlainText, Stream: &failingStream{}}}
	r := newTestServer(t, uc, Config{})

	w := postJSON(r, `{"session_id":"s1","message":"你好"}`)

	events := parseSSE(t, w.Body.String())
	assert.Equal(t, []string{eventIntent, eventError}, names(events))
	assert.Equal(t, response.DefaultErrorMessage, events[1].data["message"])
}

type failingStream struct{}

func (failingStream) Next() bool      { return false }
func (failingStream) Current() string { return "" }
func (failingStream) Err() error      { return errors.New("upstream reset") }
func (failingStream) Close() error    { return nil }

func TestAsk_Multipart(t *testing.T) {
	uploadDir := filepath.Join(t.TempDir(), "uploads")
	uc := &fakeChat{reply: chat.Reply{Intent: model.IntentPlainText, Text: "ok"}}
	r := newTestServer(t, uc, Config{UploadDir: uploadDir})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("session_id", "s9"))
	require.NoError(t, mw.WriteField("message", "帮我看看"))
	require.NoError(t, mw.WriteField("images", "/etc/passwd"))
	require.NoError(t, mw.WriteField("Images", "config/config.yaml"))
	fw, err := mw.CreateFormFile("files", "scan.PNG")
	require.NoError(t, err)
	fw.Write([]byte("\x89PNG"))
	fw, err = mw.CreateFormFile("files", "notes.txt")
	require.NoError(t, err)
	fw.Write([]byte("血压 140/90"))
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s9", uc.input.SessionID)
	assert.Equal(t, "帮我看看", uc.input.Message)

	require.Len(t, uc.input.Images, 1)
	assert.Equal(t, ".png", filepath.Ext(uc.input.Images[0]))
	assert.Equal(t, uploadDir, filepath.Dir(uc.input.Images[0]))

	require.Len(t, uc.input.Attachments, 1)
	assert.Equal(t, "notes.txt", uc.input.Attachments[0].Name)
	raw, err := os.ReadFile(uc.input.Attachments[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "血压 140/90", string(raw))
}

func TestAsk_RequestErrors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		r := newTestServer(t, &fakeChat{}, Config{})
		w := postJSON(r, `{"session_id":"s1","message":"  "}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		r := newTestServer(t, &fakeChat{}, Config{})
		w := postJSON(r, `{"message":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("too large", func(t *testing.T) {
		r := newTestServer(t, &fakeChat{}, Config{MaxBytes: 16})
		w := postJSON(r, `{"message":"`+strings.Repeat("长", 100)+`"}`)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("use case failure", func(t *testing.T) {
		r := newTestServer(t, &fakeChat{err: errors.New("classifier down")}, Config{})
		w := postJSON(r, `{"message":"你好"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "classifier")
	})
}

func TestAsk_JSONImagesMustBeURLs(t *testing.T) {
	tests := []struct {
		name   string
		images string
	}{
		{name: "absolute path", images: `["/etc/passwd"]`},
		{name: "relative path", images: `["config/config.yaml"]`},
		{name: "file url", images: `["file:///root/.env"]`},
		{name: "mixed", images: `["https://oss.example/x.png", ".env"]`},
		{name: "scheme without host", images: `["https:///etc/passwd"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeChat{reply: chat.Reply{Intent: model.IntentImageDescribe, Text: "ok"}}
			r := newTestServer(t, uc, Config{})

			w := postJSON(r, `{"session_id":"s1","message":"看看","images":`+tt.images+`}`)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, uc.input.SessionID, "Ask must not be called")
			assert.Nil(t, uc.input.Images)
		})
	}
}

func TestHistoryAndReset(t *testing.T) {
	uc := &fakeChat{turns: []model.Turn{{User: "头疼", Assistant: "多休息"}}}
	r := newTestServer(t, uc, Config{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/chat/sessions/s1/history", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data historyResp `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "s1", resp.Data.SessionID)
	assert.Equal(t, []turnResp{{User: "头疼", Assistant: "多休息"}}, resp.Data.Turns)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/chat/sessions/s1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s1", uc.resetID)

	uc.resetErr = chat.ErrEmptySession
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/chat/sessions/s2", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
