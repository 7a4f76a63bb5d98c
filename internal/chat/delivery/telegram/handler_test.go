package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyber-doctor/internal/chat"
	"cyber-doctor/internal/model"
	"cyber-doctor/pkg/llmprovider"
	pkgLog "cyber-doctor/pkg/log"
	pkgTelegram "cyber-doctor/pkg/telegram"
)

type fakeChat struct {
	mu      sync.Mutex
	reply   chat.Reply
	err     error
	inputs  []chat.AskInput
	resetID string
}

func (f *fakeChat) Ask(_ context.Context, in chat.AskInput) (chat.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
	return f.reply, f.err
}

func (f *fakeChat) History(context.Context, string) ([]model.Turn, error) { return nil, nil }

func (f *fakeChat) Reset(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetID = id
	return nil
}

type botCall struct {
	method string
	value  string
}

type testEnv struct {
	engine *gin.Engine
	uc     *fakeChat
	mu     sync.Mutex
	calls  []botCall
}

func (e *testEnv) snapshot() []botCall {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]botCall(nil), e.calls...)
}

func newTestEnv(t *testing.T, uc *fakeChat) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	env := &testEnv{uc: uc}

	tgServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		call := botCall{method: method}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			_ = r.ParseMultipartForm(1 << 20)
			for _, files := range r.MultipartForm.File {
				call.value = files[0].Filename
			}
		} else {
			var payload map[string]any
			_ = json.NewDecoder(r.Body).Decode(&payload)
			for _, k := range []string{"text", "photo", "video"} {
				if v, ok := payload[k].(string); ok {
					call.value = v
				}
			}
		}
		env.mu.Lock()
		env.calls = append(env.calls, call)
		env.mu.Unlock()
		w.Write([]byte(`{"ok": true}`))
	}))
	t.Cleanup(tgServer.Close)

	bot := pkgTelegram.NewBot("test-token")
	bot.SetAPIURL(tgServer.URL)

	env.engine = gin.New()
	env.engine.POST("/webhook/telegram", New(pkgLog.NewNop(), uc, bot).HandleWebhook)
	return env
}

func (e *testEnv) post(t *testing.T, text string) *httptest.ResponseRecorder {
	t.Helper()
	update := pkgTelegram.Update{
		UpdateID: 1,
		Message: &pkgTelegram.Message{
			MessageID: 10,
			From:      &pkgTelegram.User{ID: 99},
			Chat:      &pkgTelegram.Chat{ID: 12345, Type: "private"},
			Text:      text,
		},
	}
	body, _ := json.Marshal(update)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/telegram", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) waitCalls(t *testing.T, n int) []botCall {
	t.Helper()
	require.Eventually(t, func() bool { return len(e.snapshot()) >= n }, 2*time.Second, 10*time.Millisecond)
	return e.snapshot()
}

func TestHandleWebhook_StreamedAnswer(t *testing.T) {
	uc := &fakeChat{reply: chat.Reply{
		Intent: model.IntentPlainText,
		Prefix: "参考资料：[a](https://a.example)\n",
		Stream: llmprovider.NewStaticStream("多喝", "热水"),
	}}
	env := newTestEnv(t, uc)

	w := env.post(t, "感冒了怎么办")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "accepted")

	calls := env.waitCalls(t, 2)
	assert.Equal(t, botCall{"sendMessage", msgProcessing}, calls[0])
	assert.Equal(t, botCall{"sendMessage", "参考资料：[a](https://a.example)\n多喝热水"}, calls[1])

	uc.mu.Lock()
	defer uc.mu.Unlock()
	require.Len(t, uc.inputs, 1)
	assert.Equal(t, "telegram_12345", uc.inputs[0].SessionID)
	assert.Equal(t, "感冒了怎么办", uc.inputs[0].Message)
}

func TestHandleWebhook_Media(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "report.docx")
	require.NoError(t, os.WriteFile(doc, []byte("PK"), 0o644))

	tests := []struct {
		name  string
		reply chat.Reply
		want  []botCall
	}{
		{
			name:  "document",
			reply: chat.Reply{Intent: model.IntentDocx, Text: doc, Media: &chat.Media{Kind: "docx", Location: doc}},
			want:  []botCall{{"sendMessage", msgProcessing}, {"sendDocument", "report.docx"}},
		},
		{
			name:  "video",
			reply: chat.Reply{Intent: model.IntentVideo, Text: "https://v.example/a.mp4", Media: &chat.Media{Kind: mediaVideo, Location: "https://v.example/a.mp4"}},
			want:  []botCall{{"sendMessage", msgProcessing}, {"sendVideo", "https://v.example/a.mp4"}},
		},
		{
			name: "generated image with caption",
			reply: chat.Reply{
				Intent: model.IntentImageGeneration,
				Text:   "一只猫",
				Media:  &chat.Media{Kind: chat.MediaImage, Location: "https://img.example/cat.png"},
			},
			want: []botCall{{"sendMessage", msgProcessing}, {"sendMessage", "一只猫"}, {"sendPhoto", "https://img.example/cat.png"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, &fakeChat{reply: tt.reply})
			env.post(t, "生成")
			assert.Equal(t, tt.want, env.waitCalls(t, len(tt.want)))
		})
	}
}

func TestHandleWebhook_Commands(t *testing.T) {
	uc := &fakeChat{}
	env := newTestEnv(t, uc)

	env.post(t, commandReset)
	calls := env.waitCalls(t, 1)
	assert.Equal(t, botCall{"sendMessage", msgResetDone}, calls[0])

	uc.mu.Lock()
	assert.Equal(t, "telegram_12345", uc.resetID)
	assert.Empty(t, uc.inputs)
	uc.mu.Unlock()

	env.post(t, commandStart)
	calls = env.waitCalls(t, 2)
	assert.Equal(t, botCall{"sendMessage", msgWelcome}, calls[1])
}

func TestHandleWebhook_Failure(t *testing.T) {
	env := newTestEnv(t, &fakeChat{err: errors.New("llm down")})

	env.post(t, "头疼")

	calls := env.waitCalls(t, 2)
	assert.Equal(t, botCall{"sendMessage", msgFailed}, calls[1])
}

func TestHandleWebhook_Ignored(t *testing.T) {
	env := newTestEnv(t, &fakeChat{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/telegram", strings.NewReader(`{"update_id":1}`))
	req.Header.Set("Content-Type", "application/json")
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ignored")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/webhook/telegram", strings.NewReader(`{`))
	env.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSplitMessage(t *testing.T) {
	assert.Nil(t, splitMessage("  ", 10))
	assert.Equal(t, []string{"你好"}, splitMessage("你好", 10))
	assert.Equal(t, []string{"一二三", "四五六", "七"}, splitMessage("一二三四五六七", 3))
}
