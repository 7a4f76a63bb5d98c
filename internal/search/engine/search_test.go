package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"cyber-doctor/internal/model"
	"cyber-doctor/internal/search"
	"cyber-doctor/pkg/llmprovider"
	"cyber-doctor/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	mu          sync.Mutex
	rewrite     string
	rewriteErr  error
	prompts     []string
	histories   [][]model.Turn
	rewriteMsgs [][]llmprovider.Message
}

func (f *fakeLLM) ChatWithAI(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeLLM) ChatWithAIStream(ctx context.Context, prompt string, history []model.Turn) (llmprovider.Stream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.histories = append(f.histories, history)
	return llmprovider.NewStaticStream("回答"), nil
}

func (f *fakeLLM) ChatUsingMessages(ctx context.Context, messages []llmprovider.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rewriteMsgs = append(f.rewriteMsgs, messages)
	return f.rewrite, f.rewriteErr
}

type fakeRetriever struct {
	mu    sync.Mutex
	calls int
	dirs  []string
}

func (f *fakeRetriever) Retrieve(ctx context.Context, dir, query string) ([]search.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.dirs = append(f.dirs, dir)
	return []search.Document{{Content: "资料一"}, {Content: "资料二"}}, nil
}

// newSearchServer fakes Bing, Baidu and the result pages. Every search returns
// three entries whose hrefs carry a fragment.
func newSearchServer(t *testing.T, failSearch bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	entries := func(engine, q string) []string {
		var out []string
		for n := 1; n <= 3; n++ {
			out = append(out, fmt.Sprintf("/page?id=%s-%s-%d#section", engine, url.QueryEscape(q), n))
		}
		return out
	}

	mux.HandleFunc("/bing-down", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	mux.HandleFunc("/bing", func(w http.ResponseWriter, r *http.Request) {
		if failSearch {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		q := r.URL.Query().Get("q")
		var sb strings.Builder
		sb.WriteString("<html><body><ol>")
		for i, href := range entries("bing", q) {
			fmt.Fprintf(&sb, `<li class="b_algo"><h2><a href="%s">Bing %s %d</a></h2></li>`, href, q, i)
		}
		sb.WriteString(`<li class="b_algo"><h2><a href="javascript:void(0)">bad</a></h2></li>`)
		sb.WriteString("</ol></body></html>")
		fmt.Fprint(w, sb.String())
	})
	mux.HandleFunc("/baidu", func(w http.ResponseWriter, r *http.Request) {
		if failSearch {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		q := r.URL.Query().Get("wd")
		var sb strings.Builder
		sb.WriteString("<html><body>")
		for i, href := range entries("baidu", q) {
			fmt.Fprintf(&sb, `<div class="result"><h3><a href="%s">百度 %s %d</a></h3></div>`, href, q, i)
		}
		sb.WriteString("</body></html>")
		fmt.Fprint(w, sb.String())
	})
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != defaultUserAgent {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprintf(w, "<html><body><p>页面 %s</p></body></html>", r.URL.Query().Get("id"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestEngine(t *testing.T, srv *httptest.Server, llm *fakeLLM, ret *fakeRetriever, perEngine int) *implEngine {
	t.Helper()
	e, err := New(Config{
		ResultsPerEngine: perEngine,
		PageTimeout:      5 * time.Second,
		CacheDir:         t.TempDir(),
		BingURLs:         []string{srv.URL + "/bing-down?q=", srv.URL + "/bing?q="},
		BaiduURL:         srv.URL + "/baidu?wd=",
	}, llm, ret, log.NewNop())
	require.NoError(t, err)
	return e
}

func TestSearchAndAnswer_FanOut(t *testing.T) {
	srv := newSearchServer(t, false)
	question := "帮我搜索一下养生知识;预防糖尿病的方法"
	llm := &fakeLLM{rewrite: question}
	ret := &fakeRetriever{}
	e := newTestEngine(t, srv, llm, ret, 2)

	history := []model.Turn{{User: "你好", Assistant: "您好"}}
	out, err := e.SearchAndAnswer(context.Background(), question, history)
	require.NoError(t, err)

	assert.Equal(t, 4, out.Workers, "two sub-queries times two engines")
	assert.True(t, out.HadResults)
	assert.Len(t, out.Links, 8)
	for link := range out.Links {
		u, err := url.Parse(link)
		require.NoError(t, err)
		assert.True(t, u.IsAbs(), link)
		assert.NotContains(t, link, "#")
	}

	files, err := filepath.Glob(filepath.Join(out.CacheDir, "*.html"))
	require.NoError(t, err)
	assert.Len(t, files, 8)

	require.Len(t, llm.prompts, 1)
	assert.Equal(t, fmt.Sprintf(promptAnswerWithContext, "资料一"+search.DocumentSeparator+"资料二", question), llm.prompts[0])
	assert.Equal(t, history, llm.histories[0])
	assert.Equal(t, []string{out.CacheDir}, ret.dirs)

	require.Len(t, llm.rewriteMsgs, 1)
	assert.Equal(t, "用户提问："+question, llm.rewriteMsgs[0][1].Text())

	text, err := llmprovider.Drain(out.Stream)
	require.NoError(t, err)
	assert.Equal(t, "回答", text)
}

func TestSearchAndAnswer_AllWorkersFail(t *testing.T) {
	srv := newSearchServer(t, true)
	llm := &fakeLLM{rewrite: "养生知识；糖尿病预防"}
	ret := &fakeRetriever{}
	e := newTestEngine(t, srv, llm, ret, 3)

	out, err := e.SearchAndAnswer(context.Background(), "养生知识", nil)
	require.NoError(t, err)

	assert.False(t, out.HadResults)
	assert.Empty(t, out.Links)
	assert.Equal(t, 4, out.Workers)
	assert.Zero(t, ret.calls, "no retrieval without cached pages")
	require.Len(t, llm.prompts, 1)
	assert.Equal(t, "养生知识", llm.prompts[0])
}

func TestSearchAndAnswer_RewriteFailureSearchesQuestion(t *testing.T) {
	srv := newSearchServer(t, false)
	llm := &fakeLLM{rewriteErr: errors.New("provider down")}
	e := newTestEngine(t, srv, llm, &fakeRetriever{}, 1)

	out, err := e.SearchAndAnswer(context.Background(), "高血压饮食", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Workers)
	assert.True(t, out.HadResults)
}

func TestSearchAndAnswer_SequentialRunsDoNotShareCache(t *testing.T) {
	srv := newSearchServer(t, false)
	e := newTestEngine(t, srv, &fakeLLM{rewrite: "第一次"}, &fakeRetriever{}, 1)
	e.now = func() time.Time { return time.Now().Add(time.Hour) }

	first, err := e.SearchAndAnswer(context.Background(), "第一次", nil)
	require.NoError(t, err)
	firstFiles, _ := filepath.Glob(filepath.Join(first.CacheDir, "*.html"))
	require.NotEmpty(t, firstFiles)

	e.llm = &fakeLLM{rewrite: "第二次"}
	second, err := e.SearchAndAnswer(context.Background(), "第二次", nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.CacheDir, second.CacheDir)
	_, statErr := os.Stat(first.CacheDir)
	assert.True(t, os.IsNotExist(statErr), "previous run must be swept")

	entries, err := os.ReadDir(e.cfg.CacheDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(second.CacheDir), entries[0].Name())

	secondFiles, _ := filepath.Glob(filepath.Join(second.CacheDir, "*.html"))
	for _, f := range secondFiles {
		assert.Contains(t, filepath.Base(f), "第二次")
	}
}

func TestBeginRun_KeepsActiveRuns(t *testing.T) {
	e, err := New(Config{CacheDir: t.TempDir()}, &fakeLLM{}, &fakeRetriever{}, log.NewNop())
	require.NoError(t, err)
	e.now = func() time.Time { return time.Now().Add(time.Hour) }

	dir1, release1, err := e.beginRun(context.Background())
	require.NoError(t, err)
	dir2, release2, err := e.beginRun(context.Background())
	require.NoError(t, err)
	defer release2()

	_, statErr := os.Stat(dir1)
	assert.NoError(t, statErr, "in-flight run must not be swept")

	release1()
	_, _, err = e.beginRun(context.Background())
	require.NoError(t, err)
	_, statErr = os.Stat(dir1)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(dir2)
	assert.NoError(t, statErr)
}

func TestSearchAndAnswer_CanceledContext(t *testing.T) {
	srv := newSearchServer(t, false)
	llm := &fakeLLM{rewrite: "糖尿病"}
	e := newTestEngine(t, srv, llm, &fakeRetriever{}, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.SearchAndAnswer(ctx, "糖尿病", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, llm.prompts)
}

func TestNew_UnknownEngine(t *testing.T) {
	_, err := New(Config{Engines: []string{"google"}}, &fakeLLM{}, &fakeRetriever{}, log.NewNop())
	assert.ErrorIs(t, err, search.ErrUnknownEngine)
}
