package zhipu_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyber-doctor/pkg/zhipu"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/images/generations", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "cogview-3-plus", body["model"])
		w.Header().Set("Content-Type", "application/json")
		if body["prompt"] == "empty" {
			fmt.Fprint(w, `{"created":1,"data":[]}`)
			return
		}
		fmt.Fprint(w, `{"created":1,"data":[{"url":"https://img.example.com/cat.png"}]}`)
	})

	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Content []map[string]interface{} `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "glm-4v-plus", body.Model)
		require.Len(t, body.Messages, 1)
		require.Len(t, body.Messages[0].Content, 3)
		assert.Equal(t, "image_url", body.Messages[0].Content[0]["type"])
		assert.Equal(t, "text", body.Messages[0].Content[2]["type"])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c","object":"chat.completion","created":1,"model":"glm-4v-plus",
			"choices":[{"index":0,"message":{"role":"assistant","content":"一只猫"},"finish_reason":"stop"}]}`)
	})

	mux.HandleFunc("/videos/generations", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "cogvideox", body["model"])
		assert.Equal(t, "海边日落", body["prompt"])
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"task-1","request_id":"r","task_status":"PROCESSING"}`)
	})

	mux.HandleFunc("/async-result/task-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"task_status":"SUCCESS","video_result":[{"url":"https://v.example.com/1.mp4","cover_image_url":"c"}]}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, baseURL string) zhipu.IZhipu {
	t.Helper()
	c, err := zhipu.New(zhipu.Config{APIKey: "k", BaseURL: baseURL})
	require.NoError(t, err)
	return c
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := zhipu.New(zhipu.Config{})
	assert.Error(t, err)
}

func TestGenerateImage(t *testing.T) {
	c := newClient(t, newServer(t).URL)

	url, err := c.GenerateImage(context.Background(), "一只橘猫")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/cat.png", url)

	_, err = c.GenerateImage(context.Background(), "empty")
	assert.ErrorIs(t, err, zhipu.ErrEmptyResult)
}

func TestDescribeImage(t *testing.T) {
	c := newClient(t, newServer(t).URL)

	text, err := c.DescribeImage(context.Background(),
		[]string{"https://img.example.com/a.png", "data:image/png;base64,AAAA"}, "描述这个图片")
	require.NoError(t, err)
	assert.Equal(t, "一只猫", text)
}

func TestVideo(t *testing.T) {
	c := newClient(t, newServer(t).URL)

	id, err := c.CreateVideo(context.Background(), "海边日落")
	require.NoError(t, err)
	assert.Equal(t, "task-1", id)

	res, err := c.VideoResult(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, res.Done())
	assert.False(t, res.Failed())
	assert.Equal(t, "https://v.example.com/1.mp4", res.VideoResult[0].URL)
}

func TestVideoResult_States(t *testing.T) {
	assert.False(t, (&zhipu.VideoResult{TaskStatus: zhipu.TaskProcessing}).Done())
	assert.False(t, (&zhipu.VideoResult{TaskStatus: zhipu.TaskSuccess}).Done())
	assert.True(t, (&zhipu.VideoResult{TaskStatus: zhipu.TaskFail}).Failed())
}
