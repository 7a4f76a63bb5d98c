package tts_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyber-doctor/pkg/tts"
)

func TestSynthesize(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/audio/speech", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3fake-mp3"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	s, err := tts.New(tts.Config{BaseURL: srv.URL + "/", OutputDir: dir})
	require.NoError(t, err)

	path, err := s.Synthesize(context.Background(), "多喝热水", "zh-CN-XiaoxiaoNeural")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, tts.FileName("多喝热水")), path)
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ID3fake-mp3", string(body))

	assert.Equal(t, "多喝热水", got["input"])
	assert.Equal(t, "zh-CN-XiaoxiaoNeural", got["voice"])
	assert.Equal(t, "tts-1", got["model"])
	assert.Equal(t, "mp3", got["response_format"])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestSynthesize_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s, err := tts.New(tts.Config{BaseURL: srv.URL, OutputDir: t.TempDir()})
	require.NoError(t, err)

	_, err = s.Synthesize(context.Background(), "  ", "zh-CN-YunxiNeural")
	assert.ErrorIs(t, err, tts.ErrEmptyText)

	_, err = s.Synthesize(context.Background(), "你好", "zh-CN-YunxiNeural")
	assert.Error(t, err)
}

func TestFileName_Deterministic(t *testing.T) {
	assert.Equal(t, tts.FileName("a"), tts.FileName("a"))
	assert.NotEqual(t, tts.FileName("a"), tts.FileName("b"))
	assert.Equal(t, ".mp3", filepath.Ext(tts.FileName("a")))
}

func TestNew_Validation(t *testing.T) {
	_, err := tts.New(tts.Config{OutputDir: t.TempDir()})
	assert.Error(t, err)
	_, err = tts.New(tts.Config{BaseURL: "http://localhost"})
	assert.Error(t, err)
}
