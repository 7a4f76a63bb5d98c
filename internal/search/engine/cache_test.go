package engine

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"糖尿病的预防", "糖尿病的预防"},
		{"a/b\\c:d*e?f\"g<h>i|j", "a_b_c_d_e_f_g_h_i_j"},
		{"  ..hidden.  ", "hidden"},
		{"tab\tnew\nline", "tab_new_line"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeTitle(tt.in), tt.in)
	}

	assert.True(t, strings.HasPrefix(sanitizeTitle("///"), "___"))
	assert.True(t, strings.HasPrefix(sanitizeTitle(" .. "), "page-"))
	assert.Len(t, []rune(sanitizeTitle(strings.Repeat("长", 200))), maxTitleRunes)
}

func TestWritePage_Duplicate(t *testing.T) {
	dir := t.TempDir()

	path, err := writePage(dir, "养生", []byte("first"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "养生.html"), path)

	_, err = writePage(dir, "养生", []byte("second"))
	assert.ErrorIs(t, err, errDuplicatePage)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(body))
	assert.True(t, hasPages(dir))
	assert.False(t, hasPages(t.TempDir()))
	assert.False(t, hasPages(filepath.Join(dir, "missing")))
}

func TestNormalizeLink(t *testing.T) {
	base, _ := url.Parse("https://cn.bing.com/search?q=x")

	tests := []struct {
		href string
		want string
		ok   bool
	}{
		{"https://example.com/a#frag", "https://example.com/a", true},
		{"/relative?x=1#y", "https://cn.bing.com/relative?x=1", true},
		{"http://example.com/#", "http://example.com/", true},
		{"javascript:void(0)", "", false},
		{"mailto:a@b.c", "", false},
		{"#top", "", false},
	}
	for _, tt := range tests {
		got, ok := normalizeLink(base, tt.href)
		assert.Equal(t, tt.ok, ok, tt.href)
		assert.Equal(t, tt.want, got, tt.href)
	}
}

func TestSplitQueries(t *testing.T) {
	assert.Equal(t, []string{"帮我搜索一下养生知识", "预防糖尿病的方法"}, splitQueries("帮我搜索一下养生知识;预防糖尿病的方法"))
	assert.Equal(t, []string{"a", "b", "c"}, splitQueries(" a ；b;; c "))
	assert.Empty(t, splitQueries(" ; ；"))
}
