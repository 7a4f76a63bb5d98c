package engine

import (
	"crypto/tls"
	"net/http"
	"sync"
	"time"

	"cyber-doctor/internal/llm"
	"cyber-doctor/internal/search"
	"cyber-doctor/pkg/log"
)

// Config controls the fan-out. Zero values take the defaults.
type Config struct {
	Engines            []string
	ResultsPerEngine   int
	PageTimeout        time.Duration
	UserAgent          string
	InsecureSkipVerify bool
	CacheDir           string
	CacheRetention     time.Duration
	BingURLs           []string // query is appended URL-escaped
	BaiduURL           string
}

type implEngine struct {
	cfg       Config
	llm       llm.Client
	retriever search.Retriever
	http      *http.Client
	l         log.Logger
	now       func() time.Time

	mu     sync.Mutex
	active map[string]struct{} // run directories in use
}

// Ensure implEngine implements search.Engine
var _ search.Engine = (*implEngine)(nil)

// New creates a search fan-out engine.
func New(cfg Config, client llm.Client, retriever search.Retriever, l log.Logger) (*implEngine, error) {
	if len(cfg.Engines) == 0 {
		cfg.Engines = []string{EngineBing, EngineBaidu}
	}
	for _, e := range cfg.Engines {
		if e != EngineBing && e != EngineBaidu {
			return nil, search.ErrUnknownEngine
		}
	}
	if cfg.ResultsPerEngine <= 0 {
		cfg.ResultsPerEngine = defaultResultsPerEngine
	}
	if cfg.PageTimeout <= 0 {
		cfg.PageTimeout = 10 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = "data/search"
	}
	if len(cfg.BingURLs) == 0 {
		cfg.BingURLs = defaultBingURLs
	}
	if cfg.BaiduURL == "" {
		cfg.BaiduURL = defaultBaiduURL
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	return &implEngine{
		cfg:       cfg,
		llm:       client,
		retriever: retriever,
		http:      &http.Client{Timeout: cfg.PageTimeout, Transport: transport},
		l:         l,
		now:       time.Now,
		active:    make(map[string]struct{}),
	}, nil
}
