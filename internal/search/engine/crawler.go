package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"cyber-doctor/internal/metrics"
)

// resultEntry is one organic search result.
type resultEntry struct {
	Title string
	URL   string
}

// workerResult is owned by a single worker and merged after the join.
type workerResult struct {
	engine string
	query  string
	links  map[string]string
	files  []string
	errs   int
}

// runWorker searches one engine for one sub-query and caches up to
// ResultsPerEngine pages in dir. Per-item failures are logged and skipped.
func (e *implEngine) runWorker(ctx context.Context, engine, query, dir string) workerResult {
	res := workerResult{engine: engine, query: query, links: make(map[string]string)}

	for _, searchURL := range e.searchURLs(engine, query) {
		if len(res.files) >= e.cfg.ResultsPerEngine || ctx.Err() != nil {
			break
		}

		entries, err := e.fetchResults(ctx, engine, searchURL)
		if err != nil {
			res.errs++
			e.l.Warnf(ctx, "%s: %s search %q failed: %v", LogPrefixWorker, engine, query, err)
			continue
		}

		for _, entry := range entries {
			if len(res.files) >= e.cfg.ResultsPerEngine || ctx.Err() != nil {
				break
			}
			if _, seen := res.links[entry.URL]; seen {
				continue
			}

			path, err := e.downloadPage(ctx, dir, entry)
			if err != nil {
				if !errors.Is(err, errDuplicatePage) {
					res.errs++
				}
				e.l.Debugf(ctx, "%s: skip %s: %v", LogPrefixWorker, entry.URL, err)
				continue
			}
			res.links[entry.URL] = entry.Title
			res.files = append(res.files, path)
		}
	}

	status := metrics.StatusOK
	switch {
	case len(res.files) == 0 && res.errs > 0:
		status = metrics.StatusError
	case len(res.files) == 0:
		status = metrics.StatusEmpty
	}
	metrics.SearchWorkers.WithLabelValues(engine, status).Inc()
	metrics.SearchPagesCached.Add(float64(len(res.files)))

	if len(res.files) < e.cfg.ResultsPerEngine {
		e.l.Infof(ctx, "%s: %s cached %d/%d pages for %q", LogPrefixWorker, engine, len(res.files), e.cfg.ResultsPerEngine, query)
	}
	return res
}

func (e *implEngine) searchURLs(engine, query string) []string {
	q := url.QueryEscape(query)
	switch engine {
	case EngineBing:
		urls := make([]string, len(e.cfg.BingURLs))
		for i, u := range e.cfg.BingURLs {
			urls[i] = u + q
		}
		return urls
	case EngineBaidu:
		return []string{e.cfg.BaiduURL + q}
	default:
		return nil
	}
}

// fetchResults loads a search result page and extracts its organic entries.
func (e *implEngine) fetchResults(ctx context.Context, engine, searchURL string) ([]resultEntry, error) {
	resp, err := e.get(ctx, searchURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	base, err := url.Parse(searchURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}

	entrySel, titleSel := bingEntrySelector, bingTitleSelector
	if engine == EngineBaidu {
		entrySel, titleSel = baiduEntrySelector, baiduTitleSelector
	}
	return parseEntries(doc, base, entrySel, titleSel), nil
}

// parseEntries pulls title/href pairs out of result entries. Hrefs are made
// absolute and stripped of their fragment; non-http(s) links are dropped.
func parseEntries(doc *goquery.Document, base *url.URL, entrySel, titleSel string) []resultEntry {
	var entries []resultEntry
	doc.Find(entrySel).Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find(titleSel).First().Text())
		href, ok := s.Find(linkSelector).First().Attr("href")
		if !ok || title == "" {
			return
		}
		link, ok := normalizeLink(base, href)
		if !ok {
			return
		}
		entries = append(entries, resultEntry{Title: title, URL: link})
	})
	return entries
}

func normalizeLink(base *url.URL, href string) (string, bool) {
	href = strings.SplitN(strings.TrimSpace(href), "#", 2)[0]
	if href == "" {
		return "", false
	}
	u, err := base.Parse(href)
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), true
}

// downloadPage fetches entry and caches the body when the status is 200.
func (e *implEngine) downloadPage(ctx context.Context, dir string, entry resultEntry) (string, error) {
	resp, err := e.get(ctx, entry.URL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return "", fmt.Errorf("empty content")
	}

	return writePage(dir, entry.Title, body)
}

func (e *implEngine) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}
	req.Header.Set("User-Agent", e.cfg.UserAgent)
	return e.http.Do(req)
}
