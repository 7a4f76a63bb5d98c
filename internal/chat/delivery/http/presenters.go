package http

import (
	"net/url"
	"path/filepath"
	"sort"
	"strings"

	"cyber-doctor/internal/chat"
	"cyber-doctor/internal/model"
)

// --- Request DTOs ---

type askReq struct {
	SessionID string   `json:"session_id" form:"session_id"`
	Message   string   `json:"message"    form:"message"`
	Images    []string `json:"images"     form:"-"`

	attachments []chat.Attachment
}

func (r askReq) validate() error {
	if strings.TrimSpace(r.Message) == "" && len(r.Images) == 0 && len(r.attachments) == 0 {
		return errEmptyRequest
	}
	return nil
}

// checkImageURLs accepts only http(s) image URLs from a JSON body. Local
// images reach the service through multipart uploads only.
func (r askReq) checkImageURLs() error {
	for _, img := range r.Images {
		u, err := url.Parse(img)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errBadImage
		}
	}
	return nil
}

func (r askReq) toInput() chat.AskInput {
	return chat.AskInput{
		SessionID:   r.SessionID,
		Message:     r.Message,
		Images:      r.Images,
		Attachments: r.attachments,
	}
}

// --- SSE events ---

const (
	eventIntent = "intent"
	eventDelta  = "delta"
	eventMedia  = "media"
	eventLinks  = "links"
	eventDone   = "done"
	eventError  = "error"
)

type intentEvent struct {
	Intent string `json:"intent"`
}

type deltaEvent struct {
	Text string `json:"text"`
}

type mediaEvent struct {
	Kind string `json:"kind"`
	URL  string `json:"url"`
}

type linkResp struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type linksEvent struct {
	Links []linkResp `json:"links"`
}

type doneEvent struct {
	SessionID string `json:"session_id"`
}

type errorEvent struct {
	Message string `json:"message"`
}

func newLinksEvent(links map[string]string) linksEvent {
	out := make([]linkResp, 0, len(links))
	for u, title := range links {
		out = append(out, linkResp{URL: u, Title: title})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return linksEvent{Links: out}
}

// publicURL maps a generated file to its /files URL. Remote locations pass
// through; local files outside FilesDir have no URL.
func (h *handler) publicURL(location string) (string, bool) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return location, true
	}
	root, err := filepath.Abs(h.cfg.FilesDir)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filesRoute + "/" + filepath.ToSlash(rel), true
}

// --- Response DTOs ---

type turnResp struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

type historyResp struct {
	SessionID string     `json:"session_id"`
	Turns     []turnResp `json:"turns"`
}

func (h *handler) newHistoryResp(sessionID string, turns []model.Turn) historyResp {
	out := make([]turnResp, len(turns))
	for i, t := range turns {
		out[i] = turnResp{User: t.User, Assistant: t.Assistant}
	}
	return historyResp{SessionID: sessionID, Turns: out}
}
