package intent

import (
	"context"
	"fmt"
	"strings"

	"cyber-doctor/internal/metrics"
	"cyber-doctor/internal/model"
)

// Classify returns the intent of text. Keyword shortcuts never call the LLM.
// LLM errors are returned as is; unmatched answers default to PlainText.
func (c *RuleClassifier) Classify(ctx context.Context, text string, hasImage bool) (model.Intent, error) {
	if in, ok := matchKeywords(text, hasImage); ok {
		metrics.IntentClassified.WithLabelValues(in.String(), metrics.SourceKeyword).Inc()
		c.l.Debugf(ctx, "%s: keyword match %s", LogPrefixClassify, in)
		return in, nil
	}

	answer, err := c.llm.ChatWithAI(ctx, PromptClassify+" "+text)
	if err != nil {
		return "", fmt.Errorf("%s: %w", LogPrefixClassify, err)
	}

	in, reason := parseLabel(answer, text)
	if reason != "" {
		metrics.IntentFallback.WithLabelValues(reason).Inc()
		c.l.Warn(ctx, LogPrefixClassify+": falling back to PlainText",
			"reason", reason,
			"answer", answer,
		)
	}
	metrics.IntentClassified.WithLabelValues(in.String(), metrics.SourceLLM).Inc()
	c.l.Infof(ctx, "%s: classified as %s", LogPrefixClassify, in)
	return in, nil
}

// matchKeywords applies the ordered shortcut rules; first match wins.
func matchKeywords(text string, hasImage bool) (model.Intent, bool) {
	switch {
	case strings.Contains(text, markerKnowledgeBase):
		return model.IntentRAG, true
	case strings.Contains(text, markerKnowledgeGraph):
		return model.IntentKnowledgeGraph, true
	case strings.Contains(text, markerSearch):
		return model.IntentInternetSearch, true
	case containsAny(text, markersWord) && containsAny(text, markersGenerate):
		return model.IntentDocx, true
	case containsAny(text, markersPPT) && containsAny(text, markersGenerate):
		return model.IntentPPT, true
	case hasImage:
		return model.IntentImageDescribe, true
	}
	return "", false
}

// parseLabel maps the model's answer to an intent by exact match. A non-empty
// reason means the answer was not usable and PlainText was chosen.
func parseLabel(answer, question string) (model.Intent, string) {
	label := strings.TrimSpace(answer)
	if label == "" {
		return FallbackIntent, metrics.ReasonEmptyResponse
	}
	if in, ok := generationLabels[label]; ok && question != "" {
		return in, ""
	}
	if in, ok := plainLabels[label]; ok {
		return in, ""
	}
	// "其他" is a legitimate answer, not a fallback.
	if label == "其他" {
		return FallbackIntent, ""
	}
	return FallbackIntent, metrics.ReasonUnmatched
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
