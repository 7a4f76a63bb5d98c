package answer

import (
	"context"
	"time"

	"cyber-doctor/internal/metrics"
	"cyber-doctor/internal/model"
	"cyber-doctor/internal/tool"
)

// GetAnswer dispatches the turn and normalizes the result: the intent slot is
// always intent and InternetSearch results always carry a links map. For
// streamed answers the duration covers opening the stream only.
func (a *implAssembler) GetAnswer(ctx context.Context, question string, history []model.Turn, intent model.Intent, images []string) (tool.Result, error) {
	start := time.Now()
	res, err := a.dispatcher.Dispatch(ctx, tool.Request{
		Intent:   intent,
		Question: question,
		History:  history,
		Images:   images,
	})
	metrics.DispatchDuration.WithLabelValues(intent.String()).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.DispatchFailures.WithLabelValues(intent.String()).Inc()
		a.l.Errorf(ctx, "answer.GetAnswer: %s: %v", intent, err)
		return tool.Result{Intent: intent}, err
	}
	if res.Payload == nil {
		metrics.DispatchFailures.WithLabelValues(intent.String()).Inc()
		a.l.Warnf(ctx, "answer.GetAnswer: %s produced no payload", intent)
	}

	res.Intent = intent
	if intent == model.IntentInternetSearch && res.Links == nil {
		res.Links = map[string]string{}
	}
	return res, nil
}
