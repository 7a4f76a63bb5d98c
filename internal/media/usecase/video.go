package usecase

import (
	"context"
	"fmt"
	"time"

	"cyber-doctor/internal/media"
)

// GenerateVideo polls the task every PollInterval until it succeeds, fails,
// or VideoTimeout elapses. Transient poll errors are logged and retried.
func (uc *implUseCase) GenerateVideo(ctx context.Context, prompt string) (string, error) {
	taskID, err := uc.zhipu.CreateVideo(ctx, prompt)
	if err != nil {
		uc.l.Errorf(ctx, "media.GenerateVideo: create: %v", err)
		return "", fmt.Errorf("%w: %v", media.ErrVideoFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.VideoTimeout)
	defer cancel()

	start := time.Now()
	for {
		res, err := uc.zhipu.VideoResult(ctx, taskID)
		switch {
		case err != nil && ctx.Err() == nil:
			uc.l.Warnf(ctx, "media.GenerateVideo: poll %s: %v", taskID, err)
		case err == nil && res.Done():
			uc.l.Infof(ctx, "media.GenerateVideo: task %s done after %s", taskID, time.Since(start).Round(time.Second))
			return res.VideoResult[0].URL, nil
		case err == nil && res.Failed():
			uc.l.Warnf(ctx, "media.GenerateVideo: task %s failed", taskID)
			return "", media.ErrVideoFailed
		}

		select {
		case <-ctx.Done():
			uc.l.Warnf(ctx, "media.GenerateVideo: task %s gave up after %s", taskID, time.Since(start).Round(time.Second))
			return "", media.ErrVideoTimeout
		case <-uc.sleep(uc.opts.PollInterval):
		}
	}
}
