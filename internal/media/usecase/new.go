package usecase

import (
	"time"

	"cyber-doctor/internal/llm"
	"cyber-doctor/internal/media"
	pkgLog "cyber-doctor/pkg/log"
	"cyber-doctor/pkg/oss"
	"cyber-doctor/pkg/tts"
	"cyber-doctor/pkg/zhipu"
)

// Options tune video polling and bound local image reads. Zero polling
// values use 2s and 120s. Local images are only read from under UploadDir;
// with an empty UploadDir every local reference is rejected.
type Options struct {
	PollInterval time.Duration
	VideoTimeout time.Duration
	UploadDir    string
}

type implUseCase struct {
	l        pkgLog.Logger
	llm      llm.Client
	zhipu    zhipu.IZhipu
	tts      tts.ISynthesizer
	uploader oss.IUploader // nil when object storage is not configured
	opts     Options
	sleep    func(time.Duration) <-chan time.Time
}

// Ensure implUseCase implements media.UseCase
var _ media.UseCase = (*implUseCase)(nil)

// New creates a new media UseCase instance. uploader may be nil.
func New(l pkgLog.Logger, client llm.Client, zp zhipu.IZhipu, synth tts.ISynthesizer, uploader oss.IUploader, opts Options) *implUseCase {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.VideoTimeout <= 0 {
		opts.VideoTimeout = defaultVideoTimeout
	}
	return &implUseCase{
		l:        l,
		llm:      client,
		zhipu:    zp,
		tts:      synth,
		uploader: uploader,
		opts:     opts,
		sleep:    time.After,
	}
}
