package usecase

import (
	"cyber-doctor/internal/answer"
	"cyber-doctor/internal/chat"
	"cyber-doctor/internal/history"
	"cyber-doctor/internal/intent"
	pkgLog "cyber-doctor/pkg/log"
	"cyber-doctor/pkg/tts"
)

type implUseCase struct {
	l           pkgLog.Logger
	classifier  intent.Classifier
	assembler   answer.Assembler
	history     history.Repository
	transcriber tts.ITranscriber
	maxTurns    int
}

// Ensure implUseCase implements chat.UseCase
var _ chat.UseCase = (*implUseCase)(nil)

// New creates a new chat UseCase instance. maxTurns bounds the history sent
// with each question. A nil transcriber reports every audio upload as
// unrecognized.
func New(l pkgLog.Logger, classifier intent.Classifier, assembler answer.Assembler, repo history.Repository, transcriber tts.ITranscriber, maxTurns int) *implUseCase {
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	return &implUseCase{
		l:           l,
		classifier:  classifier,
		assembler:   assembler,
		history:     repo,
		transcriber: transcriber,
		maxTurns:    maxTurns,
	}
}
