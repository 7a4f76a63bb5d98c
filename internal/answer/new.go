package answer

import (
	"cyber-doctor/internal/tool"
	"cyber-doctor/pkg/log"
)

type implAssembler struct {
	dispatcher tool.Dispatcher
	l          log.Logger
}

// Ensure implAssembler implements Assembler
var _ Assembler = (*implAssembler)(nil)

// New creates an Assembler over dispatcher.
func New(dispatcher tool.Dispatcher, l log.Logger) *implAssembler {
	return &implAssembler{dispatcher: dispatcher, l: l}
}
