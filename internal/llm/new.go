package llm

import (
	"cyber-doctor/pkg/log"
)

// Sampling holds the sampling parameters sent with every request.
type Sampling struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

type implClient struct {
	gen      Generator
	sampling Sampling
	l        log.Logger
}

// New creates a Client over gen. Zero sampling values fall back to
// temperature 0.95, top_p 0.7 and 1024 max tokens.
func New(gen Generator, sampling Sampling, l log.Logger) *implClient {
	if sampling.Temperature <= 0 {
		sampling.Temperature = defaultTemperature
	}
	if sampling.TopP <= 0 {
		sampling.TopP = defaultTopP
	}
	if sampling.MaxTokens <= 0 {
		sampling.MaxTokens = defaultMaxTokens
	}
	return &implClient{
		gen:      gen,
		sampling: sampling,
		l:        l,
	}
}
