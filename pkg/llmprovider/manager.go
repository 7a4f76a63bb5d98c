package llmprovider

import (
	"context"
	"fmt"
	"time"

	"cyber-doctor/pkg/log"
)

// Manager orchestrates provider selection, fallback, and retry logic
type Manager struct {
	providers []Provider
	config    *Config
	logger    log.Logger
}

// Config defines configuration for the Provider Manager
type Config struct {
	FallbackEnabled bool
	RetryAttempts   int
	RetryDelay      time.Duration
	MaxTotalTimeout time.Duration // Global timeout for the whole fallback chain of a blocking call
}

// NewManager creates a new Provider Manager with the given providers, config, and logger
func NewManager(providers []Provider, config *Config, logger log.Logger) *Manager {
	if config == nil {
		config = &Config{RetryAttempts: 1}
	}
	return &Manager{
		providers: providers,
		config:    config,
		logger:    logger,
	}
}

// GenerateContent iterates through providers in priority order with fallback logic
func (m *Manager) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	if len(m.providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}
	if req == nil || len(req.Messages) == 0 {
		return nil, ErrInvalidRequest
	}

	var cancel context.CancelFunc
	if m.config.MaxTotalTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, m.config.MaxTotalTimeout)
		defer cancel()
	}

	var lastErr error

	for _, provider := range m.providers {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("global timeout exceeded after trying %d provider(s): %w",
				len(m.providers), ctx.Err())
		default:
		}

		resp, err := m.generateWithRetry(ctx, provider, req)
		if err == nil {
			m.logSuccess(ctx, provider, resp)
			return resp, nil
		}

		m.logFailure(ctx, provider, err)
		lastErr = &ProviderError{Provider: provider.Name(), Err: err}

		if !m.config.FallbackEnabled {
			break
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrAllProvidersFailed, lastErr)
}

// StreamContent opens a stream on the first provider that produces a delta.
// Fallback only happens before the first delta; a stream that fails midway
// reports the error through Stream.Err.
func (m *Manager) StreamContent(ctx context.Context, req *Request) (Stream, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, ErrInvalidRequest
	}

	var lastErr error
	tried := 0

	for _, provider := range m.providers {
		sp, ok := provider.(StreamProvider)
		if !ok {
			continue
		}
		tried++

		stream, err := m.streamWithRetry(ctx, sp, req)
		if err == nil {
			m.logger.Info(ctx, "LLM stream opened",
				"provider", provider.Name(),
				"model", provider.Model(),
			)
			return stream, nil
		}

		m.logFailure(ctx, provider, err)
		lastErr = &ProviderError{Provider: provider.Name(), Err: err}

		if !m.config.FallbackEnabled {
			break
		}
	}

	if tried == 0 {
		return nil, ErrNoProvidersConfigured
	}
	return nil, fmt.Errorf("%w: %v", ErrAllProvidersFailed, lastErr)
}

// generateWithRetry retries a provider with linear backoff
func (m *Manager) generateWithRetry(ctx context.Context, provider Provider, req *Request) (*Response, error) {
	var lastErr error

	for attempt := 0; attempt < m.attempts(); attempt++ {
		if err := m.backoff(ctx, attempt); err != nil {
			return nil, err
		}

		resp, err := provider.GenerateContent(ctx, req)
		if err == nil {
			return resp, nil
		}

		lastErr = err
	}

	return nil, lastErr
}

func (m *Manager) streamWithRetry(ctx context.Context, provider StreamProvider, req *Request) (Stream, error) {
	var lastErr error

	for attempt := 0; attempt < m.attempts(); attempt++ {
		if err := m.backoff(ctx, attempt); err != nil {
			return nil, err
		}

		raw, err := provider.StreamContent(ctx, req)
		if err == nil {
			stream, perr := prefetch(raw)
			if perr == nil {
				return stream, nil
			}
			err = perr
		}

		lastErr = err
	}

	return nil, lastErr
}

func (m *Manager) attempts() int {
	if m.config.RetryAttempts <= 0 {
		return 1
	}
	return m.config.RetryAttempts
}

func (m *Manager) backoff(ctx context.Context, attempt int) error {
	if attempt == 0 {
		return nil
	}
	delay := time.Duration(attempt) * m.config.RetryDelay
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// logSuccess logs successful LLM generation with usage
func (m *Manager) logSuccess(ctx context.Context, provider Provider, resp *Response) {
	inputTokens, outputTokens := 0, 0
	if resp.Usage != nil {
		inputTokens, outputTokens = resp.Usage.InputTokens, resp.Usage.OutputTokens
	}
	m.logger.Info(ctx, "LLM generation successful",
		"provider", provider.Name(),
		"model", provider.Model(),
		"input_tokens", inputTokens,
		"output_tokens", outputTokens,
	)
}

// logFailure logs failed LLM generation attempts
func (m *Manager) logFailure(ctx context.Context, provider Provider, err error) {
	m.logger.Warn(ctx, "LLM generation failed",
		"provider", provider.Name(),
		"model", provider.Model(),
		"error", err.Error(),
	)
}
