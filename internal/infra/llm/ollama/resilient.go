package ollama

import (
	"context"
	"log/slog"

	apperrors "github.com/knguyen2000/officehourlens/pkg/errors"
)

// Provider is the raw model client wrapped by Resilient.
type Provider interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Resilient wraps a Provider with the degradation policy the domain
// services rely on. With fallback enabled a provider failure is logged
// and surfaced as empty output, which the callers treat as "model
// unavailable" and handle with their local fallbacks. With fallback
// disabled the failure propagates as a provider error.
type Resilient struct {
	provider        Provider
	fallbackOnError bool
	logger          *slog.Logger
}

// NewResilient constructs the degradation wrapper.
func NewResilient(provider Provider, fallbackOnError bool, logger *slog.Logger) *Resilient {
	return &Resilient{
		provider:        provider,
		fallbackOnError: fallbackOnError,
		logger:          logger.With("component", "ollama.resilient"),
	}
}

// Generate returns the model completion, or an empty string when the
// provider fails and fallback is enabled.
func (r *Resilient) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	reply, err := r.provider.Generate(ctx, prompt, maxTokens)
	if err != nil {
		if r.fallbackOnError {
			r.logger.Warn("generation failed, falling back to empty completion", "error", err)
			return "", nil
		}
		return "", apperrors.Wrap("provider_error", "generation failed", err)
	}
	return reply, nil
}

// Embed returns one vector per text, or all-empty vectors when the
// provider fails and fallback is enabled.
func (r *Resilient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := r.provider.Embed(ctx, texts)
	if err != nil {
		if r.fallbackOnError {
			r.logger.Warn("embedding failed, falling back to empty vectors", "error", err)
			return make([][]float32, len(texts)), nil
		}
		return nil, apperrors.Wrap("provider_error", "embedding failed", err)
	}
	return vectors, nil
}
