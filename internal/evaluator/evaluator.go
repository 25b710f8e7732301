// Package evaluator talks to the language models that act as recommendation
// experts. Each call is text in, text out: the role's instructions plus a
// shared prompt go in, free text comes back.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Evaluator interface {
	Evaluate(ctx context.Context, role Role, prompt string) (string, error)
}

// Func adapts a plain function to Evaluator.
type Func func(ctx context.Context, role Role, prompt string) (string, error)

func (f Func) Evaluate(ctx context.Context, role Role, prompt string) (string, error) {
	return f(ctx, role, prompt)
}

// ErrNotConfigured is returned by the "none" provider for every call.
var ErrNotConfigured = errors.New("evaluator provider not configured")

// ProviderError is a failure reported by the model provider itself.
type ProviderError struct {
	Provider   string
	StatusCode int
	Msg        string
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Msg)
}

func IsProviderError(err error) bool {
	var target *ProviderError
	return errors.As(err, &target)
}

type Options struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// New builds the evaluator for the configured provider, wrapped in a
// circuit breaker.
func New(ctx context.Context, opts Options) (Evaluator, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = "none"
	}

	var ev Evaluator
	switch provider {
	case "none":
		ev = Func(func(context.Context, Role, string) (string, error) {
			return "", ErrNotConfigured
		})
	case "openai":
		ev = NewOpenAI(opts.APIKey, opts.Model, opts.BaseURL)
	case "gemini":
		g, err := NewGemini(ctx, opts.APIKey, opts.Model)
		if err != nil {
			return nil, err
		}
		ev = g
	default:
		return nil, fmt.Errorf("unsupported evaluator provider: %s", opts.Provider)
	}
	return WithBreaker(provider, ev), nil
}
