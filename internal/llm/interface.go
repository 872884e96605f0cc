// Package llm provides language model completion with a model cascade.
//
// A cheap model is tried first for classification and reranking; the
// primary model serves as fallback and handles answering, summarization
// and media analysis. Providers speak the OpenAI chat completions
// protocol via langchaingo, so any compatible gateway works.
package llm

import (
	"context"
	"errors"
)

// Sentinel errors for LLM operations.
var (
	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyResponse indicates the model returned no content.
	ErrEmptyResponse = errors.New("empty response from model")

	// ErrAllProvidersFailed indicates every provider in the cascade failed.
	ErrAllProvidersFailed = errors.New("all providers failed")
)

// Media is a binary attachment for multimodal analysis.
type Media struct {
	// MIMEType identifies the payload ("image/jpeg", "audio/ogg", ...).
	MIMEType string

	// Data is the raw payload bytes.
	Data []byte
}

// Provider generates completions from a language model.
type Provider interface {
	// Name identifies the provider, used in logs.
	Name() string

	// Complete generates a text completion for the prompt.
	Complete(ctx context.Context, system, prompt string) (string, error)

	// CompleteWithMedia generates a completion for a prompt with binary
	// attachments (images, audio, video, documents).
	CompleteWithMedia(ctx context.Context, system, prompt string, media []Media) (string, error)
}
