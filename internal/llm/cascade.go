package llm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/recallbot/internal/config"
	"github.com/fyrsmithlabs/recallbot/internal/logging"
)

// Cascade tries providers in order and returns the first success.
//
// The typical arrangement is a cheap model first and the primary model
// as fallback, so routine classification traffic stays off the
// expensive model while failures still get answered.
type Cascade struct {
	providers []Provider
	logger    *logging.Logger
}

// NewCascade creates a cascade over the given providers, in order.
func NewCascade(logger *logging.Logger, providers ...Provider) (*Cascade, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("%w: at least one provider required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Cascade{providers: providers, logger: logger.Named("cascade")}, nil
}

// NewCascadeFromConfig builds the standard cheap-then-primary cascade.
// When no separate cheap model is configured, the cascade holds only
// the primary.
func NewCascadeFromConfig(cfg config.LLMConfig, logger *logging.Logger) (*Cascade, error) {
	primary, err := NewClient(cfg, cfg.Model, logger)
	if err != nil {
		return nil, err
	}
	if cfg.CheapModel == "" || cfg.CheapModel == cfg.Model {
		return NewCascade(logger, primary)
	}
	cheap, err := NewClient(cfg, cfg.CheapModel, logger)
	if err != nil {
		return nil, err
	}
	return NewCascade(logger, cheap, primary)
}

// Name identifies the cascade by its first provider.
func (c *Cascade) Name() string {
	return "cascade:" + c.providers[0].Name()
}

// Complete tries each provider in order until one succeeds.
func (c *Cascade) Complete(ctx context.Context, system, prompt string) (string, error) {
	return c.CompleteWithMedia(ctx, system, prompt, nil)
}

// CompleteWithMedia tries each provider in order until one succeeds.
func (c *Cascade) CompleteWithMedia(ctx context.Context, system, prompt string, media []Media) (string, error) {
	var errs []error
	for _, provider := range c.providers {
		result, err := provider.CompleteWithMedia(ctx, system, prompt, media)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		c.logger.Warn(ctx, "provider failed, trying next",
			zap.String("provider", provider.Name()),
			zap.Error(err),
		)
		errs = append(errs, fmt.Errorf("%s: %w", provider.Name(), err))
	}
	return "", fmt.Errorf("%w: %w", ErrAllProvidersFailed, errors.Join(errs...))
}

// Ensure Cascade implements Provider.
var _ Provider = (*Cascade)(nil)
