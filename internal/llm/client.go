package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/recallbot/internal/config"
	"github.com/fyrsmithlabs/recallbot/internal/logging"
)

// Default request handling values.
const (
	defaultMaxRetries  = 3
	defaultBaseBackoff = time.Second
)

// Rate limiter defaults: 50 requests per minute.
const (
	defaultRateLimit = 50.0 / 60.0
	defaultBurst     = 5
)

// Client is a Provider backed by an OpenAI-compatible chat endpoint.
type Client struct {
	model       string
	llm         *openai.LLM
	temperature float64
	limiter     *rate.Limiter
	maxRetries  int
	logger      *logging.Logger
}

// NewClient creates a client for the given model. The base URL and key
// come from shared LLM configuration, the model is per-client so the
// cheap and primary models share one config block.
func NewClient(cfg config.LLMConfig, model string, logger *logging.Logger) (*Client, error) {
	if !cfg.APIKey.IsSet() {
		return nil, fmt.Errorf("%w: API key required", ErrInvalidConfig)
	}
	if model == "" {
		return nil, fmt.Errorf("%w: model required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	llmClient, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(model),
		openai.WithToken(cfg.APIKey.Value()),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}

	return &Client{
		model:       model,
		llm:         llmClient,
		temperature: cfg.Temperature,
		limiter:     rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
		maxRetries:  defaultMaxRetries,
		logger:      logger.Named("llm"),
	}, nil
}

// Name returns the model identifier.
func (c *Client) Name() string {
	return c.model
}

// Complete generates a text completion for the prompt.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	return c.CompleteWithMedia(ctx, system, prompt, nil)
}

// CompleteWithMedia generates a completion with binary attachments.
func (c *Client) CompleteWithMedia(ctx context.Context, system, prompt string, media []Media) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	messages := buildMessages(system, prompt, media)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := defaultBaseBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		resp, err := c.llm.GenerateContent(ctx, messages,
			llms.WithTemperature(c.temperature),
		)
		if err != nil {
			lastErr = err
			c.logger.Warn(ctx, "completion attempt failed",
				zap.String("model", c.model),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			continue
		}

		if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
			return "", ErrEmptyResponse
		}
		return resp.Choices[0].Content, nil
	}

	return "", fmt.Errorf("model %s: max retries exceeded: %w", c.model, lastErr)
}

// buildMessages assembles the chat payload: an optional system message,
// then one human message carrying media parts before the prompt text.
func buildMessages(system, prompt string, media []Media) []llms.MessageContent {
	parts := make([]llms.ContentPart, 0, len(media)+1)
	for _, m := range media {
		parts = append(parts, llms.BinaryPart(m.MIMEType, m.Data))
	}
	parts = append(parts, llms.TextPart(prompt))

	messages := make([]llms.MessageContent, 0, 2)
	if system != "" {
		messages = append(messages, llms.TextParts(schema.ChatMessageTypeSystem, system))
	}
	messages = append(messages, llms.MessageContent{
		Role:  schema.ChatMessageTypeHuman,
		Parts: parts,
	})
	return messages
}

// Ensure Client implements Provider.
var _ Provider = (*Client)(nil)
