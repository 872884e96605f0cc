// Package intent classifies user queries before retrieval.
//
// Two classifiers live here: the text classifier decides whether a
// query wants stored items, an answer, or both, and suggests a type
// filter; the voice classifier decides whether a transcription is a
// question, dictated content to save, or a selection command.
//
// Both classifiers never fail: on any provider or parse error they
// degrade to a safe default instead of surfacing an error to the
// pipeline.
package intent

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/recallbot/internal/llm"
	"github.com/fyrsmithlabs/recallbot/internal/logging"
	"github.com/fyrsmithlabs/recallbot/internal/memory"
)

// Intent describes what a text query wants from the pipeline.
type Intent string

const (
	// IntentSearch requests stored files or media.
	IntentSearch Intent = "SEARCH"

	// IntentAsk asks a question to be answered from stored history.
	IntentAsk Intent = "ASK"

	// IntentBoth requests items and an answer.
	IntentBoth Intent = "BOTH"
)

// Classification is the advisory output of the text classifier.
// TypeFilter is empty when the query should search all types.
type Classification struct {
	Intent     Intent
	TypeFilter memory.ItemType
}

// defaultClassification searches unfiltered and treats the query as a
// question. Used whenever the provider fails or returns garbage.
var defaultClassification = Classification{Intent: IntentAsk}

const classifyPrompt = `Analyze this query to a personal memory assistant: %q

Determine if the user is:
1. Explicitly requesting a file/document/media (SEARCH).
2. Asking a general question based on saved history (ASK).
3. Both (BOTH).

Guidelines for "filter":
- If the user mentions an invoice, receipt, bill or PDF ("счет", "чек", "инвойс"), use {"type": "document"}.
- If the user is vague (e.g. "what was there about light?"), use {"type": null} to search everything.
- If the user asks for a video or image, use the respective type.

Respond ONLY with a JSON object:
{
  "intent": "SEARCH" | "ASK" | "BOTH",
  "filter": {"type": "document" | "image" | "video" | "link" | null}
}`

// Classifier classifies queries via a language model cascade.
type Classifier struct {
	provider llm.Provider
	logger   *logging.Logger
}

// NewClassifier creates a Classifier.
func NewClassifier(provider llm.Provider, logger *logging.Logger) (*Classifier, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: provider is required", llm.ErrInvalidConfig)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Classifier{provider: provider, logger: logger.Named("intent")}, nil
}

// Classify maps a free-text query to an intent and optional type filter.
// It always returns a structurally valid classification.
func (c *Classifier) Classify(ctx context.Context, query string) Classification {
	response, err := c.provider.Complete(ctx, "", fmt.Sprintf(classifyPrompt, query))
	if err != nil {
		c.logger.Warn(ctx, "intent classification failed, using safe default",
			zap.String("query", logging.Preview(query, 50)),
			zap.Error(err),
		)
		return defaultClassification
	}

	classification, ok := parseClassification(response)
	if !ok {
		c.logger.Warn(ctx, "unparseable classification response, using safe default",
			zap.String("response", logging.Preview(response, 100)),
		)
		return defaultClassification
	}

	c.logger.Debug(ctx, "query classified",
		zap.String("intent", string(classification.Intent)),
		zap.String("type_filter", string(classification.TypeFilter)),
	)
	return classification
}

func parseClassification(response string) (Classification, bool) {
	raw := llm.ExtractJSONObject(response)
	if raw == "" {
		return Classification{}, false
	}

	var parsed struct {
		Intent string `json:"intent"`
		Filter struct {
			Type *string `json:"type"`
		} `json:"filter"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return Classification{}, false
	}

	classification := Classification{Intent: Intent(parsed.Intent)}
	switch classification.Intent {
	case IntentSearch, IntentAsk, IntentBoth:
	default:
		return Classification{}, false
	}

	if parsed.Filter.Type != nil {
		t := memory.ItemType(*parsed.Filter.Type)
		// Unknown filter types are dropped, not treated as failure: the
		// intent itself is still usable and an unfiltered search is the
		// safe interpretation.
		if t.Valid() {
			classification.TypeFilter = t
		}
	}
	return classification, true
}
