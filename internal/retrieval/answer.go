package retrieval

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/recallbot/internal/llm"
	"github.com/fyrsmithlabs/recallbot/internal/logging"
	"github.com/fyrsmithlabs/recallbot/internal/memory"
	"github.com/fyrsmithlabs/recallbot/internal/vectorstore"
)

const answerSystemPrompt = "You are a highly detailed and helpful assistant. " +
	"You MUST respond ONLY in Russian (на русском языке). NEVER use English, " +
	"even if the context or question is in English. Always translate relevant " +
	"information to Russian."

// answerApology is the hard fallback when every provider fails.
const answerApology = "Извините, сейчас я не могу ответить на этот вопрос. Попробуйте ещё раз позже."

// Answerer composes a grounded answer from reranked matches.
type Answerer struct {
	provider llm.Provider
	logger   *logging.Logger
}

// NewAnswerer creates an Answerer.
func NewAnswerer(provider llm.Provider, logger *logging.Logger) (*Answerer, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: provider is required", llm.ErrInvalidConfig)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Answerer{provider: provider, logger: logger.Named("answer")}, nil
}

// Answer generates a Russian answer to the question using the matches
// as context. Never fails: provider errors yield an apology.
func (a *Answerer) Answer(ctx context.Context, question string, matches []vectorstore.SearchResult) string {
	contextText := buildContext(matches)

	prompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s\n\nAnswer (in Russian):", contextText, question)
	answer, err := a.provider.Complete(ctx, answerSystemPrompt, prompt)
	if err != nil {
		a.logger.Error(ctx, "answer generation failed",
			zap.String("question", logging.Preview(question, 50)),
			zap.Error(err),
		)
		return answerApology
	}
	return strings.TrimSpace(answer)
}

// buildContext renders matches as a delimited context block.
func buildContext(matches []vectorstore.SearchResult) string {
	if len(matches) == 0 {
		return "No specific context found in memory."
	}
	var b strings.Builder
	for _, m := range matches {
		it, err := memory.ItemFromMetadata(m.Metadata)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "---\nSourceType: %s\nContent: %s\n---\n\n", it.Type, it.Text)
	}
	if b.Len() == 0 {
		return "No specific context found in memory."
	}
	return b.String()
}
