// Package reranker provides LLM-based relevance filtering of search
// candidates.
//
// Raw vector similarity over-recalls semantically adjacent but
// practically irrelevant items, so a second model pass picks the
// candidates that actually answer the query. The pass never dead-ends
// the pipeline: any provider failure degrades to the single
// highest-ranked raw candidate.
package reranker

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/recallbot/internal/llm"
	"github.com/fyrsmithlabs/recallbot/internal/logging"
	"github.com/fyrsmithlabs/recallbot/internal/memory"
	"github.com/fyrsmithlabs/recallbot/internal/vectorstore"
)

// previewLimit bounds the candidate text sent to the provider.
const previewLimit = 300

// Reranker filters candidates down to the truly relevant subset.
type Reranker interface {
	// Rerank returns an order-preserving subsequence of candidates.
	// Empty input yields empty output without a provider call.
	Rerank(ctx context.Context, query string, candidates []vectorstore.SearchResult) []vectorstore.SearchResult
}

const rerankPrompt = `Query: %q
Candidates: %s

Task: Identify which CANDIDATE indices are DIRECTLY relevant to the query.
For a file request, only pick files that match the description.
If multiple files match (e.g. multiple bills), pick all of them.

Respond ONLY with a JSON list of indices, e.g.: [0, 2]
If nothing is relevant, respond with: []`

// candidatePayload is what the provider sees per candidate. Never the
// raw vector.
type candidatePayload struct {
	Index     int    `json:"index"`
	Type      string `json:"type"`
	Text      string `json:"text"`
	MessageID int64  `json:"message_id"`
}

// LLMReranker implements Reranker via a language model cascade.
type LLMReranker struct {
	provider llm.Provider
	logger   *logging.Logger
}

// NewLLMReranker creates an LLMReranker.
func NewLLMReranker(provider llm.Provider, logger *logging.Logger) (*LLMReranker, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: provider is required", llm.ErrInvalidConfig)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LLMReranker{provider: provider, logger: logger.Named("reranker")}, nil
}

// Rerank asks the provider for relevant candidate indices and returns
// the matching candidates in their original order. On failure it
// returns the top raw candidate so the pipeline always has an answer.
func (r *LLMReranker) Rerank(ctx context.Context, query string, candidates []vectorstore.SearchResult) []vectorstore.SearchResult {
	if len(candidates) == 0 {
		return nil
	}

	payload := make([]candidatePayload, len(candidates))
	for i, cand := range candidates {
		meta := cand.Metadata
		payload[i] = candidatePayload{
			Index:     i,
			Type:      metadataString(meta, memory.KeyType),
			Text:      logging.Preview(candidateText(cand), previewLimit),
			MessageID: metadataInt(meta, memory.KeyMessageID),
		}
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error(ctx, "encoding rerank candidates", zap.Error(err))
		return candidates[:1]
	}

	response, err := r.provider.Complete(ctx, "", fmt.Sprintf(rerankPrompt, query, encoded))
	if err != nil {
		r.logger.Warn(ctx, "rerank failed, falling back to top raw candidate",
			zap.Int("candidates", len(candidates)),
			zap.Error(err),
		)
		return candidates[:1]
	}

	raw := llm.ExtractJSONArray(response)
	if raw == "" {
		r.logger.Warn(ctx, "unparseable rerank response, falling back to top raw candidate",
			zap.String("response", logging.Preview(response, 100)),
		)
		return candidates[:1]
	}

	var indices []int
	if err := json.Unmarshal([]byte(raw), &indices); err != nil {
		r.logger.Warn(ctx, "invalid rerank indices, falling back to top raw candidate",
			zap.Error(err),
		)
		return candidates[:1]
	}

	// Indices are applied in the order the provider returned them but
	// filtered to valid ones; the provider is prompted to keep original
	// order, and out-of-range values are dropped rather than erroring.
	selected := make([]vectorstore.SearchResult, 0, len(indices))
	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(candidates) || seen[idx] {
			continue
		}
		seen[idx] = true
		selected = append(selected, candidates[idx])
	}

	r.logger.Debug(ctx, "reranked candidates",
		zap.Int("in", len(candidates)),
		zap.Int("out", len(selected)),
	)
	return selected
}

// candidateText prefers the stored description over raw content.
func candidateText(cand vectorstore.SearchResult) string {
	if text := metadataString(cand.Metadata, memory.KeyText); text != "" {
		return text
	}
	return cand.Content
}

func metadataString(meta map[string]interface{}, key string) string {
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}

// metadataInt accepts int64, float64 or string, since backends differ
// in how they round-trip numeric payload values.
func metadataInt(meta map[string]interface{}, key string) int64 {
	switch v := meta[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// Ensure LLMReranker implements Reranker.
var _ Reranker = (*LLMReranker)(nil)
