package reranker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/recallbot/internal/llm"
	"github.com/fyrsmithlabs/recallbot/internal/logging"
	"github.com/fyrsmithlabs/recallbot/internal/vectorstore"
)

type stubProvider struct {
	response   string
	err        error
	lastPrompt string
	calls      int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	return s.response, s.err
}

func (s *stubProvider) CompleteWithMedia(ctx context.Context, system, prompt string, media []llm.Media) (string, error) {
	return s.Complete(ctx, system, prompt)
}

func candidates() []vectorstore.SearchResult {
	return []vectorstore.SearchResult{
		{ID: "c0", Score: 0.9, Metadata: map[string]interface{}{"type": "document", "text": "invoice from january", "message_id": int64(10)}},
		{ID: "c1", Score: 0.8, Metadata: map[string]interface{}{"type": "image", "text": "beach photo", "message_id": int64(11)}},
		{ID: "c2", Score: 0.7, Metadata: map[string]interface{}{"type": "document", "text": "invoice from march", "message_id": int64(12)}},
	}
}

func newReranker(t *testing.T, provider llm.Provider) *LLMReranker {
	t.Helper()
	r, err := NewLLMReranker(provider, logging.NewNop())
	require.NoError(t, err)
	return r
}

func TestRerankSelectsIndices(t *testing.T) {
	r := newReranker(t, &stubProvider{response: "[0, 2]"})

	result := r.Rerank(context.Background(), "invoices", candidates())

	require.Len(t, result, 2)
	assert.Equal(t, "c0", result[0].ID)
	assert.Equal(t, "c2", result[1].ID)
}

func TestRerankEmptyInput(t *testing.T) {
	provider := &stubProvider{response: "[0]"}
	r := newReranker(t, provider)

	result := r.Rerank(context.Background(), "anything", nil)

	assert.Empty(t, result)
	assert.Zero(t, provider.calls)
}

func TestRerankNothingRelevant(t *testing.T) {
	r := newReranker(t, &stubProvider{response: "[]"})

	result := r.Rerank(context.Background(), "unrelated", candidates())

	assert.Empty(t, result)
}

func TestRerankProviderFailure(t *testing.T) {
	r := newReranker(t, &stubProvider{err: errors.New("provider down")})

	result := r.Rerank(context.Background(), "invoices", candidates())

	require.Len(t, result, 1)
	assert.Equal(t, "c0", result[0].ID)
}

func TestRerankGarbageResponse(t *testing.T) {
	r := newReranker(t, &stubProvider{response: "all of them look fine"})

	result := r.Rerank(context.Background(), "invoices", candidates())

	require.Len(t, result, 1)
	assert.Equal(t, "c0", result[0].ID)
}

func TestRerankDropsInvalidIndices(t *testing.T) {
	r := newReranker(t, &stubProvider{response: "[1, 7, -2, 1]"})

	result := r.Rerank(context.Background(), "photo", candidates())

	require.Len(t, result, 1)
	assert.Equal(t, "c1", result[0].ID)
}

func TestRerankPromptCarriesPreviewsNotVectors(t *testing.T) {
	provider := &stubProvider{response: "[0]"}
	r := newReranker(t, provider)

	r.Rerank(context.Background(), "invoices", candidates())

	assert.Contains(t, provider.lastPrompt, "invoice from january")
	assert.Contains(t, provider.lastPrompt, `"message_id":10`)
}
