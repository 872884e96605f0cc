package vectorstore

import (
	"context"
	"crypto/sha256"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/recallbot/internal/logging"
)

// fakeEmbedder produces deterministic unit vectors derived from the text
// hash. Identical texts map to identical vectors, so similarity search
// behaves predictably without a remote provider.
type fakeEmbedder struct{}

func (fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = hashVector(text)
	}
	return out, nil
}

func (fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return hashVector(text), nil
}

func hashVector(text string) []float32 {
	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, 8)
	var norm float64
	for i := range vec {
		vec[i] = float32(sum[i]) + 1
		norm += float64(vec[i]) * float64(vec[i])
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

func newTestStore(t *testing.T) *ChromemStore {
	t.Helper()
	store, err := NewChromemStoreInMemory(fakeEmbedder{}, logging.NewNop())
	require.NoError(t, err)
	return store
}

func TestChromemUpsertAndSearch(t *testing.T) {
	store := newTestStore(t)
	ctx := ContextWithChat(context.Background(), 555)

	ids, err := store.Upsert(ctx, []Document{
		{ID: "doc-1", Content: "recipe for borscht", Metadata: map[string]interface{}{"type": "link"}},
		{ID: "doc-2", Content: "vacation photo from the beach", Metadata: map[string]interface{}{"type": "image"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-1", "doc-2"}, ids)

	results, err := store.Search(ctx, "recipe for borscht", 5, nil)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "doc-1", results[0].ID)
	assert.Equal(t, "recipe for borscht", results[0].Content)
	assert.Equal(t, "link", results[0].Metadata["type"])
}

func TestChromemChatIsolation(t *testing.T) {
	store := newTestStore(t)
	chatA := ContextWithChat(context.Background(), 555)
	chatB := ContextWithChat(context.Background(), 777)

	_, err := store.Upsert(chatA, []Document{
		{ID: "doc-a", Content: "secret plans", Metadata: map[string]interface{}{"type": "document"}},
	})
	require.NoError(t, err)

	// Same query from another chat must see nothing.
	results, err := store.Search(chatB, "secret plans", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = store.Search(chatA, "secret plans", 5, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc-a", results[0].ID)
}

func TestChromemTypeFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := ContextWithChat(context.Background(), 555)

	_, err := store.Upsert(ctx, []Document{
		{ID: "doc-link", Content: "pasta recipe article", Metadata: map[string]interface{}{"type": "link"}},
		{ID: "doc-image", Content: "pasta recipe photo", Metadata: map[string]interface{}{"type": "image"}},
	})
	require.NoError(t, err)

	results, err := store.Search(ctx, "pasta recipe", 5, map[string]interface{}{"type": "image"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc-image", results[0].ID)
}

func TestChromemUpsertRequiresScope(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Upsert(context.Background(), []Document{{ID: "doc-1", Content: "text"}})
	require.ErrorIs(t, err, ErrMissingChatScope)

	_, err = store.Search(context.Background(), "text", 5, nil)
	require.ErrorIs(t, err, ErrMissingChatScope)
}

func TestChromemUpsertValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := ContextWithChat(context.Background(), 555)

	_, err := store.Upsert(ctx, nil)
	require.ErrorIs(t, err, ErrEmptyDocuments)

	_, err = store.Search(ctx, "", 5, nil)
	require.Error(t, err)

	_, err = store.Search(ctx, "query", 0, nil)
	require.Error(t, err)
}

func TestChromemSearchEmptyCollection(t *testing.T) {
	store := newTestStore(t)
	ctx := ContextWithChat(context.Background(), 555)

	// Force collection creation, then search before any documents exist.
	_, err := store.collection()
	require.NoError(t, err)

	results, err := store.Search(ctx, "anything", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestChromemUpsertOverwritesSameID(t *testing.T) {
	store := newTestStore(t)
	ctx := ContextWithChat(context.Background(), 555)

	_, err := store.Upsert(ctx, []Document{{ID: "doc-1", Content: "first version"}})
	require.NoError(t, err)
	_, err = store.Upsert(ctx, []Document{{ID: "doc-1", Content: "first version"}})
	require.NoError(t, err)

	results, err := store.Search(ctx, "first version", 5, nil)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestChromemDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := ContextWithChat(context.Background(), 555)

	_, err := store.Upsert(ctx, []Document{{ID: "doc-1", Content: "to be removed"}})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, []string{"doc-1"}))

	results, err := store.Search(ctx, "to be removed", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
