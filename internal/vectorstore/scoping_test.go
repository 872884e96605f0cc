package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatFromContext(t *testing.T) {
	tests := []struct {
		name    string
		ctx     context.Context
		want    int64
		wantErr error
	}{
		{
			name: "scoped context",
			ctx:  ContextWithChat(context.Background(), 555),
			want: 555,
		},
		{
			name:    "unscoped context",
			ctx:     context.Background(),
			wantErr: ErrMissingChatScope,
		},
		{
			name:    "zero chat id is invalid",
			ctx:     ContextWithChat(context.Background(), 0),
			wantErr: ErrMissingChatScope,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ChatFromContext(tt.ctx)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInjectScopeFilter(t *testing.T) {
	ctx := ContextWithChat(context.Background(), 555)

	t.Run("adds chat filter to nil filters", func(t *testing.T) {
		filters, err := injectScopeFilter(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"chat_id": int64(555)}, filters)
	})

	t.Run("preserves caller filters", func(t *testing.T) {
		filters, err := injectScopeFilter(ctx, map[string]interface{}{"type": "link"})
		require.NoError(t, err)
		assert.Equal(t, "link", filters["type"])
		assert.Equal(t, int64(555), filters["chat_id"])
	})

	t.Run("overrides caller-supplied chat id", func(t *testing.T) {
		filters, err := injectScopeFilter(ctx, map[string]interface{}{"chat_id": int64(777)})
		require.NoError(t, err)
		assert.Equal(t, int64(555), filters["chat_id"])
	})

	t.Run("drops nil filter values", func(t *testing.T) {
		filters, err := injectScopeFilter(ctx, map[string]interface{}{"type": nil})
		require.NoError(t, err)
		_, present := filters["type"]
		assert.False(t, present)
	})

	t.Run("fails closed without scope", func(t *testing.T) {
		_, err := injectScopeFilter(context.Background(), nil)
		require.ErrorIs(t, err, ErrMissingChatScope)
	})
}

func TestInjectScopeMetadata(t *testing.T) {
	ctx := ContextWithChat(context.Background(), 555)

	t.Run("stamps chat id into every document", func(t *testing.T) {
		docs := []Document{
			{ID: "a", Content: "first"},
			{ID: "b", Content: "second", Metadata: map[string]interface{}{"type": "link"}},
		}
		require.NoError(t, injectScopeMetadata(ctx, docs))
		for _, doc := range docs {
			assert.Equal(t, int64(555), doc.Metadata["chat_id"])
		}
		assert.Equal(t, "link", docs[1].Metadata["type"])
	})

	t.Run("rejects documents scoped to another chat", func(t *testing.T) {
		docs := []Document{
			{ID: "a", Content: "first", Metadata: map[string]interface{}{"chat_id": int64(777)}},
		}
		err := injectScopeMetadata(ctx, docs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "foreign chat scope")
	})

	t.Run("fails closed without scope", func(t *testing.T) {
		err := injectScopeMetadata(context.Background(), []Document{{ID: "a"}})
		require.ErrorIs(t, err, ErrMissingChatScope)
	})
}

func TestCleanMetadata(t *testing.T) {
	meta := map[string]interface{}{
		"url":  "https://example.com",
		"mime": nil,
	}
	clean := CleanMetadata(meta)
	assert.Equal(t, map[string]interface{}{"url": "https://example.com"}, clean)
	assert.Nil(t, CleanMetadata(nil))
}
