package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextFields(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ContextFields(ctx))

	ctx = WithChatID(ctx, 555)
	ctx = WithUserID(ctx, 42)
	ctx = WithOperation(ctx, "search")

	fields := ContextFields(ctx)
	assert.Len(t, fields, 3)

	assert.Equal(t, int64(555), ChatIDFromContext(ctx))
	assert.Equal(t, int64(42), UserIDFromContext(ctx))
	assert.Equal(t, "search", OperationFromContext(ctx))
}

func TestContextAccessorsZeroValues(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, int64(0), ChatIDFromContext(ctx))
	assert.Equal(t, int64(0), UserIDFromContext(ctx))
	assert.Equal(t, "", OperationFromContext(ctx))
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "short string untouched", in: "hello", max: 10, want: "hello"},
		{name: "long string truncated", in: "hello world", max: 5, want: "hello..."},
		{name: "multibyte runes", in: "привет мир", max: 6, want: "привет..."},
		{name: "exact length", in: "hello", max: 5, want: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Preview(tt.in, tt.max))
		})
	}
}
