package vectorstore

import (
	"context"
	"fmt"
)

// chatScopeKey is the context key for the chat scope.
type chatScopeKey struct{}

// metadata key shared with internal/memory.
const chatIDKey = "chat_id"

// ContextWithChat returns a context scoped to the given chat.
//
// Every store operation requires this scope. The store injects the chat
// identifier into search filters and document metadata unconditionally,
// regardless of what the caller (or an upstream classifier) proposed, so
// cross-chat leakage is structurally impossible rather than merely
// checked.
func ContextWithChat(ctx context.Context, chatID int64) context.Context {
	return context.WithValue(ctx, chatScopeKey{}, chatID)
}

// ChatFromContext returns the chat scope, or ErrMissingChatScope.
func ChatFromContext(ctx context.Context) (int64, error) {
	chatID, ok := ctx.Value(chatScopeKey{}).(int64)
	if !ok || chatID == 0 {
		return 0, ErrMissingChatScope
	}
	return chatID, nil
}

// injectScopeFilter merges the mandatory chat filter into user filters.
// Nil-valued filter entries are dropped. The chat entry always wins.
func injectScopeFilter(ctx context.Context, filters map[string]interface{}) (map[string]interface{}, error) {
	chatID, err := ChatFromContext(ctx)
	if err != nil {
		return nil, err
	}

	merged := CleanMetadata(filters)
	if merged == nil {
		merged = make(map[string]interface{}, 1)
	}
	merged[chatIDKey] = chatID
	return merged, nil
}

// injectScopeMetadata stamps the chat scope into every document,
// overwriting whatever the caller supplied for the scope key.
func injectScopeMetadata(ctx context.Context, docs []Document) error {
	chatID, err := ChatFromContext(ctx)
	if err != nil {
		return err
	}

	for i := range docs {
		docs[i].Metadata = CleanMetadata(docs[i].Metadata)
		if docs[i].Metadata == nil {
			docs[i].Metadata = make(map[string]interface{}, 1)
		}
		if existing, ok := docs[i].Metadata[chatIDKey]; ok {
			if asInt64(existing) != chatID {
				return fmt.Errorf("document %s carries foreign chat scope", docs[i].ID)
			}
		}
		docs[i].Metadata[chatIDKey] = chatID
	}
	return nil
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}
