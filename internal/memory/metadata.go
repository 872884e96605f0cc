package memory

import (
	"fmt"
	"strconv"
)

// Metadata keys shared with the vector store payload.
const (
	KeyText      = "text"
	KeyType      = "type"
	KeyChatID    = "chat_id"
	KeyMessageID = "message_id"
	KeyThreadID  = "thread_id"
	KeyURL       = "url"
	KeyMime      = "mime"
	KeyLatitude  = "latitude"
	KeyLongitude = "longitude"
	KeyAddress   = "address"
)

// Metadata encodes the item as a vector store payload mapping.
//
// Keys with absent values are omitted, never stored as null, so metadata
// equality filters behave predictably.
func (it Item) Metadata() map[string]interface{} {
	meta := map[string]interface{}{
		KeyText:      it.Text,
		KeyType:      string(it.Type),
		KeyChatID:    it.ChatID,
		KeyMessageID: it.MessageID,
	}
	if it.ThreadID != 0 {
		meta[KeyThreadID] = it.ThreadID
	}
	if it.URL != "" {
		meta[KeyURL] = it.URL
	}
	if it.Mime != "" {
		meta[KeyMime] = it.Mime
	}
	if it.Type == TypeLocation {
		meta[KeyLatitude] = it.Latitude
		meta[KeyLongitude] = it.Longitude
		if it.Address != "" {
			meta[KeyAddress] = it.Address
		}
	}
	return meta
}

// ItemFromMetadata decodes a vector store payload back into an Item.
//
// The fingerprint is not part of the payload; callers that need it
// should take it from the search result ID. Numeric values arrive as
// int64, float64 or string depending on the store backend; all are
// accepted.
func ItemFromMetadata(meta map[string]interface{}) (Item, error) {
	it := Item{
		ID:        "restored", // placeholder, overwritten by callers that have the real ID
		Text:      stringValue(meta, KeyText),
		Type:      ItemType(stringValue(meta, KeyType)),
		ChatID:    intValue(meta, KeyChatID),
		MessageID: intValue(meta, KeyMessageID),
		ThreadID:  intValue(meta, KeyThreadID),
		URL:       stringValue(meta, KeyURL),
		Mime:      stringValue(meta, KeyMime),
		Latitude:  floatValue(meta, KeyLatitude),
		Longitude: floatValue(meta, KeyLongitude),
		Address:   stringValue(meta, KeyAddress),
	}
	if !it.Type.Valid() {
		return Item{}, fmt.Errorf("%w: %q", ErrUnknownType, it.Type)
	}
	return it, nil
}

func stringValue(meta map[string]interface{}, key string) string {
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}

func intValue(meta map[string]interface{}, key string) int64 {
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

func floatValue(meta map[string]interface{}, key string) float64 {
	switch v := meta[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}
