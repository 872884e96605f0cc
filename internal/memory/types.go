// Package memory defines the stored item data model.
//
// An Item is one remembered piece of content: a link, a photo, a voice
// note, a document or a location, together with the chat coordinates of
// the Telegram message it came from. Items are persisted in the vector
// store as (fingerprint, embedding, metadata) triples; this package owns
// the metadata encoding so malformed mappings cannot propagate past the
// store boundary.
package memory

import (
	"errors"
	"fmt"
)

// ItemType is the closed set of stored content types.
type ItemType string

const (
	TypeLink      ItemType = "link"
	TypeImage     ItemType = "image"
	TypeVideo     ItemType = "video"
	TypeVoiceNote ItemType = "voice_note"
	TypeAudioFile ItemType = "audio_file"
	TypeDocument  ItemType = "document"
	TypeLocation  ItemType = "location"
)

// FilterTypes lists the types the intent classifier may propose as a
// search filter.
var FilterTypes = []ItemType{TypeLink, TypeImage, TypeVideo, TypeDocument}

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	switch t {
	case TypeLink, TypeImage, TypeVideo, TypeVoiceNote, TypeAudioFile, TypeDocument, TypeLocation:
		return true
	}
	return false
}

// Glyph returns the presentation symbol for the type.
func (t ItemType) Glyph() string {
	switch t {
	case TypeLink:
		return "🔗"
	case TypeImage:
		return "🖼"
	case TypeVideo:
		return "🎬"
	case TypeVoiceNote:
		return "🎙"
	case TypeAudioFile:
		return "🎵"
	case TypeDocument:
		return "📄"
	case TypeLocation:
		return "📍"
	default:
		return "💾"
	}
}

// Label returns the Russian display label for the type.
func (t ItemType) Label() string {
	switch t {
	case TypeLink:
		return "ссылка"
	case TypeImage:
		return "фото"
	case TypeVideo:
		return "видео"
	case TypeVoiceNote:
		return "голосовое"
	case TypeAudioFile:
		return "аудио"
	case TypeDocument:
		return "документ"
	case TypeLocation:
		return "локация"
	default:
		return string(t)
	}
}

// Sentinel errors for item validation.
var (
	// ErrInvalidItem indicates an item that fails validation.
	ErrInvalidItem = errors.New("invalid item")

	// ErrUnknownType indicates an unrecognized item type.
	ErrUnknownType = errors.New("unknown item type")
)

// Item is one stored memory entry.
//
// ChatID and MessageID point back at the original Telegram message so
// it can be re-sent on retrieval. Text is the canonical description the
// embedding was computed from.
type Item struct {
	// ID is the deterministic content fingerprint used as the vector
	// store key. See Fingerprint.
	ID string

	Type ItemType

	// Text is the canonical description: a summary for links, an
	// AI-generated description for media, the transcript for voice.
	Text string

	ChatID    int64
	MessageID int64
	ThreadID  int64

	// URL is set for TypeLink.
	URL string

	// Mime is set for media types.
	Mime string

	// Latitude, Longitude and Address are set for TypeLocation.
	Latitude  float64
	Longitude float64
	Address   string
}

// Validate checks the item's type-specific shape.
func (it Item) Validate() error {
	if !it.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, it.Type)
	}
	if it.ID == "" {
		return fmt.Errorf("%w: missing fingerprint", ErrInvalidItem)
	}
	if it.Text == "" {
		return fmt.Errorf("%w: missing text", ErrInvalidItem)
	}
	if it.ChatID == 0 || it.MessageID == 0 {
		return fmt.Errorf("%w: missing chat/message id", ErrInvalidItem)
	}
	switch it.Type {
	case TypeLink:
		if it.URL == "" {
			return fmt.Errorf("%w: link without url", ErrInvalidItem)
		}
	case TypeLocation:
		if it.Latitude == 0 && it.Longitude == 0 {
			return fmt.Errorf("%w: location without coordinates", ErrInvalidItem)
		}
	}
	return nil
}

// EmbeddingText returns the text representation the embedding is
// computed from. Media descriptions are prefixed with the type so "voice
// note about X" style queries land near the right items.
func (it Item) EmbeddingText() string {
	if it.Type == TypeLink {
		return it.Text
	}
	return fmt.Sprintf("%s: %s", it.Type, it.Text)
}
