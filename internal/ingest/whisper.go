package ingest

import (
	"bytes"
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Transcriber converts audio bytes to text.
type Transcriber interface {
	Transcribe(ctx context.Context, mime string, data []byte) (string, error)
}

// extByMime maps audio MIME types to the filename extension the
// transcription API uses for format detection.
var extByMime = map[string]string{
	"audio/ogg":  "ogg",
	"audio/mpeg": "mp3",
	"audio/mp4":  "m4a",
	"audio/wav":  "wav",
	"audio/webm": "webm",
}

// WhisperTranscriber is the paid transcription fallback used when the
// multimodal provider cannot analyze audio.
type WhisperTranscriber struct {
	client *openai.Client
}

// NewWhisperTranscriber creates a WhisperTranscriber.
func NewWhisperTranscriber(apiKey string) (*WhisperTranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("whisper API key required")
	}
	return &WhisperTranscriber{client: openai.NewClient(apiKey)}, nil
}

// Transcribe runs Whisper over the audio payload. Russian is pinned as
// the language hint for better accuracy with this deployment's users.
func (w *WhisperTranscriber) Transcribe(ctx context.Context, mime string, data []byte) (string, error) {
	ext, ok := extByMime[mime]
	if !ok {
		ext = "ogg"
	}

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: "audio." + ext,
		Reader:   bytes.NewReader(data),
		Language: "ru",
		Format:   openai.AudioResponseFormatText,
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription: %w", err)
	}
	return resp.Text, nil
}

var _ Transcriber = (*WhisperTranscriber)(nil)
