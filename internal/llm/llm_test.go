package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/schema"

	"github.com/fyrsmithlabs/recallbot/internal/logging"
)

// stubProvider returns a fixed response or error.
type stubProvider struct {
	name   string
	result string
	err    error
	calls  int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	return s.CompleteWithMedia(ctx, system, prompt, nil)
}

func (s *stubProvider) CompleteWithMedia(ctx context.Context, system, prompt string, media []Media) (string, error) {
	s.calls++
	return s.result, s.err
}

func TestCascadeFirstSuccess(t *testing.T) {
	cheap := &stubProvider{name: "cheap", result: "answer"}
	primary := &stubProvider{name: "primary", result: "unused"}

	cascade, err := NewCascade(logging.NewNop(), cheap, primary)
	require.NoError(t, err)

	result, err := cascade.Complete(context.Background(), "sys", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "answer", result)
	assert.Equal(t, 1, cheap.calls)
	assert.Equal(t, 0, primary.calls)
}

func TestCascadeFallsBack(t *testing.T) {
	cheap := &stubProvider{name: "cheap", err: errors.New("quota exceeded")}
	primary := &stubProvider{name: "primary", result: "answer"}

	cascade, err := NewCascade(logging.NewNop(), cheap, primary)
	require.NoError(t, err)

	result, err := cascade.Complete(context.Background(), "sys", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "answer", result)
	assert.Equal(t, 1, cheap.calls)
	assert.Equal(t, 1, primary.calls)
}

func TestCascadeAllFail(t *testing.T) {
	cheap := &stubProvider{name: "cheap", err: errors.New("down")}
	primary := &stubProvider{name: "primary", err: errors.New("also down")}

	cascade, err := NewCascade(logging.NewNop(), cheap, primary)
	require.NoError(t, err)

	_, err = cascade.Complete(context.Background(), "sys", "prompt")
	require.ErrorIs(t, err, ErrAllProvidersFailed)
}

func TestCascadeRequiresProviders(t *testing.T) {
	_, err := NewCascade(logging.NewNop())
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestCascadeStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cheap := &stubProvider{name: "cheap", err: errors.New("down")}
	primary := &stubProvider{name: "primary", result: "answer"}

	cascade, err := NewCascade(logging.NewNop(), cheap, primary)
	require.NoError(t, err)

	_, err = cascade.Complete(ctx, "sys", "prompt")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, primary.calls)
}

func TestBuildMessages(t *testing.T) {
	messages := buildMessages("system text", "prompt", []Media{{MIMEType: "image/jpeg", Data: []byte{0xff}}})
	require.Len(t, messages, 2)
	assert.Equal(t, schema.ChatMessageTypeSystem, messages[0].Role)
	assert.Equal(t, schema.ChatMessageTypeHuman, messages[1].Role)
	// Media parts precede the prompt text.
	require.Len(t, messages[1].Parts, 2)
}

func TestBuildMessagesWithoutSystem(t *testing.T) {
	messages := buildMessages("", "prompt", nil)
	require.Len(t, messages, 1)
	assert.Equal(t, schema.ChatMessageTypeHuman, messages[0].Role)
	require.Len(t, messages[0].Parts, 1)
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare object",
			input: `{"intent": "SEARCH"}`,
			want:  `{"intent": "SEARCH"}`,
		},
		{
			name:  "fenced json",
			input: "```json\n{\"intent\": \"ASK\"}\n```",
			want:  `{"intent": "ASK"}`,
		},
		{
			name:  "object with prose",
			input: `Sure, here you go: {"intent": "BOTH", "type": "link"} hope that helps`,
			want:  `{"intent": "BOTH", "type": "link"}`,
		},
		{
			name:  "no object",
			input: "I cannot answer that",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONObject(tt.input))
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	assert.Equal(t, "[2, 0, 1]", ExtractJSONArray("The best order is [2, 0, 1]."))
	assert.Equal(t, "[0]", ExtractJSONArray("```json\n[0]\n```"))
	assert.Equal(t, "", ExtractJSONArray("nothing here"))
}
