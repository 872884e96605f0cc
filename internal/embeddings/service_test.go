package embeddings

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/recallbot/internal/config"
)

func TestNewServiceValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.EmbeddingConfig
	}{
		{name: "missing base URL", cfg: config.EmbeddingConfig{Model: "text-embedding-3-small"}},
		{name: "missing model", cfg: config.EmbeddingConfig{BaseURL: "https://api.openai.com/v1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService(tt.cfg)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestNewServiceWithoutKey(t *testing.T) {
	// Keyless local servers are allowed, a placeholder token is used.
	svc, err := NewService(config.EmbeddingConfig{
		BaseURL: "http://localhost:8081/v1",
		Model:   "BAAI/bge-small-en-v1.5",
	})
	require.NoError(t, err)
	require.NotNil(t, svc)
}
