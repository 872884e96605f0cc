package vectorstore

import (
	"fmt"

	"github.com/fyrsmithlabs/recallbot/internal/config"
	"github.com/fyrsmithlabs/recallbot/internal/logging"
)

// New builds the configured Store backend.
func New(cfg config.StoreConfig, vectorSize int, embedder Embedder, logger *logging.Logger) (Store, error) {
	switch cfg.Backend {
	case "qdrant":
		return NewQdrantStore(QdrantConfig{
			Host:           cfg.Qdrant.Host,
			Port:           cfg.Qdrant.Port,
			APIKey:         cfg.Qdrant.APIKey.Value(),
			UseTLS:         cfg.Qdrant.UseTLS,
			CollectionName: cfg.Collection,
			VectorSize:     uint64(vectorSize),
		}, embedder)
	case "chromem":
		return NewChromemStore(ChromemConfig{
			Path:           cfg.Chromem.Path,
			Compress:       cfg.Chromem.Compress,
			CollectionName: cfg.Collection,
		}, embedder, logger)
	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", ErrInvalidConfig, cfg.Backend)
	}
}
