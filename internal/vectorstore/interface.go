// Package vectorstore defines the interface for vector storage operations.
//
// Two implementations are provided: QdrantStore (external Qdrant over
// gRPC) and ChromemStore (embedded chromem-go for local deployments).
// Both enforce chat scoping fail-closed: every upsert and search must
// run under a context carrying the originating chat (see ContextWithChat),
// so a query in one chat can never surface content saved in another.
package vectorstore

import (
	"context"
	"errors"
)

// Sentinel errors for vector store operations.
var (
	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyDocuments indicates empty or nil documents.
	ErrEmptyDocuments = errors.New("empty or nil documents")

	// ErrConnectionFailed indicates gRPC connection issues.
	ErrConnectionFailed = errors.New("failed to connect to vector store")

	// ErrEmbeddingFailed indicates embedding generation failure.
	ErrEmbeddingFailed = errors.New("failed to generate embeddings")

	// ErrMissingChatScope is returned when an operation runs without a
	// chat scope in context. Fail-closed: unscoped access is a bug, not
	// a broader search.
	ErrMissingChatScope = errors.New("missing chat scope in context")

	// ErrCollectionNotFound is returned when the collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")
)

// Embedder generates vector embeddings from text.
type Embedder interface {
	// EmbedDocuments generates embeddings for multiple texts.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a single query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Store is the interface for vector storage operations.
//
// The store embeds content itself via its Embedder, so callers pass
// text, not vectors. Document IDs are deterministic content
// fingerprints; re-upserting the same ID overwrites the stored point.
type Store interface {
	// Upsert embeds and stores documents, overwriting existing IDs.
	// The chat scope from ctx is stamped into every document's metadata.
	// Returns the stored IDs.
	Upsert(ctx context.Context, docs []Document) ([]string, error)

	// Search performs similarity search, returning up to k results
	// ordered by descending score. The filters mapping is merged with
	// the mandatory chat scope filter from ctx; nil values in filters
	// are dropped before querying.
	Search(ctx context.Context, query string, k int, filters map[string]interface{}) ([]SearchResult, error)

	// Delete removes documents by ID.
	Delete(ctx context.Context, ids []string) error

	// Close releases the store's resources.
	Close() error
}
