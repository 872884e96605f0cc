package vectorstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	chromem "github.com/philippgille/chromem-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/recallbot/internal/logging"
)

// chromemTracer for OpenTelemetry instrumentation.
var chromemTracer = otel.Tracer("recallbot.vectorstore.chromem")

// ChromemConfig holds configuration for the embedded chromem-go store.
type ChromemConfig struct {
	// Path is the directory for persistent storage.
	// Default: "~/.local/share/recallbot/vectorstore"
	Path string

	// Compress enables gzip compression for stored data.
	Compress bool

	// CollectionName is the collection holding all stored items.
	CollectionName string
}

// ApplyDefaults sets default values for unset fields.
func (c *ChromemConfig) ApplyDefaults() {
	if c.Path == "" {
		c.Path = "~/.local/share/recallbot/vectorstore"
	}
	if c.CollectionName == "" {
		c.CollectionName = "telegram_memory"
	}
}

// ChromemStore implements Store using chromem-go, an embeddable pure-Go
// vector database. No external service is needed, which makes it the
// default backend for single-host deployments and for tests.
type ChromemStore struct {
	db       *chromem.DB
	embedder Embedder
	config   ChromemConfig
	logger   *logging.Logger
}

// NewChromemStore creates a ChromemStore with persistent storage.
func NewChromemStore(config ChromemConfig, embedder Embedder, logger *logging.Logger) (*ChromemStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	config.ApplyDefaults()

	expandedPath, err := expandChromemPath(config.Path)
	if err != nil {
		return nil, fmt.Errorf("expanding path: %w", err)
	}
	if err := os.MkdirAll(expandedPath, 0755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", expandedPath, err)
	}

	db, err := chromem.NewPersistentDB(expandedPath, config.Compress)
	if err != nil {
		return nil, fmt.Errorf("creating chromem DB: %w", err)
	}

	store := &ChromemStore{
		db:       db,
		embedder: embedder,
		config:   config,
		logger:   logger,
	}

	logger.Info(context.Background(), "chromem store initialized",
		zap.String("path", expandedPath),
		zap.String("collection", config.CollectionName),
	)

	return store, nil
}

// NewChromemStoreInMemory creates a non-persistent ChromemStore.
func NewChromemStoreInMemory(embedder Embedder, logger *logging.Logger) (*ChromemStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	var config ChromemConfig
	config.ApplyDefaults()
	return &ChromemStore{
		db:       chromem.NewDB(),
		embedder: embedder,
		config:   config,
		logger:   logger,
	}, nil
}

// expandChromemPath expands ~ to the home directory.
func expandChromemPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// embeddingFunc adapts the Embedder to chromem's callback.
func (s *ChromemStore) embeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return s.embedder.EmbedQuery(ctx, text)
	}
}

func (s *ChromemStore) collection() (*chromem.Collection, error) {
	collection, err := s.db.GetOrCreateCollection(s.config.CollectionName, nil, s.embeddingFunc())
	if err != nil {
		return nil, fmt.Errorf("getting/creating collection %s: %w", s.config.CollectionName, err)
	}
	return collection, nil
}

// Upsert embeds and stores documents, overwriting existing fingerprints.
func (s *ChromemStore) Upsert(ctx context.Context, docs []Document) ([]string, error) {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.Upsert")
	defer span.End()

	span.SetAttributes(
		attribute.Int("document_count", len(docs)),
		attribute.String("collection", s.config.CollectionName),
	)

	if len(docs) == 0 {
		return nil, ErrEmptyDocuments
	}

	if err := injectScopeMetadata(ctx, docs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("injecting chat scope: %w", err)
	}

	collection, err := s.collection()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}
	embeddings, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	timer := prometheusTimer(OpUpsert)
	defer timer.ObserveDuration()

	chromemDocs := make([]chromem.Document, len(docs))
	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
		chromemDocs[i] = chromem.Document{
			ID:        doc.ID,
			Content:   doc.Content,
			Metadata:  convertMetadataToString(doc.Metadata),
			Embedding: embeddings[i],
		}
	}

	// Concurrency of 1: embeddings are already computed.
	if err := collection.AddDocuments(ctx, chromemDocs, 1); err != nil {
		OperationsTotal.WithLabelValues(OpUpsert, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("adding documents: %w", err)
	}

	OperationsTotal.WithLabelValues(OpUpsert, "success").Inc()
	DocumentsStored.Add(float64(len(ids)))
	span.SetAttributes(attribute.Int("documents_added", len(ids)))
	span.SetStatus(codes.Ok, "success")

	s.logger.Debug(ctx, "added documents to chromem",
		zap.String("collection", s.config.CollectionName),
		zap.Int("count", len(docs)),
	)
	return ids, nil
}

// Search performs similarity search with the mandatory chat scope filter.
func (s *ChromemStore) Search(ctx context.Context, query string, k int, filters map[string]interface{}) ([]SearchResult, error) {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.Search")
	defer span.End()

	span.SetAttributes(
		attribute.String("collection", s.config.CollectionName),
		attribute.Int("k", k),
	)

	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	filters, err := injectScopeFilter(ctx, filters)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("injecting chat scope: %w", err)
	}

	collection, err := s.collection()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	// chromem requires nResults <= document count.
	docCount := collection.Count()
	if docCount == 0 {
		return []SearchResult{}, nil
	}
	if k > docCount {
		k = docCount
	}

	timer := prometheusTimer(OpSearch)
	defer timer.ObserveDuration()

	results, err := collection.Query(ctx, query, k, convertMetadataToString(filters), nil)
	if err != nil {
		OperationsTotal.WithLabelValues(OpSearch, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("querying collection %s: %w", s.config.CollectionName, err)
	}

	searchResults := make([]SearchResult, len(results))
	for i, r := range results {
		searchResults[i] = SearchResult{
			ID:       r.ID,
			Content:  r.Content,
			Score:    r.Similarity,
			Metadata: convertMetadataFromString(r.Metadata),
		}
	}

	OperationsTotal.WithLabelValues(OpSearch, "success").Inc()
	span.SetAttributes(attribute.Int("results_count", len(searchResults)))
	span.SetStatus(codes.Ok, "success")

	s.logger.Debug(ctx, "searched chromem collection",
		zap.String("collection", s.config.CollectionName),
		zap.Int("k", k),
		zap.Int("results", len(searchResults)),
	)
	return searchResults, nil
}

// Delete removes documents by fingerprint.
func (s *ChromemStore) Delete(ctx context.Context, ids []string) error {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.Delete")
	defer span.End()

	span.SetAttributes(attribute.Int("id_count", len(ids)))

	if len(ids) == 0 {
		return nil
	}

	collection := s.db.GetCollection(s.config.CollectionName, s.embeddingFunc())
	if collection == nil {
		span.SetStatus(codes.Error, "collection not found")
		return ErrCollectionNotFound
	}

	var failures []string
	for _, id := range ids {
		if err := collection.Delete(ctx, nil, nil, id); err != nil {
			span.RecordError(err)
			s.logger.Error(ctx, "failed to delete document",
				zap.String("id", id),
				zap.Error(err),
			)
			failures = append(failures, id)
		}
	}
	if len(failures) > 0 {
		span.SetStatus(codes.Error, "partial deletion failure")
		return fmt.Errorf("failed to delete %d of %d documents: %v", len(failures), len(ids), failures)
	}

	span.SetStatus(codes.Ok, "success")
	return nil
}

// Close closes the store. chromem persists automatically, nothing to do.
func (s *ChromemStore) Close() error {
	return nil
}

// convertMetadataToString converts metadata to chromem's string map.
// Decoders on the read side parse numerics back out of the strings.
func convertMetadataToString(metadata map[string]interface{}) map[string]string {
	if metadata == nil {
		return nil
	}
	result := make(map[string]string, len(metadata))
	for k, v := range metadata {
		switch val := v.(type) {
		case string:
			result[k] = val
		case int:
			result[k] = fmt.Sprintf("%d", val)
		case int64:
			result[k] = fmt.Sprintf("%d", val)
		case float64:
			result[k] = fmt.Sprintf("%f", val)
		case bool:
			result[k] = fmt.Sprintf("%t", val)
		default:
			result[k] = fmt.Sprintf("%v", val)
		}
	}
	return result
}

// convertMetadataFromString converts chromem's string map back.
func convertMetadataFromString(metadata map[string]string) map[string]interface{} {
	if metadata == nil {
		return nil
	}
	result := make(map[string]interface{}, len(metadata))
	for k, v := range metadata {
		result[k] = v
	}
	return result
}

// Ensure ChromemStore implements Store.
var _ Store = (*ChromemStore)(nil)
