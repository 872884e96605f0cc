package vectorstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	grpccodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Tracer for OpenTelemetry instrumentation.
var qdrantTracer = otel.Tracer("recallbot.vectorstore.qdrant")

// QdrantConfig holds configuration for the Qdrant gRPC client.
type QdrantConfig struct {
	// Host is the Qdrant server hostname or IP address.
	Host string

	// Port is the Qdrant gRPC port (6334 by default, not the 6333
	// HTTP port).
	Port int

	// APIKey authenticates against Qdrant Cloud. Optional.
	APIKey string

	// CollectionName is the collection holding all stored items.
	CollectionName string

	// VectorSize is the embedding dimensionality. Must match the
	// embedder output.
	VectorSize uint64

	// UseTLS enables TLS for the gRPC connection.
	UseTLS bool

	// MaxRetries is the retry budget for transient failures.
	MaxRetries int

	// RetryBackoff is the initial backoff, doubling per attempt.
	RetryBackoff time.Duration

	// CircuitBreakerThreshold is the failure count that opens the circuit.
	CircuitBreakerThreshold int
}

// ApplyDefaults sets default values for unset fields.
func (c *QdrantConfig) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 6334
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.RetryBackoff == 0 {
		c.RetryBackoff = time.Second
	}
	if c.CircuitBreakerThreshold == 0 {
		c.CircuitBreakerThreshold = 5
	}
}

// Validate validates the configuration.
func (c QdrantConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("%w: host required", ErrInvalidConfig)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: invalid port: %d", ErrInvalidConfig, c.Port)
	}
	if c.CollectionName == "" {
		return fmt.Errorf("%w: collection name required", ErrInvalidConfig)
	}
	if c.VectorSize == 0 {
		return fmt.Errorf("%w: vector size required", ErrInvalidConfig)
	}
	return nil
}

// IsTransientError checks if an error is transient and worth retrying.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}

	st, ok := status.FromError(err)
	if !ok {
		return false
	}

	switch st.Code() {
	case grpccodes.Unavailable, grpccodes.DeadlineExceeded, grpccodes.Aborted, grpccodes.ResourceExhausted:
		return true
	default:
		return false
	}
}

// QdrantStore is a Store implementation using Qdrant's native gRPC client.
type QdrantStore struct {
	client   *qdrant.Client
	embedder Embedder
	config   QdrantConfig

	// ensureOnce guards one-time collection creation.
	ensureOnce sync.Once
	ensureErr  error

	// circuitBreaker tracks failures so a dead Qdrant does not absorb
	// the full retry budget on every message.
	circuitBreaker struct {
		failures int
		lastFail time.Time
		mu       sync.Mutex
	}
}

// NewQdrantStore creates a QdrantStore and verifies connectivity.
func NewQdrantStore(config QdrantConfig, embedder Embedder) (*QdrantStore, error) {
	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", ErrInvalidConfig)
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   config.Host,
		Port:   config.Port,
		APIKey: config.APIKey,
		UseTLS: config.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	store := &QdrantStore{
		client:   client,
		embedder: embedder,
		config:   config,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.healthCheck(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("health check failed: %w", err)
	}

	return store, nil
}

// Close closes the Qdrant gRPC connection.
func (s *QdrantStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func (s *QdrantStore) healthCheck(ctx context.Context) error {
	ctx, span := qdrantTracer.Start(ctx, "QdrantStore.HealthCheck")
	defer span.End()

	if _, err := s.client.HealthCheck(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("health check failed: %w", err)
	}
	span.SetStatus(codes.Ok, "healthy")
	return nil
}

// ensureCollection creates the collection if it does not exist yet.
func (s *QdrantStore) ensureCollection(ctx context.Context) error {
	s.ensureOnce.Do(func() {
		exists, err := s.client.CollectionExists(ctx, s.config.CollectionName)
		if err != nil {
			s.ensureErr = fmt.Errorf("checking collection %s: %w", s.config.CollectionName, err)
			return
		}
		if exists {
			return
		}
		s.ensureErr = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.config.CollectionName,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     s.config.VectorSize,
				Distance: qdrant.Distance_Cosine,
			}),
		})
	})
	return s.ensureErr
}

// retryOperation retries an operation with exponential backoff.
func (s *QdrantStore) retryOperation(ctx context.Context, operationName string, operation func() error) error {
	backoff := s.config.RetryBackoff

	for attempt := 0; attempt <= s.config.MaxRetries; attempt++ {
		err := operation()
		if err == nil {
			s.resetCircuitBreaker()
			return nil
		}

		if s.isCircuitOpen() {
			return fmt.Errorf("%s: circuit breaker open", operationName)
		}

		if !IsTransientError(err) {
			return fmt.Errorf("%s failed (permanent): %w", operationName, err)
		}

		s.recordFailure()

		if attempt == s.config.MaxRetries {
			return fmt.Errorf("%s failed after %d retries: %w", operationName, s.config.MaxRetries, err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s canceled: %w", operationName, ctx.Err())
		case <-time.After(backoff):
			backoff *= 2
		}
	}
	return nil
}

func (s *QdrantStore) recordFailure() {
	s.circuitBreaker.mu.Lock()
	defer s.circuitBreaker.mu.Unlock()
	s.circuitBreaker.failures++
	s.circuitBreaker.lastFail = time.Now()
}

func (s *QdrantStore) resetCircuitBreaker() {
	s.circuitBreaker.mu.Lock()
	defer s.circuitBreaker.mu.Unlock()
	s.circuitBreaker.failures = 0
}

func (s *QdrantStore) isCircuitOpen() bool {
	s.circuitBreaker.mu.Lock()
	defer s.circuitBreaker.mu.Unlock()

	if s.circuitBreaker.failures >= s.config.CircuitBreakerThreshold {
		// Allow retry after 30 seconds
		if time.Since(s.circuitBreaker.lastFail) > 30*time.Second {
			s.circuitBreaker.failures = 0
			return false
		}
		return true
	}
	return false
}

// Upsert embeds and stores documents, overwriting existing fingerprints.
func (s *QdrantStore) Upsert(ctx context.Context, docs []Document) ([]string, error) {
	ctx, span := qdrantTracer.Start(ctx, "QdrantStore.Upsert")
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

	if err := s.ensureCollection(ctx); err != nil {
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

	points := make([]*qdrant.PointStruct, len(docs))
	ids := make([]string, len(docs))
	timer := prometheusTimer(OpUpsert)
	defer timer.ObserveDuration()

	for i, doc := range docs {
		ids[i] = doc.ID

		payload := buildPayload(doc)

		// Qdrant point IDs must be UUIDs or unsigned ints. Fingerprints
		// are sha256 hex, so derive a stable UUID from the fingerprint:
		// identical content keeps mapping to the same point.
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(doc.ID)).String()),
			Vectors: qdrant.NewVectors(embeddings[i]...),
			Payload: payload,
		}
	}

	err = s.retryOperation(ctx, "upsert", func() error {
		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: s.config.CollectionName,
			Points:         points,
		})
		return err
	})
	if err != nil {
		OperationsTotal.WithLabelValues(OpUpsert, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("upserting points to collection %s: %w", s.config.CollectionName, err)
	}

	OperationsTotal.WithLabelValues(OpUpsert, "success").Inc()
	span.SetAttributes(attribute.Int("points_added", len(ids)))
	span.SetStatus(codes.Ok, "success")
	return ids, nil
}

// Search performs similarity search with the mandatory chat scope filter.
func (s *QdrantStore) Search(ctx context.Context, query string, k int, filters map[string]interface{}) ([]SearchResult, error) {
	ctx, span := qdrantTracer.Start(ctx, "QdrantStore.Search")
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

	queryVector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	filter := buildFilter(filters)
	timer := prometheusTimer(OpSearch)
	defer timer.ObserveDuration()

	var results []*qdrant.ScoredPoint
	err = s.retryOperation(ctx, "search", func() error {
		res, err := s.client.Query(ctx, &qdrant.QueryPoints{
			CollectionName: s.config.CollectionName,
			Query:          qdrant.NewQuery(queryVector...),
			Limit:          qdrant.PtrOf(uint64(k)),
			WithPayload:    qdrant.NewWithPayload(true),
			Filter:         filter,
		})
		if err != nil {
			return err
		}
		results = res
		return nil
	})
	if err != nil {
		OperationsTotal.WithLabelValues(OpSearch, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("searching collection %s: %w", s.config.CollectionName, err)
	}

	searchResults := make([]SearchResult, len(results))
	for i, point := range results {
		searchResults[i] = fromScoredPoint(point)
	}

	OperationsTotal.WithLabelValues(OpSearch, "success").Inc()
	span.SetAttributes(attribute.Int("results_count", len(searchResults)))
	span.SetStatus(codes.Ok, "success")
	return searchResults, nil
}

// Delete removes documents by fingerprint.
func (s *QdrantStore) Delete(ctx context.Context, ids []string) error {
	ctx, span := qdrantTracer.Start(ctx, "QdrantStore.Delete")
	defer span.End()

	if len(ids) == 0 {
		return nil
	}

	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = qdrant.NewIDUUID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String())
	}

	err := s.retryOperation(ctx, "delete", func() error {
		_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
			CollectionName: s.config.CollectionName,
			Points:         qdrant.NewPointsSelector(pointIDs...),
		})
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("deleting points from collection %s: %w", s.config.CollectionName, err)
	}

	span.SetStatus(codes.Ok, "success")
	return nil
}

// buildPayload converts a document into a Qdrant payload mapping.
// The original fingerprint is preserved under "id" for retrieval.
func buildPayload(doc Document) map[string]*qdrant.Value {
	payload := make(map[string]*qdrant.Value, len(doc.Metadata)+2)
	payload["content"] = qdrant.NewValueString(doc.Content)
	payload["id"] = qdrant.NewValueString(doc.ID)

	for k, v := range doc.Metadata {
		switch val := v.(type) {
		case string:
			payload[k] = qdrant.NewValueString(val)
		case int:
			payload[k] = qdrant.NewValueInt(int64(val))
		case int64:
			payload[k] = qdrant.NewValueInt(val)
		case float64:
			payload[k] = qdrant.NewValueDouble(val)
		case bool:
			payload[k] = qdrant.NewValueBool(val)
		}
	}
	return payload
}

// buildFilter converts the filter mapping into Qdrant match conditions.
func buildFilter(filters map[string]interface{}) *qdrant.Filter {
	if len(filters) == 0 {
		return nil
	}
	conditions := make([]*qdrant.Condition, 0, len(filters))
	for key, value := range filters {
		switch v := value.(type) {
		case string:
			conditions = append(conditions, qdrant.NewMatchKeyword(key, v))
		case int:
			conditions = append(conditions, qdrant.NewMatchInt(key, int64(v)))
		case int64:
			conditions = append(conditions, qdrant.NewMatchInt(key, v))
		case bool:
			conditions = append(conditions, qdrant.NewMatchBool(key, v))
		}
	}
	if len(conditions) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: conditions}
}

// fromScoredPoint converts a Qdrant scored point into a SearchResult.
func fromScoredPoint(point *qdrant.ScoredPoint) SearchResult {
	result := SearchResult{Score: point.Score}

	if point.Payload != nil {
		result.Metadata = make(map[string]interface{}, len(point.Payload))
		for k, v := range point.Payload {
			switch val := v.Kind.(type) {
			case *qdrant.Value_StringValue:
				result.Metadata[k] = val.StringValue
			case *qdrant.Value_IntegerValue:
				result.Metadata[k] = val.IntegerValue
			case *qdrant.Value_DoubleValue:
				result.Metadata[k] = val.DoubleValue
			case *qdrant.Value_BoolValue:
				result.Metadata[k] = val.BoolValue
			}
		}
		if content, ok := result.Metadata["content"].(string); ok {
			result.Content = content
			delete(result.Metadata, "content")
		}
		if id, ok := result.Metadata["id"].(string); ok {
			result.ID = id
			delete(result.Metadata, "id")
		}
	}
	return result
}

// Ensure QdrantStore implements Store.
var _ Store = (*QdrantStore)(nil)
