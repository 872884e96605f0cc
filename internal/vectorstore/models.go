package vectorstore

// Document represents a document to be stored in the vector store.
type Document struct {
	// ID is the unique identifier, a deterministic content fingerprint.
	ID string

	// Content is the text the embedding is computed from.
	Content string

	// Metadata contains key-value pairs for filtering and display.
	// Keys with nil values are dropped at the store boundary.
	Metadata map[string]interface{}
}

// SearchResult represents a single match from a similarity search.
type SearchResult struct {
	// ID is the document identifier.
	ID string

	// Content is the stored text content.
	Content string

	// Score is the similarity score in [0,1], higher is more similar.
	Score float32

	// Metadata contains the stored document metadata.
	Metadata map[string]interface{}
}

// CleanMetadata returns a copy of meta with nil values removed.
// Absent keys must be omitted, never stored as null, so that metadata
// equality filters behave predictably.
func CleanMetadata(meta map[string]interface{}) map[string]interface{} {
	if meta == nil {
		return nil
	}
	clean := make(map[string]interface{}, len(meta))
	for k, v := range meta {
		if v == nil {
			continue
		}
		clean[k] = v
	}
	return clean
}
