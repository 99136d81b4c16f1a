// Package vector provides interfaces and implementations for vector storage and embedding.
package vector

import "context"

// Document represents a stored item with its embedding and metadata.
type Document struct {
	// ID is a unique identifier for the document.
	ID string

	// Text is the raw content the embedding was computed from.
	Text string

	// Metadata carries opaque per-document key/value pairs such as
	// timestamps and provenance.
	Metadata map[string]string

	// Embedding is the vector representation of the document content.
	Embedding []float32
}

// QueryResult represents a search result with its distance from the query.
type QueryResult struct {
	Document

	// Distance is the cosine distance from the query embedding
	// (0 = identical, lower = more similar).
	Distance float64
}

// Driver handles storage and retrieval of vector embeddings.
type Driver interface {
	// Add stores documents with their embeddings.
	// If a document with the same ID already exists, implementers should update
	// the document.
	Add(ctx context.Context, docs []Document) error

	// Query finds the topK nearest documents to the given embedding.
	Query(ctx context.Context, embedding []float32, topK int) ([]QueryResult, error)

	// Get retrieves documents by their IDs. Missing IDs are skipped and no
	// ordering is guaranteed.
	Get(ctx context.Context, ids []string) ([]Document, error)

	// List returns every stored document's ID, text, and metadata without
	// embeddings.
	List(ctx context.Context) ([]Document, error)

	// Delete removes documents by their IDs.
	Delete(ctx context.Context, ids []string) error

	// Count reports the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Close releases any resources held by the driver.
	Close() error
}
