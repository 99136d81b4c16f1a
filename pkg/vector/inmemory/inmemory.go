// Package inmemory provides a map-backed vector driver with an exact cosine scan.
package inmemory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/papercomputeco/hindsight/pkg/vector"
)

// Driver implements vector.Driver entirely in process. Queries are a
// linear scan over every stored embedding, which is exact and fast enough
// for the store sizes the evidence cap allows. Used by tests and as a
// no-setup backend.
type Driver struct {
	mu    sync.RWMutex
	docs  map[string]vector.Document
	order []string
}

// NewDriver creates an empty in-memory vector driver.
func NewDriver() *Driver {
	return &Driver{
		docs: make(map[string]vector.Document),
	}
}

// cosineDistance returns 1 minus the cosine similarity of a and b.
// A zero-magnitude vector is treated as maximally distant.
func cosineDistance(a, b []float32) float64 {
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(magA)*math.Sqrt(magB))
}

// copyDocument deep-copies a document so later caller mutations cannot
// reach the stored state.
func copyDocument(doc vector.Document) vector.Document {
	out := vector.Document{
		ID:   doc.ID,
		Text: doc.Text,
	}
	if doc.Metadata != nil {
		out.Metadata = make(map[string]string, len(doc.Metadata))
		for k, v := range doc.Metadata {
			out.Metadata[k] = v
		}
	}
	if doc.Embedding != nil {
		out.Embedding = make([]float32, len(doc.Embedding))
		copy(out.Embedding, doc.Embedding)
	}
	return out
}

// Add stores documents with their embeddings.
// If a document with the same ID already exists, it is updated in place.
func (d *Driver) Add(_ context.Context, docs []vector.Document) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, doc := range docs {
		if _, exists := d.docs[doc.ID]; !exists {
			d.order = append(d.order, doc.ID)
		}
		d.docs[doc.ID] = copyDocument(doc)
	}

	return nil
}

// Query finds the topK nearest documents to the given embedding by
// scanning every stored vector.
func (d *Driver) Query(_ context.Context, embedding []float32, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = 10
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	results := make([]vector.QueryResult, 0, len(d.docs))
	for _, id := range d.order {
		doc := d.docs[id]
		if len(doc.Embedding) != len(embedding) {
			return nil, fmt.Errorf("%w: query has %d dimensions, document %s has %d",
				vector.ErrDimension, len(embedding), doc.ID, len(doc.Embedding))
		}
		results = append(results, vector.QueryResult{
			Document: copyDocument(doc),
			Distance: cosineDistance(embedding, doc.Embedding),
		})
	}

	// Stable keeps insertion order among equal distances
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if len(results) > topK {
		results = results[:topK]
	}

	return results, nil
}

// Get retrieves documents by their IDs. Missing IDs are skipped.
func (d *Driver) Get(_ context.Context, ids []string) ([]vector.Document, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var docs []vector.Document
	for _, id := range ids {
		if doc, ok := d.docs[id]; ok {
			docs = append(docs, copyDocument(doc))
		}
	}

	return docs, nil
}

// List returns every stored document in insertion order.
func (d *Driver) List(_ context.Context) ([]vector.Document, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	docs := make([]vector.Document, 0, len(d.docs))
	for _, id := range d.order {
		doc := d.docs[id]
		docs = append(docs, vector.Document{
			ID:       doc.ID,
			Text:     doc.Text,
			Metadata: doc.Metadata,
		})
	}

	return docs, nil
}

// Delete removes documents by their IDs. Unknown IDs are ignored.
func (d *Driver) Delete(_ context.Context, ids []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, id := range ids {
		if _, ok := d.docs[id]; !ok {
			continue
		}
		delete(d.docs, id)
		for i, ordered := range d.order {
			if ordered == id {
				d.order = append(d.order[:i], d.order[i+1:]...)
				break
			}
		}
	}

	return nil
}

// Count reports the number of stored documents.
func (d *Driver) Count(_ context.Context) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.docs), nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	return nil
}

// Ensure Driver implements vector.Driver
var _ vector.Driver = (*Driver)(nil)
