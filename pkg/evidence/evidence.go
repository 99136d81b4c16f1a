// Package evidence provides the evidence store backing generation.
//
// Evidence records are short text passages with opaque metadata, embedded
// and persisted through a pluggable vector driver. Retrieval combines
// cosine similarity with recency weighting and a greedy diversity filter,
// and the store enforces a FIFO capacity cap so the index never grows
// without bound.
//
// Vector backends are pluggable via configuration:
//
//	[vector_store]
//	provider = "sqlitevec"   # or "chroma", "qdrant", "inmemory"
package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/embeddings"
	"github.com/papercomputeco/hindsight/pkg/vector"
)

const (
	// DefaultMaxEvidence is the record cap before FIFO eviction kicks in.
	DefaultMaxEvidence = 500

	// DefaultRecencyHalfLife is the age at which a record's recency decay
	// term halves.
	DefaultRecencyHalfLife = 6 * time.Hour

	// DefaultDiversityThreshold is the token-set Jaccard similarity above
	// which a search candidate is dropped as a near-duplicate of an
	// already-selected result.
	DefaultDiversityThreshold = 0.9

	// DefaultTopK is the result count used when a caller passes topK <= 0.
	DefaultTopK = 5

	// fetchMultiplier over-fetches candidates so the diversity filter can
	// still yield topK results after deduplication.
	fetchMultiplier = 3

	// storedAtFloor sorts records without a timestamp ahead of every
	// real RFC 3339 timestamp during eviction.
	storedAtFloor = "1970-01-01T00:00:00Z"
)

// SearchResult is a retrieved evidence record with its relevance score.
type SearchResult struct {
	ID   string `json:"id"`
	Text string `json:"text"`

	// Score is the recency-weighted similarity for search hits, and 0.0
	// for direct lookups by ID.
	Score float64 `json:"score"`

	// MetadataJSON is the record's metadata serialized as a JSON object,
	// "{}" when the record has none.
	MetadataJSON string `json:"metadata_json"`
}

// Config holds configuration for the evidence store.
type Config struct {
	// MaxEvidence caps the live record count. Defaults to DefaultMaxEvidence.
	MaxEvidence int

	// RecencyHalfLife controls how fast scores decay with record age.
	// Defaults to DefaultRecencyHalfLife.
	RecencyHalfLife time.Duration

	// DiversityThreshold is the Jaccard similarity above which near-duplicate
	// search results are deduplicated. Defaults to DefaultDiversityThreshold.
	DiversityThreshold float64

	// OnEvict, when set, is called with the ids removed by capacity
	// eviction. It runs outside the index lock.
	OnEvict func(ids []string)
}

// Store embeds and persists evidence records through a vector driver.
type Store struct {
	config   Config
	embedder embeddings.Embedder
	driver   vector.Driver
	logger   *zap.Logger

	// mu serializes driver calls: mutations hold it across the add+evict
	// critical section so concurrent stores cannot double-evict, and reads
	// take it around individual index calls. Embedding calls happen outside
	// the lock.
	mu sync.Mutex
}

// NewStore creates an evidence store on top of the given embedder and
// vector driver. Zero-valued config fields fall back to package defaults.
func NewStore(config Config, embedder embeddings.Embedder, driver vector.Driver, logger *zap.Logger) *Store {
	if config.MaxEvidence <= 0 {
		config.MaxEvidence = DefaultMaxEvidence
	}
	if config.RecencyHalfLife <= 0 {
		config.RecencyHalfLife = DefaultRecencyHalfLife
	}
	if config.DiversityThreshold <= 0 {
		config.DiversityThreshold = DefaultDiversityThreshold
	}

	return &Store{
		config:   config,
		embedder: embedder,
		driver:   driver,
		logger:   logger,
	}
}

// Store embeds text and adds it to the index under a fresh uuid, then
// evicts the oldest records if the cap is exceeded. Metadata is persisted
// as given; callers stamp provenance keys such as "stored_at" themselves.
func (s *Store) Store(ctx context.Context, text string, metadata map[string]string) (string, error) {
	id := uuid.New().String()

	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return "", fmt.Errorf("embedding evidence text: %w", err)
	}

	s.mu.Lock()

	err = s.driver.Add(ctx, []vector.Document{
		{
			ID:        id,
			Text:      text,
			Metadata:  metadata,
			Embedding: embedding,
		},
	})
	if err != nil {
		s.mu.Unlock()
		return "", fmt.Errorf("adding evidence to index: %w", err)
	}

	s.logger.Info("stored evidence",
		zap.String("id", id),
		zap.Int("len", len(text)),
	)

	evicted, err := s.evictIfOverCapacity(ctx)
	s.mu.Unlock()
	if err != nil {
		return "", err
	}

	if len(evicted) > 0 && s.config.OnEvict != nil {
		s.config.OnEvict(evicted)
	}

	return id, nil
}

// evictIfOverCapacity removes the oldest records when the live count
// exceeds MaxEvidence, returning the removed ids. Age is the stored_at
// metadata value compared as a string; records without one sort to the
// front. Callers hold s.mu.
func (s *Store) evictIfOverCapacity(ctx context.Context) ([]string, error) {
	count, err := s.driver.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting evidence: %w", err)
	}
	if count <= s.config.MaxEvidence {
		return nil, nil
	}

	excess := count - s.config.MaxEvidence

	docs, err := s.driver.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing evidence for eviction: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return storedAt(docs[i].Metadata) < storedAt(docs[j].Metadata)
	})

	if excess > len(docs) {
		excess = len(docs)
	}
	ids := make([]string, 0, excess)
	for _, doc := range docs[:excess] {
		ids = append(ids, doc.ID)
	}

	if err := s.driver.Delete(ctx, ids); err != nil {
		return nil, fmt.Errorf("evicting evidence: %w", err)
	}

	s.logger.Info("evicted oldest evidence",
		zap.Int("removed", len(ids)),
		zap.Int("count", count),
		zap.Int("cap", s.config.MaxEvidence),
	)

	return ids, nil
}

func storedAt(metadata map[string]string) string {
	if v, ok := metadata["stored_at"]; ok && v != "" {
		return v
	}
	return storedAtFloor
}

// GetByIDs fetches records by ID, preserving input order and silently
// skipping IDs that no longer exist. Scores are always 0.0.
func (s *Store) GetByIDs(ctx context.Context, ids []string) ([]SearchResult, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	docs, err := s.driver.Get(ctx, ids)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("getting evidence by ids: %w", err)
	}

	lookup := make(map[string]SearchResult, len(docs))
	for _, doc := range docs {
		lookup[doc.ID] = SearchResult{
			ID:           doc.ID,
			Text:         doc.Text,
			Score:        0.0,
			MetadataJSON: marshalMetadata(doc.Metadata),
		}
	}

	results := make([]SearchResult, 0, len(lookup))
	for _, id := range ids {
		if result, ok := lookup[id]; ok {
			results = append(results, result)
		}
	}

	return results, nil
}

// Delete removes a record by ID. Failures are logged and swallowed;
// the return value reports whether the record existed and was removed.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.driver.Get(ctx, []string{id})
	if err != nil {
		s.logger.Error("delete lookup failed",
			zap.String("id", id),
			zap.Error(err),
		)
		return false
	}
	if len(docs) == 0 {
		s.logger.Warn("delete of unknown id", zap.String("id", id))
		return false
	}

	if err := s.driver.Delete(ctx, []string{id}); err != nil {
		s.logger.Error("delete failed",
			zap.String("id", id),
			zap.Error(err),
		)
		return false
	}

	s.logger.Info("deleted evidence", zap.String("id", id))
	return true
}

// Count reports the number of live records.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driver.Count(ctx)
}

// Capacity reports the configured record cap.
func (s *Store) Capacity() int {
	return s.config.MaxEvidence
}

// Close releases the underlying embedder and vector driver.
func (s *Store) Close() error {
	if err := s.embedder.Close(); err != nil {
		return err
	}
	return s.driver.Close()
}

func marshalMetadata(metadata map[string]string) string {
	if len(metadata) == 0 {
		return "{}"
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return "{}"
	}
	return string(data)
}
