package evidence

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Search embeds the query and returns up to topK records ranked by
// recency-weighted cosine similarity, after dropping candidates below
// threshold and near-duplicates of higher-ranked results. An empty store
// short-circuits before the embedding call.
func (s *Store) Search(ctx context.Context, query string, topK int, threshold float64) ([]SearchResult, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	s.mu.Lock()
	count, err := s.driver.Count(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("counting evidence: %w", err)
	}
	if count == 0 {
		return nil, nil
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	// Over-fetch so diversity filtering can still yield topK results.
	fetchK := topK * fetchMultiplier
	if fetchK > count {
		fetchK = count
	}

	s.mu.Lock()
	matches, err := s.driver.Query(ctx, embedding, fetchK)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("querying evidence: %w", err)
	}

	now := time.Now()

	candidates := make([]SearchResult, 0, len(matches))
	for _, match := range matches {
		// Cosine distance: 0 = identical, 2 = opposite.
		similarity := 1.0 - match.Distance
		if similarity < threshold {
			continue
		}

		weight := s.recencyWeight(match.Metadata, now)

		candidates = append(candidates, SearchResult{
			ID:           match.ID,
			Text:         match.Text,
			Score:        similarity * weight,
			MetadataJSON: marshalMetadata(match.Metadata),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	results := s.diversityFilter(candidates, topK)

	s.logger.Debug("evidence search",
		zap.String("query", query),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(results)),
	)

	return results, nil
}

// recencyWeight maps a record's stored_at age onto [0.5, 1.0]. Records
// without a parseable timestamp get a neutral 0.75; future or zero-age
// records get 1.0; everything else decays exponentially toward 0.5 with
// the configured half-life.
func (s *Store) recencyWeight(metadata map[string]string, now time.Time) float64 {
	storedAt := metadata["stored_at"]
	if storedAt == "" {
		return 0.75
	}

	t, err := time.Parse(time.RFC3339, storedAt)
	if err != nil {
		return 0.75
	}

	age := now.Sub(t).Seconds()
	if age <= 0 {
		return 1.0
	}

	decay := math.Exp(-age / s.config.RecencyHalfLife.Seconds())
	return 0.5 + 0.5*decay
}

// diversityFilter greedily keeps candidates in ranked order, rejecting any
// whose token set overlaps an already-selected result's beyond the
// configured Jaccard threshold. Empty token sets never veto. Stops once
// topK results are selected.
func (s *Store) diversityFilter(candidates []SearchResult, topK int) []SearchResult {
	if len(candidates) == 0 {
		return nil
	}

	selected := make([]SearchResult, 0, topK)
	selectedTokens := make([]map[string]struct{}, 0, topK)

	for _, candidate := range candidates {
		if len(selected) >= topK {
			break
		}

		tokens := tokenSet(candidate.Text)

		duplicate := false
		for _, prior := range selectedTokens {
			if len(tokens) == 0 || len(prior) == 0 {
				continue
			}
			if jaccard(tokens, prior) > s.config.DiversityThreshold {
				duplicate = true
				break
			}
		}

		if !duplicate {
			selected = append(selected, candidate)
			selectedTokens = append(selectedTokens, tokens)
		}
	}

	return selected
}

func tokenSet(text string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		set[field] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	intersection := 0
	for token := range a {
		if _, ok := b[token]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}
