package api

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/eventstream"
	"github.com/papercomputeco/hindsight/pkg/evidence"
	"github.com/papercomputeco/hindsight/pkg/journal"
	"github.com/papercomputeco/hindsight/pkg/llm"
	"github.com/papercomputeco/hindsight/pkg/orchestrator"
)

// StoreEvidenceRequest is the body of POST /evidence.
type StoreEvidenceRequest struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// StoreEvidenceResponse carries the id of a newly stored record.
type StoreEvidenceResponse struct {
	ID string `json:"id"`
}

// SearchResponse is the result set for search and id lookups.
type SearchResponse struct {
	Results []evidence.SearchResult `json:"results"`
	Count   int                     `json:"count"`
}

// EvidenceByIDsRequest is the body of POST /evidence/ids.
type EvidenceByIDsRequest struct {
	IDs []string `json:"ids"`
}

// DeleteEvidenceResponse reports whether a delete went through.
type DeleteEvidenceResponse struct {
	Deleted bool `json:"deleted"`
}

// StatsResponse reports the live record count against the configured cap.
type StatsResponse struct {
	Count    int `json:"count"`
	Capacity int `json:"capacity"`
}

// EmbedRequest is the body of POST /embed.
type EmbedRequest struct {
	Text string `json:"text"`
}

// EmbedResponse carries the embedding vector for the submitted text.
type EmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleStoreEvidence embeds and stores a new evidence record.
func (s *Server) handleStoreEvidence(c *fiber.Ctx) error {
	var req StoreEvidenceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}
	if req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "text is required"})
	}

	id, err := s.store.Store(c.Context(), req.Text, req.Metadata)
	if err != nil {
		s.logger.Error("evidence store failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: err.Error()})
	}

	entry := journal.NewEntry(journal.ActorService, journal.ActionEvidenceStore, id, map[string]any{
		"chars": len(req.Text),
	})
	event := eventstream.EvidenceStoredEvent{
		Envelope:   eventstream.NewEnvelope(eventstream.EventTypeEvidenceStored),
		EvidenceID: id,
		Text:       req.Text,
		Metadata:   req.Metadata,
	}
	s.recordProvenance("evidence-stored", entry, event)

	return c.JSON(StoreEvidenceResponse{ID: id})
}

// handleSearchEvidence runs a recency-weighted semantic search.
// Query parameters:
//   - q (required): the search query text
//   - top_k (optional, default 5): number of results to return
//   - threshold (optional, default 0): minimum weighted score
func (s *Server) handleSearchEvidence(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "q parameter is required"})
	}

	topK := evidence.DefaultTopK
	if topKStr := c.Query("top_k"); topKStr != "" {
		parsed, err := strconv.Atoi(topKStr)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "top_k must be a positive integer"})
		}
		topK = parsed
	}

	threshold := 0.0
	if thresholdStr := c.Query("threshold"); thresholdStr != "" {
		parsed, err := strconv.ParseFloat(thresholdStr, 64)
		if err != nil || parsed < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "threshold must be a non-negative number"})
		}
		threshold = parsed
	}

	results, err := s.store.Search(c.Context(), query, topK, threshold)
	if err != nil {
		s.logger.Error("evidence search failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(SearchResponse{Results: results, Count: len(results)})
}

// handleEvidenceByIDs returns records by id, skipping unknown ids.
func (s *Server) handleEvidenceByIDs(c *fiber.Ctx) error {
	var req EvidenceByIDsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}
	if len(req.IDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "ids is required"})
	}

	results, err := s.store.GetByIDs(c.Context(), req.IDs)
	if err != nil {
		s.logger.Error("evidence lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(SearchResponse{Results: results, Count: len(results)})
}

// handleDeleteEvidence removes a record by id.
func (s *Server) handleDeleteEvidence(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "id parameter required"})
	}

	deleted := s.store.Delete(c.Context(), id)
	if deleted {
		entry := journal.NewEntry(journal.ActorService, journal.ActionEvidenceDelete, id, nil)
		event := eventstream.EvidenceDeletedEvent{
			Envelope:   eventstream.NewEnvelope(eventstream.EventTypeEvidenceDeleted),
			EvidenceID: id,
		}
		s.recordProvenance("evidence-deleted", entry, event)
	}

	return c.JSON(DeleteEvidenceResponse{Deleted: deleted})
}

// handleEvidenceStats returns the record count and the configured cap.
func (s *Server) handleEvidenceStats(c *fiber.Ctx) error {
	count, err := s.store.Count(c.Context())
	if err != nil {
		s.logger.Error("evidence count failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(StatsResponse{Count: count, Capacity: s.store.Capacity()})
}

// handleGenerate produces a response for a prompt conditioned on the
// submitted evidence list.
func (s *Server) handleGenerate(c *fiber.Ctx) error {
	var req orchestrator.Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}
	if req.Prompt == "" {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "prompt is required"})
	}

	start := time.Now()
	result, err := s.orch.Generate(c.Context(), req)
	if err != nil {
		s.logger.Error("generation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: err.Error()})
	}
	duration := time.Since(start)

	entry := journal.NewEntry(journal.ActorService, journal.ActionGenerate, "", map[string]any{
		"prompt_chars":   len(req.Prompt),
		"evidence_count": len(req.Evidence),
		"response_chars": len(result.Text),
		"entropy":        result.Entropy,
		"duration_ms":    duration.Milliseconds(),
	})
	event := eventstream.GenerationEvent{
		Envelope:      eventstream.NewEnvelope(eventstream.EventTypeGeneration),
		Prompt:        req.Prompt,
		EvidenceCount: len(req.Evidence),
		ResponseChars: len(result.Text),
		Entropy:       result.Entropy,
		DurationMs:    duration.Milliseconds(),
	}
	s.recordProvenance("generation-completed", entry, event)

	return c.JSON(result)
}

// handleEmbed returns the embedding vector for the submitted text.
func (s *Server) handleEmbed(c *fiber.Ctx) error {
	var req EmbedRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}
	if req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "text is required"})
	}

	embedding, err := s.orch.Embed(c.Context(), req.Text)
	if err != nil {
		s.logger.Error("embedding failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(EmbedResponse{Embedding: embedding})
}

// recordProvenance writes a journal entry and publishes an event for a
// completed operation. With a pool configured the work runs off the request
// path; without one it runs inline. Provenance failures are logged, never
// surfaced to clients.
func (s *Server) recordProvenance(name string, entry journal.Entry, event eventstream.Event) {
	if s.config.Journal == nil && s.config.Events == nil {
		return
	}

	job := func(ctx context.Context) {
		if s.config.Journal != nil {
			if err := s.config.Journal.Record(ctx, entry); err != nil {
				s.logger.Warn("journal record failed",
					zap.String("action", entry.Action),
					zap.Error(err),
				)
			}
		}
		if s.config.Events != nil {
			if err := s.config.Events.Publish(ctx, event); err != nil {
				s.logger.Warn("event publish failed",
					zap.String("event_id", event.ID()),
					zap.Error(err),
				)
			}
		}
	}

	if s.config.Pool != nil {
		s.config.Pool.Enqueue(name, job)
		return
	}
	job(context.Background())
}
