package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/eventstream"
	"github.com/papercomputeco/hindsight/pkg/journal"
	"github.com/papercomputeco/hindsight/pkg/utils"
)

const (
	// fileReadCap is the character cap on file reads.
	fileReadCap = 4000

	// truncationMarker is appended to reads that exceed fileReadCap.
	truncationMarker = "\n... (truncated)"

	// evidenceTextCap is the character cap on evidence text in search results.
	evidenceTextCap = 300

	// searchTopK and searchThreshold are the fixed search parameters for the
	// evidence endpoint.
	searchTopK      = 5
	searchThreshold = 0.2
)

// FileInfo is one entry in the workspace file listing.
type FileInfo struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// ListFilesResponse is the body of GET /files/.
type ListFilesResponse struct {
	Files []FileInfo `json:"files"`
	Count int        `json:"count"`
}

// EvidenceItem is one search hit with capped text and a rounded score.
type EvidenceItem struct {
	ID    string  `json:"id"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// EvidenceResponse is the body of GET /evidence/.
type EvidenceResponse struct {
	Results []EvidenceItem `json:"results"`
	Count   int            `json:"count"`
}

// text sends a plain-text response. Every route answers text/plain, JSON
// listings included, matching the counterpart the tool loop was tuned
// against.
func (s *Server) text(c *fiber.Ctx, code int, body string) error {
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.Status(code).SendString(body)
}

// resolveSandboxPath resolves rel inside the workspace directory. It returns
// false for absolute paths and for any path that escapes the sandbox after
// cleaning.
func (s *Server) resolveSandboxPath(rel string) (string, bool) {
	if filepath.IsAbs(rel) {
		return "", false
	}

	target := filepath.Join(s.config.Dir, rel)
	back, err := filepath.Rel(s.config.Dir, target)
	if err != nil || back == ".." || strings.HasPrefix(back, ".."+string(filepath.Separator)) {
		return "", false
	}

	return target, true
}

// handleListFiles returns a recursive listing of the workspace, sorted by
// path.
func (s *Server) handleListFiles(c *fiber.Ctx) error {
	if err := os.MkdirAll(s.config.Dir, 0o755); err != nil {
		return s.text(c, fiber.StatusInternalServerError, fmt.Sprintf("List failed: %v", err))
	}

	files := []FileInfo{}
	err := filepath.WalkDir(s.config.Dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.config.Dir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		files = append(files, FileInfo{
			Path: filepath.ToSlash(rel),
			Size: info.Size(),
		})
		return nil
	})
	if err != nil {
		return s.text(c, fiber.StatusInternalServerError, fmt.Sprintf("List failed: %v", err))
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	body, err := json.Marshal(ListFilesResponse{Files: files, Count: len(files)})
	if err != nil {
		return s.text(c, fiber.StatusInternalServerError, fmt.Sprintf("List failed: %v", err))
	}

	return s.text(c, fiber.StatusOK, string(body))
}

// handleReadFile reads a file from the workspace, capped at fileReadCap
// characters. An empty path falls through to the listing.
func (s *Server) handleReadFile(c *fiber.Ctx) error {
	rel := c.Params("*")
	if rel == "" {
		return s.handleListFiles(c)
	}

	target, ok := s.resolveSandboxPath(rel)
	if !ok {
		return s.text(c, fiber.StatusForbidden, fmt.Sprintf("Rejected: path '%s' is outside workspace.", rel))
	}

	data, err := os.ReadFile(target)
	if os.IsNotExist(err) {
		return s.text(c, fiber.StatusNotFound, fmt.Sprintf("File not found: %s", rel))
	}
	if err != nil {
		return s.text(c, fiber.StatusInternalServerError, fmt.Sprintf("Read failed: %v", err))
	}

	content := string(data)
	if len(content) > fileReadCap {
		content = content[:fileReadCap] + truncationMarker
	}

	return s.text(c, fiber.StatusOK, content)
}

// handleWriteFile writes the request body to a file in the workspace,
// creating parent directories as needed.
func (s *Server) handleWriteFile(c *fiber.Ctx) error {
	rel := c.Params("*")
	if rel == "" {
		return s.text(c, fiber.StatusBadRequest, "Path required for write")
	}

	target, ok := s.resolveSandboxPath(rel)
	if !ok {
		return s.text(c, fiber.StatusForbidden, fmt.Sprintf("Rejected: path '%s' is outside workspace.", rel))
	}

	body := c.Body()
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return s.text(c, fiber.StatusInternalServerError, fmt.Sprintf("Write failed: %v", err))
	}
	if err := os.WriteFile(target, body, 0o644); err != nil {
		return s.text(c, fiber.StatusInternalServerError, fmt.Sprintf("Write failed: %v", err))
	}

	entry := journal.NewEntry(journal.ActorService, journal.ActionFileWrite, filepath.ToSlash(rel), map[string]any{
		"bytes": len(body),
	})
	s.recordProvenance("file-written", entry, nil)

	return s.text(c, fiber.StatusOK, fmt.Sprintf("Written: %s (%d bytes)", rel, len(body)))
}

// handleSearchEvidence searches stored evidence with the endpoint's fixed
// top_k and threshold.
func (s *Server) handleSearchEvidence(c *fiber.Ctx) error {
	if s.store == nil {
		return s.text(c, fiber.StatusServiceUnavailable, "Evidence store not available")
	}

	query := c.Query("q")
	if query == "" {
		return s.text(c, fiber.StatusBadRequest, "Query parameter 'q' is required. Example: GET /evidence/?q=your+search+term")
	}

	results, err := s.store.Search(c.Context(), query, searchTopK, searchThreshold)
	if err != nil {
		s.logger.Error("evidence search failed", zap.Error(err))
		return s.text(c, fiber.StatusInternalServerError, fmt.Sprintf("Search failed: %v", err))
	}

	items := []EvidenceItem{}
	for _, result := range results {
		items = append(items, EvidenceItem{
			ID:    result.ID,
			Text:  utils.Truncate(result.Text, evidenceTextCap),
			Score: math.Round(result.Score*10000) / 10000,
		})
	}

	body, err := json.Marshal(EvidenceResponse{Results: items, Count: len(items)})
	if err != nil {
		return s.text(c, fiber.StatusInternalServerError, fmt.Sprintf("Search failed: %v", err))
	}

	return s.text(c, fiber.StatusOK, string(body))
}

// handleDeleteEvidence removes one evidence record by id.
func (s *Server) handleDeleteEvidence(c *fiber.Ctx) error {
	if s.store == nil {
		return s.text(c, fiber.StatusServiceUnavailable, "Evidence store not available")
	}

	id := c.Params("id")
	if id == "" {
		return s.text(c, fiber.StatusBadRequest, "Evidence ID required. Example: DELETE /evidence/abc-123")
	}

	deleted := s.store.Delete(c.Context(), id)
	if !deleted {
		return s.text(c, fiber.StatusNotFound, fmt.Sprintf("Not found or delete failed: %s", id))
	}

	entry := journal.NewEntry(journal.ActorService, journal.ActionEvidenceDelete, id, nil)
	event := eventstream.EvidenceDeletedEvent{
		Envelope:   eventstream.NewEnvelope(eventstream.EventTypeEvidenceDeleted),
		EvidenceID: id,
	}
	s.recordProvenance("evidence-deleted", entry, event)

	return s.text(c, fiber.StatusOK, fmt.Sprintf("Deleted: %s", id))
}

// handleInboxRead returns the decrypted operator message.
func (s *Server) handleInboxRead(c *fiber.Ctx) error {
	message, err := s.inbox.Read()
	if err != nil {
		s.logger.Error("inbox read failed", zap.Error(err))
		return s.text(c, fiber.StatusInternalServerError, fmt.Sprintf("Inbox read failed: %v", err))
	}

	return s.text(c, fiber.StatusOK, message)
}

// handleInboxSend encrypts the request body and writes it to the outbox.
func (s *Server) handleInboxSend(c *fiber.Ctx) error {
	message := string(c.Body())
	if message == "" {
		return s.text(c, fiber.StatusBadRequest, "Body required: your message to the operator")
	}

	if err := s.inbox.Send(message); err != nil {
		s.logger.Error("inbox send failed", zap.Error(err))
		return s.text(c, fiber.StatusInternalServerError, fmt.Sprintf("Inbox send failed: %v", err))
	}

	entry := journal.NewEntry(journal.ActorService, journal.ActionInboxSend, "", map[string]any{
		"chars": len(message),
	})
	s.recordProvenance("inbox-sent", entry, nil)

	return s.text(c, fiber.StatusOK, fmt.Sprintf("Message sent to operator (%d chars, encrypted).", len(message)))
}

// handleCipherEncrypt encrypts the request body and returns base64
// ciphertext.
func (s *Server) handleCipherEncrypt(c *fiber.Ctx) error {
	plaintext := string(c.Body())
	if plaintext == "" {
		return s.text(c, fiber.StatusBadRequest, "Body required: plaintext to encrypt")
	}

	return s.text(c, fiber.StatusOK, s.cipher.Encrypt(plaintext))
}

// handleCipherDecrypt decrypts base64 ciphertext from the request body.
func (s *Server) handleCipherDecrypt(c *fiber.Ctx) error {
	ciphertext := string(c.Body())
	if ciphertext == "" {
		return s.text(c, fiber.StatusBadRequest, "Body required: base64 ciphertext to decrypt")
	}

	plaintext, err := s.cipher.Decrypt(strings.TrimSpace(ciphertext))
	if err != nil {
		s.logger.Error("cipher decrypt failed", zap.Error(err))
		return s.text(c, fiber.StatusInternalServerError, fmt.Sprintf("Decrypt failed: %v", err))
	}

	return s.text(c, fiber.StatusOK, plaintext)
}

// recordProvenance writes a journal entry and, when event is non-nil,
// publishes it. With a pool configured the work runs off the request path;
// without one it runs inline. Provenance failures are logged, never surfaced
// to clients.
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
		if s.config.Events != nil && event != nil {
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
