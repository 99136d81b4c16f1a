package api

import (
	"fmt"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/api/mcp"
	"github.com/papercomputeco/hindsight/pkg/evidence"
	"github.com/papercomputeco/hindsight/pkg/orchestrator"
)

// Server is the API server for managing and querying the hindsight system
type Server struct {
	config Config
	store  *evidence.Store
	orch   *orchestrator.Orchestrator
	logger *zap.Logger
	app    *fiber.App
}

// NewServer creates a new API server.
// The evidence store and orchestrator are injected to allow sharing with
// other components (e.g., the workspace server when both run together).
func NewServer(config Config, store *evidence.Store, orch *orchestrator.Orchestrator, logger *zap.Logger) (*Server, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		store:  store,
		orch:   orch,
		logger: logger,
		app:    app,
	}

	app.Get("/ping", s.handlePing)
	app.Post("/evidence", s.handleStoreEvidence)
	app.Get("/evidence/search", s.handleSearchEvidence)
	app.Post("/evidence/ids", s.handleEvidenceByIDs)
	app.Get("/evidence/stats", s.handleEvidenceStats)
	app.Delete("/evidence/:id", s.handleDeleteEvidence)
	app.Post("/generate", s.handleGenerate)
	app.Post("/embed", s.handleEmbed)

	if !config.MCPNoop {
		mcpServer, err := mcp.NewServer(mcp.Config{
			Store:  store,
			Logger: logger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating MCP server: %w", err)
		}
		app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))
	}

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
