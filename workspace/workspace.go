package workspace

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/cipher"
	"github.com/papercomputeco/hindsight/pkg/evidence"
	"github.com/papercomputeco/hindsight/pkg/inbox"
)

// Server is the workspace HTTP server.
type Server struct {
	config Config
	store  *evidence.Store
	inbox  *inbox.Inbox
	cipher *cipher.Cipher
	logger *zap.Logger
	app    *fiber.App
}

// NewServer creates a workspace server. The evidence store may be nil, in
// which case the evidence routes answer 503; the inbox and cipher are
// required because the channel endpoints have no degraded mode.
func NewServer(config Config, store *evidence.Store, box *inbox.Inbox, ciph *cipher.Cipher, logger *zap.Logger) (*Server, error) {
	if config.Dir == "" {
		return nil, errors.New("workspace dir is required")
	}
	if box == nil {
		return nil, errors.New("inbox is required")
	}
	if ciph == nil {
		return nil, errors.New("cipher is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		store:  store,
		inbox:  box,
		cipher: ciph,
		logger: logger,
		app:    app,
	}

	app.Get("/files", s.handleListFiles)
	app.Get("/files/*", s.handleReadFile)
	app.Post("/files/*", s.handleWriteFile)
	app.Get("/evidence", s.handleSearchEvidence)
	app.Delete("/evidence/:id", s.handleDeleteEvidence)
	app.Get("/inbox/read", s.handleInboxRead)
	app.Post("/inbox/send", s.handleInboxSend)
	app.Post("/cipher/encrypt", s.handleCipherEncrypt)
	app.Post("/cipher/decrypt", s.handleCipherDecrypt)

	return s, nil
}

// Run starts the workspace server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting workspace server",
		zap.String("listen", s.config.ListenAddr),
		zap.String("dir", s.config.Dir),
		zap.Bool("evidence_ops", s.store != nil),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the workspace server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
