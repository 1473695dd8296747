// Package api implements the REST API for calculator sessions: create a
// session, press keys on it, read its display, cycle its theme.
package api

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/lemonberrylabs/keycalc/pkg/input"
	"github.com/lemonberrylabs/keycalc/pkg/store"
)

// MaxBatchKeys is the maximum number of keys accepted by one batch request.
const MaxBatchKeys = 1000

// Server is the API server.
type Server struct {
	app   *fiber.App
	store *store.Store
}

// Option configures a Server.
type Option func(*fiber.App)

// WithRequestLog writes one access log line per request to w.
func WithRequestLog(w io.Writer) Option {
	return func(app *fiber.App) {
		app.Use(logger.New(logger.Config{Output: w}))
	}
}

// New creates a new API server.
func New(s *store.Store, opts ...Option) *Server {
	srv := &Server{store: s}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})
	app.Use(recover.New())
	for _, opt := range opts {
		opt(app)
	}

	// Sessions API
	app.Post("/v1/sessions", srv.createSession)
	app.Get("/v1/sessions", srv.listSessions)
	app.Get("/v1/sessions/:id", srv.getSession)
	app.Delete("/v1/sessions/:id", srv.deleteSession)

	// Keys API
	app.Post("/v1/sessions/:id/keys", srv.pressKey)
	app.Post("/v1/sessions/:id/keys\\:batch", srv.pressKeys)

	// Preferences and history
	app.Post("/v1/sessions/:id/theme\\:next", srv.nextTheme)
	app.Get("/v1/sessions/:id/history", srv.history)

	srv.app = app
	return srv
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app (useful for testing).
func (s *Server) App() *fiber.App {
	return s.app
}

// --- Session Handlers ---

func (s *Server) createSession(c *fiber.Ctx) error {
	snap, err := s.store.CreateSession()
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "INTERNAL", err.Error())
	}
	return c.Status(fiber.StatusOK).JSON(sessionToJSON(snap))
}

func (s *Server) listSessions(c *fiber.Ctx) error {
	sessions := s.store.ListSessions()

	items := make([]fiber.Map, len(sessions))
	for i, snap := range sessions {
		items[i] = sessionToJSON(snap)
	}

	return c.JSON(fiber.Map{
		"sessions": items,
	})
}

func (s *Server) getSession(c *fiber.Ctx) error {
	snap, err := s.store.GetSession(c.Params("id"))
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(sessionToJSON(snap))
}

func (s *Server) deleteSession(c *fiber.Ctx) error {
	if err := s.store.DeleteSession(c.Params("id")); err != nil {
		return storeError(c, err)
	}
	return c.JSON(fiber.Map{
		"name": store.SessionName(c.Params("id")),
		"done": true,
	})
}

// --- Key Handlers ---

type pressKeyRequest struct {
	Key    string `json:"key"`
	Source string `json:"source"`
}

type pressKeysRequest struct {
	Keys   []string `json:"keys"`
	Text   string   `json:"text"`
	Source string   `json:"source"`
}

func (s *Server) pressKey(c *fiber.Ctx) error {
	var req pressKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", fmt.Sprintf("invalid request body: %v", err))
	}
	if req.Key == "" {
		return errorResponse(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "key is required")
	}
	src, err := input.ParseSource(req.Source)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	}

	snap, consumed, err := s.store.Press(c.Params("id"), req.Key, src)
	if err != nil {
		return storeError(c, err)
	}

	result := sessionToJSON(snap)
	result["consumed"] = consumed
	return c.JSON(result)
}

func (s *Server) pressKeys(c *fiber.Ctx) error {
	var req pressKeysRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", fmt.Sprintf("invalid request body: %v", err))
	}
	keys := req.Keys
	if req.Text != "" {
		keys = append(keys, input.Split(req.Text)...)
	}
	if len(keys) == 0 {
		return errorResponse(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "keys or text is required")
	}
	if len(keys) > MaxBatchKeys {
		return errorResponse(c, fiber.StatusBadRequest, "INVALID_ARGUMENT",
			fmt.Sprintf("too many keys: %d (max %d)", len(keys), MaxBatchKeys))
	}
	src, err := input.ParseSource(req.Source)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	}

	snap, consumed, err := s.store.PressAll(c.Params("id"), keys, src)
	if err != nil {
		return storeError(c, err)
	}

	result := sessionToJSON(snap)
	result["consumed"] = consumed
	return c.JSON(result)
}

// --- Preference Handlers ---

func (s *Server) nextTheme(c *fiber.Ctx) error {
	snap, err := s.store.NextTheme(c.Params("id"))
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(sessionToJSON(snap))
}

func (s *Server) history(c *fiber.Ctx) error {
	entries, err := s.store.History(c.Params("id"))
	if err != nil {
		return storeError(c, err)
	}

	items := make([]fiber.Map, len(entries))
	for i, e := range entries {
		items[i] = fiber.Map{
			"seq":        e.Seq,
			"expression": e.Expression,
			"result":     e.Result,
			"failed":     e.Failed,
			"time":       e.Time.Format(time.RFC3339),
		}
	}

	return c.JSON(fiber.Map{
		"history": items,
	})
}

// --- Helpers ---

func errorResponse(c *fiber.Ctx, code int, status, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
			"status":  status,
		},
	})
}

func storeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return errorResponse(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	}
	return errorResponse(c, fiber.StatusInternalServerError, "INTERNAL", err.Error())
}

func sessionToJSON(snap store.Snapshot) fiber.Map {
	symbols := make([]fiber.Map, len(snap.Symbols))
	for i, sym := range snap.Symbols {
		symbols[i] = fiber.Map{
			"value": sym.Value,
			"kind":  sym.Kind,
		}
	}

	return fiber.Map{
		"id":         snap.ID,
		"name":       snap.Name,
		"display":    snap.Display,
		"symbols":    symbols,
		"error":      snap.Error,
		"theme":      snap.Theme,
		"createTime": snap.CreateTime.Format(time.RFC3339),
		"updateTime": snap.UpdateTime.Format(time.RFC3339),
	}
}
