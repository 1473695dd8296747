// Package web provides the embedded HTML keypad.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/lemonberrylabs/keycalc/pkg/input"
	"github.com/lemonberrylabs/keycalc/pkg/store"
	"github.com/lemonberrylabs/keycalc/pkg/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// historyLimit is how many recent evaluations the keypad page lists.
const historyLimit = 5

// Handler serves the keypad pages.
type Handler struct {
	store   *store.Store
	funcMap template.FuncMap
}

// pageData wraps all page-specific data with common fields.
type pageData struct {
	Theme int
	Data  interface{}
}

// key is one keypad button.
type key struct {
	Label string
	Value string
	Class string
}

// keypad is laid out row by row; the last row is the wide reset and equal
// pair.
var keypad = [][]key{
	{{"7", "7", ""}, {"8", "8", ""}, {"9", "9", ""}, {"DEL", input.ActionDelete, "key-action"}},
	{{"4", "4", ""}, {"5", "5", ""}, {"6", "6", ""}, {"+", types.OpAdd, ""}},
	{{"1", "1", ""}, {"2", "2", ""}, {"3", "3", ""}, {"-", types.OpSubtract, ""}},
	{{".", ".", ""}, {"0", "0", ""}, {"/", types.OpDivide, ""}, {"x", types.OpMultiply, ""}},
	{{"RESET", input.ActionReset, "key-action key-wide"}, {"=", input.ActionEqual, "key-equal key-wide"}},
}

// New creates a new web UI handler.
func New(s *store.Store) *Handler {
	return &Handler{
		store: s,
		funcMap: template.FuncMap{
			"timeAgo":    timeAgo,
			"formatTime": formatTime,
		},
	}
}

func (h *Handler) render(c *fiber.Ctx, page string, theme int, data interface{}) error {
	// Each page is parsed with the layout on its own so define blocks do
	// not collide across pages.
	tmpl := template.Must(
		template.New("").Funcs(h.funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+page),
	)

	pd := pageData{
		Theme: theme,
		Data:  data,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, page, pd); err != nil {
		return c.Status(500).SendString(fmt.Sprintf("template error: %v", err))
	}

	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Send(buf.Bytes())
}

// Register adds web UI routes to the Fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/ui", h.newSession)
	app.Get("/ui/:id", h.calculator)
	app.Post("/ui/:id/press", h.press)
	app.Post("/ui/:id/theme", h.nextTheme)

	// Redirect root to UI
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/ui")
	})
}

// --- Page Data Types ---

type calculatorContent struct {
	Session store.Snapshot
	Keypad  [][]key
	History []store.HistoryEntry
}

type notFoundContent struct {
	Message string
}

// --- Page Handlers ---

func (h *Handler) newSession(c *fiber.Ctx) error {
	snap, err := h.store.CreateSession()
	if err != nil {
		return c.Status(500).SendString(err.Error())
	}
	return c.Redirect(sessionPath(snap.ID))
}

func (h *Handler) calculator(c *fiber.Ctx) error {
	id := c.Params("id")
	snap, err := h.store.GetSession(id)
	if err != nil {
		return h.notFound(c, id, err)
	}

	history, err := h.store.History(id)
	if err != nil {
		return c.Status(500).SendString(err.Error())
	}
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	// Newest first.
	recent := make([]store.HistoryEntry, len(history))
	for i, e := range history {
		recent[len(history)-1-i] = e
	}

	return h.render(c, "calculator.html", snap.Theme, calculatorContent{
		Session: snap,
		Keypad:  keypad,
		History: recent,
	})
}

func (h *Handler) press(c *fiber.Ctx) error {
	id := c.Params("id")
	// The form value aliases the request buffer and the key outlives it.
	key := utils.CopyString(c.FormValue("key"))
	if _, _, err := h.store.Press(id, key, input.SourcePointer); err != nil {
		return h.notFound(c, id, err)
	}
	return c.Redirect(sessionPath(id), fiber.StatusSeeOther)
}

func (h *Handler) nextTheme(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.store.NextTheme(id); err != nil {
		return h.notFound(c, id, err)
	}
	return c.Redirect(sessionPath(id), fiber.StatusSeeOther)
}

func (h *Handler) notFound(c *fiber.Ctx, id string, err error) error {
	if !errors.Is(err, store.ErrNotFound) {
		return c.Status(500).SendString(err.Error())
	}
	c.Status(fiber.StatusNotFound)
	return h.render(c, "not_found.html", 1, notFoundContent{
		Message: fmt.Sprintf("Session '%s' not found", id),
	})
}

// --- Template Helpers ---

func sessionPath(id string) string {
	return "/ui/" + id
}

func timeAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		m := int(d.Minutes())
		if m == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", m)
	case d < 24*time.Hour:
		h := int(d.Hours())
		if h == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", h)
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format("2006-01-02 15:04:05")
}
