package web

import (
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/lemonberrylabs/keycalc/pkg/input"
	"github.com/lemonberrylabs/keycalc/pkg/store"
)

func setupTestApp(t *testing.T) (*fiber.App, *store.Store) {
	t.Helper()
	s := store.New()
	h := New(s)
	app := fiber.New()
	h.Register(app)
	return app, s
}

func get(t *testing.T, app *fiber.App, path string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func post(t *testing.T, app *fiber.App, path string, form url.Values) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp.StatusCode, resp.Header.Get("Location")
}

func TestNewSessionRedirect(t *testing.T) {
	app, s := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/ui", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 302 {
		t.Fatalf("expected 302 redirect, got %d", resp.StatusCode)
	}
	sessions := s.ListSessions()
	if len(sessions) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions))
	}
	if loc := resp.Header.Get("Location"); loc != "/ui/"+sessions[0].ID {
		t.Errorf("Location = %s", loc)
	}
}

func TestCalculatorPage(t *testing.T) {
	app, s := setupTestApp(t)
	snap, err := s.CreateSession()
	if err != nil {
		t.Fatal(err)
	}

	code, html := get(t, app, "/ui/"+snap.ID)
	if code != 200 {
		t.Fatalf("expected 200, got %d: %s", code, html)
	}
	for _, want := range []string{`data-theme="1"`, `value="equal"`, `value="reset"`, `value="delete"`, `value="x"`, "THEME 1"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in response", want)
		}
	}
}

func TestPressAndRender(t *testing.T) {
	app, s := setupTestApp(t)
	snap, err := s.CreateSession()
	if err != nil {
		t.Fatal(err)
	}
	path := "/ui/" + snap.ID

	for _, k := range []string{"1", "2", "/", "4", "equal"} {
		code, loc := post(t, app, path+"/press", url.Values{"key": {k}})
		if code != 303 || loc != path {
			t.Fatalf("press %q: %d -> %s", k, code, loc)
		}
	}

	_, html := get(t, app, path)
	if !strings.Contains(html, `<div class="screen" id="display">3</div>`) {
		t.Error("expected display 3")
	}
	if !strings.Contains(html, "12/4 = 3") {
		t.Error("expected history entry")
	}
}

func TestPressKeepsSymbolsAcrossRequests(t *testing.T) {
	app, s := setupTestApp(t)
	snap, err := s.CreateSession()
	if err != nil {
		t.Fatal(err)
	}
	path := "/ui/" + snap.ID

	steps := []struct {
		key  string
		want []store.Symbol
	}{
		{"5", []store.Symbol{{Value: "5", Kind: "number"}}},
		{"x", []store.Symbol{{Value: "5", Kind: "number"}, {Value: "x", Kind: "operator"}}},
		{"5", []store.Symbol{{Value: "5", Kind: "number"}, {Value: "x", Kind: "operator"}, {Value: "5", Kind: "number"}}},
		{"equal", []store.Symbol{{Value: "25", Kind: "number"}}},
	}
	for _, st := range steps {
		if code, _ := post(t, app, path+"/press", url.Values{"key": {st.key}}); code != 303 {
			t.Fatalf("press %q: status %d", st.key, code)
		}
		got, err := s.GetSession(snap.ID)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(st.want, got.Symbols); diff != "" {
			t.Errorf("after %q symbols (-want +got):\n%s", st.key, diff)
		}
	}
}

func TestErrorDisplay(t *testing.T) {
	app, s := setupTestApp(t)
	snap, _ := s.CreateSession()
	if _, _, err := s.PressAll(snap.ID, []string{"1", "/", "0", "equal"}, input.SourcePointer); err != nil {
		t.Fatal(err)
	}

	_, html := get(t, app, "/ui/"+snap.ID)
	if !strings.Contains(html, `class="screen error"`) {
		t.Error("expected error screen class")
	}
	// html/template escapes the apostrophe.
	if !strings.Contains(html, "Can&#39;t divide by 0") {
		t.Error("expected divide by zero message")
	}
}

func TestThemeCycle(t *testing.T) {
	app, s := setupTestApp(t)
	snap, _ := s.CreateSession()
	path := "/ui/" + snap.ID

	if code, _ := post(t, app, path+"/theme", nil); code != 303 {
		t.Fatalf("expected 303, got %d", code)
	}
	_, html := get(t, app, path)
	if !strings.Contains(html, `data-theme="2"`) {
		t.Error("expected theme 2")
	}
}

func TestSessionNotFound(t *testing.T) {
	app, _ := setupTestApp(t)

	code, html := get(t, app, "/ui/nonexistent")
	if code != 404 {
		t.Errorf("expected 404, got %d", code)
	}
	if !strings.Contains(html, "Not Found") || !strings.Contains(html, "nonexistent") {
		t.Error("expected not found message")
	}
	if code, _ := post(t, app, "/ui/nonexistent/press", url.Values{"key": {"1"}}); code != 404 {
		t.Errorf("press: expected 404, got %d", code)
	}
}

func TestRootRedirect(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest("GET", "/", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 302 {
		t.Fatalf("expected 302 redirect, got %d", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	if loc != "/ui" {
		t.Fatalf("expected redirect to /ui, got %s", loc)
	}
}
