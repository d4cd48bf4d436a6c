package server_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/raysh454/harplay/internal/scenario"
	"github.com/raysh454/harplay/internal/server"
	"github.com/raysh454/harplay/internal/testutil"
	"github.com/raysh454/harplay/internal/transform"
)

const twoEntryArchive = `{"log":{"entries":[
	{"startedDateTime":"2024-03-01T10:00:00Z","request":{"method":"GET","url":"https://shop.example/","headers":[]},"response":{"status":200}},
	{"startedDateTime":"2024-03-01T10:00:01Z","request":{"method":"GET","url":"https://shop.example/app.js","headers":[]},"response":{"status":200}},
	{"startedDateTime":"2024-03-01T10:00:02Z","request":{"method":"CONNECT","url":"shop.example:443","headers":[]},"response":{"status":200}}
]}}`

type scenarioResponse struct {
	Elements []struct {
		Element struct {
			URI    string `json:"uri"`
			Method string `json:"method"`
		} `json:"element"`
	} `json:"elements"`
	Auxiliary []any `json:"auxiliary"`
}

func newTestServer(t *testing.T, mutate func(*server.Config)) *server.Server {
	t.Helper()

	logger := &testutil.DummyLogger{}
	conv := scenario.NewConverter(transform.New(&testutil.DummyExtractor{}, testutil.DummyUserAgents{}), logger)
	cfg := server.Config{ListenAddr: ":0", Logger: logger}
	if mutate != nil {
		mutate(&cfg)
	}

	s, err := server.NewServer(cfg, conv)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

func do(t *testing.T, s http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON response: %v (body: %s)", err, rec.Body.String())
	}
}

func TestNewServer_NilConverter(t *testing.T) {
	t.Parallel()

	if _, err := server.NewServer(server.Config{}, nil); err == nil {
		t.Error("expected error for nil converter")
	}
}

func TestServer_Health(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got server.HealthResponse
	decodeJSON(t, rec, &got)
	if got.Status != "ok" {
		t.Errorf("status = %q, want ok", got.Status)
	}
}

func TestServer_CORS_HeaderPresent(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodOptions, "/v1/scenarios", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if origin := rec.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("expected CORS origin *, got %q", origin)
	}
	if methods := rec.Header().Get("Access-Control-Allow-Methods"); methods != "POST" {
		t.Errorf("allow methods = %q, want POST", methods)
	}
}

func TestServer_CreateScenario(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"no rules", "", []string{"https://shop.example/", "https://shop.example/app.js"}},
		{"skip static", "?skip_static=true", []string{"https://shop.example/"}},
		{"deny list", `?deny=.*/app%5C.js`, []string{"https://shop.example/"}},
		{"host list", "?host=other.example", nil},
	}

	s := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := do(t, s, http.MethodPost, "/v1/scenarios"+tt.query, twoEntryArchive)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
			}

			var got scenarioResponse
			decodeJSON(t, rec, &got)
			var uris []string
			for _, el := range got.Elements {
				uris = append(uris, el.Element.URI)
			}
			if strings.Join(uris, ",") != strings.Join(tt.want, ",") {
				t.Errorf("uris = %v, want %v", uris, tt.want)
			}
			if got.Auxiliary == nil {
				t.Error("auxiliary must be present")
			}
		})
	}
}

func TestServer_CreateScenario_Errors(t *testing.T) {
	t.Parallel()

	badBase64 := `{"log":{"entries":[{"startedDateTime":"2024-03-01T10:00:00Z",
		"request":{"method":"GET","url":"https://h/","headers":[]},
		"response":{"status":200,"content":{"mimeType":"image/png","text":"%%%","encoding":"base64"}}}]}}`

	tests := []struct {
		name     string
		path     string
		body     string
		status   int
		wantPath string
	}{
		{"invalid json", "/v1/scenarios", "{", http.StatusBadRequest, ""},
		{"missing entries", "/v1/scenarios", `{"log":{}}`, http.StatusBadRequest, "log.entries"},
		{"bad base64", "/v1/scenarios", badBase64, http.StatusUnprocessableEntity, ""},
		{"bad skip_static", "/v1/scenarios?skip_static=maybe", twoEntryArchive, http.StatusBadRequest, ""},
		{"bad pattern", "/v1/scenarios?allow=(", twoEntryArchive, http.StatusBadRequest, ""},
	}

	s := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := do(t, s, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body: %s)", rec.Code, tt.status, rec.Body.String())
			}
			var got server.ErrorResponse
			decodeJSON(t, rec, &got)
			if got.Error == "" {
				t.Error("expected error message")
			}
			if got.Path != tt.wantPath {
				t.Errorf("path = %q, want %q", got.Path, tt.wantPath)
			}
		})
	}
}

func TestServer_BodyTooLarge(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, func(c *server.Config) { c.MaxBodyBytes = 16 })

	rec := do(t, s, http.MethodPost, "/v1/scenarios", twoEntryArchive)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestServer_RateLimited(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, func(c *server.Config) {
		c.RequestsPerSecond = 0.001
		c.Burst = 1
	})

	first := do(t, s, http.MethodPost, "/v1/scenarios", twoEntryArchive)
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d, want 200", first.Code)
	}
	second := do(t, s, http.MethodPost, "/v1/scenarios", twoEntryArchive)
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second status = %d, want 429", second.Code)
	}

	// Health checks are never limited.
	if rec := do(t, s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", rec.Code)
	}
}
