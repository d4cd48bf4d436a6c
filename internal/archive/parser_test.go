package archive_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/cdproto/har"
	"github.com/google/go-cmp/cmp"

	"github.com/raysh454/harplay/internal/archive"
	"github.com/raysh454/harplay/internal/model"
)

const validArchive = `{
  "log": {
    "version": "1.2",
    "creator": {"name": "browser", "version": "1"},
    "entries": [
      {
        "startedDateTime": "2024-03-01T10:00:00.123Z",
        "time": 12.5,
        "request": {
          "method": "POST",
          "url": "https://example.com/login",
          "httpVersion": "HTTP/2",
          "headers": [
            {"name": ":authority", "value": "example.com"},
            {"name": "Content-Type", "value": "application/x-www-form-urlencoded"}
          ],
          "postData": {
            "mimeType": "application/x-www-form-urlencoded",
            "params": [{"name": "user", "value": "bob"}],
            "text": "user=bob"
          }
        },
        "response": {
          "status": 302,
          "content": {"size": 0, "mimeType": "text/html", "text": "<p>moved</p>"}
        }
      },
      {
        "startedDateTime": "2024-03-01T10:00:01Z",
        "request": {"method": "GET", "url": "https://example.com/logo.png", "headers": []},
        "response": {"status": 200, "content": {"mimeType": "image/png", "text": "iVBORw==", "encoding": "base64"}}
      }
    ]
  }
}`

func strptr(s string) *string { return &s }

func TestParse_ValidArchive(t *testing.T) {
	t.Parallel()

	got, err := archive.Parse(strings.NewReader(validArchive))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := &model.Archive{Log: model.Log{Entries: []model.Entry{
		{
			SendTime: time.Date(2024, 3, 1, 10, 0, 0, 123_000_000, time.UTC),
			Request: model.Request{
				Method: "POST",
				URL:    "https://example.com/login",
				Headers: []model.Header{
					{Name: ":authority", Value: "example.com"},
					{Name: "Content-Type", Value: "application/x-www-form-urlencoded"},
				},
				PostData: &model.PostData{
					MimeType: "application/x-www-form-urlencoded",
					Params:   []model.Param{{Name: "user", Value: "bob"}},
					Text:     strptr("user=bob"),
				},
			},
			Response: model.Response{
				Status:  302,
				Content: &model.Content{MimeType: "text/html", Text: strptr("<p>moved</p>")},
			},
		},
		{
			SendTime: time.Date(2024, 3, 1, 10, 0, 1, 0, time.UTC),
			Request: model.Request{
				Method:  "GET",
				URL:     "https://example.com/logo.png",
				Headers: []model.Header{},
			},
			Response: model.Response{
				Status:  200,
				Content: &model.Content{MimeType: "image/png", Text: strptr("iVBORw=="), Encoding: "base64"},
			},
		},
	}}}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_EmptyEntries(t *testing.T) {
	t.Parallel()

	got, err := archive.Parse(strings.NewReader(`{"log":{"entries":[]}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got.Log.Entries) != 0 {
		t.Errorf("expected no entries, got %d", len(got.Log.Entries))
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	entry := func(body string) string {
		return `{"log":{"entries":[` + body + `]}}`
	}

	tests := []struct {
		name     string
		input    string
		wantPath string
	}{
		{"not json", `{"log":`, ""},
		{"wrong type", `{"log":{"entries":{}}}`, ""},
		{"missing log", `{}`, "log"},
		{"missing entries", `{"log":{}}`, "log.entries"},
		{"null entries", `{"log":{"entries":null}}`, "log.entries"},
		{
			"missing timestamp",
			entry(`{"request":{"method":"GET","url":"https://h/"},"response":{"status":200}}`),
			"log.entries[0].startedDateTime",
		},
		{
			"bad timestamp",
			entry(`{"startedDateTime":"yesterday","request":{"method":"GET","url":"https://h/"},"response":{"status":200}}`),
			"log.entries[0].startedDateTime",
		},
		{
			"missing request",
			entry(`{"startedDateTime":"2024-03-01T10:00:00Z","response":{"status":200}}`),
			"log.entries[0].request",
		},
		{
			"missing method",
			entry(`{"startedDateTime":"2024-03-01T10:00:00Z","request":{"url":"https://h/"},"response":{"status":200}}`),
			"log.entries[0].request.method",
		},
		{
			"missing url",
			entry(`{"startedDateTime":"2024-03-01T10:00:00Z","request":{"method":"GET"},"response":{"status":200}}`),
			"log.entries[0].request.url",
		},
		{
			"missing response",
			entry(`{"startedDateTime":"2024-03-01T10:00:00Z","request":{"method":"GET","url":"https://h/"}}`),
			"log.entries[0].response",
		},
		{
			"missing status",
			entry(`{"startedDateTime":"2024-03-01T10:00:00Z","request":{"method":"GET","url":"https://h/"},"response":{}}`),
			"log.entries[0].response.status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := archive.Parse(strings.NewReader(tt.input))
			if got != nil {
				t.Errorf("expected nil archive, got %+v", got)
			}
			var malformed *archive.MalformedArchiveError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedArchiveError, got %T: %v", err, err)
			}
			if malformed.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", malformed.Path, tt.wantPath)
			}
		})
	}
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestParse_ReadErrorPropagatesUnchanged(t *testing.T) {
	t.Parallel()

	readErr := errors.New("disk on fire")
	_, err := archive.Parse(failingReader{err: readErr})
	if !errors.Is(err, readErr) {
		t.Fatalf("expected read error, got %v", err)
	}
	var malformed *archive.MalformedArchiveError
	if errors.As(err, &malformed) {
		t.Errorf("read error must not be reported as malformed archive")
	}
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.har")
	if err := os.WriteFile(path, []byte(validArchive), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := archive.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(got.Log.Entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(got.Log.Entries))
	}
}

func TestParseFile_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := archive.ParseFile(filepath.Join(t.TempDir(), "nope.har"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestFromCDP(t *testing.T) {
	t.Parallel()

	h := &har.HAR{Log: &har.Log{Entries: []*har.Entry{
		{
			StartedDateTime: "2024-03-01T10:00:00Z",
			Request: &har.Request{
				Method:  "POST",
				URL:     "https://example.com/api",
				Headers: []*har.NameValuePair{{Name: "Accept", Value: "*/*"}},
				PostData: &har.PostData{
					MimeType: "application/json",
					Text:     `{"a":1}`,
				},
			},
			Response: &har.Response{
				Status:  201,
				Content: &har.Content{MimeType: "application/json", Text: `{"ok":true}`},
			},
		},
	}}}

	got, err := archive.FromCDP(h)
	if err != nil {
		t.Fatalf("FromCDP: %v", err)
	}

	want := &model.Archive{Log: model.Log{Entries: []model.Entry{{
		SendTime: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Request: model.Request{
			Method:   "POST",
			URL:      "https://example.com/api",
			Headers:  []model.Header{{Name: "Accept", Value: "*/*"}},
			PostData: &model.PostData{MimeType: "application/json", Text: strptr(`{"a":1}`)},
		},
		Response: model.Response{
			Status:  201,
			Content: &model.Content{MimeType: "application/json", Text: strptr(`{"ok":true}`)},
		},
	}}}}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromCDP mismatch (-want +got):\n%s", diff)
	}
}

func TestFromCDP_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       *har.HAR
		wantPath string
	}{
		{"nil", nil, "log"},
		{"no entries", &har.HAR{Log: &har.Log{}}, "log.entries"},
		{
			"no request",
			&har.HAR{Log: &har.Log{Entries: []*har.Entry{{StartedDateTime: "2024-03-01T10:00:00Z", Response: &har.Response{}}}}},
			"log.entries[0].request",
		},
		{
			"empty url",
			&har.HAR{Log: &har.Log{Entries: []*har.Entry{{
				StartedDateTime: "2024-03-01T10:00:00Z",
				Request:         &har.Request{Method: "GET"},
				Response:        &har.Response{},
			}}}},
			"log.entries[0].request.url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := archive.FromCDP(tt.in)
			var malformed *archive.MalformedArchiveError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedArchiveError, got %v", err)
			}
			if malformed.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", malformed.Path, tt.wantPath)
			}
		})
	}
}
