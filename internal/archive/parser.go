// Package archive reads HTTP Archive (HAR) documents into the conversion
// model. Only the fields the scenario conversion uses are decoded.
package archive

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/raysh454/harplay/internal/model"
)

type wireArchive struct {
	Log *wireLog `json:"log"`
}

type wireLog struct {
	Entries *[]wireEntry `json:"entries"`
}

type wireEntry struct {
	StartedDateTime *string       `json:"startedDateTime"`
	Request         *wireRequest  `json:"request"`
	Response        *wireResponse `json:"response"`
}

type wireRequest struct {
	Method   *string         `json:"method"`
	URL      *string         `json:"url"`
	Headers  []wireNameValue `json:"headers"`
	PostData *wirePostData   `json:"postData"`
}

type wirePostData struct {
	MimeType string          `json:"mimeType"`
	Params   []wireNameValue `json:"params"`
	Text     *string         `json:"text"`
}

type wireResponse struct {
	Status  *int         `json:"status"`
	Content *wireContent `json:"content"`
}

type wireContent struct {
	MimeType string  `json:"mimeType"`
	Text     *string `json:"text"`
	Encoding string  `json:"encoding"`
}

type wireNameValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Parse reads a whole archive from r. Read errors are returned unchanged;
// anything wrong with the document itself is a *MalformedArchiveError.
func Parse(r io.Reader) (*model.Archive, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc wireArchive
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedArchiveError{Reason: "invalid JSON", Err: err}
	}

	if doc.Log == nil {
		return nil, missing("log")
	}
	if doc.Log.Entries == nil {
		return nil, missing("log.entries")
	}

	wires := *doc.Log.Entries
	entries := make([]model.Entry, 0, len(wires))
	for i, w := range wires {
		e, err := convertEntry(i, w)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return &model.Archive{Log: model.Log{Entries: entries}}, nil
}

// ParseFile opens path, parses it and closes it again on every exit path.
func ParseFile(path string) (*model.Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

func convertEntry(i int, w wireEntry) (model.Entry, error) {
	if w.StartedDateTime == nil {
		return model.Entry{}, missing(entryPath(i, "startedDateTime"))
	}
	sent, err := parseTimestamp(*w.StartedDateTime)
	if err != nil {
		return model.Entry{}, &MalformedArchiveError{Path: entryPath(i, "startedDateTime"), Reason: "invalid timestamp", Err: err}
	}

	if w.Request == nil {
		return model.Entry{}, missing(entryPath(i, "request"))
	}
	if w.Request.Method == nil {
		return model.Entry{}, missing(entryPath(i, "request.method"))
	}
	if w.Request.URL == nil {
		return model.Entry{}, missing(entryPath(i, "request.url"))
	}
	if w.Response == nil {
		return model.Entry{}, missing(entryPath(i, "response"))
	}
	if w.Response.Status == nil {
		return model.Entry{}, missing(entryPath(i, "response.status"))
	}

	req := model.Request{
		Method:  *w.Request.Method,
		URL:     *w.Request.URL,
		Headers: make([]model.Header, 0, len(w.Request.Headers)),
	}
	for _, h := range w.Request.Headers {
		req.Headers = append(req.Headers, model.Header{Name: h.Name, Value: h.Value})
	}
	if pd := w.Request.PostData; pd != nil {
		req.PostData = &model.PostData{
			MimeType: pd.MimeType,
			Params:   convertParams(pd.Params),
			Text:     pd.Text,
		}
	}

	resp := model.Response{Status: *w.Response.Status}
	if c := w.Response.Content; c != nil {
		resp.Content = &model.Content{
			MimeType: c.MimeType,
			Text:     c.Text,
			Encoding: c.Encoding,
		}
	}

	return model.Entry{SendTime: sent, Request: req, Response: resp}, nil
}

func convertParams(in []wireNameValue) []model.Param {
	if len(in) == 0 {
		return nil
	}
	out := make([]model.Param, 0, len(in))
	for _, p := range in {
		out = append(out, model.Param{Name: p.Name, Value: p.Value})
	}
	return out
}

// parseTimestamp accepts RFC 3339 with or without fractional seconds, which
// covers what browsers write into startedDateTime.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", s, err)
	}
	return t, nil
}
