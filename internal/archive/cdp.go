package archive

import (
	"github.com/chromedp/cdproto/har"

	"github.com/raysh454/harplay/internal/model"
)

// FromCDP converts an archive held as chromedp HAR values, as produced by a
// DevTools recording, without a JSON round trip. The same required-field
// rules as Parse apply.
func FromCDP(h *har.HAR) (*model.Archive, error) {
	if h == nil || h.Log == nil {
		return nil, missing("log")
	}
	if h.Log.Entries == nil {
		return nil, missing("log.entries")
	}

	entries := make([]model.Entry, 0, len(h.Log.Entries))
	for i, e := range h.Log.Entries {
		if e == nil {
			return nil, &MalformedArchiveError{Path: entryPath(i, ""), Reason: "null entry"}
		}
		sent, err := parseTimestamp(e.StartedDateTime)
		if err != nil {
			return nil, &MalformedArchiveError{Path: entryPath(i, "startedDateTime"), Reason: "invalid timestamp", Err: err}
		}
		if e.Request == nil {
			return nil, missing(entryPath(i, "request"))
		}
		if e.Request.Method == "" {
			return nil, missing(entryPath(i, "request.method"))
		}
		if e.Request.URL == "" {
			return nil, missing(entryPath(i, "request.url"))
		}
		if e.Response == nil {
			return nil, missing(entryPath(i, "response"))
		}

		req := model.Request{
			Method:  e.Request.Method,
			URL:     e.Request.URL,
			Headers: make([]model.Header, 0, len(e.Request.Headers)),
		}
		for _, h := range e.Request.Headers {
			if h == nil {
				continue
			}
			req.Headers = append(req.Headers, model.Header{Name: h.Name, Value: h.Value})
		}
		if pd := e.Request.PostData; pd != nil {
			req.PostData = &model.PostData{MimeType: pd.MimeType}
			for _, p := range pd.Params {
				if p == nil {
					continue
				}
				req.PostData.Params = append(req.PostData.Params, model.Param{Name: p.Name, Value: p.Value})
			}
			// cdproto has no null text; an empty string means no payload.
			if pd.Text != "" {
				text := pd.Text
				req.PostData.Text = &text
			}
		}

		resp := model.Response{Status: int(e.Response.Status)}
		if c := e.Response.Content; c != nil {
			resp.Content = &model.Content{MimeType: c.MimeType, Encoding: c.Encoding}
			if c.Text != "" {
				text := c.Text
				resp.Content.Text = &text
			}
		}

		entries = append(entries, model.Entry{SendTime: sent, Request: req, Response: resp})
	}

	return &model.Archive{Log: model.Log{Entries: entries}}, nil
}
