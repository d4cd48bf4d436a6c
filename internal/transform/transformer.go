// Package transform maps a kept archive entry onto a replayable scenario
// element.
package transform

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/raysh454/harplay/internal/interfaces"
	"github.com/raysh454/harplay/internal/model"
)

const (
	formURLEncoded = "application/x-www-form-urlencoded"
	htmlMimeType   = "text/html"
)

// elementNamespace scopes element IDs so they never collide with other
// name-based UUIDs.
var elementNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/raysh454/harplay/element"))

// Transformer builds request elements. Extractor and UserAgents may be nil,
// in which case HTML responses get no embedded resources.
type Transformer struct {
	Extractor  interfaces.ResourceExtractor
	UserAgents interfaces.UserAgentParser
}

func New(extractor interfaces.ResourceExtractor, userAgents interfaces.UserAgentParser) *Transformer {
	return &Transformer{Extractor: extractor, UserAgents: userAgents}
}

// Transform converts e, the ordinal-th kept entry of the archive. The only
// error it returns is *EncodingError.
func (t *Transformer) Transform(ordinal int, e model.Entry) (model.TimedScenarioElement, error) {
	req := e.Request

	headers := normalizeHeaders(req.Headers)
	if req.PostData != nil && req.PostData.MimeType != "" {
		if _, ok := lookupHeader(headers, headerContentType); !ok {
			headers[headerContentType] = req.PostData.MimeType
		}
	}

	body, err := requestBody(req.PostData, headers)
	if err != nil {
		return model.TimedScenarioElement{}, err
	}

	var responseBody []byte
	if c := e.Response.Content; c != nil {
		responseBody, err = contentBytes(c)
		if err != nil {
			return model.TimedScenarioElement{}, err
		}
	}

	el := model.RequestElement{
		ID:           elementID(ordinal, req.Method, req.URL),
		URI:          req.URL,
		Method:       req.Method,
		Headers:      headers,
		Body:         body,
		ResponseBody: responseBody,
		Status:       e.Response.Status,
		Resources:    t.resources(req.URL, headers, e.Response.Content, responseBody),
	}

	return model.TimedScenarioElement{Start: e.SendTime, End: e.SendTime, Element: el}, nil
}

func requestBody(pd *model.PostData, headers map[string]string) (model.Body, error) {
	if pd == nil {
		return model.NoBody{}, nil
	}

	if len(pd.Params) > 0 {
		ct, _ := lookupHeader(headers, headerContentType)
		if !strings.Contains(strings.ToLower(ct), formURLEncoded) {
			params := make([]model.Param, len(pd.Params))
			copy(params, pd.Params)
			return model.FormParams{Params: params}, nil
		}

		params := make([]model.Param, 0, len(pd.Params))
		for _, p := range pd.Params {
			name, err := decodeFormValue("form parameter name", p.Name)
			if err != nil {
				return nil, err
			}
			value, err := decodeFormValue("form parameter value", p.Value)
			if err != nil {
				return nil, err
			}
			params = append(params, model.Param{Name: name, Value: value})
		}
		return model.FormParams{Params: params}, nil
	}

	if pd.Text != nil {
		return model.RawBytes{Data: []byte(*pd.Text)}, nil
	}

	return model.NoBody{}, nil
}

// decodeFormValue percent-decodes s and requires the result to be UTF-8.
func decodeFormValue(field, s string) (string, error) {
	v, err := url.QueryUnescape(s)
	if err != nil {
		return "", &EncodingError{Field: field, Value: s, Err: err}
	}
	if !utf8.ValidString(v) {
		return "", &EncodingError{Field: field, Value: s, Err: ErrInvalidUTF8}
	}
	return v, nil
}

// contentBytes decodes a captured response body. A content block without
// text yields nil.
func contentBytes(c *model.Content) ([]byte, error) {
	if c.Text == nil {
		return nil, nil
	}
	if strings.EqualFold(c.Encoding, "base64") {
		b, err := base64.StdEncoding.DecodeString(*c.Text)
		if err != nil {
			return nil, &EncodingError{Field: "base64 response content", Value: abbreviate(*c.Text), Err: err}
		}
		return b, nil
	}
	return []byte(*c.Text), nil
}

func (t *Transformer) resources(uri string, headers map[string]string, c *model.Content, document []byte) []string {
	if c == nil || c.MimeType != htmlMimeType || t.Extractor == nil {
		return []string{}
	}

	var ua *model.UserAgent
	if t.UserAgents != nil {
		if raw, ok := lookupHeader(headers, headerUserAgent); ok {
			ua = t.UserAgents.Parse(raw)
		}
	}

	found := t.Extractor.Extract(uri, string(document), ua)
	if found == nil {
		return []string{}
	}
	return found
}

func elementID(ordinal int, method, uri string) uuid.UUID {
	return uuid.NewSHA1(elementNamespace, []byte(fmt.Sprintf("%d %s %s", ordinal, method, uri)))
}

func abbreviate(s string) string {
	const limit = 32
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
