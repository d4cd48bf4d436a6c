package transform

import (
	"strings"

	"github.com/raysh454/harplay/internal/model"
)

const (
	headerContentType = "Content-Type"
	headerUserAgent   = "User-Agent"
)

// normalizeHeaders drops HTTP/2 pseudo-headers and collapses duplicates.
// Names compare case-insensitively; the last occurrence wins and keeps its
// own spelling.
func normalizeHeaders(in []model.Header) map[string]string {
	out := make(map[string]string, len(in))
	names := make(map[string]string, len(in))
	for _, h := range in {
		if strings.HasPrefix(h.Name, ":") {
			continue
		}
		key := strings.ToLower(h.Name)
		if prev, ok := names[key]; ok {
			delete(out, prev)
		}
		names[key] = h.Name
		out[h.Name] = h.Value
	}
	return out
}

// lookupHeader finds name case-insensitively.
func lookupHeader(headers map[string]string, name string) (string, bool) {
	if v, ok := headers[name]; ok {
		return v, true
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}
