package interfaces

import "github.com/raysh454/harplay/internal/model"

// ResourceExtractor discovers the sub-resources an HTML document references.
//
// Implementations resolve every reference against baseURL and return absolute
// URLs in the order they were found. ua is nil when the request carried no
// usable User-Agent header. Extract never fails: a document it cannot read
// simply yields no resources.
type ResourceExtractor interface {
	Extract(baseURL, document string, ua *model.UserAgent) []string
}

// UserAgentParser turns a raw User-Agent header value into a descriptor.
// It returns nil for empty or unrecognizable input.
type UserAgentParser interface {
	Parse(raw string) *model.UserAgent
}
