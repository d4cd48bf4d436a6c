package model

// Header is a single captured header. Archives keep headers as an ordered
// list, so duplicates and original casing survive until normalization.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Param is a form parameter, either captured in a request body or emitted in
// a FormParams body.
type Param struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Request is the request half of an archive entry.
type Request struct {
	Method  string
	URL     string
	Headers []Header

	// PostData is nil when the browser recorded no request body.
	PostData *PostData
}

// PostData is a captured request body. Params and Text are both optional;
// when both are present the params win.
type PostData struct {
	MimeType string
	Params   []Param

	// Text is nil when the archive carried no raw payload.
	Text *string
}

// Response is the response half of an archive entry.
type Response struct {
	Status int

	// Content is nil when the archive recorded no response content.
	Content *Content
}

// Content is a captured response body.
type Content struct {
	MimeType string

	// Text is nil when only the content metadata was recorded.
	Text *string

	// Encoding is the archive's content encoding, "base64" for binary bodies
	// and empty for plain text.
	Encoding string
}
