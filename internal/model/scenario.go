package model

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// BodyKind names the shape of a request body.
type BodyKind string

const (
	BodyKindForm BodyKind = "form"
	BodyKindRaw  BodyKind = "raw"
	BodyKindNone BodyKind = "none"
)

// Body is the request payload of a scenario element. It is a closed set:
// FormParams, RawBytes or NoBody. Only this package can add variants.
type Body interface {
	Kind() BodyKind
	isBody()
}

// FormParams is an ordered list of form fields.
type FormParams struct {
	Params []Param
}

// RawBytes is an opaque payload replayed as-is.
type RawBytes struct {
	Data []byte
}

// NoBody marks a request sent without a payload.
type NoBody struct{}

func (FormParams) Kind() BodyKind { return BodyKindForm }
func (RawBytes) Kind() BodyKind   { return BodyKindRaw }
func (NoBody) Kind() BodyKind     { return BodyKindNone }

func (FormParams) isBody() {}
func (RawBytes) isBody()   {}
func (NoBody) isBody()     {}

func (b FormParams) MarshalJSON() ([]byte, error) {
	params := b.Params
	if params == nil {
		params = []Param{}
	}
	return json.Marshal(struct {
		Kind   BodyKind `json:"kind"`
		Params []Param  `json:"params"`
	}{BodyKindForm, params})
}

func (b RawBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind BodyKind `json:"kind"`
		Data []byte   `json:"data"`
	}{BodyKindRaw, b.Data})
}

func (NoBody) MarshalJSON() ([]byte, error) {
	return []byte(`{"kind":"none"}`), nil
}

// RequestElement is one normalized, replayable request.
type RequestElement struct {
	// ID is derived from the element's position, method and URI, so the same
	// archive always yields the same IDs.
	ID     uuid.UUID `json:"id"`
	URI    string    `json:"uri"`
	Method string    `json:"method"`

	// Headers has unique names. HTTP/2 pseudo-headers never appear here.
	Headers map[string]string `json:"headers"`
	Body    Body              `json:"body"`

	// ResponseBody is nil when the archive recorded no response content.
	ResponseBody []byte `json:"response_body,omitempty"`
	Status       int    `json:"status"`

	// Resources lists the sub-resources referenced by an HTML response.
	Resources []string `json:"resources"`
}

// TimedScenarioElement places a request on the session timeline. Archives
// only record when a request was sent, so Start and End are equal.
type TimedScenarioElement struct {
	Start   time.Time      `json:"start"`
	End     time.Time      `json:"end"`
	Element RequestElement `json:"element"`
}

// AuxiliaryElement is a non-request scenario step (pause, tag). The archive
// conversion never produces one.
type AuxiliaryElement struct {
	Kind  string `json:"kind"`
	Value string `json:"value,omitempty"`
}

// ScenarioDefinition is the ordered result of a conversion.
type ScenarioDefinition struct {
	Elements  []TimedScenarioElement `json:"elements"`
	Auxiliary []AuxiliaryElement     `json:"auxiliary"`
}

// UserAgent is a parsed User-Agent header, handed to the resource extractor
// so it can evaluate browser-specific markup.
type UserAgent struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Major   int    `json:"major,omitempty"`
	OS      string `json:"os,omitempty"`
	Mobile  bool   `json:"mobile,omitempty"`
	Bot     bool   `json:"bot,omitempty"`
}
