package relay

import "net/http"

// Provider describes one upstream chat API as data. The orchestrator in
// Client.Stream is shared by every provider; only the fields below differ.
type Provider struct {
	// Name identifies the upstream in logs.
	Name string

	// Endpoint is the full URL the request body is POSTed to.
	Endpoint string

	// Failure is the answer reported when the upstream cannot be reached.
	Failure string

	// Body builds the JSON-serializable request body.
	Body func(req Request) (any, error)

	// Authorize sets credential headers on the outgoing request.
	Authorize func(h http.Header)

	// Decode extracts the text delta from one event payload.
	Decode DecodeFunc
}

// DecodeFunc extracts an incremental text delta from one JSON event
// payload. A payload without a delta yields NoDelta and a nil error; an error
// means the payload did not match the provider's schema.
type DecodeFunc func(payload []byte) (Delta, error)

// Delta is the result of decoding one event payload: either a text fragment
// or the explicit absence of one.
type Delta struct {
	text    string
	present bool
}

// NoDelta reports that an event carried no text.
var NoDelta = Delta{}

// TextDelta wraps a decoded text fragment.
func TextDelta(s string) Delta { return Delta{text: s, present: true} }

// Present reports whether the delta carries non-empty text.
func (d Delta) Present() bool { return d.present && d.text != "" }

// Text returns the fragment, or empty string for NoDelta.
func (d Delta) Text() string { return d.text }
