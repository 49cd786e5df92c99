// Package sse frames a server-sent-events byte stream into lines and
// extracts data events from them.
//
// Only the `data: ` field is interpreted. Event names, ids, retry hints and
// comment lines are dropped without error, so heartbeats such as
// ":keep-alive" never reach the caller.
package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	dataPrefix = "data: "
	doneMarker = "[DONE]"
)

// ErrMalformedPayload indicates a data line whose payload is not JSON.
var ErrMalformedPayload = errors.New("malformed event payload")

// Event is a sealed interface for events extracted from one line.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// DataEvent carries one JSON payload.
type DataEvent struct {
	Payload json.RawMessage
}

func (DataEvent) event() {}

// DoneEvent is the `[DONE]` terminator.
type DoneEvent struct{}

func (DoneEvent) event() {}

// Interface compliance checks.
var (
	_ Event = DataEvent{}
	_ Event = DoneEvent{}
)

// Extract turns one complete line into an Event. Lines without the data
// prefix yield a nil Event and a nil error. A payload that is neither the
// terminator nor valid JSON yields an error wrapping ErrMalformedPayload.
func Extract(line string) (Event, error) {
	payload, ok := strings.CutPrefix(line, dataPrefix)
	if !ok {
		return nil, nil
	}
	if payload == doneMarker {
		return DoneEvent{}, nil
	}
	if !json.Valid([]byte(payload)) {
		return nil, fmt.Errorf("%w: %q", ErrMalformedPayload, truncate(payload, 120))
	}
	return DataEvent{Payload: json.RawMessage(payload)}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
