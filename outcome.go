package relay

// Status classifies how a stream invocation ended.
type Status string

const (
	StatusComplete        Status = "complete"
	StatusFailed          Status = "failed"
	StatusAborted         Status = "aborted"
	StatusUnknownProvider Status = "unknown_provider"
)

// Sentinel content returned for an unregistered provider identifier.
const (
	UnknownModelContent   = "[Unknown model]"
	UnknownModelReasoning = "[No reasoning]"
)

// Outcome is the result of one stream invocation. It is built once, at the
// single finalization point, and never mutated afterwards.
type Outcome struct {
	Content   string
	Reasoning string
	Status    Status

	// Err is the transport cause for failed and aborted outcomes.
	Err error
}

// OK reports whether the stream completed normally.
func (o Outcome) OK() bool { return o.Status == StatusComplete }
