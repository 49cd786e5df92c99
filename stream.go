package relay

// StreamState indicates the lifecycle stage of one Stream invocation.
type StreamState int

const (
	StreamStateInit       StreamState = iota // Request not yet answered.
	StreamStateReading                       // Consuming the response body.
	StreamStateTerminated                    // Final notification sent after a terminator or end of input.
	StreamStateFailed                        // Final notification sent with the failure sentinel.
)

// String returns a lowercase name for logs.
func (s StreamState) String() string {
	switch s {
	case StreamStateInit:
		return "init"
	case StreamStateReading:
		return "reading"
	case StreamStateTerminated:
		return "terminated"
	case StreamStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ProgressFunc receives the current answer and reasoning after every
// non-empty delta, and once more with final set to true. It is called
// synchronously from the reading goroutine and must not block for long.
type ProgressFunc func(answer, reasoning string, final bool)
