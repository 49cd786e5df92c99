// Package anthropic builds the [relay.Provider] descriptor for the
// Anthropic Messages API.
//
// The Messages API streams typed events (message_start, content_block_delta,
// message_stop, ...) instead of OpenAI-style chunks and never sends a
// `[DONE]` line; the stream simply ends after message_stop, which the relay
// orchestrator treats as an implicit terminator.
//
// Request bodies and streamed events use the wire types of
// anthropic-sdk-go. Transport stays with relay.Client.
package anthropic

const (
	// ID is the provider identifier, as accepted by relay.Router.
	ID = "claude-sonnet"

	defaultEndpoint  = "https://api.anthropic.com/v1/messages"
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 1024
	apiVersion       = "2023-06-01"
	failure          = "[Error contacting Anthropic service]"
)

// streamError is the body of an `error` event. The SDK's event union has no
// member for it, since its own stream reader handles errors out of band.
type streamError struct {
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
