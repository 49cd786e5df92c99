package anthropic

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/fwojciec/relay"
	"github.com/tidwall/sjson"
)

// New returns the claude-sonnet provider.
func New(cfg relay.ProviderConfig) relay.Provider {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	sampling := cfg.Sampling.Merge(relay.Sampling{MaxTokens: defaultMaxTokens})
	apiKey := cfg.APIKey

	return relay.Provider{
		Name:     "anthropic",
		Endpoint: endpoint,
		Failure:  failure,
		Body: func(req relay.Request) (any, error) {
			return streamBody(buildParams(model, sampling, req))
		},
		Authorize: func(h http.Header) {
			h.Set("X-Api-Key", apiKey)
			h.Set("Anthropic-Version", apiVersion)
		},
		Decode: DecodeDelta,
	}
}

// buildParams lifts system messages into the top-level system block, which
// is where the Messages API expects them.
func buildParams(model string, s relay.Sampling, req relay.Request) sdk.MessageNewParams {
	var system []string
	msgs := make([]sdk.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case relay.RoleSystem:
			system = append(system, m.Content)
		case relay.RoleAssistant:
			msgs = append(msgs, sdk.NewAssistantMessage(sdk.NewTextBlock(m.Content)))
		default:
			msgs = append(msgs, sdk.NewUserMessage(sdk.NewTextBlock(m.Content)))
		}
	}
	if len(msgs) == 0 && req.Text != "" {
		msgs = append(msgs, sdk.NewUserMessage(sdk.NewTextBlock(req.Text)))
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(model),
		MaxTokens: int64(s.MaxTokens),
		Messages:  msgs,
	}
	if len(system) > 0 {
		params.System = []sdk.TextBlockParam{{Text: strings.Join(system, "\n\n")}}
	}
	if s.Temperature != nil {
		params.Temperature = sdk.Float(*s.Temperature)
	}
	if s.TopP != nil {
		params.TopP = sdk.Float(*s.TopP)
	}
	return params
}

// streamBody encodes params and sets the stream flag, which the SDK adds
// itself only on its own streaming transport.
func streamBody(params sdk.MessageNewParams) (json.RawMessage, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("anthropic: encode request: %w", err)
	}
	data, err = sjson.SetBytes(data, "stream", true)
	if err != nil {
		return nil, fmt.Errorf("anthropic: set stream flag: %w", err)
	}
	return data, nil
}

// DecodeDelta returns the text of content_block_delta events carrying a
// text_delta. Other event types yield relay.NoDelta; an error event yields
// an error.
func DecodeDelta(payload []byte) (relay.Delta, error) {
	var evt sdk.MessageStreamEventUnion
	if err := json.Unmarshal(payload, &evt); err != nil {
		return relay.NoDelta, fmt.Errorf("anthropic: decode event: %w", err)
	}
	if e, ok := evt.AsAny().(sdk.ContentBlockDeltaEvent); ok {
		if d, ok := e.Delta.AsAny().(sdk.TextDelta); ok {
			return relay.TextDelta(d.Text), nil
		}
		return relay.NoDelta, nil
	}
	if evt.Type != "error" {
		return relay.NoDelta, nil
	}
	var body streamError
	if err := json.Unmarshal(payload, &body); err != nil || body.Error == nil {
		return relay.NoDelta, fmt.Errorf("anthropic: error event")
	}
	return relay.NoDelta, fmt.Errorf("anthropic: %s: %s", body.Error.Type, body.Error.Message)
}
