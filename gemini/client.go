package gemini

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fwojciec/relay"
	"google.golang.org/genai"
)

// New returns the gemini-flash provider. cfg.Endpoint, when set, replaces
// the whole URL; otherwise it is derived from cfg.Model.
func New(cfg relay.ProviderConfig) relay.Provider {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/v1beta/models/%s:streamGenerateContent?alt=sse", defaultBaseURL, model)
	}
	sampling := cfg.Sampling.Merge(DefaultSampling)
	apiKey := cfg.APIKey

	return relay.Provider{
		Name:     "gemini",
		Endpoint: endpoint,
		Failure:  failure,
		Body: func(req relay.Request) (any, error) {
			return buildRequest(sampling, req), nil
		},
		Authorize: func(h http.Header) {
			h.Set("X-Goog-Api-Key", apiKey)
		},
		Decode: DecodeDelta,
	}
}

func buildRequest(s relay.Sampling, req relay.Request) apiRequest {
	return apiRequest{
		Contents: []*genai.Content{{
			Parts: []*genai.Part{{Text: Prompt(req)}},
		}},
		GenerationConfig: apiGenerationConfig{
			Temperature:     s.Temperature,
			TopP:            s.TopP,
			MaxOutputTokens: s.MaxTokens,
		},
		SafetySettings: []*genai.SafetySetting{},
	}
}

// Prompt flattens a request into the single prompt Gemini receives: the
// first system message, a blank line, then the last user message (or
// req.Text when there is none). Earlier turns are not sent.
//
// TODO: send the full history as alternating contents once product decides
// whether Gemini conversations should be multi-turn.
func Prompt(req relay.Request) string {
	system := relay.SystemContent(req.Messages)
	last := relay.LastUserContent(req.Messages, req.Text)
	return system + "\n\nUser: " + last
}

// DecodeDelta reads candidates[0].content.parts[0].text from one streamed
// response. Any missing link in that path yields relay.NoDelta.
func DecodeDelta(payload []byte) (relay.Delta, error) {
	var resp genai.GenerateContentResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return relay.NoDelta, fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return relay.NoDelta, nil
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return relay.NoDelta, nil
	}
	content := cand.Content
	if len(content.Parts) == 0 || content.Parts[0] == nil {
		return relay.NoDelta, nil
	}
	if content.Parts[0].Text == "" {
		return relay.NoDelta, nil
	}
	return relay.TextDelta(content.Parts[0].Text), nil
}
