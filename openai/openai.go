// Package openai builds [relay.Provider] descriptors for OpenAI-compatible
// chat completion APIs: DeepSeek, Nebius AI Studio and OpenAI itself.
//
// All three share one wire schema. Request bodies carry go-openai's
// ChatCompletionMessage and each streamed event is decoded as a
// ChatCompletionStreamResponse, reading choices[0].delta.content.
package openai

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fwojciec/relay"
	gopenai "github.com/sashabaranov/go-openai"
)

// Provider identifiers, as accepted by relay.Router.
const (
	DeepSeekID = "deepseek-chat"
	NebiusID   = "nebius-studio"
	OpenAIID   = "gpt-4o-mini"
)

// Preset holds the defaults of one OpenAI-compatible upstream.
type Preset struct {
	Name     string
	Endpoint string
	Model    string
	Failure  string
	Sampling relay.Sampling
}

// Defaults for the supported upstreams.
var (
	DeepSeekPreset = Preset{
		Name:     "deepseek",
		Endpoint: "https://api.deepseek.com/chat/completions",
		Model:    "deepseek-chat",
		Failure:  "[Error contacting AI service]",
		Sampling: relay.Sampling{Temperature: relay.Float(0.7)},
	}
	NebiusPreset = Preset{
		Name:     "nebius",
		Endpoint: "https://api.studio.nebius.com/v1/chat/completions",
		Model:    "deepseek-ai/DeepSeek-V3-0324",
		Failure:  "[Error contacting Nebius service]",
		Sampling: relay.Sampling{
			MaxTokens:        1024,
			Temperature:      relay.Float(1),
			TopP:             relay.Float(1),
			N:                1,
			PresencePenalty:  relay.Float(0),
			FrequencyPenalty: relay.Float(0),
			Store:            relay.Bool(false),
		},
	}
	OpenAIPreset = Preset{
		Name:     "openai",
		Endpoint: "https://api.openai.com/v1/chat/completions",
		Model:    "gpt-4o-mini",
		Failure:  "[Error contacting OpenAI service]",
		Sampling: relay.Sampling{Store: relay.Bool(true)},
	}
)

// DeepSeek returns the deepseek-chat provider.
func DeepSeek(cfg relay.ProviderConfig) relay.Provider { return New(DeepSeekPreset, cfg) }

// Nebius returns the nebius-studio provider.
func Nebius(cfg relay.ProviderConfig) relay.Provider { return New(NebiusPreset, cfg) }

// OpenAI returns the gpt-4o-mini provider.
func OpenAI(cfg relay.ProviderConfig) relay.Provider { return New(OpenAIPreset, cfg) }

// New returns a provider for any OpenAI-compatible endpoint. Fields set in
// cfg override the preset.
func New(preset Preset, cfg relay.ProviderConfig) relay.Provider {
	endpoint := preset.Endpoint
	if cfg.Endpoint != "" {
		endpoint = cfg.Endpoint
	}
	model := preset.Model
	if cfg.Model != "" {
		model = cfg.Model
	}
	sampling := cfg.Sampling.Merge(preset.Sampling)
	apiKey := cfg.APIKey

	return relay.Provider{
		Name:     preset.Name,
		Endpoint: endpoint,
		Failure:  preset.Failure,
		Body: func(req relay.Request) (any, error) {
			return BuildRequest(model, sampling, req), nil
		},
		Authorize: func(h http.Header) {
			h.Set("Authorization", "Bearer "+apiKey)
		},
		Decode: DecodeDelta,
	}
}

// ChatRequest is the streaming chat completion body. Sampling fields are
// pointers so that an explicit zero, such as temperature 0 or store false,
// is sent rather than dropped.
type ChatRequest struct {
	Model            string                          `json:"model"`
	Messages         []gopenai.ChatCompletionMessage `json:"messages"`
	Stream           bool                            `json:"stream"`
	MaxTokens        int                             `json:"max_tokens,omitempty"`
	N                int                             `json:"n,omitempty"`
	Temperature      *float64                        `json:"temperature,omitempty"`
	TopP             *float64                        `json:"top_p,omitempty"`
	PresencePenalty  *float64                        `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64                        `json:"frequency_penalty,omitempty"`
	Store            *bool                           `json:"store,omitempty"`
}

// BuildRequest converts a relay request into a streaming chat completion
// request. The full message list is sent.
func BuildRequest(model string, s relay.Sampling, req relay.Request) ChatRequest {
	msgs := make([]gopenai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = gopenai.ChatCompletionMessage{
			Role:    convertRole(m.Role),
			Content: m.Content,
		}
	}
	return ChatRequest{
		Model:            model,
		Messages:         msgs,
		Stream:           true,
		MaxTokens:        s.MaxTokens,
		N:                s.N,
		Temperature:      s.Temperature,
		TopP:             s.TopP,
		PresencePenalty:  s.PresencePenalty,
		FrequencyPenalty: s.FrequencyPenalty,
		Store:            s.Store,
	}
}

func convertRole(r relay.Role) string {
	switch r {
	case relay.RoleSystem:
		return gopenai.ChatMessageRoleSystem
	case relay.RoleAssistant:
		return gopenai.ChatMessageRoleAssistant
	default:
		return gopenai.ChatMessageRoleUser
	}
}

// DecodeDelta reads choices[0].delta.content from one stream chunk. A chunk
// without choices or without content yields relay.NoDelta.
func DecodeDelta(payload []byte) (relay.Delta, error) {
	var chunk gopenai.ChatCompletionStreamResponse
	if err := json.Unmarshal(payload, &chunk); err != nil {
		return relay.NoDelta, fmt.Errorf("openai: decode chunk: %w", err)
	}
	if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
		return relay.NoDelta, nil
	}
	return relay.TextDelta(chunk.Choices[0].Delta.Content), nil
}
