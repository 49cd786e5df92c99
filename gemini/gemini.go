// Package gemini builds the [relay.Provider] descriptor for the Google
// Gemini generateContent API in its server-sent-events mode.
//
// Request contents and streamed responses use the google.golang.org/genai
// wire types; transport is the shared relay orchestrator rather than the
// genai client, so Gemini streams go through the same framing and
// segmentation as every other provider.
package gemini

import (
	"github.com/fwojciec/relay"
	"google.golang.org/genai"
)

// ID is the provider identifier, as accepted by relay.Router.
const ID = "gemini-flash"

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.0-flash"
	failure        = "[Error contacting Gemini service]"
)

// DefaultSampling mirrors the generation config the app has always sent.
var DefaultSampling = relay.Sampling{
	Temperature: relay.Float(1),
	TopP:        relay.Float(1),
	MaxTokens:   1024,
}

// apiRequest is the JSON body sent to streamGenerateContent.
type apiRequest struct {
	Contents         []*genai.Content       `json:"contents"`
	GenerationConfig apiGenerationConfig    `json:"generationConfig"`
	SafetySettings   []*genai.SafetySetting `json:"safetySettings"`
}

type apiGenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}
