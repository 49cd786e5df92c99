package relay

// Request carries one user turn and the conversation it belongs to.
// Text is the raw user input; providers that build a single prompt fall back
// to it when Messages holds no user message.
type Request struct {
	Text     string
	Messages []Message
}

// Sampling holds generation parameters. Nil pointers and zero values mean
// the field is left out of the upstream request.
type Sampling struct {
	Temperature      *float64 `yaml:"temperature,omitempty"`
	TopP             *float64 `yaml:"top_p,omitempty"`
	MaxTokens        int      `yaml:"max_tokens,omitempty"`
	N                int      `yaml:"n,omitempty"`
	PresencePenalty  *float64 `yaml:"presence_penalty,omitempty"`
	FrequencyPenalty *float64 `yaml:"frequency_penalty,omitempty"`
	Store            *bool    `yaml:"store,omitempty"`
}

// Merge returns s with every unset field taken from defaults.
func (s Sampling) Merge(defaults Sampling) Sampling {
	if s.Temperature == nil {
		s.Temperature = defaults.Temperature
	}
	if s.TopP == nil {
		s.TopP = defaults.TopP
	}
	if s.MaxTokens == 0 {
		s.MaxTokens = defaults.MaxTokens
	}
	if s.N == 0 {
		s.N = defaults.N
	}
	if s.PresencePenalty == nil {
		s.PresencePenalty = defaults.PresencePenalty
	}
	if s.FrequencyPenalty == nil {
		s.FrequencyPenalty = defaults.FrequencyPenalty
	}
	if s.Store == nil {
		s.Store = defaults.Store
	}
	return s
}

// ProviderConfig is the explicit configuration handed to a provider
// constructor. Empty fields select the provider's defaults.
type ProviderConfig struct {
	Endpoint string   `yaml:"endpoint,omitempty"`
	APIKey   string   `yaml:"api_key,omitempty"`
	Model    string   `yaml:"model,omitempty"`
	Sampling Sampling `yaml:"sampling,omitempty"`
}

// Float returns a pointer to v. Handy for Sampling literals.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
