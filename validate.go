package relay

import "fmt"

// Validate checks universal constraints on Sampling.
// Providers may still reject values the upstream API does not accept.
func (s Sampling) Validate() error {
	if s.Temperature != nil {
		if *s.Temperature < 0 || *s.Temperature > 2 {
			return fmt.Errorf("temperature must be in [0, 2], got %g: %w", *s.Temperature, ErrValidation)
		}
	}
	if s.TopP != nil {
		if *s.TopP < 0 || *s.TopP > 1 {
			return fmt.Errorf("top_p must be in [0, 1], got %g: %w", *s.TopP, ErrValidation)
		}
	}
	if s.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative, got %d: %w", s.MaxTokens, ErrValidation)
	}
	if s.N < 0 {
		return fmt.Errorf("n must be non-negative, got %d: %w", s.N, ErrValidation)
	}
	for name, p := range map[string]*float64{
		"presence_penalty":  s.PresencePenalty,
		"frequency_penalty": s.FrequencyPenalty,
	} {
		if p != nil && (*p < -2 || *p > 2) {
			return fmt.Errorf("%s must be in [-2, 2], got %g: %w", name, *p, ErrValidation)
		}
	}
	return nil
}

// ValidateMessage checks that a message carries a known role.
func ValidateMessage(msg Message) error {
	switch msg.Role {
	case RoleSystem, RoleUser, RoleAssistant:
		return nil
	default:
		return fmt.Errorf("unknown role %q: %w", msg.Role, ErrValidation)
	}
}

// Validate checks every message in the request.
func (r Request) Validate() error {
	for i, m := range r.Messages {
		if err := ValidateMessage(m); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
	}
	return nil
}
