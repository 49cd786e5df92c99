package relay

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values. A negative
// index means no color.
type Theme struct {
	Reasoning int // Reasoning preamble text
	Answer    int // Answer body
	Error     int // Failure sentinels
	Muted     int // Status lines, provider labels
	Accent    int // Headings, links
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Reasoning: 8,
		Answer:    -1,
		Error:     1,
		Muted:     8,
		Accent:    5,
	}
}
