package relay

import (
	"regexp"
	"strings"
)

// Segmented is the reasoning/answer split of an accumulated response.
type Segmented struct {
	Reasoning string
	Answer    string
}

// markerPair matches one language's reasoning heading, then, after a line
// break, its answer heading running to the end of the text.
func markerPair(reasoningHeading, answerHeading string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)` + regexp.QuoteMeta(reasoningHeading) +
		`(.*?)\n` + regexp.QuoteMeta(answerHeading) + `(.*)`)
}

// markers lists the heading conventions in match priority order.
var markers = []*regexp.Regexp{
	markerPair("**分析过程：**", "**回答：**"),
	markerPair("**Analysis Process:**", "**Answer:**"),
}

// Segment splits fullText into reasoning and answer. It is a pure function
// of its argument and is recomputed from scratch on every update, since a
// heading can only be located once enough trailing text has arrived.
//
// The answer section needs no closing delimiter, so a response streamed
// mid-sentence still segments. Unless a complete heading pair is present,
// the whole trimmed text is the answer, even when it carries a lone answer
// heading.
func Segment(fullText string) Segmented {
	for _, m := range markers {
		if sub := m.FindStringSubmatch(fullText); sub != nil {
			return Segmented{
				Reasoning: strings.TrimSpace(sub[1]),
				Answer:    strings.TrimSpace(sub[2]),
			}
		}
	}
	return Segmented{Answer: strings.TrimSpace(fullText)}
}
