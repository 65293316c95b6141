// Package followup splits an assistant answer into the main text and the
// trailing FOLLOW_UP_SUGGESTIONS block the model is asked to emit.
package followup

import (
	"regexp"
	"strings"
)

const Marker = "FOLLOW_UP_SUGGESTIONS:"

var (
	markerRe   = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(Marker))
	numberedRe = regexp.MustCompile(`^\d+\.\s*`)
)

// Parse returns raw unchanged and no suggestions when the marker is absent.
// Otherwise main is the trimmed text before the first marker and suggestions
// are the numbered lines after it, in order, with the "N." prefix removed.
func Parse(raw string) (main string, suggestions []string) {
	loc := markerRe.FindStringIndex(raw)
	if loc == nil {
		return raw, []string{}
	}

	suggestions = []string{}
	for _, line := range strings.Split(raw[loc[1]:], "\n") {
		line = strings.TrimSpace(line)
		if !numberedRe.MatchString(line) {
			continue
		}
		if s := strings.TrimSpace(numberedRe.ReplaceAllString(line, "")); s != "" {
			suggestions = append(suggestions, s)
		}
	}
	return strings.TrimSpace(raw[:loc[0]]), suggestions
}
