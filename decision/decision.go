// Package decision parses model free text into typed values. Every parse is
// total: ambiguous or malformed responses resolve to documented conservative
// defaults, never to an error surfaced to the caller.
package decision

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	numberedMarker = regexp.MustCompile(`^[1-9]\.`)
	numberRun      = regexp.MustCompile(`[0-9][0-9.]*`)
)

// ParseSearchTerms scans the response line by line for list markers (leading
// "-", "*" or "N.") and extracts the remainder of each line as a search term.
// When nothing parses it falls back to the query itself; collection never
// short-circuits on empty term extraction.
func ParseSearchTerms(response, query string) []string {
	var terms []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "*") && !numberedMarker.MatchString(line) {
			continue
		}
		term := line
		if idx := strings.Index(line, " "); idx >= 0 {
			term = strings.TrimSpace(line[idx+1:])
		}
		if term != "" {
			terms = append(terms, term)
		}
	}
	if len(terms) == 0 {
		return []string{query}
	}
	return terms
}

// Verdict is the accept/reject decision fused from heuristic checks and the
// model's judgment.
type Verdict struct {
	Verified   bool
	Confidence float64
	Rationale  string
}

// ParseVerdict extracts a verdict and confidence from a free-text decision.
// Rules, in order:
//   - a line containing "confidence" yields the first run of digits and
//     decimal points as the score, clamped to [0, 1]; 0.5 when extraction
//     fails
//   - the verdict is true only when the text carries an affirmative marker
//     ("verified: true", or "true" on a line mentioning "verified")
//   - an unusable response (blank text) forces the conservative outcome
//     verified=false, confidence=0.2
func ParseVerdict(response string) Verdict {
	if strings.TrimSpace(response) == "" {
		return Verdict{Verified: false, Confidence: 0.2, Rationale: "empty decision"}
	}

	v := Verdict{Confidence: 0.5}
	lower := strings.ToLower(response)
	lines := strings.Split(response, "\n")

	for _, line := range lines {
		if !strings.Contains(strings.ToLower(line), "confidence") {
			continue
		}
		if m := numberRun.FindString(line); m != "" {
			if f, err := strconv.ParseFloat(strings.Trim(m, "."), 64); err == nil {
				v.Confidence = min(max(f, 0), 1)
			}
		}
		break
	}

	if strings.Contains(lower, "verified: true") {
		v.Verified = true
	} else {
		for _, line := range lines {
			ll := strings.ToLower(line)
			if strings.Contains(ll, "verified") {
				v.Verified = strings.Contains(ll, "true")
				break
			}
		}
	}

	v.Rationale = extractRationale(lines)
	return v
}

func extractRationale(lines []string) string {
	for _, line := range lines {
		ll := strings.ToLower(line)
		if strings.Contains(ll, "explanation") || strings.Contains(ll, "rationale") {
			if _, rest, ok := strings.Cut(line, ":"); ok {
				return strings.TrimSpace(rest)
			}
		}
	}
	for _, line := range lines {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return ""
}
