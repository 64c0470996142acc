package tools

import (
	"regexp"
	"strings"
)

// PolicyResult is the outcome of a content policy check.
type PolicyResult struct {
	Allowed    bool     `json:"allowed"`
	Violations []string `json:"violations,omitempty"`
}

// PII patterns. Replacement tags are what AnonymizeText substitutes in.
var piiPatterns = []struct {
	re  *regexp.Regexp
	tag string
}{
	{regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`), "[EMAIL REDACTED]"},
	{regexp.MustCompile(`\+?\d[\d\s\-()]{8,}\d`), "[PHONE REDACTED]"},
	{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "[ID REDACTED]"},
	{regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`), "[IP REDACTED]"},
	{regexp.MustCompile(`@[A-Za-z0-9_]{2,}\b`), "[HANDLE REDACTED]"},
}

// Phrases that by themselves make content inadmissible for a report.
var graphicPhrases = []string{
	"graphic violence", "beheading", "dismember", "torture footage",
	"execution video", "gore",
}

// Patterns indicating operational security details that must not be
// republished.
var securityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)troop movement`),
	regexp.MustCompile(`(?i)military coordinates`),
	regexp.MustCompile(`(?i)safe house location`),
	regexp.MustCompile(`(?i)shelter location`),
	regexp.MustCompile(`(?i)evacuation route`),
}

// CheckContentPolicy scans text for graphic content and operational security
// details. PII is not a violation here since AnonymizeText removes it.
func CheckContentPolicy(text string) PolicyResult {
	result := PolicyResult{Allowed: true}
	lower := strings.ToLower(text)

	for _, phrase := range graphicPhrases {
		if strings.Contains(lower, phrase) {
			result.Violations = append(result.Violations, "graphic content: "+phrase)
		}
	}
	for _, re := range securityPatterns {
		if match := re.FindString(text); match != "" {
			result.Violations = append(result.Violations, "security-sensitive detail: "+strings.ToLower(match))
		}
	}

	result.Allowed = len(result.Violations) == 0
	return result
}

// AnonymizeText replaces personally identifying information with redaction
// tags. Applied to every report before release.
func AnonymizeText(text string) string {
	for _, p := range piiPatterns {
		text = p.re.ReplaceAllString(text, p.tag)
	}
	return text
}
