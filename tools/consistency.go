package tools

import (
	"fmt"
	"regexp"
	"time"

	"github.com/ctrevinoi1/agent/types"
)

// Consistency verdicts for evidence metadata.
const (
	ConsistencyConsistent          = "consistent"
	ConsistencyPartiallyConsistent = "partially_consistent"
	ConsistencyInconsistent        = "inconsistent"
)

// ConsistencyResult aggregates the individual metadata checks on an item.
type ConsistencyResult struct {
	Result     string   `json:"result"`
	Confidence float64  `json:"confidence"`
	Checks     []string `json:"checks"`
}

var urlSchemeRe = regexp.MustCompile(`^https?://`)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CheckMetadataConsistency runs the deterministic metadata checks on an
// evidence item: timestamp plausibility, URL shape and media metadata
// presence. Any hard failure makes the item inconsistent; warnings alone
// make it partially consistent.
func CheckMetadataConsistency(item *types.EvidenceItem, now time.Time) ConsistencyResult {
	var checks []string
	fails := 0
	warnings := 0

	// An absent timestamp skips the check; only present timestamps can fail.
	if item.Timestamp == "" {
		checks = append(checks, "timestamp: absent, skipped")
	} else if ts, ok := parseTimestamp(item.Timestamp); !ok {
		fails++
		checks = append(checks, fmt.Sprintf("timestamp: unparsable (%s)", item.Timestamp))
	} else if ts.After(now) {
		fails++
		checks = append(checks, "timestamp: in the future")
	} else if now.Sub(ts) > 365*24*time.Hour {
		warnings++
		checks = append(checks, "timestamp: older than one year")
	} else {
		checks = append(checks, "timestamp: plausible")
	}

	if !urlSchemeRe.MatchString(item.URL) {
		fails++
		checks = append(checks, "url: not a valid http(s) URL")
	} else {
		checks = append(checks, "url: well-formed")
	}

	if item.Media != nil {
		if len(item.Media.Metadata) == 0 {
			warnings++
			checks = append(checks, "media: metadata missing")
		} else {
			checks = append(checks, "media: metadata present")
		}
	}

	result := ConsistencyResult{Checks: checks}
	switch {
	case fails > 0:
		result.Result = ConsistencyInconsistent
		result.Confidence = 0.3
	case warnings > 0:
		result.Result = ConsistencyPartiallyConsistent
		result.Confidence = 0.7
	default:
		result.Result = ConsistencyConsistent
		result.Confidence = 0.9
	}
	return result
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
