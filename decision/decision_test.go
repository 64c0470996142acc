package decision

import (
	"reflect"
	"testing"
)

func TestParseSearchTerms(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []string
	}{
		{
			name:     "dash markers",
			response: "Here are terms:\n- airstrike aleppo 2024\n- hospital damage report",
			want:     []string{"airstrike aleppo 2024", "hospital damage report"},
		},
		{
			name:     "numbered markers",
			response: "1. protest footage\n2. police response\n3. eyewitness accounts",
			want:     []string{"protest footage", "police response", "eyewitness accounts"},
		},
		{
			name:     "star markers",
			response: "* flood damage\n* rescue operations",
			want:     []string{"flood damage", "rescue operations"},
		},
		{
			name:     "mixed with prose",
			response: "I suggest the following searches.\n- primary term\nSome commentary.\n2. secondary term",
			want:     []string{"primary term", "secondary term"},
		},
		{
			name:     "no markers falls back to query",
			response: "I cannot help with generating terms.",
			want:     []string{"the original query"},
		},
		{
			name:     "empty response falls back to query",
			response: "",
			want:     []string{"the original query"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSearchTerms(tt.response, "the original query")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSearchTerms() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name           string
		response       string
		wantVerified   bool
		wantConfidence float64
	}{
		{
			name:           "well formed accept",
			response:       "verified: true\nconfidence: 0.85\nexplanation: corroborated by two reliable sources",
			wantVerified:   true,
			wantConfidence: 0.85,
		},
		{
			name:           "well formed reject",
			response:       "verified: false\nconfidence: 0.3",
			wantVerified:   false,
			wantConfidence: 0.3,
		},
		{
			name:           "missing confidence defaults to half",
			response:       "verified: true\nthe item checks out",
			wantVerified:   true,
			wantConfidence: 0.5,
		},
		{
			name:           "loose phrasing on verified line",
			response:       "The item is Verified: TRUE overall.\nConfidence: 0.72",
			wantVerified:   true,
			wantConfidence: 0.72,
		},
		{
			name:           "percent style confidence clamps to one",
			response:       "verified: true\nconfidence: 85",
			wantVerified:   true,
			wantConfidence: 1,
		},
		{
			name:           "empty response is conservative",
			response:       "",
			wantVerified:   false,
			wantConfidence: 0.2,
		},
		{
			name:           "whitespace only is conservative",
			response:       "  \n\t ",
			wantVerified:   false,
			wantConfidence: 0.2,
		},
		{
			name:           "no verdict markers rejects",
			response:       "This looks plausible but I cannot be sure.",
			wantVerified:   false,
			wantConfidence: 0.5,
		},
		{
			name:           "trailing period stripped from score",
			response:       "verified: true\nconfidence: 0.9.",
			wantVerified:   true,
			wantConfidence: 0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseVerdict(tt.response)
			if got.Verified != tt.wantVerified {
				t.Errorf("Verified = %v, want %v", got.Verified, tt.wantVerified)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestParseVerdictRationale(t *testing.T) {
	v := ParseVerdict("verified: false\nconfidence: 0.4\nexplanation: source could not be corroborated")
	if v.Rationale != "source could not be corroborated" {
		t.Errorf("Rationale = %q", v.Rationale)
	}

	v = ParseVerdict("verified: true")
	if v.Rationale != "verified: true" {
		t.Errorf("fallback Rationale = %q", v.Rationale)
	}
}
