package tools

import (
	"context"
	"testing"
)

func TestClassifySource(t *testing.T) {
	tests := []struct {
		source       string
		wantCategory string
		wantScore    float64
	}{
		{"BBC News", ReliabilityReliable, 0.9},
		{"Reuters", ReliabilityReliable, 0.9},
		{"The Guardian", ReliabilityReliable, 0.9},
		{"bbc", ReliabilityReliable, 0.9},
		{"FakeNewsDaily", ReliabilityUnreliable, 0.1},
		{"the StateMediaChannel feed", ReliabilityUnreliable, 0.1},
		{"Random Blog", ReliabilityUnknown, 0.5},
		{"", ReliabilityUnknown, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got := classifySource(tt.source)
			if got.Category != tt.wantCategory {
				t.Errorf("Category = %s, want %s", got.Category, tt.wantCategory)
			}
			if got.Score != tt.wantScore {
				t.Errorf("Score = %v, want %v", got.Score, tt.wantScore)
			}
		})
	}
}

func TestReliabilityCheckerWithoutCache(t *testing.T) {
	r := NewReliabilityChecker(nil)
	got, err := r.Check(context.Background(), "Amnesty International", "https://amnesty.org/x")
	if err != nil {
		t.Fatal(err)
	}
	if got.Category != ReliabilityReliable {
		t.Errorf("Category = %s", got.Category)
	}
}

func TestEarliestMatch(t *testing.T) {
	r := ReverseImageResult{Matches: []ImageMatch{
		{URL: "a", Date: "2024-06-01"},
		{URL: "b", Date: "2023-02-10"},
		{URL: "c", Date: ""},
		{URL: "d", Date: "2025-12-31"},
	}}
	got := r.EarliestMatch()
	if got == nil || got.URL != "b" {
		t.Errorf("EarliestMatch = %+v, want match b", got)
	}

	if (ReverseImageResult{}).EarliestMatch() != nil {
		t.Error("no matches should yield nil")
	}

	undated := ReverseImageResult{Matches: []ImageMatch{{URL: "x"}}}
	if undated.EarliestMatch() != nil {
		t.Error("undated matches should yield nil")
	}
}
