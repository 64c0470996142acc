package tools

import (
	"testing"

	"github.com/mmcdole/gofeed"
)

func TestMatchesTerms(t *testing.T) {
	item := &gofeed.Item{
		Title:       "Flooding displaces thousands in coastal region",
		Description: "Rescue operations continue after heavy rainfall.",
	}

	tests := []struct {
		name  string
		terms []string
		want  bool
	}{
		{"single term in title", []string{"flooding"}, true},
		{"term in description", []string{"rescue"}, true},
		{"all terms must match", []string{"flooding", "rescue"}, true},
		{"one missing term fails", []string{"flooding", "earthquake"}, false},
		{"no terms never matches", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesTerms(item, tt.terms); got != tt.want {
				t.Errorf("matchesTerms(%v) = %v, want %v", tt.terms, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("a long sentence here", 6); got != "a long..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("  padded  ", 20); got != "padded" {
		t.Errorf("truncate should trim: %q", got)
	}
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://cdn.example/photo.jpg", "jpg"},
		{"https://cdn.example/clip.MP4?token=abc", "mp4"},
		{"https://cdn.example/file", "jpg"},
		{"https://cdn.example/archive.tar.gz#frag", "gz"},
	}

	for _, tt := range tests {
		if got := extensionFor(tt.url); got != tt.want {
			t.Errorf("extensionFor(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
