package dedupe

import (
	"context"
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lowercases scheme and host",
			in:   "HTTPS://Example.ORG/Path",
			want: "https://example.org/Path",
		},
		{
			name: "drops fragment",
			in:   "https://example.org/a#section",
			want: "https://example.org/a",
		},
		{
			name: "strips tracking params",
			in:   "https://example.org/a?utm_source=x&utm_medium=y&id=7",
			want: "https://example.org/a?id=7",
		},
		{
			name: "strips fbclid and gclid",
			in:   "https://example.org/a?fbclid=abc&gclid=def",
			want: "https://example.org/a",
		},
		{
			name: "trims trailing slash",
			in:   "https://example.org/a/",
			want: "https://example.org/a",
		},
		{
			name: "unparsable input returned as-is",
			in:   "://not a url",
			want: "://not a url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeURL(tt.in); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHashURLStableAcrossVariants(t *testing.T) {
	a := HashURL("https://example.org/story?utm_source=feed")
	b := HashURL("HTTPS://EXAMPLE.org/story")
	if a != b {
		t.Error("tracking params and case should not change the hash")
	}
	if a == HashURL("https://example.org/other") {
		t.Error("different URLs should hash differently")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestNilFilterIsNoOp(t *testing.T) {
	var f *Filter
	ctx := context.Background()

	seen, err := f.Seen(ctx, "https://example.org/a")
	if err != nil || seen {
		t.Errorf("nil filter Seen = (%v, %v), want (false, nil)", seen, err)
	}
	if err := f.Record(ctx, "https://example.org/a"); err != nil {
		t.Errorf("nil filter Record = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Errorf("nil filter Close = %v", err)
	}
}
