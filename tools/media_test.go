package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestKindFor(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{"jpg", "image"},
		{"webp", "image"},
		{"mp4", "video"},
		{"mkv", "video"},
		{"mp3", "audio"},
		{"pdf", "other"},
	}
	for _, tt := range tests {
		if got := kindFor(tt.ext); got != tt.want {
			t.Errorf("kindFor(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestExtractMetadataTagsImages(t *testing.T) {
	dir := t.TempDir()
	store, err := NewMediaStore(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "photo.jpg")
	if err := os.WriteFile(path, []byte("not a real jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	meta, err := store.ExtractMetadata(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if meta["media_kind"] != "image" {
		t.Errorf("media_kind = %v", meta["media_kind"])
	}
	if meta["file_type"] != "jpg" {
		t.Errorf("file_type = %v", meta["file_type"])
	}
	if meta["file_size"] != int64(len("not a real jpeg")) {
		t.Errorf("file_size = %v", meta["file_size"])
	}
}
