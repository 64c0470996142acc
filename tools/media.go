package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/ctrevinoi1/agent/storage"
)

var extensionRe = regexp.MustCompile(`[^a-zA-Z0-9]`)

var (
	imageExts = map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true}
	videoExts = map[string]bool{"mp4": true, "mov": true, "avi": true, "webm": true, "mkv": true}
	audioExts = map[string]bool{"mp3": true, "wav": true, "ogg": true}
)

// MediaStore downloads media referenced by evidence, extracts metadata from
// it, and optionally copies it to the S3 archive.
type MediaStore struct {
	dir     string
	client  *http.Client
	archive *storage.Archive // optional
}

// NewMediaStore creates the store, ensuring the media directory exists.
// archive may be nil.
func NewMediaStore(dir string, archive *storage.Archive) (*MediaStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media dir %s: %w", dir, err)
	}
	return &MediaStore{
		dir:     dir,
		client:  &http.Client{Timeout: 60 * time.Second},
		archive: archive,
	}, nil
}

// Download fetches media from the URL into the media directory under a unique
// filename and returns the local path. Archive upload failures are logged,
// not propagated: the local copy is the working one.
func (m *MediaStore) Download(ctx context.Context, rawURL string) (localPath, archiveKey string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("download %s: status %d", rawURL, resp.StatusCode)
	}

	ext := extensionFor(rawURL)
	name := uuid.New().String() + "." + ext
	localPath = filepath.Join(m.dir, name)

	f, err := os.Create(localPath)
	if err != nil {
		return "", "", err
	}
	_, copyErr := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if copyErr != nil {
		os.Remove(localPath)
		return "", "", fmt.Errorf("download %s: %w", rawURL, copyErr)
	}
	if closeErr != nil {
		return "", "", closeErr
	}

	if m.archive != nil {
		key, err := m.archive.Store(ctx, localPath, resp.Header.Get("Content-Type"))
		if err != nil {
			log.Printf("media archive upload failed for %s: %v", localPath, err)
		} else {
			archiveKey = key
		}
	}
	return localPath, archiveKey, nil
}

// ExtractMetadata reads what metadata it can from a media file: file facts
// for everything, plus ffprobe stream data for video and audio.
func (m *MediaStore) ExtractMetadata(ctx context.Context, path string) (map[string]interface{}, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	metadata := map[string]interface{}{
		"filename":       filepath.Base(path),
		"file_size":      info.Size(),
		"file_type":      ext,
		"media_kind":     kindFor(ext),
		"extracted_date": time.Now().Format(time.RFC3339),
	}

	if videoExts[ext] || audioExts[ext] {
		probe, err := ffmpeg.Probe(path)
		if err != nil {
			// Keep the file facts; callers treat partial metadata as valid.
			log.Printf("ffprobe %s: %v", path, err)
			return metadata, nil
		}
		var probed map[string]interface{}
		if err := json.Unmarshal([]byte(probe), &probed); err == nil {
			if format, ok := probed["format"].(map[string]interface{}); ok {
				metadata["duration"] = format["duration"]
				metadata["bit_rate"] = format["bit_rate"]
			}
			if streams, ok := probed["streams"].([]interface{}); ok {
				metadata["stream_count"] = len(streams)
			}
		}
	}
	return metadata, nil
}

// ExtractFrames pulls one frame every intervalSeconds from a video into the
// media directory and returns the frame paths in order.
func (m *MediaStore) ExtractFrames(ctx context.Context, videoPath string, intervalSeconds int) ([]string, error) {
	if intervalSeconds <= 0 {
		intervalSeconds = 5
	}
	base := uuid.New().String()
	pattern := filepath.Join(m.dir, base+"_frame_%03d.jpg")

	err := ffmpeg.Input(videoPath).
		Output(pattern, ffmpeg.KwArgs{
			"vf":  fmt.Sprintf("fps=1/%d", intervalSeconds),
			"q:v": "2",
		}).
		OverWriteOutput().
		Run()
	if err != nil {
		return nil, fmt.Errorf("frame extraction %s: %w", videoPath, err)
	}

	frames, err := filepath.Glob(filepath.Join(m.dir, base+"_frame_*.jpg"))
	if err != nil {
		return nil, err
	}
	return frames, nil
}

func kindFor(ext string) string {
	switch {
	case imageExts[ext]:
		return "image"
	case videoExts[ext]:
		return "video"
	case audioExts[ext]:
		return "audio"
	default:
		return "other"
	}
}

func extensionFor(rawURL string) string {
	ext := "jpg"
	last := rawURL
	if idx := strings.LastIndex(rawURL, "/"); idx >= 0 {
		last = rawURL[idx+1:]
	}
	if idx := strings.LastIndex(last, "."); idx >= 0 {
		ext = last[idx+1:]
	}
	if idx := strings.IndexAny(ext, "?#"); idx >= 0 {
		ext = ext[:idx]
	}
	ext = extensionRe.ReplaceAllString(ext, "")
	if ext == "" {
		ext = "jpg"
	}
	return strings.ToLower(ext)
}
