package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ctrevinoi1/agent/agent"
	"github.com/ctrevinoi1/agent/config"
	"github.com/ctrevinoi1/agent/tools"
	"github.com/ctrevinoi1/agent/types"
)

type fakeCompleter struct {
	response string
	err      error
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []agent.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeWebSearch struct {
	results map[string][]tools.SearchResult
	queries []string
	err     error
}

func (f *fakeWebSearch) Search(ctx context.Context, query string, max int) ([]tools.SearchResult, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

type fakeSocialSearch struct {
	results map[string][]tools.SocialPost
	err     error
}

func (f *fakeSocialSearch) Search(ctx context.Context, query string, platforms []string, max int) ([]tools.SocialPost, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

type fakeMedia struct {
	downloadErr error
	downloads   []string
	kind        string
	frames      []string
	frameCalls  int
}

func (f *fakeMedia) Download(ctx context.Context, rawURL string) (string, string, error) {
	f.downloads = append(f.downloads, rawURL)
	if f.downloadErr != nil {
		return "", "", f.downloadErr
	}
	return "/data/media/file.jpg", "", nil
}

func (f *fakeMedia) ExtractMetadata(ctx context.Context, path string) (map[string]interface{}, error) {
	kind := f.kind
	if kind == "" {
		kind = "image"
	}
	return map[string]interface{}{"size_bytes": int64(1024), "media_kind": kind}, nil
}

func (f *fakeMedia) ExtractFrames(ctx context.Context, videoPath string, intervalSeconds int) ([]string, error) {
	f.frameCalls++
	return f.frames, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Platforms:           []string{"twitter"},
		MaxResultsPerSource: 5,
	}
}

func newTestCollector(t *testing.T, completer agent.Completer, ts Toolset) *Collector {
	t.Helper()
	c, err := New(completer, ts, nil, testConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestCollectOrderingAndIDs(t *testing.T) {
	web := &fakeWebSearch{results: map[string][]tools.SearchResult{
		"term one": {
			{Title: "A", URL: "https://example.org/a", Source: "BBC"},
			{Title: "B", URL: "https://example.org/b", Source: "Reuters"},
		},
		"term two": {
			{Title: "C", URL: "https://example.org/c", Source: "CNN"},
		},
	}}
	social := &fakeSocialSearch{results: map[string][]tools.SocialPost{
		"term one": {
			{Platform: "twitter", User: "witness1", URL: "https://social.example/1", Text: "saw it happen"},
		},
		"term two": {
			{Platform: "twitter", User: "witness2", URL: "https://social.example/2", Text: "more footage"},
		},
	}}

	c := newTestCollector(t, &fakeCompleter{response: "- term one\n- term two"},
		Toolset{Web: web, Social: social})

	items, err := c.Collect(context.Background(), "what happened")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	wantIDs := []string{"web_0", "web_1", "web_2", "social_3", "social_4"}
	if len(items) != len(wantIDs) {
		t.Fatalf("got %d items, want %d", len(items), len(wantIDs))
	}
	for i, want := range wantIDs {
		if items[i].ID != want {
			t.Errorf("items[%d].ID = %s, want %s", i, items[i].ID, want)
		}
	}

	// Web items come first, grouped by term order.
	if items[0].Title != "A" || items[1].Title != "B" || items[2].Title != "C" {
		t.Errorf("web ordering wrong: %s %s %s", items[0].Title, items[1].Title, items[2].Title)
	}
	if items[3].User != "witness1" || items[4].User != "witness2" {
		t.Errorf("social ordering wrong: %s %s", items[3].User, items[4].User)
	}
	if items[0].Kind != types.SourceWeb || items[3].Kind != types.SourceSocial {
		t.Error("source kinds wrong")
	}
	if items[0].SearchTerm != "term one" {
		t.Errorf("SearchTerm = %q", items[0].SearchTerm)
	}
}

func TestCollectTermFallbackOnCompleterError(t *testing.T) {
	web := &fakeWebSearch{results: map[string][]tools.SearchResult{}}
	c := newTestCollector(t, &fakeCompleter{err: errors.New("model down")},
		Toolset{Web: web, Social: &fakeSocialSearch{}})

	if _, err := c.Collect(context.Background(), "protest in capital"); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(web.queries) != 1 || web.queries[0] != "protest in capital" {
		t.Errorf("web queries = %v, want the raw query", web.queries)
	}
}

func TestCollectTermFallbackOnUnparsableResponse(t *testing.T) {
	web := &fakeWebSearch{results: map[string][]tools.SearchResult{}}
	c := newTestCollector(t, &fakeCompleter{response: "I cannot generate terms."},
		Toolset{Web: web, Social: &fakeSocialSearch{}})

	if _, err := c.Collect(context.Background(), "flood damage"); err != nil {
		t.Fatal(err)
	}
	if len(web.queries) != 1 || web.queries[0] != "flood damage" {
		t.Errorf("web queries = %v, want the raw query", web.queries)
	}
}

func TestCollectSearchFailureDoesNotAbort(t *testing.T) {
	web := &fakeWebSearch{err: errors.New("quota exceeded")}
	social := &fakeSocialSearch{results: map[string][]tools.SocialPost{
		"q": {{Platform: "reddit", URL: "https://social.example/p", Text: "post"}},
	}}
	c := newTestCollector(t, &fakeCompleter{response: "- q"}, Toolset{Web: web, Social: social})

	items, err := c.Collect(context.Background(), "q")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != "social_0" {
		t.Fatalf("items = %v, want one social item with id social_0", items)
	}
}

func TestCollectMediaDownloadFailureKeepsItem(t *testing.T) {
	media := &fakeMedia{downloadErr: errors.New("404")}
	social := &fakeSocialSearch{results: map[string][]tools.SocialPost{
		"q": {{
			Platform: "twitter",
			URL:      "https://social.example/1",
			Text:     "with media",
			MediaURL: "https://cdn.example/img.jpg",
		}},
	}}
	c := newTestCollector(t, &fakeCompleter{response: "- q"},
		Toolset{Web: &fakeWebSearch{}, Social: social, Media: media})

	items, err := c.Collect(context.Background(), "q")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Media != nil {
		t.Error("failed download should leave Media nil")
	}
	if _, ok := items[0].Metadata["media_download_error"]; !ok {
		t.Error("download error should be recorded in metadata")
	}
}

func TestCollectMediaDownloadSuccess(t *testing.T) {
	media := &fakeMedia{}
	social := &fakeSocialSearch{results: map[string][]tools.SocialPost{
		"q": {{
			Platform: "twitter",
			URL:      "https://social.example/1",
			Text:     "with media",
			MediaURL: "https://cdn.example/img.jpg",
		}},
	}}
	c := newTestCollector(t, &fakeCompleter{response: "- q"},
		Toolset{Web: &fakeWebSearch{}, Social: social, Media: media})

	items, err := c.Collect(context.Background(), "q")
	if err != nil {
		t.Fatal(err)
	}
	ref := items[0].Media
	if ref == nil {
		t.Fatal("Media should be set")
	}
	if ref.LocalPath != "/data/media/file.jpg" {
		t.Errorf("LocalPath = %q", ref.LocalPath)
	}
	if ref.Metadata["size_bytes"] != int64(1024) {
		t.Errorf("Metadata = %v", ref.Metadata)
	}
	if media.frameCalls != 0 {
		t.Error("frame extraction must be skipped for images")
	}
}

func TestCollectVideoMediaGetsFrames(t *testing.T) {
	media := &fakeMedia{
		kind:   "video",
		frames: []string{"/data/media/a_frame_001.jpg", "/data/media/a_frame_002.jpg"},
	}
	social := &fakeSocialSearch{results: map[string][]tools.SocialPost{
		"q": {{
			Platform: "twitter",
			URL:      "https://social.example/1",
			Text:     "clip",
			MediaURL: "https://cdn.example/clip.mp4",
		}},
	}}
	c := newTestCollector(t, &fakeCompleter{response: "- q"},
		Toolset{Web: &fakeWebSearch{}, Social: social, Media: media})

	items, err := c.Collect(context.Background(), "q")
	if err != nil {
		t.Fatal(err)
	}
	ref := items[0].Media
	if ref == nil {
		t.Fatal("Media should be set")
	}
	if media.frameCalls != 1 {
		t.Fatalf("frame extraction ran %d times", media.frameCalls)
	}
	if len(ref.Frames) != 2 {
		t.Errorf("Frames = %v", ref.Frames)
	}
}

func TestCollectRecordsMemory(t *testing.T) {
	c := newTestCollector(t, &fakeCompleter{response: "- q"},
		Toolset{Web: &fakeWebSearch{}, Social: &fakeSocialSearch{}})

	if _, err := c.Collect(context.Background(), "q"); err != nil {
		t.Fatal(err)
	}
	history := c.Agent().History()
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	if !strings.Contains(fmt.Sprint(history[0].Payload), "q") {
		t.Errorf("memory entry should mention the query: %v", history[0].Payload)
	}
}
