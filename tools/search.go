// Package tools implements the external capabilities the pipeline agents
// invoke: search backends, media handling, verification heuristics and
// content moderation. Each capability may fail independently per call; the
// callers contain failures at the smallest scope.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// SearchResult is one hit from a web or news search.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
	Date    string `json:"date,omitempty"`
}

// SocialPost is one hit from a social media search.
type SocialPost struct {
	Platform string `json:"platform"`
	User     string `json:"user"`
	URL      string `json:"url"`
	Text     string `json:"text"`
	Date     string `json:"date,omitempty"`
	MediaURL string `json:"media_url,omitempty"`
	Likes    int    `json:"likes"`
	Shares   int    `json:"shares"`
	Comments int    `json:"comments"`
}

// WebSearcher runs queries against Google Custom Search.
type WebSearcher struct {
	apiKey   string
	engineID string
}

// NewWebSearcher creates a web search capability bound to a Custom Search
// engine.
func NewWebSearcher(apiKey, engineID string) *WebSearcher {
	return &WebSearcher{apiKey: apiKey, engineID: engineID}
}

// Search returns up to max results for the query.
func (w *WebSearcher) Search(ctx context.Context, query string, max int) ([]SearchResult, error) {
	if w.apiKey == "" || w.engineID == "" {
		return nil, fmt.Errorf("web search not configured (GOOGLE_API_KEY / GOOGLE_CSE_ID)")
	}
	if max <= 0 {
		max = 5
	}
	if max > 10 {
		max = 10 // CSE page limit
	}

	svc, err := customsearch.NewService(ctx, option.WithAPIKey(w.apiKey))
	if err != nil {
		return nil, fmt.Errorf("custom search service: %w", err)
	}

	resp, err := svc.Cse.List().Cx(w.engineID).Q(query).Num(int64(max)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("web search %q: %w", query, err)
	}

	results := make([]SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, SearchResult{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
			Source:  item.DisplayLink,
		})
	}
	return results, nil
}

// SocialSearcher queries an external social media search backend over HTTP.
// The backend answers GET {base}/search?q=...&platforms=a,b&limit=n with a
// JSON array of SocialPost.
type SocialSearcher struct {
	baseURL string
	client  *http.Client
}

// NewSocialSearcher creates a social search capability against the given
// backend base URL.
func NewSocialSearcher(baseURL string) *SocialSearcher {
	return &SocialSearcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Search returns up to max posts for the query across the given platforms.
func (s *SocialSearcher) Search(ctx context.Context, query string, platforms []string, max int) ([]SocialPost, error) {
	if s.baseURL == "" {
		return nil, fmt.Errorf("social search not configured (SOCIAL_SEARCH_URL)")
	}
	if max <= 0 {
		max = 5
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(max))
	if len(platforms) > 0 {
		q.Set("platforms", strings.Join(platforms, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("social search %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("social search %q: backend returned %d", query, resp.StatusCode)
	}

	var posts []SocialPost
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, fmt.Errorf("social search %q: decode: %w", query, err)
	}
	if len(posts) > max {
		posts = posts[:max]
	}
	return posts, nil
}
