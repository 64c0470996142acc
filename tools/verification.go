package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Reliability categories for evidence sources.
const (
	ReliabilityReliable   = "reliable"
	ReliabilityUnreliable = "unreliable"
	ReliabilityUnknown    = "unknown"
)

// ReliabilityResult classifies a source.
type ReliabilityResult struct {
	SourceName string  `json:"source_name"`
	Category   string  `json:"reliability"`
	Score      float64 `json:"score"`
}

// Known source lists. Matching is case-insensitive substring over the source
// name, unreliable taking precedence over reliable.
var (
	reliableSources = []string{
		"BBC", "Reuters", "Associated Press", "Al Jazeera", "The Guardian",
		"CNN", "Human Rights Watch", "Amnesty International", "New York Times",
	}
	unreliableSources = []string{
		"FakeNewsDaily", "ConspiracyTruth", "PropagandaNet", "StateMediaChannel",
	}
)

// ReliabilityChecker classifies sources against the known lists, caching
// verdicts in Redis when a client is configured.
type ReliabilityChecker struct {
	cache    *redis.Client // optional
	cacheTTL time.Duration
}

// NewReliabilityChecker creates the checker. cache may be nil.
func NewReliabilityChecker(cache *redis.Client) *ReliabilityChecker {
	return &ReliabilityChecker{cache: cache, cacheTTL: 24 * time.Hour}
}

// Check classifies the source. A cache failure is logged and the
// classification proceeds uncached.
func (r *ReliabilityChecker) Check(ctx context.Context, sourceName, url string) (ReliabilityResult, error) {
	key := "osint:reliability:" + strings.ToLower(strings.TrimSpace(sourceName))

	if r.cache != nil {
		if raw, err := r.cache.Get(ctx, key).Result(); err == nil {
			var cached ReliabilityResult
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			log.Printf("reliability cache get %s: %v", key, err)
		}
	}

	result := classifySource(sourceName)

	if r.cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			if err := r.cache.Set(ctx, key, raw, r.cacheTTL).Err(); err != nil {
				log.Printf("reliability cache set %s: %v", key, err)
			}
		}
	}
	return result, nil
}

func classifySource(sourceName string) ReliabilityResult {
	lower := strings.ToLower(sourceName)
	result := ReliabilityResult{
		SourceName: sourceName,
		Category:   ReliabilityUnknown,
		Score:      0.5,
	}
	for _, s := range unreliableSources {
		if strings.Contains(lower, strings.ToLower(s)) {
			result.Category = ReliabilityUnreliable
			result.Score = 0.1
			return result
		}
	}
	for _, s := range reliableSources {
		if strings.Contains(lower, strings.ToLower(s)) {
			result.Category = ReliabilityReliable
			result.Score = 0.9
			return result
		}
	}
	return result
}

// ImageMatch is one hit from a reverse image search.
type ImageMatch struct {
	URL        string  `json:"url"`
	Source     string  `json:"source"`
	Date       string  `json:"date"` // YYYY-MM-DD
	Similarity float64 `json:"similarity"`
	ExactMatch bool    `json:"is_exact_match"`
}

// ReverseImageResult carries all matches found for a query image.
type ReverseImageResult struct {
	Matches []ImageMatch `json:"matches"`
}

// EarliestMatch returns the match with the smallest date, or nil when there
// are none. Date strings compare lexically (ISO dates).
func (r ReverseImageResult) EarliestMatch() *ImageMatch {
	var earliest *ImageMatch
	for i := range r.Matches {
		m := &r.Matches[i]
		if m.Date == "" {
			continue
		}
		if earliest == nil || m.Date < earliest.Date {
			earliest = m
		}
	}
	return earliest
}

// GeolocationResult is the forensics backend's location estimate.
type GeolocationResult struct {
	Location    string  `json:"location"`
	Coordinates string  `json:"coordinates,omitempty"`
	Confidence  float64 `json:"confidence"`
	Method      string  `json:"method,omitempty"`
}

// ShadowResult is the forensics backend's temporal consistency estimate.
// Consistent is nil when the backend lacked reference data.
type ShadowResult struct {
	Consistent    *bool   `json:"consistent"`
	EstimatedTime string  `json:"estimated_time,omitempty"`
	Confidence    float64 `json:"confidence"`
	Note          string  `json:"note,omitempty"`
}

// ForensicsClient talks to the external media forensics backend: reverse
// image search, geolocation and shadow analysis. Each call uploads the media
// file as multipart form data.
type ForensicsClient struct {
	baseURL string
	client  *http.Client
}

// NewForensicsClient creates the client for the given backend base URL.
func NewForensicsClient(baseURL string) *ForensicsClient {
	return &ForensicsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// ReverseSearch finds earlier appearances of the image.
func (f *ForensicsClient) ReverseSearch(ctx context.Context, imagePath string) (ReverseImageResult, error) {
	var out ReverseImageResult
	err := f.post(ctx, "/reverse-image", imagePath, nil, &out)
	return out, err
}

// Geolocate estimates where the image was taken.
func (f *ForensicsClient) Geolocate(ctx context.Context, imagePath string) (GeolocationResult, error) {
	var out GeolocationResult
	err := f.post(ctx, "/geolocate", imagePath, nil, &out)
	return out, err
}

// AnalyzeShadows checks shadow geometry against the claimed location and
// time.
func (f *ForensicsClient) AnalyzeShadows(ctx context.Context, imagePath, claimedLocation, claimedTime string) (ShadowResult, error) {
	var out ShadowResult
	fields := map[string]string{
		"claimed_location": claimedLocation,
		"claimed_time":     claimedTime,
	}
	err := f.post(ctx, "/shadow-analysis", imagePath, fields, &out)
	return out, err
}

func (f *ForensicsClient) post(ctx context.Context, path, imagePath string, fields map[string]string, out interface{}) error {
	if f.baseURL == "" {
		return fmt.Errorf("forensics backend not configured (FORENSICS_URL)")
	}

	file, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", imagePath, err)
	}
	defer file.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("forensics %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("forensics %s: backend returned %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
