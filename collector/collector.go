package collector

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/ctrevinoi1/agent/agent"
	"github.com/ctrevinoi1/agent/config"
	"github.com/ctrevinoi1/agent/decision"
	"github.com/ctrevinoi1/agent/dedupe"
	"github.com/ctrevinoi1/agent/tools"
	"github.com/ctrevinoi1/agent/types"
)

// WebSearch finds web pages for a query.
type WebSearch interface {
	Search(ctx context.Context, query string, max int) ([]tools.SearchResult, error)
}

// SocialSearch finds social media posts for a query.
type SocialSearch interface {
	Search(ctx context.Context, query string, platforms []string, max int) ([]tools.SocialPost, error)
}

// NewsSearch finds news articles for a query.
type NewsSearch interface {
	Search(ctx context.Context, query string, max int) ([]tools.SearchResult, error)
}

// MediaFetcher downloads and inspects media attached to evidence.
type MediaFetcher interface {
	Download(ctx context.Context, rawURL string) (localPath, archiveKey string, err error)
	ExtractMetadata(ctx context.Context, path string) (map[string]interface{}, error)
	ExtractFrames(ctx context.Context, videoPath string, intervalSeconds int) ([]string, error)
}

// Toolset bundles the collector's tools. News and Media may be nil when
// unconfigured.
type Toolset struct {
	Web    WebSearch
	Social SocialSearch
	News   NewsSearch
	Media  MediaFetcher
}

// termResults holds one search term's output so that concurrent searches
// still assemble in term order.
type termResults struct {
	web    []tools.SearchResult
	news   []tools.SearchResult
	social []tools.SocialPost
}

// Collector is the first pipeline stage. It proposes search terms for the
// query, fans the searches out across its tools and normalizes everything
// into evidence items.
type Collector struct {
	agent        *agent.Agent
	tools        Toolset
	filter       *dedupe.Filter
	platforms    []string
	maxPerSource int
}

// New builds the collector and registers its capabilities on the agent.
func New(completer agent.Completer, ts Toolset, filter *dedupe.Filter, cfg *config.Config) (*Collector, error) {
	c := &Collector{
		agent:        agent.New("collector", config.CollectorPromptTemplate, completer),
		tools:        ts,
		filter:       filter,
		platforms:    cfg.Platforms,
		maxPerSource: cfg.MaxResultsPerSource,
	}

	caps := map[string]agent.Capability{
		"web_search": func(ctx context.Context, args agent.Args) (interface{}, error) {
			if ts.Web == nil {
				return nil, fmt.Errorf("web search not configured")
			}
			return ts.Web.Search(ctx, args.String("query"), args.Int("max"))
		},
		"social_media_search": func(ctx context.Context, args agent.Args) (interface{}, error) {
			if ts.Social == nil {
				return nil, fmt.Errorf("social media search not configured")
			}
			return ts.Social.Search(ctx, args.String("query"), args.Strings("platforms"), args.Int("max"))
		},
		"news_search": func(ctx context.Context, args agent.Args) (interface{}, error) {
			if ts.News == nil {
				return nil, fmt.Errorf("news search not configured")
			}
			return ts.News.Search(ctx, args.String("query"), args.Int("max"))
		},
		"download_media": func(ctx context.Context, args agent.Args) (interface{}, error) {
			if ts.Media == nil {
				return nil, fmt.Errorf("media store not configured")
			}
			local, key, err := ts.Media.Download(ctx, args.String("url"))
			if err != nil {
				return nil, err
			}
			return map[string]string{"local_path": local, "archive_key": key}, nil
		},
		"extract_metadata": func(ctx context.Context, args agent.Args) (interface{}, error) {
			if ts.Media == nil {
				return nil, fmt.Errorf("media store not configured")
			}
			return ts.Media.ExtractMetadata(ctx, args.String("path"))
		},
		"extract_frames": func(ctx context.Context, args agent.Args) (interface{}, error) {
			if ts.Media == nil {
				return nil, fmt.Errorf("media store not configured")
			}
			return ts.Media.ExtractFrames(ctx, args.String("path"), args.Int("interval"))
		},
	}
	for name, fn := range caps {
		if err := c.agent.RegisterCapability(name, fn); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Agent exposes the underlying agent, mainly for memory inspection.
func (c *Collector) Agent() *agent.Agent { return c.agent }

// Collect runs the collection stage for a query and returns the gathered
// evidence. Individual search or download failures are logged and skipped;
// only a fully failed run returns an error.
func (c *Collector) Collect(ctx context.Context, query string) ([]*types.EvidenceItem, error) {
	terms := c.proposeTerms(ctx, query)
	log.Printf("collector: searching with terms %v", terms)

	slots := make([]termResults, len(terms))
	var wg sync.WaitGroup
	for i, term := range terms {
		wg.Add(1)
		go func(i int, term string) {
			defer wg.Done()
			slots[i] = c.searchTerm(ctx, term)
		}(i, term)
	}
	wg.Wait()

	var items []*types.EvidenceItem
	counter := 0

	// Web and news results first, in term order, then social posts. The
	// counter runs through both so ids stay unique across kinds.
	for i, term := range terms {
		for _, r := range slots[i].web {
			if item := c.webItem(ctx, r, term, &counter); item != nil {
				items = append(items, item)
			}
		}
		for _, r := range slots[i].news {
			if item := c.webItem(ctx, r, term, &counter); item != nil {
				items = append(items, item)
			}
		}
	}
	for i, term := range terms {
		for _, p := range slots[i].social {
			if item := c.socialItem(ctx, p, term, &counter); item != nil {
				items = append(items, item)
			}
		}
	}

	c.agent.Record(map[string]interface{}{
		"query": query,
		"terms": terms,
		"found": len(items),
	})
	return items, nil
}

// proposeTerms asks the model for search terms. Any failure falls back to
// the raw query so collection always proceeds.
func (c *Collector) proposeTerms(ctx context.Context, query string) []string {
	resp, err := c.agent.Complete(ctx, []agent.Message{
		agent.System(config.CollectorTermSystem),
		agent.User(c.agent.FormatPrompt(query)),
	})
	if err != nil {
		log.Printf("collector: term proposal failed, using raw query: %v", err)
		return []string{query}
	}
	return decision.ParseSearchTerms(resp, query)
}

func (c *Collector) searchTerm(ctx context.Context, term string) termResults {
	var out termResults
	var err error

	out.web, err = agent.InvokeAs[[]tools.SearchResult](ctx, c.agent, "web_search",
		agent.Args{"query": term, "max": c.maxPerSource})
	if err != nil {
		log.Printf("collector: web search for %q failed: %v", term, err)
	}

	if c.tools.News != nil {
		out.news, err = agent.InvokeAs[[]tools.SearchResult](ctx, c.agent, "news_search",
			agent.Args{"query": term, "max": c.maxPerSource})
		if err != nil {
			log.Printf("collector: news search for %q failed: %v", term, err)
		}
	}

	out.social, err = agent.InvokeAs[[]tools.SocialPost](ctx, c.agent, "social_media_search",
		agent.Args{"query": term, "platforms": c.platforms, "max": c.maxPerSource})
	if err != nil {
		log.Printf("collector: social media search for %q failed: %v", term, err)
	}
	return out
}

func (c *Collector) webItem(ctx context.Context, r tools.SearchResult, term string, counter *int) *types.EvidenceItem {
	if c.isDuplicate(ctx, r.URL) {
		return nil
	}
	item := &types.EvidenceItem{
		ID:         fmt.Sprintf("web_%d", *counter),
		Kind:       types.SourceWeb,
		SourceName: r.Source,
		URL:        r.URL,
		Title:      r.Title,
		Content:    r.Snippet,
		Timestamp:  r.Date,
		SearchTerm: term,
		Metadata:   map[string]interface{}{},
	}
	*counter++
	c.recordSeen(ctx, r.URL)
	return item
}

func (c *Collector) socialItem(ctx context.Context, p tools.SocialPost, term string, counter *int) *types.EvidenceItem {
	if c.isDuplicate(ctx, p.URL) {
		return nil
	}
	item := &types.EvidenceItem{
		ID:         fmt.Sprintf("social_%d", *counter),
		Kind:       types.SourceSocial,
		SourceName: p.Platform,
		User:       p.User,
		URL:        p.URL,
		Content:    p.Text,
		Timestamp:  p.Date,
		SearchTerm: term,
		Metadata: map[string]interface{}{
			"likes":    p.Likes,
			"shares":   p.Shares,
			"comments": p.Comments,
		},
	}
	*counter++

	if p.MediaURL != "" {
		item.Media = c.fetchMedia(ctx, p.MediaURL, item)
	}
	c.recordSeen(ctx, p.URL)
	return item
}

// fetchMedia downloads a post's attachment and probes its metadata. Failures
// leave the item without media rather than dropping it.
func (c *Collector) fetchMedia(ctx context.Context, mediaURL string, item *types.EvidenceItem) *types.MediaReference {
	if c.tools.Media == nil {
		return &types.MediaReference{URL: mediaURL}
	}

	dl, err := agent.InvokeAs[map[string]string](ctx, c.agent, "download_media",
		agent.Args{"url": mediaURL})
	if err != nil {
		log.Printf("collector: media download for %s failed: %v", item.ID, err)
		item.Metadata["media_download_error"] = err.Error()
		return nil
	}

	ref := &types.MediaReference{
		URL:        mediaURL,
		LocalPath:  dl["local_path"],
		ArchiveKey: dl["archive_key"],
	}
	meta, err := agent.InvokeAs[map[string]interface{}](ctx, c.agent, "extract_metadata",
		agent.Args{"path": ref.LocalPath})
	if err != nil {
		log.Printf("collector: metadata extraction for %s failed: %v", item.ID, err)
	} else {
		ref.Metadata = meta
	}

	if isVideo(ref.Metadata) {
		frames, err := agent.InvokeAs[[]string](ctx, c.agent, "extract_frames",
			agent.Args{"path": ref.LocalPath, "interval": 5})
		if err != nil {
			log.Printf("collector: frame extraction for %s failed: %v", item.ID, err)
		} else if len(frames) > 0 {
			ref.Frames = frames
		}
	}
	return ref
}

func isVideo(meta map[string]interface{}) bool {
	kind, _ := meta["media_kind"].(string)
	return kind == "video"
}

func (c *Collector) isDuplicate(ctx context.Context, url string) bool {
	if url == "" {
		return false
	}
	seen, err := c.filter.Seen(ctx, url)
	if err != nil {
		log.Printf("collector: dedupe check failed for %s: %v", url, err)
		return false
	}
	if seen {
		log.Printf("collector: skipping already-seen URL %s", strings.TrimSpace(url))
	}
	return seen
}

func (c *Collector) recordSeen(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := c.filter.Record(ctx, url); err != nil {
		log.Printf("collector: dedupe record failed for %s: %v", url, err)
	}
}
