package tools

import (
	"context"
	"log"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"
)

// Default RSS feeds scanned by the news search capability when NEWS_FEEDS is
// not set.
var DefaultNewsFeeds = []string{
	"https://feeds.bbci.co.uk/news/world/rss.xml",
	"https://www.aljazeera.com/xml/rss/all.xml",
	"https://www.theguardian.com/world/rss",
}

const extractorTimeout = 30 * time.Second

// NewsSearcher scans RSS feeds for items matching a query. Matches are folded
// into the web-kind evidence stream by the collector.
type NewsSearcher struct {
	feeds  []string
	parser *gofeed.Parser
	// EnrichContent pulls readable full text for each match. Extraction
	// failures are recorded on the result, never propagated.
	EnrichContent bool
}

// NewNewsSearcher creates the capability over the given feeds (defaults
// apply when the list is empty).
func NewNewsSearcher(feeds []string) *NewsSearcher {
	if len(feeds) == 0 {
		feeds = DefaultNewsFeeds
	}
	return &NewsSearcher{feeds: feeds, parser: gofeed.NewParser()}
}

// Search fetches every configured feed and returns items whose title or
// description mentions all terms of the query, newest first per feed. A feed
// that fails to fetch is logged and skipped; the remaining feeds still count.
func (n *NewsSearcher) Search(ctx context.Context, query string, max int) ([]SearchResult, error) {
	if max <= 0 {
		max = 5
	}
	terms := strings.Fields(strings.ToLower(query))

	var results []SearchResult
	for _, feedURL := range n.feeds {
		if len(results) >= max {
			break
		}
		feed, err := n.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			log.Printf("news search: feed %s: %v", feedURL, err)
			continue
		}
		for _, item := range feed.Items {
			if len(results) >= max {
				break
			}
			if !matchesTerms(item, terms) {
				continue
			}
			results = append(results, n.toResult(feed, item))
		}
	}
	return results, nil
}

func matchesTerms(item *gofeed.Item, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	haystack := strings.ToLower(item.Title + " " + item.Description)
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

func (n *NewsSearcher) toResult(feed *gofeed.Feed, item *gofeed.Item) SearchResult {
	date := ""
	if item.PublishedParsed != nil {
		date = item.PublishedParsed.Format("2006-01-02")
	} else if item.UpdatedParsed != nil {
		date = item.UpdatedParsed.Format("2006-01-02")
	}

	snippet := item.Description
	if n.EnrichContent && item.Link != "" {
		if article, err := readability.FromURL(item.Link, extractorTimeout); err == nil {
			if article.Excerpt != "" {
				snippet = article.Excerpt
			} else if article.TextContent != "" {
				snippet = truncate(article.TextContent, 500)
			}
		} else {
			log.Printf("news search: readability %s: %v", item.Link, err)
		}
	}

	return SearchResult{
		Title:   item.Title,
		URL:     item.Link,
		Snippet: snippet,
		Source:  feed.Title,
		Date:    date,
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
