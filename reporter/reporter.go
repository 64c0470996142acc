package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/ctrevinoi1/agent/agent"
	"github.com/ctrevinoi1/agent/config"
	"github.com/ctrevinoi1/agent/types"
)

// Reporter is the third pipeline stage. It turns verified evidence into a
// Markdown report with [ID] citations and inlined media.
type Reporter struct {
	agent *agent.Agent
}

// New builds the reporter.
func New(completer agent.Completer) *Reporter {
	return &Reporter{
		agent: agent.New("reporter", config.ReporterPromptTemplate, completer),
	}
}

// Agent exposes the underlying agent, mainly for memory inspection.
func (r *Reporter) Agent() *agent.Agent { return r.agent }

// Generate writes the report for a query from its verified evidence. When
// the model is unavailable a deterministic fallback report is produced so
// the pipeline still completes.
func (r *Reporter) Generate(ctx context.Context, query string, items []*types.EvidenceItem) (string, error) {
	report, err := r.agent.Complete(ctx, []agent.Message{
		agent.System(config.ReporterPromptTemplate),
		agent.User(r.buildPrompt(query, items)),
	})
	if err != nil {
		log.Printf("reporter: completion failed, using fallback report: %v", err)
		report = fallbackReport(query, items)
	}

	report = SpliceMedia(report, items)

	r.agent.Record(map[string]interface{}{
		"query": query,
		"items": len(items),
		"bytes": len(report),
	})
	return report, nil
}

func (r *Reporter) buildPrompt(query string, items []*types.EvidenceItem) string {
	counts := map[types.SourceKind]int{}
	for _, item := range items {
		counts[item.Kind]++
	}

	payload, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		payload = []byte("[]")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User Query: %s\n\n", query)
	fmt.Fprintf(&b, "Verified evidence (%d items: %d web, %d social media):\n\n",
		len(items), counts[types.SourceWeb], counts[types.SourceSocial])
	b.Write(payload)
	b.WriteString("\n\nWrite the report now.")
	return b.String()
}

// fallbackReport lists the evidence without analysis. Citations use the
// same [ID] notation so the media splice still applies.
func fallbackReport(query string, items []*types.EvidenceItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# OSINT Report: %s\n\n", query)
	b.WriteString("## Summary\n\nAutomated report generation was unavailable. ")
	fmt.Fprintf(&b, "The following %d verified items were collected.\n\n## Findings\n\n", len(items))
	for _, item := range items {
		title := item.Title
		if title == "" {
			title = truncate(item.Content, 120)
		}
		fmt.Fprintf(&b, "- [%s] %s (%s", item.ID, title, item.SourceName)
		if item.Timestamp != "" {
			fmt.Fprintf(&b, ", %s", item.Timestamp)
		}
		b.WriteString(")\n")
	}
	b.WriteString("\n## Sources\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "- [%s]: %s\n", item.ID, item.URL)
	}
	return b.String()
}

// SpliceMedia inserts an image marker after the first paragraph that cites
// an item, for every verified item carrying downloaded media. Items never
// cited in the report are left alone.
func SpliceMedia(report string, items []*types.EvidenceItem) string {
	paragraphs := strings.Split(report, "\n\n")
	for _, item := range items {
		if item.Media == nil {
			continue
		}
		path := item.Media.LocalPath
		if path == "" {
			path = item.Media.URL
		}
		if path == "" {
			continue
		}
		marker := "[" + item.ID + "]"
		for i, p := range paragraphs {
			if strings.Contains(p, marker) {
				paragraphs[i] = p + fmt.Sprintf("\n\n![Media from %s](%s)", item.ID, path)
				break
			}
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
