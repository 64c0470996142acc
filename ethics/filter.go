package ethics

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ctrevinoi1/agent/agent"
	"github.com/ctrevinoi1/agent/config"
	"github.com/ctrevinoi1/agent/tools"
)

// Filter is the final pipeline stage. It reviews the draft report for
// ethical issues, lets the model soften or annotate problem passages and
// deterministically redacts PII. Filtering is total: whatever fails, some
// releasable report comes back.
type Filter struct {
	agent *agent.Agent
}

// New builds the filter.
func New(completer agent.Completer) *Filter {
	return &Filter{
		agent: agent.New("ethical_filter", config.EthicalFilterPromptTemplate, completer),
	}
}

// Agent exposes the underlying agent, mainly for memory inspection.
func (f *Filter) Agent() *agent.Agent { return f.agent }

// Apply filters a draft report and returns the releasable version. The
// model review is best effort; PII redaction always runs.
func (f *Filter) Apply(ctx context.Context, draft string) (string, error) {
	policy := tools.CheckContentPolicy(draft)

	report := f.review(ctx, draft, policy)
	report = tools.AnonymizeText(report)

	f.agent.Record(map[string]interface{}{
		"violations": policy.Violations,
		"bytes":      len(report),
	})
	return report, nil
}

// review asks the model to adjust the draft. An empty or failed response
// falls back to the draft so a report is always released.
func (f *Filter) review(ctx context.Context, draft string, policy tools.PolicyResult) string {
	var b strings.Builder
	if len(policy.Violations) > 0 {
		fmt.Fprintf(&b, "Automated policy scan flagged:\n- %s\n\n",
			strings.Join(policy.Violations, "\n- "))
	}
	b.WriteString("Draft report:\n\n")
	b.WriteString(draft)

	resp, err := f.agent.Complete(ctx, []agent.Message{
		agent.System(config.EthicalFilterPromptTemplate),
		agent.User(b.String()),
	})
	if err != nil {
		log.Printf("ethical filter: review failed, releasing draft with redaction only: %v", err)
		return draft
	}
	if strings.TrimSpace(resp) == "" {
		return draft
	}
	return resp
}
