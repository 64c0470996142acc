package verifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ctrevinoi1/agent/agent"
	"github.com/ctrevinoi1/agent/config"
	"github.com/ctrevinoi1/agent/decision"
	"github.com/ctrevinoi1/agent/tools"
	"github.com/ctrevinoi1/agent/types"
)

// Items below this fused confidence are rejected even when the model says
// verified.
const confidenceThreshold = 0.5

// ReliabilityCheck classifies a source's trustworthiness.
type ReliabilityCheck interface {
	Check(ctx context.Context, sourceName, url string) (tools.ReliabilityResult, error)
}

// Forensics runs media forensics on a downloaded file.
type Forensics interface {
	ReverseSearch(ctx context.Context, imagePath string) (tools.ReverseImageResult, error)
	Geolocate(ctx context.Context, imagePath string) (tools.GeolocationResult, error)
	AnalyzeShadows(ctx context.Context, imagePath, claimedLocation, claimedTime string) (tools.ShadowResult, error)
}

// Toolset bundles the verifier's tools. Forensics may be nil when no backend
// is configured.
type Toolset struct {
	Reliability ReliabilityCheck
	Forensics   Forensics
}

// Verifier is the second pipeline stage. Each collected item runs through
// source reliability, media forensics and metadata checks, then a final
// model decision fuses the findings into a verdict.
type Verifier struct {
	agent *agent.Agent
	tools Toolset
	now   func() time.Time
}

// New builds the verifier and registers its capabilities on the agent.
func New(completer agent.Completer, ts Toolset) (*Verifier, error) {
	v := &Verifier{
		agent: agent.New("verifier", config.VerifierPromptTemplate, completer),
		tools: ts,
		now:   time.Now,
	}

	caps := map[string]agent.Capability{
		"source_reliability_check": func(ctx context.Context, args agent.Args) (interface{}, error) {
			return ts.Reliability.Check(ctx, args.String("source_name"), args.String("url"))
		},
		"reverse_image_search": func(ctx context.Context, args agent.Args) (interface{}, error) {
			if ts.Forensics == nil {
				return nil, fmt.Errorf("forensics backend not configured")
			}
			return ts.Forensics.ReverseSearch(ctx, args.String("path"))
		},
		"geolocation": func(ctx context.Context, args agent.Args) (interface{}, error) {
			if ts.Forensics == nil {
				return nil, fmt.Errorf("forensics backend not configured")
			}
			return ts.Forensics.Geolocate(ctx, args.String("path"))
		},
		"shadow_analysis": func(ctx context.Context, args agent.Args) (interface{}, error) {
			if ts.Forensics == nil {
				return nil, fmt.Errorf("forensics backend not configured")
			}
			return ts.Forensics.AnalyzeShadows(ctx, args.String("path"),
				args.String("location"), args.String("time"))
		},
		"metadata_consistency": func(ctx context.Context, args agent.Args) (interface{}, error) {
			item, _ := args["item"].(*types.EvidenceItem)
			if item == nil {
				return nil, fmt.Errorf("metadata_consistency: missing item")
			}
			return tools.CheckMetadataConsistency(item, v.now()), nil
		},
	}
	for name, fn := range caps {
		if err := v.agent.RegisterCapability(name, fn); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Agent exposes the underlying agent, mainly for memory inspection.
func (v *Verifier) Agent() *agent.Agent { return v.agent }

// Verify runs the per-item verification pipeline over all collected items
// and returns the subset that passed. A failing item never aborts the run.
func (v *Verifier) Verify(ctx context.Context, query string, items []*types.EvidenceItem) ([]*types.EvidenceItem, error) {
	var verified []*types.EvidenceItem
	for _, item := range items {
		if v.verifyItem(ctx, query, item) {
			verified = append(verified, item)
		}
	}
	v.agent.Record(map[string]interface{}{
		"query":    query,
		"items":    len(items),
		"verified": len(verified),
	})
	return verified, nil
}

// verifyItem runs every check on one item and returns whether it passed.
// The verification record stays attached to the item either way.
func (v *Verifier) verifyItem(ctx context.Context, query string, item *types.EvidenceItem) bool {
	rec := &types.VerificationRecord{}
	item.Verification = rec

	// Source reliability is a hard gate. An unreliable source rejects the
	// item before any other check runs.
	rec.AddMethod("source_reliability_check")
	rel, err := agent.InvokeAs[tools.ReliabilityResult](ctx, v.agent, "source_reliability_check",
		agent.Args{"source_name": item.SourceName, "url": item.URL})
	if err != nil {
		log.Printf("verifier: reliability check for %s failed: %v", item.ID, err)
		rec.AddNote("Source reliability could not be established.")
		rec.Confidence = 0.2
		return false
	}
	rec.AddNote(fmt.Sprintf("Source reliability: %s", rel.Category))
	if rel.Category == tools.ReliabilityUnreliable {
		rec.AddNote("Source is known to be unreliable. Item rejected.")
		rec.Confidence = rel.Score
		return false
	}

	if item.Media != nil && item.Media.LocalPath != "" {
		v.checkMedia(ctx, item, rec)
	}

	consistency, err := agent.InvokeAs[tools.ConsistencyResult](ctx, v.agent, "metadata_consistency",
		agent.Args{"item": item})
	if err != nil {
		log.Printf("verifier: consistency check for %s failed: %v", item.ID, err)
	} else {
		rec.AddMethod("metadata_consistency")
		rec.AddNote(fmt.Sprintf("Metadata consistency: %s (confidence %.1f)",
			consistency.Result, consistency.Confidence))
	}

	verdict := v.decide(ctx, query, item, rec)
	rec.Verified = verdict.Verified
	rec.Confidence = verdict.Confidence
	if verdict.Rationale != "" {
		rec.AddNote(verdict.Rationale)
	}
	return rec.Verified && rec.Confidence >= confidenceThreshold
}

// checkMedia runs the forensics tools on the item's downloaded media.
// Forensics failures are logged and noted but never reject the item on
// their own.
func (v *Verifier) checkMedia(ctx context.Context, item *types.EvidenceItem, rec *types.VerificationRecord) {
	if v.tools.Forensics == nil {
		return
	}
	path := item.Media.LocalPath

	reverse, err := agent.InvokeAs[tools.ReverseImageResult](ctx, v.agent, "reverse_image_search",
		agent.Args{"path": path})
	if err != nil {
		log.Printf("verifier: reverse image search for %s failed: %v", item.ID, err)
	} else {
		rec.AddMethod("reverse_image_search")
		if earliest := reverse.EarliestMatch(); earliest != nil && predates(earliest.Date, item.Timestamp) {
			rec.AddNote(fmt.Sprintf(
				"Warning: image appeared online before the claimed date (earliest match %s at %s).",
				earliest.Date, earliest.Source))
		} else {
			rec.AddNote(fmt.Sprintf("Reverse image search: %d matches, none predating the claimed date.",
				len(reverse.Matches)))
		}
	}

	geo, err := agent.InvokeAs[tools.GeolocationResult](ctx, v.agent, "geolocation",
		agent.Args{"path": path})
	if err != nil {
		log.Printf("verifier: geolocation for %s failed: %v", item.ID, err)
	} else {
		rec.AddMethod("geolocation")
		if geo.Location != "" {
			item.VerifiedLocation = geo.Location
			rec.AddNote(fmt.Sprintf("Geolocated to %s (confidence %.2f).", geo.Location, geo.Confidence))
		} else {
			rec.AddNote("Geolocation inconclusive.")
		}
	}

	// Shadow analysis needs both a location and a claimed time to compare
	// against.
	if item.VerifiedLocation == "" || item.Timestamp == "" {
		return
	}
	shadow, err := agent.InvokeAs[tools.ShadowResult](ctx, v.agent, "shadow_analysis",
		agent.Args{"path": path, "location": item.VerifiedLocation, "time": item.Timestamp})
	if err != nil {
		log.Printf("verifier: shadow analysis for %s failed: %v", item.ID, err)
		return
	}
	rec.AddMethod("shadow_analysis")
	switch {
	case shadow.Consistent == nil:
		rec.AddNote("Shadow analysis inconclusive.")
	case *shadow.Consistent:
		rec.AddNote(fmt.Sprintf("Shadow analysis consistent with claimed time (confidence %.2f).",
			shadow.Confidence))
	default:
		note := fmt.Sprintf("Warning: shadow analysis inconsistent with claimed time (confidence %.2f).",
			shadow.Confidence)
		if shadow.EstimatedTime != "" {
			note += fmt.Sprintf(" Estimated time: %s", shadow.EstimatedTime)
		}
		rec.AddNote(note)
	}
}

// decide fuses the findings into a verdict via the model. A completion
// failure produces a conservative reject rather than an error.
func (v *Verifier) decide(ctx context.Context, query string, item *types.EvidenceItem, rec *types.VerificationRecord) decision.Verdict {
	payload, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		payload = []byte(fmt.Sprintf("%+v", item))
	}
	prompt := fmt.Sprintf("%s\n\nItem under review:\n%s\n\nVerification findings:\n- %s",
		v.agent.FormatPrompt(query), payload, strings.Join(rec.Notes, "\n- "))

	resp, err := v.agent.Complete(ctx, []agent.Message{
		agent.System(config.VerifierDecisionSystem),
		agent.User(prompt),
	})
	if err != nil {
		log.Printf("verifier: decision for %s failed: %v", item.ID, err)
		return decision.Verdict{Verified: false, Confidence: 0.2, Rationale: "verification decision unavailable"}
	}
	return decision.ParseVerdict(resp)
}

// predates reports whether match date a is strictly before claimed date b.
// Both are ISO date strings so lexical comparison suffices; missing dates
// never predate.
func predates(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if len(b) > 10 {
		b = b[:10]
	}
	return a < b
}
