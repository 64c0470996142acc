package orchestrator

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/ctrevinoi1/agent/types"
)

// CollectStage gathers evidence for a query.
type CollectStage interface {
	Collect(ctx context.Context, query string) ([]*types.EvidenceItem, error)
}

// VerifyStage filters collected evidence down to what passed verification.
type VerifyStage interface {
	Verify(ctx context.Context, query string, items []*types.EvidenceItem) ([]*types.EvidenceItem, error)
}

// ReportStage writes the draft report from verified evidence.
type ReportStage interface {
	Generate(ctx context.Context, query string, items []*types.EvidenceItem) (string, error)
}

// FilterStage turns a draft into the releasable report.
type FilterStage interface {
	Apply(ctx context.Context, draft string) (string, error)
}

// Stages bundles the four pipeline stages.
type Stages struct {
	Collector CollectStage
	Verifier  VerifyStage
	Reporter  ReportStage
	Filter    FilterStage
}

// Orchestrator drives one query through the pipeline. One instance serves
// exactly one run; Run may be called once.
type Orchestrator struct {
	query  string
	stages Stages
	bus    *StatusBus

	mu        sync.RWMutex
	state     types.RunState
	collected []*types.EvidenceItem
	verified  []*types.EvidenceItem
	draft     string
	report    string
	err       error
}

// New creates an orchestrator for one query. bus may be shared across runs
// or nil for no progress streaming.
func New(query string, stages Stages, bus *StatusBus) *Orchestrator {
	if bus == nil {
		bus = NewStatusBus()
	}
	return &Orchestrator{
		query:  query,
		stages: stages,
		bus:    bus,
		state:  types.StateIdle,
	}
}

// Bus returns the orchestrator's status bus.
func (o *Orchestrator) Bus() *StatusBus { return o.bus }

// Query returns the run's query.
func (o *Orchestrator) Query() string { return o.query }

// Run executes the pipeline and returns the final report. Calling Run on an
// orchestrator that already ran is an error.
func (o *Orchestrator) Run(ctx context.Context) (string, error) {
	if err := o.begin(); err != nil {
		return "", err
	}
	log.Printf("orchestrator: starting run for query %q", o.query)

	o.bus.Publish("Starting data collection...")
	collected, err := o.stages.Collector.Collect(ctx, o.query)
	if err != nil {
		return "", o.fail(fmt.Errorf("collection: %w", err))
	}
	o.setCollected(collected)
	o.bus.Publish(fmt.Sprintf("Collection complete. Found %d items.", len(collected)))

	o.setState(types.StateVerifying)
	o.bus.Publish("Starting verification process...")
	verified, err := o.stages.Verifier.Verify(ctx, o.query, collected)
	if err != nil {
		return "", o.fail(fmt.Errorf("verification: %w", err))
	}
	o.setVerified(verified)
	o.bus.Publish(fmt.Sprintf("Verification complete. %d items verified.", len(verified)))

	o.setState(types.StateReporting)
	o.bus.Publish("Generating report...")
	draft, err := o.stages.Reporter.Generate(ctx, o.query, verified)
	if err != nil {
		return "", o.fail(fmt.Errorf("reporting: %w", err))
	}
	o.setDraft(draft)
	o.bus.Publish("Report generated.")

	o.setState(types.StateFiltering)
	o.bus.Publish("Applying ethical filter...")
	report, err := o.stages.Filter.Apply(ctx, draft)
	if err != nil {
		return "", o.fail(fmt.Errorf("ethical filter: %w", err))
	}
	o.setReport(report)
	o.bus.Publish("Report complete.")

	o.setState(types.StateComplete)
	log.Printf("orchestrator: run complete for query %q (%d verified items)", o.query, len(verified))
	return report, nil
}

// Report returns the final report once the run completed.
func (o *Orchestrator) Report() (string, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.report, o.state == types.StateComplete
}

// State returns the current pipeline state.
func (o *Orchestrator) State() types.RunState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Snapshot returns a point-in-time view of the run for status polling.
func (o *Orchestrator) Snapshot() types.Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	snap := types.Snapshot{
		Query:          o.query,
		State:          o.state,
		CollectedCount: len(o.collected),
		VerifiedCount:  len(o.verified),
		HasDraft:       o.draft != "",
		IsComplete:     o.state == types.StateComplete,
	}
	if o.err != nil {
		snap.Error = o.err.Error()
	}
	return snap
}

func (o *Orchestrator) begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != types.StateIdle {
		return fmt.Errorf("orchestrator already ran (state %s)", o.state)
	}
	o.state = types.StateCollecting
	return nil
}

func (o *Orchestrator) fail(err error) error {
	o.mu.Lock()
	o.state = types.StateFailed
	o.err = err
	o.mu.Unlock()
	log.Printf("orchestrator: run failed for query %q: %v", o.query, err)
	return err
}

func (o *Orchestrator) setState(s types.RunState) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

func (o *Orchestrator) setCollected(items []*types.EvidenceItem) {
	o.mu.Lock()
	o.collected = items
	o.mu.Unlock()
}

func (o *Orchestrator) setVerified(items []*types.EvidenceItem) {
	o.mu.Lock()
	o.verified = items
	o.mu.Unlock()
}

func (o *Orchestrator) setDraft(draft string) {
	o.mu.Lock()
	o.draft = draft
	o.mu.Unlock()
}

func (o *Orchestrator) setReport(report string) {
	o.mu.Lock()
	o.report = report
	o.mu.Unlock()
}
