// Package research decides whether confidence in a recommendation is
// high enough to skip further research, and if not, orchestrates a
// best-effort, time-boxed research pass that may improve it.
//
// The failure contract is the heart of this package: auto-research is
// always optional and never fatal. Run absorbs every failure mode —
// rate-limit denial, provider errors, timeout — and degrades to a
// well-defined "nothing changed" result. The only budget mutation
// happens on the success path.
package research

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/planscout/planscout/internal/confidence"
	"github.com/planscout/planscout/internal/providers"
	"github.com/planscout/planscout/internal/ratelimit"
)

const (
	// DefaultThreshold is the confidence percentage below which
	// auto-research is offered.
	DefaultThreshold = 90

	// DefaultTimeout is the maximum wait for the research fan-out
	// before giving up.
	DefaultTimeout = 30 * time.Second
)

// Result is the outcome of one auto-research attempt.
type Result struct {
	// Triggered is true when research actually ran and produced at
	// least one finding.
	Triggered bool `json:"triggered"`
	// NewConfidence is the updated percentage, or the original one
	// unchanged when Triggered is false.
	NewConfidence int `json:"new_confidence"`
	// Reasoning explains the updated confidence. Empty when research
	// did not run.
	Reasoning string `json:"reasoning,omitempty"`
	// ExternalRefs are human-readable source descriptions gathered.
	ExternalRefs []string `json:"external_refs"`
	// Findings carries the raw provider payloads, present only when
	// Triggered is true.
	Findings []providers.Finding `json:"findings,omitempty"`
}

// AttemptRecord is the audit entry describing one Run invocation.
type AttemptRecord struct {
	SessionID        string
	Query            string
	Triggered        bool
	ConfidenceBefore int
	ConfidenceAfter  int
	References       []string
	Note             string
}

// Recorder persists attempt records. Recording is best-effort: a
// recorder failure is logged and never affects the research result.
type Recorder interface {
	RecordAttempt(ctx context.Context, rec AttemptRecord) error
}

// Options tunes the trigger. Zero values fall back to defaults.
type Options struct {
	// MaxTriggers is the per-session budget within the limiter's TTL.
	MaxTriggers int
	// Threshold is the confidence percentage at or above which
	// research is not offered.
	Threshold int
	// Timeout bounds the whole provider fan-out.
	Timeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxTriggers <= 0 {
		o.MaxTriggers = ratelimit.DefaultMaxTriggers
	}
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Trigger orchestrates rate-limited, time-boxed research passes.
type Trigger struct {
	limiter   *ratelimit.Limiter
	scorer    confidence.Scorer
	providers []providers.Provider
	recorder  Recorder
	log       *zap.Logger
	opts      Options
}

// New creates a Trigger. recorder may be nil to disable the audit log.
func New(
	limiter *ratelimit.Limiter,
	scorer confidence.Scorer,
	provs []providers.Provider,
	recorder Recorder,
	log *zap.Logger,
	opts Options,
) *Trigger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Trigger{
		limiter:   limiter,
		scorer:    scorer,
		providers: provs,
		recorder:  recorder,
		log:       log,
		opts:      opts.withDefaults(),
	}
}

// ShouldTrigger is the pure threshold gate: it reports whether the
// caller should attempt Run at all.
func (t *Trigger) ShouldTrigger(c confidence.Result) bool {
	return c.Percentage < t.opts.Threshold
}

// Run performs one rate-limited, time-boxed research pass.
//
// factors are the original scorer inputs that produced current; on a
// successful pass they are rescored with the gathered references as
// added context and research depth marked high.
//
// Run never returns an error. Every failure path — budget exhausted,
// all providers failing, timeout — degrades to a result with
// Triggered=false and the original confidence unchanged.
func (t *Trigger) Run(
	ctx context.Context,
	sessionID string,
	factors confidence.Factors,
	current confidence.Result,
	query string,
	focus []string,
) Result {
	if !t.limiter.Check(sessionID, t.opts.MaxTriggers) {
		t.log.Warn("auto-research denied: budget exhausted",
			zap.String("session", sessionID),
			zap.String("detail", t.limiter.LimitMessage(sessionID, t.opts.MaxTriggers)),
		)
		res := unchanged(current)
		t.record(ctx, sessionID, query, current, res, "rate limit exceeded")
		return res
	}

	t.log.Info("triggering auto-research",
		zap.String("session", sessionID),
		zap.String("query", query),
		zap.Int("confidence", current.Percentage),
		zap.String("reasoning", current.Reasoning),
	)

	// The timeout context is threaded into every provider call, so
	// losing the race also cancels the in-flight work rather than
	// merely abandoning the wait.
	rctx, cancel := context.WithTimeout(ctx, t.opts.Timeout)
	defer cancel()

	findings := t.gather(rctx, query, focus)
	if len(findings) == 0 {
		t.log.Warn("auto-research produced no findings; keeping current confidence",
			zap.String("session", sessionID),
		)
		res := unchanged(current)
		t.record(ctx, sessionID, query, current, res, "no findings")
		return res
	}

	// Budget is consumed only on success: failed or timed-out
	// attempts are free retries.
	count := t.limiter.Increment(sessionID)

	refs := make([]string, len(findings))
	for i, f := range findings {
		refs[i] = f.Reference
	}

	rescoreInput := factors
	rescoreInput.ResearchDepth = confidence.DepthHigh
	rescoreInput.Context = append(append([]string{}, factors.Context...), refs...)
	rescored := t.scorer.Score(rescoreInput)

	t.log.Info("auto-research complete",
		zap.String("session", sessionID),
		zap.Int("findings", len(findings)),
		zap.Int("confidence_before", current.Percentage),
		zap.Int("confidence_after", rescored.Percentage),
		zap.Int("budget_used", count),
	)

	res := Result{
		Triggered:     true,
		NewConfidence: rescored.Percentage,
		Reasoning:     rescored.Reasoning,
		ExternalRefs:  refs,
		Findings:      findings,
	}
	t.record(ctx, sessionID, query, current, res, "")
	return res
}

// gather fans out to all providers concurrently and collects whatever
// succeeds. Each provider has its own error boundary: a single source
// outage never discards the other source's result.
func (t *Trigger) gather(ctx context.Context, query string, focus []string) []providers.Finding {
	results := make([]*providers.Finding, len(t.providers))

	var g errgroup.Group
	for i, p := range t.providers {
		g.Go(func() error {
			f, err := p.Lookup(ctx, query, focus)
			if err != nil {
				t.log.Warn("research provider failed",
					zap.String("provider", p.Name()),
					zap.Error(err),
				)
				return nil
			}
			results[i] = f
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors; failures are logged above

	var findings []providers.Finding
	for _, f := range results {
		if f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}

func (t *Trigger) record(ctx context.Context, sessionID, query string, before confidence.Result, res Result, note string) {
	if t.recorder == nil {
		return
	}
	err := t.recorder.RecordAttempt(ctx, AttemptRecord{
		SessionID:        sessionID,
		Query:            query,
		Triggered:        res.Triggered,
		ConfidenceBefore: before.Percentage,
		ConfidenceAfter:  res.NewConfidence,
		References:       res.ExternalRefs,
		Note:             note,
	})
	if err != nil {
		t.log.Warn("recording research attempt failed", zap.Error(err))
	}
}

func unchanged(current confidence.Result) Result {
	return Result{
		Triggered:     false,
		NewConfidence: current.Percentage,
		ExternalRefs:  []string{},
	}
}
