package policy

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hyperpolymath/union-policy-parser/pkg/policy/ast"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/inherit"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/merge"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/normalizer"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/validator"
	"github.com/hyperpolymath/union-policy-parser/pkg/telemetry/metrics"
)

// State tracks the progress of one resolution request.
type State string

const (
	StatePending             State = "pending"
	StateNormalized          State = "normalized"
	StateInheritanceResolved State = "inheritance_resolved"
	StateMerged              State = "merged"
	StateValidated           State = "validated"
	StateEffective           State = "effective"
	StateFailed              State = "failed"
)

// Options configures a Resolver.
type Options struct {
	// MaxDepth bounds inheritance chain length. Zero selects
	// inherit.DefaultMaxDepth.
	MaxDepth int

	// DefaultStrategy is the global default merge strategy. StrategyUnset
	// selects override.
	DefaultStrategy ast.MergeStrategy

	// IntersectionFallback degrades intersection disagreements to
	// priority-based merging.
	IntersectionFallback bool

	// Parallel merges independent top-level subtrees concurrently.
	Parallel bool

	// Constraints are the schema constraints applied during validation.
	Constraints validator.Constraints

	// Logger receives structured progress logs. Nil disables logging.
	Logger *slog.Logger

	// Metrics records resolution outcomes. Nil disables metrics.
	Metrics *metrics.ResolutionMetrics
}

// Resolver drives the resolution pipeline for policy document sets.
type Resolver struct {
	opts       Options
	normalizer *normalizer.Normalizer
	engine     *merge.Engine
	validator  *validator.Validator
	logger     *slog.Logger
}

// NewResolver creates a resolver with the given options.
func NewResolver(opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(discardHandler{})
	}
	return &Resolver{
		opts:       opts,
		normalizer: normalizer.New(),
		engine: merge.New(merge.Options{
			DefaultStrategy:      opts.DefaultStrategy,
			IntersectionFallback: opts.IntersectionFallback,
			Parallel:             opts.Parallel,
		}),
		validator: validator.New(),
		logger:    logger,
	}
}

// Result is the outcome of one resolution request.
type Result struct {
	// RequestID uniquely identifies the request for audit correlation.
	RequestID string `json:"request_id"`

	// Target is the resolved target name.
	Target string `json:"target"`

	// State is the terminal pipeline state (StateEffective or StateFailed).
	State State `json:"state"`

	// FailedState names the stage that failed when State is StateFailed.
	FailedState State `json:"failed_state,omitempty"`

	// Effective is the merged, validated policy. Nil when resolution failed.
	Effective *merge.EffectivePolicy `json:"effective,omitempty"`

	// Conflicts are the audit records gathered during the merge, including
	// the partial list gathered before a merge failure.
	Conflicts []merge.ConflictRecord `json:"conflicts"`

	// Diagnostics are the validator's findings.
	Diagnostics []validator.Diagnostic `json:"diagnostics"`

	// Duration is the wall-clock time the request took.
	Duration time.Duration `json:"duration"`
}

// Resolve normalizes the supplied documents, resolves the target's
// inheritance chain, merges it, and validates the result.
//
// Normalization and inheritance errors abort the request immediately. Merge
// errors abort after the whole tree has been walked, so the returned Result
// still carries the full conflict list gathered up to that point. Validation
// diagnostics never abort.
func (r *Resolver) Resolve(ctx context.Context, raws []normalizer.RawDocument, target string) (*Result, error) {
	result := &Result{
		RequestID: uuid.NewString(),
		Target:    target,
		State:     StatePending,
	}
	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
		r.observe(result)
	}()

	docs, err := r.normalizeStage(ctx, raws, result)
	if err != nil {
		return result, err
	}

	chain, err := r.inheritanceStage(ctx, docs, target, result)
	if err != nil {
		return result, err
	}

	if err := r.mergeStage(ctx, result, func() (*merge.EffectivePolicy, []merge.ConflictRecord, error) {
		return r.engine.MergeChain(chain)
	}); err != nil {
		return result, err
	}

	r.validateStage(result)
	return result, nil
}

// MergeSiblings merges the supplied documents as a sibling set at equal
// scope, in declaration order, skipping inheritance resolution.
func (r *Resolver) MergeSiblings(ctx context.Context, raws []normalizer.RawDocument) (*Result, error) {
	result := &Result{
		RequestID: uuid.NewString(),
		State:     StatePending,
	}
	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
		r.observe(result)
	}()

	docs, err := r.normalizeStage(ctx, raws, result)
	if err != nil {
		return result, err
	}

	if err := r.mergeStage(ctx, result, func() (*merge.EffectivePolicy, []merge.ConflictRecord, error) {
		return r.engine.MergeSiblings(docs)
	}); err != nil {
		return result, err
	}
	result.Target = result.Effective.Target()

	r.validateStage(result)
	return result, nil
}

// ValidateDocuments normalizes each document and validates it in isolation
// against the configured constraints. Normalization failures are reported as
// error diagnostics rather than aborting, so one call surfaces every
// problem across the set.
func (r *Resolver) ValidateDocuments(ctx context.Context, raws []normalizer.RawDocument) []validator.Diagnostic {
	var diags []validator.Diagnostic

	for i, raw := range raws {
		if err := ctx.Err(); err != nil {
			return diags
		}

		doc, err := r.normalizer.Normalize(raw, i)
		if err != nil {
			diags = append(diags, validator.Diagnostic{
				Severity: validator.SeverityError,
				Message:  err.Error(),
			})
			continue
		}

		effective, _, err := r.engine.MergeChain(ast.ResolutionChain{doc})
		if err != nil {
			diags = append(diags, validator.Diagnostic{
				Severity: validator.SeverityError,
				Message:  err.Error(),
			})
			continue
		}
		diags = append(diags, r.validator.Validate(effective, r.opts.Constraints)...)
	}

	return diags
}

func (r *Resolver) normalizeStage(ctx context.Context, raws []normalizer.RawDocument, result *Result) ([]*ast.PolicyDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, r.fail(result, StatePending, err)
	}

	docs, err := r.normalizer.NormalizeAll(raws)
	if err != nil {
		return nil, r.fail(result, StatePending, err)
	}
	result.State = StateNormalized
	r.logger.Debug("documents normalized",
		"request_id", result.RequestID,
		"documents", len(docs))
	return docs, nil
}

func (r *Resolver) inheritanceStage(ctx context.Context, docs []*ast.PolicyDocument, target string, result *Result) (ast.ResolutionChain, error) {
	if err := ctx.Err(); err != nil {
		return nil, r.fail(result, StateNormalized, err)
	}

	registry, err := inherit.NewRegistry(docs)
	if err != nil {
		return nil, r.fail(result, StateNormalized, err)
	}

	chain, err := inherit.NewResolver(registry, r.opts.MaxDepth).ResolveChain(target)
	if err != nil {
		return nil, r.fail(result, StateNormalized, err)
	}
	result.State = StateInheritanceResolved
	r.logger.Debug("inheritance chain resolved",
		"request_id", result.RequestID,
		"target", target,
		"chain", chain.Names())
	return chain, nil
}

func (r *Resolver) mergeStage(ctx context.Context, result *Result, mergeFn func() (*merge.EffectivePolicy, []merge.ConflictRecord, error)) error {
	if err := ctx.Err(); err != nil {
		return r.fail(result, result.State, err)
	}

	effective, conflicts, err := mergeFn()
	result.Conflicts = conflicts
	if err != nil {
		return r.fail(result, result.State, err)
	}
	result.Effective = effective
	result.State = StateMerged
	r.logger.Debug("documents merged",
		"request_id", result.RequestID,
		"leaves", effective.LeafCount(),
		"conflicts", len(conflicts))
	return nil
}

func (r *Resolver) validateStage(result *Result) {
	result.Diagnostics = r.validator.Validate(result.Effective, r.opts.Constraints)
	result.State = StateValidated
	r.logger.Debug("effective policy validated",
		"request_id", result.RequestID,
		"diagnostics", len(result.Diagnostics))
	result.State = StateEffective
}

// fail marks the result failed at the given stage. No stage is retried; the
// caller decides whether to re-run after fixing input.
func (r *Resolver) fail(result *Result, stage State, err error) error {
	result.FailedState = stage
	result.State = StateFailed
	r.logger.Warn("resolution failed",
		"request_id", result.RequestID,
		"stage", string(stage),
		"error", err)
	return err
}

func (r *Resolver) observe(result *Result) {
	if r.opts.Metrics == nil {
		return
	}
	r.opts.Metrics.ObserveResolution(string(result.State), result.Duration)
	for _, c := range result.Conflicts {
		r.opts.Metrics.RecordConflict(string(c.Strategy), string(c.Reason))
	}
}

// Diff compares two effective policies leaf by leaf.
func Diff(a, b *merge.EffectivePolicy) []merge.Difference {
	return merge.Diff(a, b)
}

// discardHandler drops all records; it backs the nil-logger default.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
