package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hyperpolymath/union-policy-parser/pkg/policy"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/merge"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/validator"
)

// Record is the audit trail entry for a single resolution run.
type Record struct {
	// ID is a UUID v4 assigned when the record is created.
	ID string `json:"id"`

	// RequestID correlates the record with the resolution request.
	RequestID string `json:"request_id"`

	// RecordedTime is when the record was created.
	RecordedTime time.Time `json:"recorded_time"`

	// Target is the resolved target source id.
	Target string `json:"target"`

	// State is the terminal pipeline state.
	State string `json:"state"`

	// FailedState names the stage that failed, empty on success.
	FailedState string `json:"failed_state,omitempty"`

	// Sources lists the input source ids in declaration order.
	Sources []string `json:"sources,omitempty"`

	// Conflicts are the per-field merge decisions, including the partial
	// list gathered before a merge failure.
	Conflicts []merge.ConflictRecord `json:"conflicts,omitempty"`

	// LeafCount is the number of leaves in the effective policy.
	LeafCount int `json:"leaf_count"`

	// ErrorCount and WarningCount summarize the validation diagnostics.
	ErrorCount   int `json:"error_count"`
	WarningCount int `json:"warning_count"`

	// Error is the terminal pipeline error message, empty on success.
	Error string `json:"error,omitempty"`

	// Duration is the wall-clock resolution time.
	Duration time.Duration `json:"duration"`
}

// NewRecord builds an audit record from a resolution result. The resolveErr,
// when non-nil, is the error the pipeline returned alongside the result.
func NewRecord(res *policy.Result, sources []string, resolveErr error) *Record {
	rec := &Record{
		ID:           uuid.NewString(),
		RequestID:    res.RequestID,
		RecordedTime: time.Now().UTC(),
		Target:       res.Target,
		State:        string(res.State),
		FailedState:  string(res.FailedState),
		Sources:      sources,
		Conflicts:    res.Conflicts,
		Duration:     res.Duration,
	}
	if res.Effective != nil {
		rec.LeafCount = res.Effective.LeafCount()
	}
	for _, d := range res.Diagnostics {
		switch d.Severity {
		case validator.SeverityError:
			rec.ErrorCount++
		case validator.SeverityWarning:
			rec.WarningCount++
		}
	}
	if resolveErr != nil {
		rec.Error = resolveErr.Error()
	}
	return rec
}

// Query filters audit records.
type Query struct {
	// StartTime and EndTime bound RecordedTime, inclusive.
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	// Target filters by resolved target.
	Target string `json:"target,omitempty"`

	// State filters by terminal state.
	State string `json:"state,omitempty"`

	// IDs restricts the query to exactly these record ids.
	IDs []string `json:"ids,omitempty"`

	// Limit caps the number of records returned; zero means no cap.
	Limit int `json:"limit,omitempty"`

	// Offset skips the first N matching records.
	Offset int `json:"offset,omitempty"`
}

// Storage is a backend for audit records. Implementations must be safe for
// concurrent use.
type Storage interface {
	// Store persists an audit record.
	Store(ctx context.Context, record *Record) error

	// Query retrieves records matching the filters, newest first.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of records matching the filters.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes records matching the filters and returns how many
	// were removed.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Close releases backend resources.
	Close() error
}
