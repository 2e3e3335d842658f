package convert

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"usdabc/internal/faults"
)

// Direction names which way a conversion ran.
type Direction string

const (
	DirectionWrite Direction = "write"
	DirectionRead  Direction = "read"
)

// Status is the outcome for one prim.
type Status string

const (
	// StatusConverted means the prim's curves were converted.
	StatusConverted Status = "converted"
	// StatusHierarchy means the prim carried no curves and only its path was
	// kept.
	StatusHierarchy Status = "hierarchy"
	// StatusFailed means the prim was not converted.
	StatusFailed Status = "failed"
	// StatusSkipped means the batch was aborted before the prim was reached.
	StatusSkipped Status = "skipped"
)

// Severity ranks report issues.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// KindVelocitiesDropped marks prims whose velocities were not carried over.
const KindVelocitiesDropped = "velocities_dropped"

// KindBasisPrecision marks prims whose non-hermite native payload cannot
// reproduce the tangents within gf.DefaultTolerance.
const KindBasisPrecision = "basis_precision"

// Issue is one warning or error attached to a prim.
type Issue struct {
	Kind      string   `json:"kind"`
	Severity  Severity `json:"severity"`
	Attribute string   `json:"attribute,omitempty"`
	Message   string   `json:"message"`
}

func warningIssue(attr string, err error) Issue {
	return Issue{Kind: string(faults.Classify(err)), Severity: SeverityWarning, Attribute: attr, Message: err.Error()}
}

func errorIssue(err error) Issue {
	return Issue{Kind: string(faults.Classify(err)), Severity: SeverityError, Message: err.Error()}
}

// PrimResult is the per-prim section of a Report.
type PrimResult struct {
	Path    string  `json:"path"`
	Type    string  `json:"type,omitempty"`
	Status  Status  `json:"status"`
	Curves  int     `json:"curves,omitempty"`
	Samples int     `json:"samples,omitempty"`
	Issues  []Issue `json:"issues,omitempty"`

	err *PrimError
}

// Err returns the prim's failure, or nil.
func (r PrimResult) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

func (r *PrimResult) fail(err error) {
	r.Status = StatusFailed
	r.err = newPrimError(r.Path, err)
	r.Issues = append(r.Issues, errorIssue(err))
}

// Report is the structured record of one conversion run.
type Report struct {
	RunID       uuid.UUID    `json:"run_id"`
	Direction   Direction    `json:"direction"`
	Source      string       `json:"source"`
	Destination string       `json:"destination,omitempty"`
	ArchiveID   string       `json:"archive_id,omitempty"`
	Basis       string       `json:"basis,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
	Aborted     bool         `json:"aborted,omitempty"`
	Prims       []PrimResult `json:"prims"`
}

func newReport(direction Direction, source, destination string) *Report {
	return &Report{
		RunID:       uuid.New(),
		Direction:   direction,
		Source:      source,
		Destination: destination,
		StartedAt:   time.Now().UTC(),
	}
}

// Summary tallies prim outcomes.
type Summary struct {
	Converted int `json:"converted"`
	Hierarchy int `json:"hierarchy"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
	Warnings  int `json:"warnings"`
}

// Summary counts prims by status and issues by severity.
func (r *Report) Summary() Summary {
	var s Summary
	for _, prim := range r.Prims {
		switch prim.Status {
		case StatusConverted:
			s.Converted++
		case StatusHierarchy:
			s.Hierarchy++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		}
		for _, issue := range prim.Issues {
			if issue.Severity == SeverityWarning {
				s.Warnings++
			}
		}
	}
	return s
}

// HasErrors reports whether any prim failed or was skipped.
func (r *Report) HasErrors() bool {
	if r == nil {
		return false
	}
	for _, prim := range r.Prims {
		if prim.Status == StatusFailed || prim.Status == StatusSkipped {
			return true
		}
	}
	return false
}

// Err joins every prim failure, or returns nil when all prims succeeded.
func (r *Report) Err() error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, prim := range r.Prims {
		if prim.err != nil {
			errs = append(errs, prim.err)
		}
	}
	return errors.Join(errs...)
}

// Prim returns the result for path, or nil.
func (r *Report) Prim(path string) *PrimResult {
	for i := range r.Prims {
		if r.Prims[i].Path == path {
			return &r.Prims[i]
		}
	}
	return nil
}
