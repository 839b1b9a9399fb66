package site

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/history"
	"git.home.luguber.info/inful/sitegen/internal/linkverify"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// Report captures the result of one build.
type Report struct {
	BuildID  string
	Trigger  string
	Revision string
	Start    time.Time
	End      time.Time

	Posts int
	Pages int

	StageDurations  map[StageName]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	Errors          []error // fatal or canceled, at most one
	Warnings        []error
	BrokenLinks     []linkverify.Broken
	// Emitted lists every file written, relative to the output directory.
	Emitted []history.Page

	Outcome metrics.BuildOutcome
}

func newReport(buildID, trigger string) *Report {
	return &Report{
		BuildID:         buildID,
		Trigger:         trigger,
		Start:           time.Now(),
		StageDurations:  make(map[StageName]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
	}
}

func (r *Report) recordError(se *StageError) {
	r.StageErrorKinds[se.Stage] = se.Kind
	if se.Kind == StageErrorWarning {
		r.Warnings = append(r.Warnings, se)
		return
	}
	r.Errors = append(r.Errors, se)
}

func (r *Report) finish() {
	r.End = time.Now()
	switch {
	case len(r.Errors) > 0:
		r.Outcome = metrics.OutcomeFailed
		for _, err := range r.Errors {
			if se, ok := err.(*StageError); ok && se.Kind == StageErrorCanceled {
				r.Outcome = metrics.OutcomeCanceled
			}
		}
	case len(r.Warnings) > 0:
		r.Outcome = metrics.OutcomeWarning
	default:
		r.Outcome = metrics.OutcomeSuccess
	}
}

// Duration is the wall time of the build.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

// TotalPages counts the rendered posts, pages, the listing and the home page.
func (r *Report) TotalPages() int { return r.Posts + r.Pages + 2 }

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("posts=%d pages=%d total=%d duration=%s warnings=%d broken_links=%d outcome=%s",
		r.Posts, r.Pages, r.TotalPages(), r.Duration().Truncate(time.Millisecond), len(r.Warnings), len(r.BrokenLinks), r.Outcome)
}

// historyBuild converts the report to a history record.
func (r *Report) historyBuild(output string) history.Build {
	b := history.Build{
		ID:         r.BuildID,
		StartedAt:  r.Start,
		Duration:   r.Duration(),
		Outcome:    string(r.Outcome),
		Trigger:    r.Trigger,
		Revision:   r.Revision,
		Posts:      r.Posts,
		Pages:      r.Pages,
		Warnings:   len(r.Warnings),
		OutputPath: output,
	}
	if len(r.Errors) > 0 {
		b.Error = r.Errors[0].Error()
	}
	return b
}
