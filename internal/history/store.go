// Package history persists a record of every build and the pages it emitted.
package history

import (
	"context"
	"time"
)

// Build summarises one build run.
type Build struct {
	ID         string
	StartedAt  time.Time
	Duration   time.Duration
	Outcome    string
	Trigger    string
	Revision   string
	Posts      int
	Pages      int
	Warnings   int
	Error      string
	OutputPath string
}

// Page is one file emitted by a build.
type Page struct {
	Path        string // relative to the output directory
	Kind        string // post, page, listing, home
	Slug        string
	Fingerprint string
}

// Store records builds.
type Store interface {
	RecordBuild(ctx context.Context, b Build, pages []Page) error
	// Recent returns up to limit builds, newest first.
	Recent(ctx context.Context, limit int) ([]Build, error)
	Pages(ctx context.Context, buildID string) ([]Page, error)
	Close() error
}
