package history

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and creates if needed) a history database.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, historyErr(err, "could not open history database").WithContext("path", dbPath).Build()
	}
	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, historyErr(err, "failed to initialize history schema").WithContext("path", dbPath).Build()
	}
	return store, nil
}

func historyErr(err error, msg string) *errors.ErrorBuilder {
	return errors.WrapError(err, errors.CategoryHistory, msg).WithSeverity(errors.SeverityError)
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		trigger_source TEXT,
		revision TEXT,
		posts INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		error TEXT,
		output_path TEXT
	);
	CREATE TABLE IF NOT EXISTS pages (
		build_id TEXT NOT NULL REFERENCES builds(id),
		path TEXT NOT NULL,
		kind TEXT NOT NULL,
		slug TEXT,
		fingerprint TEXT,
		PRIMARY KEY (build_id, path)
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordBuild stores a build and its pages in one transaction.
func (s *SQLiteStore) RecordBuild(ctx context.Context, b Build, pages []Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return historyErr(err, "failed to begin history transaction").Build()
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO builds (id, started_at, duration_ms, outcome, trigger_source, revision, posts, pages, warnings, error, output_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.StartedAt.UnixMilli(), b.Duration.Milliseconds(), b.Outcome, b.Trigger, b.Revision,
		b.Posts, b.Pages, b.Warnings, b.Error, b.OutputPath,
	)
	if err != nil {
		return historyErr(err, "failed to insert build").WithContext("build_id", b.ID).Build()
	}

	for _, p := range pages {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO pages (build_id, path, kind, slug, fingerprint) VALUES (?, ?, ?, ?, ?)",
			b.ID, p.Path, p.Kind, p.Slug, p.Fingerprint,
		)
		if err != nil {
			return historyErr(err, "failed to insert page").WithContext("build_id", b.ID).WithContext("path", p.Path).Build()
		}
	}

	if err := tx.Commit(); err != nil {
		return historyErr(err, "failed to commit history transaction").Build()
	}
	return nil
}

// Recent returns up to limit builds, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Build, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ms, outcome, trigger_source, revision, posts, pages, warnings, error, output_path
		 FROM builds ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, historyErr(err, "failed to query builds").Build()
	}
	defer func() { _ = rows.Close() }()

	var builds []Build
	for rows.Next() {
		var (
			b                   Build
			startedMS, durMS    int64
			trigger, rev, e, op sql.NullString
		)
		if err := rows.Scan(&b.ID, &startedMS, &durMS, &b.Outcome, &trigger, &rev, &b.Posts, &b.Pages, &b.Warnings, &e, &op); err != nil {
			return nil, historyErr(err, "failed to scan build row").Build()
		}
		b.StartedAt = time.UnixMilli(startedMS)
		b.Duration = time.Duration(durMS) * time.Millisecond
		b.Trigger, b.Revision, b.Error, b.OutputPath = trigger.String, rev.String, e.String, op.String
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, historyErr(err, "failed to iterate build rows").Build()
	}
	return builds, nil
}

// Pages returns the pages emitted by a build ordered by path.
func (s *SQLiteStore) Pages(ctx context.Context, buildID string) ([]Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT path, kind, slug, fingerprint FROM pages WHERE build_id = ? ORDER BY path", buildID)
	if err != nil {
		return nil, historyErr(err, "failed to query pages").WithContext("build_id", buildID).Build()
	}
	defer func() { _ = rows.Close() }()

	var pages []Page
	for rows.Next() {
		var p Page
		var slug, fp sql.NullString
		if err := rows.Scan(&p.Path, &p.Kind, &slug, &fp); err != nil {
			return nil, historyErr(err, "failed to scan page row").Build()
		}
		p.Slug, p.Fingerprint = slug.String, fp.String
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, historyErr(err, "failed to iterate page rows").Build()
	}
	return pages, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
