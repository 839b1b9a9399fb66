package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

func TestSQLiteStore_RecordAndQuery(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := t.Context()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	first := Build{ID: "b1", StartedAt: base, Duration: 1500 * time.Millisecond, Outcome: "success", Posts: 2, Pages: 1}
	second := Build{ID: "b2", StartedAt: base.Add(time.Minute), Duration: time.Second, Outcome: "failed", Error: "boom", Trigger: "fs"}

	require.NoError(t, store.RecordBuild(ctx, first, []Page{
		{Path: "index.html", Kind: "home"},
		{Path: "blog/hello/index.html", Kind: "post", Slug: "hello", Fingerprint: "fp1"},
	}))
	require.NoError(t, store.RecordBuild(ctx, second, nil))

	builds, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, builds, 2)
	require.Equal(t, "b2", builds[0].ID)
	require.Equal(t, "boom", builds[0].Error)
	require.Equal(t, "fs", builds[0].Trigger)
	require.Equal(t, "b1", builds[1].ID)
	require.Equal(t, 1500*time.Millisecond, builds[1].Duration)
	require.True(t, base.Equal(builds[1].StartedAt))

	limited, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)

	pages, err := store.Pages(ctx, "b1")
	require.NoError(t, err)
	require.Equal(t, []Page{
		{Path: "blog/hello/index.html", Kind: "post", Slug: "hello", Fingerprint: "fp1"},
		{Path: "index.html", Kind: "home"},
	}, pages)
}

func TestSQLiteStore_DuplicateBuildIsHistoryError(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	b := Build{ID: "same", StartedAt: time.Now(), Outcome: "success"}
	require.NoError(t, store.RecordBuild(t.Context(), b, nil))
	err = store.RecordBuild(t.Context(), b, nil)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryHistory))
}

func TestSQLiteStore_PersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.RecordBuild(t.Context(), Build{ID: "x", StartedAt: time.Now(), Outcome: "success"}, nil))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	builds, err := reopened.Recent(t.Context(), 5)
	require.NoError(t, err)
	require.Len(t, builds, 1)
}
