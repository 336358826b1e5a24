package store

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/username/workdays/internal/workdays"
)

func setupTestRepo(t *testing.T) *OverrideRepository {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewOverrideRepository(db, zap.NewNop())
}

func TestOpen_MigrationsIdempotent(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	// a second run must find everything applied
	require.NoError(t, Migrate(db.conn))
}

func TestLoadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"m/010_later.sql":        {Data: []byte("SELECT 1;")},
		"m/002_create_table.sql": {Data: []byte("SELECT 2;")},
		"m/README.md":            {Data: []byte("ignored")},
	}

	migrations, err := loadMigrations(fsys, "m")
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	require.Equal(t, float64(2), migrations[0].Version)
	require.Equal(t, "create table", migrations[0].Description)
	require.Equal(t, float64(10), migrations[1].Version)

	_, err = loadMigrations(fstest.MapFS{"m/bad.sql": {Data: []byte("")}}, "m")
	require.Error(t, err)
}

func TestOverrideRepository_PutGetList(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	require.NoError(t, repo.Put(ctx, workdays.DayOverride{Date: "2025-01-15", Excluded: true}))
	require.NoError(t, repo.Put(ctx, workdays.DayOverride{Date: "2025-01-18", Excluded: false}))

	ov, found, err := repo.Get(ctx, "2025-01-15")
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, ov.Excluded)

	_, found, err = repo.Get(ctx, "2025-01-16")
	require.NoError(t, err)
	require.False(t, found)

	// upsert flips the stored flag
	require.NoError(t, repo.Put(ctx, workdays.DayOverride{Date: "2025-01-15", Excluded: false}))
	ov, _, err = repo.Get(ctx, "2025-01-15")
	require.NoError(t, err)
	require.False(t, ov.Excluded)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, workdays.DayOverride{Date: "2025-01-18", Excluded: false}, all["2025-01-18"])
}

func TestOverrideRepository_PutRejectsBadDate(t *testing.T) {
	repo := setupTestRepo(t)
	require.Error(t, repo.Put(context.Background(), workdays.DayOverride{Date: "15/01/2025"}))
}

func TestOverrideRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	require.NoError(t, repo.Put(ctx, workdays.DayOverride{Date: "2025-03-03", Excluded: true}))
	require.NoError(t, repo.Delete(ctx, "2025-03-03"))
	require.NoError(t, repo.Delete(ctx, "2025-03-03"))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestOverrideRepository_ClearMonth(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	for _, date := range []string{"2025-01-10", "2025-01-20", "2025-02-03", "2024-01-10"} {
		require.NoError(t, repo.Put(ctx, workdays.DayOverride{Date: date, Excluded: true}))
	}

	jan, err := repo.ListMonth(ctx, 2025, time.January)
	require.NoError(t, err)
	require.Len(t, jan, 2)

	removed, err := repo.ClearMonth(ctx, 2025, time.January)
	require.NoError(t, err)
	require.Equal(t, int64(2), removed)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Contains(t, all, "2025-02-03")
	require.Contains(t, all, "2024-01-10")

	removed, err = repo.ClearMonth(ctx, 2025, time.January)
	require.NoError(t, err)
	require.Zero(t, removed)
}

func TestOverrideRepository_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	require.NoError(t, repo.Put(ctx, workdays.DayOverride{Date: "2025-05-05", Excluded: true}))

	next := workdays.Overrides{
		"2025-06-02": {Date: "2025-06-02", Excluded: true},
		"2025-06-07": {Date: "2025-06-07", Excluded: false},
	}
	require.NoError(t, repo.ReplaceAll(ctx, next))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, next, all)

	// a bad key rolls the whole replacement back
	err = repo.ReplaceAll(ctx, workdays.Overrides{"nope": {Date: "nope"}})
	require.Error(t, err)

	all, err = repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, next, all)

	// one put, one replacement; the rolled back attempt leaves no event
	events, err := repo.Events(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, ActionImport, events[0].Action)
	require.Equal(t, "*", events[0].Date)
	require.Equal(t, ActionExclude, events[1].Action)
}

func TestOverrideRepository_Events(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	require.NoError(t, repo.Put(ctx, workdays.DayOverride{Date: "2025-01-06", Excluded: true}))
	require.NoError(t, repo.Put(ctx, workdays.DayOverride{Date: "2025-01-06", Excluded: false}))
	require.NoError(t, repo.Delete(ctx, "2025-01-06"))
	require.NoError(t, repo.Put(ctx, workdays.DayOverride{Date: "2025-01-07", Excluded: true}))
	_, err := repo.ClearMonth(ctx, 2025, time.January)
	require.NoError(t, err)

	events, err := repo.Events(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 5)

	actions := make([]string, len(events))
	for i, e := range events {
		actions[i] = e.Action
	}
	require.Equal(t, []string{ActionClearMonth, ActionExclude, ActionRemove, ActionInclude, ActionExclude}, actions)
	require.Equal(t, "2025-01", events[0].Date)

	limited, err := repo.Events(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
}
