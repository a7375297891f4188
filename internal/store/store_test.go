package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/encore/internal/archive"
	"github.com/Sumatoshi-tech/encore/internal/store"
	"github.com/Sumatoshi-tech/encore/internal/trend"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "nested", "encore.db"))
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, s.Close()) })

	return s
}

func sampleDataset(t *testing.T) *archive.Dataset {
	t.Helper()

	a, err := archive.Open("../archive/testdata/programs.json", archive.Options{})
	require.NoError(t, err)

	return archive.BuildDataset(a)
}

func TestStore_EmptyLoad(t *testing.T) {
	t.Parallel()

	s := openStore(t)

	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, store.ErrNotIngested)

	_, err = s.Info(context.Background())
	assert.ErrorIs(t, err, store.ErrNotIngested)
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openStore(t)
	want := sampleDataset(t)

	require.NoError(t, s.Save(ctx, "programs.json", want))

	got, err := s.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, want.Events(trend.FamilyWork), got.Events(trend.FamilyWork))

	info, err := s.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "programs.json", info.Source)
	assert.Equal(t, 3, info.Concerts)
	assert.Equal(t, 6, info.Works)
	assert.Equal(t, 1, info.Intermissions)
	assert.False(t, info.IngestedAt.IsZero())
}

func TestStore_SaveReplaces(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openStore(t)

	require.NoError(t, s.Save(ctx, "first", sampleDataset(t)))

	smaller := &archive.Dataset{
		Concerts: []archive.ConcertRow{{ID: "c", ProgramID: "p"}},
	}
	require.NoError(t, s.Save(ctx, "second", smaller))

	info, err := s.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", info.Source)
	assert.Equal(t, 1, info.Concerts)
	assert.Zero(t, info.Works)
}

func TestStore_SaveCancelled(t *testing.T) {
	t.Parallel()

	s := openStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, s.Save(ctx, "x", sampleDataset(t)))

	_, err := s.Info(context.Background())
	assert.ErrorIs(t, err, store.ErrNotIngested)
}
