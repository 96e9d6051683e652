package avatar

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avatard/internal/models"
	"avatard/internal/structures"
	"avatard/internal/testutil"
)

type stubRevalidator struct {
	calls   [][]string
	results map[string]bool
}

func (r *stubRevalidator) RevalidateAll(_ context.Context, identities []string) map[string]bool {
	r.calls = append(r.calls, identities)
	out := make(map[string]bool, len(identities))
	for _, id := range identities {
		out[id] = r.results[id]
	}
	return out
}

func schedulerTestConfig(dir string) *structures.Config {
	return &structures.Config{
		Store: structures.StoreConfig{MaxEntries: 100, MaxMemoryMB: 10},
		Revalidation: structures.RevalidationConfig{
			Interval:     time.Hour,
			ExpiryWindow: time.Hour,
			BatchLimit:   10,
		},
		Persistence: structures.Persistence{
			FilePath:     filepath.Join(dir, "avatars.dat"),
			SaveInterval: time.Hour,
		},
	}
}

func TestScheduler_PersistRestoreRoundtrip(t *testing.T) {
	conf := schedulerTestConfig(t.TempDir())
	logger := &testutil.MockLogger{}

	src := NewRecordStore(conf)
	src.Put(testRecord("alice", models.SourceScraper, time.Hour))
	srcFM := NewFileManager(&testutil.MockCompressor{}, src, logger)
	require.NoError(t, NewScheduler(conf, logger, &stubRevalidator{}, src, srcFM).Persist())

	dst := NewRecordStore(conf)
	dstFM := NewFileManager(&testutil.MockCompressor{}, dst, logger)
	require.NoError(t, NewScheduler(conf, logger, &stubRevalidator{}, dst, dstFM).Restore())

	assert.Equal(t, 1, dst.Len())
}

func TestScheduler_RestoreWithoutSnapshot(t *testing.T) {
	conf := schedulerTestConfig(t.TempDir())
	logger := &testutil.MockLogger{}
	store := NewRecordStore(conf)
	fm := NewFileManager(&testutil.MockCompressor{}, store, logger)

	require.NoError(t, NewScheduler(conf, logger, &stubRevalidator{}, store, fm).Restore())
	assert.Equal(t, 0, store.Len())
}

func TestScheduler_PersistErrorPropagates(t *testing.T) {
	conf := schedulerTestConfig(t.TempDir())
	conf.Persistence.FilePath = filepath.Join(conf.Persistence.FilePath, "not-a-dir", "x.dat")
	logger := &testutil.MockLogger{}
	store := NewRecordStore(conf)
	fm := NewFileManager(&testutil.MockCompressor{}, store, logger)

	assert.Error(t, NewScheduler(conf, logger, &stubRevalidator{}, store, fm).Persist())
}

func TestScheduler_RevalidateExpiringPicksNearExpiry(t *testing.T) {
	conf := schedulerTestConfig(t.TempDir())
	logger := &testutil.MockLogger{}
	store := NewRecordStore(conf)
	store.Put(testRecord("soon", models.SourceScraper, 10*time.Minute))
	store.Put(testRecord("later", models.SourceScraper, 100*time.Hour))

	reval := &stubRevalidator{results: map[string]bool{"soon": true}}
	fm := NewFileManager(&testutil.MockCompressor{}, store, logger)
	sched := NewScheduler(conf, logger, reval, store, fm).(*Scheduler)

	sched.revalidateExpiring()

	require.Len(t, reval.calls, 1)
	assert.Equal(t, []string{"soon"}, reval.calls[0])
}

func TestScheduler_RevalidateExpiringHonorsBatchLimit(t *testing.T) {
	conf := schedulerTestConfig(t.TempDir())
	conf.Revalidation.BatchLimit = 2
	logger := &testutil.MockLogger{}
	store := NewRecordStore(conf)
	for _, id := range []string{"a", "b", "c", "d"} {
		store.Put(testRecord(id, models.SourceScraper, time.Minute))
	}

	reval := &stubRevalidator{}
	fm := NewFileManager(&testutil.MockCompressor{}, store, logger)
	sched := NewScheduler(conf, logger, reval, store, fm).(*Scheduler)

	sched.revalidateExpiring()

	require.Len(t, reval.calls, 1)
	assert.Len(t, reval.calls[0], 2)
}

func TestScheduler_RevalidateExpiringNoCandidates(t *testing.T) {
	conf := schedulerTestConfig(t.TempDir())
	logger := &testutil.MockLogger{}
	store := NewRecordStore(conf)
	store.Put(testRecord("later", models.SourceScraper, 100*time.Hour))

	reval := &stubRevalidator{}
	fm := NewFileManager(&testutil.MockCompressor{}, store, logger)
	sched := NewScheduler(conf, logger, reval, store, fm).(*Scheduler)

	sched.revalidateExpiring()
	assert.Empty(t, reval.calls)
}

func TestScheduler_InitAndStop(t *testing.T) {
	conf := schedulerTestConfig(t.TempDir())
	logger := &testutil.MockLogger{}
	store := NewRecordStore(conf)
	fm := NewFileManager(&testutil.MockCompressor{}, store, logger)

	sched := NewScheduler(conf, logger, &stubRevalidator{}, store, fm)
	sched.Init()
	sched.Stop()

	// No jobs fired with hour-scale intervals.
	_, err := os.Stat(conf.Persistence.FilePath)
	assert.True(t, os.IsNotExist(err))
}
