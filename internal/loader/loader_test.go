package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/loadbench/internal/csvsource"
	"github.com/vvka-141/loadbench/internal/logging"
	"github.com/vvka-141/loadbench/internal/sampler"
	"github.com/vvka-141/loadbench/pkg/loadbench"
)

type fakeStore struct {
	calls     []string
	batches   []int
	rows      int64
	failAfter int // fail the n-th InsertRows call (1-based), 0 never
	countOff  int64
}

func (s *fakeStore) CreateTable(ctx context.Context, table string) error {
	s.calls = append(s.calls, "create "+table)
	return nil
}

func (s *fakeStore) Truncate(ctx context.Context, table string) error {
	s.calls = append(s.calls, "truncate "+table)
	s.rows = 0
	return nil
}

func (s *fakeStore) InsertRows(ctx context.Context, table string, rows [][]any) error {
	s.calls = append(s.calls, "insert")
	if s.failAfter > 0 && len(s.batches)+1 == s.failAfter {
		return errors.New(`duplicate key value violates unique constraint "products_pkey"`)
	}
	s.batches = append(s.batches, len(rows))
	s.rows += int64(len(rows))
	return nil
}

func (s *fakeStore) Count(ctx context.Context, table string) (int64, error) {
	return s.rows + s.countOff, nil
}

// climbingSampler reports memory that rises and falls so spikes differ from usage.
type climbingSampler struct{ n int }

func (s *climbingSampler) Sample(ctx context.Context) (sampler.Sample, error) {
	s.n++
	return sampler.Sample{MemoryMB: float64(30 + (s.n*7)%11), CPUPercent: float64((s.n * 13) % 17)}, nil
}

type sliceSource struct {
	rows int
	next int
}

func (s *sliceSource) Next() (csvsource.Product, error) {
	if s.next >= s.rows {
		return csvsource.Product{}, io.EOF
	}
	s.next++
	return csvsource.Product{ID: int64(s.next), Name: fmt.Sprintf("p%d", s.next)}, nil
}

func loadConfig(batch int) *loadbench.LoadConfig {
	return &loadbench.LoadConfig{
		CSVPath:    "products.csv",
		Table:      "products",
		BatchSize:  batch,
		ResultsDir: "results",
		Scenario:   loadbench.Scenario{DB: "PostgreSQL", Mode: "Boring", Variant: "Plain", Language: "Go"},
	}
}

func TestRun_RowAndSampleCounts(t *testing.T) {
	for _, batch := range []int{1, 7, 1000} {
		for _, rows := range []int{0, 1, 6, 7, 8, 999, 1000, 1001, 2500} {
			t.Run(fmt.Sprintf("B=%d/R=%d", batch, rows), func(t *testing.T) {
				store := &fakeStore{}
				l := New(store, &climbingSampler{}, nil)

				res, err := l.Run(context.Background(), &sliceSource{rows: rows}, loadConfig(batch))
				require.NoError(t, err)

				wantBatches := (rows + batch - 1) / batch
				assert.Equal(t, rows, res.TotalRows)
				assert.Equal(t, int64(rows), store.rows)
				assert.Len(t, store.batches, wantBatches)
				assert.Len(t, res.MemoryUsage, wantBatches)
				assert.Len(t, res.CPUUsage, wantBatches)
				assert.Equal(t, wantBatches, res.Batches)
				for i, n := range store.batches {
					if i < len(store.batches)-1 {
						assert.Equal(t, batch, n, "only the last batch may be partial")
					} else {
						assert.LessOrEqual(t, n, batch)
						assert.Greater(t, n, 0)
					}
				}
			})
		}
	}
}

func TestRun_SpikesAreRunningMax(t *testing.T) {
	l := New(&fakeStore{}, &climbingSampler{}, nil)

	res, err := l.Run(context.Background(), &sliceSource{rows: 50}, loadConfig(3))
	require.NoError(t, err)
	require.NoError(t, res.Validate())

	for i := range res.MemorySpikes {
		peak := res.MemoryUsage[0]
		for _, v := range res.MemoryUsage[:i+1] {
			peak = max(peak, v)
		}
		assert.Equal(t, peak, res.MemorySpikes[i])
	}
	assert.Equal(t, res.MemorySpikes[len(res.MemorySpikes)-1], res.PeakMemoryMB)
	assert.Equal(t, res.CPUSpikes[len(res.CPUSpikes)-1], res.PeakCPUPercent)
}

func TestRun_TruncatesBeforeInserting(t *testing.T) {
	store := &fakeStore{}
	cfg := loadConfig(10)
	cfg.CreateTable = true

	_, err := New(store, &climbingSampler{}, nil).Run(context.Background(), &sliceSource{rows: 15}, cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"create products", "truncate products", "insert", "insert"}, store.calls)
}

func TestRun_ThroughputAndMetadata(t *testing.T) {
	clock := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	l := New(&fakeStore{}, &climbingSampler{}, nil)
	l.now = func() time.Time {
		clock = clock.Add(250 * time.Millisecond)
		return clock
	}

	res, err := l.Run(context.Background(), &sliceSource{rows: 4}, loadConfig(2))
	require.NoError(t, err)

	// start, then two ticks per batch, then end
	assert.InDelta(t, 1.25, res.TotalTimeSec, 1e-9)
	assert.InDelta(t, 4/1.25, res.RowsPerSec, 1e-9)
	assert.Equal(t, 2, res.BatchSize)
	assert.Equal(t, "PostgreSQL_Boring_Plain_Go", res.Name())
	assert.Equal(t, time.Date(2026, 5, 1, 10, 0, 0, 250_000_000, time.UTC), res.StartedAt)
	require.NotNil(t, res.BatchLatencyMS)
	assert.InDelta(t, 250, res.BatchLatencyMS.Max, 1)
}

func TestRun_EmptyInputHasNoLatency(t *testing.T) {
	res, err := New(&fakeStore{}, &climbingSampler{}, nil).Run(context.Background(), &sliceSource{}, loadConfig(5))
	require.NoError(t, err)

	assert.Zero(t, res.TotalRows)
	assert.Empty(t, res.MemoryUsage)
	assert.Nil(t, res.BatchLatencyMS)
}

func TestRun_InsertFailureAborts(t *testing.T) {
	store := &fakeStore{failAfter: 2}

	_, err := New(store, &climbingSampler{}, nil).Run(context.Background(), &sliceSource{rows: 30}, loadConfig(10))

	require.ErrorIs(t, err, loadbench.ErrInsertFailed)
	assert.Contains(t, err.Error(), "batch starting at row 11")
	assert.Equal(t, loadbench.ExitInsertFailed, loadbench.ExitCodeForError(err))
	assert.Equal(t, []int{10}, store.batches, "no batches after the failing one")
}

func TestRun_VerifyDetectsMismatch(t *testing.T) {
	cfg := loadConfig(10)
	cfg.Verify = true

	_, err := New(&fakeStore{}, &climbingSampler{}, nil).Run(context.Background(), &sliceSource{rows: 25}, cfg)
	require.NoError(t, err)

	_, err = New(&fakeStore{countOff: 3}, &climbingSampler{}, nil).Run(context.Background(), &sliceSource{rows: 25}, cfg)
	require.ErrorIs(t, err, loadbench.ErrInsertFailed)
	assert.Contains(t, err.Error(), "holds 28 rows, inserted 25")
}

func TestRun_InvalidConfig(t *testing.T) {
	store := &fakeStore{}
	cfg := loadConfig(0)

	_, err := New(store, &climbingSampler{}, nil).Run(context.Background(), &sliceSource{rows: 1}, cfg)

	require.ErrorIs(t, err, loadbench.ErrInvalidConfig)
	assert.Empty(t, store.calls, "nothing touches the database on invalid config")
}

func TestRun_SourceErrorIsReturned(t *testing.T) {
	csv := "Id,Name,Description,Brand,Category,Price,Currency,Stock,EAN,Color,Size,Availability,InternalID\n" +
		"1,a,b,c,d,1,EUR,1,e,f,g,h,1\n" +
		"2,short\n"
	src, err := csvsource.NewReader(strings.NewReader(csv))
	require.NoError(t, err)

	_, err = New(&fakeStore{}, &climbingSampler{}, nil).Run(context.Background(), src, loadConfig(10))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read input after 1 rows")
	assert.NotErrorIs(t, err, loadbench.ErrInsertFailed)
}

func TestRun_ProgressLoggingAndCallback(t *testing.T) {
	logger := logging.NewRecordingLogger()
	l := New(&fakeStore{}, &climbingSampler{}, logger)

	var seen []int
	l.OnProgress(func(rows int) { seen = append(seen, rows) })

	_, err := l.Run(context.Background(), &sliceSource{rows: 250_500}, loadConfig(1000))
	require.NoError(t, err)

	info := logger.Entries("info")
	require.Len(t, info, 2)
	assert.Equal(t, "Inserted 100000", info[0].Message)
	assert.Equal(t, "Inserted 200000", info[1].Message)
	assert.Len(t, seen, 251)
	assert.Equal(t, 250_500, seen[len(seen)-1])
}
