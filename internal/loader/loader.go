package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vvka-141/loadbench/internal/csvsource"
	"github.com/vvka-141/loadbench/internal/logging"
	"github.com/vvka-141/loadbench/internal/result"
	"github.com/vvka-141/loadbench/internal/sampler"
	"github.com/vvka-141/loadbench/pkg/loadbench"
)

// Source yields products until io.EOF.
type Source interface {
	Next() (csvsource.Product, error)
}

// Store is the database side of a load run.
type Store interface {
	CreateTable(ctx context.Context, table string) error
	Truncate(ctx context.Context, table string) error
	InsertRows(ctx context.Context, table string, rows [][]any) error
	Count(ctx context.Context, table string) (int64, error)
}

// Loader executes load runs. Not safe for concurrent use.
type Loader struct {
	store    Store
	sampler  sampler.Sampler
	logger   loadbench.Logger
	progress func(rows int)
	now      func() time.Time
}

// New creates a Loader writing through store and sampling with smp.
func New(store Store, smp sampler.Sampler, logger loadbench.Logger) *Loader {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Loader{
		store:   store,
		sampler: smp,
		logger:  logger,
		now:     time.Now,
	}
}

// OnProgress registers fn to be called with the running row count after every batch.
func (l *Loader) OnProgress(fn func(rows int)) {
	l.progress = fn
}

// Run truncates the target table, streams src into it and returns the result document.
// The caller writes the document; Run never touches the results directory.
func (l *Loader) Run(ctx context.Context, src Source, cfg *loadbench.LoadConfig) (*result.BenchmarkResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.CreateTable {
		l.logger.Verbose("Ensuring table %s exists", cfg.Table)
		if err := l.store.CreateTable(ctx, cfg.Table); err != nil {
			return nil, fmt.Errorf("%w: %w", loadbench.ErrInsertFailed, err)
		}
	}

	l.logger.Verbose("Truncating %s", cfg.Table)
	if err := l.store.Truncate(ctx, cfg.Table); err != nil {
		return nil, fmt.Errorf("%w: %w", loadbench.ErrInsertFailed, err)
	}

	rec := sampler.NewRecorder(l.sampler, l.logger)
	run := &batchRun{
		loader: l,
		cfg:    cfg,
		rec:    rec,
		batch:  make([][]any, 0, cfg.BatchSize),
	}

	startedAt := l.now()

	for {
		p, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read input after %d rows: %w", run.rows+len(run.batch), err)
		}

		run.batch = append(run.batch, p.Values())
		if len(run.batch) >= cfg.BatchSize {
			if err := run.flush(ctx); err != nil {
				return nil, err
			}
		}
	}

	if len(run.batch) > 0 {
		if err := run.flush(ctx); err != nil {
			return nil, err
		}
	}

	elapsed := l.now().Sub(startedAt)

	if cfg.Verify {
		if err := l.verify(ctx, cfg.Table, run.rows); err != nil {
			return nil, err
		}
	}

	res := result.New(cfg.Scenario, run.rows, elapsed, rec.Memory, rec.CPU)
	res.StartedAt = startedAt.UTC()
	res.BatchSize = cfg.BatchSize
	res.Batches = rec.Samples()
	if rec.Samples() > 0 {
		lat := rec.Latency()
		res.BatchLatencyMS = &result.Latency{P50: lat.P50, P90: lat.P90, P99: lat.P99, Max: lat.Max, Mean: lat.Mean}
	}

	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("recorded series are inconsistent: %w", err)
	}

	l.logger.Verbose("Loaded %d rows in %d batches (%.2fs)", run.rows, res.Batches, res.TotalTimeSec)
	return res, nil
}

func (l *Loader) verify(ctx context.Context, table string, want int) error {
	got, err := l.store.Count(ctx, table)
	if err != nil {
		return fmt.Errorf("%w: %w", loadbench.ErrInsertFailed, err)
	}
	if got != int64(want) {
		return fmt.Errorf("%w: table %s holds %d rows, inserted %d", loadbench.ErrInsertFailed, table, got, want)
	}
	l.logger.Verbose("Verified %d rows in %s", got, table)
	return nil
}

// batchRun holds the state of one Run between flushes.
type batchRun struct {
	loader  *Loader
	cfg     *loadbench.LoadConfig
	rec     *sampler.Recorder
	batch   [][]any
	rows    int
	lastLog int
}

// flush inserts and commits the pending batch, then samples exactly once.
func (r *batchRun) flush(ctx context.Context) error {
	l := r.loader

	start := l.now()
	if err := l.store.InsertRows(ctx, r.cfg.Table, r.batch); err != nil {
		return fmt.Errorf("%w: batch starting at row %d: %w", loadbench.ErrInsertFailed, r.rows+1, err)
	}
	took := l.now().Sub(start)

	r.rows += len(r.batch)
	r.batch = r.batch[:0]
	r.rec.Record(ctx, took)

	if r.rows-r.lastLog >= loadbench.ProgressLogInterval {
		l.logger.Info("Inserted %d", r.rows)
		r.lastLog = r.rows
	}
	if l.progress != nil {
		l.progress(r.rows)
	}
	return nil
}
