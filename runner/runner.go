// Package runner drives seed sweeps over the simulated workload. The
// deterministic core stays untouched; the runner adds the operational
// surface around it: structured logging, metrics, wall-clock progress
// reporting and crash artifacts.
package runner

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/uuid"
	"github.com/uber-go/tally/v4"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/atn34/simfuzz/random"
	"github.com/atn34/simfuzz/workload"
)

// Runner sweeps seeds, one full simulation per seed.
type Runner struct {
	logger      *zap.Logger
	cfg         Config
	scope       tally.Scope
	scopeCloser io.Closer

	// Written by the sweep loop, read by the progress goroutine.
	seedsTried *atomic.Int64
}

// Create a new Runner.
func New(logger *zap.Logger, cfg Config) *Runner {
	interval := time.Duration(cfg.ReportIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	scope, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix:   "simfuzz",
		Reporter: newZapReporter(logger),
	}, interval)
	return &Runner{
		logger:      logger,
		cfg:         cfg,
		scope:       scope,
		scopeCloser: closer,
		seedsTried:  atomic.NewInt64(0),
	}
}

// SeedsTried reports sweep progress. Safe from any goroutine.
func (r *Runner) SeedsTried() int64 {
	return r.seedsTried.Load()
}

// Close flushes and stops the metrics scope.
func (r *Runner) Close() error {
	return r.scopeCloser.Close()
}

// Sweep loops seeds from start_seed, running one full simulation per seed,
// until max_seeds runs have completed (forever when zero).
//
// An invariant violation aborts the process, as it must so that harnesses
// see a crash; when artifact_dir is set, the replay bytes reproducing the
// crash are saved first.
func (r *Runner) Sweep() error {
	strategy, err := r.cfg.SchedulingStrategy()
	if err != nil {
		return err
	}

	runID := uuid.Must(uuid.NewV4())
	r.logger.Info("Starting sweep",
		zap.String("run_id", runID.String()),
		zap.String("strategy", strategy.String()),
		zap.Int64("start_seed", r.cfg.StartSeed))

	stopProgress := r.reportProgress()
	defer stopProgress()

	for seed := r.cfg.StartSeed; r.cfg.MaxSeeds == 0 || seed < r.cfg.StartSeed+r.cfg.MaxSeeds; seed++ {
		r.logger.Info("Trying seed", zap.Int64("seed", seed))
		if err := r.runSeed(seed, runID); err != nil {
			return fmt.Errorf("runner: seed %v: %w", seed, err)
		}
		r.seedsTried.Inc()
		r.scope.Counter("simulations").Inc(1)
	}

	r.logger.Info("Sweep complete", zap.Int64("seeds", r.seedsTried.Load()))
	return nil
}

func (r *Runner) runSeed(seed int64, runID uuid.UUID) error {
	strategy, err := r.cfg.SchedulingStrategy()
	if err != nil {
		return err
	}
	var oracle random.Random = random.NewSeeded(seed)
	if r.cfg.ArtifactDir != "" {
		rec := random.NewRecord(oracle)
		oracle = rec
		defer func() {
			if p := recover(); p != nil {
				r.saveArtifact(seed, runID, rec.Bytes(), p)
				panic(p)
			}
		}()
	}
	start := time.Now()
	err = workload.RunSimulation(oracle, strategy, r.cfg.Workload(), workload.NopTracer())
	r.scope.Timer("simulation").Record(time.Since(start))
	return err
}

// Write the replay bytes that reproduce the crash, then let the abort
// continue.
func (r *Runner) saveArtifact(seed int64, runID uuid.UUID, replay []byte, cause any) {
	r.scope.Counter("crashes").Inc(1)
	path := filepath.Join(r.cfg.ArtifactDir, fmt.Sprintf("crash-%v-seed-%v", runID, seed))
	if err := os.WriteFile(path, replay, 0o644); err != nil {
		r.logger.Error("Failed to write crash artifact", zap.Int64("seed", seed), zap.Error(err))
		return
	}
	r.logger.Error("Invariant violation, replay bytes saved",
		zap.Int64("seed", seed),
		zap.String("artifact", path),
		zap.Any("cause", cause))
}

// Sample the sweep counters on a wall-clock ticker from a separate
// goroutine. The atomics it reads are the only cross-goroutine state in the
// repository; everything inside a simulation is single-threaded.
func (r *Runner) reportProgress() (stop func()) {
	if r.cfg.ReportIntervalSeconds <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Duration(r.cfg.ReportIntervalSeconds) * time.Second)
		defer ticker.Stop()
		var last int64
		for {
			select {
			case <-ticker.C:
				n := r.seedsTried.Load()
				r.logger.Info("Progress",
					zap.Int64("seeds", n),
					zap.Int64("seeds_since_last_report", n-last))
				last = n
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}

// Trace runs a single seed with the tab-separated event tracer. Two traces
// of the same seed are identical, so a trace diffs cleanly against a
// previous run.
func (r *Runner) Trace(seed int64, w io.Writer) error {
	strategy, err := r.cfg.SchedulingStrategy()
	if err != nil {
		return err
	}
	return workload.RunSimulation(random.NewSeeded(seed), strategy, r.cfg.Workload(), workload.NewWriterTracer(w))
}
