package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/amp-labs/amp-flat/compare"
	"github.com/amp-labs/amp-flat/logger"
	"github.com/amp-labs/amp-flat/maps"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

const tracerName = "github.com/amp-labs/amp-flat/bench"

// Span names emitted by Run.
const (
	SpanRun      = "bench.run"
	SpanScenario = "bench.scenario"
	SpanPhase    = "bench.phase"
)

// ErrChecksumMismatch is returned when two containers disagree about the
// answer to the same workload.
var ErrChecksumMismatch = errors.New("containers disagree")

// Operations measured by a scenario, in execution order.
const (
	OpBuild  = "build"
	OpGet    = "get"
	OpRange  = "range"
	OpInsert = "insert"
	OpRemove = "remove"
)

// batchSize is the number of operations timed together for one histogram
// observation. Timing single operations would mostly measure the clock.
const batchSize = 256

// Result is the measurement of one operation on one container.
type Result struct {
	Container string        `json:"container"  yaml:"container"`
	Operation string        `json:"operation"  yaml:"operation"`
	Ops       int           `json:"ops"        yaml:"ops"`
	Elapsed   time.Duration `json:"elapsedNs"  yaml:"elapsed"`
	NsPerOp   float64       `json:"nsPerOp"    yaml:"nsPerOp"`
	Entries   int           `json:"entries"    yaml:"entries"`
	Checksum  uint64        `json:"checksum"   yaml:"checksum"`
}

// Option customizes a Runner.
type Option func(*Runner)

// WithLogger makes the runner log to l instead of the context logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.log = l
	}
}

// WithRunID fixes the run identifier instead of generating a random one.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.runID = id
	}
}

// WithTracerProvider makes the runner create its spans from tp instead of the
// global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Runner) {
		r.tracer = tp.Tracer(tracerName)
	}
}

// Runner replays a workload against a set of containers.
type Runner struct {
	cfg    Config
	runID  string
	log    *slog.Logger
	tracer trace.Tracer

	completed *atomic.Int64
	failed    *atomic.Int32
}

// NewRunner normalizes and validates cfg and returns a runner for it.
func NewRunner(cfg Config, opts ...Option) (*Runner, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:       cfg,
		runID:     uuid.NewString(),
		tracer:    otel.GetTracerProvider().Tracer(tracerName),
		completed: atomic.NewInt64(0),
		failed:    atomic.NewInt32(0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// RunID identifies this runner's results in logs, metrics and reports.
func (r *Runner) RunID() string {
	return r.runID
}

// Completed returns how many operations have finished so far, across all
// containers. It is safe to call while Run is in progress.
func (r *Runner) Completed() int64 {
	return r.completed.Load()
}

func (r *Runner) logFor(ctx context.Context) *slog.Logger {
	if r.log != nil {
		return r.log
	}

	return logger.Get(ctx)
}

// endSpan records err, if any, on span and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	span.End()
}

// Run generates the workload and runs one scenario per container on a pool of
// cfg.Workers goroutines. It returns a report with every result that was
// collected, together with the joined errors of the scenarios that failed.
func (r *Runner) Run(ctx context.Context) (report *Report, err error) {
	ctx = logger.WithRunId(ctx, r.runID)
	started := time.Now()

	ctx, span := r.tracer.Start(ctx, SpanRun, trace.WithAttributes(
		attribute.String("run_id", r.runID),
		attribute.Int("size", r.cfg.Size),
		attribute.Int("ops", r.cfg.Ops),
		attribute.Int("workers", r.cfg.Workers),
	))
	defer func() { endSpan(span, err) }()

	workload := Generate(r.cfg.Size, r.cfg.Ops, r.cfg.Seed)
	mets := newMetrics(r.runID)

	r.logFor(ctx).Info("starting benchmark run",
		"containers", r.cfg.Containers,
		"size", r.cfg.Size,
		"ops", r.cfg.Ops,
		"workers", r.cfg.Workers)

	pool := pond.NewPool(r.cfg.Workers, pond.WithContext(ctx))
	defer pool.StopAndWait()

	var (
		mu      sync.Mutex
		results []Result
	)

	tasks := make([]pond.Task, 0, len(r.cfg.Containers))

	for _, name := range r.cfg.Containers {
		tasks = append(tasks, pool.SubmitErr(func() error {
			scenarioCtx := logger.With(ctx, "container", name)

			got, err := r.scenario(scenarioCtx, name, workload, mets)

			mu.Lock()
			results = append(results, got...)
			mu.Unlock()

			if err != nil {
				r.failed.Inc()
				mets.failures.WithLabelValues(name).Inc()

				return logger.AnnotateError(err, "container", name)
			}

			return nil
		}))
	}

	var errs []error

	for _, task := range tasks {
		if err := task.Wait(); err != nil {
			errs = append(errs, err)
		}
	}

	sortResults(results)

	if err := crossCheck(results); err != nil {
		errs = append(errs, err)
	}

	families, gatherErr := mets.registry.Gather()
	if gatherErr != nil {
		errs = append(errs, fmt.Errorf("gathering metrics: %w", gatherErr))
	}

	report = &Report{
		RunID:     r.runID,
		StartedAt: started,
		Duration:  time.Since(started),
		Seed:      r.cfg.Seed,
		Size:      r.cfg.Size,
		Ops:       r.cfg.Ops,
		Workers:   r.cfg.Workers,
		Results:   results,
		Metrics:   families,
	}

	if joined := errors.Join(errs...); joined != nil {
		r.logFor(ctx).Error("benchmark run failed", "failed", r.failed.Load(), "error", joined)

		return report, joined
	}

	r.logFor(ctx).Info("benchmark run finished", "duration", report.Duration, "operations", r.Completed())

	return report, nil
}

// scenario runs every phase against a fresh container. Read-only containers
// skip the insert and remove phases.
func (r *Runner) scenario(
	ctx context.Context, name string, w *Workload, mets *metrics,
) (results []Result, err error) {
	ctx, span := r.tracer.Start(ctx, SpanScenario, trace.WithAttributes(
		attribute.String("run_id", r.runID),
		attribute.String("container", name),
	))
	defer func() { endSpan(span, err) }()

	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownContainer, name)
	}

	var m maps.SortedMap[uint64, uint64]

	startPhase := func(op string) trace.Span {
		_, phaseSpan := r.tracer.Start(ctx, SpanPhase, trace.WithAttributes(
			attribute.String("run_id", r.runID),
			attribute.String("container", name),
			attribute.String("operation", op),
		))

		return phaseSpan
	}

	record := func(span trace.Span, op string, ops int, elapsed time.Duration, checksum uint64) {
		res := Result{
			Container: name,
			Operation: op,
			Ops:       ops,
			Elapsed:   elapsed,
			Entries:   m.Size(),
			Checksum:  checksum,
		}

		if ops > 0 {
			res.NsPerOp = float64(elapsed.Nanoseconds()) / float64(ops)
		}

		mets.entries.WithLabelValues(name, op).Set(float64(m.Size()))
		results = append(results, res)

		span.SetAttributes(
			attribute.Int("ops", ops),
			attribute.Int("entries", res.Entries),
			attribute.Int64("checksum", int64(checksum)), //nolint:gosec // reinterpreted, not converted
		)

		r.logFor(ctx).Debug("phase finished", "operation", op, "ops", ops, "elapsed", elapsed)
	}

	buildSpan := startPhase(OpBuild)
	start := time.Now()
	m = build(w.Initial)
	elapsed := time.Since(start)

	r.completed.Add(int64(len(w.Initial)))
	mets.opsTotal.WithLabelValues(name, OpBuild).Add(float64(len(w.Initial)))
	mets.opDuration.WithLabelValues(name, OpBuild).Observe(elapsed.Seconds() / float64(max(len(w.Initial), 1)))
	record(buildSpan, OpBuild, len(w.Initial), elapsed, uint64(m.Size())) //nolint:gosec // size is non-negative
	endSpan(buildSpan, nil)

	phase := func(op string, n int, step func(i int) uint64) (phaseErr error) {
		span := startPhase(op)
		defer func() { endSpan(span, phaseErr) }()

		var (
			checksum uint64
			total    time.Duration
		)

		for lo := 0; lo < n; lo += batchSize {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%s phase interrupted: %w", op, err)
			}

			hi := min(lo+batchSize, n)
			batchStart := time.Now()

			for i := lo; i < hi; i++ {
				checksum += step(i)
			}

			batch := time.Since(batchStart)
			total += batch

			mets.opDuration.WithLabelValues(name, op).Observe(batch.Seconds() / float64(hi-lo))
			mets.opsTotal.WithLabelValues(name, op).Add(float64(hi - lo))
			r.completed.Add(int64(hi - lo))
		}

		record(span, op, n, total, checksum)

		return nil
	}

	if err := phase(OpGet, len(w.Lookups), func(i int) uint64 {
		v, found := m.Get(w.Lookups[i])
		if !found {
			return 0
		}

		return v | 1
	}); err != nil {
		return results, err
	}

	if err := phase(OpRange, len(w.Ranges), func(i int) uint64 {
		var sum uint64
		for k := range m.Range(w.Ranges[i]) {
			sum += k + 1
		}

		return sum
	}); err != nil {
		return results, err
	}

	mutable, ok := m.(maps.MutableSortedMap[uint64, uint64])
	if !ok {
		return results, nil
	}

	if err := phase(OpInsert, len(w.Inserts), func(i int) uint64 {
		if mutable.Insert(w.Inserts[i].Key, w.Inserts[i].Value).Empty() {
			return 1
		}

		return 0
	}); err != nil {
		return results, err
	}

	if err := phase(OpRemove, len(w.Removes), func(i int) uint64 {
		if prev, found := mutable.Remove(w.Removes[i]).Get(); found {
			return prev | 1
		}

		return 0
	}); err != nil {
		return results, err
	}

	return results, nil
}

// sortResults orders results by container name, then by phase order.
func sortResults(results []Result) {
	order := map[string]int{OpBuild: 0, OpGet: 1, OpRange: 2, OpInsert: 3, OpRemove: 4}

	slices.SortStableFunc(results, compare.Then(
		compare.By(func(r Result) string { return r.Container }, compare.Natural[string]()),
		compare.By(func(r Result) int { return order[r.Operation] }, compare.Natural[int]()),
	))
}

// crossCheck verifies that every container that ran an operation produced the
// same checksum and ended with the same number of entries.
func crossCheck(results []Result) error {
	type answer struct {
		container string
		checksum  uint64
		entries   int
	}

	first := make(map[string]answer)

	var errs []error

	for _, res := range results {
		want, seen := first[res.Operation]
		if !seen {
			first[res.Operation] = answer{res.Container, res.Checksum, res.Entries}

			continue
		}

		if want.checksum != res.Checksum || want.entries != res.Entries {
			errs = append(errs, logger.AnnotateError(
				fmt.Errorf("%w: %s on %s and %s", ErrChecksumMismatch, res.Operation, want.container, res.Container),
				"operation", res.Operation,
				"expected_checksum", want.checksum,
				"actual_checksum", res.Checksum,
				"expected_entries", want.entries,
				"actual_entries", res.Entries,
			))
		}
	}

	return errors.Join(errs...)
}
