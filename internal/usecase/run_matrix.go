package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/linqs/psl-grounding-benchmarks/internal/ctxlog"
	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
	"github.com/linqs/psl-grounding-benchmarks/internal/ports"
)

// RunMatrix runs PSL once per leaf of iteration × example × split × backend,
// strictly in sequence, skipping leaves that already have output.
type RunMatrix struct {
	cfg      domain.Config
	examples ports.ExampleLoader
	data     ports.DataRewriter
	runner   ports.PSLRunner
	store    ports.ResultStore

	log *slog.Logger
	now func() time.Time
}

type RunMatrixOption func(*RunMatrix)

func WithLogger(l *slog.Logger) RunMatrixOption {
	return func(uc *RunMatrix) {
		if l != nil {
			uc.log = l
		}
	}
}

// WithClock overrides time.Now (useful for tests).
func WithClock(now func() time.Time) RunMatrixOption {
	return func(uc *RunMatrix) { uc.now = now }
}

func NewRunMatrix(cfg domain.Config, el ports.ExampleLoader, dr ports.DataRewriter, pr ports.PSLRunner, rs ports.ResultStore, opts ...RunMatrixOption) *RunMatrix {
	uc := &RunMatrix{
		cfg:      cfg,
		examples: el,
		data:     dr,
		runner:   pr,
		store:    rs,
		log:      slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute returns the report of every leaf visited so far, also on error.
// A non-zero PSL exit marks the leaf failed and the loop goes on; errors of
// the driver itself (filesystem, data rewrite, missing script) stop it.
func (uc *RunMatrix) Execute(ctx context.Context, exampleDirs []string, obs Observer) (domain.MatrixReport, error) {
	if obs == nil {
		obs = nopObserver{}
	}

	report := domain.MatrixReport{
		Experiment: uc.cfg.Experiment,
		StartedAt:  uc.now(),
	}
	examples, err := loadExamples(uc.examples, exampleDirs)
	if err != nil {
		report.EndedAt = uc.now()
		return report, err
	}
	exByName := byName(examples)

	plan := domain.Plan(uc.cfg, examples)
	uc.log.Info("matrix.planned",
		"experiment", uc.cfg.Experiment,
		"examples", len(examples),
		"leaves", len(plan),
	)
	obs.OnEvent(Event{Kind: EventPlanned, Total: len(plan)})

	ctx = ctxlog.WithLogger(ctx, uc.log)

	for _, leaf := range plan {
		if err := ctx.Err(); err != nil {
			report.EndedAt = uc.now()
			uc.log.Warn("matrix.canceled", "next", leaf.RelDir())
			return report, &domain.OpError{Op: "matrix.run", Kind: domain.KindCanceled, Err: err}
		}

		obs.OnEvent(Event{Kind: EventLeafStart, Total: len(plan), Leaf: leaf})

		res, err := uc.runLeaf(ctx, exByName[leaf.Example], leaf)
		report.Results = append(report.Results, res)
		obs.OnEvent(Event{Kind: EventLeafDone, Total: len(plan), Leaf: leaf, Result: res})

		if err != nil {
			report.EndedAt = uc.now()
			return report, err
		}
	}

	report.EndedAt = uc.now()
	uc.log.Info("matrix.done",
		"experiment", uc.cfg.Experiment,
		"succeeded", report.Count(domain.StatusSucceeded),
		"failed", report.Count(domain.StatusFailed),
		"skipped", report.Count(domain.StatusSkipped),
	)
	return report, nil
}

func (uc *RunMatrix) runLeaf(ctx context.Context, ex domain.Example, leaf domain.Leaf) (domain.LeafResult, error) {
	log := uc.log.With("leaf", leaf.RelDir())

	res := domain.LeafResult{
		Leaf:      leaf,
		Status:    domain.StatusPending,
		ExitCode:  -1,
		OutputDir: uc.store.Dir(leaf),
	}

	exists, err := uc.store.Exists(leaf)
	if err != nil {
		return uc.fail(res, err)
	}
	if exists {
		log.Info("matrix.leaf.skipped", "reason", "output exists")
		res.Status = domain.StatusSkipped
		return res, nil
	}

	backend, ok := uc.cfg.BackendByName(leaf.Backend)
	if !ok {
		return uc.fail(res, &domain.OpError{
			Op:   "matrix.backend",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("backend %q: %w", leaf.Backend, domain.ErrNotFound),
		})
	}

	dir, err := uc.store.Prepare(leaf)
	if err != nil {
		return uc.fail(res, err)
	}
	res.OutputDir = dir
	res.StdoutPath = filepath.Join(dir, uc.cfg.Run.Stdout)
	res.StderrPath = filepath.Join(dir, uc.cfg.Run.Stderr)

	if err := uc.store.ClearOutputs(ex.CLIDir, uc.cfg.Run.Outputs); err != nil {
		return uc.fail(res, err)
	}

	restore, err := uc.data.Apply(ex, leaf.Split)
	if err != nil {
		return uc.fail(res, err)
	}

	log.Info("matrix.leaf.start", "backend_args", backend.Args)
	proc, runErr := uc.runner.Run(ctx, ports.RunRequest{
		Dir:        ex.CLIDir,
		Script:     uc.cfg.Run.Script,
		Args:       backend.Args,
		Env:        leafEnv(ex, leaf),
		StdoutPath: res.StdoutPath,
		StderrPath: res.StderrPath,
	})
	res.StartedAt = proc.StartedAt
	res.EndedAt = proc.EndedAt
	res.ExitCode = proc.ExitCode

	// Data files go back before anything else can fail.
	restoreErr := restore()

	if runErr != nil {
		// Partial output must not make the next run skip this leaf.
		discardErr := uc.store.Discard(leaf)
		if domain.IsKind(runErr, domain.KindCanceled) || errors.Is(runErr, context.Canceled) {
			res.Status = domain.StatusCanceled
			res.Error = runErr.Error()
			log.Warn("matrix.leaf.canceled")
			return res, errors.Join(runErr, restoreErr, discardErr)
		}
		return uc.fail(res, errors.Join(runErr, restoreErr, discardErr))
	}
	if restoreErr != nil {
		return uc.fail(res, restoreErr)
	}

	n, err := uc.store.CollectOutputs(leaf, ex.CLIDir, uc.cfg.Run.Outputs)
	res.OutputBytes = n
	if err != nil {
		return uc.fail(res, err)
	}

	if res.ExitCode == 0 {
		res.Status = domain.StatusSucceeded
		log.Info("matrix.leaf.succeeded", "duration", res.Duration())
	} else {
		res.Status = domain.StatusFailed
		res.Error = fmt.Sprintf("psl exited with status %d (see %s)", res.ExitCode, res.StderrPath)
		log.Warn("matrix.leaf.failed", "exit_code", res.ExitCode, "stderr", res.StderrPath)
	}

	if err := uc.store.SaveManifest(res); err != nil {
		return uc.fail(res, err)
	}
	return res, nil
}

func (uc *RunMatrix) fail(res domain.LeafResult, err error) (domain.LeafResult, error) {
	res.Status = domain.StatusFailed
	res.Error = err.Error()
	uc.log.Error("matrix.leaf.error", "leaf", res.Leaf.RelDir(), "err", err)
	return res, err
}

// leafEnv lets run scripts see which cell they belong to (PSLBENCH_SPLIT, ...).
func leafEnv(ex domain.Example, l domain.Leaf) []string {
	vars := domain.Merge(domain.LeafVars(l), domain.Vars{"example_dir": ex.Dir})
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, "PSLBENCH_"+strings.ToUpper(k)+"="+vars[k])
	}
	return env
}
