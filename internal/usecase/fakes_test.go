package usecase

import (
	"context"
	"time"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
	"github.com/linqs/psl-grounding-benchmarks/internal/ports"
)

// --- fakes shared by the use case tests ---

type fakeLoader struct {
	examples map[string]domain.Example
	err      error
}

func (f fakeLoader) LoadExample(dir string) (domain.Example, error) {
	if f.err != nil {
		return domain.Example{}, f.err
	}
	ex, ok := f.examples[dir]
	if !ok {
		return domain.Example{}, &domain.OpError{Op: "fake.load", Kind: domain.KindNotFound, Path: dir, Err: domain.ErrNotFound}
	}
	return ex, nil
}

type fakeRewriter struct {
	applied  []string // "<example>:<split>"
	restored int
	active   bool

	applyErr error
	leftover []string
}

func (f *fakeRewriter) Apply(ex domain.Example, split string) (ports.Restorer, error) {
	if f.applyErr != nil {
		return nil, f.applyErr
	}
	f.applied = append(f.applied, ex.Name+":"+split)
	f.active = true
	done := false
	return func() error {
		if !done {
			done = true
			f.restored++
			f.active = false
		}
		return nil
	}, nil
}

func (f *fakeRewriter) Restore(ex domain.Example) ([]string, error) {
	return f.leftover, nil
}

type fakeRunner struct {
	calls []ports.RunRequest

	// exitCodes is consumed per call; missing entries mean exit 0.
	exitCodes []int
	// cancelOn cancels the run context on that (1-based) call.
	cancelOn int
	cancel   context.CancelFunc

	// dataActive records whether data was rewritten during each call.
	rw         *fakeRewriter
	dataActive []bool
	err        error
}

func (f *fakeRunner) Run(ctx context.Context, req ports.RunRequest) (domain.ProcessResult, error) {
	f.calls = append(f.calls, req)
	if f.rw != nil {
		f.dataActive = append(f.dataActive, f.rw.active)
	}

	start := time.Date(2026, 1, 1, 0, 0, len(f.calls), 0, time.UTC)
	res := domain.ProcessResult{StartedAt: start, EndedAt: start.Add(time.Second)}

	if f.err != nil {
		res.ExitCode = -1
		return res, f.err
	}
	if f.cancelOn == len(f.calls) && f.cancel != nil {
		f.cancel()
		res.ExitCode = -1
		return res, &domain.OpError{Op: "fake.run", Kind: domain.KindCanceled, Err: ctx.Err()}
	}
	if i := len(f.calls) - 1; i < len(f.exitCodes) {
		res.ExitCode = f.exitCodes[i]
	}
	return res, nil
}

type fakeStore struct {
	existing  map[string]bool
	prepared  []string
	discarded []string
	collected []string
	cleared   []string
	saved     []domain.LeafResult

	// stale outputs sitting in a cli dir, keyed by dir.
	stale map[string]bool
}

func newFakeStore(existing ...string) *fakeStore {
	s := &fakeStore{existing: map[string]bool{}}
	for _, e := range existing {
		s.existing[e] = true
	}
	return s
}

func (s *fakeStore) Dir(leaf domain.Leaf) string { return "/results/" + leaf.RelDir() }

func (s *fakeStore) Exists(leaf domain.Leaf) (bool, error) {
	return s.existing[leaf.RelDir()], nil
}

func (s *fakeStore) Prepare(leaf domain.Leaf) (string, error) {
	s.prepared = append(s.prepared, leaf.RelDir())
	return s.Dir(leaf), nil
}

func (s *fakeStore) Discard(leaf domain.Leaf) error {
	s.discarded = append(s.discarded, leaf.RelDir())
	return nil
}

func (s *fakeStore) ClearOutputs(fromDir string, _ []string) error {
	s.cleared = append(s.cleared, fromDir)
	delete(s.stale, fromDir)
	return nil
}

func (s *fakeStore) CollectOutputs(leaf domain.Leaf, fromDir string, names []string) (int64, error) {
	s.collected = append(s.collected, leaf.RelDir())
	if s.stale[fromDir] {
		return 999, nil
	}
	return int64(10 * len(names)), nil
}

func (s *fakeStore) SaveManifest(res domain.LeafResult) error {
	s.saved = append(s.saved, res)
	return nil
}

var (
	_ ports.ExampleLoader = fakeLoader{}
	_ ports.DataRewriter  = (*fakeRewriter)(nil)
	_ ports.PSLRunner     = (*fakeRunner)(nil)
	_ ports.ResultStore   = (*fakeStore)(nil)
)

func testConfig() domain.Config {
	cfg := domain.DefaultConfig()
	cfg.Experiment = "exp"
	cfg.Iterations = 2
	cfg.Backends = []domain.Backend{
		{Name: "H2"},
		{Name: "Postgres", Args: []string{"--postgres", "psl"}},
	}
	return cfg
}

func testLoader() fakeLoader {
	return fakeLoader{examples: map[string]domain.Example{
		"ex/cora": {Name: "cora", Dir: "/ex/cora", CLIDir: "/ex/cora/cli", Splits: []string{"0", "1"}},
		"ex/yelp": {Name: "yelp", Dir: "/ex/yelp", CLIDir: "/ex/yelp/cli", Splits: []string{"0"}},
	}}
}
