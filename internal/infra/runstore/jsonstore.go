package runstore

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thanhpk/randstr"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
	"github.com/linqs/psl-grounding-benchmarks/internal/ports"
)

const (
	defaultResultsDir = "results"
	indexName         = "index.jsonl"
)

// JSONStore keeps leaf outputs under <root>/<results_dir>/experiment::<id>/...
// and records a run.json manifest per leaf.
type JSONStore struct {
	resultsDir string
	stdoutName string
	stderrName string
	writeIndex bool
	now        func() time.Time
}

type Option func(*JSONStore)

// WithIndex enables a JSONL index per experiment: experiment::<id>/index.jsonl
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	resultsDir := cfg.Paths.ResultsDir
	if strings.TrimSpace(resultsDir) == "" {
		resultsDir = defaultResultsDir
	}
	if !filepath.IsAbs(resultsDir) {
		resultsDir = filepath.Join(root, resultsDir)
	}

	s := &JSONStore{
		resultsDir: resultsDir,
		stdoutName: cfg.Run.Stdout,
		stderrName: cfg.Run.Stderr,
		writeIndex: false,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ResultStore = (*JSONStore)(nil)

func (s *JSONStore) Dir(leaf domain.Leaf) string {
	return filepath.Join(s.resultsDir, filepath.FromSlash(leaf.RelDir()))
}

// ExperimentDir is the directory holding every leaf of one experiment.
func (s *JSONStore) ExperimentDir(experiment string) string {
	return filepath.Join(s.resultsDir, domain.Segment{Key: domain.SegmentExperiment, Value: experiment}.String())
}

// StdoutPath and StderrPath are where the runner redirects the PSL streams.
func (s *JSONStore) StdoutPath(leaf domain.Leaf) string {
	return filepath.Join(s.Dir(leaf), s.stdoutName)
}

func (s *JSONStore) StderrPath(leaf domain.Leaf) string {
	return filepath.Join(s.Dir(leaf), s.stderrName)
}

func (s *JSONStore) Exists(leaf domain.Leaf) (bool, error) {
	p := s.StdoutPath(leaf)
	_, err := os.Stat(p)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, &domain.OpError{
			Op:   "runstore.exists",
			Kind: domain.KindExecution,
			Path: p,
			Err:  err,
		}
	}
}

func (s *JSONStore) Prepare(leaf domain.Leaf) (string, error) {
	dir := s.Dir(leaf)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "runstore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}
	return dir, nil
}

func (s *JSONStore) Discard(leaf domain.Leaf) error {
	var errs []error
	for _, p := range []string{s.StdoutPath(leaf), s.StderrPath(leaf)} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, &domain.OpError{
				Op:   "runstore.discard",
				Kind: domain.KindExecution,
				Path: p,
				Err:  err,
			})
		}
	}
	return errors.Join(errs...)
}

func (s *JSONStore) ClearOutputs(fromDir string, names []string) error {
	var errs []error
	for _, name := range names {
		p := filepath.Join(fromDir, name)
		if err := os.RemoveAll(p); err != nil {
			errs = append(errs, &domain.OpError{Op: "runstore.clear", Kind: domain.KindExecution, Path: p, Err: err})
		}
	}
	return errors.Join(errs...)
}

func (s *JSONStore) CollectOutputs(leaf domain.Leaf, fromDir string, names []string) (int64, error) {
	dir := s.Dir(leaf)

	var total int64
	for _, name := range names {
		src := filepath.Join(fromDir, name)
		if _, err := os.Lstat(src); err != nil {
			// PSL only writes outputs on success; a missing one is expected.
			continue
		}

		dst := filepath.Join(dir, name)
		if err := os.RemoveAll(dst); err != nil {
			return total, &domain.OpError{Op: "runstore.collect", Kind: domain.KindExecution, Path: dst, Err: err}
		}
		if err := move(src, dst); err != nil {
			return total, &domain.OpError{Op: "runstore.collect", Kind: domain.KindExecution, Path: src, Err: err}
		}

		n, err := treeSize(dst)
		if err != nil {
			return total, &domain.OpError{Op: "runstore.collect", Kind: domain.KindExecution, Path: dst, Err: err}
		}
		total += n
	}
	return total, nil
}

func (s *JSONStore) SaveManifest(res domain.LeafResult) error {
	dir := s.Dir(res.Leaf)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &domain.OpError{
			Op:   "runstore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	path := filepath.Join(dir, domain.ManifestFile)

	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return &domain.OpError{
			Op:   "runstore.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	// Atomic-ish write: tmp then rename.
	tmp := path + "." + randstr.Hex(8) + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return &domain.OpError{
			Op:   "runstore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{
			Op:   "runstore.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	if s.writeIndex {
		_ = s.appendIndex(res)
	}
	return nil
}

func (s *JSONStore) appendIndex(res domain.LeafResult) error {
	type idx struct {
		Dir       string            `json:"dir"`
		Status    domain.LeafStatus `json:"status"`
		ExitCode  int               `json:"exit_code"`
		Example   string            `json:"example"`
		Split     string            `json:"split"`
		Backend   string            `json:"backend"`
		Iteration string            `json:"iteration"`
		StartedAt time.Time         `json:"started_at"`
		RecordAt  time.Time         `json:"recorded_at"`
	}
	line, err := json.Marshal(idx{
		Dir:       res.Leaf.RelDir(),
		Status:    res.Status,
		ExitCode:  res.ExitCode,
		Example:   res.Leaf.Example,
		Split:     res.Leaf.Split,
		Backend:   res.Leaf.Backend,
		Iteration: res.Leaf.Iteration,
		StartedAt: res.StartedAt,
		RecordAt:  s.now().UTC(),
	})
	if err != nil {
		return err
	}

	indexPath := filepath.Join(s.ExperimentDir(res.Leaf.Experiment), indexName)
	f, err := os.OpenFile(indexPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}

// move renames src to dst, falling back to copy+remove across filesystems.
func move(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyTree(src, dst); err != nil {
		_ = os.RemoveAll(dst)
		return err
	}
	return os.RemoveAll(src)
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm())
		}
		return copyFile(p, target, info.Mode().Perm())
	})
}

func copyFile(src, dst string, mode fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func treeSize(root string) (int64, error) {
	var n int64
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		n += info.Size()
		return nil
	})
	return n, err
}
