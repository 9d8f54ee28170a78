// Package examplefs resolves PSL example directories on the local filesystem.
package examplefs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/linqs/psl-grounding-benchmarks/internal/app/template"
	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
	"github.com/linqs/psl-grounding-benchmarks/internal/ports"
)

const dataDir = "data"

// defaultSplit is used when an example has no fetched split directories yet
// (PSL run scripts download data on first use).
const defaultSplit = "0"

type Loader struct {
	cliDir       string
	glob         string
	backupSuffix string
	splits       []string
}

type Option func(*Loader)

// WithSplits pins the split list instead of discovering it per example.
func WithSplits(splits []string) Option {
	return func(l *Loader) { l.splits = append([]string(nil), splits...) }
}

func NewLoader(cfg domain.Config, opts ...Option) *Loader {
	l := &Loader{
		cliDir:       cfg.Run.CLIDir,
		glob:         cfg.Data.Glob,
		backupSuffix: cfg.Data.BackupSuffix,
		splits:       append([]string(nil), cfg.Splits...),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ ports.ExampleLoader = (*Loader)(nil)

func (l *Loader) LoadExample(dir string) (domain.Example, error) {
	abs, err := filepath.Abs(strings.TrimSpace(dir))
	if err != nil {
		return domain.Example{}, &domain.OpError{
			Op:   "examplefs.load",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		if err == nil {
			err = fmt.Errorf("not a directory: %w", domain.ErrNotFound)
		}
		return domain.Example{}, &domain.OpError{
			Op:   "examplefs.load",
			Kind: domain.KindNotFound,
			Path: abs,
			Err:  err,
		}
	}

	name := filepath.Base(abs)
	cliDir := abs
	if l.cliDir != "" && l.cliDir != "." {
		cliDir = filepath.Join(abs, l.cliDir)
	}
	if info, err := os.Stat(cliDir); err != nil || !info.IsDir() {
		return domain.Example{}, &domain.OpError{
			Op:   "examplefs.load",
			Kind: domain.KindNotFound,
			Path: cliDir,
			Err:  fmt.Errorf("cli dir missing: %w", domain.ErrNotFound),
		}
	}

	vars := domain.Vars{"example": name}
	pattern, err := template.RenderString(l.glob, vars)
	if err != nil {
		return domain.Example{}, err
	}

	files, err := filepath.Glob(filepath.Join(cliDir, pattern))
	if err != nil {
		return domain.Example{}, &domain.OpError{
			Op:   "examplefs.glob",
			Kind: domain.KindInvalidConfig,
			Path: pattern,
			Err:  err,
		}
	}
	files = l.dropBackups(files)
	if len(files) == 0 {
		return domain.Example{}, &domain.OpError{
			Op:   "examplefs.load",
			Kind: domain.KindNotFound,
			Path: filepath.Join(cliDir, pattern),
			Err:  fmt.Errorf("no data files: %w", domain.ErrNotFound),
		}
	}
	sort.Strings(files)

	splits := l.splits
	if len(splits) == 0 {
		splits, err = discoverSplits(filepath.Join(abs, dataDir, name))
		if err != nil {
			return domain.Example{}, err
		}
	}

	return domain.Example{
		Name:      name,
		Dir:       abs,
		CLIDir:    cliDir,
		DataFiles: files,
		Splits:    splits,
	}, nil
}

// discoverSplits lists numeric subdirectories of dir in numeric order.
func discoverSplits(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{defaultSplit}, nil
		}
		return nil, &domain.OpError{
			Op:   "examplefs.splits",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	type split struct {
		id string
		n  int
	}
	var found []split
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		n, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		found = append(found, split{id: e.Name(), n: n})
	}
	if len(found) == 0 {
		return []string{defaultSplit}, nil
	}

	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })
	out := make([]string, len(found))
	for i, s := range found {
		out[i] = s.id
	}
	return out, nil
}

// dropBackups keeps a glob like "x-*.data*" from picking up our own backups.
func (l *Loader) dropBackups(files []string) []string {
	out := files[:0]
	for _, f := range files {
		if (l.backupSuffix != "" && strings.HasSuffix(f, l.backupSuffix)) || strings.HasSuffix(f, ".tmp") {
			continue
		}
		out = append(out, f)
	}
	return out
}
