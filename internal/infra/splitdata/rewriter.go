// Package splitdata points PSL *.data files at a specific data split by
// rewriting their paths in place, keeping a backup to restore afterwards.
package splitdata

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/thanhpk/randstr"

	"github.com/linqs/psl-grounding-benchmarks/internal/app/template"
	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
	"github.com/linqs/psl-grounding-benchmarks/internal/ports"
)

type Rewriter struct {
	match        string
	replace      string
	backupSuffix string
	log          *slog.Logger

	writeFile func(name string, data []byte, perm os.FileMode) error
}

type Option func(*Rewriter)

func WithLogger(l *slog.Logger) Option {
	return func(r *Rewriter) {
		if l != nil {
			r.log = l
		}
	}
}

func NewRewriter(cfg domain.DataConfig, opts ...Option) *Rewriter {
	r := &Rewriter{
		match:        cfg.Match,
		replace:      cfg.Replace,
		backupSuffix: cfg.BackupSuffix,
		log:          slog.New(slog.DiscardHandler),
		writeFile:    os.WriteFile,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.DataRewriter = (*Rewriter)(nil)

func (r *Rewriter) Apply(ex domain.Example, split string) (ports.Restorer, error) {
	vars := domain.Vars{"example": ex.Name, "split": split}

	re, err := template.RenderPattern(r.match, vars)
	if err != nil {
		return nil, err
	}
	replacement, err := template.RenderString(r.replace, vars)
	if err != nil {
		return nil, err
	}

	// Refuse to start if a previous run left backups: they hold the originals.
	for _, f := range ex.DataFiles {
		bak := f + r.backupSuffix
		if _, err := os.Stat(bak); err == nil {
			return nil, &domain.OpError{
				Op:   "splitdata.apply",
				Kind: domain.KindConflict,
				Path: bak,
				Err:  fmt.Errorf("backup exists (run `pslbench restore`): %w", domain.ErrConflict),
			}
		}
	}

	var done []string
	restore := r.restorer(&done)

	for _, f := range ex.DataFiles {
		if err := r.rewriteFile(f, re.ReplaceAllLiteralString, replacement); err != nil {
			if rerr := restore(); rerr != nil {
				err = errors.Join(err, rerr)
			}
			return nil, err
		}
		done = append(done, f)
		r.log.Debug("splitdata.rewritten", "file", f, "split", split)
	}

	return restore, nil
}

func (r *Rewriter) rewriteFile(path string, replaceAll func(src, repl string) string, replacement string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &domain.OpError{Op: "splitdata.stat", Kind: domain.KindNotFound, Path: path, Err: err}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return &domain.OpError{Op: "splitdata.read", Kind: domain.KindExecution, Path: path, Err: err}
	}

	bak := path + r.backupSuffix
	if err := r.writeAtomic(bak, b, info.Mode().Perm()); err != nil {
		return &domain.OpError{Op: "splitdata.backup", Kind: domain.KindExecution, Path: bak, Err: err}
	}

	out := replaceAll(string(b), replacement)
	if err := r.writeAtomic(path, []byte(out), info.Mode().Perm()); err != nil {
		if rerr := os.Rename(bak, path); rerr != nil {
			err = errors.Join(err, rerr)
		}
		return &domain.OpError{Op: "splitdata.write", Kind: domain.KindExecution, Path: path, Err: err}
	}
	return nil
}

// writeAtomic writes to a temp sibling and renames it over path, so path never
// holds a partial file. A backup that exists is always a full copy.
func (r *Rewriter) writeAtomic(path string, b []byte, perm os.FileMode) error {
	tmp := path + "." + randstr.Hex(8) + ".tmp"
	if err := r.writeFile(tmp, b, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// restorer moves backups of the files recorded in done back into place.
func (r *Rewriter) restorer(done *[]string) ports.Restorer {
	var (
		once sync.Once
		err  error
	)
	return func() error {
		once.Do(func() {
			var errs []error
			for _, f := range *done {
				if rerr := os.Rename(f+r.backupSuffix, f); rerr != nil {
					errs = append(errs, &domain.OpError{
						Op:   "splitdata.restore",
						Kind: domain.KindExecution,
						Path: f,
						Err:  rerr,
					})
				}
			}
			err = errors.Join(errs...)
		})
		return err
	}
}

func (r *Rewriter) Restore(ex domain.Example) ([]string, error) {
	var restored []string
	var errs []error
	for _, f := range ex.DataFiles {
		bak := f + r.backupSuffix
		if _, err := os.Stat(bak); err != nil {
			continue
		}
		if err := os.Rename(bak, f); err != nil {
			errs = append(errs, &domain.OpError{
				Op:   "splitdata.restore",
				Kind: domain.KindExecution,
				Path: f,
				Err:  err,
			})
			continue
		}
		r.log.Info("splitdata.restored", "file", f)
		restored = append(restored, f)
	}
	return restored, errors.Join(errs...)
}
