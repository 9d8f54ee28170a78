// Package pslrunner executes a PSL example's run script as a child process,
// redirecting its output streams to files.
package pslrunner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/linqs/psl-grounding-benchmarks/internal/ctxlog"
	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
	"github.com/linqs/psl-grounding-benchmarks/internal/ports"
)

// DefaultKillGrace is how long a canceled process group gets between SIGTERM
// and SIGKILL.
const DefaultKillGrace = 10 * time.Second

type Runner struct {
	killGrace time.Duration
	env       []string
	now       func() time.Time
}

type Option func(*Runner)

func WithKillGrace(d time.Duration) Option {
	return func(r *Runner) { r.killGrace = d }
}

// WithEnv appends KEY=VALUE pairs to the inherited environment.
func WithEnv(kv ...string) Option {
	return func(r *Runner) { r.env = append(r.env, kv...) }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

func New(opts ...Option) *Runner {
	r := &Runner{
		killGrace: DefaultKillGrace,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.PSLRunner = (*Runner)(nil)

func (r *Runner) Run(ctx context.Context, req ports.RunRequest) (domain.ProcessResult, error) {
	log := ctxlog.FromContext(ctx)

	if err := ctx.Err(); err != nil {
		return domain.ProcessResult{ExitCode: -1}, canceled(req.Dir, err)
	}

	script := req.Script
	if !filepath.IsAbs(script) && strings.ContainsRune(script, filepath.Separator) {
		script = filepath.Join(req.Dir, script)
	}

	stdout, err := createOutput(req.StdoutPath)
	if err != nil {
		return domain.ProcessResult{ExitCode: -1}, err
	}
	defer stdout.Close()

	stderr, err := createOutput(req.StderrPath)
	if err != nil {
		return domain.ProcessResult{ExitCode: -1}, err
	}
	defer stderr.Close()

	cmd := exec.CommandContext(ctx, script, req.Args...)
	cmd.Dir = req.Dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if env := append(append([]string(nil), r.env...), req.Env...); len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	configureProcessGroup(cmd, r.killGrace)

	res := domain.ProcessResult{StartedAt: r.now()}
	log.Debug("pslrunner.start", "dir", req.Dir, "script", script, "args", req.Args)

	err = cmd.Run()
	res.EndedAt = r.now()

	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		log.Warn("pslrunner.canceled", "dir", req.Dir, "err", ctxErr)
		return res, canceled(req.Dir, ctxErr)
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.ExitCode = -1
		return res, &domain.OpError{
			Op:   "pslrunner.start",
			Kind: domain.KindExecution,
			Path: script,
			Err:  fmt.Errorf("%w: %w", domain.ErrExecution, err),
		}
	}

	log.Debug("pslrunner.exit", "dir", req.Dir, "exit_code", res.ExitCode, "duration", res.EndedAt.Sub(res.StartedAt))
	return res, nil
}

func createOutput(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "pslrunner.output",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	return f, nil
}

func canceled(dir string, err error) error {
	return &domain.OpError{
		Op:   "pslrunner.run",
		Kind: domain.KindCanceled,
		Path: dir,
		Err:  err,
	}
}
