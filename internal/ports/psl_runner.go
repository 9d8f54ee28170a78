package ports

import (
	"context"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
)

// RunRequest is one PSL invocation.
type RunRequest struct {
	Dir    string
	Script string
	Args   []string

	// Env is appended to the inherited environment as KEY=VALUE pairs.
	Env []string

	StdoutPath string
	StderrPath string
}

// PSLRunner executes the PSL run script. A non-zero exit status is reported
// in the result, not as an error.
type PSLRunner interface {
	Run(ctx context.Context, req RunRequest) (domain.ProcessResult, error)
}
