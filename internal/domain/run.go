package domain

import "time"

// ManifestFile is the per-leaf record written next to the PSL output.
const ManifestFile = "run.json"

// LeafStatus is the outcome of a single leaf.
type LeafStatus string

const (
	StatusPending   LeafStatus = "pending"
	StatusSkipped   LeafStatus = "skipped"
	StatusSucceeded LeafStatus = "succeeded"
	StatusFailed    LeafStatus = "failed"
	StatusCanceled  LeafStatus = "canceled"
)

// ProcessResult is what the PSL runner observed about one invocation.
type ProcessResult struct {
	ExitCode  int
	StartedAt time.Time
	EndedAt   time.Time
}

// LeafResult is the persisted record of one leaf (run.json).
type LeafResult struct {
	Leaf   Leaf       `json:"leaf"`
	Status LeafStatus `json:"status"`

	ExitCode int `json:"exit_code"`

	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`

	OutputDir  string `json:"output_dir"`
	StdoutPath string `json:"stdout_path,omitempty"`
	StderrPath string `json:"stderr_path,omitempty"`

	// OutputBytes is the size of everything collected from the CLI dir.
	OutputBytes int64 `json:"output_bytes"`

	Error string `json:"error,omitempty"`
}

// Duration is the wall time of the leaf, zero when it did not run.
func (r LeafResult) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// MatrixReport is the summary of a run (or plan) over the whole matrix.
type MatrixReport struct {
	Experiment string    `json:"experiment"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`

	Results []LeafResult `json:"results"`
}

// Count returns how many leaves ended with the given status.
func (r MatrixReport) Count(s LeafStatus) int {
	n := 0
	for _, lr := range r.Results {
		if lr.Status == s {
			n++
		}
	}
	return n
}
