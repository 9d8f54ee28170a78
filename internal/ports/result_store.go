package ports

import "github.com/linqs/psl-grounding-benchmarks/internal/domain"

// ResultStore owns the results/experiment::<id>/... tree.
type ResultStore interface {
	// Dir is the absolute leaf directory.
	Dir(leaf domain.Leaf) string

	// Exists reports whether the leaf already has output and must be skipped.
	Exists(leaf domain.Leaf) (bool, error)

	Prepare(leaf domain.Leaf) (dir string, err error)

	// Discard removes partial output so the leaf is retried next time.
	Discard(leaf domain.Leaf) error

	// ClearOutputs removes the named outputs from fromDir so a run cannot
	// pick up files left by an earlier, interrupted one.
	ClearOutputs(fromDir string, names []string) error

	// CollectOutputs moves the named outputs from fromDir into the leaf dir.
	CollectOutputs(leaf domain.Leaf, fromDir string, names []string) (bytes int64, err error)

	SaveManifest(res domain.LeafResult) error
}
