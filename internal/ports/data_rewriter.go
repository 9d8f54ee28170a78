package ports

import "github.com/linqs/psl-grounding-benchmarks/internal/domain"

// Restorer undoes a data rewrite. Calling it more than once is a no-op.
type Restorer func() error

// DataRewriter points an example's data files at a split, in place.
type DataRewriter interface {
	Apply(ex domain.Example, split string) (Restorer, error)

	// Restore recovers backups left behind by an interrupted run and
	// returns the data files it restored.
	Restore(ex domain.Example) ([]string, error)
}
