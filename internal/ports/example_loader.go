package ports

import "github.com/linqs/psl-grounding-benchmarks/internal/domain"

// ExampleLoader resolves an example directory into a domain.Example.
type ExampleLoader interface {
	LoadExample(dir string) (domain.Example, error)
}
