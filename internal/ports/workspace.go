package ports

import "github.com/linqs/psl-grounding-benchmarks/internal/domain"

type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
