package usecase

import (
	"time"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
	"github.com/linqs/psl-grounding-benchmarks/internal/ports"
)

// PlanMatrix lists every leaf and whether a run would skip it. Nothing runs.
type PlanMatrix struct {
	cfg      domain.Config
	examples ports.ExampleLoader
	store    ports.ResultStore
}

func NewPlanMatrix(cfg domain.Config, el ports.ExampleLoader, rs ports.ResultStore) *PlanMatrix {
	return &PlanMatrix{cfg: cfg, examples: el, store: rs}
}

func (uc *PlanMatrix) Execute(exampleDirs []string) (domain.MatrixReport, error) {
	report := domain.MatrixReport{Experiment: uc.cfg.Experiment, StartedAt: time.Now()}

	examples, err := loadExamples(uc.examples, exampleDirs)
	if err != nil {
		return report, err
	}

	for _, leaf := range domain.Plan(uc.cfg, examples) {
		exists, err := uc.store.Exists(leaf)
		if err != nil {
			return report, err
		}
		status := domain.StatusPending
		if exists {
			status = domain.StatusSkipped
		}
		report.Results = append(report.Results, domain.LeafResult{
			Leaf:      leaf,
			Status:    status,
			OutputDir: uc.store.Dir(leaf),
		})
	}

	report.EndedAt = time.Now()
	return report, nil
}
