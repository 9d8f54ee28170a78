package tui

import (
	"context"
	"log/slog"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
	"github.com/linqs/psl-grounding-benchmarks/internal/usecase"
)

// MatrixFunc runs the matrix, reporting progress to obs.
type MatrixFunc func(ctx context.Context, obs usecase.Observer) (domain.MatrixReport, error)

type Deps struct {
	Experiment string
	Run        MatrixFunc

	Logger *slog.Logger
}
