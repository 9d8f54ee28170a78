package tui

import (
	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
	"github.com/linqs/psl-grounding-benchmarks/internal/usecase"
)

type matrixEventMsg struct {
	event usecase.Event
}

type matrixDoneMsg struct {
	report domain.MatrixReport
	err    error
}
