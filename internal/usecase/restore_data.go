package usecase

import (
	"errors"
	"log/slog"

	"github.com/linqs/psl-grounding-benchmarks/internal/ports"
)

// RestoreData puts back data files left rewritten by an interrupted run.
type RestoreData struct {
	examples ports.ExampleLoader
	data     ports.DataRewriter
	log      *slog.Logger
}

func NewRestoreData(el ports.ExampleLoader, dr ports.DataRewriter, log *slog.Logger) *RestoreData {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &RestoreData{examples: el, data: dr, log: log}
}

func (uc *RestoreData) Execute(exampleDirs []string) ([]string, error) {
	examples, err := loadExamples(uc.examples, exampleDirs)
	if err != nil {
		return nil, err
	}

	var restored []string
	var errs []error
	for _, ex := range examples {
		files, err := uc.data.Restore(ex)
		restored = append(restored, files...)
		if err != nil {
			uc.log.Error("restore.failed", "example", ex.Name, "err", err)
			errs = append(errs, err)
			continue
		}
		uc.log.Info("restore.done", "example", ex.Name, "files", len(files))
	}
	return restored, errors.Join(errs...)
}
