package usecase

import (
	"fmt"
	"strings"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
	"github.com/linqs/psl-grounding-benchmarks/internal/ports"
)

// ErrNoExamples is returned when no example directory was given.
var ErrNoExamples = &domain.OpError{
	Op:   "usecase.examples",
	Kind: domain.KindInvalidConfig,
	Err:  fmt.Errorf("at least one example directory is required: %w", domain.ErrInvalidConfig),
}

// loadExamples resolves every directory and rejects two examples that would
// share a results subtree.
func loadExamples(loader ports.ExampleLoader, dirs []string) ([]domain.Example, error) {
	if len(dirs) == 0 {
		return nil, ErrNoExamples
	}

	examples := make([]domain.Example, 0, len(dirs))
	seen := map[string]string{}
	for _, d := range dirs {
		if strings.TrimSpace(d) == "" {
			continue
		}
		ex, err := loader.LoadExample(d)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[ex.Name]; ok {
			return nil, &domain.OpError{
				Op:   "usecase.examples",
				Kind: domain.KindConflict,
				Path: ex.Dir,
				Err:  fmt.Errorf("example name %q also used by %s: %w", ex.Name, prev, domain.ErrConflict),
			}
		}
		seen[ex.Name] = ex.Dir
		examples = append(examples, ex)
	}

	if len(examples) == 0 {
		return nil, ErrNoExamples
	}
	return examples, nil
}

func byName(examples []domain.Example) map[string]domain.Example {
	out := make(map[string]domain.Example, len(examples))
	for _, ex := range examples {
		out[ex.Name] = ex
	}
	return out
}
