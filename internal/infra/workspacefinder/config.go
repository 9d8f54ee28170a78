package workspacefinder

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
	"github.com/linqs/psl-grounding-benchmarks/internal/infra/config"
)

// LoadConfig loads pslbench.yaml from the workspace root and applies defaults.
// A missing file is not an error: the defaults describe the stock PSL examples.
func LoadConfig(root string) (domain.Config, error) {
	path := filepath.Join(root, ConfigFile)

	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return cfg, err
	}
	return cfg, nil
}
