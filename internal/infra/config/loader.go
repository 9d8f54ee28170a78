package config

import (
	"os"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
	"gopkg.in/yaml.v3"
)

// Load reads a pslbench.yaml file and applies it on top of domain.DefaultConfig.
func Load(path string) (domain.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.DefaultConfig(), &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}
	return Parse(path, b)
}

// Parse decodes YAML bytes. path is only used for error context.
func Parse(path string, b []byte) (domain.Config, error) {
	var y YAMLFile
	if err := yaml.Unmarshal(b, &y); err != nil {
		return domain.DefaultConfig(), &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}
	return MapConfig(path, domain.DefaultConfig(), y.PSLBench)
}
