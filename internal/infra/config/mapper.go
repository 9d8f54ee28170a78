package config

import (
	"errors"
	"strings"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
)

// MapConfig applies parsed values on top of base and validates the result.
func MapConfig(path string, base domain.Config, y YAMLConfig) (domain.Config, error) {
	cfg := base

	if s := strings.TrimSpace(y.Experiment); s != "" {
		cfg.Experiment = s
	}
	if y.Iterations != nil {
		cfg.Iterations = *y.Iterations
	}
	if y.Backends != nil {
		cfg.Backends = make([]domain.Backend, 0, len(y.Backends))
		for _, b := range y.Backends {
			cfg.Backends = append(cfg.Backends, domain.Backend{
				Name: strings.TrimSpace(b.Name),
				Args: append([]string(nil), b.Args...),
			})
		}
	}
	if len(y.Splits) > 0 {
		cfg.Splits = append([]string(nil), y.Splits...)
	}

	if y.Paths.ResultsDir != "" {
		cfg.Paths.ResultsDir = y.Paths.ResultsDir
	}

	if y.Run.Script != "" {
		cfg.Run.Script = y.Run.Script
	}
	if y.Run.CLIDir != "" {
		cfg.Run.CLIDir = y.Run.CLIDir
	}
	if y.Run.Stdout != "" {
		cfg.Run.Stdout = y.Run.Stdout
	}
	if y.Run.Stderr != "" {
		cfg.Run.Stderr = y.Run.Stderr
	}
	if y.Run.Outputs != nil {
		cfg.Run.Outputs = append([]string(nil), y.Run.Outputs...)
	}

	if y.Data.Glob != "" {
		cfg.Data.Glob = y.Data.Glob
	}
	if y.Data.Match != "" {
		cfg.Data.Match = y.Data.Match
	}
	if y.Data.Replace != "" {
		cfg.Data.Replace = y.Data.Replace
	}
	if y.Data.BackupSuffix != "" {
		cfg.Data.BackupSuffix = y.Data.BackupSuffix
	}

	if err := cfg.Validate(); err != nil {
		var oe *domain.OpError
		if errors.As(err, &oe) {
			oe.Path = path
		}
		return domain.Config{}, err
	}
	return cfg, nil
}
