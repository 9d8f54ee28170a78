package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
)

func TestLoad(t *testing.T) {
	path := filepath.Join("testdata", "pslbench.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Experiment != "grounding" {
		t.Fatalf("expected experiment grounding, got %q", cfg.Experiment)
	}
	if cfg.Iterations != 3 {
		t.Fatalf("expected 3 iterations, got %d", cfg.Iterations)
	}
	if len(cfg.Backends) != 2 || cfg.Backends[1].Name != "Postgres" {
		t.Fatalf("unexpected backends %+v", cfg.Backends)
	}
	if got := strings.Join(cfg.Backends[1].Args, " "); got != "--postgres bench" {
		t.Fatalf("unexpected backend args %q", got)
	}
	if len(cfg.Splits) != 2 {
		t.Fatalf("expected 2 splits, got %v", cfg.Splits)
	}
	if cfg.Data.BackupSuffix != ".orig" {
		t.Fatalf("expected backup suffix override, got %q", cfg.Data.BackupSuffix)
	}
	// Untouched sections keep their defaults.
	if cfg.Run.Script != "./run.sh" || cfg.Data.Match != domain.DefaultConfig().Data.Match {
		t.Fatalf("expected defaults to survive partial config")
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join("testdata", "pslbench_invalid.yaml")
	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "backends[1].name") {
		t.Fatalf("expected field in error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected path in error, got %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "nope.yaml"))
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse("inline.yaml", []byte("pslbench: [unclosed"))
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
}
