package workspacefinder

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
)

func TestFindRoot_FindsWorkspaceFromNestedDir(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "ws")
	nested := filepath.Join(root, "psl-examples", "citeseer", "cli")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	// Create pslbench.yaml at root
	if err := os.WriteFile(filepath.Join(root, "pslbench.yaml"), []byte("pslbench:\n  iterations: 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	f := NewFinder()
	got, err := f.FindRoot(nested)
	if err != nil {
		t.Fatalf("FindRoot returned error: %v", err)
	}
	if got != root {
		t.Fatalf("expected root=%s, got=%s", root, got)
	}
}

func TestFindRoot_NotFound(t *testing.T) {
	tmp := t.TempDir()
	_ = os.MkdirAll(filepath.Join(tmp, "a", "b"), 0o755)

	f := NewFinder()
	_, err := f.FindRoot(filepath.Join(tmp, "a", "b"))
	if err == nil {
		t.Fatalf("expected error")
	}

	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got: %v", err)
	}
}

func TestFindRoot_EmptyStart(t *testing.T) {
	_, err := NewFinder().FindRoot("")
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got: %v", err)
	}
}

func TestFindRoot_SkipsDirectoryNamedLikeMarker(t *testing.T) {
	tmp := t.TempDir()
	nested := filepath.Join(tmp, "ws", "citeseer")
	if err := os.MkdirAll(filepath.Join(nested, ConfigFile), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmp, ConfigFile), []byte("pslbench: {}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got, err := NewFinder().FindRoot(nested)
	if err != nil {
		t.Fatalf("FindRoot returned error: %v", err)
	}
	if got != tmp {
		t.Fatalf("expected root=%s, got=%s", tmp, got)
	}
}

func TestFindRoot_StartsFromFileDirectory(t *testing.T) {
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, ConfigFile), []byte("pslbench: {}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	script := filepath.Join(tmp, "run.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}

	got, err := NewFinder().FindRoot(script)
	if err != nil || got != tmp {
		t.Fatalf("FindRoot(%s) = %q, %v; want %q", script, got, err, tmp)
	}
}

func TestFindRoot_NotFoundCarriesStartPath(t *testing.T) {
	tmp := t.TempDir()

	_, err := NewFinder().FindRoot(tmp)
	var oe *domain.OpError
	if !errors.As(err, &oe) {
		t.Fatalf("expected *domain.OpError, got %T: %v", err, err)
	}
	if oe.Path != tmp {
		t.Fatalf("expected path %s, got %s", tmp, oe.Path)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
