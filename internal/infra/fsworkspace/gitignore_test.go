package fsworkspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
)

func TestEnsureGitignore_CreatesFile(t *testing.T) {
	tmp := t.TempDir()

	if err := ensureGitignore(tmp, ignoreEntries(domain.DefaultConfig())); err != nil {
		t.Fatalf("ensureGitignore error: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(tmp, ".gitignore"))
	if err != nil {
		t.Fatalf("read .gitignore: %v", err)
	}

	s := string(b)
	for _, w := range []string{"# pslbench", "results/", ".pslbench/", "*.data.bak"} {
		if !strings.Contains(s, w) {
			t.Fatalf("expected .gitignore to contain %q, got:\n%s", w, s)
		}
	}
}

func TestEnsureGitignore_AppendsMissingEntries(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, ".gitignore")

	existing := "target/\n# pslbench\nresults/"
	if err := os.WriteFile(path, []byte(existing), 0o644); err != nil {
		t.Fatalf("write .gitignore: %v", err)
	}

	if err := ensureGitignore(tmp, ignoreEntries(domain.DefaultConfig())); err != nil {
		t.Fatalf("ensureGitignore error: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read .gitignore: %v", err)
	}
	s := string(b)

	if !strings.Contains(s, "target/") {
		t.Fatalf("expected existing content preserved, got:\n%s", s)
	}
	if strings.Count(s, "# pslbench") != 1 {
		t.Fatalf("expected 1 header, got:\n%s", s)
	}
	if strings.Count(s, "results/") != 1 {
		t.Fatalf("expected results/ once, got:\n%s", s)
	}
	if !strings.Contains(s, ".pslbench/") {
		t.Fatalf("expected .pslbench/ appended, got:\n%s", s)
	}
}

func TestEnsureGitignore_NoChangeWhenComplete(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, ".gitignore")
	complete := "# pslbench\nresults/\n.pslbench/\n*.data.bak\n"
	if err := os.WriteFile(path, []byte(complete), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ensureGitignore(tmp, ignoreEntries(domain.DefaultConfig())); err != nil {
		t.Fatalf("ensureGitignore error: %v", err)
	}
	b, _ := os.ReadFile(path)
	if string(b) != complete {
		t.Fatalf("expected file untouched, got:\n%s", b)
	}
}

func TestIgnoreEntries_FollowConfig(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Paths.ResultsDir = "out/"
	cfg.Data.BackupSuffix = ".orig"

	got := strings.Join(ignoreEntries(cfg), ",")
	if got != "out/,.pslbench/,*.data.orig" {
		t.Fatalf("unexpected entries %q", got)
	}
}
