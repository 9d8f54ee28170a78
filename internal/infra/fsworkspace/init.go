package fsworkspace

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
	"github.com/linqs/psl-grounding-benchmarks/internal/ports"
)

//go:embed templates/*
var templatesFS embed.FS

const gitignoreHeader = "# pslbench"

// Initializer scaffolds a workspace laid out for DefaultConfig: pslbench.yaml,
// the results and log directories, and .gitignore entries for both plus the
// data backups.
type Initializer struct {
	cfg domain.Config
}

func NewInitializer() *Initializer {
	return &Initializer{cfg: domain.DefaultConfig()}
}

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

func (i *Initializer) Init(spec domain.WorkspaceSpec, force bool) error {
	root := filepath.Clean(spec.Root)

	for _, d := range []string{
		filepath.Join(root, i.cfg.Paths.ResultsDir),
		filepath.Join(root, ".pslbench", "logs"),
	} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return &domain.OpError{Op: "fsworkspace.mkdir", Kind: domain.KindExecution, Path: d, Err: err}
		}
	}

	if err := ensureGitignore(root, ignoreEntries(i.cfg)); err != nil {
		return &domain.OpError{Op: "fsworkspace.gitignore", Kind: domain.KindExecution, Path: root, Err: err}
	}

	return writeTemplates(root, force)
}

func ignoreEntries(cfg domain.Config) []string {
	return []string{
		strings.TrimSuffix(cfg.Paths.ResultsDir, "/") + "/",
		".pslbench/",
		"*.data" + cfg.Data.BackupSuffix,
	}
}

// writeTemplates copies every embedded template into root. Existing files are
// kept unless force is set.
func writeTemplates(root string, force bool) error {
	return fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		dst := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(p, "templates/")))
		if !force {
			if _, statErr := os.Stat(dst); statErr == nil {
				return nil
			} else if !errors.Is(statErr, fs.ErrNotExist) {
				return &domain.OpError{Op: "fsworkspace.template", Kind: domain.KindExecution, Path: dst, Err: statErr}
			}
		}

		b, err := fs.ReadFile(templatesFS, p)
		if err == nil {
			err = os.MkdirAll(filepath.Dir(dst), 0o755)
		}
		if err == nil {
			err = os.WriteFile(dst, b, 0o644)
		}
		if err != nil {
			return &domain.OpError{Op: "fsworkspace.template", Kind: domain.KindExecution, Path: dst, Err: err}
		}
		return nil
	})
}

// ensureGitignore appends the entries .gitignore lacks, under one header.
func ensureGitignore(root string, entries []string) error {
	path := filepath.Join(root, ".gitignore")

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		lines := append([]string{gitignoreHeader}, entries...)
		return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644)
	}
	if err != nil {
		return err
	}

	existing := string(b)
	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var add []string
	if !present[gitignoreHeader] {
		add = append(add, gitignoreHeader)
	}
	missing := 0
	for _, e := range entries {
		if !present[e] {
			add = append(add, e)
			missing++
		}
	}
	if missing == 0 {
		return nil
	}

	var out strings.Builder
	out.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
	out.WriteString(strings.Join(add, "\n"))
	out.WriteByte('\n')
	return os.WriteFile(path, []byte(out.String()), 0o644)
}
