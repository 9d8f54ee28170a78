package workspacefinder

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
	"github.com/linqs/psl-grounding-benchmarks/internal/ports"
)

// ConfigFile is the file that marks a workspace root.
const ConfigFile = "pslbench.yaml"

// Finder walks up from a directory to the nearest one holding Marker.
type Finder struct {
	Marker string
}

func NewFinder() *Finder {
	return &Finder{Marker: ConfigFile}
}

var _ ports.WorkspaceLocator = (*Finder)(nil)

func (f *Finder) FindRoot(startDir string) (string, error) {
	const op = "workspacefinder.findroot"

	if strings.TrimSpace(startDir) == "" {
		return "", &domain.OpError{Op: op, Kind: domain.KindInvalidConfig, Err: errors.New("start dir is empty")}
	}

	start, err := filepath.Abs(startDir)
	if err != nil {
		return "", &domain.OpError{Op: op, Kind: domain.KindExecution, Path: startDir, Err: err}
	}
	// A file argument (e.g. an example's run.sh) searches from its directory.
	if info, err := os.Stat(start); err == nil && !info.IsDir() {
		start = filepath.Dir(start)
	}

	for dir := filepath.Clean(start); ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, f.Marker)
		found, err := isMarker(candidate)
		if err != nil {
			return "", &domain.OpError{Op: op, Kind: domain.KindExecution, Path: candidate, Err: err}
		}
		if found {
			return dir, nil
		}

		if filepath.Dir(dir) == dir {
			return "", &domain.OpError{
				Op:   op,
				Kind: domain.KindNotFound,
				Path: start,
				Err:  fmt.Errorf("no %s in %s or any parent: %w", f.Marker, start, domain.ErrNotFound),
			}
		}
	}
}

// isMarker reports whether p is a regular file. A directory with the marker's
// name does not make a workspace.
func isMarker(p string) (bool, error) {
	info, err := os.Stat(p)
	switch {
	case err == nil:
		return info.Mode().IsRegular(), nil
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return false, nil
	default:
		return false, err
	}
}
