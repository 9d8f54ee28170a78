package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
	"github.com/linqs/psl-grounding-benchmarks/internal/infra/examplefs"
	"github.com/linqs/psl-grounding-benchmarks/internal/infra/logger"
	"github.com/linqs/psl-grounding-benchmarks/internal/infra/pslrunner"
	"github.com/linqs/psl-grounding-benchmarks/internal/infra/runstore"
	"github.com/linqs/psl-grounding-benchmarks/internal/infra/splitdata"
	"github.com/linqs/psl-grounding-benchmarks/internal/infra/workspacefinder"
	"github.com/linqs/psl-grounding-benchmarks/internal/ports"
)

// workspaceFlags are shared by every command that touches examples.
type workspaceFlags struct {
	workspace  string
	experiment string
	iterations int
	backends   []string
	splits     []string
}

func (f *workspaceFlags) register(c *cobra.Command) {
	c.Flags().StringVarP(&f.workspace, "workspace", "w", "", "Workspace root (optional; autodetected from pslbench.yaml, else the current directory)")
	c.Flags().StringVarP(&f.experiment, "experiment", "x", "", "Experiment id (overrides pslbench.yaml)")
	c.Flags().IntVarP(&f.iterations, "iterations", "n", 0, "Iterations per example/split/backend (overrides pslbench.yaml)")
	c.Flags().StringSliceVarP(&f.backends, "backend", "b", nil, "Only run these backends (repeatable)")
	c.Flags().StringSliceVarP(&f.splits, "split", "s", nil, "Run these splits instead of the discovered ones (repeatable)")
}

type workspaceCtx struct {
	root string
	cfg  domain.Config

	examples ports.ExampleLoader
	data     ports.DataRewriter
	runner   ports.PSLRunner
	store    ports.ResultStore

	log      *slog.Logger
	closeLog func() error
}

func (ws *workspaceCtx) Close() error {
	if ws == nil || ws.closeLog == nil {
		return nil
	}
	return ws.closeLog()
}

func loadWorkspace(f workspaceFlags, debug bool, console io.Writer) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(f.workspace)
	if err != nil {
		return nil, err
	}

	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		return nil, err
	}
	cfg, err = applyOverrides(cfg, f)
	if err != nil {
		return nil, err
	}

	closeLog, err := logger.Setup(logger.Config{
		Root:    root,
		Debug:   debug,
		Console: console,
	})
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	log := logger.L().With("experiment", cfg.Experiment)

	return &workspaceCtx{
		root:     root,
		cfg:      cfg,
		examples: examplefs.NewLoader(cfg),
		data:     splitdata.NewRewriter(cfg.Data, splitdata.WithLogger(log)),
		runner:   pslrunner.New(pslrunner.WithEnv("PSLBENCH_ROOT=" + root)),
		store:    runstore.NewJSONStore(root, cfg, runstore.WithIndex(true)),
		log:      log,
		closeLog: closeLog,
	}, nil
}

// applyOverrides layers command line flags over the workspace config.
func applyOverrides(cfg domain.Config, f workspaceFlags) (domain.Config, error) {
	if x := strings.TrimSpace(f.experiment); x != "" {
		cfg.Experiment = x
	}
	if f.iterations != 0 {
		cfg.Iterations = f.iterations
	}
	if len(f.splits) > 0 {
		cfg.Splits = append([]string(nil), f.splits...)
	}

	cfg, err := cfg.FilterBackends(f.backends)
	if err != nil {
		return domain.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// resolveWorkspaceRoot prefers --workspace, then the nearest pslbench.yaml
// above the working directory, then the working directory itself.
func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	var locator ports.WorkspaceLocator = workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return wd, nil
		}
		return "", err
	}
	return root, nil
}
