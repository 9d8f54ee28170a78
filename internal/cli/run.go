package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
	"github.com/linqs/psl-grounding-benchmarks/internal/ui/tui"
	"github.com/linqs/psl-grounding-benchmarks/internal/usecase"
)

// runOptions back both `pslbench run <dirs>` and the bare `pslbench <dirs>`.
type runOptions struct {
	wf     workspaceFlags
	format string
	useTUI bool
}

func (o *runOptions) register(c *cobra.Command) {
	o.wf.register(c)
	c.Flags().StringVar(&o.format, "format", formatPretty, "Output format: pretty|json")
	c.Flags().BoolVar(&o.useTUI, "tui", false, "Show an interactive progress view")
}

func runCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	c := &cobra.Command{
		Use:   "run <example-dir>...",
		Short: "Run PSL for every leaf of the matrix, skipping leaves with output",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatrix(cmd, root, opts, args)
		},
	}

	opts.register(c)
	return c
}

func runMatrix(cmd *cobra.Command, root *rootOptions, opts *runOptions, args []string) error {
	if len(args) == 0 {
		_ = cmd.Usage()
		return usecase.ErrNoExamples
	}
	if err := checkFormat(opts.format); err != nil {
		return err
	}

	console := cmd.ErrOrStderr()
	if opts.useTUI {
		console = nil
	}
	ws, err := loadWorkspace(opts.wf, root.debug, console)
	if err != nil {
		return err
	}
	defer func() { _ = ws.Close() }()

	uc := usecase.NewRunMatrix(ws.cfg, ws.examples, ws.data, ws.runner, ws.store, usecase.WithLogger(ws.log))

	var report domain.MatrixReport
	if opts.useTUI {
		report, err = tui.Run(cmd.Context(), tui.Deps{
			Experiment: ws.cfg.Experiment,
			Logger:     ws.log,
			Run: func(ctx context.Context, obs usecase.Observer) (domain.MatrixReport, error) {
				return uc.Execute(ctx, args, obs)
			},
		})
	} else {
		var obs usecase.Observer
		if opts.format == formatPretty {
			obs = progressPrinter(cmd.ErrOrStderr())
		}
		report, err = uc.Execute(cmd.Context(), args, obs)
	}

	// The report covers every leaf visited, so print it even when the
	// matrix stopped early.
	if perr := printReport(cmd.OutOrStdout(), report, opts.format); perr != nil && err == nil {
		err = perr
	}
	return err
}

// progressPrinter writes one line per finished leaf.
func progressPrinter(w io.Writer) usecase.Observer {
	done := 0
	return usecase.ObserverFunc(func(e usecase.Event) {
		switch e.Kind {
		case usecase.EventPlanned:
			fmt.Fprintf(w, "%d leaves planned\n", e.Total)
		case usecase.EventLeafDone:
			done++
			fmt.Fprintf(w, "[%d/%d] %-9s %s", done, e.Total, e.Result.Status, e.Leaf)
			if d := e.Result.Duration(); d > 0 {
				fmt.Fprintf(w, " (%s)", d.Round(100*time.Millisecond))
			}
			fmt.Fprintln(w)
		}
	})
}
