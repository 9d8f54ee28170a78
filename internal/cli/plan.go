package cli

import (
	"github.com/spf13/cobra"

	"github.com/linqs/psl-grounding-benchmarks/internal/usecase"
)

func planCmd(root *rootOptions) *cobra.Command {
	var wf workspaceFlags
	var format string

	c := &cobra.Command{
		Use:   "plan <example-dir>...",
		Short: "List the leaves a run would execute or skip (nothing runs)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Usage()
				return usecase.ErrNoExamples
			}
			if err := checkFormat(format); err != nil {
				return err
			}

			ws, err := loadWorkspace(wf, root.debug, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = ws.Close() }()

			report, err := usecase.NewPlanMatrix(ws.cfg, ws.examples, ws.store).Execute(args)
			if err != nil {
				return err
			}
			return printPlan(cmd.OutOrStdout(), report, format)
		},
	}

	wf.register(c)
	c.Flags().StringVar(&format, "format", formatPretty, "Output format: pretty|json")
	return c
}
