package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linqs/psl-grounding-benchmarks/internal/usecase"
)

func restoreCmd(root *rootOptions) *cobra.Command {
	var wf workspaceFlags

	c := &cobra.Command{
		Use:   "restore <example-dir>...",
		Short: "Put back data files left rewritten by an interrupted run",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Usage()
				return usecase.ErrNoExamples
			}

			ws, err := loadWorkspace(wf, root.debug, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = ws.Close() }()

			files, err := usecase.NewRestoreData(ws.examples, ws.data, ws.log).Execute(args)
			out := cmd.OutOrStdout()
			for _, f := range files {
				fmt.Fprintf(out, "restored %s\n", f)
			}
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(out, "nothing to restore")
			}
			return nil
		},
	}

	wf.register(c)
	return c
}
