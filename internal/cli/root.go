package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

type rootOptions struct {
	debug bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	run := &runOptions{}

	cmd := &cobra.Command{
		Use:   "pslbench [flags] <example-dir>...",
		Short: "Run PSL over a matrix of examples, splits, backends and iterations",
		Long: "pslbench runs the PSL CLI of each example once per iteration, data split and\n" +
			"database backend, one run at a time. Output lands in\n" +
			"results/experiment::<id>/example::<name>/split::<id>/backend::<name>/iteration::<n>/\n" +
			"and leaves that already have output are skipped.",
		SilenceUsage: true,
		// Positional args are example dirs, not unknown subcommands.
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatrix(cmd, opts, run, args)
		},
	}

	run.register(cmd)
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable verbose logging to .pslbench/logs/pslbench.log")

	cmd.AddCommand(
		runCmd(opts),
		planCmd(opts),
		restoreCmd(opts),
		initCmd(),
		versionCmd(),
	)
	return cmd
}
