package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wbedit",
		Short: "Edit workbench workflows from the command line",
		Long: `wbedit sends table edits to a workbench server the way the table view does:
each edit is folded into the right module of the workflow, one request at a time.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := a.setup(cmd.Context())
			if err != nil {
				return err
			}

			cmd.SetContext(ctx)

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.logLevel, "log-level", "l", "",
		"Set the logging level: debug, info, warn, error (default from WORKBENCH_LOG_LEVEL)")
	rootCmd.PersistentFlags().Int64VarP(&a.workflowID, "workflow", "w", 0, "Workflow id")
	_ = rootCmd.MarkPersistentFlagRequired("workflow")

	rootCmd.AddCommand(
		newRenameCmd(a),
		newEditCellCmd(a),
		newShowCmd(a),
		newDrawCmd(a),
		newDeleteCmd(a),
		newReorderCmd(a),
		newUndoCmd(a),
		newRedoCmd(a),
	)

	return rootCmd
}
