package main

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/carlosphillips/cjworkbench/pkg/workbench/drawer"
	"github.com/carlosphillips/cjworkbench/pkg/workbench/model"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the workflow pipeline as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.client.Snapshot(cmd.Context(), a.workflow())
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)

			if err := enc.Encode(p); err != nil {
				return errors.Wrap(err, "unable to encode pipeline")
			}

			return enc.Close()
		},
	}
}

func newDrawCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw the workflow pipeline as a DOT graph",
		Long: "Draw the workflow pipeline as a DOT graph. Latency colours need requests measured in the same run, " +
			"see the --draw flag of the edit commands.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.client.Snapshot(cmd.Context(), a.workflow())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return errors.Wrapf(err, "unable to create file %s", output)
				}
				defer file.Close()

				w = file
			}

			return drawer.DrawPipeline(w, p, nil)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the graph to a file instead of stdout")

	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete MODULE_ID",
		Short: "Delete a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseModuleIDs(args)
			if err != nil {
				return err
			}

			return a.client.DeleteModule(cmd.Context(), a.workflow(), ids[0])
		},
	}
}

func newReorderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder MODULE_ID...",
		Short: "Set the order of the modules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseModuleIDs(args)
			if err != nil {
				return err
			}

			return a.client.ReorderModules(cmd.Context(), a.workflow(), ids)
		},
	}
}

func newUndoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the latest change to the workflow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.client.Undo(cmd.Context(), a.workflow())
		},
	}
}

func newRedoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Redo the latest undone change to the workflow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.client.Redo(cmd.Context(), a.workflow())
		},
	}
}

func parseModuleIDs(args []string) ([]model.ModuleID, error) {
	ids := make([]model.ModuleID, 0, len(args))

	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid module id %q", arg)
		}

		ids = append(ids, model.ModuleID(id))
	}

	return ids, nil
}
