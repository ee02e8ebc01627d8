package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/carlosphillips/cjworkbench/pkg/workbench"
	"github.com/carlosphillips/cjworkbench/pkg/workbench/drawer"
	"github.com/carlosphillips/cjworkbench/pkg/workbench/model"
)

// editFlags are shared by the edit commands.
type editFlags struct {
	from int64
	draw string
}

func (f *editFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.from, "from", 0, "Module whose output is being edited")
	cmd.Flags().StringVar(&f.draw, "draw", "", "Write a DOT graph of the pipeline, coloured by request latency, to this file")
	_ = cmd.MarkFlagRequired("from")
}

func applyEdit(cmd *cobra.Command, a *app, flags *editFlags, edit workbench.Edit, forceNew bool) error {
	id, err := a.client.ApplyEditIntent(cmd.Context(), workbench.EditIntent{
		WorkflowID:   a.workflow(),
		FromModuleID: model.ModuleID(flags.from),
		Edit:         edit,
		ForceNew:     forceNew,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d\n", id)

	if flags.draw == "" {
		return nil
	}

	return drawAfterEdit(cmd, a, flags.draw)
}

// drawAfterEdit draws the pipeline with the latencies measured while editing it.
func drawAfterEdit(cmd *cobra.Command, a *app, output string) error {
	if err := a.client.Drain(cmd.Context()); err != nil {
		return err
	}

	p, err := a.client.Snapshot(cmd.Context(), a.workflow())
	if err != nil {
		return err
	}

	file, err := os.Create(output)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", output)
	}
	defer file.Close()

	return drawer.DrawPipeline(file, p, a.measure)
}

func newRenameCmd(a *app) *cobra.Command {
	var (
		flags    editFlags
		prevName string
		newName  string
	)

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename a column as seen in the output of a module",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return applyEdit(cmd, a, &flags, workbench.Rename{PrevName: prevName, NewName: newName}, false)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&prevName, "prev", "", "Current column name")
	cmd.Flags().StringVar(&newName, "new", "", "New column name")
	_ = cmd.MarkFlagRequired("prev")
	_ = cmd.MarkFlagRequired("new")

	return cmd
}

func newEditCellCmd(a *app) *cobra.Command {
	var (
		flags    editFlags
		forceNew bool
		edit     workbench.CellEdit
	)

	cmd := &cobra.Command{
		Use:   "edit-cell",
		Short: "Set the value of a cell as seen in the output of a module",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return applyEdit(cmd, a, &flags, edit, forceNew)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&edit.Row, "row", 0, "Row index")
	cmd.Flags().StringVar(&edit.Col, "col", "", "Column name")
	cmd.Flags().StringVar(&edit.Value, "value", "", "New value")
	cmd.Flags().BoolVar(&forceNew, "force-new", false, "Always add a new module after --from")
	_ = cmd.MarkFlagRequired("row")
	_ = cmd.MarkFlagRequired("col")

	return cmd
}
