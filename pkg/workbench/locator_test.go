package workbench_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosphillips/cjworkbench/pkg/workbench"
	"github.com/carlosphillips/cjworkbench/pkg/workbench/model"
)

func TestLocate(t *testing.T) {
	t.Parallel()

	pipe := &model.Pipeline{
		WorkflowID: testWorkflow,
		Kinds:      testKinds(),
		Modules: []model.Module{
			{ID: 10, KindID: loadKind},
			{ID: 20, KindID: editKind},
			{ID: 30, KindID: sortKind},
			{ID: 40, KindID: renameKind},
		},
	}
	sortBarrier := workbench.WithBarrier(workbench.BarrierKinds("sort-from-table"))

	tcs := map[string]struct {
		from     model.ModuleID
		kind     string
		opts     []workbench.LocateOption
		expected model.ModuleID
		index    int
	}{
		"downstream match":           {from: 10, kind: workbench.CellEditKindKey, expected: 20, index: 1},
		"from itself":                {from: 20, kind: workbench.CellEditKindKey, expected: 20, index: 1},
		"upstream is ignored":        {from: 30, kind: workbench.CellEditKindKey, index: 3},
		"far downstream":             {from: 10, kind: workbench.RenameKindKey, expected: 40, index: 3},
		"last module":                {from: 40, kind: workbench.CellEditKindKey, index: 4},
		"stopped by barrier":         {from: 10, kind: workbench.RenameKindKey, opts: []workbench.LocateOption{sortBarrier}, index: 1},
		"barrier after match":        {from: 10, kind: workbench.CellEditKindKey, opts: []workbench.LocateOption{sortBarrier}, expected: 20, index: 1},
		"from is never a barrier":    {from: 30, kind: workbench.RenameKindKey, opts: []workbench.LocateOption{sortBarrier}, expected: 40, index: 3},
		"matching barrier kind wins": {from: 20, kind: "sort-from-table", opts: []workbench.LocateOption{sortBarrier}, expected: 30, index: 2},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			loc, err := workbench.Locate(pipe, tc.from, tc.kind, tc.opts...)
			require.NoError(t, err)
			assert.Equal(t, tc.index, loc.InsertionIndex)

			if tc.expected == 0 {
				assert.Nil(t, loc.Module)

				return
			}

			require.NotNil(t, loc.Module)
			assert.Equal(t, tc.expected, loc.Module.ID)
		})
	}
}

func TestLocateErrors(t *testing.T) {
	t.Parallel()

	_, err := workbench.Locate(nil, 10, workbench.CellEditKindKey)
	assert.ErrorIs(t, err, workbench.ErrPipelineMustBeSet)

	pipe := &model.Pipeline{Kinds: testKinds(), Modules: []model.Module{{ID: 10, KindID: loadKind}}}
	_, err = workbench.Locate(pipe, 11, workbench.CellEditKindKey)
	assert.ErrorIs(t, err, workbench.ErrModuleNotFound)

	loc, err := workbench.Locate(&model.Pipeline{}, 11, workbench.CellEditKindKey)
	require.NoError(t, err)
	assert.Nil(t, loc.Module)
	assert.Zero(t, loc.InsertionIndex)
}

func TestLocateUnknownKindNeverMatches(t *testing.T) {
	t.Parallel()

	pipe := &model.Pipeline{
		Kinds:   testKinds(),
		Modules: []model.Module{{ID: 10, KindID: loadKind}, {ID: 20, KindID: 77}},
	}

	loc, err := workbench.Locate(pipe, 10, workbench.RenameKindKey)
	require.NoError(t, err)
	assert.Nil(t, loc.Module)
	assert.Equal(t, 1, loc.InsertionIndex)
}
