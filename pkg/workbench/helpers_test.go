package workbench_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carlosphillips/cjworkbench/internal/store"
	"github.com/carlosphillips/cjworkbench/pkg/workbench"
	"github.com/carlosphillips/cjworkbench/pkg/workbench/model"
)

const (
	testWorkflow = model.WorkflowID(1)

	loadKind   = model.KindID(1)
	editKind   = model.KindID(2)
	renameKind = model.KindID(3)
	sortKind   = model.KindID(4)
)

func testKinds() map[model.KindID]model.ModuleKind {
	return map[model.KindID]model.ModuleKind{
		loadKind:   {ID: loadKind, Key: "loadurl"},
		editKind:   {ID: editKind, Key: workbench.CellEditKindKey},
		renameKind: {ID: renameKind, Key: workbench.RenameKindKey},
		sortKind:   {ID: sortKind, Key: "sort-from-table"},
	}
}

func newTestStore(t *testing.T, modules ...model.Module) *store.MemoryStore {
	t.Helper()

	s := store.NewMemoryStore(
		store.WithKinds(
			store.KindSpec{Kind: testKinds()[loadKind], Params: []store.ParamSpec{{Key: "url"}}},
			store.KindSpec{Kind: testKinds()[editKind], Params: []store.ParamSpec{{Key: workbench.CellEditsParamKey}}},
			store.KindSpec{Kind: testKinds()[renameKind], Params: []store.ParamSpec{
				{Key: workbench.DisplayAllKey, Default: "true"},
				{Key: workbench.RenameParamKey},
			}},
			store.KindSpec{Kind: testKinds()[sortKind], Params: []store.ParamSpec{{Key: "column"}}},
		),
		store.WithNextIDs(99, 999),
	)
	s.Seed(testWorkflow, "test", modules...)

	return s
}

func newTestClient(t *testing.T, s *store.MemoryStore, opts ...workbench.MutatorOption) *workbench.Client {
	t.Helper()

	c, err := workbench.NewClient(s, workbench.NewSerializer(), opts...)
	require.NoError(t, err)

	return c
}

func parameterValue(t *testing.T, s *store.MemoryStore, id model.ParameterID) string {
	t.Helper()

	value, err := s.ParameterValue(id)
	require.NoError(t, err)

	return value
}
