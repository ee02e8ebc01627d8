package workbench_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosphillips/cjworkbench/pkg/workbench"
)

func TestMergeRenames(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		existing string
		prev     string
		new      string
		expected string
	}{
		"empty":                {existing: "", prev: "A", new: "B", expected: `{"A":"B"}`},
		"blank":                {existing: "  ", prev: "A", new: "B", expected: `{"A":"B"}`},
		"append":               {existing: `{"A":"B"}`, prev: "C", new: "D", expected: `{"A":"B","C":"D"}`},
		"overwrite":            {existing: `{"A":"B","C":"D"}`, prev: "A", new: "X", expected: `{"A":"X","C":"D"}`},
		"collapse":             {existing: `{"A":"B"}`, prev: "B", new: "C", expected: `{"A":"C"}`},
		"collapse keeps order": {existing: `{"A":"B","C":"D"}`, prev: "D", new: "E", expected: `{"A":"B","C":"E"}`},
		"malformed":            {existing: "not json", prev: "x", new: "y", expected: `{"x":"y"}`},
		"wrong shape":          {existing: `["A","B"]`, prev: "x", new: "y", expected: `{"x":"y"}`},
		"wrong value type":     {existing: `{"A":1}`, prev: "x", new: "y", expected: `{"x":"y"}`},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := workbench.MergeRenames(tc.existing, tc.prev, tc.new)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestMergeRenamesChain(t *testing.T) {
	t.Parallel()

	value := ""
	for _, r := range []workbench.Rename{{PrevName: "A", NewName: "B"}, {PrevName: "B", NewName: "C"}, {PrevName: "C", NewName: "D"}} {
		var err error
		value, err = workbench.MergeRenames(value, r.PrevName, r.NewName)
		require.NoError(t, err)
	}

	assert.Equal(t, `{"A":"D"}`, value)
}

func TestMergeCellEdits(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		existing string
		edit     workbench.CellEdit
		expected string
	}{
		"empty": {
			edit:     workbench.CellEdit{Row: 3, Col: "foo", Value: "bar"},
			expected: `[{"row":3,"col":"foo","value":"bar"}]`,
		},
		"append": {
			existing: `[{"row":3,"col":"foo","value":"bar"}]`,
			edit:     workbench.CellEdit{Row: 10, Col: "bar", Value: "yippee!"},
			expected: `[{"row":3,"col":"foo","value":"bar"},{"row":10,"col":"bar","value":"yippee!"}]`,
		},
		"same cell replaced in place": {
			existing: `[{"row":3,"col":"foo","value":"bar"},{"row":10,"col":"bar","value":"x"}]`,
			edit:     workbench.CellEdit{Row: 3, Col: "foo", Value: "baz"},
			expected: `[{"row":3,"col":"foo","value":"baz"},{"row":10,"col":"bar","value":"x"}]`,
		},
		"same row other column": {
			existing: `[{"row":3,"col":"foo","value":"bar"}]`,
			edit:     workbench.CellEdit{Row: 3, Col: "qux", Value: "1"},
			expected: `[{"row":3,"col":"foo","value":"bar"},{"row":3,"col":"qux","value":"1"}]`,
		},
		"malformed": {
			existing: `{"row":3`,
			edit:     workbench.CellEdit{Row: 1, Col: "a", Value: "b"},
			expected: `[{"row":1,"col":"a","value":"b"}]`,
		},
		"null": {
			existing: "null",
			edit:     workbench.CellEdit{Row: 1, Col: "a", Value: "b"},
			expected: `[{"row":1,"col":"a","value":"b"}]`,
		},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := workbench.MergeCellEdits(tc.existing, tc.edit)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestDecodeStatus(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		renames  string
		edits    string
		expected workbench.DecodeStatus
	}{
		"blank":     {renames: "", edits: " ", expected: workbench.DecodeEmpty},
		"ok":        {renames: `{"A":"B"}`, edits: `[{"row":1,"col":"a","value":"b"}]`, expected: workbench.DecodeOK},
		"empty ok":  {renames: `{}`, edits: `[]`, expected: workbench.DecodeOK},
		"malformed": {renames: `{"A"`, edits: `[{`, expected: workbench.DecodeMalformed},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			renames := workbench.DecodeRenames(tc.renames)
			assert.Equal(t, tc.expected, renames.Status, renames.Status.String())
			require.NotNil(t, renames.Entries)

			edits := workbench.DecodeCellEdits(tc.edits)
			assert.Equal(t, tc.expected, edits.Status, edits.Status.String())
			require.NotNil(t, edits.Entries)

			if tc.expected != workbench.DecodeOK {
				assert.Zero(t, renames.Entries.Len())
				assert.Zero(t, edits.Entries.Len())
			}
		})
	}
}

func TestEditMergeReportsStatus(t *testing.T) {
	t.Parallel()

	_, status, err := workbench.Rename{PrevName: "A", NewName: "B"}.Merge("garbage")
	require.NoError(t, err)
	assert.Equal(t, workbench.DecodeMalformed, status)

	_, status, err = workbench.CellEdit{Row: 1, Col: "a", Value: "b"}.Merge("")
	require.NoError(t, err)
	assert.Equal(t, workbench.DecodeEmpty, status)
}
