package workbench

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DecodeStatus tells how a stored parameter value was read.
type DecodeStatus int

const (
	// DecodeOK means the value held a well-formed collection.
	DecodeOK DecodeStatus = iota
	// DecodeEmpty means the value was blank.
	DecodeEmpty
	// DecodeMalformed means the value could not be parsed and was read as empty.
	DecodeMalformed
)

func (s DecodeStatus) String() string {
	switch s {
	case DecodeOK:
		return "ok"
	case DecodeEmpty:
		return "empty"
	case DecodeMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Decoded is the ordered collection read from a parameter value. Entries is never nil.
type Decoded[K comparable, V any] struct {
	Entries *orderedmap.OrderedMap[K, V]
	Status  DecodeStatus
}

// CellKey is the coordinate of an edited cell.
type CellKey struct {
	Row int
	Col string
}

// DecodeRenames reads a rename mapping, a JSON object of previous name to new name.
// It never fails: blank or malformed input yields an empty mapping.
func DecodeRenames(value string) Decoded[string, string] {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Decoded[string, string]{Entries: orderedmap.New[string, string](), Status: DecodeEmpty}
	}

	if !strings.HasPrefix(trimmed, "{") {
		return Decoded[string, string]{Entries: orderedmap.New[string, string](), Status: DecodeMalformed}
	}

	entries := orderedmap.New[string, string]()
	if err := json.Unmarshal([]byte(trimmed), entries); err != nil {
		return Decoded[string, string]{Entries: orderedmap.New[string, string](), Status: DecodeMalformed}
	}

	return Decoded[string, string]{Entries: entries, Status: DecodeOK}
}

// DecodeCellEdits reads a JSON list of cell edits. Later edits of the same cell replace
// earlier ones in place. It never fails: blank or malformed input yields an empty mapping.
func DecodeCellEdits(value string) Decoded[CellKey, string] {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Decoded[CellKey, string]{Entries: orderedmap.New[CellKey, string](), Status: DecodeEmpty}
	}

	var edits []CellEdit
	if err := json.Unmarshal([]byte(trimmed), &edits); err != nil || edits == nil {
		return Decoded[CellKey, string]{Entries: orderedmap.New[CellKey, string](), Status: DecodeMalformed}
	}

	entries := orderedmap.New[CellKey, string]()
	for _, e := range edits {
		entries.Set(CellKey{Row: e.Row, Col: e.Col}, e.Value)
	}

	return Decoded[CellKey, string]{Entries: entries, Status: DecodeOK}
}

// MergeRenames folds the rename prevName -> newName into the stored mapping existing.
//
// When prevName is the new name of an earlier rename, that entry is rewritten so
// A->B followed by B->C is stored as A->C. Otherwise the entry for prevName is
// overwritten, or appended.
func MergeRenames(existing, prevName, newName string) (string, error) {
	merged, _, err := mergeRenames(existing, prevName, newName)

	return merged, err
}

// MergeCellEdits folds edit into the stored list of cell edits existing. An edit of a
// cell already in the list replaces its value in place, otherwise it is appended.
func MergeCellEdits(existing string, edit CellEdit) (string, error) {
	merged, _, err := mergeCellEdits(existing, edit)

	return merged, err
}

func mergeRenames(existing, prevName, newName string) (string, DecodeStatus, error) {
	decoded := DecodeRenames(existing)
	entries := decoded.Entries

	collapsed := false

	for pair := entries.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == prevName {
			entries.Set(pair.Key, newName)

			collapsed = true

			break
		}
	}

	if !collapsed {
		entries.Set(prevName, newName)
	}

	out, err := json.Marshal(entries)
	if err != nil {
		return "", decoded.Status, errors.Wrap(err, "unable to encode renames")
	}

	return string(out), decoded.Status, nil
}

func mergeCellEdits(existing string, edit CellEdit) (string, DecodeStatus, error) {
	decoded := DecodeCellEdits(existing)
	entries := decoded.Entries
	entries.Set(CellKey{Row: edit.Row, Col: edit.Col}, edit.Value)

	edits := make([]CellEdit, 0, entries.Len())
	for pair := entries.Oldest(); pair != nil; pair = pair.Next() {
		edits = append(edits, CellEdit{Row: pair.Key.Row, Col: pair.Key.Col, Value: pair.Value})
	}

	out, err := json.Marshal(edits)
	if err != nil {
		return "", decoded.Status, errors.Wrap(err, "unable to encode cell edits")
	}

	return string(out), decoded.Status, nil
}
