// Package workbench provides the client-side mutation pipeline of the workflow editor.
//
// Every state-changing request goes through a Serializer, which starts requests one at a
// time in submission order. A failed request never blocks the requests queued after it, and
// each caller observes the outcome of its own request through a Future.
//
// On top of the Serializer, a Mutator turns user edit intents (rename a column, edit a cell)
// into parameter updates. It looks for an existing module of the right kind at or downstream
// of the module the user edited (see Locate). If it finds one, it folds the edit into that
// module's parameter with the merge engine (MergeRenames, MergeCellEdits). If not, it inserts
// a new module right after the edited one and configures it. Merging is total: an empty or
// corrupted stored value is treated as an empty collection, so a bad parameter never blocks
// future edits.
//
// The pipeline snapshot is never mutated locally. All changes are sent to the server, and the
// authoritative state is read back through the Backend.
package workbench
