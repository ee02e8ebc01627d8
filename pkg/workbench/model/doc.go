// Package model provides the data structures shared by the workbench packages.
// It defines the pipeline snapshot as the server reports it (modules, module kinds and
// parameters), the backend contract used to mutate it, and the hooks that observe
// serialized requests.
package model
