package registry

import "slices"

// Executor is the body of a recipe. It receives the input artifacts in the
// order declared at registration (each exposing its materialised filenames),
// the output prefix chosen by the build, and the output suffix from the
// artifact's registration. It returns the non-empty list of filenames it
// created or aliased.
//
// Executors may perform arbitrary I/O. Any file an executor creates must
// either appear in the returned list (so the retention sweep can see it) or
// be cleaned up by the executor itself. Executors that alias their inputs —
// returning a subset of the input filenames unchanged — are permitted.
type Executor func(inputs []*Artifact, outputPrefix, outputSuffix string) ([]string, error)

// Recipe is a rule for producing one artifact from zero or more others.
// The input order is semantically significant and is preserved for the
// executor. A recipe's priority is its index within its output artifact's
// recipe list; lower is preferred.
type Recipe struct {
	inputs []*Artifact
	exec   Executor
}

// Inputs returns the recipe's input artifacts in declaration order.
func (r *Recipe) Inputs() []*Artifact { return slices.Clone(r.inputs) }
