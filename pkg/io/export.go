// Package io serialises registries and plans to JSON, and reads
// caller-supplied provisions files.
package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/indexforge/pkg/registry"
)

// Snapshot is the JSON shape of a registry's current state.
type Snapshot struct {
	Artifacts []ArtifactState `json:"artifacts"`
}

// ArtifactState describes one artifact and its recipes.
type ArtifactState struct {
	Identifier string        `json:"identifier"`
	Suffix     string        `json:"suffix"`
	Finished   bool          `json:"finished"`
	Provided   bool          `json:"provided,omitempty"`
	Filenames  []string      `json:"filenames,omitempty"`
	Recipes    []RecipeState `json:"recipes,omitempty"`
}

// RecipeState describes one recipe by its priority and input identifiers.
type RecipeState struct {
	Priority int      `json:"priority"`
	Inputs   []string `json:"inputs"`
}

// PlanDocument is the JSON shape of a computed plan.
type PlanDocument struct {
	Targets []string        `json:"targets"`
	Steps   []registry.Step `json:"steps"`
}

// TakeSnapshot captures the registry's artifacts, recipes, and completion state.
func TakeSnapshot(r *registry.Registry) Snapshot {
	var snap Snapshot
	for _, a := range r.Artifacts() {
		state := ArtifactState{
			Identifier: a.Identifier(),
			Suffix:     a.Suffix(),
			Finished:   a.IsFinished(),
			Provided:   a.WasProvidedDirectly(),
			Filenames:  a.Filenames(),
		}
		for priority, recipe := range a.Recipes() {
			rs := RecipeState{Priority: priority}
			for _, input := range recipe.Inputs() {
				rs.Inputs = append(rs.Inputs, input.Identifier())
			}
			state.Recipes = append(state.Recipes, rs)
		}
		snap.Artifacts = append(snap.Artifacts, state)
	}
	return snap
}

// WriteJSON encodes a registry snapshot as indented JSON and writes it to w.
func WriteJSON(r *registry.Registry, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(TakeSnapshot(r)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WritePlanJSON encodes a plan as indented JSON and writes it to w.
func WritePlanJSON(targets []string, steps []registry.Step, w io.Writer) error {
	doc := PlanDocument{Targets: targets, Steps: steps}
	if doc.Steps == nil {
		doc.Steps = []registry.Step{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a registry snapshot to a JSON file at path.
func ExportJSON(r *registry.Registry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(r, f)
}
