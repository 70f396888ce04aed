package registry

import (
	"slices"

	"github.com/matzehuels/indexforge/pkg/errors"
)

// Artifact is a named output slot that the registry knows how to produce or
// consume. An artifact is either unprovided, provided directly by the caller,
// or produced by running one of its recipes. Once materialised it carries the
// concrete filenames that hold its data.
//
// Artifacts are created by [Registry.RegisterArtifact] and live for the
// registry's lifetime; the zero value is not usable.
type Artifact struct {
	identifier       string
	suffix           string
	filenames        []string
	providedDirectly bool
	recipes          []*Recipe
}

// Identifier returns the artifact's unique name (e.g. "VG", "GCSA + LCP").
func (a *Artifact) Identifier() string { return a.identifier }

// Suffix returns the artifact's unique filename suffix. Output filenames are
// synthesised as "{prefix}.{suffix}".
func (a *Artifact) Suffix() string { return a.suffix }

// Filenames returns a copy of the artifact's materialised filenames.
// The slice is empty until the artifact is provided or produced.
func (a *Artifact) Filenames() []string { return slices.Clone(a.filenames) }

// IsFinished reports whether the artifact has been materialised.
func (a *Artifact) IsFinished() bool { return len(a.filenames) > 0 }

// WasProvidedDirectly reports whether the caller supplied the filenames
// rather than a recipe producing them.
func (a *Artifact) WasProvidedDirectly() bool { return a.providedDirectly }

// Recipes returns the artifact's recipes in priority order, highest
// preference first.
func (a *Artifact) Recipes() []*Recipe { return slices.Clone(a.recipes) }

// provide seeds the artifact's filenames from caller-supplied input.
func (a *Artifact) provide(filenames []string) {
	a.filenames = slices.Clone(filenames)
	a.providedDirectly = true
}

func (a *Artifact) addRecipe(inputs []*Artifact, exec Executor) {
	a.recipes = append(a.recipes, &Recipe{inputs: inputs, exec: exec})
}

// executeRecipe runs the recipe at the given priority index and stores the
// filenames it returns. Every input must already be materialised, and the
// artifact must not have been materialised before; filenames are assigned
// exactly once per build.
func (a *Artifact) executeRecipe(priority int, prefix string) error {
	if priority < 0 || priority >= len(a.recipes) {
		return errors.New(errors.ErrCodeInternal, "artifact %q has no recipe %d", a.identifier, priority)
	}
	if a.IsFinished() {
		return errors.New(errors.ErrCodeArtifactFinished, "artifact %q is already materialised", a.identifier)
	}
	recipe := a.recipes[priority]
	for _, input := range recipe.inputs {
		if !input.IsFinished() {
			return errors.New(errors.ErrCodeInternal,
				"input %q of artifact %q is not materialised", input.identifier, a.identifier)
		}
	}
	filenames, err := recipe.exec(recipe.inputs, prefix, a.suffix)
	if err != nil {
		return err
	}
	if len(filenames) == 0 {
		return errors.New(errors.ErrCodeRecipeFailed, "recipe %d for %q returned no filenames", priority, a.identifier)
	}
	a.filenames = filenames
	return nil
}
