package registry

import (
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/indexforge/pkg/errors"
	"github.com/matzehuels/indexforge/pkg/observability"
)

// MakeIndexes plans and materialises the requested target artifacts.
//
// Each plan step runs under an output prefix chosen per artifact: targets
// and provided artifacts use the registry's output prefix, while
// intermediates are written under the temp directory with a
// content-addressed stem — unless intermediate keeping is enabled, in which
// case everything lands under the output prefix. After the plan completes,
// files that belong exclusively to intermediate artifacts are deleted;
// deletion failures are logged and ignored.
//
// A failing recipe aborts the build immediately. Partial outputs of the
// failed step are left on disk for inspection.
func (r *Registry) MakeIndexes(targets []string) error {
	start := time.Now()
	observability.Build().OnPlanStart(targets)
	plan, err := r.MakePlan(targets)
	observability.Build().OnPlanComplete(targets, len(plan), time.Since(start), err)
	if err != nil {
		return err
	}

	requested := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		requested[target] = struct{}{}
	}
	// An artifact is intermediate iff it is neither directly provided nor
	// requested as a target.
	isIntermediate := func(a *Artifact) bool {
		if a.WasProvidedDirectly() {
			return false
		}
		_, ok := requested[a.identifier]
		return !ok
	}

	r.logger.Info("executing build plan", "steps", len(plan), "targets", targets)

	for _, step := range plan {
		a := r.artifacts[step.Identifier]

		// Aliasing recipes may ignore the prefix entirely.
		prefix := r.outputPrefix
		if !r.keepIntermediates && isIntermediate(a) {
			prefix = filepath.Join(r.TempDir(), tempStem(a.identifier))
		}

		r.logger.Info("running recipe", "artifact", step.Identifier, "recipe", step.Recipe, "prefix", prefix)
		stepStart := time.Now()
		observability.Build().OnRecipeStart(step.Identifier, step.Recipe)
		err := a.executeRecipe(step.Recipe, prefix)
		observability.Build().OnRecipeComplete(step.Identifier, step.Recipe, a.filenames, time.Since(stepStart), err)
		if err != nil {
			return errors.Wrap(errors.ErrCodeRecipeFailed, err,
				"recipe %d for artifact %q failed", step.Recipe, step.Identifier)
		}
		r.logger.Debug("recipe finished", "artifact", step.Identifier,
			"outputs", a.filenames, "duration", time.Since(stepStart).Round(time.Millisecond))
	}

	if !r.keepIntermediates {
		r.cleanupIntermediates(isIntermediate)
	}
	return nil
}

// cleanupIntermediates deletes files that appear on intermediate artifacts
// but on no kept artifact. Alias recipes can put the same filename on both
// an intermediate and a kept artifact, so the keep and delete sets are
// computed over filename identity rather than artifact identity.
func (r *Registry) cleanupIntermediates(isIntermediate func(*Artifact) bool) {
	keep := make(map[string]struct{})
	for _, id := range r.ids {
		a := r.artifacts[id]
		if !isIntermediate(a) {
			for _, filename := range a.filenames {
				keep[filename] = struct{}{}
			}
		}
	}

	doomed := make(map[string]struct{})
	var ordered []string
	for _, id := range r.ids {
		a := r.artifacts[id]
		if !isIntermediate(a) {
			continue
		}
		for _, filename := range a.filenames {
			if _, kept := keep[filename]; kept {
				continue
			}
			if _, seen := doomed[filename]; seen {
				continue
			}
			doomed[filename] = struct{}{}
			ordered = append(ordered, filename)
		}
	}

	removed, failed := 0, 0
	for _, filename := range ordered {
		if err := os.Remove(filename); err != nil {
			r.logger.Warn("could not remove intermediate file", "file", filename, "err", err)
			failed++
			continue
		}
		removed++
	}
	if removed > 0 || failed > 0 {
		r.logger.Debug("cleaned up intermediate files", "removed", removed, "failed", failed)
	}
	observability.Build().OnCleanup(removed, failed)
}
