package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/indexforge/pkg/errors"
)

// Step is one unit of work in a plan: run the recipe at the given priority
// index to materialise the identified artifact.
type Step struct {
	Identifier string
	Recipe     int
}

// InsufficientInputError is returned by planning when no combination of
// available recipes can produce a requested target from the directly
// provided artifacts. It carries the unsatisfiable target and the artifacts
// that were complete at planning time.
type InsufficientInputError struct {
	Target string
	Inputs []string
}

func (e *InsufficientInputError) Error() string {
	if len(e.Inputs) == 0 {
		return fmt.Sprintf("no inputs available to create target index %q", e.Target)
	}
	return fmt.Sprintf("inputs [%s] are insufficient to create target index %q",
		strings.Join(e.Inputs, ", "), e.Target)
}

// pathElem is one entry of the tentative plan path: an artifact (by its
// position in the dependency order), the artifact whose expansion first
// requested it, and the recipe alternative currently being attempted.
type pathElem struct {
	idx       int
	requester int
	recipe    int
}

// queueEntry tracks a pending artifact in the planner's work queue. The
// requester is the artifact whose exploration first introduced the entry —
// later co-requesters only bump the count, which decides queue removal
// during backtracking.
type queueEntry struct {
	idx       int
	requester int
	count     int
}

// planQueue is the planner's work queue, ordered greatest-first by position
// in the dependency order so the most-derived unresolved artifact is
// expanded next.
type planQueue struct {
	entries []queueEntry
}

func (q *planQueue) empty() bool { return len(q.entries) == 0 }

// pop removes and returns the entry with the highest dependency index.
func (q *planQueue) pop() queueEntry {
	e := q.entries[0]
	q.entries = q.entries[1:]
	return e
}

// request enqueues the artifact at dependency position idx on behalf of
// requester. If the artifact is already queued, only its requester count is
// incremented; the original first-requester edge is kept.
func (q *planQueue) request(idx, requester int) {
	pos := sort.Search(len(q.entries), func(i int) bool { return q.entries[i].idx <= idx })
	if pos < len(q.entries) && q.entries[pos].idx == idx {
		q.entries[pos].count++
		return
	}
	q.entries = append(q.entries, queueEntry{})
	copy(q.entries[pos+1:], q.entries[pos:])
	q.entries[pos] = queueEntry{idx: idx, requester: requester, count: 1}
}

// release decrements the requester count for the artifact at dependency
// position idx, removing the entry once no unresolved artifact depends on
// it. Releasing an artifact that is not queued is a no-op.
func (q *planQueue) release(idx int) {
	pos := sort.Search(len(q.entries), func(i int) bool { return q.entries[i].idx <= idx })
	if pos == len(q.entries) || q.entries[pos].idx != idx {
		return
	}
	q.entries[pos].count--
	if q.entries[pos].count == 0 {
		q.entries = append(q.entries[:pos], q.entries[pos+1:]...)
	}
}

// MakePlan computes an ordered sequence of steps whose execution produces
// every target. Recipes for a single artifact are tried strictly in
// registration order, falling back to lower-priority alternatives when a
// subtree cannot be satisfied from the provided inputs. Steps whose
// artifact is already finished are omitted.
//
// Returns an [*InsufficientInputError] when some target is unsatisfiable, an
// UNKNOWN_ARTIFACT error when a target was never registered, and a
// CYCLIC_GRAPH error when the registry is cyclic.
func (r *Registry) MakePlan(targets []string) ([]Step, error) {
	order, err := r.DependencyOrder()
	if err != nil {
		return nil, err
	}
	depOrder := make(map[string]int, len(order))
	byIdx := make([]*Artifact, len(order))
	for i, id := range order {
		depOrder[id] = i
		byIdx[i] = r.artifacts[id]
	}

	// Sentinel requester for the plan target itself; one past any valid
	// dependency index.
	planTarget := len(order)

	for _, target := range targets {
		if _, ok := r.artifacts[target]; !ok {
			return nil, errors.New(errors.ErrCodeUnknownArtifact, "cannot plan for unregistered artifact %q", target)
		}
	}

	planSet := make(map[Step]struct{})
	for _, target := range targets {
		path, err := r.resolveTarget(target, depOrder, byIdx, planTarget)
		if err != nil {
			return nil, err
		}
		for _, elem := range path {
			planSet[Step{Identifier: order[elem.idx], Recipe: elem.recipe}] = struct{}{}
		}
	}

	// Union across targets, then dependency-sorted execution order.
	plan := make([]Step, 0, len(planSet))
	for step := range planSet {
		plan = append(plan, step)
	}
	sort.Slice(plan, func(i, j int) bool {
		oi, oj := depOrder[plan[i].Identifier], depOrder[plan[j].Identifier]
		if oi != oj {
			return oi < oj
		}
		return plan[i].Recipe < plan[j].Recipe
	})

	// Directly provided artifacts need no execution step.
	filtered := plan[:0]
	for _, step := range plan {
		if !r.artifacts[step.Identifier].IsFinished() {
			filtered = append(filtered, step)
		}
	}
	return filtered, nil
}

// resolveTarget runs the backtracking search for a single target and
// returns its plan path. The search expands the most-derived unresolved
// artifact first, committing to each artifact's highest-priority recipe and
// unwinding to the requester when an artifact has neither a usable recipe
// nor provided filenames.
func (r *Registry) resolveTarget(target string, depOrder map[string]int, byIdx []*Artifact, planTarget int) ([]pathElem, error) {
	var path []pathElem
	var queue planQueue
	queue.request(depOrder[target], planTarget)

	requestInputs := func(recipe *Recipe, requester int) {
		for _, input := range recipe.inputs {
			queue.request(depOrder[input.identifier], requester)
		}
	}
	releaseInputs := func(recipe *Recipe) {
		for _, input := range recipe.inputs {
			queue.release(depOrder[input.identifier])
		}
	}
	// releaseCurrent drops the queue contributions of a path element's
	// currently attempted recipe, if it has one.
	releaseCurrent := func(elem pathElem) {
		a := byIdx[elem.idx]
		if !a.IsFinished() && elem.recipe < len(a.recipes) {
			releaseInputs(a.recipes[elem.recipe])
		}
	}

	for !queue.empty() {
		entry := queue.pop()
		path = append(path, pathElem{idx: entry.idx, requester: entry.requester})
		a := byIdx[entry.idx]

		switch {
		case a.IsFinished():
			// Provided as input; no recipe needed.

		case len(a.recipes) > 0:
			requestInputs(a.recipes[0], entry.idx)

		default:
			// The artifact must be provided but isn't. Backtrack until some
			// artifact on the path has a remaining lower-priority recipe.
			dropped := make(map[int]bool)
			for len(path) > 0 && path[len(path)-1].recipe == len(byIdx[path[len(path)-1].idx].recipes) {
				requester := path[len(path)-1].requester

				// Unwind the abandoned subtree back to the requester,
				// withdrawing its contributions from the queue.
				for len(path) > 0 && path[len(path)-1].idx != requester {
					releaseCurrent(path[len(path)-1])
					dropped[path[len(path)-1].idx] = true
					path = path[:len(path)-1]
				}

				if len(path) > 0 {
					releaseCurrent(path[len(path)-1])
					path[len(path)-1].recipe++
				}
			}

			if len(path) > 0 {
				elem := path[len(path)-1]
				requestInputs(byIdx[elem.idx].recipes[elem.recipe], elem.idx)

				// The unwind also pops artifacts that earlier path elements
				// still consume; queue those again so only the abandoned
				// subtree leaves the plan.
				for _, survivor := range path[:len(path)-1] {
					s := byIdx[survivor.idx]
					if s.IsFinished() || survivor.recipe >= len(s.recipes) {
						continue
					}
					for _, input := range s.recipes[survivor.recipe].inputs {
						if dropped[depOrder[input.identifier]] {
							queue.request(depOrder[input.identifier], survivor.idx)
						}
					}
				}
			}
		}
	}

	if len(path) == 0 {
		return nil, &InsufficientInputError{Target: target, Inputs: r.CompletedArtifacts()}
	}
	return path, nil
}
