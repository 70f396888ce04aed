package registry

import (
	"slices"

	"github.com/matzehuels/indexforge/pkg/errors"
)

// DependencyOrder returns a total order on all registered artifact
// identifiers such that every recipe's inputs precede its output. The order
// doubles as the execution order for plans and as the priority key for the
// planner's work queue.
//
// Returns a CYCLIC_GRAPH error if the artifact-recipe graph is not a DAG.
// The result is stable for a given registration sequence.
func (r *Registry) DependencyOrder() ([]string, error) {
	index := make(map[string]int, len(r.ids))
	for i, id := range r.ids {
		index[id] = i
	}

	// Each input of each recipe has an edge to the recipe's output.
	adjacency := make([][]int, len(r.ids))
	for i, id := range r.ids {
		for _, recipe := range r.artifacts[id].recipes {
			for _, input := range recipe.inputs {
				j := index[input.identifier]
				adjacency[j] = append(adjacency[j], i)
			}
		}
	}

	// Deduplicate parallel edges so in-degrees count distinct dependencies.
	for i, adj := range adjacency {
		slices.Sort(adj)
		adjacency[i] = slices.Compact(adj)
	}

	inDegree := make([]int, len(adjacency))
	for _, adj := range adjacency {
		for _, j := range adj {
			inDegree[j]++
		}
	}

	var stack []int
	for i := range adjacency {
		if inDegree[i] == 0 {
			stack = append(stack, i)
		}
	}

	order := make([]string, 0, len(r.ids))
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, r.ids[i])
		for _, j := range adjacency[i] {
			inDegree[j]--
			if inDegree[j] == 0 {
				stack = append(stack, j)
			}
		}
	}

	if len(order) != len(r.ids) {
		return nil, errors.New(errors.ErrCodeCyclicGraph, "artifact dependency graph is not a DAG")
	}
	return order, nil
}
