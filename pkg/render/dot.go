// Package render visualises a recipe registry as a Graphviz diagram.
//
// The recipe graph is bipartite: artifacts are drawn as boxes and recipes as
// circles labelled with their priority index, with edges flowing
// inputs → recipe → output. When targets are given, the plan for those
// targets is computed and its nodes and edges are emboldened, with target
// artifacts coloured distinctly from other plan members.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/indexforge/pkg/registry"
)

// ToDOT converts a registry to Graphviz DOT format showing every artifact
// and recipe. Finished artifacts are shown filled. The resulting DOT string
// can be rendered with [RenderSVG] or [RenderPNG].
func ToDOT(r *registry.Registry) string {
	return ToDOTWithTargets(r, nil)
}

// ToDOTWithTargets converts a registry to DOT format, highlighting the plan
// for the given targets. An unsatisfiable plan is tolerated: the graph is
// still emitted, with a diagnostic title instead of a highlighted plan.
func ToDOTWithTargets(r *registry.Registry, targets []string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph recipegraph {\n")

	planTargets := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		planTargets[t] = struct{}{}
	}

	planSteps := make(map[registry.Step]struct{})
	planArtifacts := make(map[string]struct{})
	if len(targets) > 0 {
		plan, err := r.MakePlan(targets)
		var insufficient *registry.InsufficientInputError
		switch {
		case errors.As(err, &insufficient):
			buf.WriteString("  labelloc=\"t\";\n")
			buf.WriteString("  label=\"Insufficient input to create targets\";\n")
		case err != nil:
			buf.WriteString("  labelloc=\"t\";\n")
			fmt.Fprintf(&buf, "  label=%q;\n", err.Error())
		default:
			for _, step := range plan {
				planSteps[step] = struct{}{}
				planArtifacts[step.Identifier] = struct{}{}
			}
		}
	}

	artifacts := r.Artifacts()
	artifactID := make(map[string]string, len(artifacts))
	for i, a := range artifacts {
		id := fmt.Sprintf("I%d", i)
		artifactID[a.Identifier()] = id
		attrs := []string{fmt.Sprintf("label=%q", a.Identifier()), "shape=box"}
		switch {
		case a.IsFinished():
			attrs = append(attrs, "style=\"filled,bold\"", "fillcolor=lightgray")
		case contains(planTargets, a.Identifier()):
			attrs = append(attrs, "style=\"filled,bold\"", "fillcolor=lightblue")
		case contains(planArtifacts, a.Identifier()):
			attrs = append(attrs, "style=bold")
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", id, strings.Join(attrs, " "))
	}

	unselected := "black"
	if len(targets) > 0 {
		unselected = "gray33"
	}

	recipeIdx := 0
	for _, a := range artifacts {
		for priority, recipe := range a.Recipes() {
			id := fmt.Sprintf("R%d", recipeIdx)
			recipeIdx++
			selected := contains(planSteps, registry.Step{Identifier: a.Identifier(), Recipe: priority})
			if selected {
				fmt.Fprintf(&buf, "  %s [label=\"%d\" shape=circle style=bold];\n", id, priority)
				fmt.Fprintf(&buf, "  %s -> %s [style=bold];\n", id, artifactID[a.Identifier()])
			} else {
				fmt.Fprintf(&buf, "  %s [label=\"%d\" shape=circle];\n", id, priority)
				fmt.Fprintf(&buf, "  %s -> %s [color=%s];\n", id, artifactID[a.Identifier()], unselected)
			}
			for _, input := range recipe.Inputs() {
				if selected {
					fmt.Fprintf(&buf, "  %s -> %s [style=bold];\n", artifactID[input.Identifier()], id)
				} else {
					fmt.Fprintf(&buf, "  %s -> %s [color=%s];\n", artifactID[input.Identifier()], id, unselected)
				}
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func contains[K comparable](set map[K]struct{}, key K) bool {
	_, ok := set[key]
	return ok
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
