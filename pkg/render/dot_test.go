package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/indexforge/pkg/registry"
)

func stubExec() registry.Executor {
	return func(_ []*registry.Artifact, prefix, suffix string) ([]string, error) {
		return []string{prefix + "." + suffix}, nil
	}
}

// testRegistry builds A -> B -> C plus an alternate recipe C <- {X}.
func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	for _, a := range []struct{ id, suffix string }{
		{"A", "a"}, {"B", "b"}, {"X", "x"}, {"C", "c"},
	} {
		if err := r.RegisterArtifact(a.id, a.suffix); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.RegisterRecipe("B", []string{"A"}, stubExec()); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterRecipe("C", []string{"B"}, stubExec()); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterRecipe("C", []string{"X"}, stubExec()); err != nil {
		t.Fatal(err)
	}
	return r
}

func TestToDOTRegistryOnly(t *testing.T) {
	r := testRegistry(t)
	if err := r.Provide("A", "a.dat"); err != nil {
		t.Fatal(err)
	}

	dot := ToDOT(r)

	if !strings.HasPrefix(dot, "digraph recipegraph {") {
		t.Errorf("missing digraph header:\n%s", dot)
	}
	for _, want := range []string{
		`label="A" shape=box style="filled,bold" fillcolor=lightgray`, // provided
		`label="C" shape=box];`,     // plain artifact
		`[label="0" shape=circle];`, // recipe node
		`[label="1" shape=circle];`, // alternate recipe priority
		"[color=black];",            // neutral edges without targets
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "Insufficient input") {
		t.Errorf("registry-only render should not carry a diagnostic title")
	}
}

func TestToDOTWithTargets(t *testing.T) {
	r := testRegistry(t)
	if err := r.Provide("A", "a.dat"); err != nil {
		t.Fatal(err)
	}

	dot := ToDOTWithTargets(r, []string{"C"})

	for _, want := range []string{
		`label="C" shape=box style="filled,bold" fillcolor=lightblue`, // target
		`label="B" shape=box style=bold`,                              // plan member
		`[label="0" shape=circle style=bold];`,                        // selected recipe
		"[style=bold];",                                               // plan edges
		"[color=gray33];",                                             // unselected edges dimmed
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTWithUnsatisfiableTargets(t *testing.T) {
	r := testRegistry(t)

	dot := ToDOTWithTargets(r, []string{"C"})

	if !strings.Contains(dot, `label="Insufficient input to create targets";`) {
		t.Errorf("DOT missing diagnostic title:\n%s", dot)
	}
	if strings.Contains(dot, `[label="0" shape=circle style=bold];`) {
		t.Errorf("no recipe should be selected in an unsatisfiable render:\n%s", dot)
	}
}
