package catalog

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/indexforge/pkg/errors"
	"github.com/matzehuels/indexforge/pkg/registry"
)

// fakeToolchain records the operations performed and writes marker files
// for every output it is asked to create.
type fakeToolchain struct {
	calls []string
}

func (f *fakeToolchain) touch(paths ...string) error {
	for _, path := range paths {
		if err := os.WriteFile(path, []byte("fake"), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeToolchain) record(op string, outs ...string) error {
	f.calls = append(f.calls, op)
	return f.touch(outs...)
}

func (f *fakeToolchain) ConstructFromGFA(_, out string) error {
	return f.record("construct-gfa", out)
}

func (f *fakeToolchain) ConstructFromVariants(_, _, _ []string, altPaths bool, out string) error {
	if altPaths {
		return f.record("construct-varpaths", out)
	}
	return f.record("construct", out)
}

func (f *fakeToolchain) StripAltPaths(_, out string) error {
	return f.record("strip-alt", out)
}

func (f *fakeToolchain) XGFromGFA(_, out string) error {
	return f.record("xg-gfa", out)
}

func (f *fakeToolchain) XGFromGraph(_, out string) error {
	return f.record("xg-graph", out)
}

func (f *fakeToolchain) NodeMappingFromGraph(_, out string) error {
	return f.record("node-mapping", out)
}

func (f *fakeToolchain) GBWTFromPhasing(_, _, out string) error {
	return f.record("gbwt", out)
}

func (f *fakeToolchain) PruneGraph(_, _, out string) error {
	return f.record("prune", out)
}

func (f *fakeToolchain) HaplotypePruneGraph(_, _, _, _, outGraph, outMapping string) error {
	return f.record("haplo-prune", outGraph, outMapping)
}

func (f *fakeToolchain) GCSAIndex(_ []string, outGCSA, outLCP string) error {
	return f.record("gcsa", outGCSA, outLCP)
}

func newCatalog(t *testing.T) (*registry.Registry, *fakeToolchain) {
	t.Helper()
	tc := &fakeToolchain{}
	reg, err := New(tc)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	reg.SetOutputPrefix(filepath.Join(t.TempDir(), "index"))
	reg.SetTempDir(t.TempDir())
	return reg, tc
}

func TestPlanXGFromGFA(t *testing.T) {
	reg, _ := newCatalog(t)
	if err := reg.Provide(ReferenceGFA, "graph.gfa"); err != nil {
		t.Fatal(err)
	}

	plan, err := reg.MakePlan([]string{XG})
	if err != nil {
		t.Fatalf("MakePlan: %v", err)
	}
	want := []registry.Step{{Identifier: XG, Recipe: 0}}
	if !slices.Equal(plan, want) {
		t.Errorf("plan = %v, want %v", plan, want)
	}
}

func TestPlanGCSABacktracksWithoutPhasing(t *testing.T) {
	// Without a phased VCF there is no GBWT, so the haplotype-aware GCSA
	// recipe is unsatisfiable; the planner must fall back to plain pruning
	// and build the graph from FASTA and VCF.
	reg, _ := newCatalog(t)
	if err := reg.Provide(ReferenceFASTA, "ref.fa"); err != nil {
		t.Fatal(err)
	}
	if err := reg.Provide(VCF, "calls.vcf"); err != nil {
		t.Fatal(err)
	}

	plan, err := reg.MakePlan([]string{GCSALCP})
	if err != nil {
		t.Fatalf("MakePlan: %v", err)
	}

	chosen := make(map[string]int, len(plan))
	for _, step := range plan {
		chosen[step.Identifier] = step.Recipe
	}
	want := map[string]int{
		VG:       3, // FASTA + VCF without insertions
		XG:       1, // from the constructed graph
		PrunedVG: 0,
		GCSALCP:  1, // plain pruned input
	}
	if len(chosen) != len(want) {
		t.Fatalf("plan = %v, want recipes for %v", plan, want)
	}
	for identifier, recipe := range want {
		if chosen[identifier] != recipe {
			t.Errorf("%s recipe = %d, want %d", identifier, chosen[identifier], recipe)
		}
	}
}

func TestBuildMapIndexesWithPhasing(t *testing.T) {
	// With phased calls available the haplotype-aware GCSA path wins.
	reg, tc := newCatalog(t)
	dir := t.TempDir()
	phased := filepath.Join(dir, "calls.phased.vcf")
	ref := filepath.Join(dir, "ref.fa")
	for _, path := range []string{phased, ref} {
		if err := os.WriteFile(path, []byte("input"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := reg.Provide(ReferenceFASTA, ref); err != nil {
		t.Fatal(err)
	}
	if err := reg.Provide(PhasedVCF, phased); err != nil {
		t.Fatal(err)
	}

	if err := reg.MakeIndexes(DefaultMapTargets()); err != nil {
		t.Fatalf("MakeIndexes: %v", err)
	}

	for _, op := range []string{"construct-varpaths", "gbwt", "haplo-prune", "gcsa"} {
		if !slices.Contains(tc.calls, op) {
			t.Errorf("toolchain calls %v missing %q", tc.calls, op)
		}
	}
	if slices.Contains(tc.calls, "prune") {
		t.Errorf("toolchain calls %v should not include plain prune", tc.calls)
	}

	// Targets exist on disk; the phased input survives the sweep.
	for _, target := range DefaultMapTargets() {
		a, ok := reg.Artifact(target)
		if !ok {
			t.Fatalf("artifact %q missing", target)
		}
		for _, filename := range a.Filenames() {
			if _, err := os.Stat(filename); err != nil {
				t.Errorf("target file %s missing: %v", filename, err)
			}
		}
	}
	if _, err := os.Stat(phased); err != nil {
		t.Errorf("provided phased VCF deleted: %v", err)
	}
}

func TestVCFAliasesPhasedVCF(t *testing.T) {
	reg, _ := newCatalog(t)
	if err := reg.Provide(PhasedVCF, "calls.phased.vcf"); err != nil {
		t.Fatal(err)
	}

	if err := reg.MakeIndexes([]string{VCF}); err != nil {
		t.Fatalf("MakeIndexes: %v", err)
	}
	a, _ := reg.Artifact(VCF)
	if got := a.Filenames(); !slices.Equal(got, []string{"calls.phased.vcf"}) {
		t.Errorf("VCF filenames = %v, want the phased file aliased", got)
	}
}

func TestDefaultGiraffeTargetsUnregistered(t *testing.T) {
	reg, _ := newCatalog(t)
	if err := reg.Provide(ReferenceGFA, "graph.gfa"); err != nil {
		t.Fatal(err)
	}

	_, err := reg.MakePlan(DefaultGiraffeTargets())
	if !errors.Is(err, errors.ErrCodeUnknownArtifact) {
		t.Errorf("err = %v, want UNKNOWN_ARTIFACT", err)
	}
}

func TestParamsMerge(t *testing.T) {
	p := Params{MaxNodeSize: 64}.Merge(DefaultParams())
	if p.MaxNodeSize != 64 {
		t.Errorf("MaxNodeSize = %d, want explicit 64", p.MaxNodeSize)
	}
	if p.PruningWalkLength != DefaultParams().PruningWalkLength {
		t.Errorf("PruningWalkLength = %d, want default", p.PruningWalkLength)
	}
}
