package registry

import (
	"testing"

	"github.com/matzehuels/indexforge/pkg/errors"
)

// stubExec returns an executor that synthesises "{prefix}.{suffix}" without
// touching the filesystem.
func stubExec() Executor {
	return func(_ []*Artifact, prefix, suffix string) ([]string, error) {
		return []string{prefix + "." + suffix}, nil
	}
}

func TestRegisterArtifact(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(r *Registry) error
		wantCode errors.Code
	}{
		{
			name: "Valid",
			setup: func(r *Registry) error {
				return r.RegisterArtifact("VG", "vg")
			},
		},
		{
			name: "EmptyIdentifier",
			setup: func(r *Registry) error {
				return r.RegisterArtifact("", "vg")
			},
			wantCode: errors.ErrCodeInvalidIdentifier,
		},
		{
			name: "EmptySuffix",
			setup: func(r *Registry) error {
				return r.RegisterArtifact("VG", "")
			},
			wantCode: errors.ErrCodeInvalidSuffix,
		},
		{
			name: "DuplicateIdentifier",
			setup: func(r *Registry) error {
				if err := r.RegisterArtifact("VG", "vg"); err != nil {
					return err
				}
				return r.RegisterArtifact("VG", "other")
			},
			wantCode: errors.ErrCodeDuplicateIdentifier,
		},
		{
			name: "DuplicateSuffix",
			setup: func(r *Registry) error {
				if err := r.RegisterArtifact("VG", "vg"); err != nil {
					return err
				}
				return r.RegisterArtifact("Other", "vg")
			},
			wantCode: errors.ErrCodeDuplicateSuffix,
		},
		{
			name: "SuffixWithPathSeparator",
			setup: func(r *Registry) error {
				return r.RegisterArtifact("VG", "../vg")
			},
			wantCode: errors.ErrCodeInvalidSuffix,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.setup(New())
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("setup: %v", err)
				}
				return
			}
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestRegisterRecipeUnknownArtifacts(t *testing.T) {
	r := New()
	if err := r.RegisterArtifact("A", "a"); err != nil {
		t.Fatal(err)
	}

	if err := r.RegisterRecipe("missing", []string{"A"}, stubExec()); !errors.Is(err, errors.ErrCodeUnknownArtifact) {
		t.Errorf("unknown output: err = %v, want UNKNOWN_ARTIFACT", err)
	}
	if err := r.RegisterRecipe("A", []string{"missing"}, stubExec()); !errors.Is(err, errors.ErrCodeUnknownArtifact) {
		t.Errorf("unknown input: err = %v, want UNKNOWN_ARTIFACT", err)
	}
}

func TestProvide(t *testing.T) {
	r := New()
	if err := r.RegisterArtifact("A", "a"); err != nil {
		t.Fatal(err)
	}

	if err := r.Provide("A", "a1.dat", "a2.dat"); err != nil {
		t.Fatalf("Provide: %v", err)
	}

	a, ok := r.Artifact("A")
	if !ok {
		t.Fatal("artifact A not found")
	}
	if !a.IsFinished() {
		t.Error("provided artifact should be finished")
	}
	if !a.WasProvidedDirectly() {
		t.Error("provided artifact should report direct provision")
	}
	if got := a.Filenames(); len(got) != 2 || got[0] != "a1.dat" || got[1] != "a2.dat" {
		t.Errorf("filenames = %v", got)
	}
}

func TestProvideErrors(t *testing.T) {
	r := New()
	if err := r.RegisterArtifact("A", "a"); err != nil {
		t.Fatal(err)
	}

	if err := r.Provide("missing", "x.dat"); !errors.Is(err, errors.ErrCodeUnknownArtifact) {
		t.Errorf("unknown artifact: err = %v", err)
	}
	if err := r.Provide("A"); !errors.Is(err, errors.ErrCodeInvalidProvisions) {
		t.Errorf("no filenames: err = %v", err)
	}
}

func TestCompletedArtifacts(t *testing.T) {
	r := New()
	for _, a := range []struct{ id, suffix string }{
		{"A", "a"}, {"B", "b"}, {"C", "c"},
	} {
		if err := r.RegisterArtifact(a.id, a.suffix); err != nil {
			t.Fatal(err)
		}
	}

	if got := r.CompletedArtifacts(); len(got) != 0 {
		t.Errorf("completed = %v, want none", got)
	}

	if err := r.Provide("C", "c.dat"); err != nil {
		t.Fatal(err)
	}
	if err := r.Provide("A", "a.dat"); err != nil {
		t.Fatal(err)
	}

	got := r.CompletedArtifacts()
	if len(got) != 2 || got[0] != "A" || got[1] != "C" {
		t.Errorf("completed = %v, want [A C] in registration order", got)
	}
}

func TestArtifactsRegistrationOrder(t *testing.T) {
	r := New()
	ids := []string{"Z", "A", "M"}
	for i, id := range ids {
		if err := r.RegisterArtifact(id, string(rune('a'+i))); err != nil {
			t.Fatal(err)
		}
	}

	artifacts := r.Artifacts()
	if len(artifacts) != len(ids) {
		t.Fatalf("artifacts = %d, want %d", len(artifacts), len(ids))
	}
	for i, a := range artifacts {
		if a.Identifier() != ids[i] {
			t.Errorf("artifacts[%d] = %q, want %q", i, a.Identifier(), ids[i])
		}
	}
}
