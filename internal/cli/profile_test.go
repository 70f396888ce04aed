package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/indexforge/pkg/errors"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeProfile(t, `
output_prefix = "hs37d5"
keep_intermediates = true
targets = ["XG", "GCSA + LCP"]

[params]
max_node_size = 64
pruning_walk_length = 16

[provide]
"Reference FASTA" = ["hs37d5.fa"]
"Phased VCF" = ["calls.phased.vcf.gz"]
`)

	p, err := loadProfile(path)
	if err != nil {
		t.Fatalf("loadProfile: %v", err)
	}

	if p.OutputPrefix != "hs37d5" {
		t.Errorf("OutputPrefix = %q", p.OutputPrefix)
	}
	if !p.KeepIntermediates {
		t.Error("KeepIntermediates = false, want true")
	}
	if len(p.Targets) != 2 || p.Targets[1] != "GCSA + LCP" {
		t.Errorf("Targets = %v", p.Targets)
	}
	if p.Params.MaxNodeSize != 64 || p.Params.PruningWalkLength != 16 {
		t.Errorf("Params = %+v", p.Params)
	}
	if got := p.Provide["Phased VCF"]; len(got) != 1 || got[0] != "calls.phased.vcf.gz" {
		t.Errorf("Provide = %v", p.Provide)
	}
}

func TestLoadProfileUnknownKey(t *testing.T) {
	path := writeProfile(t, `mystery_knob = true`)

	_, err := loadProfile(path)
	if !errors.Is(err, errors.ErrCodeInvalidProfile) {
		t.Errorf("err = %v, want INVALID_PROFILE", err)
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	_, err := loadProfile(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidProfile) {
		t.Errorf("err = %v, want INVALID_PROFILE", err)
	}
}
