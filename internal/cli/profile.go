package cli

import (
	"github.com/BurntSushi/toml"

	"github.com/matzehuels/indexforge/pkg/catalog"
	"github.com/matzehuels/indexforge/pkg/errors"
)

// Profile is a TOML build profile: everything needed to reproduce a build
// without repeating flags.
//
// Example:
//
//	output_prefix = "hs37d5"
//	keep_intermediates = false
//	targets = ["XG", "GCSA + LCP"]
//
//	[params]
//	max_node_size = 32
//	pruning_walk_length = 24
//
//	[provide]
//	"Reference FASTA" = ["hs37d5.fa"]
//	"Phased VCF" = ["1kg.phased.vcf.gz"]
type Profile struct {
	OutputPrefix      string              `toml:"output_prefix"`
	KeepIntermediates bool                `toml:"keep_intermediates"`
	TempDir           string              `toml:"temp_dir"`
	ToolchainBin      string              `toml:"toolchain_bin"`
	Targets           []string            `toml:"targets"`
	Params            catalog.Params      `toml:"params"`
	Provide           map[string][]string `toml:"provide"`
}

// loadProfile decodes a build profile from a TOML file.
func loadProfile(path string) (Profile, error) {
	var p Profile
	meta, err := toml.DecodeFile(path, &p)
	if err != nil {
		return Profile{}, errors.Wrap(errors.ErrCodeInvalidProfile, err, "decode profile %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Profile{}, errors.New(errors.ErrCodeInvalidProfile,
			"profile %s has unknown key %q", path, undecoded[0].String())
	}
	return p, nil
}
