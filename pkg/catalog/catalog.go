// Package catalog defines the stock index registry for variation graph
// indexing: the artifacts a vg-style mapper consumes, the recipes that
// produce them, and the default target sets for the common mapping
// pipelines. The heavy construction work is delegated to a [Toolchain].
package catalog

import (
	"github.com/matzehuels/indexforge/pkg/registry"
)

// Artifact identifiers registered by [New].
const (
	ReferenceFASTA     = "Reference FASTA"
	VCF                = "VCF"
	PhasedVCF          = "Phased VCF"
	InsertionFASTA     = "Insertion Sequence FASTA"
	ReferenceGFA       = "Reference GFA"
	VGWithVariantPaths = "VG + Variant Paths"
	VG                 = "VG"
	XG                 = "XG"
	GBWT               = "GBWT"
	NodeMapping        = "NodeMapping"
	PrunedVG           = "Pruned VG"
	HaplotypePrunedVG  = "Haplotype-Pruned VG + NodeMapping"
	GCSALCP            = "GCSA + LCP"
)

// DefaultMapTargets returns the indexes needed by the plain mapper.
func DefaultMapTargets() []string {
	return []string{XG, GCSALCP}
}

// DefaultMpmapTargets returns the indexes needed by the multipath mapper.
// Several of these are not registered by the catalogue yet; planning them
// fails with UNKNOWN_ARTIFACT until their recipes exist.
func DefaultMpmapTargets() []string {
	return []string{
		"Spliced XG",
		"Spliced Distance",
		"Spliced GCSA + LCP",
		"Haplotype-Transcript GBWT",
	}
}

// DefaultGiraffeTargets returns the indexes needed by the giraffe mapper.
// As with [DefaultMpmapTargets], the list names artifacts the catalogue
// does not register yet.
func DefaultGiraffeTargets() []string {
	return []string{
		GBWT,
		"GBWTGraph",
		"Distance",
		"Minimizer",
	}
}

// New assembles the stock registry over the given toolchain: data-file
// artifacts, index artifacts, and every recipe connecting them, with
// recipe priorities matching registration order.
func New(tc Toolchain) (*registry.Registry, error) {
	reg := registry.New()

	// Data files
	for _, a := range []struct{ identifier, suffix string }{
		{ReferenceFASTA, "fasta"},
		{VCF, "vcf"},
		{PhasedVCF, "phased.vcf"},
		{InsertionFASTA, "insertions.fasta"},
		{ReferenceGFA, "gfa"},

		// True indexes
		{VGWithVariantPaths, "varpaths.vg"},
		{VG, "vg"},
		{XG, "xg"},
		{GBWT, "gbwt"},
		{NodeMapping, "mapping"},
		{PrunedVG, "pruned.vg"},
		{HaplotypePrunedVG, "haplopruned.vg"},
		{GCSALCP, "gcsa"},
	} {
		if err := reg.RegisterArtifact(a.identifier, a.suffix); err != nil {
			return nil, err
		}
	}

	type recipe struct {
		output string
		inputs []string
		exec   registry.Executor
	}

	recipes := []recipe{
		// Alias a phased VCF as an unphased one.
		{VCF, []string{PhasedVCF},
			func(inputs []*registry.Artifact, _, _ string) ([]string, error) {
				return inputs[0].Filenames(), nil
			}},

		// Strip alt-allele paths from a graph that has them.
		{VG, []string{VGWithVariantPaths},
			func(inputs []*registry.Artifact, prefix, suffix string) ([]string, error) {
				out := prefix + "." + suffix
				if err := tc.StripAltPaths(inputs[0].Filenames()[0], out); err != nil {
					return nil, err
				}
				return []string{out}, nil
			}},

		{VG, []string{ReferenceGFA},
			func(inputs []*registry.Artifact, prefix, suffix string) ([]string, error) {
				out := prefix + "." + suffix
				if err := tc.ConstructFromGFA(inputs[0].Filenames()[0], out); err != nil {
					return nil, err
				}
				return []string{out}, nil
			}},

		// Constructor instantiations. Inputs are ordered FASTA, VCF
		// [, Insertion FASTA]; the variant-path variants embed alt paths
		// for downstream haplotype indexing.
		{VG, []string{ReferenceFASTA, VCF, InsertionFASTA}, constructRecipe(tc, false)},
		{VG, []string{ReferenceFASTA, VCF}, constructRecipe(tc, false)},
		{VGWithVariantPaths, []string{ReferenceFASTA, PhasedVCF, InsertionFASTA}, constructRecipe(tc, true)},
		{VGWithVariantPaths, []string{ReferenceFASTA, PhasedVCF}, constructRecipe(tc, true)},

		{XG, []string{ReferenceGFA},
			func(inputs []*registry.Artifact, prefix, suffix string) ([]string, error) {
				out := prefix + "." + suffix
				if err := tc.XGFromGFA(inputs[0].Filenames()[0], out); err != nil {
					return nil, err
				}
				return []string{out}, nil
			}},

		{XG, []string{VG},
			func(inputs []*registry.Artifact, prefix, suffix string) ([]string, error) {
				out := prefix + "." + suffix
				if err := tc.XGFromGraph(inputs[0].Filenames()[0], out); err != nil {
					return nil, err
				}
				return []string{out}, nil
			}},

		{NodeMapping, []string{VG},
			func(inputs []*registry.Artifact, prefix, suffix string) ([]string, error) {
				out := prefix + "." + suffix
				if err := tc.NodeMappingFromGraph(inputs[0].Filenames()[0], out); err != nil {
					return nil, err
				}
				return []string{out}, nil
			}},

		{GBWT, []string{VGWithVariantPaths, PhasedVCF},
			func(inputs []*registry.Artifact, prefix, suffix string) ([]string, error) {
				out := prefix + "." + suffix
				if err := tc.GBWTFromPhasing(inputs[0].Filenames()[0], inputs[1].Filenames()[0], out); err != nil {
					return nil, err
				}
				return []string{out}, nil
			}},

		// Prune complex regions to prepare for GCSA indexing.
		{PrunedVG, []string{VG, XG},
			func(inputs []*registry.Artifact, prefix, suffix string) ([]string, error) {
				out := prefix + "." + suffix
				if err := tc.PruneGraph(inputs[0].Filenames()[0], inputs[1].Filenames()[0], out); err != nil {
					return nil, err
				}
				return []string{out}, nil
			}},

		// Prune with GBWT unfolding; outputs the unfolded graph and the
		// updated node mapping.
		{HaplotypePrunedVG, []string{VG, XG, GBWT, NodeMapping},
			func(inputs []*registry.Artifact, prefix, suffix string) ([]string, error) {
				outGraph := prefix + "." + suffix
				outMapping := outGraph + ".mapping"
				err := tc.HaplotypePruneGraph(
					inputs[0].Filenames()[0],
					inputs[1].Filenames()[0],
					inputs[2].Filenames()[0],
					inputs[3].Filenames()[0],
					outGraph, outMapping)
				if err != nil {
					return nil, err
				}
				return []string{outGraph, outMapping}, nil
			}},

		// GCSA indexing, haplotype-aware input preferred.
		{GCSALCP, []string{HaplotypePrunedVG}, gcsaRecipe(tc)},
		{GCSALCP, []string{PrunedVG}, gcsaRecipe(tc)},
	}

	for _, rec := range recipes {
		if err := reg.RegisterRecipe(rec.output, rec.inputs, rec.exec); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// constructRecipe builds a graph with the constructor from FASTA and VCF
// inputs, with an optional trailing insertion-sequence FASTA.
func constructRecipe(tc Toolchain, altPaths bool) registry.Executor {
	return func(inputs []*registry.Artifact, prefix, suffix string) ([]string, error) {
		var insertions []string
		if len(inputs) == 3 {
			insertions = inputs[2].Filenames()
		}
		out := prefix + "." + suffix
		err := tc.ConstructFromVariants(inputs[0].Filenames(), inputs[1].Filenames(), insertions, altPaths, out)
		if err != nil {
			return nil, err
		}
		return []string{out}, nil
	}
}

// gcsaRecipe indexes a pruned graph, producing the GCSA and its LCP array.
// The single input artifact carries one file, or two when it includes a
// node mapping from haplotype unfolding.
func gcsaRecipe(tc Toolchain) registry.Executor {
	return func(inputs []*registry.Artifact, prefix, suffix string) ([]string, error) {
		outGCSA := prefix + "." + suffix
		outLCP := outGCSA + ".lcp"
		if err := tc.GCSAIndex(inputs[0].Filenames(), outGCSA, outLCP); err != nil {
			return nil, err
		}
		return []string{outGCSA, outLCP}, nil
	}
}
