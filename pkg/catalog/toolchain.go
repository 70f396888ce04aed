package catalog

// Toolchain performs the heavy graph and index construction behind the
// catalogue's recipes. The planner treats these operations as opaque leaf
// procedures; [ExecToolchain] implements them by shelling out to a vg
// binary, and tests substitute an in-memory fake.
//
// Every method receives fully resolved input paths and the output path(s)
// it must create. A method that returns nil must have created its outputs.
type Toolchain interface {
	// ConstructFromGFA builds a mutable graph from a GFA file.
	ConstructFromGFA(gfa, out string) error

	// ConstructFromVariants builds a graph from reference FASTAs and VCFs,
	// optionally embedding alt-allele paths and splicing in insertion
	// sequences. The insertions slice may be empty.
	ConstructFromVariants(fastas, vcfs, insertions []string, altPaths bool, out string) error

	// StripAltPaths removes alt-allele paths from a graph.
	StripAltPaths(graph, out string) error

	// XGFromGFA builds an XG index directly from a GFA file.
	XGFromGFA(gfa, out string) error

	// XGFromGraph builds an XG index from a graph.
	XGFromGraph(graph, out string) error

	// NodeMappingFromGraph initialises an empty node mapping sized to the
	// graph's maximum node ID.
	NodeMappingFromGraph(graph, out string) error

	// GBWTFromPhasing builds a GBWT haplotype index from a graph with
	// embedded variant paths and a phased VCF.
	GBWTFromPhasing(graph, phasedVCF, out string) error

	// PruneGraph removes complex regions from a graph, restoring embedded
	// paths afterwards using the XG index.
	PruneGraph(graph, xg, out string) error

	// HaplotypePruneGraph prunes a graph and unfolds complex regions using
	// haplotype information. The input mapping is not modified; the updated
	// mapping is written to outMapping.
	HaplotypePruneGraph(graph, xg, gbwt, mapping, outGraph, outMapping string) error

	// GCSAIndex builds GCSA and LCP indexes from one or two pruned-graph
	// files (the optional second file is a node mapping from unfolding).
	GCSAIndex(graphFiles []string, outGCSA, outLCP string) error
}
