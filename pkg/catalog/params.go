package catalog

// Params holds the tunables for graph construction, pruning, and GCSA
// indexing. Fields map one-to-one onto TOML keys in a build profile's
// [params] table.
type Params struct {
	// MaxNodeSize is the largest node length produced during construction.
	MaxNodeSize int `toml:"max_node_size"`

	// Pruning knobs for preparing a graph for GCSA indexing.
	PruningMaxNodeDegree    int `toml:"pruning_max_node_degree"`
	PruningWalkLength       int `toml:"pruning_walk_length"`
	PruningMaxEdgeCount     int `toml:"pruning_max_edge_count"`
	PruningMinComponentSize int `toml:"pruning_min_component_size"`

	// GCSA construction parameters.
	GCSAInitialKmerLength int `toml:"gcsa_initial_kmer_length"`
	GCSADoublingSteps     int `toml:"gcsa_doubling_steps"`
}

// DefaultParams returns the stock indexing parameters.
func DefaultParams() Params {
	return Params{
		MaxNodeSize:             32,
		PruningMaxNodeDegree:    128,
		PruningWalkLength:       24,
		PruningMaxEdgeCount:     3,
		PruningMinComponentSize: 33,
		GCSAInitialKmerLength:   16,
		GCSADoublingSteps:       4,
	}
}

// Merge fills zero-valued fields of p from defaults and returns the result.
func (p Params) Merge(defaults Params) Params {
	if p.MaxNodeSize == 0 {
		p.MaxNodeSize = defaults.MaxNodeSize
	}
	if p.PruningMaxNodeDegree == 0 {
		p.PruningMaxNodeDegree = defaults.PruningMaxNodeDegree
	}
	if p.PruningWalkLength == 0 {
		p.PruningWalkLength = defaults.PruningWalkLength
	}
	if p.PruningMaxEdgeCount == 0 {
		p.PruningMaxEdgeCount = defaults.PruningMaxEdgeCount
	}
	if p.PruningMinComponentSize == 0 {
		p.PruningMinComponentSize = defaults.PruningMinComponentSize
	}
	if p.GCSAInitialKmerLength == 0 {
		p.GCSAInitialKmerLength = defaults.GCSAInitialKmerLength
	}
	if p.GCSADoublingSteps == 0 {
		p.GCSADoublingSteps = defaults.GCSADoublingSteps
	}
	return p
}
