package catalog

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/indexforge/pkg/errors"
)

// ExecToolchain implements [Toolchain] by shelling out to a vg binary.
// The zero value is not usable; create one with [NewExecToolchain].
type ExecToolchain struct {
	bin    string
	params Params
	logger *log.Logger
}

// NewExecToolchain creates a toolchain that invokes the vg binary at bin.
// An empty bin defaults to "vg" on PATH; a nil logger discards output.
func NewExecToolchain(bin string, params Params, logger *log.Logger) *ExecToolchain {
	if bin == "" {
		bin = "vg"
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &ExecToolchain{bin: bin, params: params.Merge(DefaultParams()), logger: logger}
}

// run invokes vg with the given arguments, capturing stderr for diagnostics.
func (t *ExecToolchain) run(args ...string) error {
	t.logger.Debug("running toolchain", "bin", t.bin, "args", strings.Join(args, " "))
	cmd := exec.Command(t.bin, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrap(errors.ErrCodeRecipeFailed, err,
			"%s %s: %s", t.bin, args[0], strings.TrimSpace(stderr.String()))
	}
	return nil
}

// runToFile invokes vg with stdout redirected to the output file.
func (t *ExecToolchain) runToFile(out string, args ...string) error {
	t.logger.Debug("running toolchain", "bin", t.bin, "args", strings.Join(args, " "), "out", out)
	f, err := os.Create(out)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRecipeFailed, err, "create %s", out)
	}
	defer f.Close()

	cmd := exec.Command(t.bin, args...)
	cmd.Stdout = f
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrap(errors.ErrCodeRecipeFailed, err,
			"%s %s: %s", t.bin, args[0], strings.TrimSpace(stderr.String()))
	}
	return nil
}

// ConstructFromGFA builds a graph from a GFA file.
func (t *ExecToolchain) ConstructFromGFA(gfa, out string) error {
	t.logger.Info("constructing graph from GFA input")
	return t.runToFile(out, "convert", "-g", gfa)
}

// ConstructFromVariants builds a graph from reference FASTAs and VCFs.
func (t *ExecToolchain) ConstructFromVariants(fastas, vcfs, insertions []string, altPaths bool, out string) error {
	t.logger.Info("constructing graph from FASTA and VCF input")
	args := []string{"construct", "-m", strconv.Itoa(t.params.MaxNodeSize)}
	for _, fasta := range fastas {
		args = append(args, "-r", fasta)
	}
	for _, vcf := range vcfs {
		args = append(args, "-v", vcf)
	}
	for _, insertion := range insertions {
		args = append(args, "-I", insertion)
	}
	if altPaths {
		args = append(args, "-a")
	}
	return t.runToFile(out, args...)
}

// StripAltPaths removes alt-allele paths from a graph.
func (t *ExecToolchain) StripAltPaths(graph, out string) error {
	t.logger.Info("stripping allele paths from graph")
	return t.runToFile(out, "paths", "-v", graph, "-d", "-Q", "_alt_")
}

// XGFromGFA builds an XG index directly from a GFA file.
func (t *ExecToolchain) XGFromGFA(gfa, out string) error {
	t.logger.Info("constructing XG index from GFA input")
	return t.run("index", "-x", out, gfa)
}

// XGFromGraph builds an XG index from a graph.
func (t *ExecToolchain) XGFromGraph(graph, out string) error {
	t.logger.Info("constructing XG index from graph")
	return t.run("index", "-x", out, graph)
}

// NodeMappingFromGraph initialises an empty node mapping for a graph.
func (t *ExecToolchain) NodeMappingFromGraph(graph, out string) error {
	t.logger.Info("initialising node mapping from graph")
	return t.run("ids", "-m", out, graph)
}

// GBWTFromPhasing builds a GBWT from a variant-path graph and a phased VCF.
func (t *ExecToolchain) GBWTFromPhasing(graph, phasedVCF, out string) error {
	t.logger.Info("constructing GBWT from graph and phased VCF input")
	return t.run("index", "-G", out, "-v", phasedVCF, graph)
}

// PruneGraph prunes complex regions, restoring embedded paths.
func (t *ExecToolchain) PruneGraph(graph, _ string, out string) error {
	t.logger.Info("pruning complex regions to prepare for GCSA indexing")
	return t.runToFile(out, "prune", "-r", graph,
		"-k", strconv.Itoa(t.params.PruningWalkLength),
		"-e", strconv.Itoa(t.params.PruningMaxEdgeCount),
		"-s", strconv.Itoa(t.params.PruningMinComponentSize),
		"-M", strconv.Itoa(t.params.PruningMaxNodeDegree))
}

// HaplotypePruneGraph prunes with GBWT unfolding. The input mapping is
// copied to outMapping first so other recipes reading it stay unaffected.
func (t *ExecToolchain) HaplotypePruneGraph(graph, _ string, gbwt, mapping, outGraph, outMapping string) error {
	t.logger.Info("pruning complex regions with GBWT unfolding")
	if err := copyFile(mapping, outMapping); err != nil {
		return errors.Wrap(errors.ErrCodeRecipeFailed, err, "copy node mapping")
	}
	return t.runToFile(outGraph, "prune", "-u", graph,
		"-g", gbwt,
		"-m", outMapping,
		"-k", strconv.Itoa(t.params.PruningWalkLength),
		"-e", strconv.Itoa(t.params.PruningMaxEdgeCount),
		"-s", strconv.Itoa(t.params.PruningMinComponentSize),
		"-M", strconv.Itoa(t.params.PruningMaxNodeDegree))
}

// GCSAIndex builds the GCSA and LCP indexes from pruned-graph input.
func (t *ExecToolchain) GCSAIndex(graphFiles []string, outGCSA, outLCP string) error {
	t.logger.Info("constructing GCSA/LCP indexes")
	args := []string{"index", "-g", outGCSA,
		"-k", strconv.Itoa(t.params.GCSAInitialKmerLength),
		"-X", strconv.Itoa(t.params.GCSADoublingSteps)}
	if len(graphFiles) > 1 {
		// Second file is the node mapping from haplotype unfolding.
		args = append(args, "-f", graphFiles[1])
	}
	args = append(args, graphFiles[0])
	if err := t.run(args...); err != nil {
		return err
	}
	// vg writes the LCP array alongside the GCSA as "<gcsa>.lcp".
	if produced := outGCSA + ".lcp"; produced != outLCP {
		return os.Rename(produced, outLCP)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

var _ Toolchain = (*ExecToolchain)(nil)

// Describe returns a short human-readable description of the toolchain,
// used by CLI diagnostics.
func (t *ExecToolchain) Describe() string {
	return fmt.Sprintf("%s (max node size %d, gcsa kmer %d)", t.bin, t.params.MaxNodeSize, t.params.GCSAInitialKmerLength)
}
