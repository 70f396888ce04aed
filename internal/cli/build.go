package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/indexforge/pkg/catalog"
	pkgio "github.com/matzehuels/indexforge/pkg/io"
	"github.com/matzehuels/indexforge/pkg/registry"
)

// buildOptions collects the build command's flags.
type buildOptions struct {
	profilePath  string
	inputsPath   string
	provisions   []string
	outputPrefix string
	keep         bool
	tempDir      string
	toolchainBin string
	interactive  bool
	dryRun       bool
}

// buildCommand creates the build command for planning and materialising indexes.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build [targets...]",
		Short: "Plan and build the requested index artifacts",
		Long: `Plan and build the requested index artifacts.

The build command resolves which recipes can produce the requested indexes
from the inputs at hand, preferring higher-priority recipes and falling back
to alternatives when an input chain cannot be satisfied. Recipes run in
dependency order; files produced only to satisfy dependencies are deleted at
the end unless --keep-intermediates is set.

Inputs can come from a TOML profile (--profile), a JSON provisions file
(--inputs), or repeated --provide flags. Without explicit targets, the
profile's targets are built, falling back to the default map indexes.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.profilePath, "profile", "p", "", "TOML build profile")
	cmd.Flags().StringVar(&opts.inputsPath, "inputs", "", "JSON provisions file mapping identifiers to input files")
	cmd.Flags().StringArrayVar(&opts.provisions, "provide", nil, "provide an input, e.g. --provide 'VCF=sample.vcf'")
	cmd.Flags().StringVarP(&opts.outputPrefix, "output-prefix", "o", "", "prefix for kept output files (default \"index\")")
	cmd.Flags().BoolVar(&opts.keep, "keep-intermediates", false, "keep intermediate files under the output prefix")
	cmd.Flags().StringVar(&opts.tempDir, "temp-dir", "", "directory for intermediate files (default system temp)")
	cmd.Flags().StringVar(&opts.toolchainBin, "toolchain", "", "path to the vg binary (default \"vg\")")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick targets interactively")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the plan without running recipes")

	return cmd
}

// runBuild assembles the registry from the catalogue and profile, resolves
// targets, and executes the plan.
func (c *CLI) runBuild(ctx context.Context, targets []string, opts buildOptions) error {
	logger := c.Logger.With("run", uuid.NewString()[:8])

	var profile Profile
	if opts.profilePath != "" {
		var err error
		if profile, err = loadProfile(opts.profilePath); err != nil {
			return err
		}
	}

	bin := opts.toolchainBin
	if bin == "" {
		bin = profile.ToolchainBin
	}
	tc := catalog.NewExecToolchain(bin, profile.Params, logger)
	logger.Debug("using toolchain", "toolchain", tc.Describe())
	reg, err := catalog.New(tc)
	if err != nil {
		return err
	}
	reg.SetLogger(logger)

	prefix := opts.outputPrefix
	if prefix == "" {
		prefix = profile.OutputPrefix
	}
	if prefix == "" {
		prefix = "index"
	}
	reg.SetOutputPrefix(prefix)
	reg.SetKeepIntermediates(opts.keep || profile.KeepIntermediates)
	if dir := firstNonEmpty(opts.tempDir, profile.TempDir); dir != "" {
		reg.SetTempDir(dir)
	}

	if err := c.applyProvisions(reg, profile, opts); err != nil {
		return err
	}

	if targets, err = c.resolveTargets(reg, targets, profile, opts.interactive); err != nil {
		return err
	}
	if len(reg.CompletedArtifacts()) == 0 {
		printWarning("no inputs provided; use --provide, --inputs, or a profile [provide] table")
	}

	if opts.dryRun {
		return printPlan(reg, targets)
	}

	track := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Building %d target(s)...", len(targets)))
	spinner.Start()

	err = reg.MakeIndexes(targets)
	if err != nil {
		spinner.StopWithError("Build failed")
		var insufficient *registry.InsufficientInputError
		if errors.As(err, &insufficient) {
			printDetail("target: %s", insufficient.Target)
			printDetail("available inputs: %v", insufficient.Inputs)
		}
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Built %s", StyleHighlight.Render(fmt.Sprintf("%d target(s)", len(targets)))))
	track.done(fmt.Sprintf("Built %d targets", len(targets)))

	for _, target := range targets {
		if a, ok := reg.Artifact(target); ok {
			for _, filename := range a.Filenames() {
				printFile(filename)
			}
		}
	}
	return nil
}

// applyProvisions seeds the registry's inputs from the profile, the JSON
// provisions file, and --provide flags, in that order.
func (c *CLI) applyProvisions(reg *registry.Registry, profile Profile, opts buildOptions) error {
	if len(profile.Provide) > 0 {
		if err := pkgio.Provisions(profile.Provide).Apply(reg); err != nil {
			return err
		}
	}
	if opts.inputsPath != "" {
		provisions, err := pkgio.ReadProvisionsFile(opts.inputsPath)
		if err != nil {
			return err
		}
		if err := provisions.Apply(reg); err != nil {
			return err
		}
	}
	for _, value := range opts.provisions {
		identifier, filenames, err := parseProvision(value)
		if err != nil {
			return err
		}
		if err := reg.Provide(identifier, filenames...); err != nil {
			return err
		}
	}
	return nil
}

// resolveTargets decides what to build: explicit arguments, an interactive
// selection, the profile's targets, or the default map indexes.
func (c *CLI) resolveTargets(reg *registry.Registry, args []string, profile Profile, interactive bool) ([]string, error) {
	if interactive {
		return pickTargets(reg, args)
	}
	if len(args) > 0 {
		return args, nil
	}
	if len(profile.Targets) > 0 {
		return profile.Targets, nil
	}
	return catalog.DefaultMapTargets(), nil
}

// printPlan prints the plan for the targets without executing it.
func printPlan(reg *registry.Registry, targets []string) error {
	plan, err := reg.MakePlan(targets)
	if err != nil {
		return err
	}
	printInfo("plan for %v", targets)
	for _, step := range plan {
		printDetail("%s %s  (recipe %d)", iconArrow, step.Identifier, step.Recipe)
	}
	if len(plan) == 0 {
		printDetail("nothing to do: all targets are already provided")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
