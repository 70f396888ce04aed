package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/indexforge/pkg/catalog"
	"github.com/matzehuels/indexforge/pkg/render"
)

// graphCommand creates the graph command for visualising the recipe graph.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format      string
		output      string
		profilePath string
	)

	cmd := &cobra.Command{
		Use:   "graph [targets...]",
		Short: "Render the recipe graph as DOT, SVG, or PNG",
		Long: `Render the recipe graph as DOT, SVG, or PNG.

Without targets, the whole registry is drawn with provided artifacts shown
filled. With targets, the plan for those targets is computed and its nodes
and edges are emboldened; an unsatisfiable plan is drawn with a diagnostic
title instead.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(args, format, output, profilePath)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout for dot)")
	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "TOML build profile supplying provided inputs")

	return cmd
}

func (c *CLI) runGraph(targets []string, format, output, profilePath string) error {
	reg, err := catalog.New(catalog.NewExecToolchain("", catalog.Params{}, c.Logger))
	if err != nil {
		return err
	}
	if profilePath != "" {
		profile, err := loadProfile(profilePath)
		if err != nil {
			return err
		}
		for identifier, filenames := range profile.Provide {
			if err := reg.Provide(identifier, filenames...); err != nil {
				return err
			}
		}
	}

	dot := render.ToDOTWithTargets(reg, targets)

	var data []byte
	switch strings.ToLower(format) {
	case "dot":
		data = []byte(dot)
	case "svg":
		if data, err = render.RenderSVG(dot); err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
	case "png":
		if data, err = render.RenderPNG(dot); err != nil {
			return fmt.Errorf("render png: %w", err)
		}
	default:
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png)", format)
	}

	if output == "" {
		if format != "dot" {
			return fmt.Errorf("--output is required for %s output", format)
		}
		fmt.Print(string(data))
		return nil
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Wrote %s", output)
	return nil
}
