package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/indexforge/pkg/catalog"
	pkgio "github.com/matzehuels/indexforge/pkg/io"
)

// listCommand creates the list command for inspecting the registry.
func (c *CLI) listCommand() *cobra.Command {
	var (
		asJSON      bool
		profilePath string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show registered artifacts, recipes, and completion state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runList(asJSON, profilePath)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the registry as JSON")
	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "TOML build profile supplying provided inputs")

	return cmd
}

func (c *CLI) runList(asJSON bool, profilePath string) error {
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

	if asJSON {
		return pkgio.WriteJSON(reg, os.Stdout)
	}

	fmt.Println(StyleTitle.Render("Registered artifacts"))
	for _, a := range reg.Artifacts() {
		fmt.Printf("%s  %s  %s\n",
			StyleValue.Render(a.Identifier()),
			StyleDim.Render("."+a.Suffix()),
			artifactStatus(a.IsFinished()))
		for priority, recipe := range a.Recipes() {
			var inputs []string
			for _, input := range recipe.Inputs() {
				inputs = append(inputs, input.Identifier())
			}
			printDetail("recipe %d %s %s", priority, iconArrow, strings.Join(inputs, ", "))
		}
	}

	recipes := 0
	for _, a := range reg.Artifacts() {
		recipes += len(a.Recipes())
	}
	fmt.Println()
	printKeyValue("artifacts", fmt.Sprintf("%d", len(reg.Artifacts())))
	printKeyValue("recipes", fmt.Sprintf("%d", recipes))

	if completed := reg.CompletedArtifacts(); len(completed) > 0 {
		printInfo("completed: %s", strings.Join(completed, ", "))
	}
	return nil
}
