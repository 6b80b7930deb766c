package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wrenhall/realmlog/pkg/catalog"
	"github.com/wrenhall/realmlog/pkg/classify"
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <name>...",
	Short: "Classify item names into display categories",
	Long: `Classifies each given name. With --no-catalog the catalog is skipped and
only the name-keyword fallback runs, which is what the viewer does for items
it could not resolve.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noCatalog, _ := cmd.Flags().GetBool("no-catalog")

		var cat catalog.Catalog
		if !noCatalog {
			var err error
			cat, _, err = catalog.Load(itemsDir(), spellsDir())
			if err != nil {
				return err
			}
		}

		for _, name := range args {
			rec, _ := cat.Find(name)
			category := classify.Classify(name, rec)
			line := fmt.Sprintf("%-16s %s", category, name)
			if classify.IsLargeTreasure(rec) {
				line += " (large)"
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().Bool("no-catalog", false, "Skip the catalog, classify by name keywords only")
}
