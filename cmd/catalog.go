package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wrenhall/realmlog/pkg/catalog"
	"github.com/wrenhall/realmlog/pkg/classify"
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the game-data catalog",
}

// catalogStatsCmd represents the stats command
var catalogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints record counts per category and any name collisions.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, report, err := catalog.Load(itemsDir(), spellsDir())
		if err != nil {
			return err
		}

		counts := make(map[classify.Category]int)
		for name, rec := range cat {
			counts[classify.Classify(name, rec)]++
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "CATEGORY\tRECORDS\t")
		for _, c := range []classify.Category{
			classify.Weapon, classify.Armor, classify.Spell, classify.Treasure,
			classify.LargeTreasure, classify.GreatTreasure, classify.Native, classify.Other,
		} {
			fmt.Fprintf(w, "%s\t%d\t\n", c, counts[c])
		}
		fmt.Fprintln(w, " \t \t")
		fmt.Fprintf(w, "TOTAL\t%d\t\n", len(cat))
		w.Flush()

		if len(report.Skipped) > 0 {
			fmt.Printf("\n%d malformed record file(s) skipped:\n", len(report.Skipped))
			for _, path := range report.Skipped {
				fmt.Println("  " + path)
			}
		}
		if len(report.Duplicates) > 0 {
			fmt.Printf("\n%d duplicate name(s), last record won:\n", len(report.Duplicates))
			for _, name := range report.Duplicates {
				fmt.Println("  " + name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogStatsCmd)
}
