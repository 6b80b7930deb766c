package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Interact with the build-history database",
}

// dbStatsCmd represents the stats command
var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints the latest cache build per session.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Parent().PersistentFlags().GetString("dbpath")

		db, err := openHistoryDB(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats(context.Background())
		if err != nil {
			return err
		}

		if len(stats) == 0 {
			fmt.Println("No build runs recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "SESSION\tMATCHED\tTOTAL\tMISSING\tBUILT AT\t")

		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t\n",
				s.SessionID, s.Matched, s.Total, s.MissingCount,
				s.BuiltAt.Format("2006-01-02 15:04:05"))
		}

		w.Flush()
		return nil
	},
}

// dbMissingCmd represents the missing command
var dbMissingCmd = &cobra.Command{
	Use:   "missing <session>",
	Short: "Prints the unresolved names from a session's latest build.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Parent().PersistentFlags().GetString("dbpath")

		db, err := openHistoryDB(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		names, err := db.ListMissing(context.Background(), args[0])
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbStatsCmd)
	dbCmd.AddCommand(dbMissingCmd)
	dbCmd.PersistentFlags().String("dbpath", "", "Path to the build-history SQLite DB")
}
