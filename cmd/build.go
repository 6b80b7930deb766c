package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wrenhall/realmlog/internal/utils"
	"github.com/wrenhall/realmlog/pkg/catalog"
	"github.com/wrenhall/realmlog/pkg/inventory"
	"github.com/wrenhall/realmlog/pkg/precompute"
	"github.com/wrenhall/realmlog/pkg/storage"
)

// exitNoInventory distinguishes "this session has no inventory data" from a
// real build failure (exit 1) and success (exit 0).
const exitNoInventory = 2

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Precompute the per-session item cache",
	Long: `Builds the precomputed item cache for a session: intersects the catalog
against the item names the session's character inventories reference, writes
the matched subset as the session's cache artifact, and reports the names
that could not be matched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		all, _ := cmd.Flags().GetBool("all")
		dbPath, _ := cmd.Flags().GetString("dbpath")

		if sessionID == "" && !all {
			return fmt.Errorf("provide --session <id> or --all")
		}

		cat, report, err := catalog.Load(itemsDir(), spellsDir())
		if err != nil {
			return err
		}
		if len(cat) == 0 {
			utils.Log.Warn("catalog is empty, every referenced name will be reported missing")
		}
		for _, name := range report.Duplicates {
			utils.Log.Warnf("catalog name collision: %q", name)
		}

		db, err := openHistoryDB(dbPath)
		if err != nil {
			utils.Log.Warnf("build history disabled: %v", err)
		} else {
			defer db.Close()
		}

		if all {
			return buildAllSessions(cat, db)
		}

		switch err := buildOneSession(cat, db, sessionID); {
		case errors.Is(err, inventory.ErrNoInventory):
			fmt.Fprintf(os.Stderr, "No inventory data for session %s\n", sessionID)
			os.Exit(exitNoInventory)
			return nil
		default:
			return err
		}
	},
}

func buildOneSession(cat catalog.Catalog, db *storage.DB, sessionID string) error {
	dir := sessionsDir()
	inventories, err := inventory.LoadSessionFile(inventory.SessionFilePath(dir, sessionID))
	if err != nil {
		return err
	}

	items, res := precompute.Build(cat, inventories)

	lock, err := utils.NewArtifactLock(precompute.ArtifactPath(dir, sessionID))
	if err != nil {
		return err
	}
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	if err := precompute.Write(dir, sessionID, items); err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}

	fmt.Printf("%s: matched %d/%d\n", sessionID, res.Matched, res.Total)
	for _, name := range res.Missing {
		fmt.Printf("  missing: %s\n", name)
	}

	if db != nil {
		if err := db.RecordBuildRun(context.Background(), sessionID, res.Matched, res.Total, res.Missing); err != nil {
			utils.Log.Warnf("could not record build run for %s: %v", sessionID, err)
		}
	}
	return nil
}

func buildAllSessions(cat catalog.Catalog, db *storage.DB) error {
	dir := sessionsDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading sessions dir: %w", err)
	}

	var failed int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		err := buildOneSession(cat, db, entry.Name())
		if errors.Is(err, inventory.ErrNoInventory) {
			utils.Log.Debugf("session %s has no inventory data, skipping", entry.Name())
			continue
		}
		if err != nil {
			utils.Log.Errorf("session %s: %v", entry.Name(), err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d session builds failed", failed)
	}
	return nil
}

func openHistoryDB(dbPath string) (*storage.DB, error) {
	path, err := utils.GetAbsDBPath(dbPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return storage.Open(path)
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringP("session", "s", "", "Session identifier to build the cache for")
	buildCmd.Flags().BoolP("all", "a", false, "Build caches for every session under the sessions directory")
	buildCmd.Flags().String("dbpath", "", "Path to the build-history SQLite DB (default ~/.config/realmlog/realmlog.sqlite)")
}
