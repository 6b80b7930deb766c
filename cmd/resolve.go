package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wrenhall/realmlog/internal/utils"
	"github.com/wrenhall/realmlog/pkg/catalog"
	"github.com/wrenhall/realmlog/pkg/classify"
	"github.com/wrenhall/realmlog/pkg/inventory"
	"github.com/wrenhall/realmlog/pkg/precompute"
	"github.com/wrenhall/realmlog/pkg/resolve"
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a session's item names and print their categories",
	Long: `Resolves item names the way the log viewer does: seed the runtime cache
from the session's precomputed artifact when one exists, otherwise fall back
to batched lookups, then print each name with its display category.

With explicit name arguments only those names are resolved; without
arguments every name the session's inventories reference is.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		if sessionID == "" {
			return fmt.Errorf("provide --session <id>")
		}

		cache, err := newSessionCache(sessionID)
		if err != nil {
			return err
		}

		names := args
		if len(names) == 0 {
			inventories, err := inventory.LoadSessionFile(inventory.SessionFilePath(sessionsDir(), sessionID))
			if err != nil {
				return err
			}
			set := inventory.ReferencedNames(inventories)
			for name := range set {
				names = append(names, name)
			}
			sort.Strings(names)
		}

		ctx := context.Background()
		if !cache.Primed() {
			cache.WarmUp(ctx, names)
		}

		for _, name := range names {
			rec, ok := cache.Resolve(ctx, name)
			cat := classify.RefineGreatTreasure(classify.Classify(name, rec), name)
			marker := " "
			if !ok {
				marker = "?"
			}
			fmt.Printf("%s %-16s %s\n", marker, cat, name)
		}
		return nil
	},
}

// newSessionCache wires the runtime cache the way the viewer does: local
// catalog lookups unless a remote lookup service is configured, seeded from
// the session's precomputed artifact when present.
func newSessionCache(sessionID string) (*resolve.Cache, error) {
	var lookup resolve.Lookup
	if lookupURL := viper.GetString("lookup.url"); lookupURL != "" {
		lookup = resolve.NewHTTPLookup(lookupURL)
	} else {
		cat, _, err := catalog.Load(itemsDir(), spellsDir())
		if err != nil {
			return nil, err
		}
		lookup = resolve.CatalogLookup{Catalog: cat}
	}

	cache := resolve.NewCache(lookup,
		resolve.WithBatchSize(viper.GetInt("resolver.batch_size")),
		resolve.WithBatchDelay(time.Duration(viper.GetInt("resolver.batch_delay_ms"))*time.Millisecond),
		resolve.WithLogger(utils.Log),
	)

	items, err := precompute.Read(sessionsDir(), sessionID)
	if err == nil {
		cache.Seed(items)
	} else if !errors.Is(err, precompute.ErrNoArtifact) {
		utils.Log.Warnf("ignoring unreadable cache artifact for session %s: %v", sessionID, err)
	}
	return cache, nil
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringP("session", "s", "", "Session identifier")
}
