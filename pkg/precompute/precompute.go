// Package precompute builds and persists the per-session subset of the
// catalog referenced by a session's character inventories.
package precompute

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/wrenhall/realmlog/internal/utils"
	"github.com/wrenhall/realmlog/pkg/catalog"
	"github.com/wrenhall/realmlog/pkg/inventory"
)

const artifactName = "item_cache.json"

// Result reports the outcome of a cache build. Matched+len(Missing) == Total,
// and the matched keys together with Missing partition the referenced-name
// set exactly.
type Result struct {
	Matched int
	Total   int
	Missing []string
}

// Build intersects the catalog against the names referenced by the session's
// inventories. Names not found in the catalog end up in Result.Missing,
// sorted, and are never an error.
func Build(cat catalog.Catalog, inventories map[string]inventory.CharacterInventory) (map[string]*catalog.ItemRecord, Result) {
	names := inventory.ReferencedNames(inventories)

	items := make(map[string]*catalog.ItemRecord)
	res := Result{Total: len(names)}
	for name := range names {
		if rec, ok := cat.Find(name); ok {
			items[name] = rec
			res.Matched++
		} else {
			res.Missing = append(res.Missing, name)
		}
	}
	sort.Strings(res.Missing)
	return items, res
}

// ArtifactPath returns where the session's cache artifact lives.
func ArtifactPath(sessionsDir, sessionID string) string {
	return filepath.Join(sessionsDir, sessionID, artifactName)
}

// Write persists the built subset as the session's cache artifact,
// overwriting any previous artifact for the session. The write goes to a
// temp file first and is renamed into place, so a reader never observes a
// truncated artifact and a failed write leaves the old one untouched.
// Output is deterministic: rebuilding from unchanged inputs yields a
// byte-identical file.
func Write(sessionsDir, sessionID string, items map[string]*catalog.ItemRecord) error {
	path := ArtifactPath(sessionsDir, sessionID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache artifact: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), artifactName+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp artifact: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing cache artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing cache artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing cache artifact: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing cache artifact: %w", err)
	}

	utils.Log.Debugf("wrote %d cached items for session %s", len(items), sessionID)
	return nil
}

// ErrNoArtifact is returned by Read when the session has no cache artifact.
// Absence is routine: the runtime cache just falls back to lazy resolution.
var ErrNoArtifact = fmt.Errorf("no cache artifact")

// Read loads a previously written session cache artifact.
func Read(sessionsDir, sessionID string) (map[string]*catalog.ItemRecord, error) {
	data, err := os.ReadFile(ArtifactPath(sessionsDir, sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoArtifact
		}
		return nil, fmt.Errorf("reading cache artifact: %w", err)
	}
	var items map[string]*catalog.ItemRecord
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding cache artifact: %w", err)
	}
	return items, nil
}
