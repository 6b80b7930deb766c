package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wrenhall/realmlog/internal/utils"
)

// LoadReport summarizes a catalog load pass for observability.
type LoadReport struct {
	Files      int      // record files parsed successfully
	Skipped    []string // paths of malformed record files, logged and skipped
	Duplicates []string // names seen more than once (last record wins)
}

// Load builds a Catalog by scanning the items store (one subdirectory per
// category) and the spells store (one subdirectory per level). A missing
// store directory contributes zero records and is not an error. A record file
// that fails to parse is logged, added to the report, and skipped; the scan
// continues. When two record files share a name the later one wins, and the
// collision is reported.
func Load(itemsDir, spellsDir string) (Catalog, *LoadReport, error) {
	cat := make(Catalog)
	report := &LoadReport{}

	for _, dir := range []string{itemsDir, spellsDir} {
		if dir == "" {
			continue
		}
		if err := loadStore(dir, cat, report); err != nil {
			return nil, nil, err
		}
	}

	utils.Log.Debugf("catalog loaded: %d records, %d skipped, %d duplicate names",
		len(cat), len(report.Skipped), len(report.Duplicates))
	return cat, report, nil
}

func loadStore(dir string, cat Catalog, report *LoadReport) error {
	groups, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			utils.Log.Debugf("store %s not present, skipping", dir)
			return nil
		}
		return fmt.Errorf("reading store %s: %w", dir, err)
	}

	for _, group := range groups {
		if !group.IsDir() {
			continue
		}
		groupDir := filepath.Join(dir, group.Name())
		files, err := os.ReadDir(groupDir)
		if err != nil {
			return fmt.Errorf("reading %s: %w", groupDir, err)
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
				continue
			}
			path := filepath.Join(groupDir, f.Name())
			rec, err := parseRecordFile(path)
			if err != nil {
				utils.Log.Warnf("skipping malformed record %s: %v", path, err)
				report.Skipped = append(report.Skipped, path)
				continue
			}
			if _, exists := cat[rec.Name]; exists {
				utils.Log.Warnf("duplicate catalog name %q (%s overwrites earlier record)", rec.Name, path)
				report.Duplicates = append(report.Duplicates, rec.Name)
			}
			cat[rec.Name] = rec
			report.Files++
		}
	}
	return nil
}

func parseRecordFile(path string) (*ItemRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec ItemRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec.Name == "" {
		return nil, fmt.Errorf("record has no name")
	}
	return &rec, nil
}
