package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRecord(t *testing.T, dir, group, file, body string) {
	t.Helper()
	groupDir := filepath.Join(dir, group)
	if err := os.MkdirAll(groupDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(groupDir, file), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	items := t.TempDir()
	spells := t.TempDir()

	writeRecord(t, items, "weapon", "short_sword.json", `{
		"id": "w1",
		"name": "Short Sword",
		"attributeBlocks": {
			"unalerted": {"strength": "M"},
			"alerted": {"strength": "H"}
		}
	}`)
	writeRecord(t, items, "armor", "helmet.json", `{
		"id": "a1",
		"name": "Helmet",
		"attributeBlocks": {
			"intact": {"base_weight": "M"},
			"damaged": {"base_weight": "M"}
		}
	}`)
	writeRecord(t, spells, "level_4", "fiery_blast.json", `{
		"id": "s1",
		"name": "Fiery Blast",
		"attributeBlocks": {"this": {"spell": "IV"}}
	}`)

	cat, report, err := Load(items, spells)
	if err != nil {
		t.Fatal(err)
	}
	if len(cat) != 3 {
		t.Fatalf("expected 3 records, got %d", len(cat))
	}
	if report.Files != 3 || len(report.Skipped) != 0 || len(report.Duplicates) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	sword, ok := cat.Find("Short Sword")
	if !ok {
		t.Fatal("Short Sword not loaded")
	}
	if !sword.Attributes.HasWeaponSides() {
		t.Fatal("weapon sides not parsed")
	}
	spell, ok := cat.Find("Fiery Blast")
	if !ok || !spell.Attributes.HasSpell() {
		t.Fatal("spell attribute not parsed")
	}
}

func TestLoadMissingStoresTolerated(t *testing.T) {
	cat, report, err := Load(filepath.Join(t.TempDir(), "nope"), filepath.Join(t.TempDir(), "nada"))
	if err != nil {
		t.Fatal(err)
	}
	if len(cat) != 0 || report.Files != 0 {
		t.Fatalf("expected empty catalog, got %d records", len(cat))
	}
}

func TestLoadSkipsMalformedRecords(t *testing.T) {
	items := t.TempDir()
	writeRecord(t, items, "weapon", "good.json", `{"id": "w1", "name": "Mace"}`)
	writeRecord(t, items, "weapon", "bad.json", `{"name": `)
	writeRecord(t, items, "weapon", "nameless.json", `{"id": "w2"}`)

	cat, report, err := Load(items, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(cat) != 1 {
		t.Fatalf("expected 1 record, got %d", len(cat))
	}
	if len(report.Skipped) != 2 {
		t.Fatalf("expected 2 skipped files, got %v", report.Skipped)
	}
}

func TestLoadDuplicateNameLastWins(t *testing.T) {
	items := t.TempDir()
	writeRecord(t, items, "armor", "buckler.json", `{"id": "first", "name": "Buckler"}`)
	writeRecord(t, items, "treasure", "buckler.json", `{"id": "second", "name": "Buckler"}`)

	cat, report, err := Load(items, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(cat) != 1 {
		t.Fatalf("expected 1 record after collision, got %d", len(cat))
	}
	if len(report.Duplicates) != 1 || report.Duplicates[0] != "Buckler" {
		t.Fatalf("collision not reported: %v", report.Duplicates)
	}
	// armor sorts before treasure in the scan, so the treasure record wins.
	rec, _ := cat.Find("Buckler")
	if rec.ID != "second" {
		t.Fatalf("expected last record to win, got id %s", rec.ID)
	}
}
