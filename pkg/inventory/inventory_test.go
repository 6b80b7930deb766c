package inventory

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestReferencedNames(t *testing.T) {
	inventories := map[string]CharacterInventory{
		"Amazon": {
			Weapons:   []ItemRef{{Name: "Short Sword"}},
			Armor:     []ItemRef{{Name: "Helmet"}, {Name: "Shield"}},
			Treasures: []ItemRef{{Name: "Beast Pipes"}},
		},
		"Dwarf": {
			Weapons: []ItemRef{{Name: "Short Sword"}}, // duplicate across characters
			Other:   []ItemRef{{Name: ""}},            // nameless entries are dropped
			Unknown: []ItemRef{{Name: "Strange Chit"}},
		},
	}

	names := ReferencedNames(inventories)
	want := []string{"Short Sword", "Helmet", "Shield", "Beast Pipes", "Strange Chit"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d: %v", len(want), len(names), names)
	}
	for _, name := range want {
		if _, ok := names[name]; !ok {
			t.Fatalf("missing name %q", name)
		}
	}
}

func TestReferencedNamesEmpty(t *testing.T) {
	if names := ReferencedNames(map[string]CharacterInventory{}); len(names) != 0 {
		t.Fatalf("expected empty set, got %v", names)
	}
}

func TestLoadSessionFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventories.json")
	doc := `{
		"Amazon": {
			"weapons": [{"name": "Short Sword"}, {"count": 2}],
			"armor": [{"name": "Helmet"}],
			"spells": []
		},
		"Ghost": "not an object",
		"Dwarf": {
			"great_treasures": [{"name": "Chest"}]
		}
	}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	inventories, err := LoadSessionFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// The malformed Ghost entry is skipped, not fatal.
	if len(inventories) != 2 {
		t.Fatalf("expected 2 characters, got %d", len(inventories))
	}
	amazon := inventories["Amazon"]
	if len(amazon.Weapons) != 1 || amazon.Weapons[0].Name != "Short Sword" {
		t.Fatalf("weapons parsed wrong: %+v", amazon.Weapons)
	}
	if len(inventories["Dwarf"].GreatTreasures) != 1 {
		t.Fatal("great_treasures bucket not parsed")
	}
}

func TestLoadSessionFileMissing(t *testing.T) {
	_, err := LoadSessionFile(filepath.Join(t.TempDir(), "inventories.json"))
	if !errors.Is(err, ErrNoInventory) {
		t.Fatalf("expected ErrNoInventory, got %v", err)
	}
}

func TestLoadSessionFileInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventories.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSessionFile(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
