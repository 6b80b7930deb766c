// Package inventory models the per-character item lists produced by the
// session log parser, and extracts the item names a session references.
package inventory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/wrenhall/realmlog/internal/utils"
)

// SessionFilePath returns where the parser drops a session's inventory file.
func SessionFilePath(sessionsDir, sessionID string) string {
	return filepath.Join(sessionsDir, sessionID, "inventories.json")
}

// ItemRef is a single inventory line: a name plus whatever extra fields the
// parser recorded (counts, notes). Only the name matters for resolution.
type ItemRef struct {
	Name string `json:"name"`
}

// CharacterInventory holds the eight fixed item buckets the session parser
// emits for each character.
type CharacterInventory struct {
	Weapons        []ItemRef `json:"weapons"`
	Armor          []ItemRef `json:"armor"`
	Treasures      []ItemRef `json:"treasures"`
	GreatTreasures []ItemRef `json:"great_treasures"`
	Spells         []ItemRef `json:"spells"`
	Natives        []ItemRef `json:"natives"`
	Other          []ItemRef `json:"other"`
	Unknown        []ItemRef `json:"unknown"`
}

var bucketNames = []string{
	"weapons", "armor", "treasures", "great_treasures",
	"spells", "natives", "other", "unknown",
}

// Buckets returns the inventory's buckets in their fixed order.
func (inv CharacterInventory) Buckets() [][]ItemRef {
	return [][]ItemRef{
		inv.Weapons, inv.Armor, inv.Treasures, inv.GreatTreasures,
		inv.Spells, inv.Natives, inv.Other, inv.Unknown,
	}
}

// ReferencedNames flattens every bucket of every character and returns the
// set of distinct item names. Entries without a name are dropped.
func ReferencedNames(inventories map[string]CharacterInventory) map[string]struct{} {
	names := make(map[string]struct{})
	for _, inv := range inventories {
		for _, bucket := range inv.Buckets() {
			for _, ref := range bucket {
				if ref.Name == "" {
					continue
				}
				names[ref.Name] = struct{}{}
			}
		}
	}
	return names
}

// ErrNoInventory is returned by LoadSessionFile when the session has no
// inventory file at all.
var ErrNoInventory = fmt.Errorf("no inventory data")

// LoadSessionFile reads the parser's character-inventory document for a
// session. Parsing is deliberately lenient: a character entry that isn't an
// object, or a bucket entry without a usable name, is skipped rather than
// failing the whole session.
func LoadSessionFile(path string) (map[string]CharacterInventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoInventory
		}
		return nil, fmt.Errorf("reading inventory file: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("inventory file %s is not valid JSON", path)
	}

	inventories := make(map[string]CharacterInventory)
	gjson.ParseBytes(data).ForEach(func(character, entry gjson.Result) bool {
		if !entry.IsObject() {
			utils.Log.Warnf("skipping malformed inventory entry for character %q", character.Str)
			return true
		}
		inventories[character.Str] = parseCharacter(entry)
		return true
	})
	return inventories, nil
}

func parseCharacter(entry gjson.Result) CharacterInventory {
	var inv CharacterInventory
	for _, bucket := range bucketNames {
		var refs []ItemRef
		entry.Get(bucket).ForEach(func(_, item gjson.Result) bool {
			name := item.Get("name").Str
			if name != "" {
				refs = append(refs, ItemRef{Name: name})
			}
			return true
		})
		switch bucket {
		case "weapons":
			inv.Weapons = refs
		case "armor":
			inv.Armor = refs
		case "treasures":
			inv.Treasures = refs
		case "great_treasures":
			inv.GreatTreasures = refs
		case "spells":
			inv.Spells = refs
		case "natives":
			inv.Natives = refs
		case "other":
			inv.Other = refs
		case "unknown":
			inv.Unknown = refs
		}
	}
	return inv
}
