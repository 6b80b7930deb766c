// Package classify maps a resolved (or unresolved) item to its display
// category. Classification is pure: attribute blocks decide when a record is
// available, name keywords decide otherwise.
package classify

import (
	"strings"

	"github.com/wrenhall/realmlog/pkg/catalog"
)

// Category is an item's display category.
type Category string

const (
	Weapon        Category = "weapon"
	Armor         Category = "armor"
	Spell         Category = "spell"
	Treasure      Category = "treasure"
	LargeTreasure Category = "large_treasure"
	GreatTreasure Category = "great_treasure"
	Native        Category = "native"
	Other         Category = "other"
)

// keywordMap groups fallback keywords under the category they imply. Order of
// evaluation matters and is fixed in classifyByName, not here.
var keywordMap = map[Category][]string{
	Weapon: {
		"bow", "sword", "axe", "spear", "mace", "staff", "crossbow",
		"halberd", "dagger", "morning star",
	},
	Armor:    {"armor", "shield", "helmet", "breastplate", "greaves", "gauntlets"},
	Spell:    {"spell", "curse", "blessing", "hurricane", "phantasm", "transform", "melt"},
	Treasure: {"treasure", "gold", "jewel", "gem", "coin"},
	Native:   {"native", "guard", "mercenary", "lancer", "dwarf", "elf"},
}

// greatKeywords pair with "great" in a name to mark a great treasure.
var greatKeywords = []string{"treasure", "sword", "axe", "armor"}

// Classify maps an item to its category. Attribute blocks take precedence,
// in fixed order: armor sides, weapon sides, spell attribute, base price
// (large or plain treasure). Anything else, including an absent record,
// falls through to name keywords.
func Classify(name string, rec *catalog.ItemRecord) Category {
	if rec != nil {
		attrs := rec.Attributes
		switch {
		case attrs.HasArmorSides():
			return Armor
		case attrs.HasWeaponSides():
			return Weapon
		case attrs.HasSpell():
			return Spell
		case attrs.HasBasePrice():
			if attrs.This.Treasure == "large" {
				return LargeTreasure
			}
			return Treasure
		}
	}
	return classifyByName(name)
}

func classifyByName(name string) Category {
	lower := strings.ToLower(name)

	for _, cat := range []Category{Weapon, Armor, Spell} {
		if containsAny(lower, keywordMap[cat]) {
			return cat
		}
	}
	if strings.Contains(lower, "great") && containsAny(lower, greatKeywords) {
		return GreatTreasure
	}
	for _, cat := range []Category{Treasure, Native} {
		if containsAny(lower, keywordMap[cat]) {
			return cat
		}
	}
	return Other
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// IsLargeTreasure reports whether the record carries the large-treasure
// attribute. This is evaluated independently of Classify: the category and
// the styling flag are two separate signals over the same field.
func IsLargeTreasure(rec *catalog.ItemRecord) bool {
	return rec != nil && rec.Attributes.This != nil && rec.Attributes.This.Treasure == "large"
}

// RefineGreatTreasure is the second-pass refinement consumers apply on top
// of Classify: a treasure whose name mentions "great" is displayed as a
// great treasure. It is not part of Classify itself.
func RefineGreatTreasure(cat Category, name string) Category {
	if cat == Treasure && strings.Contains(strings.ToLower(name), "great") {
		return GreatTreasure
	}
	return cat
}
