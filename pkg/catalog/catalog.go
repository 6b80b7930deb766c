package catalog

import (
	"encoding/json"
)

// ItemRecord is a canonical game-data entry for a single item or spell.
// Name is the lookup key used to join session inventories against the
// catalog; the match is exact and case-sensitive.
type ItemRecord struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Attributes AttributeBlocks   `json:"attributeBlocks,omitempty"`
	Parts      []json.RawMessage `json:"parts,omitempty"`
}

// AttributeBlocks holds the named attribute blocks whose presence encodes an
// item's kind: armor counters carry intact+damaged sides, weapon counters
// carry unalerted+alerted sides, and the "this" block carries spell and
// treasure attributes. Block names outside this set are dropped at load time.
type AttributeBlocks struct {
	Intact    map[string]any `json:"intact,omitempty"`
	Damaged   map[string]any `json:"damaged,omitempty"`
	Unalerted map[string]any `json:"unalerted,omitempty"`
	Alerted   map[string]any `json:"alerted,omitempty"`
	This      *ThisBlock     `json:"this,omitempty"`
}

// ThisBlock is the item's own attribute block. Spell and BasePrice are kept
// raw: their shape varies across record files and only presence matters here.
type ThisBlock struct {
	Spell     json.RawMessage `json:"spell,omitempty"`
	BasePrice json.RawMessage `json:"base_price,omitempty"`
	Treasure  string          `json:"treasure,omitempty"`
}

// HasArmorSides reports whether the record carries both armor counter sides.
func (b AttributeBlocks) HasArmorSides() bool {
	return b.Intact != nil && b.Damaged != nil
}

// HasWeaponSides reports whether the record carries both weapon counter sides.
func (b AttributeBlocks) HasWeaponSides() bool {
	return b.Unalerted != nil && b.Alerted != nil
}

// HasSpell reports whether the record's own block carries a spell attribute.
func (b AttributeBlocks) HasSpell() bool {
	return b.This != nil && len(b.This.Spell) > 0
}

// HasBasePrice reports whether the record's own block carries a base price,
// which marks it as a treasure.
func (b AttributeBlocks) HasBasePrice() bool {
	return b.This != nil && len(b.This.BasePrice) > 0
}

// Catalog maps canonical item name to its record. It is built once by Load
// and read-only afterwards; rebuild by loading again.
type Catalog map[string]*ItemRecord

// Find returns the record for name, or false if the catalog has no entry.
func (c Catalog) Find(name string) (*ItemRecord, bool) {
	rec, ok := c[name]
	return rec, ok
}
