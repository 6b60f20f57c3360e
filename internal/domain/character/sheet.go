package character

import (
	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/shared"
)

const (
	// DefaultAttributeValue is what every attribute starts at on a new sheet
	DefaultAttributeValue = 10
	// DefaultToughness matches the toughness floor of a new character
	DefaultToughness = 10
)

// Modifier adjusts a single stat while its source (trait or equipped item) applies
type Modifier struct {
	Stat  shared.Stat `json:"stat"`
	Value int         `json:"value"`
}

// Trait is an ability, trait or boon that permanently modifies stats
type Trait struct {
	Name      string     `json:"name"`
	Level     string     `json:"level,omitempty"`
	Modifiers []Modifier `json:"modifiers,omitempty"`
}

// Item is a piece of equipment on the sheet. Only carried or equipped items
// count toward load; only equipped items apply their modifiers.
type Item struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Kind       shared.ItemKind `json:"kind"`
	Weight     float64         `json:"weight"`
	Quantity   int             `json:"quantity"`
	Equipped   bool            `json:"equipped"`
	Carried    bool            `json:"carried"`
	Damage     string          `json:"damage,omitempty"`
	Protection string          `json:"protection,omitempty"`
	Impeding   int             `json:"impeding,omitempty"`
	Modifiers  []Modifier      `json:"modifiers,omitempty"`
}

// Corruption tracks the two corruption pools
type Corruption struct {
	Permanent int `json:"permanent"`
	Temporary int `json:"temporary"`
}

// Experience tracks earned and spent experience
type Experience struct {
	Total int `json:"total"`
	Spent int `json:"spent"`
}

// SheetData is the raw, authored content of a character sheet
type SheetData struct {
	Attributes       map[shared.Attribute]int `json:"attributes"`
	DefenseAttribute shared.Attribute         `json:"defense_attribute,omitempty"`
	Traits           []Trait                  `json:"traits,omitempty"`
	Equipment        []Item                   `json:"equipment,omitempty"`
	Toughness        int                      `json:"toughness"`
	Corruption       Corruption               `json:"corruption"`
	Experience       Experience               `json:"experience"`
	Notes            string                   `json:"notes,omitempty"`
}

// NewDefaultSheet returns the sheet a character starts with
func NewDefaultSheet() *SheetData {
	attrs := make(map[shared.Attribute]int, len(shared.Attributes))
	for _, a := range shared.Attributes {
		attrs[a] = DefaultAttributeValue
	}
	return &SheetData{
		Attributes:       attrs,
		DefenseAttribute: shared.AttributeQuick,
		Toughness:        DefaultToughness,
	}
}

// Clone returns a deep copy so the result shares no slices or maps with s
func (s *SheetData) Clone() *SheetData {
	if s == nil {
		return nil
	}

	clone := *s
	if s.Attributes != nil {
		clone.Attributes = make(map[shared.Attribute]int, len(s.Attributes))
		for k, v := range s.Attributes {
			clone.Attributes[k] = v
		}
	}
	if s.Traits != nil {
		clone.Traits = make([]Trait, len(s.Traits))
		for i, t := range s.Traits {
			t.Modifiers = cloneModifiers(t.Modifiers)
			clone.Traits[i] = t
		}
	}
	if s.Equipment != nil {
		clone.Equipment = make([]Item, len(s.Equipment))
		for i, item := range s.Equipment {
			item.Modifiers = cloneModifiers(item.Modifiers)
			clone.Equipment[i] = item
		}
	}
	return &clone
}

// ItemIndex returns the position of the item with the given ID, or -1
func (s *SheetData) ItemIndex(id string) int {
	for i := range s.Equipment {
		if s.Equipment[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneModifiers(mods []Modifier) []Modifier {
	if mods == nil {
		return nil
	}
	out := make([]Modifier, len(mods))
	copy(out, mods)
	return out
}
