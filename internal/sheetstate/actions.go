package sheetstate

import (
	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/character"
	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/shared"
	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
)

// Action is anything Reduce understands
type Action interface {
	ActionType() string
}

// SheetAction edits sheet data. Apply receives a private copy it may mutate.
type SheetAction interface {
	Action
	Apply(data *character.SheetData) error
}

const (
	TypeSetAttribute        = "set_attribute"
	TypeSetDefenseAttribute = "set_defense_attribute"
	TypeAddItem             = "add_item"
	TypeRemoveItem          = "remove_item"
	TypeEquipItem           = "equip_item"
	TypeCarryItem           = "carry_item"
	TypeAddTrait            = "add_trait"
	TypeRemoveTrait         = "remove_trait"
	TypeSetToughness        = "set_toughness"
	TypeTakeDamage          = "take_damage"
	TypeSetCorruption       = "set_corruption"
	TypeAddExperience       = "add_experience"
	TypeSpendExperience     = "spend_experience"
	TypeSetNotes            = "set_notes"
	TypeReplaceSheet        = "replace_sheet"
	TypeMarkSaving          = "mark_saving"
	TypeMarkSaved           = "mark_saved"
)

type SetAttribute struct {
	Attribute shared.Attribute `json:"attribute"`
	Value     int              `json:"value"`
}

func (SetAttribute) ActionType() string { return TypeSetAttribute }

func (a SetAttribute) Apply(data *character.SheetData) error {
	if !a.Attribute.Valid() {
		return vtterr.Validationf("unknown attribute %q", a.Attribute)
	}
	if data.Attributes == nil {
		data.Attributes = make(map[shared.Attribute]int)
	}
	data.Attributes[a.Attribute] = a.Value
	return nil
}

type SetDefenseAttribute struct {
	Attribute shared.Attribute `json:"attribute"`
}

func (SetDefenseAttribute) ActionType() string { return TypeSetDefenseAttribute }

func (a SetDefenseAttribute) Apply(data *character.SheetData) error {
	if !a.Attribute.Valid() {
		return vtterr.Validationf("unknown attribute %q", a.Attribute)
	}
	data.DefenseAttribute = a.Attribute
	return nil
}

type AddItem struct {
	Item character.Item `json:"item"`
}

func (AddItem) ActionType() string { return TypeAddItem }

func (a AddItem) Apply(data *character.SheetData) error {
	if a.Item.ID == "" {
		return vtterr.Validation("item ID is required")
	}
	if data.ItemIndex(a.Item.ID) >= 0 {
		return vtterr.Validationf("item %s is already on the sheet", a.Item.ID)
	}
	if a.Item.Kind == "" {
		a.Item.Kind = shared.ItemKindGear
	}
	if a.Item.Quantity < 1 {
		a.Item.Quantity = 1
	}
	item := a.Item
	item.Modifiers = append([]character.Modifier(nil), a.Item.Modifiers...)
	data.Equipment = append(data.Equipment, item)
	return nil
}

type RemoveItem struct {
	ItemID string `json:"item_id"`
}

func (RemoveItem) ActionType() string { return TypeRemoveItem }

func (a RemoveItem) Apply(data *character.SheetData) error {
	idx := data.ItemIndex(a.ItemID)
	if idx < 0 {
		return vtterr.Validationf("item %s is not on the sheet", a.ItemID)
	}
	data.Equipment = append(data.Equipment[:idx], data.Equipment[idx+1:]...)
	return nil
}

type EquipItem struct {
	ItemID   string `json:"item_id"`
	Equipped bool   `json:"equipped"`
}

func (EquipItem) ActionType() string { return TypeEquipItem }

func (a EquipItem) Apply(data *character.SheetData) error {
	idx := data.ItemIndex(a.ItemID)
	if idx < 0 {
		return vtterr.Validationf("item %s is not on the sheet", a.ItemID)
	}
	data.Equipment[idx].Equipped = a.Equipped
	return nil
}

type CarryItem struct {
	ItemID  string `json:"item_id"`
	Carried bool   `json:"carried"`
}

func (CarryItem) ActionType() string { return TypeCarryItem }

func (a CarryItem) Apply(data *character.SheetData) error {
	idx := data.ItemIndex(a.ItemID)
	if idx < 0 {
		return vtterr.Validationf("item %s is not on the sheet", a.ItemID)
	}
	data.Equipment[idx].Carried = a.Carried
	return nil
}

type AddTrait struct {
	Trait character.Trait `json:"trait"`
}

func (AddTrait) ActionType() string { return TypeAddTrait }

func (a AddTrait) Apply(data *character.SheetData) error {
	if a.Trait.Name == "" {
		return vtterr.Validation("trait name is required")
	}
	for _, t := range data.Traits {
		if t.Name == a.Trait.Name {
			return vtterr.Validationf("trait %s is already on the sheet", a.Trait.Name)
		}
	}
	trait := a.Trait
	trait.Modifiers = append([]character.Modifier(nil), a.Trait.Modifiers...)
	data.Traits = append(data.Traits, trait)
	return nil
}

type RemoveTrait struct {
	Name string `json:"name"`
}

func (RemoveTrait) ActionType() string { return TypeRemoveTrait }

func (a RemoveTrait) Apply(data *character.SheetData) error {
	for i, t := range data.Traits {
		if t.Name == a.Name {
			data.Traits = append(data.Traits[:i], data.Traits[i+1:]...)
			return nil
		}
	}
	return vtterr.Validationf("trait %s is not on the sheet", a.Name)
}

type SetToughness struct {
	Value int `json:"value"`
}

func (SetToughness) ActionType() string { return TypeSetToughness }

func (a SetToughness) Apply(data *character.SheetData) error {
	data.Toughness = a.Value
	return nil
}

// TakeDamage lowers current toughness relative to the saved value, so
// overlapping hits on one character all land
type TakeDamage struct {
	Amount int `json:"amount"`
}

func (TakeDamage) ActionType() string { return TypeTakeDamage }

func (a TakeDamage) Apply(data *character.SheetData) error {
	if a.Amount < 0 {
		return vtterr.Validation("damage cannot be negative")
	}
	data.Toughness -= a.Amount
	return nil
}

type SetCorruption struct {
	Permanent int `json:"permanent"`
	Temporary int `json:"temporary"`
}

func (SetCorruption) ActionType() string { return TypeSetCorruption }

func (a SetCorruption) Apply(data *character.SheetData) error {
	if a.Permanent < 0 || a.Temporary < 0 {
		return vtterr.Validation("corruption cannot be negative")
	}
	data.Corruption = character.Corruption{Permanent: a.Permanent, Temporary: a.Temporary}
	return nil
}

type AddExperience struct {
	Amount int `json:"amount"`
}

func (AddExperience) ActionType() string { return TypeAddExperience }

func (a AddExperience) Apply(data *character.SheetData) error {
	if a.Amount <= 0 {
		return vtterr.Validation("experience award must be positive")
	}
	data.Experience.Total += a.Amount
	return nil
}

type SpendExperience struct {
	Amount int `json:"amount"`
}

func (SpendExperience) ActionType() string { return TypeSpendExperience }

func (a SpendExperience) Apply(data *character.SheetData) error {
	if a.Amount <= 0 {
		return vtterr.Validation("experience spent must be positive")
	}
	if unspent := data.Experience.Total - data.Experience.Spent; a.Amount > unspent {
		return vtterr.Validationf("cannot spend %d experience, only %d unspent", a.Amount, unspent)
	}
	data.Experience.Spent += a.Amount
	return nil
}

type SetNotes struct {
	Notes string `json:"notes"`
}

func (SetNotes) ActionType() string { return TypeSetNotes }

func (a SetNotes) Apply(data *character.SheetData) error {
	data.Notes = a.Notes
	return nil
}

// ReplaceSheet swaps in a whole sheet, e.g. after an import
type ReplaceSheet struct {
	Data *character.SheetData `json:"data"`
}

func (ReplaceSheet) ActionType() string { return TypeReplaceSheet }

func (a ReplaceSheet) Apply(data *character.SheetData) error {
	if a.Data == nil {
		return vtterr.Validation("replacement sheet is required")
	}
	*data = *a.Data.Clone()
	return nil
}

// MarkSaving flags that a save of the current version is in flight
type MarkSaving struct{}

func (MarkSaving) ActionType() string { return TypeMarkSaving }

// MarkSaved records the outcome of saving Version. Dirty only clears when no
// edit landed while the save was in flight.
type MarkSaved struct {
	Version int
	Err     error
}

func (MarkSaved) ActionType() string { return TypeMarkSaved }

func unknownAction(action Action) error {
	if action == nil {
		return vtterr.InvalidArgument("action cannot be nil")
	}
	return vtterr.InvalidArgumentf("unsupported action %q", action.ActionType())
}
