package sheetstate

import (
	"encoding/json"

	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
)

// decoders builds an empty action for each type that may arrive over the wire.
// Save bookkeeping actions are internal and deliberately absent.
var decoders = map[string]func() SheetAction{
	TypeSetAttribute:        func() SheetAction { return &SetAttribute{} },
	TypeSetDefenseAttribute: func() SheetAction { return &SetDefenseAttribute{} },
	TypeAddItem:             func() SheetAction { return &AddItem{} },
	TypeRemoveItem:          func() SheetAction { return &RemoveItem{} },
	TypeEquipItem:           func() SheetAction { return &EquipItem{} },
	TypeCarryItem:           func() SheetAction { return &CarryItem{} },
	TypeAddTrait:            func() SheetAction { return &AddTrait{} },
	TypeRemoveTrait:         func() SheetAction { return &RemoveTrait{} },
	TypeSetToughness:        func() SheetAction { return &SetToughness{} },
	TypeTakeDamage:          func() SheetAction { return &TakeDamage{} },
	TypeSetCorruption:       func() SheetAction { return &SetCorruption{} },
	TypeAddExperience:       func() SheetAction { return &AddExperience{} },
	TypeSpendExperience:     func() SheetAction { return &SpendExperience{} },
	TypeSetNotes:            func() SheetAction { return &SetNotes{} },
	TypeReplaceSheet:        func() SheetAction { return &ReplaceSheet{} },
}

// DecodeAction decodes a flat JSON action such as
//
//	{"type": "set_attribute", "attribute": "quick", "value": 13}
func DecodeAction(raw []byte) (SheetAction, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, vtterr.Validationf("malformed action: %v", err)
	}

	newAction, ok := decoders[envelope.Type]
	if !ok {
		return nil, vtterr.Validationf("unknown action type %q", envelope.Type)
	}

	action := newAction()
	if err := json.Unmarshal(raw, action); err != nil {
		return nil, vtterr.Validationf("malformed %s action: %v", envelope.Type, err)
	}
	return action, nil
}

// DecodeActions decodes a JSON array of actions, failing on the first bad one
func DecodeActions(raw []json.RawMessage) ([]Action, error) {
	actions := make([]Action, 0, len(raw))
	for i, r := range raw {
		action, err := DecodeAction(r)
		if err != nil {
			return nil, vtterr.Wrapf(err, "action %d", i)
		}
		actions = append(actions, action)
	}
	return actions, nil
}
