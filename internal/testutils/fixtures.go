package testutils

import (
	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/character"
	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/shared"
)

// CreateTestSheet creates a warrior sheet with armor, a shield and one trait
func CreateTestSheet() *character.SheetData {
	sheet := character.NewDefaultSheet()
	sheet.Attributes[shared.AttributeStrong] = 15
	sheet.Attributes[shared.AttributeQuick] = 13
	sheet.Attributes[shared.AttributeAccurate] = 11
	sheet.Attributes[shared.AttributeResolute] = 9
	sheet.Attributes[shared.AttributeVigilant] = 7
	sheet.Attributes[shared.AttributePersuasive] = 5
	sheet.Toughness = 15
	sheet.Traits = []character.Trait{
		{
			Name:  "Robust",
			Level: "novice",
			Modifiers: []character.Modifier{
				{Stat: shared.StatToughness, Value: 1},
			},
		},
	}
	sheet.Equipment = []character.Item{
		{ID: "sword", Name: "Long sword", Kind: shared.ItemKindWeapon, Weight: 1, Quantity: 1, Equipped: true, Damage: "1d8"},
		{ID: "armor", Name: "Chain mail", Kind: shared.ItemKindArmor, Weight: 3, Quantity: 1, Equipped: true, Protection: "1d6", Impeding: 3},
		{ID: "shield", Name: "Shield", Kind: shared.ItemKindShield, Weight: 1, Quantity: 1, Equipped: true},
	}
	return sheet
}

// CreateTestCharacter creates a player character carrying the test sheet
func CreateTestCharacter(id, ownerID, campaignID, name string) *character.Character {
	return &character.Character{
		ID:         id,
		OwnerID:    ownerID,
		CampaignID: campaignID,
		Name:       name,
		Kind:       shared.CharacterKindPlayer,
		Sheet:      CreateTestSheet(),
	}
}
