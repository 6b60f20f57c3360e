package shared

// CharacterKind separates player characters from game-master NPCs
type CharacterKind string

const (
	CharacterKindPlayer CharacterKind = "player"
	CharacterKindNPC    CharacterKind = "npc"
)

// ItemKind drives how an item feeds the derived stats
type ItemKind string

const (
	ItemKindWeapon ItemKind = "weapon"
	ItemKindArmor  ItemKind = "armor"
	ItemKindShield ItemKind = "shield"
	ItemKindGear   ItemKind = "gear"
)
