package character

import (
	"time"

	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/shared"
)

// Character is a player character or NPC together with its authored sheet.
// Derived values are never stored here; they are recomputed from Sheet.
type Character struct {
	ID         string               `json:"id"`
	OwnerID    string               `json:"owner_id"`
	CampaignID string               `json:"campaign_id"`
	Name       string               `json:"name"`
	Kind       shared.CharacterKind `json:"kind"`
	Sheet      *SheetData           `json:"sheet"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// Clone returns a deep copy of the character
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Sheet = c.Sheet.Clone()
	return &clone
}
