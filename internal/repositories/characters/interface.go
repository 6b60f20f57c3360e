package characters

//go:generate mockgen -destination=mock/mock.go -package=mockcharacters -source=interface.go

import (
	"context"

	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/character"
	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
)

// Repository defines the interface for character persistence
type Repository interface {
	// Create stores a new character
	Create(ctx context.Context, char *character.Character) error

	// Get retrieves a character by ID
	Get(ctx context.Context, id string) (*character.Character, error)

	// GetByOwner retrieves all characters for a specific owner
	GetByOwner(ctx context.Context, ownerID string) ([]*character.Character, error)

	// GetByCampaign retrieves all characters and NPCs in a campaign
	GetByCampaign(ctx context.Context, campaignID string) ([]*character.Character, error)

	// Update updates an existing character
	Update(ctx context.Context, char *character.Character) error

	// Delete removes a character
	Delete(ctx context.Context, id string) error
}

func validateForWrite(char *character.Character) error {
	switch {
	case char == nil:
		return vtterr.InvalidArgument("character cannot be nil")
	case char.ID == "":
		return vtterr.InvalidArgument("character ID is required")
	case char.OwnerID == "":
		return vtterr.InvalidArgument("character owner ID is required")
	case char.CampaignID == "":
		return vtterr.InvalidArgument("character campaign ID is required")
	}
	return nil
}
