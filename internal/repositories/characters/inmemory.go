package characters

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/symbaroum-vtt/internal/clock"
	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/character"
	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
)

// InMemoryRepository is an in-memory implementation of the character repository
// Useful for testing and development
type InMemoryRepository struct {
	mu         sync.RWMutex
	characters map[string]*character.Character
	clock      clock.TimeProvider
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() Repository {
	return &InMemoryRepository{
		characters: make(map[string]*character.Character),
		clock:      clock.System(),
	}
}

// Create stores a new character
func (r *InMemoryRepository) Create(ctx context.Context, char *character.Character) error {
	if err := validateForWrite(char); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[char.ID]; exists {
		return vtterr.AlreadyExistsf("character with ID '%s' already exists", char.ID).
			WithMeta("character_id", char.ID)
	}

	stored := char.Clone()
	stored.CreatedAt = r.clock.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.characters[char.ID] = stored

	char.CreatedAt = stored.CreatedAt
	char.UpdatedAt = stored.UpdatedAt
	return nil
}

// Get retrieves a character by ID
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, vtterr.InvalidArgument("character ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	char, exists := r.characters[id]
	if !exists {
		return nil, vtterr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}

	return char.Clone(), nil
}

// GetByOwner retrieves all characters for a specific owner
func (r *InMemoryRepository) GetByOwner(ctx context.Context, ownerID string) ([]*character.Character, error) {
	if ownerID == "" {
		return nil, vtterr.InvalidArgument("owner ID is required")
	}
	return r.filter(func(c *character.Character) bool { return c.OwnerID == ownerID }), nil
}

// GetByCampaign retrieves all characters in a campaign
func (r *InMemoryRepository) GetByCampaign(ctx context.Context, campaignID string) ([]*character.Character, error) {
	if campaignID == "" {
		return nil, vtterr.InvalidArgument("campaign ID is required")
	}
	return r.filter(func(c *character.Character) bool { return c.CampaignID == campaignID }), nil
}

// Update updates an existing character
func (r *InMemoryRepository) Update(ctx context.Context, char *character.Character) error {
	if err := validateForWrite(char); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.characters[char.ID]
	if !exists {
		return vtterr.NotFoundf("character with ID '%s' not found", char.ID).
			WithMeta("character_id", char.ID)
	}

	stored := char.Clone()
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = r.clock.Now()
	r.characters[char.ID] = stored

	char.CreatedAt = stored.CreatedAt
	char.UpdatedAt = stored.UpdatedAt
	return nil
}

// Delete removes a character
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return vtterr.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[id]; !exists {
		return vtterr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}
	delete(r.characters, id)
	return nil
}

// filter returns copies of matching characters ordered by name then ID
func (r *InMemoryRepository) filter(match func(*character.Character) bool) []*character.Character {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*character.Character, 0)
	for _, char := range r.characters {
		if match(char) {
			result = append(result, char.Clone())
		}
	}
	sortCharacters(result)
	return result
}

func sortCharacters(chars []*character.Character) {
	sort.Slice(chars, func(i, j int) bool {
		if chars[i].Name != chars[j].Name {
			return chars[i].Name < chars[j].Name
		}
		return chars[i].ID < chars[j].ID
	})
}
