package character

//go:generate mockgen -destination=mock/mock_service.go -package=mockcharacter -source=service.go

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/character"
	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/rulebook/symbaroum/calculators"
	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/shared"
	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
	"github.com/KirkDiggler/symbaroum-vtt/internal/events"
	"github.com/KirkDiggler/symbaroum-vtt/internal/repositories/characters"
	"github.com/KirkDiggler/symbaroum-vtt/internal/sheetstate"
	"github.com/KirkDiggler/symbaroum-vtt/internal/uuid"
)

// Repository is an alias for the character repository interface
type Repository = characters.Repository

// Service defines the character service interface
type Service interface {
	// Create stores a new character with a defaulted sheet unless one is given
	Create(ctx context.Context, input *CreateInput) (*Sheet, error)

	// Get loads a character together with its derived stats
	Get(ctx context.Context, id string) (*Sheet, error)

	// ListByOwner lists every character an owner controls
	ListByOwner(ctx context.Context, ownerID string) ([]*Sheet, error)

	// ListByCampaign lists every character and NPC in a campaign
	ListByCampaign(ctx context.Context, campaignID string) ([]*Sheet, error)

	// UpdateSheet applies sheet actions atomically, recomputes derived stats and saves
	UpdateSheet(ctx context.Context, id string, actions ...sheetstate.Action) (*Sheet, error)

	// Delete removes a character
	Delete(ctx context.Context, id string) error

	// CalculateDerived computes derived stats for an unsaved sheet
	CalculateDerived(data *character.SheetData) *character.DerivedStats
}

// Sheet is a character as shown to a player: authored data plus derived stats
type Sheet struct {
	Character *character.Character    `json:"character"`
	Derived   *character.DerivedStats `json:"derived"`
	Version   int                     `json:"version"`
}

// CreateInput contains data for creating a character
type CreateInput struct {
	OwnerID    string
	CampaignID string
	Name       string
	Kind       shared.CharacterKind // Optional, defaults to player
	Sheet      *character.SheetData // Optional, defaults to character.NewDefaultSheet
}

type service struct {
	repository    Repository
	calculator    character.DerivedStatsCalculator
	uuidGenerator uuid.Generator
	bus           *events.Bus

	// one lock per character so concurrent edits of a sheet serialize
	locks sync.Map
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository    Repository                       // Required
	Calculator    character.DerivedStatsCalculator // Optional, defaults to the Symbaroum calculator
	UUIDGenerator uuid.Generator                   // Optional, will use default if nil
	EventBus      *events.Bus                      // Optional, no events when nil
}

// NewService creates a new character service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("repository is required")
	}

	svc := &service{
		repository:    cfg.Repository,
		calculator:    cfg.Calculator,
		uuidGenerator: cfg.UUIDGenerator,
		bus:           cfg.EventBus,
	}

	if svc.calculator == nil {
		svc.calculator = calculators.NewSymbaroumCalculator()
	}
	if svc.uuidGenerator == nil {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}

	return svc
}

// Create stores a new character
func (s *service) Create(ctx context.Context, input *CreateInput) (*Sheet, error) {
	if input == nil {
		return nil, vtterr.InvalidArgument("input cannot be nil")
	}

	name := strings.TrimSpace(input.Name)
	switch {
	case input.OwnerID == "":
		return nil, vtterr.InvalidArgument("owner ID is required")
	case input.CampaignID == "":
		return nil, vtterr.InvalidArgument("campaign ID is required")
	case name == "":
		return nil, vtterr.Validation("character name is required")
	}

	kind := input.Kind
	switch kind {
	case "":
		kind = shared.CharacterKindPlayer
	case shared.CharacterKindPlayer, shared.CharacterKindNPC:
	default:
		return nil, vtterr.Validationf("unknown character kind %q", kind)
	}

	sheet := input.Sheet.Clone()
	if sheet == nil {
		sheet = character.NewDefaultSheet()
	}

	char := &character.Character{
		ID:         s.uuidGenerator.New(),
		OwnerID:    input.OwnerID,
		CampaignID: input.CampaignID,
		Name:       name,
		Kind:       kind,
		Sheet:      sheet,
	}

	if err := s.repository.Create(ctx, char); err != nil {
		return nil, vtterr.Wrap(err, "failed to create character")
	}

	log.Printf("Character: created %s (%s) for owner %s in campaign %s", char.ID, char.Name, char.OwnerID, char.CampaignID)

	return s.toSheet(char, 0), nil
}

// Get loads a character with derived stats
func (s *service) Get(ctx context.Context, id string) (*Sheet, error) {
	if id == "" {
		return nil, vtterr.InvalidArgument("character ID is required")
	}

	char, err := s.repository.Get(ctx, id)
	if err != nil {
		return nil, vtterr.Wrapf(err, "failed to get character '%s'", id)
	}
	return s.toSheet(char, 0), nil
}

// ListByOwner lists an owner's characters
func (s *service) ListByOwner(ctx context.Context, ownerID string) ([]*Sheet, error) {
	if ownerID == "" {
		return nil, vtterr.InvalidArgument("owner ID is required")
	}

	chars, err := s.repository.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, vtterr.Wrapf(err, "failed to list characters for owner '%s'", ownerID)
	}
	return s.toSheets(chars), nil
}

// ListByCampaign lists a campaign's characters
func (s *service) ListByCampaign(ctx context.Context, campaignID string) ([]*Sheet, error) {
	if campaignID == "" {
		return nil, vtterr.InvalidArgument("campaign ID is required")
	}

	chars, err := s.repository.GetByCampaign(ctx, campaignID)
	if err != nil {
		return nil, vtterr.Wrapf(err, "failed to list characters for campaign '%s'", campaignID)
	}
	return s.toSheets(chars), nil
}

// UpdateSheet runs the actions through a sheet store seeded from the saved
// character. A failing action leaves the saved sheet untouched.
func (s *service) UpdateSheet(ctx context.Context, id string, actions ...sheetstate.Action) (*Sheet, error) {
	if id == "" {
		return nil, vtterr.InvalidArgument("character ID is required")
	}
	if len(actions) == 0 {
		return nil, vtterr.Validation("at least one action is required")
	}

	unlock := s.lock(id)
	defer unlock()

	char, err := s.repository.Get(ctx, id)
	if err != nil {
		return nil, vtterr.Wrapf(err, "failed to get character '%s'", id)
	}

	store := sheetstate.NewStore(char.Sheet, s.calculator)
	state, err := store.Dispatch(actions...)
	if err != nil {
		return nil, err
	}
	if !state.Dirty {
		return s.toSheet(char, state.Version), nil
	}

	state, _ = store.Dispatch(sheetstate.MarkSaving{})

	updated := char.Clone()
	updated.Sheet = state.Data.Clone()
	saveErr := s.repository.Update(ctx, updated)

	state, _ = store.Dispatch(sheetstate.MarkSaved{Version: state.Version, Err: saveErr})
	if saveErr != nil {
		log.Printf("Character: failed to save sheet %s at version %d: %s", id, state.Version, state.LastError)
		return nil, vtterr.Wrapf(saveErr, "failed to save character '%s'", id)
	}

	s.emit(events.NewSheetUpdatedEvent(updated.CampaignID, updated.ID, state.Version, state.Derived))

	return &Sheet{
		Character: updated,
		Derived:   state.Derived,
		Version:   state.Version,
	}, nil
}

// Delete removes a character
func (s *service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return vtterr.InvalidArgument("character ID is required")
	}

	unlock := s.lock(id)
	defer unlock()

	char, err := s.repository.Get(ctx, id)
	if err != nil {
		return vtterr.Wrapf(err, "failed to get character '%s'", id)
	}

	if err := s.repository.Delete(ctx, id); err != nil {
		return vtterr.Wrapf(err, "failed to delete character '%s'", id)
	}

	log.Printf("Character: deleted %s from campaign %s", id, char.CampaignID)
	s.emit(events.NewCharacterDeletedEvent(char.CampaignID, id))
	return nil
}

// CalculateDerived computes derived stats without touching storage
func (s *service) CalculateDerived(data *character.SheetData) *character.DerivedStats {
	return s.calculator.Calculate(data)
}

func (s *service) toSheet(char *character.Character, version int) *Sheet {
	return &Sheet{
		Character: char,
		Derived:   s.calculator.Calculate(char.Sheet),
		Version:   version,
	}
}

func (s *service) toSheets(chars []*character.Character) []*Sheet {
	result := make([]*Sheet, 0, len(chars))
	for _, char := range chars {
		result = append(result, s.toSheet(char, 0))
	}
	return result
}

func (s *service) lock(id string) func() {
	value, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *service) emit(event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(event); err != nil {
		log.Printf("Character: event %s failed: %v", event.GetType(), err)
	}
}
