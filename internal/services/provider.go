package services

import (
	"time"

	"github.com/KirkDiggler/symbaroum-vtt/internal/dice"
	"github.com/KirkDiggler/symbaroum-vtt/internal/events"
	"github.com/KirkDiggler/symbaroum-vtt/internal/relay"
	"github.com/KirkDiggler/symbaroum-vtt/internal/repositories/characters"
	"github.com/KirkDiggler/symbaroum-vtt/internal/repositories/chat"
	characterService "github.com/KirkDiggler/symbaroum-vtt/internal/services/character"
	rollService "github.com/KirkDiggler/symbaroum-vtt/internal/services/roll"
	"github.com/KirkDiggler/symbaroum-vtt/internal/uuid"
)

// Provider holds all service instances
type Provider struct {
	CharacterService characterService.Service
	RollService      rollService.Service
	EventBus         *events.Bus
	RollRelay        *relay.RollListener
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	CharacterRepository characters.Repository
	ChatRepository      chat.Repository
	Relay               relay.Relay
	Roller              dice.Roller
	UUIDGenerator       uuid.Generator
	ChatMaxMessages     int
	RelayTimeout        time.Duration
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	// Use in-memory repositories if none provided
	charRepo := cfg.CharacterRepository
	if charRepo == nil {
		charRepo = characters.NewInMemoryRepository()
	}

	chatRepo := cfg.ChatRepository
	if chatRepo == nil {
		chatRepo = chat.NewInMemoryRepository(cfg.ChatMaxMessages)
	}

	out := cfg.Relay
	if out == nil {
		out = relay.NewNoop()
	}

	bus := events.NewBus()
	rollRelay := relay.NewRollListener(out, cfg.RelayTimeout)
	rollRelay.Subscribe(bus)

	charService := characterService.NewService(&characterService.ServiceConfig{
		Repository:    charRepo,
		UUIDGenerator: cfg.UUIDGenerator,
		EventBus:      bus,
	})

	rolls := rollService.NewService(&rollService.ServiceConfig{
		Roller:           cfg.Roller,
		ChatRepository:   chatRepo,
		CharacterService: charService,
		UUIDGenerator:    cfg.UUIDGenerator,
		EventBus:         bus,
	})

	return &Provider{
		CharacterService: charService,
		RollService:      rolls,
		EventBus:         bus,
		RollRelay:        rollRelay,
	}
}
