package events

import (
	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/character"
)

// EventType represents the type of table event
type EventType string

const (
	EventTypeRollCompleted    EventType = "roll_completed"
	EventTypeSheetUpdated     EventType = "sheet_updated"
	EventTypeCharacterDeleted EventType = "character_deleted"
)

// RollKind tells listeners which kind of roll produced a RollCompletedEvent
type RollKind string

const (
	RollKindFormula       RollKind = "formula"
	RollKindAttributeTest RollKind = "attribute_test"
	RollKindDamage        RollKind = "damage"
)

// Event is the base interface for all events
type Event interface {
	GetType() EventType
	GetCampaignID() string
	IsCancelled() bool
	Cancel()
}

// BaseEvent provides common implementation for all events
type BaseEvent struct {
	Type       EventType
	CampaignID string
	Cancelled  bool
}

func (e *BaseEvent) GetType() EventType    { return e.Type }
func (e *BaseEvent) GetCampaignID() string { return e.CampaignID }
func (e *BaseEvent) IsCancelled() bool     { return e.Cancelled }
func (e *BaseEvent) Cancel()               { e.Cancelled = true }

// RollCompletedEvent fires after a roll has been written to the chat log
type RollCompletedEvent struct {
	BaseEvent
	Kind        RollKind
	MessageID   string
	AuthorID    string
	AuthorName  string
	CharacterID string
	Content     string
	Total       int
}

// NewRollCompletedEvent creates a roll completed event for a campaign
func NewRollCompletedEvent(campaignID string, kind RollKind) *RollCompletedEvent {
	return &RollCompletedEvent{
		BaseEvent: BaseEvent{Type: EventTypeRollCompleted, CampaignID: campaignID},
		Kind:      kind,
	}
}

// SheetUpdatedEvent fires after a sheet edit was saved
type SheetUpdatedEvent struct {
	BaseEvent
	CharacterID string
	Version     int
	Derived     *character.DerivedStats
}

// NewSheetUpdatedEvent creates a sheet updated event
func NewSheetUpdatedEvent(campaignID, characterID string, version int, derived *character.DerivedStats) *SheetUpdatedEvent {
	return &SheetUpdatedEvent{
		BaseEvent:   BaseEvent{Type: EventTypeSheetUpdated, CampaignID: campaignID},
		CharacterID: characterID,
		Version:     version,
		Derived:     derived,
	}
}

// CharacterDeletedEvent fires after a character was removed
type CharacterDeletedEvent struct {
	BaseEvent
	CharacterID string
}

// NewCharacterDeletedEvent creates a character deleted event
func NewCharacterDeletedEvent(campaignID, characterID string) *CharacterDeletedEvent {
	return &CharacterDeletedEvent{
		BaseEvent:   BaseEvent{Type: EventTypeCharacterDeleted, CampaignID: campaignID},
		CharacterID: characterID,
	}
}
