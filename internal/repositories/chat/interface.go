package chat

//go:generate mockgen -destination=mock/mock.go -package=mockchat -source=interface.go

import (
	"context"
	"time"

	"github.com/KirkDiggler/symbaroum-vtt/internal/dice"
	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
)

// DefaultMaxMessages bounds each campaign's chat log when no limit is configured
const DefaultMaxMessages = 500

// MessageKind separates free text from the different roll results
type MessageKind string

const (
	MessageKindText          MessageKind = "text"
	MessageKindRoll          MessageKind = "roll"
	MessageKindAttributeTest MessageKind = "attribute_test"
	MessageKindDamage        MessageKind = "damage"
)

// Message is one entry in a campaign's chat log
type Message struct {
	ID          string         `json:"id"`
	CampaignID  string         `json:"campaign_id"`
	AuthorID    string         `json:"author_id"`
	AuthorName  string         `json:"author_name,omitempty"`
	CharacterID string         `json:"character_id,omitempty"`
	Kind        MessageKind    `json:"kind"`
	Content     string         `json:"content"`
	Roll        *dice.DiceRoll `json:"roll,omitempty"`
	Total       *int           `json:"total,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Repository defines the interface for chat log persistence
type Repository interface {
	// Append adds a message to the end of its campaign's log
	Append(ctx context.Context, msg *Message) error

	// List returns up to limit of the newest messages, oldest first.
	// A limit of zero or less returns the whole retained log.
	List(ctx context.Context, campaignID string, limit int) ([]*Message, error)
}

func validateMessage(msg *Message) error {
	switch {
	case msg == nil:
		return vtterr.InvalidArgument("message cannot be nil")
	case msg.ID == "":
		return vtterr.InvalidArgument("message ID is required")
	case msg.CampaignID == "":
		return vtterr.InvalidArgument("message campaign ID is required")
	case msg.Kind == "":
		return vtterr.InvalidArgument("message kind is required")
	}
	return nil
}
