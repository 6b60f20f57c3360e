package chat

import (
	"context"
	"sync"

	"github.com/KirkDiggler/symbaroum-vtt/internal/clock"
	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
)

// InMemoryRepository keeps chat logs in process memory
type InMemoryRepository struct {
	mu          sync.RWMutex
	logs        map[string][]*Message
	maxMessages int
	clock       clock.TimeProvider
}

// NewInMemoryRepository creates a new in-memory chat repository
func NewInMemoryRepository(maxMessages int) Repository {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	return &InMemoryRepository{
		logs:        make(map[string][]*Message),
		maxMessages: maxMessages,
		clock:       clock.System(),
	}
}

// Append adds a message and drops the oldest ones past the limit
func (r *InMemoryRepository) Append(ctx context.Context, msg *Message) error {
	if err := validateMessage(msg); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = r.clock.Now()
	}
	stored := *msg

	entries := append(r.logs[msg.CampaignID], &stored)
	if len(entries) > r.maxMessages {
		entries = append([]*Message(nil), entries[len(entries)-r.maxMessages:]...)
	}
	r.logs[msg.CampaignID] = entries
	return nil
}

// List returns the newest messages, oldest first
func (r *InMemoryRepository) List(ctx context.Context, campaignID string, limit int) ([]*Message, error) {
	if campaignID == "" {
		return nil, vtterr.InvalidArgument("campaign ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.logs[campaignID]
	start := 0
	if limit > 0 && limit < len(entries) {
		start = len(entries) - limit
	}

	result := make([]*Message, 0, len(entries)-start)
	for _, msg := range entries[start:] {
		msgCopy := *msg
		result = append(result, &msgCopy)
	}
	return result, nil
}
