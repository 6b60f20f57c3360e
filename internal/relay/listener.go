package relay

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/KirkDiggler/symbaroum-vtt/internal/events"
)

// DefaultPostTimeout bounds each relayed post
const DefaultPostTimeout = 10 * time.Second

// RollListener mirrors completed rolls to a Relay. Delivery happens off the
// emitting goroutine and failures are only logged, so a dead webhook never
// affects the chat log.
type RollListener struct {
	relay   Relay
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewRollListener creates a listener posting to r
func NewRollListener(r Relay, timeout time.Duration) *RollListener {
	if timeout <= 0 {
		timeout = DefaultPostTimeout
	}
	return &RollListener{relay: r, timeout: timeout}
}

// Subscribe registers the listener for roll events on bus
func (l *RollListener) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeRollCompleted, l)
}

// HandleEvent implements events.EventListener
func (l *RollListener) HandleEvent(event events.Event) error {
	roll, ok := event.(*events.RollCompletedEvent)
	if !ok || roll.Content == "" {
		return nil
	}

	post := &Post{
		CampaignID: roll.GetCampaignID(),
		Username:   roll.AuthorName,
		Content:    roll.Content,
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()

		if err := l.relay.Post(ctx, post); err != nil {
			log.Printf("Relay: failed to post roll %s for campaign %s: %v", roll.MessageID, post.CampaignID, err)
		}
	}()
	return nil
}

// Priority runs the relay after in-process listeners
func (l *RollListener) Priority() int { return 100 }

// ID implements events.EventListener
func (l *RollListener) ID() string { return "relay.roll_listener" }

// Wait blocks until every in-flight post has finished
func (l *RollListener) Wait() {
	l.wg.Wait()
}
