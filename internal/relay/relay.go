package relay

//go:generate mockgen -destination=mock/mock.go -package=mockrelay -source=relay.go

import (
	"context"

	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
	"golang.org/x/sync/errgroup"
)

// Post is a finished chat line mirrored to an outside channel
type Post struct {
	CampaignID string
	Username   string
	Content    string
}

// Relay forwards posts to an external chat
type Relay interface {
	Post(ctx context.Context, post *Post) error
}

type noopRelay struct{}

// NewNoop returns a relay that drops every post
func NewNoop() Relay {
	return noopRelay{}
}

func (noopRelay) Post(ctx context.Context, post *Post) error {
	return nil
}

type multiRelay struct {
	targets []Relay
}

// NewMulti fans each post out to every target concurrently. With no targets
// it behaves like NewNoop.
func NewMulti(targets ...Relay) Relay {
	if len(targets) == 0 {
		return NewNoop()
	}
	if len(targets) == 1 {
		return targets[0]
	}
	return &multiRelay{targets: targets}
}

// Post delivers to all targets and returns the first failure
func (m *multiRelay) Post(ctx context.Context, post *Post) error {
	if post == nil {
		return vtterr.InvalidArgument("post cannot be nil")
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, target := range m.targets {
		g.Go(func() error {
			return target.Post(gctx, post)
		})
	}
	return g.Wait()
}
