package directory

import (
	"log/slog"
	"sync"

	"github.com/andydlo/neighborhood-connect/internal/event"
	"github.com/andydlo/neighborhood-connect/internal/neighborhood"
	"github.com/andydlo/neighborhood-connect/internal/store"
)

// HomeView is one user's projected view of the directory.
type HomeView struct {
	Created   []neighborhood.Neighborhood
	Joined    []neighborhood.Neighborhood
	Attending []event.Event
	Available []event.Event
}

// ViewSubscription is a cancellable handle on a user's stream of home views.
// Only the latest view is buffered; a slow consumer skips straight to the
// current state.
type ViewSubscription struct {
	email  string
	ch     chan HomeView
	cancel func(*ViewSubscription)
	once   sync.Once
}

// Views returns the delivery channel. It is closed by Close.
func (s *ViewSubscription) Views() <-chan HomeView { return s.ch }

// Close unregisters the subscriber and closes the channel. Safe to call more
// than once.
func (s *ViewSubscription) Close() {
	s.once.Do(func() {
		s.cancel(s)
		close(s.ch)
	})
}

func (s *ViewSubscription) publish(view HomeView) {
	select {
	case s.ch <- view:
	default:
		select {
		case <-s.ch:
		default:
		}
		select {
		case s.ch <- view:
		default:
		}
	}
}

// Projector observes the group and event collections and recomputes every
// subscriber's home view from scratch on each change. Recomputation is
// push-driven only: no polling, no per-change deltas.
type Projector struct {
	index *Index

	mu   sync.Mutex
	subs map[*ViewSubscription]struct{}

	groupSub *store.Subscription
	eventSub *store.Subscription
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewProjector creates a projector over the given index.
func NewProjector(index *Index) *Projector {
	return &Projector{
		index: index,
		subs:  make(map[*ViewSubscription]struct{}),
	}
}

// Run registers observers on both collections and starts the projection
// loops. The store delivers an initial snapshot per collection, so the index
// is populated without an explicit priming read.
func (p *Projector) Run(st store.Store) {
	p.groupSub = st.Observe(neighborhood.Collection)
	p.eventSub = st.Observe(event.Collection)
	p.done = make(chan struct{})

	p.wg.Add(2)
	go p.loop(p.groupSub, p.index.SetGroups)
	go p.loop(p.eventSub, p.index.SetEvents)

	slog.Info("directory projector started")
}

// Stop cancels the store observers and waits for the loops to drain.
func (p *Projector) Stop() {
	if p.done == nil {
		return
	}
	close(p.done)
	p.groupSub.Close()
	p.eventSub.Close()
	p.wg.Wait()

	p.mu.Lock()
	subs := make([]*ViewSubscription, 0, len(p.subs))
	for sub := range p.subs {
		subs = append(subs, sub)
	}
	p.mu.Unlock()
	for _, sub := range subs {
		sub.Close()
	}
}

func (p *Projector) loop(sub *store.Subscription, apply func([]store.Snapshot)) {
	defer p.wg.Done()
	for {
		select {
		case snaps, ok := <-sub.Snapshots():
			if !ok {
				return
			}
			apply(snaps)
			p.broadcast()
		case <-p.done:
			return
		}
	}
}

// Subscribe registers a per-user view stream. The current view is delivered
// immediately; every subsequent directory change delivers a full recompute.
func (p *Projector) Subscribe(email string) *ViewSubscription {
	sub := &ViewSubscription{
		email:  email,
		ch:     make(chan HomeView, 1),
		cancel: p.unsubscribe,
	}

	p.mu.Lock()
	p.subs[sub] = struct{}{}
	sub.publish(p.View(email))
	p.mu.Unlock()

	return sub
}

func (p *Projector) unsubscribe(sub *ViewSubscription) {
	p.mu.Lock()
	delete(p.subs, sub)
	p.mu.Unlock()
}

// View computes the current home view for one user.
func (p *Projector) View(email string) HomeView {
	created, joined := p.index.PartitionGroups(email)
	attending, available := p.index.PartitionEvents(email)
	return HomeView{
		Created:   created,
		Joined:    joined,
		Attending: attending,
		Available: available,
	}
}

// broadcast recomputes and publishes every subscriber's view. Publishing
// happens under the subscriber lock so no publish can race a Close.
func (p *Projector) broadcast() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for sub := range p.subs {
		sub.publish(p.View(sub.email))
	}
}
