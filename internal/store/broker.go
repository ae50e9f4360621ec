package store

import (
	"context"
	"errors"
	"sync"

	"github.com/sadopc/kiosk/internal/kiosk"
)

// subscriptionBuffer is how many undelivered events a subscriber may lag
// behind before further events for it are dropped.
const subscriptionBuffer = 32

var errClosed = errors.New("store closed")

// broker fans insert events out to the subscribers of their category.
type broker struct {
	mu     sync.Mutex
	subs   map[kiosk.Category]map[*subscription]struct{}
	closed bool
}

func newBroker() *broker {
	return &broker{subs: make(map[kiosk.Category]map[*subscription]struct{})}
}

type subscription struct {
	b    *broker
	cat  kiosk.Category
	ch   chan kiosk.InsertEvent
	done chan struct{}
	once sync.Once
}

func (s *subscription) Events() <-chan kiosk.InsertEvent { return s.ch }

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.b.mu.Lock()
		defer s.b.mu.Unlock()
		delete(s.b.subs[s.cat], s)
		close(s.ch)
		close(s.done)
	})
}

func (b *broker) subscribe(c kiosk.Category) (*subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, errClosed
	}
	sub := &subscription{b: b, cat: c, ch: make(chan kiosk.InsertEvent, subscriptionBuffer), done: make(chan struct{})}
	if b.subs[c] == nil {
		b.subs[c] = make(map[*subscription]struct{})
	}
	b.subs[c][sub] = struct{}{}
	return sub, nil
}

// publish never blocks; a subscriber with a full buffer misses the event.
func (b *broker) publish(ev kiosk.InsertEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs[ev.Category] {
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

func (b *broker) count(c kiosk.Category) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[c])
}

func (b *broker) closeAll() {
	b.mu.Lock()
	var all []*subscription
	for _, set := range b.subs {
		for sub := range set {
			all = append(all, sub)
		}
	}
	b.closed = true
	b.mu.Unlock()

	for _, sub := range all {
		sub.Unsubscribe()
	}
}

// SubscribeToInserts delivers an event for every record of category c
// created through this store. The subscription also ends when ctx is done.
func (s *Store) SubscribeToInserts(ctx context.Context, c kiosk.Category) (kiosk.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sub, err := s.broker.subscribe(c)
	if err != nil {
		return nil, kiosk.WrapBackend("subscribe", err)
	}
	if done := ctx.Done(); done != nil {
		go func() {
			select {
			case <-done:
				sub.Unsubscribe()
			case <-sub.done:
			}
		}()
	}
	return sub, nil
}
