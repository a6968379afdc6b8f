package store

import (
	"context"
	"sync"

	"github.com/nhle/tpq-attendance/internal/model"
)

// broadcaster fans a change signal out to subscribers. Signals coalesce:
// a subscriber that has not consumed the previous one sees a single pending
// signal.
type broadcaster struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[chan struct{}]struct{})}
}

func (b *broadcaster) subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *broadcaster) unsubscribe(ch chan struct{}) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

func (b *broadcaster) notify() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// WatchStudents emits the current student list immediately and again after
// every change to the students table made through this store. The channel
// is closed when ctx is done.
func (s *SQLiteStore) WatchStudents(ctx context.Context) <-chan []model.Student {
	out := make(chan []model.Student)
	sig := s.changes.subscribe()
	sig <- struct{}{}

	go func() {
		defer close(out)
		defer s.changes.unsubscribe(sig)

		for {
			select {
			case <-ctx.Done():
				return
			case <-sig:
			}

			students, err := s.ListStudents(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.log.Error("watch students", "err", err)
				continue
			}

			select {
			case out <- students:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
