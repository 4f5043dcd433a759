package realtime

import "sync"

// Subscription is a live-change handle scoped to one owner. It carries no
// payload: each signal on Changes means "this user's bookmarks changed,
// refetch". Close must be called on every exit path of the owning request;
// calling it more than once is safe.
type Subscription struct {
	changes chan struct{}
	stop    func() error

	once sync.Once
	err  error
}

// NewSubscription wraps a stop function into a Subscription. Brokers build
// these around their transport; tests build them around nothing.
func NewSubscription(stop func() error) *Subscription {
	return &Subscription{
		changes: make(chan struct{}, 1),
		stop:    stop,
	}
}

func (s *Subscription) Changes() <-chan struct{} {
	return s.changes
}

// Notify queues a change signal. Bursts coalesce into a single pending
// signal, which is enough because the receiver always refetches the full
// list.
func (s *Subscription) Notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

func (s *Subscription) Close() error {
	s.once.Do(func() {
		if s.stop != nil {
			s.err = s.stop()
		}
	})
	return s.err
}
