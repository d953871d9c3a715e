package progress

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/lightningnetwork/lnd/queue"
)

// ErrCoordinatorStopped is returned when subscribing to a stopped
// coordinator.
var ErrCoordinatorStopped = errors.New("progress coordinator stopped")

// Subscription delivers a State snapshot after every change of the
// coordinator's record. Updates are buffered without bound, so a slow
// reader never blocks the workers.
type Subscription struct {
	id      uint64
	c       *Coordinator
	queue   *queue.ConcurrentQueue
	updates chan State

	stopOnce sync.Once
	quit     chan struct{}
	wg       sync.WaitGroup
}

// Updates returns the channel on which snapshots are delivered.
func (s *Subscription) Updates() <-chan State {
	return s.updates
}

// Quit is closed when the subscription stops delivering updates, either
// because it was cancelled or because the coordinator stopped.
func (s *Subscription) Quit() <-chan struct{} {
	return s.quit
}

// Cancel detaches the subscription from the coordinator.
func (s *Subscription) Cancel() {
	s.c.subMtx.Lock()
	delete(s.c.subscribers, s.id)
	s.c.subMtx.Unlock()

	s.stop()
}

func (s *Subscription) stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
		s.wg.Wait()
		s.queue.Stop()
	})
}

// forward moves snapshots from the unbounded queue onto the typed updates
// channel.
//
// NOTE: MUST be run as a goroutine.
func (s *Subscription) forward() {
	defer s.wg.Done()

	for {
		select {
		case item := <-s.queue.ChanOut():
			state, ok := item.(State)
			if !ok {
				continue
			}

			select {
			case s.updates <- state:
			case <-s.quit:
				return
			}

		case <-s.quit:
			return
		}
	}
}

// Subscribe registers a new observer. The current snapshot is delivered
// first.
func (c *Coordinator) Subscribe() (*Subscription, error) {
	if atomic.LoadUint32(&c.stopped) == 1 {
		return nil, ErrCoordinatorStopped
	}

	sub := &Subscription{
		c:       c,
		queue:   queue.NewConcurrentQueue(c.queueSize),
		updates: make(chan State),
		quit:    make(chan struct{}),
	}
	sub.queue.Start()

	sub.wg.Add(1)
	go sub.forward()

	c.subMtx.Lock()
	if atomic.LoadUint32(&c.stopped) == 1 {
		c.subMtx.Unlock()
		sub.stop()
		return nil, ErrCoordinatorStopped
	}
	c.subCounter++
	sub.id = c.subCounter
	c.subscribers[sub.id] = sub
	sub.queue.ChanIn() <- c.Snapshot()
	c.subMtx.Unlock()

	return sub, nil
}

// notify sends the current snapshot to every subscriber.
func (c *Coordinator) notify() {
	c.subMtx.Lock()
	defer c.subMtx.Unlock()

	if len(c.subscribers) == 0 {
		return
	}

	state := c.Snapshot()
	for _, sub := range c.subscribers {
		select {
		case sub.queue.ChanIn() <- state:
		case <-sub.quit:
		}
	}
}
