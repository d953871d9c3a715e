// Package progress coordinates the progress report of a parallel search:
// many workers advance a shared completion percentage and append messages
// while one presentation consumer observes the aggregate.
package progress

import (
	"fmt"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/queue"
)

// DefaultQueueSize is the initial buffer of the message and subscription
// queues. The queues grow beyond it as needed.
const DefaultQueueSize = 20

// infinity is reported as the speed when less than a second elapsed.
const infinity = "∞"

// Config holds the dependencies of a Coordinator.
type Config struct {
	// Clock measures the elapsed time of a run. Defaults to the wall
	// clock.
	Clock clock.Clock

	// QueueSize is the initial buffer of the message dispatch queue.
	QueueSize int
}

// Coordinator is the shared progress record of one search run. The
// percentage is guarded by its own lock so that workers only contend on a
// single addition. All methods are safe for concurrent use.
type Coordinator struct {
	clock clock.Clock

	// percentMtx guards percent and step.
	percentMtx sync.Mutex
	percent    float64
	step       float64

	found atomic.Bool

	// mu guards the fields written by the run orchestrator and the
	// message dispatcher.
	mu              sync.RWMutex
	status          Status
	message         strings.Builder
	progressVisible bool
	start           time.Time
	elapsed         time.Duration
	total           *big.Int

	messages *queue.ConcurrentQueue

	subMtx      sync.Mutex
	subCounter  uint64
	subscribers map[uint64]*Subscription
	queueSize   int

	stopped uint32 // To be used atomically.
	quit    chan struct{}
	wg      sync.WaitGroup
}

// New creates a coordinator in the Ready state and starts its message
// dispatcher. Stop must be called to release it.
func New(cfg Config) *Coordinator {
	if cfg.Clock == nil {
		cfg.Clock = clock.NewDefaultClock()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}

	c := &Coordinator{
		clock:       cfg.Clock,
		status:      Ready,
		messages:    queue.NewConcurrentQueue(cfg.QueueSize),
		subscribers: make(map[uint64]*Subscription),
		queueSize:   cfg.QueueSize,
		quit:        make(chan struct{}),
	}

	c.messages.Start()

	c.wg.Add(1)
	go c.messageDispatcher()

	return c
}

// Stop shuts down the message dispatcher and all subscriptions. Messages
// still queued through AddMessageSafe are dropped; call Flush first to
// keep them.
func (c *Coordinator) Stop() {
	if !atomic.CompareAndSwapUint32(&c.stopped, 0, 1) {
		return
	}

	close(c.quit)
	c.wg.Wait()
	c.messages.Stop()

	c.subMtx.Lock()
	subs := c.subscribers
	c.subscribers = make(map[uint64]*Subscription)
	c.subMtx.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
}

// Init resets the record for a new run: status Working, empty message
// log, zero percent, found flag and elapsed time, no total. It starts the
// elapsed time clock.
func (c *Coordinator) Init() {
	c.percentMtx.Lock()
	c.percent = 0
	c.step = 0
	c.percentMtx.Unlock()

	c.found.Store(false)

	c.mu.Lock()
	c.status = Working
	c.message.Reset()
	c.progressVisible = false
	c.elapsed = 0
	c.total = nil
	c.start = c.clock.Now()
	c.mu.Unlock()

	log.Debugf("Progress initialised at %v", c.start)

	c.notify()
}

// SetTotal records the size of the candidate space and reports it in the
// message log. Later calls overwrite earlier ones.
func (c *Coordinator) SetTotal(n *big.Int) {
	c.mu.Lock()
	if n == nil {
		c.total = nil
	} else {
		c.total = new(big.Int).Set(n)
	}
	c.mu.Unlock()

	c.AddMessage("Total number of permutations to check: " + FormatBig(n))
}

// SetProgressStep declares that the work is split into partitions equal
// shares, each worth 100/partitions percent, and makes the progress
// indicator visible.
func (c *Coordinator) SetProgressStep(partitions int) {
	if partitions < 1 {
		partitions = 1
	}

	c.percentMtx.Lock()
	c.step = 100 / float64(partitions)
	c.percentMtx.Unlock()

	c.mu.Lock()
	c.progressVisible = true
	c.mu.Unlock()

	c.notify()
}

// IncrementProgress adds one share to the completion percentage. Workers
// call it once each when their share is done.
func (c *Coordinator) IncrementProgress() {
	c.percentMtx.Lock()
	c.percent += c.step
	c.percentMtx.Unlock()

	c.notify()
}

// SetFound records that at least one worker found a result. The final
// status chosen by Finalize depends on it.
func (c *Coordinator) SetFound() {
	c.found.Store(true)
}

// AddMessage appends a line to the message log directly on the calling
// goroutine. It is meant for the run orchestrator; workers should use
// AddMessageSafe.
func (c *Coordinator) AddMessage(text string) {
	c.mu.Lock()
	c.message.WriteString(text)
	c.message.WriteByte('\n')
	c.mu.Unlock()

	c.notify()
}

// AddMessageSafe hands the line to the message dispatcher and returns
// without waiting. Lines are appended one at a time by the dispatcher in
// the order the queue received them.
func (c *Coordinator) AddMessageSafe(text string) {
	select {
	case c.messages.ChanIn() <- text:
	case <-c.quit:
	}
}

// Flush blocks until every line passed to AddMessageSafe before the call
// has been appended to the log.
func (c *Coordinator) Flush() {
	done := make(chan struct{})

	select {
	case c.messages.ChanIn() <- done:
	case <-c.quit:
		return
	}

	select {
	case <-done:
	case <-c.quit:
	}
}

// FinalizeWith sets the terminal status from a known outcome.
func (c *Coordinator) FinalizeWith(success bool) {
	c.mu.Lock()
	if success {
		c.status = FinishedSuccess
	} else {
		c.status = FinishedFail
	}
	c.mu.Unlock()

	c.notify()
}

// Finalize stops the clock, reports the elapsed time and, when a total was
// recorded, the approximate number of keys checked per second. The
// terminal status follows the found flag and the percentage is forced to
// 100.
func (c *Coordinator) Finalize() {
	c.mu.Lock()
	c.elapsed = c.clock.Now().Sub(c.start)
	elapsed := c.elapsed
	var total *big.Int
	if c.total != nil {
		total = new(big.Int).Set(c.total)
	}
	c.mu.Unlock()

	c.percentMtx.Lock()
	percent := c.percent
	c.percent = 100
	c.percentMtx.Unlock()

	if elapsed > 0 {
		c.AddMessage("Elapsed time: " + formatElapsed(elapsed))

		if total != nil && total.Sign() > 0 {
			c.AddMessage(fmt.Sprintf("Speed: %s keys/second",
				keysPerSecond(total, percent, elapsed)))
		}
	}

	found := c.found.Load()
	log.Debugf("Run finalized after %v, found=%v", elapsed, found)

	c.FinalizeWith(found)
}

// Fail appends msg and finishes the run unsuccessfully.
func (c *Coordinator) Fail(msg string) {
	c.AddMessage(msg)
	c.FinalizeWith(false)
}

// Pass appends msg and finishes the run successfully.
func (c *Coordinator) Pass(msg string) {
	c.AddMessage(msg)
	c.FinalizeWith(true)
}

// Snapshot returns a copy of the current progress record.
func (c *Coordinator) Snapshot() State {
	c.percentMtx.Lock()
	percent := c.percent
	c.percentMtx.Unlock()

	c.mu.RLock()
	defer c.mu.RUnlock()

	elapsed := c.elapsed
	if c.status == Working {
		elapsed = c.clock.Now().Sub(c.start)
	}

	var total *big.Int
	if c.total != nil {
		total = new(big.Int).Set(c.total)
	}

	return State{
		Status:          c.status,
		Message:         c.message.String(),
		Percent:         percent,
		ProgressVisible: c.progressVisible,
		Found:           c.found.Load(),
		Elapsed:         elapsed,
		Total:           total,
	}
}

// messageDispatcher is the only goroutine that applies AddMessageSafe
// lines.
//
// NOTE: MUST be run as a goroutine.
func (c *Coordinator) messageDispatcher() {
	defer c.wg.Done()

	for {
		select {
		case item := <-c.messages.ChanOut():
			switch m := item.(type) {
			case string:
				c.AddMessage(m)

			case chan struct{}:
				close(m)
			}

		case <-c.quit:
			return
		}
	}
}

// keysPerSecond estimates the throughput of a run. The whole total is
// used when the percentage is 0 or at least 99, otherwise the share of it
// that corresponds to the percentage.
func keysPerSecond(total *big.Int, percent float64,
	elapsed time.Duration) string {

	secs := elapsed.Seconds()
	if secs < 1 {
		return infinity
	}

	checked := new(big.Float).SetInt(total)
	if percent > 0 && percent < 99 {
		checked.Mul(checked, big.NewFloat(percent/100))
	}

	speed, _ := checked.Quo(checked, big.NewFloat(secs)).Int(nil)
	return "~" + FormatBig(speed)
}
