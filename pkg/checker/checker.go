// Package checker validates a batch of candidate strings on a pool of
// goroutines and reports its progress through a progress.Coordinator.
// Candidates are split into equal contiguous shares; each finished share
// advances the shared percentage by one step.
package checker

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"golang.org/x/sync/errgroup"

	"github.com/Amr-9/KeyRescue/pkg/keys"
	"github.com/Amr-9/KeyRescue/pkg/progress"
	"github.com/Amr-9/KeyRescue/pkg/validator"
)

var (
	// ErrNoCandidates is returned when Run is given an empty batch.
	ErrNoCandidates = errors.New("no candidates to check")

	// ErrInvalidTarget is returned when the target is not a valid address
	// for the configured network.
	ErrInvalidTarget = errors.New("invalid target address")
)

// Config holds the configuration for a batch check.
type Config struct {
	Params     *chaincfg.Params // Network parameters, mainnet if nil
	Target     string           // Address a recovered key must control, optional
	Partitions int              // Number of equal shares, defaults to Workers
	Workers    int              // Number of concurrent goroutines
}

// Checker implements the batch check on CPU goroutines.
type Checker struct {
	cfg       Config
	validator *validator.Validator
	progress  *progress.Coordinator

	checked   uint64 // Atomic counter for examined candidates
	valid     uint64 // Atomic counter for valid candidates
	startNano int64  // Atomic start time of the run in Unix nanoseconds

	mu      sync.Mutex
	results []keys.Result
}

// New creates a checker reporting to the given coordinator. If workers is
// 0, it defaults to the number of CPU cores.
func New(cfg Config, coord *progress.Coordinator) *Checker {
	if cfg.Params == nil {
		cfg.Params = &chaincfg.MainNetParams
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Partitions <= 0 {
		cfg.Partitions = cfg.Workers
	}

	return &Checker{
		cfg:       cfg,
		validator: validator.New(cfg.Params),
		progress:  coord,
	}
}

// Name returns the implementation name.
func (c *Checker) Name() string {
	return "CPU"
}

// Stats returns the current performance statistics. It is safe to call
// concurrently with Run.
func (c *Checker) Stats() keys.Stats {
	checked := atomic.LoadUint64(&c.checked)
	start := atomic.LoadInt64(&c.startNano)

	var elapsed, rate float64
	if start != 0 {
		elapsed = time.Since(time.Unix(0, start)).Seconds()
	}
	if elapsed > 0 {
		rate = float64(checked) / elapsed
	}

	return keys.Stats{
		Checked:     checked,
		Valid:       atomic.LoadUint64(&c.valid),
		Rate:        rate,
		ElapsedSecs: elapsed,
	}
}

// Run checks every candidate and returns the valid ones ordered by their
// input position. A cancelled context abandons the run: the coordinator
// is left in the Working state and ctx.Err() is returned together with
// the results gathered so far.
func (c *Checker) Run(ctx context.Context, candidates []string) ([]keys.Result, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	if c.cfg.Target != "" {
		kind, out := c.validator.Detect(c.cfg.Target)
		if !out.IsValid() || !kind.IsAddress() {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTarget, out)
		}
	}

	partitions := c.cfg.Partitions
	if partitions > len(candidates) {
		partitions = len(candidates)
	}

	atomic.StoreInt64(&c.startNano, time.Now().UnixNano())
	atomic.StoreUint64(&c.checked, 0)
	atomic.StoreUint64(&c.valid, 0)
	c.mu.Lock()
	c.results = nil
	c.mu.Unlock()

	c.progress.Init()
	c.progress.SetTotal(big.NewInt(int64(len(candidates))))
	c.progress.SetProgressStep(partitions)

	log.Infof("Checking %d candidates in %d shares on %d workers",
		len(candidates), partitions, c.cfg.Workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)

	for p := 0; p < partitions; p++ {
		lo := p * len(candidates) / partitions
		hi := (p + 1) * len(candidates) / partitions

		g.Go(func() error {
			return c.checkShare(gctx, candidates, lo, hi)
		})
	}

	err := g.Wait()
	results := c.sortedResults()
	if err != nil {
		c.progress.AddMessage(fmt.Sprintf("Search abandoned: %v", err))
		return results, err
	}

	c.progress.Flush()
	c.progress.Finalize()

	return results, nil
}

// checkShare validates candidates[lo:hi] and advances the progress by one
// step when done.
func (c *Checker) checkShare(ctx context.Context, candidates []string,
	lo, hi int) error {

	for i := lo; i < hi; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		c.checkCandidate(i, candidates[i])
	}

	c.progress.IncrementProgress()
	return nil
}

// checkCandidate validates a single candidate and records it when valid.
func (c *Checker) checkCandidate(index int, candidate string) {
	atomic.AddUint64(&c.checked, 1)

	kind, out := c.validator.Detect(candidate)
	if !out.IsValid() {
		log.Tracef("Candidate %d rejected: %v", index, out)
		return
	}
	atomic.AddUint64(&c.valid, 1)

	result := keys.Result{
		Index:     index,
		Candidate: candidate,
		Type:      kind,
		Detail:    out.Detail,
	}

	if kind.IsPrivateKey() {
		if err := c.inspectKey(&result); err != nil {
			log.Errorf("Candidate %d: %v", index, err)
			return
		}

		if c.cfg.Target == "" || result.Matched {
			c.progress.SetFound()
			c.progress.AddMessageSafe(fmt.Sprintf("Found %v at "+
				"position %d: %s", kind, index, result.WIF))
		}
	}

	c.mu.Lock()
	c.results = append(c.results, result)
	c.mu.Unlock()
}

// inspectKey fills in the WIF encoding of a valid private key and checks it
// against the target address.
func (c *Checker) inspectKey(result *keys.Result) error {
	var err error
	switch result.Type {
	case keys.MiniKey:
		priv := keys.MiniKeyPrivateKey(result.Candidate)
		result.WIF, err = keys.EncodeWIF(priv, false, c.cfg.Params)
		if err != nil {
			return err
		}
		if c.cfg.Target != "" {
			result.Matched, err = keys.MatchesAddress(
				priv, false, c.cfg.Target, c.cfg.Params,
			)
		}

	default:
		priv, compressed, err := keys.DecodeWIF(result.Candidate)
		if err != nil {
			return err
		}
		result.WIF = result.Candidate
		if c.cfg.Target != "" {
			result.Matched, err = keys.MatchesAddress(
				priv, compressed, c.cfg.Target, c.cfg.Params,
			)
			return err
		}
	}

	return err
}

func (c *Checker) sortedResults() []keys.Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	results := make([]keys.Result, len(c.results))
	copy(results, c.results)
	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	return results
}
