package expiration

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/krisalay/memory-cacher/clock"
)

// DefaultSweepInterval is how often the sweeper runs when none is configured.
const DefaultSweepInterval = 5 * time.Second

/*
Target is what the sweeper cleans. The cache is split into partitions
(shards) and each partition is swept on its own, so a sweep never holds
anything like a store-wide lock.
*/
type Target interface {
	// Partitions returns how many independently sweepable partitions exist.
	Partitions() int

	// SweepPartition removes every entry in partition i that is expired at now
	// and returns how many it removed.
	SweepPartition(i int, now time.Time) (int, error)
}

/*
Sweeper is the Expiration Clock.

It runs in its own goroutine and, on every tick, walks all partitions of the
target (several at once, bounded by Concurrency) removing expired entries.

A cycle that fails, including one that panics on some partition, is logged
and dropped. The next tick tries again. The sweeper never takes the process
down.
*/
type Sweeper struct {
	target      Target
	clock       clock.Clock
	interval    time.Duration
	concurrency int
	logger      *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// NewSweeper creates a stopped sweeper.
func NewSweeper(target Target, clk clock.Clock, interval time.Duration, concurrency int, logger *log.Logger) *Sweeper {
	if interval == 0 {
		interval = DefaultSweepInterval
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	if clk == nil {
		clk = clock.System{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Sweeper{
		target:      target,
		clock:       clk,
		interval:    interval,
		concurrency: concurrency,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start launches the background loop. A negative interval disables it and
// the cache then relies on lazy expiration in Get.
func (s *Sweeper) Start() {
	if s.interval < 0 {
		return
	}
	s.wg.Add(1)
	go s.loop()
}

// Stop ends the background loop and waits for an in-flight cycle.
// It is safe to call more than once.
func (s *Sweeper) Stop() {
	s.once.Do(func() {
		s.cancel()
		s.wg.Wait()
	})
}

func (s *Sweeper) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(s.ctx); err != nil && s.ctx.Err() == nil {
				s.logger.Printf("Warning: expiration sweep skipped: %v", err)
			}
		}
	}
}

// RunOnce performs a single sweep cycle over all partitions and returns the
// number of entries removed.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	now := s.clock.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	counts := make([]int, s.target.Partitions())
	for i := range counts {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("partition %d: panic: %v", i, r)
				}
			}()
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := s.target.SweepPartition(i, now)
			if err != nil {
				return fmt.Errorf("partition %d: %w", i, err)
			}
			counts[i] = n
			return nil
		})
	}
	err := g.Wait()

	removed := 0
	for _, n := range counts {
		removed += n
	}
	return removed, err
}
