package main

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	cache "github.com/krisalay/memory-cacher"
	"github.com/krisalay/memory-cacher/eviction"
	"github.com/krisalay/memory-cacher/metrics"
	"github.com/krisalay/memory-cacher/removal"
	"github.com/krisalay/memory-cacher/types"
)

// ================= MAIN =================

func main() {
	fmt.Println("\n==================== SYSTEM BOOT ====================")

	// ---------------- System Config ----------------
	fmt.Println("EVICTION ORDER  : priority, then LRU")
	fmt.Println("SHARDS          : 4")
	fmt.Println("EXPIRATION      : sliding / absolute, swept every 500ms")
	fmt.Println("CAPACITY        : 20 keys")

	// ---------------- Metrics ----------------
	reg := prometheus.NewRegistry()
	m := metrics.NewPrometheus(reg, "demo")

	// ---------------- Cache ----------------
	c, err := cache.New(cache.Config{
		Shards:        4,
		Capacity:      20,
		Ordering:      eviction.LRU,
		SweepInterval: 500 * time.Millisecond,
		Metrics:       m,
		OnRemove: removal.HookFunc(func(key string, _ any, reason removal.Reason) {
			if reason != removal.Evicted {
				fmt.Printf("HOOK   → %s left the cache (%s)\n", key, reason)
			}
		}),
	})
	if err != nil {
		log.Fatalf("cache: %v", err)
	}

	// ====================================================
	fmt.Println("\n==================== 1) CACHE MISS ====================")
	v, ok := c.Retrieve("a")
	fmt.Println("CACHE  → RETRIEVE a =", v, ok)

	// ====================================================
	fmt.Println("\n==================== 2) CACHE HIT ====================")
	_ = c.Set("a", "alpha", time.Minute)
	v, ok = c.Retrieve("a")
	fmt.Println("CACHE  → RETRIEVE a =", v, ok)

	// ====================================================
	fmt.Println("\n==================== 3) SLIDING EXPIRATION ====================")
	_ = c.Set("x", "temp-value", time.Second)
	fmt.Println("CACHE  → SET x (sliding 1s)")

	for i := 0; i < 3; i++ {
		time.Sleep(600 * time.Millisecond)
		v, _ = c.Retrieve("x")
		fmt.Println("CACHE  → RETRIEVE x while in use =", v)
	}

	time.Sleep(2 * time.Second)
	v, ok = c.Retrieve("x")
	fmt.Println("CACHE  → RETRIEVE x after idle =", v, ok)

	// ====================================================
	fmt.Println("\n==================== 4) ABSOLUTE EXPIRATION ====================")
	_ = c.SetWithPolicy("report", "q3", types.Policy{AbsoluteExpiration: time.Now().Add(time.Second)})
	time.Sleep(1500 * time.Millisecond)
	fmt.Println("CACHE  → CONTAINS report after deadline =", c.Contains("report"))

	// ====================================================
	fmt.Println("\n==================== 5) RETRIEVE OR ELSE ====================")

	wg := sync.WaitGroup{}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			val, err := c.RetrieveOrElse("b", time.Minute, func() (any, error) {
				return fmt.Sprintf("beta-from-%d", id), nil
			})
			fmt.Printf("GOROUTINE-%d → RETRIEVE b = %v err=%v\n", id, val, err)
		}(i)
	}
	wg.Wait()

	_, err = c.RetrieveOrElse("broken", time.Minute, func() (any, error) {
		return nil, errors.New("backend down")
	})
	fmt.Println("CACHE  → RETRIEVE broken =", err, "cached:", c.Contains("broken"))

	// ====================================================
	fmt.Println("\n==================== 6) EVICTION ====================")

	_ = c.SetWithPolicy("pinned", "keep-me", types.Policy{Priority: types.NotRemovable})
	for i := 0; i < 50; i++ {
		_ = c.SetWithPolicy(fmt.Sprintf("k%d", i), i, types.Policy{Priority: types.Low})
	}

	v, _ = c.Retrieve("pinned")
	fmt.Println("CACHE  → RETRIEVE pinned after eviction =", v)
	fmt.Println("CACHE  → entries =", c.Store().Len())

	// ====================================================
	fmt.Println("\n==================== 7) REMOVE ====================")

	c.Remove("b")
	fmt.Println("CACHE  → REMOVE b")

	v, ok = c.Retrieve("b")
	fmt.Println("CACHE  → RETRIEVE b after remove =", v, ok)

	// ====================================================
	fmt.Println("\n==================== METRICS ====================")
	fmt.Printf("HITS      : %.0f\n", testutil.ToFloat64(m.Hits))
	fmt.Printf("MISSES    : %.0f\n", testutil.ToFloat64(m.Misses))
	fmt.Printf("EVICTIONS : %.0f\n", testutil.ToFloat64(m.Evictions))
	fmt.Printf("EXPIRED   : %.0f\n", testutil.ToFloat64(m.Expired))
	fmt.Printf("REJECTED  : %.0f\n", testutil.ToFloat64(m.Rejected))

	// ====================================================
	fmt.Println("\n==================== SHUTDOWN ====================")
	c.Close()
	fmt.Println("SYSTEM → cache closed cleanly")
}
