package main

import (
	"fmt"
	"log"
	"sync"
	"time"

	cache "github.com/krisalay/memory-cacher"
	"github.com/krisalay/memory-cacher/types"
)

// ================= BENCHMARK =================

func main() {
	fmt.Println("\n================ CACHE LOAD BENCHMARK =================")

	// ---------------- Cache Config ----------------
	const (
		shards      = 8
		capacity    = 200000
		preloadKeys = 100000
		goroutines  = 200
		opsPerG     = 5000
	)

	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Shards       :", shards)
	fmt.Println("Capacity     :", capacity)
	fmt.Println("Preload Keys :", preloadKeys)
	fmt.Println("Goroutines   :", goroutines)
	fmt.Println("Ops/Goroutine:", opsPerG)
	fmt.Println("---------------------------------")

	// ---------------- Cache ----------------
	c, err := cache.New(cache.Config{
		Shards:   shards,
		Capacity: capacity,
	})
	if err != nil {
		log.Fatalf("cache: %v", err)
	}

	// ---------------- Preload Cache ----------------
	fmt.Println("Preloading cache...")
	for i := 0; i < preloadKeys; i++ {
		key := fmt.Sprintf("key-%d", i)
		if err := c.Set(key, i, time.Minute); err != nil {
			log.Fatalf("preload %s: %v", key, err)
		}
	}
	fmt.Println("Preload complete.")

	// ---------------- Warmup ----------------
	fmt.Println("Warming up cache...")
	for i := 0; i < 10000; i++ {
		c.Retrieve(fmt.Sprintf("key-%d", i%preloadKeys))
	}
	fmt.Println("Warmup complete.")

	// ---------------- Load Test ----------------
	fmt.Println("Running concurrency benchmark...")

	start := time.Now()

	wg := sync.WaitGroup{}
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < opsPerG; j++ {
				key := fmt.Sprintf("key-%d", (id*opsPerG+j)%(2*preloadKeys))
				switch j % 10 {
				case 0:
					_ = c.SetWithPolicy(key, j, types.Policy{SlidingExpiration: time.Minute, Priority: types.Low})
				case 1:
					_, _ = c.RetrieveOrElse(key, time.Minute, func() (any, error) { return j, nil })
				default:
					c.Retrieve(key)
				}
			}
		}(i)
	}

	wg.Wait()

	duration := time.Since(start)
	totalOps := goroutines * opsPerG

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Total Operations : %d\n", totalOps)
	fmt.Printf("Total Time       : %v\n", duration)
	fmt.Printf("Throughput       : %.2f ops/sec\n", float64(totalOps)/duration.Seconds())
	fmt.Printf("Entries          : %d\n", c.Store().Len())
	fmt.Println("=========================================")

	c.Close()
}
