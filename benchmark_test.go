package cache_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	cache "github.com/krisalay/memory-cacher"
)

func newBenchmarkCache(b *testing.B, capacity int) *cache.MemoryCacher {
	c, err := cache.New(cache.Config{
		Shards:   8,
		Capacity: capacity,
	})
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(c.Close)
	return c
}

//
// ================= SINGLE THREAD BENCH =================
//

func BenchmarkRetrieveHit(b *testing.B) {
	c := newBenchmarkCache(b, 100000)
	_ = c.Set("key", "value", time.Minute)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Retrieve("key")
	}
}

func BenchmarkRetrieveMiss(b *testing.B) {
	c := newBenchmarkCache(b, 100000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Retrieve(fmt.Sprintf("miss-%d", i))
	}
}

//
// ================= PARALLEL BENCH =================
//

func BenchmarkParallelRetrieve(b *testing.B) {
	c := newBenchmarkCache(b, 100000)
	for i := 0; i < 1000; i++ {
		_ = c.Set(fmt.Sprintf("key-%d", i), i, time.Minute)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			c.Retrieve(fmt.Sprintf("key-%d", i%1000))
			i++
		}
	})
}

//
// ================= WRITE BENCH =================
//

func BenchmarkSetWithEviction(b *testing.B) {
	c := newBenchmarkCache(b, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Set(fmt.Sprintf("key-%d", i), i, time.Minute)
	}
}

func BenchmarkRetrieveOrElse(b *testing.B) {
	c := newBenchmarkCache(b, 10000)
	produce := func() (any, error) { return 1, nil }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.RetrieveOrElse(fmt.Sprintf("key-%d", i%5000), time.Minute, produce)
	}
}

//
// ================= HIGH CONCURRENCY TEST =================
//

func BenchmarkHighConcurrency(b *testing.B) {
	c := newBenchmarkCache(b, 20000)

	keys := make([]string, 10000)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
		_ = c.Set(keys[i], i, time.Minute)
	}

	b.ResetTimer()

	var wg sync.WaitGroup
	for g := 0; g < 100; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < b.N/100; j++ {
				c.Retrieve(keys[j%len(keys)])
			}
		}()
	}
	wg.Wait()
}
