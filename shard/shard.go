package shard

import (
	"sync"

	"github.com/krisalay/memory-cacher/eviction"
)

/*
A Shard is a small, independent piece of the cache. Instead of one big map
behind one big lock, the cache is split into many shards. Each shard:
  - holds some portion of the entries
  - has its own eviction bookkeeping
  - has its own lock

Operations on keys that live in different shards never contend.
*/
type Shard struct {

	// Store holds the key → entry data. It is copy-on-write, so Snapshot is
	// free and the sweeper can scan without holding Mu.
	Store ShardStore

	// Eviction ranks this shard's keys for eviction.
	Eviction eviction.Policy

	// Mu serializes every mutation of Store and every call into Eviction.
	// Code holding Mu never takes another shard's Mu.
	Mu sync.Mutex
}

func NewShard(ev eviction.Policy) *Shard {
	return &Shard{
		Store:    NewCOWStore(),
		Eviction: ev,
	}
}
