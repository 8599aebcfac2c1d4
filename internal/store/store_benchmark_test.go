package store

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync/atomic"
	"testing"
)

type benchConfig struct {
	capacity  int
	readRatio float64
	warmRecs  int
	parallel  bool
}

var benchMatrix = []benchConfig{
	{capacity: 50, readRatio: 0.90, warmRecs: 50_000, parallel: true},
	{capacity: 1000, readRatio: 0.90, warmRecs: 50_000, parallel: true},

	{capacity: 50, readRatio: 0.50, warmRecs: 50_000, parallel: true},
	{capacity: 50, readRatio: 0.10, warmRecs: 50_000, parallel: true},

	// serial
	{capacity: 50, readRatio: 0.90, warmRecs: 50_000, parallel: false},
}

func BenchmarkShardedStore_MixedWorkload(b *testing.B) {
	runtime.GC()

	for _, cfg := range benchMatrix {
		name := fmt.Sprintf("capacity=%d, readRatio=%.0f, warmRecs=%d, parallel=%t",
			cfg.capacity, cfg.readRatio*100, cfg.warmRecs, cfg.parallel,
		)
		b.Run(name, func(b *testing.B) {
			runOneBenchmark(b, cfg)
		})
	}
}

func runOneBenchmark(b *testing.B, cfg benchConfig) {
	s := NewSharded[*testRec](WithCapacity[*testRec](cfg.capacity))

	for i := 0; i < cfg.warmRecs; i++ {
		if _, err := s.Save(newRec("warm")); err != nil {
			b.Fatalf("warm save: %v", err)
		}
	}

	var seq atomic.Int64
	b.ResetTimer()

	if cfg.parallel {
		b.RunParallel(func(pb *testing.PB) {
			rng := rand.New(rand.NewSource(seq.Add(1)))
			for pb.Next() {
				benchOp(s, rng, cfg)
			}
		})
	} else {
		rng := rand.New(rand.NewSource(1))
		for i := 0; i < b.N; i++ {
			benchOp(s, rng, cfg)
		}
	}
}

func benchOp(s *ShardedStore[*testRec], rng *rand.Rand, cfg benchConfig) {
	id := rng.Intn(cfg.warmRecs) + 1
	if rng.Float64() < cfg.readRatio {
		s.FindByID(id)
		return
	}
	_, _ = s.Save(recAt(id, "write"))
}

func BenchmarkShard_All(b *testing.B) {
	for _, capacity := range []int{50, 1000} {
		b.Run(fmt.Sprintf("capacity=%d", capacity), func(b *testing.B) {
			sh := newShard[*testRec](0, capacity)
			for i := 0; i < capacity; i++ {
				sh.Store(i, recAt(i, "r"))
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				sh.All()
			}
		})
	}
}
