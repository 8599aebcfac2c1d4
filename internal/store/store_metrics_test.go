package store

import (
	"testing"

	"github.com/amakane-hakari/recstore/internal/metrics"
)

func TestShardedStore_Metrics(t *testing.T) {
	m := metrics.NewSimple()
	s := NewSharded[*testRec](
		WithCapacity[*testRec](50),
		WithMetrics[*testRec](m),
	)

	rec, _ := s.Save(newRec("a"))
	s.Save(newRec("b"))
	if got := m.SaveNew.Load(); got != 2 {
		t.Fatalf("save_new: expected 2, got %d", got)
	}
	if got := m.ShardCreated.Load(); got != 1 {
		t.Fatalf("shard_created: expected 1, got %d", got)
	}

	id, _ := rec.ID()
	s.Save(recAt(id, "a2"))
	if got := m.SaveUpdate.Load(); got != 1 {
		t.Fatalf("save_update: expected 1, got %d", got)
	}

	s.FindByID(id)
	s.FindByID(9999)
	if m.FindHit.Load() != 1 || m.FindMiss.Load() != 1 {
		t.Fatalf("find hit/miss: got %d/%d", m.FindHit.Load(), m.FindMiss.Load())
	}

	s.DeleteByID(id)
	if got := m.Deleted.Load(); got != 1 {
		t.Fatalf("deleted: expected 1, got %d", got)
	}

	s.Save(newRec("c")) // id を再利用する
	if got := m.IDReused.Load(); got != 1 {
		t.Fatalf("id_reused: expected 1, got %d", got)
	}
}
