package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// scanParallelism は全シャード走査時の並列度の上限です。
const scanParallelism = 8

// ShardedStore は識別子の算術でレコードをシャードへ振り分けるストアです。
// シャードディレクトリ（shardIndex -> *Shard）は初回アクセス時に遅延作成され、
// 明示的なシャード削除以外では破棄されません。
type ShardedStore[R Record] struct {
	cfg    Config[R]
	shards sync.Map // int -> *Shard[R]
	alloc  *IDAllocator
	live   atomic.Int64 // 現在のシャード数
}

var _ Repository[Record] = (*ShardedStore[Record])(nil)

// NewSharded は新しい ShardedStore を作成します。
func NewSharded[R Record](opts ...Option[R]) *ShardedStore[R] {
	cfg := applyOptions(opts)
	return &ShardedStore[R]{
		cfg:   cfg,
		alloc: NewIDAllocator(cfg.Seed),
	}
}

// Capacity はシャード容量を返します。
func (s *ShardedStore[R]) Capacity() int { return s.cfg.Capacity }

// shardOf は識別子が属するシャード番号を返します。
func (s *ShardedStore[R]) shardOf(id int) int { return id / s.cfg.Capacity }

// slotOf は識別子のシャード内スロット番号を返します。
func (s *ShardedStore[R]) slotOf(id int) int { return id % s.cfg.Capacity }

// getOrCreateShard はシャードを取得し、なければ冪等に作成します。
// 同じ番号への同時作成は LoadOrStore で 1 つに収束します。
func (s *ShardedStore[R]) getOrCreateShard(index int) *Shard[R] {
	if v, ok := s.shards.Load(index); ok {
		return v.(*Shard[R])
	}
	v, loaded := s.shards.LoadOrStore(index, newShard[R](index, s.cfg.Capacity))
	if !loaded {
		n := s.live.Add(1)
		s.cfg.Metrics.IncShardCreated()
		s.cfg.Metrics.SetShards(int(n))
		if s.cfg.Logger != nil {
			s.cfg.Logger.Debug("store.shard.create", "shard", index)
		}
	}
	return v.(*Shard[R])
}

// FindByID は識別子でレコードを取得します。
// シャード未作成は「まだレコードがない」と等価でエラーではありません。
func (s *ShardedStore[R]) FindByID(id int) (R, bool) {
	var zero R
	v, ok := s.shards.Load(s.shardOf(id))
	if !ok {
		s.cfg.Metrics.IncFindMiss()
		return zero, false
	}
	rec, ok := v.(*Shard[R]).Load(s.slotOf(id))
	if !ok {
		s.cfg.Metrics.IncFindMiss()
		return zero, false
	}
	s.cfg.Metrics.IncFindHit()
	return rec, true
}

// Save はレコードを保存します。
// 新規レコードには識別子を割り当て、導出先のシャードへ格納します。
// 採番直後のスロットが既に占有されている場合は採番の不変条件が
// 壊れているため、既存レコードを上書きせず回復不能なエラーとして返します。
// 既存レコードは識別子から導出したスロットへ無条件に上書きします。
func (s *ShardedStore[R]) Save(rec R) (R, error) {
	var zero R
	if id, ok := rec.ID(); ok {
		sh := s.getOrCreateShard(s.shardOf(id))
		if !sh.Store(s.slotOf(id), rec) {
			return zero, fmt.Errorf("save record %d: %w", id, ErrSlotConflict)
		}
		s.cfg.Metrics.IncSaveUpdate()
		if s.cfg.Logger != nil {
			s.cfg.Logger.Debug("store.save.update", "id", id)
		}
		return rec, nil
	}

	id, reused := s.alloc.Allocate()
	rec.SetID(id)
	sh := s.getOrCreateShard(s.shardOf(id))
	// 採番済み識別子のスロットは空でなければならない。更新パスで作られた
	// レコードにカウンタが追いついた場合などに占有が観測されるため、
	// Store の上書きではなく Insert で検出して既存レコードを保護する。
	if !sh.Insert(s.slotOf(id), rec) {
		return zero, fmt.Errorf("save new record %d: allocator invariant broken: %w", id, ErrSlotConflict)
	}
	s.cfg.Metrics.IncSaveNew()
	if reused {
		s.cfg.Metrics.IncIDReused()
	}
	if s.cfg.Logger != nil {
		s.cfg.Logger.Debug("store.save.new", "id", id, "reused", reused)
	}
	return rec, nil
}

// Delete はレコードを削除します。識別子未割り当てのレコードは無視されます。
func (s *ShardedStore[R]) Delete(rec R) {
	if id, ok := rec.ID(); ok {
		s.DeleteByID(id)
	}
}

// DeleteByID は識別子でレコードを削除し、識別子を再利用キューへ返却します。
// 存在しない識別子の削除はエラーではなく no-op です。
func (s *ShardedStore[R]) DeleteByID(id int) {
	v, ok := s.shards.Load(s.shardOf(id))
	if !ok {
		return
	}
	if v.(*Shard[R]).Delete(s.slotOf(id)) {
		s.alloc.Release(id)
		s.cfg.Metrics.AddDeleted(1)
		if s.cfg.Logger != nil {
			s.cfg.Logger.Debug("store.delete", "id", id)
		}
	}
}

// ExistsByID はレコードの存在を確認します。
func (s *ShardedStore[R]) ExistsByID(id int) bool {
	_, ok := s.FindByID(id)
	return ok
}

// Count は全シャードの占有スロット数を合計して返します。
// シャードごとの値はその時点で正確ですが、並行変更下での合計は
// 単一の原子的なグローバルカウントではありません。
func (s *ShardedStore[R]) Count() int64 {
	var total int64
	s.shards.Range(func(_, v any) bool {
		total += int64(v.(*Shard[R]).OccupiedCount())
		return true
	})
	return total
}

// FindAll は全レコードを整列キー順に返します。
// 各スロットのロックを訪問時点で観測した和集合であり、走査中の並行変更が
// 結果に現れるかどうかはスロット単位で決まります。
func (s *ShardedStore[R]) FindAll() []R {
	all := s.scanAll()
	s.sortRecords(all)
	return all
}

// FindPaginated は pred に一致するレコードを整列し、指定ページを返します。
func (s *ShardedStore[R]) FindPaginated(pred func(R) bool, pageNumber, pageSize int) Page[R] {
	all := s.scanAll()
	filtered := all
	if pred != nil {
		filtered = make([]R, 0, len(all))
		for _, rec := range all {
			if pred(rec) {
				filtered = append(filtered, rec)
			}
		}
	}
	s.sortRecords(filtered)
	return pageOf(filtered, pageNumber, pageSize)
}

// DeleteAll は全シャードをクリアして破棄し、採番状態をリセットします。
func (s *ShardedStore[R]) DeleteAll() {
	var dropped int
	s.shards.Range(func(k, v any) bool {
		v.(*Shard[R]).Clear()
		s.shards.Delete(k)
		dropped++
		return true
	})
	s.alloc.Reset()
	s.live.Store(0)
	s.cfg.Metrics.SetShards(0)
	if s.cfg.Logger != nil {
		s.cfg.Logger.Info("store.delete_all", "dropped_shards", dropped)
	}
}

// InsertShard はレコード群を単一シャードへ一括投入します。
// 対象シャードは先頭レコードの識別子から導出されます。対象シャードが既に
// 1 件以上のレコードを保持している場合、バッチ全体を拒否して false を
// 返します（部分挿入はしません）。個々のスロット格納の失敗はエラーです。
func (s *ShardedStore[R]) InsertShard(records []R) (bool, error) {
	if len(records) == 0 {
		return false, nil
	}
	firstID, ok := records[0].ID()
	if !ok {
		return false, fmt.Errorf("insert shard: first record: %w", ErrMissingID)
	}
	index := s.shardOf(firstID)

	if v, ok := s.shards.Load(index); ok && v.(*Shard[R]).OccupiedCount() > 0 {
		return false, nil
	}

	sh := s.getOrCreateShard(index)
	stored := 0
	for _, rec := range records {
		id, ok := rec.ID()
		if !ok {
			continue
		}
		if !sh.Store(s.slotOf(id), rec) {
			return false, fmt.Errorf("insert shard %d: record %d: %w", index, id, ErrSlotConflict)
		}
		stored++
	}
	if s.cfg.Logger != nil {
		s.cfg.Logger.Info("store.shard.insert", "shard", index, "records", stored)
	}
	return true, nil
}

// DeleteShardContaining は id が属するシャードを丸ごと破棄します。
// 保持していた全識別子を再利用キューへ返却し、シャードが実在したか
// どうかを返します。
func (s *ShardedStore[R]) DeleteShardContaining(id int) bool {
	index := s.shardOf(id)
	v, ok := s.shards.LoadAndDelete(index)
	if !ok {
		return false
	}
	sh := v.(*Shard[R])
	recs := sh.All()
	for _, rec := range recs {
		if rid, ok := rec.ID(); ok {
			s.alloc.Release(rid)
		}
	}
	sh.Clear()
	n := s.live.Add(-1)
	s.cfg.Metrics.IncShardDropped()
	s.cfg.Metrics.AddDeleted(len(recs))
	s.cfg.Metrics.SetShards(int(n))
	if s.cfg.Logger != nil {
		s.cfg.Logger.Info("store.shard.drop", "shard", index, "records", len(recs))
	}
	return true
}

// FindAllInShard は id が属するシャードのレコードのみを返します。
// シャードの数値範囲に識別子が収まるレコードに限定することで、
// 範囲外の迷い込みを除外します。
func (s *ShardedStore[R]) FindAllInShard(id int) []R {
	index := s.shardOf(id)
	v, ok := s.shards.Load(index)
	if !ok {
		return []R{}
	}
	lo := index * s.cfg.Capacity
	hi := lo + s.cfg.Capacity
	all := v.(*Shard[R]).All()
	out := make([]R, 0, len(all))
	for _, rec := range all {
		if rid, ok := rec.ID(); ok && rid >= lo && rid < hi {
			out = append(out, rec)
		}
	}
	return out
}

// scanAll は全シャードの走査を並列にファンアウトして連結します。
func (s *ShardedStore[R]) scanAll() []R {
	var (
		mu  sync.Mutex
		all []R
	)
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(scanParallelism)
	s.shards.Range(func(_, v any) bool {
		sh := v.(*Shard[R])
		g.Go(func() error {
			recs := sh.All()
			if len(recs) == 0 {
				return nil
			}
			mu.Lock()
			all = append(all, recs...)
			mu.Unlock()
			return nil
		})
		return true
	})
	_ = g.Wait() // 走査はエラーを返さない
	return all
}

func (s *ShardedStore[R]) sortRecords(recs []R) {
	sortByKeyThenID(recs, s.cfg.SortKey)
}
