package store

import (
	"fmt"
	"sync"
)

// MapStore は単一の並行マップと採番器だけで構成される非シャード構成の
// ストアです。マップがキー単位の原子性を提供するためスロットロックは
// 不要で、シャード分割の利益が出ない小さなコレクション向けです。
type MapStore[R Record] struct {
	cfg   Config[R]
	mu    sync.RWMutex
	items map[int]R
	alloc *IDAllocator
}

var _ Repository[Record] = (*MapStore[Record])(nil)

// NewMap は新しい MapStore を作成します。
func NewMap[R Record](opts ...Option[R]) *MapStore[R] {
	cfg := applyOptions(opts)
	return &MapStore[R]{
		cfg:   cfg,
		items: make(map[int]R),
		alloc: NewIDAllocator(cfg.Seed),
	}
}

// FindByID は識別子でレコードを取得します。
func (m *MapStore[R]) FindByID(id int) (R, bool) {
	m.mu.RLock()
	rec, ok := m.items[id]
	m.mu.RUnlock()
	if ok {
		m.cfg.Metrics.IncFindHit()
	} else {
		m.cfg.Metrics.IncFindMiss()
	}
	return rec, ok
}

// Save はレコードを保存します。新規レコードには識別子を割り当てます。
// 採番直後のキーが既に使われている場合は採番の不変条件が壊れているため、
// 既存レコードを上書きせず回復不能なエラーとして返します。
func (m *MapStore[R]) Save(rec R) (R, error) {
	var zero R
	if id, ok := rec.ID(); ok {
		m.mu.Lock()
		_, existed := m.items[id]
		m.items[id] = rec
		m.mu.Unlock()
		if existed {
			m.cfg.Metrics.IncSaveUpdate()
		} else {
			m.cfg.Metrics.IncSaveNew()
		}
		if m.cfg.Logger != nil {
			m.cfg.Logger.Debug("store.save", "id", id, "update", existed)
		}
		return rec, nil
	}

	id, reused := m.alloc.Allocate()
	rec.SetID(id)
	m.mu.Lock()
	if _, occupied := m.items[id]; occupied {
		m.mu.Unlock()
		return zero, fmt.Errorf("save new record %d: allocator invariant broken: %w", id, ErrSlotConflict)
	}
	m.items[id] = rec
	m.mu.Unlock()
	m.cfg.Metrics.IncSaveNew()
	if reused {
		m.cfg.Metrics.IncIDReused()
	}
	if m.cfg.Logger != nil {
		m.cfg.Logger.Debug("store.save", "id", id, "update", false)
	}
	return rec, nil
}

// Delete はレコードを削除します。識別子未割り当てのレコードは無視されます。
func (m *MapStore[R]) Delete(rec R) {
	if id, ok := rec.ID(); ok {
		m.DeleteByID(id)
	}
}

// DeleteByID は識別子でレコードを削除し、識別子を再利用キューへ返却します。
func (m *MapStore[R]) DeleteByID(id int) {
	m.mu.Lock()
	_, existed := m.items[id]
	if existed {
		delete(m.items, id)
	}
	m.mu.Unlock()
	if existed {
		m.alloc.Release(id)
		m.cfg.Metrics.AddDeleted(1)
	}
}

// ExistsByID はレコードの存在を確認します。
func (m *MapStore[R]) ExistsByID(id int) bool {
	m.mu.RLock()
	_, ok := m.items[id]
	m.mu.RUnlock()
	return ok
}

// Count は格納中のレコード数を返します。
func (m *MapStore[R]) Count() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.items))
}

// FindAll は全レコードを整列キー順に返します。
func (m *MapStore[R]) FindAll() []R {
	all := m.snapshot()
	m.sortRecords(all)
	return all
}

// FindPaginated は pred に一致するレコードを整列し、指定ページを返します。
func (m *MapStore[R]) FindPaginated(pred func(R) bool, pageNumber, pageSize int) Page[R] {
	all := m.snapshot()
	filtered := all
	if pred != nil {
		filtered = make([]R, 0, len(all))
		for _, rec := range all {
			if pred(rec) {
				filtered = append(filtered, rec)
			}
		}
	}
	m.sortRecords(filtered)
	return pageOf(filtered, pageNumber, pageSize)
}

// DeleteAll は全レコードを削除し、採番状態をリセットします。
func (m *MapStore[R]) DeleteAll() {
	m.mu.Lock()
	m.items = make(map[int]R)
	m.mu.Unlock()
	m.alloc.Reset()
	if m.cfg.Logger != nil {
		m.cfg.Logger.Info("store.delete_all")
	}
}

func (m *MapStore[R]) snapshot() []R {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]R, 0, len(m.items))
	for _, rec := range m.items {
		out = append(out, rec)
	}
	return out
}

func (m *MapStore[R]) sortRecords(recs []R) {
	key := m.cfg.SortKey
	sortByKeyThenID(recs, key)
}
