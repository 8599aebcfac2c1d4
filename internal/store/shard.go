package store

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// Shard は固定容量のスロット配列を持つ区画です。
// 連続したメモリ割り当て単位を模しており、スロットごとに独立した
// ロックを持つため、異なるスロットへの読み書きは直列化されません。
// 占有状況はビットマップで管理します。
type Shard[R Record] struct {
	index    int
	capacity int
	locks    []sync.Mutex
	slots    []R

	// occupied はスロット単位のロックでは保護できないため専用の
	// ロックで守る。クリティカルセクションはビット操作のみ。
	occMu    sync.Mutex
	occupied *roaring.Bitmap
}

func newShard[R Record](index, capacity int) *Shard[R] {
	return &Shard[R]{
		index:    index,
		capacity: capacity,
		locks:    make([]sync.Mutex, capacity),
		slots:    make([]R, capacity),
		occupied: roaring.New(),
	}
}

// Index はシャード番号を返します。
func (s *Shard[R]) Index() int { return s.index }

// Capacity はシャードの最大スロット数を返します。
func (s *Shard[R]) Capacity() int { return s.capacity }

// Store は index のスロットにレコードを格納します。
// 範囲外の index は false を返します。スロットが空いていれば挿入し、
// 同じ識別子のレコードが占有していれば上書き（更新）します。
// 異なる識別子のレコードが占有している場合は衝突として拒否します。
func (s *Shard[R]) Store(index int, rec R) bool {
	if index < 0 || index >= s.capacity {
		return false
	}
	s.locks[index].Lock()
	defer s.locks[index].Unlock()

	if s.hasBit(index) {
		existingID, eok := s.slots[index].ID()
		recID, rok := rec.ID()
		if eok && rok && existingID == recID {
			s.slots[index] = rec
			return true
		}
		// 別レコードが占有しているスロットへの格納は拒否する
		return false
	}
	s.slots[index] = rec
	s.setBit(index)
	return true
}

// Insert は index の空きスロットにのみレコードを格納します。
// 占有中のスロットには同じ識別子が入っていても格納せず false を返します。
// 採番直後の格納のように「空であるはず」のスロットに使います。
func (s *Shard[R]) Insert(index int, rec R) bool {
	if index < 0 || index >= s.capacity {
		return false
	}
	s.locks[index].Lock()
	defer s.locks[index].Unlock()
	if s.hasBit(index) {
		return false
	}
	s.slots[index] = rec
	s.setBit(index)
	return true
}

// Load は index のスロットのレコードを返します。
// 範囲外や未占有のスロットはエラーではなく「存在しない」扱いです。
func (s *Shard[R]) Load(index int) (R, bool) {
	var zero R
	if index < 0 || index >= s.capacity {
		return zero, false
	}
	s.locks[index].Lock()
	defer s.locks[index].Unlock()
	if !s.hasBit(index) {
		return zero, false
	}
	return s.slots[index], true
}

// Delete は index のスロットを解放します。
// 占有されていた場合のみ true を返します。識別子の返却は呼び出し側の責務です。
func (s *Shard[R]) Delete(index int) bool {
	if index < 0 || index >= s.capacity {
		return false
	}
	s.locks[index].Lock()
	defer s.locks[index].Unlock()
	if !s.hasBit(index) {
		return false
	}
	var zero R
	s.slots[index] = zero
	s.clearBit(index)
	return true
}

// All は占有中のレコードをスロット順に収集して返します。
// スロット単位でロックを取りながら走査するため、シャード全体としての
// 一貫したスナップショットにはなりません。
func (s *Shard[R]) All() []R {
	out := make([]R, 0, s.OccupiedCount())
	for i := 0; i < s.capacity; i++ {
		s.locks[i].Lock()
		if s.hasBit(i) {
			out = append(out, s.slots[i])
		}
		s.locks[i].Unlock()
	}
	return out
}

// IsOccupied は index のスロットが占有中かどうかを返します。
func (s *Shard[R]) IsOccupied(index int) bool {
	if index < 0 || index >= s.capacity {
		return false
	}
	s.locks[index].Lock()
	defer s.locks[index].Unlock()
	return s.hasBit(index)
}

// OccupiedCount は占有中のスロット数を返します。
func (s *Shard[R]) OccupiedCount() int {
	s.occMu.Lock()
	defer s.occMu.Unlock()
	return int(s.occupied.GetCardinality())
}

// Clear は全スロットを解放します。識別子の返却は行いません。
func (s *Shard[R]) Clear() {
	var zero R
	for i := 0; i < s.capacity; i++ {
		s.locks[i].Lock()
		s.slots[i] = zero
		s.clearBit(i)
		s.locks[i].Unlock()
	}
}

func (s *Shard[R]) hasBit(i int) bool {
	s.occMu.Lock()
	defer s.occMu.Unlock()
	return s.occupied.Contains(uint32(i))
}

func (s *Shard[R]) setBit(i int) {
	s.occMu.Lock()
	s.occupied.Add(uint32(i))
	s.occMu.Unlock()
}

func (s *Shard[R]) clearBit(i int) {
	s.occMu.Lock()
	s.occupied.Remove(uint32(i))
	s.occMu.Unlock()
}
