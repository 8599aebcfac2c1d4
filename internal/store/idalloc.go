package store

import "sync"

// IDAllocator は識別子の採番を管理します。
// 削除で返却された識別子を FIFO で優先的に再利用し、
// 再利用できるものがなければ単調増加カウンタから採番します。
type IDAllocator struct {
	mu   sync.Mutex
	seed int
	next int
	free []int
}

// NewIDAllocator は seed から採番を開始する IDAllocator を作成します。
// seed が 1 未満の場合は 1 に切り上げます。
func NewIDAllocator(seed int) *IDAllocator {
	if seed < 1 {
		seed = 1
	}
	return &IDAllocator{seed: seed, next: seed}
}

// Allocate は識別子を 1 つ払い出します。
// reused は再利用キューから取り出した識別子かどうかを表します。
func (a *IDAllocator) Allocate() (id int, reused bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.free) > 0 {
		id = a.free[0]
		a.free = a.free[1:]
		return id, true
	}
	id = a.next
	a.next++
	return id, false
}

// Release は削除済みの識別子を再利用キューへ返却します。
// スロットを占有したままの識別子を返却した場合の動作は未定義です。
func (a *IDAllocator) Release(id int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.free = append(a.free, id)
}

// Reset は再利用キューを破棄し、カウンタを seed に戻します。
func (a *IDAllocator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.free = nil
	a.next = a.seed
}

// Pending は再利用待ちの識別子数を返します。
func (a *IDAllocator) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.free)
}
