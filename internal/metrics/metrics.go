package metrics

import (
	"sync/atomic"
)

// Interface はメトリクス更新用抽象
type Interface interface {
	IncSaveNew()
	IncSaveUpdate()
	IncFindHit()
	IncFindMiss()
	AddDeleted(n int)
	IncIDReused()
	IncShardCreated()
	IncShardDropped()
	SetShards(n int)
}

// Noop は何もしないメトリクス実装
type Noop struct{}

// IncSaveNew は何もしないメトリクス実装
func (Noop) IncSaveNew() {}

// IncSaveUpdate は何もしないメトリクス実装
func (Noop) IncSaveUpdate() {}

// IncFindHit は何もしないメトリクス実装
func (Noop) IncFindHit() {}

// IncFindMiss は何もしないメトリクス実装
func (Noop) IncFindMiss() {}

// AddDeleted は何もしないメトリクス実装
func (Noop) AddDeleted(_ int) {}

// IncIDReused は何もしないメトリクス実装
func (Noop) IncIDReused() {}

// IncShardCreated は何もしないメトリクス実装
func (Noop) IncShardCreated() {}

// IncShardDropped は何もしないメトリクス実装
func (Noop) IncShardDropped() {}

// SetShards は何もしないメトリクス実装
func (Noop) SetShards(_ int) {}

// Simple はシンプルなメトリクス実装です。
type Simple struct {
	SaveNew      atomic.Uint64
	SaveUpdate   atomic.Uint64
	FindHit      atomic.Uint64
	FindMiss     atomic.Uint64
	Deleted      atomic.Uint64
	IDReused     atomic.Uint64
	ShardCreated atomic.Uint64
	ShardDropped atomic.Uint64
	Shards       atomic.Uint64
}

// NewSimple は新しい Simple メトリクスを作成します。
func NewSimple() *Simple { return &Simple{} }

// IncSaveNew は新規レコードが保存されたことをカウントします。
func (m *Simple) IncSaveNew() { m.SaveNew.Add(1) }

// IncSaveUpdate は既存レコードが更新されたことをカウントします。
func (m *Simple) IncSaveUpdate() { m.SaveUpdate.Add(1) }

// IncFindHit は検索ヒットをカウントします。
func (m *Simple) IncFindHit() { m.FindHit.Add(1) }

// IncFindMiss は検索ミスをカウントします。
func (m *Simple) IncFindMiss() { m.FindMiss.Add(1) }

// AddDeleted は削除されたレコード数を加算します。
func (m *Simple) AddDeleted(n int) {
	if n > 0 {
		m.Deleted.Add(uint64(n))
	}
}

// IncIDReused は識別子が再利用されたことをカウントします。
func (m *Simple) IncIDReused() { m.IDReused.Add(1) }

// IncShardCreated はシャードが作成されたことをカウントします。
func (m *Simple) IncShardCreated() { m.ShardCreated.Add(1) }

// IncShardDropped はシャードが破棄されたことをカウントします。
func (m *Simple) IncShardDropped() { m.ShardDropped.Add(1) }

// SetShards は現在のシャード数を設定します。
func (m *Simple) SetShards(n int) {
	if n >= 0 {
		m.Shards.Store(uint64(n))
	}
}
