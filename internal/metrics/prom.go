package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Prom は Prometheus を使ったメトリクス実装です。
type Prom struct {
	saveNew      prometheus.Counter
	saveUpdate   prometheus.Counter
	findHit      prometheus.Counter
	findMiss     prometheus.Counter
	deleted      prometheus.Counter
	idReused     prometheus.Counter
	shardCreated prometheus.Counter
	shardDropped prometheus.Counter
	shards       prometheus.Gauge
}

// NewProm は Prometheus を使ったメトリクス実装を初期化します。
func NewProm(namespace string) *Prom {
	makeC := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		})
	}
	makeG := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		})
	}

	p := &Prom{
		saveNew:      makeC("save_new_total", "Number of new records saved"),
		saveUpdate:   makeC("save_update_total", "Number of records updated"),
		findHit:      makeC("find_hit_total", "Number of lookups that found a record"),
		findMiss:     makeC("find_miss_total", "Number of lookups that found nothing"),
		deleted:      makeC("deleted_total", "Number of records deleted"),
		idReused:     makeC("id_reused_total", "Number of identifiers reused from the free queue"),
		shardCreated: makeC("shard_created_total", "Number of shards created"),
		shardDropped: makeC("shard_dropped_total", "Number of shards dropped"),
		shards:       makeG("shards_current", "Current number of live shards"),
	}

	// Register (重複登録は無視したいので MustRegister で panic するなら再利用側で 1 回だけ呼ぶ設計)
	prometheus.MustRegister(
		p.saveNew, p.saveUpdate, p.findHit, p.findMiss,
		p.deleted, p.idReused, p.shardCreated, p.shardDropped, p.shards,
	)
	return p
}

// IncSaveNew は新規レコードが保存されたことをカウントします。
func (p *Prom) IncSaveNew() { p.saveNew.Inc() }

// IncSaveUpdate は既存レコードが更新されたことをカウントします。
func (p *Prom) IncSaveUpdate() { p.saveUpdate.Inc() }

// IncFindHit は検索ヒットをカウントします。
func (p *Prom) IncFindHit() { p.findHit.Inc() }

// IncFindMiss は検索ミスをカウントします。
func (p *Prom) IncFindMiss() { p.findMiss.Inc() }

// AddDeleted は削除されたレコード数を加算します。
func (p *Prom) AddDeleted(n int) {
	if n > 0 {
		p.deleted.Add(float64(n))
	}
}

// IncIDReused は識別子が再利用されたことをカウントします。
func (p *Prom) IncIDReused() { p.idReused.Inc() }

// IncShardCreated はシャードが作成されたことをカウントします。
func (p *Prom) IncShardCreated() { p.shardCreated.Inc() }

// IncShardDropped はシャードが破棄されたことをカウントします。
func (p *Prom) IncShardDropped() { p.shardDropped.Inc() }

// SetShards は現在のシャード数を設定します。
func (p *Prom) SetShards(n int) {
	if n >= 0 {
		p.shards.Set(float64(n))
	}
}
