package store

import (
	"github.com/amakane-hakari/recstore/internal/metrics"
)

// DefaultCapacity はシャード容量の既定値です。
const DefaultCapacity = 50

type logLike interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config はストアの設定を表します。
type Config[R Record] struct {
	Capacity int // シャードあたりのスロット数。構築後は変更不可
	Seed     int // 採番の開始値。0/未指定なら 1
	Logger   logLike
	Metrics  metrics.Interface
	SortKey  func(R) string // FindAll / FindPaginated の整列キー
}

// Option はストアのオプションを設定する関数です。
type Option[R Record] func(*Config[R])

// WithCapacity はシャード容量を設定するオプションです。
func WithCapacity[R Record](n int) Option[R] {
	return func(c *Config[R]) { c.Capacity = n }
}

// WithSeed は採番の開始値を設定するオプションです。
func WithSeed[R Record](n int) Option[R] {
	return func(c *Config[R]) { c.Seed = n }
}

// WithLogger はストアのロガーを設定するオプションです。
func WithLogger[R Record](l logLike) Option[R] {
	return func(c *Config[R]) { c.Logger = l }
}

// WithMetrics はストアのメトリクスを設定するオプションです。
func WithMetrics[R Record](m metrics.Interface) Option[R] {
	return func(c *Config[R]) { c.Metrics = m }
}

// WithSortKey は全件取得時の整列キーを設定するオプションです。
// 未設定の場合は識別子順になります。
func WithSortKey[R Record](fn func(R) string) Option[R] {
	return func(c *Config[R]) { c.SortKey = fn }
}

func defaultConfig[R Record]() Config[R] {
	return Config[R]{
		Capacity: DefaultCapacity,
		Seed:     1,
		Metrics:  metrics.Noop{},
	}
}

func applyOptions[R Record](opts []Option[R]) Config[R] {
	cfg := defaultConfig[R]()
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Noop{}
	}
	return cfg
}
