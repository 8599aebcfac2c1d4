package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger はアプリケーション共通のログ抽象です。
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// Slog は log/slog を使った Logger 実装です。
type Slog struct {
	l *slog.Logger
}

// New は環境変数 LOG_LEVEL / LOG_FORMAT に従った Slog を作成します。
// LOG_LEVEL=debug でデバッグログ、LOG_FORMAT=json で JSON 出力になります。
func New() *Slog {
	level := slog.LevelInfo
	if strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug") {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return &Slog{l: slog.New(h)}
}

// NewDiscard は出力を捨てる Slog を作成します。テスト用です。
func NewDiscard() *Slog {
	h := slog.NewTextHandler(io.Discard, nil)
	return &Slog{l: slog.New(h)}
}

func (s *Slog) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *Slog) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *Slog) Error(msg string, args ...any) { s.l.Error(msg, args...) }
