package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ilog "github.com/amakane-hakari/recstore/internal/log"
	"github.com/amakane-hakari/recstore/internal/record"
	"github.com/amakane-hakari/recstore/internal/store"
)

// NewRouter はレコードストアのHTTPルータを作成します。
func NewRouter(st *store.ShardedStore[*record.Record], l ilog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestIDMiddleware())
	r.Use(RecoverMiddleware(l))
	r.Use(AccessLog(l))

	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	h := &recordHandler{st: st}
	h.mount(r)
	return r
}
