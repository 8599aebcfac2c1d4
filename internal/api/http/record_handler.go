package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/amakane-hakari/recstore/internal/record"
	"github.com/amakane-hakari/recstore/internal/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

type recordHandler struct {
	st *store.ShardedStore[*record.Record]
}

func (h *recordHandler) mount(r chi.Router) {
	r.Route("/records", func(r chi.Router) {
		r.Method(http.MethodPost, "/", HandlerFunc(h.create))
		r.Method(http.MethodGet, "/", HandlerFunc(h.list))
		r.Method(http.MethodDelete, "/", HandlerFunc(h.deleteAll))
		r.Method(http.MethodGet, "/count", HandlerFunc(h.count))
		r.Method(http.MethodGet, "/{id}", HandlerFunc(h.get))
		r.Method(http.MethodPut, "/{id}", HandlerFunc(h.update))
		r.Method(http.MethodDelete, "/{id}", HandlerFunc(h.del))
		r.Method(http.MethodGet, "/{id}/shard", HandlerFunc(h.shardRecords))
		r.Method(http.MethodDelete, "/{id}/shard", HandlerFunc(h.deleteShard))
	})
	r.Method(http.MethodPost, "/shards", HandlerFunc(h.insertShard))
}

type recordRequest struct {
	Name  string            `json:"name"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

type recordDTO struct {
	ID    int               `json:"id"`
	Name  string            `json:"name"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

type pageDTO struct {
	Content       []recordDTO `json:"content"`
	PageNumber    int         `json:"page_number"`
	PageSize      int         `json:"page_size"`
	TotalElements int         `json:"total_elements"`
}

type countDTO struct {
	Count int64 `json:"count"`
}

type statusDTO struct {
	Status string `json:"status"`
}

type insertShardRequest struct {
	Records []recordDTO `json:"records"`
}

type insertShardResponse struct {
	Inserted int `json:"inserted"`
}

func toDTO(rec *record.Record) recordDTO {
	id, _ := rec.ID()
	return recordDTO{ID: id, Name: rec.Name, Attrs: rec.Attrs}
}

func toDTOs(recs []*record.Record) []recordDTO {
	out := make([]recordDTO, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDTO(rec))
	}
	return out
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 0 {
		return 0, BadRequest("invalid id")
	}
	return id, nil
}

func (h *recordHandler) create(w http.ResponseWriter, r *http.Request) error {
	var req recordRequest
	if err := DecodeJSON(r, &req); err != nil {
		return err
	}
	if req.Name == "" {
		return BadRequest("empty name")
	}
	rec := record.New(req.Name)
	rec.Attrs = req.Attrs
	rec, err := h.st.Save(rec)
	if err != nil {
		return Internal("failed to store record")
	}
	writeSuccess(w, http.StatusCreated, toDTO(rec))
	return nil
}

func (h *recordHandler) get(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	rec, ok := h.st.FindByID(id)
	if !ok {
		return NotFound("record not found")
	}
	writeSuccess(w, http.StatusOK, toDTO(rec))
	return nil
}

func (h *recordHandler) update(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	var req recordRequest
	if err := DecodeJSON(r, &req); err != nil {
		return err
	}
	if req.Name == "" {
		return BadRequest("empty name")
	}
	rec := record.Persisted(id, req.Name)
	rec.Attrs = req.Attrs
	rec, err = h.st.Save(rec)
	if err != nil {
		if errors.Is(err, store.ErrSlotConflict) {
			return Conflict("slot occupied by a different record")
		}
		return Internal("failed to store record")
	}
	writeSuccess(w, http.StatusOK, toDTO(rec))
	return nil
}

func (h *recordHandler) del(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	h.st.DeleteByID(id)
	writeSuccess(w, http.StatusOK, recordDTO{ID: id})
	return nil
}

func (h *recordHandler) list(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()

	pageNumber := 0
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return BadRequest("invalid page")
		}
		pageNumber = n
	}
	pageSize := defaultPageSize
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageSize {
			return BadRequest("invalid size")
		}
		pageSize = n
	}

	var pred func(*record.Record) bool
	if prefix := q.Get("name"); prefix != "" {
		pred = func(rec *record.Record) bool {
			return strings.HasPrefix(rec.Name, prefix)
		}
	}

	page := h.st.FindPaginated(pred, pageNumber, pageSize)
	writeSuccess(w, http.StatusOK, pageDTO{
		Content:       toDTOs(page.Content),
		PageNumber:    page.PageNumber,
		PageSize:      page.PageSize,
		TotalElements: page.TotalElements,
	})
	return nil
}

func (h *recordHandler) count(w http.ResponseWriter, _ *http.Request) error {
	writeSuccess(w, http.StatusOK, countDTO{Count: h.st.Count()})
	return nil
}

func (h *recordHandler) deleteAll(w http.ResponseWriter, _ *http.Request) error {
	h.st.DeleteAll()
	writeSuccess(w, http.StatusOK, statusDTO{Status: "ok"})
	return nil
}

func (h *recordHandler) shardRecords(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	writeSuccess(w, http.StatusOK, toDTOs(h.st.FindAllInShard(id)))
	return nil
}

func (h *recordHandler) deleteShard(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	if !h.st.DeleteShardContaining(id) {
		return NotFound("shard not found")
	}
	writeSuccess(w, http.StatusOK, statusDTO{Status: "ok"})
	return nil
}

func (h *recordHandler) insertShard(w http.ResponseWriter, r *http.Request) error {
	var req insertShardRequest
	if err := DecodeJSON(r, &req); err != nil {
		return err
	}
	if len(req.Records) == 0 {
		return BadRequest("empty records")
	}
	recs := make([]*record.Record, 0, len(req.Records))
	for _, dto := range req.Records {
		if dto.ID < 1 {
			return BadRequest("record without id")
		}
		rec := record.Persisted(dto.ID, dto.Name)
		rec.Attrs = dto.Attrs
		recs = append(recs, rec)
	}
	ok, err := h.st.InsertShard(recs)
	if err != nil {
		if errors.Is(err, store.ErrSlotConflict) {
			return Conflict("slot occupied by a different record")
		}
		if errors.Is(err, store.ErrMissingID) {
			return BadRequest("record without id")
		}
		return Internal("failed to insert shard")
	}
	if !ok {
		return Conflict("shard already populated")
	}
	writeSuccess(w, http.StatusCreated, insertShardResponse{Inserted: len(recs)})
	return nil
}
