package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	ilog "github.com/amakane-hakari/recstore/internal/log"
	"github.com/amakane-hakari/recstore/internal/record"
	"github.com/amakane-hakari/recstore/internal/store"
)

func newTestServer() *httptest.Server {
	st := store.NewSharded[*record.Record](
		store.WithCapacity[*record.Record](50),
		store.WithSortKey[*record.Record](record.SortKey),
	)
	return httptest.NewServer(NewRouter(st, ilog.NewDiscard()))
}

type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

func decodeData[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	var env dataEnvelope[T]
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env.Data
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return res
}

func TestHealth(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request error : %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRecords_CRUD(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	// POST
	res := doJSON(t, http.MethodPost, ts.URL+"/records", recordRequest{Name: "alice"})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create status %d", res.StatusCode)
	}
	created := decodeData[recordDTO](t, res)
	if created.ID != 1 || created.Name != "alice" {
		t.Fatalf("unexpected created record: %+v", created)
	}

	// GET
	res = doJSON(t, http.MethodGet, fmt.Sprintf("%s/records/%d", ts.URL, created.ID), nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get status %d", res.StatusCode)
	}
	got := decodeData[recordDTO](t, res)
	if got.Name != "alice" {
		t.Fatalf("expected alice, got %s", got.Name)
	}

	// PUT
	res = doJSON(t, http.MethodPut, fmt.Sprintf("%s/records/%d", ts.URL, created.ID), recordRequest{Name: "alice v2"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update status %d", res.StatusCode)
	}
	got = decodeData[recordDTO](t, res)
	if got.Name != "alice v2" {
		t.Fatalf("expected updated name, got %s", got.Name)
	}

	// DELETE
	res = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/records/%d", ts.URL, created.ID), nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("delete status %d", res.StatusCode)
	}

	// GET again (not found)
	res = doJSON(t, http.MethodGet, fmt.Sprintf("%s/records/%d", ts.URL, created.ID), nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
}

func TestRecords_ListAndPagination(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	for i := 0; i < 25; i++ {
		res := doJSON(t, http.MethodPost, ts.URL+"/records", recordRequest{Name: fmt.Sprintf("rec%02d", i)})
		if res.StatusCode != http.StatusCreated {
			t.Fatalf("create %d status %d", i, res.StatusCode)
		}
	}
	res := doJSON(t, http.MethodPost, ts.URL+"/records", recordRequest{Name: "other"})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create other status %d", res.StatusCode)
	}

	// プレフィックス検索 + ページング
	res = doJSON(t, http.MethodGet, ts.URL+"/records?name=rec&page=2&size=10", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list status %d", res.StatusCode)
	}
	page := decodeData[pageDTO](t, res)
	if page.TotalElements != 25 {
		t.Fatalf("expected 25 matches, got %d", page.TotalElements)
	}
	if len(page.Content) != 5 {
		t.Fatalf("expected 5 items on last page, got %d", len(page.Content))
	}
	if page.Content[0].Name != "rec20" {
		t.Fatalf("expected rec20 first, got %s", page.Content[0].Name)
	}

	// 範囲外ページは空
	res = doJSON(t, http.MethodGet, ts.URL+"/records?name=rec&page=9&size=10", nil)
	page = decodeData[pageDTO](t, res)
	if len(page.Content) != 0 || page.TotalElements != 25 {
		t.Fatalf("expected empty page with total 25, got %d/%d", len(page.Content), page.TotalElements)
	}

	// count
	res = doJSON(t, http.MethodGet, ts.URL+"/records/count", nil)
	count := decodeData[countDTO](t, res)
	if count.Count != 26 {
		t.Fatalf("expected count 26, got %d", count.Count)
	}
}

func TestShards_InsertDeleteCycle(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	batch := insertShardRequest{}
	for id := 1000; id < 1010; id++ {
		batch.Records = append(batch.Records, recordDTO{ID: id, Name: fmt.Sprintf("bulk%d", id)})
	}

	// 一括投入
	res := doJSON(t, http.MethodPost, ts.URL+"/shards", batch)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("insert shard status %d", res.StatusCode)
	}
	inserted := decodeData[insertShardResponse](t, res)
	if inserted.Inserted != 10 {
		t.Fatalf("expected 10 inserted, got %d", inserted.Inserted)
	}

	// 再投入は 409
	res = doJSON(t, http.MethodPost, ts.URL+"/shards", batch)
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on repeat insert, got %d", res.StatusCode)
	}

	// シャード内の全件取得
	res = doJSON(t, http.MethodGet, ts.URL+"/records/1005/shard", nil)
	recs := decodeData[[]recordDTO](t, res)
	if len(recs) != 10 {
		t.Fatalf("expected 10 records in shard, got %d", len(recs))
	}

	// シャード削除
	res = doJSON(t, http.MethodDelete, ts.URL+"/records/1005/shard", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("delete shard status %d", res.StatusCode)
	}
	res = doJSON(t, http.MethodDelete, ts.URL+"/records/1005/shard", nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 on missing shard, got %d", res.StatusCode)
	}
}

func TestRecords_DeleteAll(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	for i := 0; i < 3; i++ {
		doJSON(t, http.MethodPost, ts.URL+"/records", recordRequest{Name: "r"})
	}
	res := doJSON(t, http.MethodDelete, ts.URL+"/records", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("delete all status %d", res.StatusCode)
	}

	res = doJSON(t, http.MethodGet, ts.URL+"/records/count", nil)
	count := decodeData[countDTO](t, res)
	if count.Count != 0 {
		t.Fatalf("expected empty store, got %d", count.Count)
	}
}

func TestRecords_BadRequests(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	// 不正な識別子
	res := doJSON(t, http.MethodGet, ts.URL+"/records/abc", nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid id, got %d", res.StatusCode)
	}

	// 名前なし
	res = doJSON(t, http.MethodPost, ts.URL+"/records", recordRequest{})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty name, got %d", res.StatusCode)
	}

	// 壊れた JSON
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/records", bytes.NewBufferString(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed json, got %d", res.StatusCode)
	}

	// 識別子なしの一括投入
	res = doJSON(t, http.MethodPost, ts.URL+"/shards", insertShardRequest{
		Records: []recordDTO{{Name: "noid"}},
	})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for record without id, got %d", res.StatusCode)
	}
}
