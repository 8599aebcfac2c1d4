package store

// testRec はテスト用の最小レコード実装です。
type testRec struct {
	id        int
	persisted bool
	name      string
}

func newRec(name string) *testRec {
	return &testRec{name: name}
}

func recAt(id int, name string) *testRec {
	return &testRec{id: id, persisted: true, name: name}
}

func (r *testRec) ID() (int, bool) { return r.id, r.persisted }

func (r *testRec) SetID(id int) {
	r.id = id
	r.persisted = true
}

func recName(r *testRec) string { return r.name }
