// Package record はストアに格納するエンティティレコードを定義します。
package record

// Record は名前を持つエンティティレコードです。
// 識別子はストアの Save が割り当てるまで未設定です。
type Record struct {
	id        int
	persisted bool

	Name  string
	Attrs map[string]string
}

// New は識別子未割り当てのレコードを作成します。
func New(name string) *Record {
	return &Record{Name: name}
}

// Persisted は識別子割り当て済みのレコードを作成します。
// シャード一括投入など、識別子が外から与えられる経路で使います。
func Persisted(id int, name string) *Record {
	return &Record{id: id, persisted: true, Name: name}
}

// ID は割り当て済みの識別子と割り当て有無を返します。
func (r *Record) ID() (int, bool) {
	return r.id, r.persisted
}

// SetID は識別子を割り当てます。
func (r *Record) SetID(id int) {
	r.id = id
	r.persisted = true
}

// SortKey はレコードの整列キー（名前）を返します。
func SortKey(r *Record) string {
	return r.Name
}
