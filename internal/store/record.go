package store

// Record はストアが扱うエンティティレコードの契約です。
// ID の第2戻り値は識別子が割り当て済みかどうかを表します。
// false を返すレコードは「新規（未永続化）」として扱われ、
// 最初の Save で識別子が割り当てられます。
type Record interface {
	// ID は割り当て済みの識別子と割り当て有無を返します。
	ID() (int, bool)
	// SetID は識別子を割り当てます。Save が一度だけ呼び出します。
	SetID(id int)
}
