package store

import "errors"

var (
	// ErrSlotConflict は別レコードが占有するスロットへの格納を表します。
	ErrSlotConflict = errors.New("slot occupied by a different record")
	// ErrMissingID は識別子未割り当てのレコードが渡されたことを表します。
	ErrMissingID = errors.New("record has no identifier")
)

// Repository はストアが協調コンポーネントへ公開する読み書き契約です。
// ShardedStore と MapStore の両方が実装します。
type Repository[R Record] interface {
	// FindByID は識別子でレコードを取得します。
	FindByID(id int) (R, bool)
	// Save はレコードを保存します。新規レコードには識別子を割り当てます。
	Save(rec R) (R, error)
	// Delete はレコードを削除します。未割り当てのレコードは無視されます。
	Delete(rec R)
	// DeleteByID は識別子でレコードを削除します。存在しない識別子は no-op です。
	DeleteByID(id int)
	// ExistsByID はレコードの存在を確認します。
	ExistsByID(id int) bool
	// Count は格納中のレコード数を返します。
	Count() int64
	// FindAll は全レコードを整列キー順に返します。
	FindAll() []R
	// FindPaginated は pred に一致するレコードを整列し、指定ページを返します。
	// pred が nil の場合は全レコードが対象になります。
	FindPaginated(pred func(R) bool, pageNumber, pageSize int) Page[R]
	// DeleteAll は全レコードを削除し、採番状態をリセットします。
	DeleteAll()
}
