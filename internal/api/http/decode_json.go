package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// maxBodySize はリクエストボディの上限です。レコード 1 件や
// シャード 1 つ分のバッチには十分な大きさです。
const maxBodySize = 1 << 20 // 1MB

// DecodeJSON はリクエストボディのJSONを dst へデコードします。
// 未知のフィールドはレコードDTOの打ち間違いとして拒否します。
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return InvalidJSON("empty body")
	}
	defer func() {
		_ = r.Body.Close()
	}()

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var se *json.SyntaxError
		var ute *json.UnmarshalTypeError
		switch {
		case errors.As(err, &se):
			return InvalidJSON("malformed JSON")
		case errors.As(err, &ute):
			return InvalidJSON("type mismatch in JSON")
		default:
			return InvalidJSON("invalid JSON")
		}
	}
	// 余分なトークンがないか確認(多重JSON防止)
	if dec.More() {
		return InvalidJSON("multiple JSON values")
	}
	return nil
}
