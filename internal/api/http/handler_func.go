package http

import "net/http"

// HandlerFunc はエラーを返すレコードAPIハンドラの型です。
// 返されたエラーは AppError へ変換してレスポンスに書き出します。
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

func (h HandlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h(w, r); err != nil {
		writeError(w, FromStdError(err))
	}
}
