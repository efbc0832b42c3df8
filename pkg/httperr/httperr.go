// Package httperr はゲートウェイがクライアントへ返すエラーの分類を提供する。
//
// ハンドラやミドルウェアは本パッケージの型付きエラーを返すだけで、
// HTTPレスポンスへの変換はpkg/middlewareの集中拒否ハンドラが1箇所で行う。
// これによりエラーの発生箇所に関わらずレスポンスの形が一定になる。
package httperr

import (
	"fmt"
	"net/http"
)

// Error はクライアントへ返すエラー。JSONボディにそのまま埋め込まれる。
type Error struct {
	// StatusCode はHTTPステータスコード。
	StatusCode int `json:"statusCode"`
	// Message はエラーの説明。
	Message string `json:"message"`
}

// Error はerrorインターフェースを実装する。
func (e *Error) Error() string {
	return fmt.Sprintf("status=%d: %s", e.StatusCode, e.Message)
}

// Body はエラーレスポンスのJSON構造。
// クライアントはstatusCodeだけで分岐できる。
type Body struct {
	// Error はエラーの詳細。
	Error *Error `json:"error"`
}

// New は任意のステータスコードを持つエラーを生成する。
func New(statusCode int, message string) *Error {
	return &Error{StatusCode: statusCode, Message: message}
}

// Unauthorized はトークンの欠落・不正・期限切れを表す（401）。
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

// Forbidden はトークンは有効だが権限が不足していることを表す（403）。
func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

// BadRequest は下流サービス呼び出し前に検出した不正な入力を表す（400）。
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// UnprocessableEntity は利用者登録・ログインの検証失敗を表す（422）。
func UnprocessableEntity(message string) *Error {
	return New(http.StatusUnprocessableEntity, message)
}

// NotFound はルート・参照先エンティティ・下流リソースの不在を表す（404）。
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Unavailable は下流サービスへの接続失敗・タイムアウトを表す（503）。
func Unavailable(message string) *Error {
	return New(http.StatusServiceUnavailable, message)
}

// Internal は上記のいずれにも分類できない失敗を表す（500）。
func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}
