// Package middleware はゲートウェイのリクエストパイプラインを構成する
// Ginミドルウェアを提供する。
//
// Bearerトークンの検証（プリンシパルの導出）、ルートごとの権限強制、
// リクエストID割り当て、パニックリカバリ、CORS設定、そして全エラーを
// 統一ボディへ変換する集中拒否ハンドラを含む。
package middleware
