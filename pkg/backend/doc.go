// Package backend は下流サービスへのHTTP通信を行うクライアントを提供する。
//
// ゲートウェイが著者・書籍・カテゴリ・認証の各サービスを呼び出す際に使用する。
// タイムアウトは呼び出し単位で統一し、下流のHTTPエラーはステータスコードと
// メッセージを保持したまま呼び出し側へ返すことで、エラー変換の判断を
// ハンドラ側に残す。
package backend
