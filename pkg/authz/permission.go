// Package authz はゲートウェイの認可モデルを提供する。
//
// 権限トークン（リソースとHTTPメソッドの組ごとに1つ）、ロールと
// ロール別権限テーブル、そしてルートごとの認可判定を含む。
// テーブルは起動時に固定され、実行中に変更されることはない。
package authz

// Permission は1つの(リソース, HTTPメソッド)の組に対応する権限トークン。
// 認証サービスがトークン発行時にプリンシパルへ埋め込む。
type Permission string

// ゲートウェイが公開する全権限の列挙。
const (
	PermGetAuthor       Permission = "GET_AUTHOR"
	PermPostAuthor      Permission = "POST_AUTHOR"
	PermPatchAuthor     Permission = "PATCH_AUTHOR"
	PermDeleteAuthor    Permission = "DELETE_AUTHOR"
	PermGetAuthorByID   Permission = "GET_AUTHOR_BY_ID"
	PermGetBook         Permission = "GET_BOOK"
	PermPostBook        Permission = "POST_BOOK"
	PermPatchBook       Permission = "PATCH_BOOK"
	PermDeleteBook      Permission = "DELETE_BOOK"
	PermGetBookByID     Permission = "GET_BOOK_BY_ID"
	PermGetCategory     Permission = "GET_CATEGORY"
	PermPostCategory    Permission = "POST_CATEGORY"
	PermPatchCategory   Permission = "PATCH_CATEGORY"
	PermDeleteCategory  Permission = "DELETE_CATEGORY"
	PermGetCategoryByID Permission = "GET_CATEGORY_BY_ID"
)

// AllPermissions は全権限トークンの一覧を返す。
func AllPermissions() []Permission {
	return []Permission{
		PermGetAuthor, PermPostAuthor, PermPatchAuthor, PermDeleteAuthor, PermGetAuthorByID,
		PermGetBook, PermPostBook, PermPatchBook, PermDeleteBook, PermGetBookByID,
		PermGetCategory, PermPostCategory, PermPatchCategory, PermDeleteCategory, PermGetCategoryByID,
	}
}
