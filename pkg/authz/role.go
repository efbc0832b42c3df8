package authz

// Role は利用者のロール。閉じた列挙であり、権限はロールから導出される。
type Role string

const (
	// RoleAdmin は全リソースの全操作が可能な管理者。
	RoleAdmin Role = "Admin"
	// RoleLibrarian は削除を除く全操作が可能な司書。
	RoleLibrarian Role = "Librarian"
	// RoleUser は参照のみ可能な一般利用者。
	RoleUser Role = "User"
)

// rolePermissions はロール別権限テーブル。
// Admin ⊇ Librarian ⊇ User の単調な包含関係を保つこと。
// 認証サービスがトークン発行時に参照する契約であり、ゲートウェイは
// 検証時にこのテーブルから権限を再計算しない（トークンの値をそのまま使う）。
var rolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermGetAuthor, PermPostAuthor, PermPatchAuthor, PermDeleteAuthor, PermGetAuthorByID,
		PermGetBook, PermPostBook, PermPatchBook, PermDeleteBook, PermGetBookByID,
		PermGetCategory, PermPostCategory, PermPatchCategory, PermDeleteCategory, PermGetCategoryByID,
	},
	RoleLibrarian: {
		PermGetAuthor, PermPostAuthor, PermPatchAuthor, PermGetAuthorByID,
		PermGetBook, PermPostBook, PermPatchBook, PermGetBookByID,
		PermGetCategory, PermPostCategory, PermPatchCategory, PermGetCategoryByID,
	},
	RoleUser: {
		PermGetAuthor, PermGetAuthorByID,
		PermGetBook, PermGetBookByID,
		PermGetCategory, PermGetCategoryByID,
	},
}

// ValidRole はroleが定義済みロールのいずれかであるかを報告する。
func ValidRole(role string) bool {
	_, ok := rolePermissions[Role(role)]
	return ok
}

// PermissionsForRole はロールに割り当てられた権限の一覧を返す。
// 未定義のロールに対してはnilを返す。返り値はテーブルのコピーであり、
// 呼び出し側が変更してもテーブルには影響しない。
func PermissionsForRole(role Role) []Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
