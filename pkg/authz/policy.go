package authz

// RoutePolicy は1ルートの認可メタデータ。ルートテーブルの各エントリが持つ。
type RoutePolicy struct {
	// AllowAlways は認証なしで到達可能なパス（ログイン・登録・ドキュメント等）を示す。
	AllowAlways bool
	// Required はアクセスに必要な権限。いずれか1つを持てば許可される。
	Required []Permission
}

// Decide はプリンシパルがルートにアクセスできるかを判定する。
//
// AllowAlwaysのルートは無条件に許可する。要求権限のないルートは
// 認証済みであれば許可する（意図的なデフォルトオープン。注釈の省略で
// エンドポイントを公開できる逃げ道として維持している）。
// それ以外はプリンシパルの権限集合と要求権限が交差する場合のみ許可する。
func Decide(p *Principal, policy RoutePolicy) bool {
	if policy.AllowAlways {
		return true
	}
	if p == nil {
		return false
	}
	if len(policy.Required) == 0 {
		return true
	}
	for _, required := range policy.Required {
		if p.HasPermission(required) {
			return true
		}
	}
	return false
}
