package authz

import (
	"slices"
	"time"
)

// Principal は1リクエストの認証済み利用者。
// 有効なトークンから1度だけ導出され、リクエストの処理中は不変。
// リクエスト終了とともに破棄され、ゲートウェイには永続化されない。
type Principal struct {
	// UserID は利用者の一意識別子。
	UserID string
	// Email は利用者のメールアドレス。
	Email string
	// Role は利用者のロール。
	Role Role
	// Permissions はトークン発行時に埋め込まれた権限の集合。
	Permissions []Permission
	// IssuedAt はトークンの発行日時。
	IssuedAt time.Time
}

// HasPermission はプリンシパルが指定された権限を持つかを報告する。
func (p *Principal) HasPermission(perm Permission) bool {
	return slices.Contains(p.Permissions, perm)
}
