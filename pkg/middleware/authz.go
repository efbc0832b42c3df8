package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/nao1215/bms-gateway/pkg/authz"
	"github.com/nao1215/bms-gateway/pkg/httperr"
)

// RequirePermission はルートの要求権限を強制するGinミドルウェアを返す。
// BearerAuthの後段に適用すること。要求権限を持たないプリンシパルは
// ハンドラへ到達する前に403で拒否される（下流サービスは呼び出されない）。
// requiredが空の場合、認証済みであれば許可する。
func RequirePermission(required ...authz.Permission) gin.HandlerFunc {
	policy := authz.RoutePolicy{Required: required}
	return func(c *gin.Context) {
		if !authz.Decide(GetPrincipal(c), policy) {
			Reject(c, httperr.Forbidden("この操作を行う権限がありません"))
			return
		}
		c.Next()
	}
}
