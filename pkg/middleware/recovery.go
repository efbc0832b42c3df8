package middleware

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/bms-gateway/pkg/httperr"
)

// Recovery はパニックからの回復を行うGinミドルウェアを返す。
// パニック発生時に内容をログに出力し、集中拒否ハンドラ経由で
// 統一されたエラーボディの500を返す。
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[PANIC] %s %s: %v", c.Request.Method, c.Request.URL.Path, r)
				Reject(c, httperr.Internal("内部サーバーエラーが発生しました"))
			}
		}()
		c.Next()
	}
}
