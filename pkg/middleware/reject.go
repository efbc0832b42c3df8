package middleware

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/bms-gateway/pkg/httperr"
)

// Reject はエラーをクライアント向けのHTTPエラーレスポンスへ変換する。
// パイプライン中でエラーレスポンスを書き込むのはこの関数だけであり、
// 発生箇所に関わらず {"error":{"statusCode","message"}} の形で返す。
// 分類されていないエラーは詳細をログに残し、500に潰してから返す。
func Reject(c *gin.Context, err error) {
	var herr *httperr.Error
	if !errors.As(err, &herr) {
		log.Printf("未分類のエラーを500に変換: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		herr = httperr.Internal("内部サーバーエラーが発生しました")
	}
	c.AbortWithStatusJSON(herr.StatusCode, httperr.Body{Error: herr})
}
