package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/nao1215/bms-gateway/pkg/authz"
	"github.com/nao1215/bms-gateway/pkg/httperr"
)

// Claims はJWTトークンのクレーム（ペイロード）を表す。
// ロールと権限は認証サービスがトークン発行時に埋め込んだ値であり、
// 検証時に再計算せずそのまま復号する。
type Claims struct {
	jwt.RegisteredClaims
	// UserID は認証済み利用者の一意識別子。
	UserID string `json:"userId"`
	// Email は利用者のメールアドレス。
	Email string `json:"email"`
	// Role は利用者のロール。
	Role string `json:"role"`
	// Permissions は発行時に割り当てられた権限の一覧。
	Permissions []string `json:"permissions"`
}

// Principal はクレームからリクエスト用のプリンシパルを構築する。
func (c *Claims) Principal() *authz.Principal {
	perms := make([]authz.Permission, 0, len(c.Permissions))
	for _, p := range c.Permissions {
		perms = append(perms, authz.Permission(p))
	}

	var issuedAt time.Time
	if c.IssuedAt != nil {
		issuedAt = c.IssuedAt.Time
	}

	return &authz.Principal{
		UserID:      c.UserID,
		Email:       c.Email,
		Role:        authz.Role(c.Role),
		Permissions: perms,
		IssuedAt:    issuedAt,
	}
}

// contextKeyPrincipal はGinコンテキストにプリンシパルを格納するためのキー。
const contextKeyPrincipal = "principal"

// BearerAuth はBearerトークンを検証するGinミドルウェアを返す。
// 検証に成功した場合、コンテキストにプリンシパルを設定する。
// 秘密鍵はプロセス起動時に1度だけ設定され、以後変更されない。
func BearerAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			Reject(c, httperr.Unauthorized("Authorizationヘッダーが必要です"))
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			Reject(c, httperr.Unauthorized("Bearer トークン形式が不正です"))
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			// 期限切れは署名不正と区別して返す。どちらも401であり403にはしない。
			if errors.Is(err, jwt.ErrTokenExpired) {
				Reject(c, httperr.Unauthorized("トークンの有効期限が切れています"))
				return
			}
			Reject(c, httperr.Unauthorized("トークンが無効です"))
			return
		}

		c.Set(contextKeyPrincipal, claims.Principal())
		c.Next()
	}
}

// GetPrincipal はGinコンテキストからプリンシパルを取得する。
// BearerAuthミドルウェアが事前に適用されていない場合はnilを返す。
func GetPrincipal(c *gin.Context) *authz.Principal {
	value, ok := c.Get(contextKeyPrincipal)
	if !ok {
		return nil
	}
	principal, ok := value.(*authz.Principal)
	if !ok {
		return nil
	}
	return principal
}
