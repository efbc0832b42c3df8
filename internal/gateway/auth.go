package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/bms-gateway/pkg/authz"
	"github.com/nao1215/bms-gateway/pkg/backend"
	"github.com/nao1215/bms-gateway/pkg/httperr"
)

// signupRequest は利用者登録リクエストのJSON構造。
type signupRequest struct {
	// Username は利用者名。
	Username string `json:"username" binding:"required"`
	// Email はメールアドレス。
	Email string `json:"email" binding:"required,email"`
	// Password はパスワード。8文字以上。
	Password string `json:"password" binding:"required,min=8"`
	// Role は利用者のロール。Admin・Librarian・Userのいずれか。
	Role string `json:"role" binding:"required"`
}

// handleSignup は利用者登録を認証サービスへ転送するハンドラ。
// 入力検証は下流呼び出しの前に行い、不正な入力は通信せずに422で返す。
func (s *Server) handleSignup(c *gin.Context) (any, error) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, httperr.UnprocessableEntity("登録内容が不正です: 利用者名・メールアドレス・パスワード（8文字以上）・ロールを確認してください")
	}
	if !authz.ValidRole(req.Role) {
		return nil, httperr.UnprocessableEntity(fmt.Sprintf("ロール %q は使用できません", req.Role))
	}

	raw, err := s.auth.Post(requestContext(c), "/jwt/auth/signup", req)
	if err != nil {
		return nil, mapAuthError(err, "利用者の登録に失敗しました")
	}
	return raw, nil
}

// loginRequest はログインリクエストのJSON構造。
type loginRequest struct {
	// Email はメールアドレス。
	Email string `json:"email" binding:"required,email"`
	// Password はパスワード。
	Password string `json:"password" binding:"required,min=8"`
}

// handleLogin はログインを認証サービスへ転送するハンドラ。
// 成功時は認証サービスが発行したトークンを含むレスポンスをそのまま返す。
func (s *Server) handleLogin(c *gin.Context) (any, error) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, httperr.UnprocessableEntity("ログイン内容が不正です: メールアドレスとパスワード（8文字以上）を確認してください")
	}

	raw, err := s.auth.Post(requestContext(c), "/jwt/auth/login", req)
	if err != nil {
		return nil, mapAuthError(err, "ログインに失敗しました")
	}
	return raw, nil
}

// mapAuthError は認証サービスのエラーをゲートウェイのエラー分類へ変換する。
// 認証失敗（401）は保持し、それ以外の4xx（メール重複・検証失敗）は422へ、
// 通信不能は503へ、残りはfallbackメッセージの500へ潰す。
func mapAuthError(err error, fallback string) error {
	if errors.Is(err, backend.ErrUnavailable) {
		return httperr.Unavailable("認証サービスに接続できません")
	}
	var berr *backend.Error
	if errors.As(err, &berr) && berr.StatusCode >= 400 && berr.StatusCode < 500 {
		if berr.StatusCode == http.StatusUnauthorized {
			return httperr.Unauthorized(berr.Message)
		}
		return httperr.UnprocessableEntity(berr.Message)
	}
	return httperr.Internal(fallback)
}
