package gateway

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	_ "modernc.org/sqlite"

	"github.com/nao1215/bms-gateway/pkg/authz"
	"github.com/nao1215/bms-gateway/pkg/backend"
	"github.com/nao1215/bms-gateway/pkg/httperr"
	"github.com/nao1215/bms-gateway/pkg/middleware"
)

// Server はAPI GatewayサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// jwtSecret はJWT検証用の秘密鍵。起動時に1度だけ設定され変更されない。
	jwtSecret string
	// authors は著者サービスへのHTTPクライアント。
	authors *backend.Client
	// books は書籍サービスへのHTTPクライアント。
	books *backend.Client
	// categories はカテゴリサービスへのHTTPクライアント。
	categories *backend.Client
	// auth は認証サービスへのHTTPクライアント。
	auth *backend.Client
	// audit は監査記録の書き込み先。
	audit *auditStore
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// serviceURLConfig は下流サービスのURL設定。
type serviceURLConfig struct {
	Authors    string
	Books      string
	Categories string
	Auth       string
}

// NewServer は新しいGatewayサーバーを生成する。
func NewServer(port string) (*Server, error) {
	sqlDB, err := sql.Open("sqlite", "/data/gateway.db?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	if err := initSchema(sqlDB); err != nil {
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "dev-secret-key"
	}

	urls := serviceURLConfig{
		Authors:    getEnvOr("AUTHOR_SERVICE_URL", "http://localhost:3001"),
		Books:      getEnvOr("BOOK_SERVICE_URL", "http://localhost:3002"),
		Categories: getEnvOr("CATEGORY_SERVICE_URL", "http://localhost:3003"),
		Auth:       getEnvOr("AUTH_SERVICE_URL", "http://localhost:3004"),
	}

	frontendURL := getEnvOr("FRONTEND_URL", "http://localhost:3000")

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS([]string{frontendURL}))
	router.Use(middleware.RequestID())

	s := &Server{
		router:     router,
		port:       port,
		jwtSecret:  jwtSecret,
		authors:    backend.New(urls.Authors),
		books:      backend.New(urls.Books),
		categories: backend.New(urls.Categories),
		auth:       backend.New(urls.Auth),
		audit:      newAuditStore(sqlDB),
		db:         sqlDB,
	}
	router.Use(s.auditMiddleware())
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// handlerFunc は型付きエラーを返すハンドラ関数。
// ハンドラはエラーレスポンスを直接書き込まず、失敗を返すだけでよい。
type handlerFunc func(c *gin.Context) (any, error)

// route は1エンドポイントのルーティングと認可のメタデータ。
type route struct {
	// method はHTTPメソッド。
	method string
	// path はGin形式のパステンプレート。
	path string
	// required はアクセスに必要な権限。空の場合は認証のみで許可する。
	required []authz.Permission
	// allowAlways は認証なしで到達可能なパスを示す。
	allowAlways bool
	// handler はルートに対応するハンドラ。
	handler handlerFunc
}

// perms は要求権限の列挙を簡潔に書くためのヘルパー。
func perms(p ...authz.Permission) []authz.Permission {
	return p
}

// routes は静的ルートテーブルを返す。起動時に1度だけ構築され、
// 全ルートの認可メタデータをこの1箇所で宣言する。
func (s *Server) routes() []route {
	return []route{
		// 認証・ドキュメント（常時許可）
		{method: http.MethodPost, path: "/signup", allowAlways: true, handler: s.handleSignup},
		{method: http.MethodPost, path: "/login", allowAlways: true, handler: s.handleLogin},
		{method: http.MethodGet, path: "/explorer", allowAlways: true, handler: s.handleExplorer},
		{method: http.MethodGet, path: "/health", allowAlways: true, handler: s.handleHealth},

		// 著者
		{method: http.MethodGet, path: "/authors", required: perms(authz.PermGetAuthor), handler: s.handleListAuthors},
		{method: http.MethodPost, path: "/authors", required: perms(authz.PermPostAuthor), handler: s.handleCreateAuthor},
		{method: http.MethodGet, path: "/authors/:id", required: perms(authz.PermGetAuthorByID), handler: s.handleGetAuthorByID},
		{method: http.MethodPatch, path: "/authors/:id", required: perms(authz.PermPatchAuthor), handler: s.handleUpdateAuthor},
		{method: http.MethodDelete, path: "/authors/:id", required: perms(authz.PermDeleteAuthor), handler: s.handleDeleteAuthor},

		// 書籍
		{method: http.MethodGet, path: "/books", required: perms(authz.PermGetBook), handler: s.handleListBooks},
		{method: http.MethodPost, path: "/books", required: perms(authz.PermPostBook), handler: s.handleCreateBook},
		{method: http.MethodGet, path: "/books/:id", required: perms(authz.PermGetBookByID), handler: s.handleGetBookByID},
		{method: http.MethodPatch, path: "/books/:id", required: perms(authz.PermPatchBook), handler: s.handleUpdateBook},
		{method: http.MethodDelete, path: "/books/:id", required: perms(authz.PermDeleteBook), handler: s.handleDeleteBook},

		// カテゴリ
		{method: http.MethodGet, path: "/categories", required: perms(authz.PermGetCategory), handler: s.handleListCategories},
		{method: http.MethodPost, path: "/categories", required: perms(authz.PermPostCategory), handler: s.handleCreateCategory},
		{method: http.MethodGet, path: "/categories/:id", required: perms(authz.PermGetCategoryByID), handler: s.handleGetCategoryByID},
		{method: http.MethodPatch, path: "/categories/:id", required: perms(authz.PermPatchCategory), handler: s.handleUpdateCategory},
		{method: http.MethodDelete, path: "/categories/:id", required: perms(authz.PermDeleteCategory), handler: s.handleDeleteCategory},
	}
}

// setupRoutes はルートテーブルをGinルーターに登録する。
// 常時許可でないルートにはトークン検証と権限強制のミドルウェアを適用する。
func (s *Server) setupRoutes() {
	for _, r := range s.routes() {
		handlers := make([]gin.HandlerFunc, 0, 3)
		if !r.allowAlways {
			handlers = append(handlers,
				middleware.BearerAuth(s.jwtSecret),
				middleware.RequirePermission(r.required...),
			)
		}
		handlers = append(handlers, s.wrap(r.handler))
		s.router.Handle(r.method, r.path, handlers...)
	}

	// ルート未解決も統一エラーボディの404で返す
	s.router.NoRoute(func(c *gin.Context) {
		middleware.Reject(c, httperr.NotFound(fmt.Sprintf("ルートが見つかりません: %s %s", c.Request.Method, c.Request.URL.Path)))
	})
}

// wrap はhandlerFuncをGinハンドラに変換する。成功時は200でJSONを返し、
// 失敗時は集中拒否ハンドラがエラーレスポンスを書き込む。
// 作成を含む全操作で200を返すのは本システムの規約。
func (s *Server) wrap(h handlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := h(c)
		if err != nil {
			middleware.Reject(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// requestContext は下流サービス呼び出し用のコンテキストを構築する。
// クライアント切断でキャンセルされ、リクエストIDが下流へ伝播される。
func requestContext(c *gin.Context) context.Context {
	return backend.WithRequestID(c.Request.Context(), middleware.GetRequestID(c))
}

// mapBackendError は下流サービスのエラーをゲートウェイのエラー分類へ変換する。
// 分類に対応するステータス（400/401/403/404）は保持し、
// それ以外はfallbackメッセージの500へ潰す。通信不能は503で返す。
func mapBackendError(err error, fallback string) error {
	if errors.Is(err, backend.ErrUnavailable) {
		return httperr.Unavailable("下流サービスに接続できません")
	}
	var berr *backend.Error
	if errors.As(err, &berr) {
		switch berr.StatusCode {
		case http.StatusBadRequest:
			return httperr.BadRequest(berr.Message)
		case http.StatusUnauthorized:
			return httperr.Unauthorized(berr.Message)
		case http.StatusForbidden:
			return httperr.Forbidden(berr.Message)
		case http.StatusNotFound:
			return httperr.NotFound(berr.Message)
		}
	}
	return httperr.Internal(fallback)
}

// handleHealth はヘルスチェックに応答するハンドラ。
func (s *Server) handleHealth(_ *gin.Context) (any, error) {
	return gin.H{"status": "ok", "service": "gateway"}, nil
}

// explorerRoute はドキュメントエンドポイントが返す1ルートの情報。
type explorerRoute struct {
	// Method はHTTPメソッド。
	Method string `json:"method"`
	// Path はパステンプレート。
	Path string `json:"path"`
	// RequiredPermissions はアクセスに必要な権限の一覧。
	RequiredPermissions []string `json:"requiredPermissions"`
	// AllowAlways は認証なしで到達可能かどうか。
	AllowAlways bool `json:"allowAlways"`
}

// handleExplorer はルートテーブルから生成したAPIドキュメントを返すハンドラ。
func (s *Server) handleExplorer(_ *gin.Context) (any, error) {
	tbl := s.routes()
	routes := make([]explorerRoute, 0, len(tbl))
	for _, r := range tbl {
		required := make([]string, 0, len(r.required))
		for _, p := range r.required {
			required = append(required, string(p))
		}
		routes = append(routes, explorerRoute{
			Method:              r.method,
			Path:                r.path,
			RequiredPermissions: required,
			AllowAlways:         r.allowAlways,
		})
	}
	return gin.H{"service": "bms-gateway", "routes": routes}, nil
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
