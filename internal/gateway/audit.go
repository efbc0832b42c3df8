package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nao1215/bms-gateway/pkg/middleware"
)

// auditEntry は1リクエストの監査記録。
type auditEntry struct {
	// RequestID はリクエストIDミドルウェアが割り当てたID。
	RequestID string
	// Method はHTTPメソッド。
	Method string
	// Path は実際にリクエストされたパス。
	Path string
	// Subject は認証済みプリンシパルの利用者ID。未認証の場合は空。
	Subject string
	// Status はレスポンスのHTTPステータスコード。
	Status int
	// Duration はリクエスト処理にかかった時間。
	Duration time.Duration
}

// auditStore は監査記録をSQLiteへ書き込む。
// リクエストパイプラインからは書き込み専用であり、処理の判断には使わない。
type auditStore struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// newAuditStore は新しい監査記録ストアを生成する。
func newAuditStore(db *sql.DB) *auditStore {
	return &auditStore{db: db}
}

// record は監査記録を1件挿入する。
func (a *auditStore) record(ctx context.Context, entry auditEntry) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, request_id, method, path, subject, status, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(),
		entry.RequestID,
		entry.Method,
		entry.Path,
		entry.Subject,
		entry.Status,
		entry.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("監査記録の挿入に失敗: %w", err)
	}
	return nil
}

// auditWriteTimeout は監査記録1件の書き込みタイムアウト。
const auditWriteTimeout = 5 * time.Second

// auditMiddleware はレスポンス送信後に監査記録を書き込むGinミドルウェアを返す。
// 書き込みはリクエスト処理をブロックせず、失敗はログに残すだけで
// レスポンスには影響しない。
func (s *Server) auditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := auditEntry{
			RequestID: middleware.GetRequestID(c),
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    c.Writer.Status(),
			Duration:  time.Since(start),
		}
		if principal := middleware.GetPrincipal(c); principal != nil {
			entry.Subject = principal.UserID
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
			defer cancel()
			if err := s.audit.record(ctx, entry); err != nil {
				log.Printf("監査記録の書き込みに失敗: %v", err)
			}
		}()
	}
}
