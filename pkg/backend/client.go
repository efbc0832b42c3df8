package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// requestTimeout は下流サービスへの1呼び出しあたりのタイムアウト。
// パイプライン全体の時間制限は設けず、この呼び出し単位の制限のみで抑える。
const requestTimeout = 30 * time.Second

// ErrUnavailable は下流サービスへの接続失敗・名前解決失敗・タイムアウトを表す。
var ErrUnavailable = errors.New("下流サービスに接続できません")

// Error は下流サービスが返したHTTPエラーレスポンス。
// ステータスコードとメッセージを潰さずに保持し、ゲートウェイの
// エラー分類への変換は呼び出し側が行う。
type Error struct {
	// StatusCode は下流サービスが返したHTTPステータスコード。
	StatusCode int
	// Message はレスポンスボディから抽出したエラーメッセージ。
	Message string
}

// Error はerrorインターフェースを実装する。
func (e *Error) Error() string {
	return fmt.Sprintf("下流サービスエラー: status=%d, message=%s", e.StatusCode, e.Message)
}

// IsStatus はerrが指定ステータスコードの下流サービスエラーかを報告する。
func IsStatus(err error, statusCode int) bool {
	var berr *Error
	return errors.As(err, &berr) && berr.StatusCode == statusCode
}

// Client は下流サービス1つに対するHTTPクライアント。
// タイムアウトとエラー変換の挙動を全サービスで統一する。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
	// baseURL は接続先サービスのベースURL。
	baseURL string
}

// New は新しい下流サービス用HTTPクライアントを生成する。
// baseURLには接続先サービスのベースURL（例: "http://authors:3001"）を指定する。
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL: baseURL,
	}
}

// Get は指定パスにGETリクエストを送信し、レスポンスボディをそのまま返す。
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post は指定パスにJSONボディでPOSTリクエストを送信する。
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Patch は指定パスにJSONボディでPATCHリクエストを送信する。
func (c *Client) Patch(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPatch, path, body)
}

// Delete は指定パスにDELETEリクエストを送信する。
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

// GetJSON は指定パスにGETリクエストを送信し、レスポンスボディをresultにデシリアライズする。
func (c *Client) GetJSON(ctx context.Context, path string, result any) error {
	raw, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("レスポンスボディのデシリアライズに失敗: %w", err)
	}
	return nil
}

// PostJSON は指定パスにJSONボディでPOSTリクエストを送信し、
// レスポンスボディをresultにデシリアライズする。
func (c *Client) PostJSON(ctx context.Context, path string, body any, result any) error {
	raw, err := c.Post(ctx, path, body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("レスポンスボディのデシリアライズに失敗: %w", err)
	}
	return nil
}

// do はHTTPリクエストを実行する共通処理。
// 2xx以外のレスポンスは*Errorとして、通信自体の失敗はErrUnavailableとして返す。
func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("リクエストボディのシリアライズに失敗: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// コンテキストからリクエストIDを伝播する
	if requestID, ok := ctx.Value(contextKeyRequestID).(string); ok {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み取りに失敗: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{StatusCode: resp.StatusCode, Message: extractMessage(respBody)}
	}
	return respBody, nil
}

// maxRawMessageLen はエラーメッセージとして採用する生ボディの最大長。
const maxRawMessageLen = 200

// extractMessage は下流サービスのエラーボディからメッセージを抽出する。
// {"error":{"message":...}} 形式、{"message":...} 形式、生テキストの順に試す。
func extractMessage(body []byte) string {
	var wrapped struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Error.Message != "" {
		return wrapped.Error.Message
	}

	var flat struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &flat); err == nil && flat.Message != "" {
		return flat.Message
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > maxRawMessageLen {
		msg = msg[:maxRawMessageLen]
	}
	return msg
}

// contextKey はコンテキストキーの型。
type contextKey string

// contextKeyRequestID はコンテキストにリクエストIDを格納するためのキー。
const contextKeyRequestID contextKey = "request_id"

// WithRequestID はコンテキストにリクエストIDを設定する。
// 下流サービス呼び出し時にX-Request-IDヘッダーとして伝播される。
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}
