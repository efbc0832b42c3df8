package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nao1215/bms-gateway/pkg/authz"
)

// TestAuthorHandlers は著者ルートの転送とエラー変換を検証する。
func TestAuthorHandlers(t *testing.T) {
	t.Parallel()

	t.Run("一覧取得が下流のレスポンスをそのまま返すこと", func(t *testing.T) {
		t.Parallel()

		authorsBackend := newStaticBackend(t, map[string]string{
			"/authors": `[{"authorId":1,"authorName":"山田太郎"},{"authorId":2,"authorName":"鈴木花子"}]`,
		})

		s := newTestServer(t, serviceURLConfig{Authors: authorsBackend.URL})
		w := doRequest(t, s, http.MethodGet, "/authors", mintToken(t, authz.RoleUser), nil)

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var authors []authorData
		if err := json.Unmarshal(w.Body.Bytes(), &authors); err != nil {
			t.Fatalf("レスポンスボディのパースに失敗: %v", err)
		}
		if len(authors) != 2 || authors[0].AuthorName != "山田太郎" {
			t.Errorf("authors = %+v", authors)
		}
	})

	t.Run("作成リクエストが下流へ転送されること", func(t *testing.T) {
		t.Parallel()

		authorsBackend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/authors" {
				t.Errorf("予期しない呼び出し: %s %s", r.Method, r.URL.Path)
			}
			var received map[string]any
			if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
				t.Errorf("下流が受信したボディのパースに失敗: %v", err)
			}
			if received["authorName"] != "新規著者" {
				t.Errorf("下流が受信したauthorName = %v", received["authorName"])
			}
			w.Write([]byte(`{"authorId":3,"authorName":"新規著者"}`)) //nolint:errcheck
		}))
		t.Cleanup(authorsBackend.Close)

		s := newTestServer(t, serviceURLConfig{Authors: authorsBackend.URL})
		w := doRequest(t, s, http.MethodPost, "/authors", mintToken(t, authz.RoleLibrarian), map[string]any{
			"authorName": "新規著者",
		})

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}
	})

	t.Run("著者名が欠けた作成は400になること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, serviceURLConfig{})
		w := doRequest(t, s, http.MethodPost, "/authors", mintToken(t, authz.RoleLibrarian), map[string]any{})

		assertErrorBody(t, w, http.StatusBadRequest, "著者名は必須")
	})

	t.Run("存在しない著者IDは404でIDを含むメッセージが返ること", func(t *testing.T) {
		t.Parallel()

		authorsBackend := newStaticBackend(t, map[string]string{})

		s := newTestServer(t, serviceURLConfig{Authors: authorsBackend.URL})
		w := doRequest(t, s, http.MethodGet, "/authors/999", mintToken(t, authz.RoleUser), nil)

		assertErrorBody(t, w, http.StatusNotFound, `著者ID "999" が見つかりません`)
	})

	t.Run("部分更新で指定フィールドのみが転送されること", func(t *testing.T) {
		t.Parallel()

		authorsBackend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPatch || r.URL.Path != "/authors/1" {
				t.Errorf("予期しない呼び出し: %s %s", r.Method, r.URL.Path)
			}
			var received map[string]any
			if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
				t.Errorf("下流が受信したボディのパースに失敗: %v", err)
			}
			if len(received) != 1 || received["authorName"] != "改名後" {
				t.Errorf("下流が受信したボディ = %v, want authorNameのみ", received)
			}
			w.Write([]byte(`{"count":1}`)) //nolint:errcheck
		}))
		t.Cleanup(authorsBackend.Close)

		s := newTestServer(t, serviceURLConfig{Authors: authorsBackend.URL})
		w := doRequest(t, s, http.MethodPatch, "/authors/1", mintToken(t, authz.RoleLibrarian), map[string]any{
			"authorName": "改名後",
		})

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}
	})
}
