package gateway

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/nao1215/bms-gateway/pkg/authz"
)

// TestCategoryHandlers はカテゴリルートの転送とエラー変換を検証する。
func TestCategoryHandlers(t *testing.T) {
	t.Parallel()

	t.Run("一覧取得が下流のレスポンスをそのまま返すこと", func(t *testing.T) {
		t.Parallel()

		categoriesBackend := newStaticBackend(t, map[string]string{
			"/categories": `[{"categoryId":1,"genre":"技術書"},{"categoryId":2,"genre":"小説"}]`,
		})

		s := newTestServer(t, serviceURLConfig{Categories: categoriesBackend.URL})
		w := doRequest(t, s, http.MethodGet, "/categories", mintToken(t, authz.RoleUser), nil)

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var categories []categoryData
		if err := json.Unmarshal(w.Body.Bytes(), &categories); err != nil {
			t.Fatalf("レスポンスボディのパースに失敗: %v", err)
		}
		if len(categories) != 2 || categories[0].Genre != "技術書" {
			t.Errorf("categories = %+v", categories)
		}
	})

	t.Run("ジャンル名が欠けた作成は400になること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, serviceURLConfig{})
		w := doRequest(t, s, http.MethodPost, "/categories", mintToken(t, authz.RoleLibrarian), map[string]any{})

		assertErrorBody(t, w, http.StatusBadRequest, "ジャンル名は必須")
	})

	t.Run("存在しないカテゴリIDは404でIDを含むメッセージが返ること", func(t *testing.T) {
		t.Parallel()

		categoriesBackend := newStaticBackend(t, map[string]string{})

		s := newTestServer(t, serviceURLConfig{Categories: categoriesBackend.URL})
		w := doRequest(t, s, http.MethodGet, "/categories/999", mintToken(t, authz.RoleUser), nil)

		assertErrorBody(t, w, http.StatusNotFound, `カテゴリID "999" が見つかりません`)
	})

	t.Run("Userロールでもカテゴリの参照は許可されること", func(t *testing.T) {
		t.Parallel()

		categoriesBackend := newStaticBackend(t, map[string]string{
			"/categories/1": `{"categoryId":1,"genre":"技術書"}`,
		})

		s := newTestServer(t, serviceURLConfig{Categories: categoriesBackend.URL})
		w := doRequest(t, s, http.MethodGet, "/categories/1", mintToken(t, authz.RoleUser), nil)

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}
	})

	t.Run("Userロールによるカテゴリ作成は403になること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, serviceURLConfig{})
		w := doRequest(t, s, http.MethodPost, "/categories", mintToken(t, authz.RoleUser), map[string]any{
			"genre": "技術書",
		})

		assertErrorBody(t, w, http.StatusForbidden, "権限がありません")
	})
}
