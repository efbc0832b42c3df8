package gateway

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/bms-gateway/pkg/backend"
	"github.com/nao1215/bms-gateway/pkg/httperr"
)

// createCategoryRequest はカテゴリ作成リクエストのJSON構造。
type createCategoryRequest struct {
	// Genre はジャンル名。
	Genre string `json:"genre" binding:"required"`
}

// updateCategoryRequest はカテゴリ更新リクエストのJSON構造。全フィールド任意。
type updateCategoryRequest struct {
	// Genre はジャンル名。
	Genre *string `json:"genre"`
}

// handleListCategories はカテゴリ一覧を取得するハンドラ。
func (s *Server) handleListCategories(c *gin.Context) (any, error) {
	raw, err := s.categories.Get(requestContext(c), "/categories")
	if err != nil {
		return nil, mapBackendError(err, "カテゴリ一覧の取得に失敗しました")
	}
	return raw, nil
}

// handleCreateCategory はカテゴリを作成するハンドラ。
func (s *Server) handleCreateCategory(c *gin.Context) (any, error) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, httperr.BadRequest("ジャンル名は必須の文字列です")
	}

	raw, err := s.categories.Post(requestContext(c), "/categories", req)
	if err != nil {
		return nil, mapBackendError(err, "カテゴリの作成に失敗しました")
	}
	return raw, nil
}

// handleGetCategoryByID はカテゴリをIDで取得するハンドラ。
func (s *Server) handleGetCategoryByID(c *gin.Context) (any, error) {
	id := c.Param("id")
	raw, err := s.categories.Get(requestContext(c), "/categories/"+id)
	if err != nil {
		if backend.IsStatus(err, http.StatusNotFound) {
			return nil, httperr.NotFound(fmt.Sprintf("カテゴリID %q が見つかりません", id))
		}
		return nil, mapBackendError(err, "カテゴリの取得に失敗しました")
	}
	return raw, nil
}

// handleUpdateCategory はカテゴリを部分更新するハンドラ。
func (s *Server) handleUpdateCategory(c *gin.Context) (any, error) {
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, httperr.BadRequest("リクエストボディが不正です")
	}

	updates := map[string]any{}
	if req.Genre != nil {
		updates["genre"] = *req.Genre
	}

	id := c.Param("id")
	raw, err := s.categories.Patch(requestContext(c), "/categories/"+id, updates)
	if err != nil {
		if backend.IsStatus(err, http.StatusNotFound) {
			return nil, httperr.NotFound(fmt.Sprintf("カテゴリID %q が見つかりません", id))
		}
		return nil, mapBackendError(err, "カテゴリの更新に失敗しました")
	}
	return raw, nil
}

// handleDeleteCategory はカテゴリを削除するハンドラ。
func (s *Server) handleDeleteCategory(c *gin.Context) (any, error) {
	id := c.Param("id")
	raw, err := s.categories.Delete(requestContext(c), "/categories/"+id)
	if err != nil {
		if backend.IsStatus(err, http.StatusNotFound) {
			return nil, httperr.NotFound(fmt.Sprintf("カテゴリID %q が見つかりません", id))
		}
		return nil, mapBackendError(err, "カテゴリの削除に失敗しました")
	}
	return raw, nil
}
