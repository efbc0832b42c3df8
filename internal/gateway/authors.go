package gateway

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/bms-gateway/pkg/backend"
	"github.com/nao1215/bms-gateway/pkg/httperr"
)

// createAuthorRequest は著者作成リクエストのJSON構造。
type createAuthorRequest struct {
	// AuthorName は著者名。
	AuthorName string `json:"authorName" binding:"required"`
}

// updateAuthorRequest は著者更新リクエストのJSON構造。全フィールド任意。
type updateAuthorRequest struct {
	// AuthorName は著者名。
	AuthorName *string `json:"authorName"`
}

// handleListAuthors は著者一覧を取得するハンドラ。
func (s *Server) handleListAuthors(c *gin.Context) (any, error) {
	raw, err := s.authors.Get(requestContext(c), "/authors")
	if err != nil {
		return nil, mapBackendError(err, "著者一覧の取得に失敗しました")
	}
	return raw, nil
}

// handleCreateAuthor は著者を作成するハンドラ。
func (s *Server) handleCreateAuthor(c *gin.Context) (any, error) {
	var req createAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, httperr.BadRequest("著者名は必須の文字列です")
	}

	raw, err := s.authors.Post(requestContext(c), "/authors", req)
	if err != nil {
		return nil, mapBackendError(err, "著者の作成に失敗しました")
	}
	return raw, nil
}

// handleGetAuthorByID は著者をIDで取得するハンドラ。
func (s *Server) handleGetAuthorByID(c *gin.Context) (any, error) {
	id := c.Param("id")
	raw, err := s.authors.Get(requestContext(c), "/authors/"+id)
	if err != nil {
		if backend.IsStatus(err, http.StatusNotFound) {
			return nil, httperr.NotFound(fmt.Sprintf("著者ID %q が見つかりません", id))
		}
		return nil, mapBackendError(err, "著者の取得に失敗しました")
	}
	return raw, nil
}

// handleUpdateAuthor は著者を部分更新するハンドラ。
func (s *Server) handleUpdateAuthor(c *gin.Context) (any, error) {
	var req updateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, httperr.BadRequest("リクエストボディが不正です")
	}

	updates := map[string]any{}
	if req.AuthorName != nil {
		updates["authorName"] = *req.AuthorName
	}

	id := c.Param("id")
	raw, err := s.authors.Patch(requestContext(c), "/authors/"+id, updates)
	if err != nil {
		if backend.IsStatus(err, http.StatusNotFound) {
			return nil, httperr.NotFound(fmt.Sprintf("著者ID %q が見つかりません", id))
		}
		return nil, mapBackendError(err, "著者の更新に失敗しました")
	}
	return raw, nil
}

// handleDeleteAuthor は著者を削除するハンドラ。
func (s *Server) handleDeleteAuthor(c *gin.Context) (any, error) {
	id := c.Param("id")
	raw, err := s.authors.Delete(requestContext(c), "/authors/"+id)
	if err != nil {
		if backend.IsStatus(err, http.StatusNotFound) {
			return nil, httperr.NotFound(fmt.Sprintf("著者ID %q が見つかりません", id))
		}
		return nil, mapBackendError(err, "著者の削除に失敗しました")
	}
	return raw, nil
}
