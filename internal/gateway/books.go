package gateway

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/bms-gateway/pkg/backend"
	"github.com/nao1215/bms-gateway/pkg/httperr"
)

// createBookRequest は書籍作成リクエストのJSON構造。
// 著者とカテゴリはIDではなく名前で指定し、ゲートウェイがIDへ解決する。
type createBookRequest struct {
	// Title は書籍のタイトル。
	Title string `json:"title" binding:"required"`
	// ISBN は書籍のISBNコード。
	ISBN string `json:"isbn" binding:"required"`
	// PublicationDate は出版日。
	PublicationDate string `json:"publicationDate"`
	// Price は価格。
	Price float64 `json:"price" binding:"required"`
	// DiscountPrice は割引価格。
	DiscountPrice *float64 `json:"discountPrice"`
	// AuthorName は著者名。存在する著者に解決できない場合は404になる。
	AuthorName string `json:"authorName" binding:"required"`
	// CategoryName はジャンル名。省略した場合カテゴリ参照はnullになる。
	CategoryName string `json:"categoryName"`
}

// bookPayload は書籍サービスへ送る作成ペイロード。
// 名前解決後のIDを持ち、authorName・categoryNameは含まない。
type bookPayload struct {
	Title           string   `json:"title"`
	ISBN            string   `json:"isbn"`
	PublicationDate string   `json:"publicationDate,omitempty"`
	Price           float64  `json:"price"`
	DiscountPrice   *float64 `json:"discountPrice,omitempty"`
	AuthorID        int      `json:"authorId"`
	CategoryID      *int     `json:"categoryId"`
}

// updateBookRequest は書籍更新リクエストのJSON構造。全フィールド任意。
// authorName・categoryNameが指定された場合はIDへ解決してから転送する。
type updateBookRequest struct {
	Title           *string  `json:"title"`
	ISBN            *string  `json:"isbn"`
	PublicationDate *string  `json:"publicationDate"`
	Price           *float64 `json:"price"`
	DiscountPrice   *float64 `json:"discountPrice"`
	AuthorName      *string  `json:"authorName"`
	CategoryName    *string  `json:"categoryName"`
}

// handleListBooks は書籍一覧を取得し、全要素に著者・カテゴリを付加して返すハンドラ。
func (s *Server) handleListBooks(c *gin.Context) (any, error) {
	ctx := requestContext(c)

	var books []bookData
	if err := s.books.GetJSON(ctx, "/books", &books); err != nil {
		return nil, mapBackendError(err, "書籍一覧の取得に失敗しました")
	}

	enriched, err := s.enrichBooks(ctx, books)
	if err != nil {
		log.Printf("書籍一覧の付加に失敗: %v", err)
		return nil, httperr.Internal("書籍情報の付加に失敗しました")
	}
	return enriched, nil
}

// handleGetBookByID は書籍をIDで取得し、著者・カテゴリを付加して返すハンドラ。
func (s *Server) handleGetBookByID(c *gin.Context) (any, error) {
	ctx := requestContext(c)
	id := c.Param("id")

	var book bookData
	if err := s.books.GetJSON(ctx, "/books/"+id, &book); err != nil {
		if backend.IsStatus(err, http.StatusNotFound) {
			return nil, httperr.NotFound(fmt.Sprintf("書籍ID %q が見つかりません", id))
		}
		return nil, mapBackendError(err, "書籍の取得に失敗しました")
	}

	enriched, err := s.enrichBook(ctx, book)
	if err != nil {
		log.Printf("書籍(ID=%s)の付加に失敗: %v", id, err)
		return nil, httperr.Internal("書籍情報の付加に失敗しました")
	}
	return enriched, nil
}

// handleCreateBook は書籍を作成するハンドラ。
// 著者名（必須）とジャンル名（任意）をIDへ解決してから書籍サービスへ転送し、
// 作成された書籍に解決済みの著者・カテゴリを付加して返す。
// 名前解決に失敗した場合、書籍サービスは呼び出されない。
func (s *Server) handleCreateBook(c *gin.Context) (any, error) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, httperr.BadRequest("タイトル・ISBN・価格・著者名は必須です")
	}

	ctx := requestContext(c)

	author, err := s.resolveAuthorByName(ctx, req.AuthorName)
	if err != nil {
		return nil, err
	}

	var category *categoryData
	var categoryID *int
	if req.CategoryName != "" {
		category, err = s.resolveCategoryByName(ctx, req.CategoryName)
		if err != nil {
			return nil, err
		}
		categoryID = &category.CategoryID
	}

	payload := bookPayload{
		Title:           req.Title,
		ISBN:            req.ISBN,
		PublicationDate: req.PublicationDate,
		Price:           req.Price,
		DiscountPrice:   req.DiscountPrice,
		AuthorID:        author.AuthorID,
		CategoryID:      categoryID,
	}

	var created bookData
	if err := s.books.PostJSON(ctx, "/books", payload, &created); err != nil {
		return nil, mapBackendError(err, "書籍の作成に失敗しました")
	}

	return &enrichedBook{bookData: created, Author: author, Category: category}, nil
}

// handleUpdateBook は書籍を部分更新するハンドラ。
// 指定されたフィールドのみを転送し、authorName・categoryNameは
// 転送前にIDへ解決する。
func (s *Server) handleUpdateBook(c *gin.Context) (any, error) {
	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, httperr.BadRequest("リクエストボディが不正です")
	}

	ctx := requestContext(c)

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.ISBN != nil {
		updates["isbn"] = *req.ISBN
	}
	if req.PublicationDate != nil {
		updates["publicationDate"] = *req.PublicationDate
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.DiscountPrice != nil {
		updates["discountPrice"] = *req.DiscountPrice
	}
	if req.AuthorName != nil {
		author, err := s.resolveAuthorByName(ctx, *req.AuthorName)
		if err != nil {
			return nil, err
		}
		updates["authorId"] = author.AuthorID
	}
	if req.CategoryName != nil {
		category, err := s.resolveCategoryByName(ctx, *req.CategoryName)
		if err != nil {
			return nil, err
		}
		updates["categoryId"] = category.CategoryID
	}

	id := c.Param("id")
	raw, err := s.books.Patch(ctx, "/books/"+id, updates)
	if err != nil {
		if backend.IsStatus(err, http.StatusNotFound) {
			return nil, httperr.NotFound(fmt.Sprintf("書籍ID %q が見つかりません", id))
		}
		return nil, mapBackendError(err, "書籍の更新に失敗しました")
	}
	return raw, nil
}

// handleDeleteBook は書籍を削除するハンドラ。
func (s *Server) handleDeleteBook(c *gin.Context) (any, error) {
	id := c.Param("id")
	raw, err := s.books.Delete(requestContext(c), "/books/"+id)
	if err != nil {
		if backend.IsStatus(err, http.StatusNotFound) {
			return nil, httperr.NotFound(fmt.Sprintf("書籍ID %q が見つかりません", id))
		}
		return nil, mapBackendError(err, "書籍の削除に失敗しました")
	}
	return raw, nil
}
