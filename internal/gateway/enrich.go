package gateway

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/bms-gateway/pkg/httperr"
)

// authorData は著者サービスのリソース表現。
type authorData struct {
	// AuthorID は著者の一意識別子。
	AuthorID int `json:"authorId"`
	// AuthorName は著者名。
	AuthorName string `json:"authorName"`
}

// categoryData はカテゴリサービスのリソース表現。
type categoryData struct {
	// CategoryID はカテゴリの一意識別子。
	CategoryID int `json:"categoryId"`
	// Genre はジャンル名。
	Genre string `json:"genre"`
}

// bookData は書籍サービスのリソース表現。
type bookData struct {
	// BookID は書籍の一意識別子。
	BookID int `json:"bookId"`
	// Title は書籍のタイトル。
	Title string `json:"title"`
	// ISBN は書籍のISBNコード。
	ISBN string `json:"isbn"`
	// PublicationDate は出版日。
	PublicationDate string `json:"publicationDate"`
	// Price は価格。
	Price float64 `json:"price"`
	// DiscountPrice は割引価格。設定されていない場合は省略される。
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
	// AuthorID は著者への参照。書籍は必ず著者を持つ。
	AuthorID int `json:"authorId"`
	// CategoryID はカテゴリへの参照。カテゴリを持たない書籍ではnull。
	CategoryID *int `json:"categoryId"`
}

// enrichedBook はクライアント向けの書籍表現。
// authorは必ず含まれ、categoryは参照が無い場合nullになる（省略はされない）。
// レスポンスごとに新しく構築され、リクエストを跨いで保持されることはない。
type enrichedBook struct {
	bookData
	// Author は付加された著者サブリソース。
	Author *authorData `json:"author"`
	// Category は付加されたカテゴリサブリソース。参照が無ければnull。
	Category *categoryData `json:"category"`
}

// enrichBook は書籍に著者とカテゴリのサブリソースを付加する。
// 両参照は互いに依存しないため並行に取得し、所要時間を
// 合計ではなく遅い方の1回分に抑える。いずれかの取得が失敗した場合、
// もう一方はコンテキスト経由でキャンセルされ全体が失敗する。
func (s *Server) enrichBook(ctx context.Context, book bookData) (*enrichedBook, error) {
	enriched := &enrichedBook{bookData: book}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var author authorData
		if err := s.authors.GetJSON(ctx, fmt.Sprintf("/authors/%d", book.AuthorID), &author); err != nil {
			return fmt.Errorf("著者(ID=%d)の取得に失敗: %w", book.AuthorID, err)
		}
		enriched.Author = &author
		return nil
	})
	if book.CategoryID != nil {
		categoryID := *book.CategoryID
		g.Go(func() error {
			var category categoryData
			if err := s.categories.GetJSON(ctx, fmt.Sprintf("/categories/%d", categoryID), &category); err != nil {
				return fmt.Errorf("カテゴリ(ID=%d)の取得に失敗: %w", categoryID, err)
			}
			enriched.Category = &category
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return enriched, nil
}

// enrichBooks はコレクション内の全書籍を並行して付加する。
// 要素ごとの付加は互いに独立なため、逐次実行で待ち時間がN倍になるのを避ける。
// 1件でも失敗した場合は残りをキャンセルし全体を失敗とする
// （部分的に付加されたリストは返さない）。
func (s *Server) enrichBooks(ctx context.Context, books []bookData) ([]*enrichedBook, error) {
	enriched := make([]*enrichedBook, len(books))

	g, ctx := errgroup.WithContext(ctx)
	for i, book := range books {
		i, book := i, book
		g.Go(func() error {
			e, err := s.enrichBook(ctx, book)
			if err != nil {
				return err
			}
			enriched[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return enriched, nil
}

// resolveAuthorByName は著者名から著者を解決する。
// 著者サービスの全件を取得し、大文字小文字を区別しない完全一致で探す。
// 一致が無ければ404を返し、書籍サービスへの呼び出しは行われない。
func (s *Server) resolveAuthorByName(ctx context.Context, name string) (*authorData, error) {
	var authors []authorData
	if err := s.authors.GetJSON(ctx, "/authors", &authors); err != nil {
		return nil, mapBackendError(err, "著者一覧の取得に失敗しました")
	}
	for i := range authors {
		if strings.EqualFold(authors[i].AuthorName, name) {
			return &authors[i], nil
		}
	}
	return nil, httperr.NotFound(fmt.Sprintf("著者 %q が見つかりません", name))
}

// resolveCategoryByName はジャンル名からカテゴリを解決する。
// 解決の仕組みはresolveAuthorByNameと同じだが、カテゴリは任意参照であり
// 呼び出し側は名前が指定された場合のみ解決を行う。
func (s *Server) resolveCategoryByName(ctx context.Context, genre string) (*categoryData, error) {
	var categories []categoryData
	if err := s.categories.GetJSON(ctx, "/categories", &categories); err != nil {
		return nil, mapBackendError(err, "カテゴリ一覧の取得に失敗しました")
	}
	for i := range categories {
		if strings.EqualFold(categories[i].Genre, genre) {
			return &categories[i], nil
		}
	}
	return nil, httperr.NotFound(fmt.Sprintf("カテゴリ %q が見つかりません", genre))
}
