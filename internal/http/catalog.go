package http

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/catalog"
)

// CatalogBrowser is the catalog access the HTTP layer needs.
type CatalogBrowser interface {
	GetBook(ctx context.Context, id string) (*catalog.Book, error)
	Search(ctx context.Context, query string, page int) (*catalog.BookPage, error)
	Browse(ctx context.Context, topic string, page int) (*catalog.BookPage, error)
}

// CatalogController serves book discovery endpoints backed by the
// upstream catalog.
type CatalogController struct {
	catalog CatalogBrowser
}

func NewCatalogController(cat CatalogBrowser) *CatalogController {
	return &CatalogController{catalog: cat}
}

// bookSummary is the catalog metadata shape returned to clients.
type bookSummary struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	CoverURL string   `json:"cover_url,omitempty"`
	TextURL  string   `json:"text_url,omitempty"`
	Subjects []string `json:"subjects,omitempty"`
	Summary  string   `json:"summary,omitempty"`
}

func summarize(book *catalog.Book) bookSummary {
	return bookSummary{
		ID:       book.ID,
		Title:    book.Title,
		Author:   book.Author(),
		CoverURL: book.CoverURL(),
		TextURL:  book.PlainTextURL(),
		Subjects: book.Subjects,
		Summary:  book.Summary,
	}
}

// GetBook returns metadata for a single catalog book.
func (cc *CatalogController) GetBook(c *gin.Context) {
	bookID := c.Param("id")

	book, err := cc.catalog.GetBook(c.Request.Context(), bookID)
	if errors.Is(err, catalog.ErrBookNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "catalog get book")
		return
	}

	c.JSON(200, summarize(book))
}

// ListBooks searches or browses the catalog. A "search" query takes
// precedence over a "topic" filter; with neither the endpoint browses
// the full catalog page by page.
func (cc *CatalogController) ListBooks(c *gin.Context) {
	query := c.Query("search")
	topic := c.Query("topic")
	page := parseQueryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}

	var (
		result *catalog.BookPage
		err    error
	)
	if query != "" {
		result, err = cc.catalog.Search(c.Request.Context(), query, page)
	} else {
		result, err = cc.catalog.Browse(c.Request.Context(), topic, page)
	}
	if err != nil {
		respondInternalError(c, err, "catalog list books")
		return
	}

	books := make([]bookSummary, 0, len(result.Books))
	for i := range result.Books {
		books = append(books, summarize(&result.Books[i]))
	}

	c.JSON(200, gin.H{
		"books":    books,
		"count":    result.Count,
		"page":     page,
		"has_next": result.HasNext,
	})
}
