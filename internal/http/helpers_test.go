package http

import (
	"context"
	"errors"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/entities"
	"github.com/openshelf/openshelf/internal/kvstore"
)

// fakeCatalog backs catalog-dependent controllers in tests.
type fakeCatalog struct {
	books map[string]*catalog.Book
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{books: map[string]*catalog.Book{
		"1342": {
			ID:      "1342",
			Title:   "Pride and Prejudice",
			Authors: []string{"Austen, Jane"},
			Formats: map[string]string{
				"image/jpeg":                   "https://example.com/1342.jpg",
				"text/plain; charset=us-ascii": "https://example.com/1342.txt",
			},
			Subjects: []string{"Fiction"},
		},
	}}
}

func (f *fakeCatalog) GetBook(_ context.Context, id string) (*catalog.Book, error) {
	book, ok := f.books[id]
	if !ok {
		return nil, catalog.ErrBookNotFound
	}
	return book, nil
}

func (f *fakeCatalog) Search(_ context.Context, query string, page int) (*catalog.BookPage, error) {
	if query == "" {
		return nil, errors.New("search query is required")
	}
	return f.page(), nil
}

func (f *fakeCatalog) Browse(_ context.Context, topic string, page int) (*catalog.BookPage, error) {
	return f.page(), nil
}

func (f *fakeCatalog) page() *catalog.BookPage {
	books := make([]catalog.Book, 0, len(f.books))
	for _, b := range f.books {
		books = append(books, *b)
	}
	return &catalog.BookPage{Count: len(books), Books: books}
}

// newTestDB opens an in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.KVRecord{}, &entities.UserSettings{}))
	return db
}

// newTestKV builds a key-value store on an in-memory database.
func newTestKV(t *testing.T) *kvstore.Store {
	t.Helper()
	return kvstore.New(newTestDB(t))
}

// newTestRouter builds a bare router with a fixed authenticated user.
func newTestRouter(userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("auth_user_id", userID)
		c.Next()
	})
	return router
}
