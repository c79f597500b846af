package http

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/library"
	"github.com/openshelf/openshelf/internal/tasks"
)

// LibraryController manages the authenticated user's saved books.
type LibraryController struct {
	library    *library.Store
	catalog    CatalogBrowser
	taskClient *tasks.Client
}

func NewLibraryController(lib *library.Store, cat CatalogBrowser, taskClient *tasks.Client) *LibraryController {
	return &LibraryController{
		library:    lib,
		catalog:    cat,
		taskClient: taskClient,
	}
}

// List returns the user's saved books, oldest first.
func (lc *LibraryController) List(c *gin.Context) {
	userID := GetUserID(c)

	entries, err := lc.library.List(userID)
	if err != nil {
		respondInternalError(c, err, "list library")
		return
	}

	c.JSON(200, gin.H{"books": entries, "count": len(entries)})
}

type addBookRequest struct {
	BookID string `json:"book_id" binding:"required"`
}

// Add looks up a book in the catalog and saves it to the user's
// library. The book's text is prefetched in the background so the
// first page opens without waiting on the mirror.
func (lc *LibraryController) Add(c *gin.Context) {
	userID := GetUserID(c)

	var req addBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id is required")
		return
	}

	book, err := lc.catalog.GetBook(c.Request.Context(), req.BookID)
	if errors.Is(err, catalog.ErrBookNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "catalog lookup for library add")
		return
	}

	entry := library.EntryFromBook(book)
	if err := lc.library.Add(userID, entry); err != nil {
		if errors.Is(err, library.ErrAlreadyInLibrary) {
			respondConflict(c, "book already in library")
			return
		}
		respondInternalError(c, err, "add to library")
		return
	}

	if lc.taskClient != nil {
		if _, err := lc.taskClient.Add(tasks.PrefetchTextTask{BookID: book.ID}).Save(); err != nil {
			// The book is saved; text just loads lazily on first open.
			log.Printf("Failed to enqueue text prefetch for book %s: %v", book.ID, err)
		}
	}

	respondCreated(c, entry)
}

// Remove drops a book from the user's library.
func (lc *LibraryController) Remove(c *gin.Context) {
	userID := GetUserID(c)
	bookID := c.Param("id")

	if err := lc.library.Remove(userID, bookID); err != nil {
		respondInternalError(c, err, "remove from library")
		return
	}
	respondSuccess(c, "book removed")
}

// Refresh queues a catalog metadata refresh for the user's library.
// Without a task queue the refresh runs inline.
func (lc *LibraryController) Refresh(c *gin.Context) {
	userID := GetUserID(c)

	if lc.taskClient != nil {
		if _, err := lc.taskClient.Add(tasks.RefreshLibraryTask{UserID: userID}).Save(); err != nil {
			respondInternalError(c, err, "enqueue library refresh")
			return
		}
		respondAccepted(c, "library refresh queued", nil)
		return
	}

	if err := lc.library.Refresh(c.Request.Context(), userID); err != nil {
		respondInternalError(c, err, "refresh library")
		return
	}
	respondSuccess(c, "library refreshed")
}
