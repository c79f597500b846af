package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/reader"
)

// ReaderController serves the page-by-page reading session endpoints.
type ReaderController struct {
	reader *reader.Service
}

func NewReaderController(svc *reader.Service) *ReaderController {
	return &ReaderController{reader: svc}
}

// Open starts or resumes a reading session for a book.
func (rc *ReaderController) Open(c *gin.Context) {
	view, err := rc.reader.Open(c.Request.Context(), GetUserID(c), c.Param("id"))
	rc.respond(c, view, err)
}

// Next advances one page.
func (rc *ReaderController) Next(c *gin.Context) {
	view, err := rc.reader.Next(c.Request.Context(), GetUserID(c), c.Param("id"))
	rc.respond(c, view, err)
}

// Previous goes back one page.
func (rc *ReaderController) Previous(c *gin.Context) {
	view, err := rc.reader.Previous(c.Request.Context(), GetUserID(c), c.Param("id"))
	rc.respond(c, view, err)
}

type goToPageRequest struct {
	PageIndex *int `json:"page_index" binding:"required"`
}

// GoToPage jumps to an absolute page index.
func (rc *ReaderController) GoToPage(c *gin.Context) {
	var req goToPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "page_index is required")
		return
	}

	view, err := rc.reader.GoToPage(c.Request.Context(), GetUserID(c), c.Param("id"), *req.PageIndex)
	rc.respond(c, view, err)
}

// Progress reports the stored reading position without loading text.
func (rc *ReaderController) Progress(c *gin.Context) {
	progress, err := rc.reader.Progress(GetUserID(c), c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "reading progress")
		return
	}
	c.JSON(200, progress)
}

func (rc *ReaderController) respond(c *gin.Context, view *reader.PageView, err error) {
	switch {
	case err == nil:
		c.JSON(200, view)
	case errors.Is(err, catalog.ErrBookNotFound):
		respondNotFound(c, "book")
	case errors.Is(err, reader.ErrNoPlainText):
		respondBadRequest(c, "book has no plain text format")
	case errors.Is(err, reader.ErrEmptyBook):
		respondBadRequest(c, "book text is empty")
	default:
		respondInternalError(c, err, "reading session")
	}
}
