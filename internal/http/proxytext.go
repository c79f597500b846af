package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/gutenberg"
)

// ProxyTextController fetches book text server-side so clients never
// hit the upstream mirrors (which lack CORS headers) directly.
type ProxyTextController struct {
	fetcher *gutenberg.Fetcher
}

func NewProxyTextController(fetcher *gutenberg.Fetcher) *ProxyTextController {
	return &ProxyTextController{fetcher: fetcher}
}

// GetText downloads the text behind a URL, strips the licensing
// boilerplate and returns the cleaned body as plain text.
func (pc *ProxyTextController) GetText(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		respondBadRequest(c, "url parameter is required")
		return
	}

	text, err := pc.fetcher.FetchText(c.Request.Context(), url)
	if err != nil {
		respondInternalError(c, err, "proxy text fetch")
		return
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}
