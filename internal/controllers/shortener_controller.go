package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"shorter/internal/middleware"
	"shorter/internal/models"
	"shorter/internal/service"
)

type ShortenerController struct {
	urlService service.URLService
	logger     *slog.Logger
}

func NewShortenerController(urlService service.URLService, logger *slog.Logger) *ShortenerController {
	return &ShortenerController{
		urlService: urlService,
		logger:     logger,
	}
}

// CreateShortURL handles POST / with a form or JSON body
func (sc *ShortenerController) CreateShortURL(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.CreateURLRequest
	if err := c.ShouldBind(&req); err != nil {
		if fields, ok := fieldErrors(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"errors": fields})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	link, err := sc.urlService.Shorten(c.Request.Context(), req.URL, req.ShortURL, user)
	if err != nil {
		respondError(c, sc.logger, err, req.URL)
		return
	}

	c.JSON(http.StatusCreated, models.CreateURLResponse{
		URL:      link.URL,
		ShortURL: link.ShortCode,
	})
}

// GetUserURLs handles GET / - lists the caller's links, oldest first
func (sc *ShortenerController) GetUserURLs(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	links, err := sc.urlService.ListByOwner(c.Request.Context(), user)
	if err != nil {
		respondError(c, sc.logger, err, "")
		return
	}

	c.JSON(http.StatusOK, models.NewURLListResponse(links))
}

// GetURL handles GET /:code - returns link metadata without counting an access
func (sc *ShortenerController) GetURL(c *gin.Context) {
	link, err := sc.urlService.Lookup(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, sc.logger, err, "")
		return
	}

	c.JSON(http.StatusOK, models.NewURLResponse(link))
}

// RedirectToURL handles GET /:code/redirect
func (sc *ShortenerController) RedirectToURL(c *gin.Context) {
	longURL, err := sc.urlService.Resolve(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, sc.logger, err, "")
		return
	}

	c.Redirect(http.StatusFound, longURL)
}
