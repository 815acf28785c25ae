// Package handlers wires the rendered pages into gin routes.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/keyloom/website/internal/app/server/middleware"
	"github.com/keyloom/website/internal/app/server/service"
	"github.com/keyloom/website/internal/livereload"
	"github.com/keyloom/website/internal/site/assets"
	"github.com/keyloom/website/internal/site/content"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeXML  = "application/xml; charset=utf-8"
	contentTypeRSS  = "application/rss+xml; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"

	staticMaxAge = 24 * time.Hour
)

type Handler struct {
	svc    *service.PageService
	logger *logrus.Logger
	hub    *livereload.Hub
}

// NewHandler creates the route handler set. hub may be nil when live
// reload is disabled.
func NewHandler(svc *service.PageService, logger *logrus.Logger, hub *livereload.Hub) *Handler {
	return &Handler{svc: svc, logger: logger, hub: hub}
}

func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.GET("/", h.homeHandler)
	router.GET("/blog", h.blogIndexHandler)
	router.GET("/blog/:slug", h.postHandler)
	router.GET("/feed.xml", h.feedHandler)
	router.GET("/sitemap.xml", h.sitemapHandler)
	router.GET("/robots.txt", h.robotsHandler)

	static := router.Group("/static", middleware.CacheControl(staticMaxAge))
	static.StaticFS("/", http.FS(assets.FS))

	if h.hub != nil {
		router.GET("/livereload", func(c *gin.Context) {
			h.hub.ServeWS(c.Writer, c.Request)
		})
	}

	router.NoRoute(h.notFoundHandler)
}

func (h *Handler) homeHandler(c *gin.Context) {
	h.renderPage(c, h.svc.Home)
}

func (h *Handler) blogIndexHandler(c *gin.Context) {
	h.renderPage(c, h.svc.BlogIndex)
}

func (h *Handler) postHandler(c *gin.Context) {
	body, err := h.svc.Post(c.Param("slug"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			h.notFoundHandler(c)
			return
		}
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentTypeHTML, body)
}

// notFoundHandler serves the rendered 404 page for any unknown path.
func (h *Handler) notFoundHandler(c *gin.Context) {
	body, err := h.svc.NotFound()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusNotFound, contentTypeHTML, body)
}

func (h *Handler) feedHandler(c *gin.Context) {
	body, err := h.svc.Feed()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentTypeRSS, body)
}

func (h *Handler) sitemapHandler(c *gin.Context) {
	body, err := h.svc.Sitemap()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentTypeXML, body)
}

func (h *Handler) robotsHandler(c *gin.Context) {
	c.Data(http.StatusOK, contentTypeText, h.svc.Robots())
}

func (h *Handler) renderPage(c *gin.Context, render func() ([]byte, error)) {
	body, err := render()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentTypeHTML, body)
}

func (h *Handler) fail(c *gin.Context, err error) {
	h.logger.WithError(err).Error("render failed")
	c.String(http.StatusInternalServerError, "internal error")
}
