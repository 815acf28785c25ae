// Package service assembles view models from the content store and renders
// them into finished documents. Both the HTTP server and the static build
// go through this package, so a page renders identically no matter which
// front end asked for it.
package service

import (
	"fmt"
	"strings"

	"github.com/keyloom/website/internal/site/content"
	"github.com/keyloom/website/internal/site/models"
	"github.com/keyloom/website/internal/site/view"
)

// Route binds a URL path to the file the static build writes and the
// render function that produces the body.
type Route struct {
	Path   string
	File   string
	Render func() ([]byte, error)
}

// PageService renders pages from the current content snapshot.
type PageService struct {
	store content.Store
	dev   bool
}

// NewPageService creates a PageService on top of store. When dev is set,
// rendered pages include the live reload client.
func NewPageService(store content.Store, dev bool) *PageService {
	return &PageService{store: store, dev: dev}
}

// Home renders the landing page.
func (s *PageService) Home() ([]byte, error) {
	site := s.store.Site()
	return view.Render("home", models.HomePage{
		PageData: s.pageData(site, site.Title, site.Description, "/", "website"),
	})
}

// BlogIndex renders the post list, newest first.
func (s *PageService) BlogIndex() ([]byte, error) {
	site := s.store.Site()
	return view.Render("blog", models.BlogIndexPage{
		PageData: s.pageData(site, "Blog · "+site.Title, "Guides and release notes from the "+site.Title+" team.", "/blog", "website"),
		Posts:    s.store.Posts(),
	})
}

// Post renders a single post. The returned error wraps content.ErrNotFound
// when no post has the given slug.
func (s *PageService) Post(slug string) ([]byte, error) {
	post, err := s.store.Post(slug)
	if err != nil {
		return nil, fmt.Errorf("render post: %w", err)
	}
	site := s.store.Site()
	return view.Render("post", models.PostPage{
		PageData: s.pageData(site, post.Title+" · "+site.Title, post.Description, "/blog/"+post.Slug, "article"),
		Post:     post,
	})
}

// NotFound renders the 404 page.
func (s *PageService) NotFound() ([]byte, error) {
	site := s.store.Site()
	return view.Render("notfound", models.NotFoundPage{
		PageData: s.pageData(site, "Page not found · "+site.Title, "The page you are looking for does not exist.", "", "website"),
	})
}

// Routes lists every document the site serves, in the order the static
// build writes them.
func (s *PageService) Routes() []Route {
	routes := []Route{
		{Path: "/", File: "index.html", Render: s.Home},
		{Path: "/blog", File: "blog/index.html", Render: s.BlogIndex},
	}
	for _, post := range s.store.Posts() {
		slug := post.Slug
		routes = append(routes, Route{
			Path:   "/blog/" + slug,
			File:   "blog/" + slug + "/index.html",
			Render: func() ([]byte, error) { return s.Post(slug) },
		})
	}
	return append(routes,
		Route{Path: "/404.html", File: "404.html", Render: s.NotFound},
		Route{Path: "/feed.xml", File: "feed.xml", Render: s.Feed},
		Route{Path: "/sitemap.xml", File: "sitemap.xml", Render: s.Sitemap},
		Route{Path: "/robots.txt", File: "robots.txt", Render: func() ([]byte, error) { return s.Robots(), nil }},
	)
}

func (s *PageService) pageData(site models.Site, title, description, path, ogType string) models.PageData {
	meta := models.PageMeta{
		Title:       title,
		Description: description,
		OGType:      ogType,
	}
	if path != "" {
		meta.Canonical = s.absoluteURL(site, path)
	}
	return models.PageData{Site: site, Meta: meta, Dev: s.dev}
}

// absoluteURL joins path onto the site base URL.
func (s *PageService) absoluteURL(site models.Site, path string) string {
	return strings.TrimRight(site.BaseURL, "/") + path
}
