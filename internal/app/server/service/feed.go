package service

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/gorilla/feeds"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Feed renders the blog RSS feed. Item order follows the post list, and
// the channel date is the newest post date, so the feed only changes when
// content does.
func (s *PageService) Feed() ([]byte, error) {
	site := s.store.Site()
	posts := s.store.Posts()

	feed := &feeds.Feed{
		Title:       site.Title,
		Link:        &feeds.Link{Href: s.absoluteURL(site, "/")},
		Description: site.Description,
		Author:      &feeds.Author{Name: site.Author},
	}
	if len(posts) > 0 {
		feed.Created = posts[0].Date
	}
	for _, post := range posts {
		author := post.Author
		if author == "" {
			author = site.Author
		}
		link := s.absoluteURL(site, "/blog/"+post.Slug)
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          link,
			Title:       post.Title,
			Link:        &feeds.Link{Href: link},
			Description: post.Description,
			Author:      &feeds.Author{Name: author},
			Created:     post.Date,
			Content:     string(post.HTML),
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		return nil, fmt.Errorf("render feed: %w", err)
	}
	return []byte(rss), nil
}

// Sitemap renders the XML sitemap covering every indexable page.
func (s *PageService) Sitemap() ([]byte, error) {
	site := s.store.Site()
	posts := s.store.Posts()

	var lastMod string
	if len(posts) > 0 {
		lastMod = posts[0].Date.Format(time.DateOnly)
	}
	set := urlSet{
		Xmlns: sitemapNS,
		URLs: []sitemapURL{
			{Loc: s.absoluteURL(site, "/"), LastMod: lastMod},
			{Loc: s.absoluteURL(site, "/blog"), LastMod: lastMod},
		},
	}
	for _, post := range posts {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     s.absoluteURL(site, "/blog/"+post.Slug),
			LastMod: post.Date.Format(time.DateOnly),
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render sitemap: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// Robots renders robots.txt pointing crawlers at the sitemap.
func (s *PageService) Robots() []byte {
	site := s.store.Site()
	return []byte(fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s\n", s.absoluteURL(site, "/sitemap.xml")))
}
